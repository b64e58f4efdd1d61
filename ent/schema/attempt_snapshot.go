package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AttemptSnapshot captures an unfinished attempt so it can be resumed.
type AttemptSnapshot struct {
	ent.Schema
}

func (AttemptSnapshot) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").
			Comment("Event sequence number at the time of snapshot"),
		field.Time("timestamp").
			Default(time.Now).
			Comment("When the snapshot was taken"),
		field.String("attempt_id").
			NotEmpty(),
		field.String("assessment_id").
			NotEmpty(),
		field.JSON("data", map[string]any{}).
			Comment("Serialized attempt state"),
	}
}

func (AttemptSnapshot) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("timestamp"),
		index.Fields("sequence"),
	}
}
