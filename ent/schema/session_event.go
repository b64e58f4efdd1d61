package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records attempt lifecycle events (start, resume, submit, abandon).
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("attempt_id").
			NotEmpty().
			Comment("UUID grouping events of one attempt"),
		field.String("assessment_id").
			NotEmpty(),
		field.String("action").
			NotEmpty().
			Comment("start, resume, submit or abandon"),
		field.Int("answered").
			Default(0).
			Comment("Questions answered when the event was recorded"),
		field.Int("total_score").
			Optional().
			Comment("Score on submit only"),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("attempt_id"),
		index.Fields("action"),
	}
}
