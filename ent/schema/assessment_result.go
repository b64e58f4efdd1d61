package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AssessmentResult is one scored, completed attempt.
type AssessmentResult struct {
	ent.Schema
}

func (AssessmentResult) Fields() []ent.Field {
	return []ent.Field{
		field.String("attempt_id").
			NotEmpty().
			Unique().
			Immutable().
			Comment("UUID of the attempt that produced the result"),
		field.String("assessment_id").
			NotEmpty().
			Comment("Catalog id, e.g. gad7"),
		field.String("assessment_version").
			Comment("Catalog semver the attempt was scored under"),
		field.Int("total_score"),
		field.Int("max_score"),
		field.String("level").
			Comment("Band level id"),
		field.String("level_label"),
		field.Int("level_rank").
			Comment("0 is the best band"),
		field.JSON("answers", map[string]int{}).
			Comment("Question id to chosen value"),
		field.JSON("alerts", []string{}).
			Optional().
			Comment("Critical item messages raised by the answers"),
		field.String("note").
			Default("").
			Comment("Free text the user attached to the result"),
		field.Time("taken_at").
			Immutable().
			Comment("UTC time the attempt was submitted"),
	}
}

func (AssessmentResult) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("assessment_id", "taken_at"),
		index.Fields("taken_at"),
	}
}
