package assessment

import (
	"strings"
	"testing"
)

func intp(v int) *int { return &v }

func yesNo(id int) Question {
	return Question{ID: id, Text: "q", Options: []Option{{0, "No"}, {1, "Yes"}}}
}

func worseAssessment(bands ...Band) Assessment {
	return Assessment{
		ID:        "t",
		Title:     "T",
		Version:   "v1.0.0",
		MaxScore:  3,
		Questions: []Question{yesNo(1), yesNo(2), yesNo(3)},
		Scoring:   Scoring{Direction: HigherIsWorse, Bands: bands},
	}
}

func TestValidateAssessment_Valid(t *testing.T) {
	a := worseAssessment(
		Band{Level: "low", Label: "Low", Max: intp(1)},
		Band{Level: "high", Label: "High"},
	)
	if err := validateAssessment(a); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateAssessment_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Assessment)
		want   string
	}{
		{"bad semver", func(a *Assessment) { a.Version = "1.0" }, "semver"},
		{"duplicate question", func(a *Assessment) { a.Questions[1].ID = 1 }, "duplicate question id"},
		{"duplicate option value", func(a *Assessment) {
			a.Questions[0].Options[1].Value = 0
			a.MaxScore = 2
		}, "duplicate option value"},
		{"gap in ids", func(a *Assessment) { a.Questions[2].ID = 5 }, "sequential"},
		{"max mismatch", func(a *Assessment) { a.MaxScore = 9 }, "max_score"},
		{"unreachable alert", func(a *Assessment) {
			a.Questions[0].Alert = &Alert{MinValue: 5, Message: "x"}
		}, "never be reached"},
		{"no catch-all", func(a *Assessment) {
			a.Scoring.Bands[1].Max = intp(3)
		}, "no bound"},
		{"not ascending", func(a *Assessment) {
			a.Scoring.Bands = []Band{
				{Level: "a", Label: "A", Max: intp(2)},
				{Level: "b", Label: "B", Max: intp(1)},
				{Level: "c", Label: "C"},
			}
		}, "not ascending"},
		{"bound at max leaves catch-all empty", func(a *Assessment) {
			a.Scoring.Bands[0].Max = intp(3)
		}, "outside"},
		{"wrong bound kind", func(a *Assessment) {
			a.Scoring.Bands[0].Max = nil
			a.Scoring.Bands[0].Min = intp(1)
		}, "needs max"},
		{"duplicate level", func(a *Assessment) { a.Scoring.Bands[1].Level = "low" }, "duplicate band level"},
		{"unknown direction", func(a *Assessment) { a.Scoring.Direction = "up" }, "direction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := worseAssessment(
				Band{Level: "low", Label: "Low", Max: intp(1)},
				Band{Level: "high", Label: "High"},
			)
			tt.mutate(&a)
			err := validateAssessment(a)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error should mention %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestValidateBands_HigherIsBetter(t *testing.T) {
	a := worseAssessment(
		Band{Level: "great", Label: "Great", Min: intp(3)},
		Band{Level: "ok", Label: "OK", Min: intp(1)},
		Band{Level: "poor", Label: "Poor"},
	)
	a.Scoring.Direction = HigherIsBetter
	if errs := validateBands(a); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}

	a.Scoring.Bands[1].Min = intp(0)
	if errs := validateBands(a); len(errs) == 0 {
		t.Error("min equal to the lowest score leaves the catch-all empty and should fail")
	}
}
