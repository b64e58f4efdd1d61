// Package scoring turns a complete answer set into a total score and its
// interpretation. Everything here is pure: same input, same output, no
// state.
package scoring

import (
	"fmt"
	"sort"

	"github.com/mindcheck/mindcheck/internal/assessment"
)

// Level identifies an interpretation band. Rank 0 is the best band for
// the assessment regardless of scoring direction.
type Level struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Rank  int    `json:"rank"`
}

// ResultInterpretation is the outcome of scoring one attempt.
type ResultInterpretation struct {
	AssessmentID      string   `json:"assessment_id"`
	AssessmentVersion string   `json:"assessment_version"`
	TotalScore        int      `json:"total_score"`
	MaxScore          int      `json:"max_score"`
	Level             Level    `json:"level"`
	Description       string   `json:"description"`
	Recommendation    string   `json:"recommendation"`
	Alerts            []string `json:"alerts,omitempty"`
}

// Percent returns the score as a share of the maximum, 0..100.
func (r ResultInterpretation) Percent() float64 {
	if r.MaxScore == 0 {
		return 0
	}
	return float64(r.TotalScore) / float64(r.MaxScore) * 100
}

// CheckComplete returns nil when answers holds a valid value for every
// question of a and nothing else. Otherwise it returns an
// *assessment.ValidationError naming the problem.
func CheckComplete(a assessment.Assessment, answers assessment.AnswerSet) error {
	var missing []int
	for _, q := range a.Questions {
		v, ok := answers[q.ID]
		if !ok {
			missing = append(missing, q.ID)
			continue
		}
		if !q.HasValue(v) {
			return &assessment.ValidationError{
				Field:   fmt.Sprintf("question %d", q.ID),
				Message: fmt.Sprintf("%d is not a valid option", v),
			}
		}
	}
	if len(missing) > 0 {
		return assessment.IncompleteError(missing)
	}

	if len(answers) != len(a.Questions) {
		var unknown []int
		for id := range answers {
			if _, ok := a.Question(id); !ok {
				unknown = append(unknown, id)
			}
		}
		sort.Ints(unknown)
		return &assessment.ValidationError{
			Field:   "answers",
			Message: fmt.Sprintf("unknown question id(s) %v", unknown),
		}
	}
	return nil
}

// Score validates answers and interprets the total against a's bands.
// Incomplete or invalid input returns an *assessment.ValidationError; no
// partial score is ever produced.
func Score(a assessment.Assessment, answers assessment.AnswerSet) (ResultInterpretation, error) {
	if err := CheckComplete(a, answers); err != nil {
		return ResultInterpretation{}, err
	}

	total := answers.Total()
	band, rank := BandFor(a, total)

	res := ResultInterpretation{
		AssessmentID:      a.ID,
		AssessmentVersion: a.Version,
		TotalScore:        total,
		MaxScore:          a.MaxScore,
		Level:             Level{ID: band.Level, Label: band.Label, Rank: rank},
		Description:       band.Description,
		Recommendation:    band.Recommendation,
	}
	for _, q := range a.Questions {
		if q.Alert != nil && answers[q.ID] >= q.Alert.MinValue {
			res.Alerts = append(res.Alerts, q.Alert.Message)
		}
	}
	return res, nil
}

// ScoreByID resolves id through the catalog and scores answers.
// Unknown ids follow the catalog's Resolve semantics.
func ScoreByID(c *assessment.Catalog, id string, strict bool, answers assessment.AnswerSet) (ResultInterpretation, error) {
	a, err := c.Resolve(id, strict)
	if err != nil {
		return ResultInterpretation{}, err
	}
	return Score(a, answers)
}

// BandFor returns the band a total falls into and its rank.
// Bands are checked in table order and the first match wins; for
// higher-is-worse tables that is the first upper bound >= total, for
// higher-is-better the first lower bound <= total. The trailing catch-all
// always matches.
//
// Both directions list the best band first, so the rank is the table index.
func BandFor(a assessment.Assessment, total int) (assessment.Band, int) {
	bands := a.Scoring.Bands
	for i, b := range bands {
		if b.Contains(total) {
			return b, i
		}
	}
	// Unreachable for validated assessments.
	return bands[len(bands)-1], len(bands) - 1
}

// Levels lists every level of a from best to worst.
func Levels(a assessment.Assessment) []Level {
	out := make([]Level, len(a.Scoring.Bands))
	for i, b := range a.Scoring.Bands {
		out[i] = Level{ID: b.Level, Label: b.Label, Rank: i}
	}
	return out
}
