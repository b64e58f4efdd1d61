package scoring

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcheck/mindcheck/internal/assessment"
)

var catalog = assessment.MustBuiltin()

func uniform(a assessment.Assessment, v int) assessment.AnswerSet {
	answers := make(assessment.AnswerSet, len(a.Questions))
	for _, q := range a.Questions {
		answers[q.ID] = v
	}
	return answers
}

// answersFor builds an answer set for a with the given total, filling
// questions greedily with their highest values.
func answersFor(t *testing.T, a assessment.Assessment, total int) assessment.AnswerSet {
	t.Helper()
	answers := make(assessment.AnswerSet, len(a.Questions))
	remaining := total - a.MinScore()
	for _, q := range a.Questions {
		room := q.MaxValue() - q.MinValue()
		step := room
		if remaining < room {
			step = remaining
		}
		answers[q.ID] = q.MinValue() + step
		remaining -= step
	}
	require.Zero(t, remaining, "total %d not reachable for %s", total, a.ID)
	return answers
}

func TestScore_GAD7AllOnesIsMild(t *testing.T) {
	a := catalog.Get("gad7")
	res, err := Score(a, uniform(a, 1))
	require.NoError(t, err)
	assert.Equal(t, 7, res.TotalScore)
	assert.Equal(t, "mild", res.Level.ID)
	assert.Equal(t, "Mild", res.Level.Label)
	assert.Equal(t, 21, res.MaxScore)
}

func TestScore_GAD7AllThreesIsSevere(t *testing.T) {
	a := catalog.Get("gad7")
	res, err := Score(a, uniform(a, 3))
	require.NoError(t, err)
	assert.Equal(t, 21, res.TotalScore)
	assert.Equal(t, "severe", res.Level.ID)
	assert.Equal(t, 3, res.Level.Rank)
}

func TestScore_GAD7Boundaries(t *testing.T) {
	a := catalog.Get("gad7")
	tests := []struct {
		total int
		level string
	}{
		{0, "minimal"}, {4, "minimal"},
		{5, "mild"}, {9, "mild"},
		{10, "moderate"}, {14, "moderate"},
		{15, "severe"}, {21, "severe"},
	}
	for _, tt := range tests {
		res, err := Score(a, answersFor(t, a, tt.total))
		if err != nil {
			t.Fatalf("total %d: %v", tt.total, err)
		}
		if res.Level.ID != tt.level {
			t.Errorf("total %d: level = %q, want %q", tt.total, res.Level.ID, tt.level)
		}
	}
}

func TestScore_HigherIsBetter(t *testing.T) {
	a := catalog.Get("wellbeing")
	tests := []struct {
		total int
		level string
	}{
		{50, "excellent"}, {45, "excellent"},
		{44, "good"}, {35, "good"},
		{34, "fair"}, {25, "fair"},
		{24, "low"}, {10, "low"},
	}
	for _, tt := range tests {
		res, err := Score(a, answersFor(t, a, tt.total))
		if err != nil {
			t.Fatalf("total %d: %v", tt.total, err)
		}
		if res.Level.ID != tt.level {
			t.Errorf("total %d: level = %q, want %q", tt.total, res.Level.ID, tt.level)
		}
	}

	best, _ := Score(a, uniform(a, 5))
	worst, _ := Score(a, uniform(a, 1))
	if best.Level.Rank != 0 {
		t.Errorf("top wellbeing rank = %d, want 0", best.Level.Rank)
	}
	if worst.Level.Rank <= best.Level.Rank {
		t.Error("low wellbeing should rank worse than excellent")
	}
}

// Every total in [0, max] is owned by exactly one band interval, and ranks
// never improve as the score moves in the worse direction. Totals below an
// assessment's reachable minimum are included.
func TestBandFor_ExhaustiveAndMonotonic(t *testing.T) {
	wb := catalog.Get("wellbeing")
	if wb.MinScore() == 0 {
		t.Fatal("expected wellbeing to have a non-zero reachable minimum")
	}

	for _, a := range catalog.All() {
		prevRank := -1
		start, end, step := 0, a.MaxScore, 1
		if a.Scoring.Direction == assessment.HigherIsBetter {
			start, end, step = a.MaxScore, 0, -1
		}
		for total := start; ; total += step {
			if n := owners(a, total); n != 1 {
				t.Errorf("%s total %d owned by %d bands", a.ID, total, n)
			}
			_, rank := BandFor(a, total)
			if rank < prevRank {
				t.Errorf("%s total %d rank %d improved from %d", a.ID, total, rank, prevRank)
			}
			prevRank = rank
			if total == end {
				break
			}
		}
		if prevRank != len(a.Scoring.Bands)-1 {
			t.Errorf("%s: worst total reached rank %d, want %d", a.ID, prevRank, len(a.Scoring.Bands)-1)
		}
	}
}

// owners counts the bands whose half-open interval, bounded by the
// previous band's bound, contains total.
func owners(a assessment.Assessment, total int) int {
	n := 0
	worse := a.Scoring.Direction == assessment.HigherIsWorse
	var prev *int
	for _, b := range a.Scoring.Bands {
		var in bool
		switch {
		case worse && b.Max != nil:
			in = total <= *b.Max && (prev == nil || total > *prev)
			prev = b.Max
		case !worse && b.Min != nil:
			in = total >= *b.Min && (prev == nil || total < *prev)
			prev = b.Min
		case worse:
			in = prev == nil || total > *prev
		default:
			in = prev == nil || total < *prev
		}
		if in {
			n++
		}
	}
	return n
}

func TestScore_Incomplete(t *testing.T) {
	a := catalog.Get("gad7")
	answers := uniform(a, 1)
	delete(answers, 7)
	delete(answers, 3)

	_, err := Score(a, answers)
	var ve *assessment.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	assert.Contains(t, ve.Message, "incomplete")
	assert.Contains(t, ve.Message, "3, 7")
}

func TestScore_InvalidValue(t *testing.T) {
	a := catalog.Get("gad7")
	answers := uniform(a, 1)
	answers[2] = 4

	_, err := Score(a, answers)
	var ve *assessment.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "question 2", ve.Field)
}

func TestScore_UnknownQuestion(t *testing.T) {
	a := catalog.Get("gad7")
	answers := uniform(a, 0)
	answers[42] = 1

	_, err := Score(a, answers)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "42"))
}

func TestScore_Pure(t *testing.T) {
	a := catalog.Get("phq9")
	answers := uniform(a, 2)
	before := answers.Clone()

	r1, err1 := Score(a, answers)
	r2, err2 := Score(a, answers)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.True(t, reflect.DeepEqual(r1, r2))
	assert.Equal(t, before, answers, "Score must not modify its input")
}

func TestScore_Alerts(t *testing.T) {
	a := catalog.Get("phq9")
	answers := uniform(a, 0)

	res, err := Score(a, answers)
	require.NoError(t, err)
	assert.Empty(t, res.Alerts)

	answers[9] = 1
	res, err = Score(a, answers)
	require.NoError(t, err)
	require.Len(t, res.Alerts, 1)
	assert.Contains(t, res.Alerts[0], "self-harm")
	assert.Equal(t, "minimal", res.Level.ID, "alerts do not change the band")
}

func TestScore_ReverseKeyedStress(t *testing.T) {
	a := catalog.Get("stress")
	// Option index 0 ("Never") on every item.
	answers := make(assessment.AnswerSet)
	for _, q := range a.Questions {
		answers[q.ID] = q.Options[0].Value
	}
	res, err := Score(a, answers)
	require.NoError(t, err)
	// Four reverse-keyed items score 4 each for "Never".
	assert.Equal(t, 16, res.TotalScore)
	assert.Equal(t, "moderate", res.Level.ID)
}

func TestScoreByID(t *testing.T) {
	a := catalog.Get("gad7")
	res, err := ScoreByID(catalog, "unknown", false, uniform(a, 0))
	require.NoError(t, err)
	assert.Equal(t, "gad7", res.AssessmentID)

	_, err = ScoreByID(catalog, "unknown", true, uniform(a, 0))
	var nf *assessment.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestLevels(t *testing.T) {
	levels := Levels(catalog.Get("phq9"))
	require.Len(t, levels, 5)
	assert.Equal(t, "minimal", levels[0].ID)
	assert.Equal(t, "severe", levels[4].ID)
	assert.Equal(t, 4, levels[4].Rank)
}

func TestPercent(t *testing.T) {
	r := ResultInterpretation{TotalScore: 7, MaxScore: 21}
	assert.InDelta(t, 33.33, r.Percent(), 0.01)
	assert.Zero(t, ResultInterpretation{}.Percent())
}
