package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/mindcheck/mindcheck/internal/assessment"
	"github.com/mindcheck/mindcheck/internal/scoring"
	"github.com/mindcheck/mindcheck/internal/session"
	"github.com/mindcheck/mindcheck/internal/store"
	"github.com/mindcheck/mindcheck/internal/ui/markdown"
)

const textWidth = 76

var (
	headStyle = color.New(color.FgCyan, color.Bold)
	dimStyle  = color.New(color.Faint)
	alertText = color.New(color.FgRed, color.Bold)
)

// levelColor maps a band rank onto green, yellow and red.
func levelColor(rank, count int) *color.Color {
	switch {
	case rank <= 0:
		return color.New(color.FgGreen, color.Bold)
	case count > 0 && rank >= count-1:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgYellow, color.Bold)
	}
}

// bandCount is the number of bands of an assessment, or 3 when the
// catalog no longer knows it.
func bandCount(cat *assessment.Catalog, id string) int {
	if cat.Has(id) {
		return len(cat.Get(id).Scoring.Bands)
	}
	return 3
}

func printResult(w io.Writer, a assessment.Assessment, res scoring.ResultInterpretation) {
	headStyle.Fprintln(w, a.Title)
	fmt.Fprintf(w, "Score: %d / %d   Level: ", res.TotalScore, res.MaxScore)
	levelColor(res.Level.Rank, len(a.Scoring.Bands)).Fprintln(w, res.Level.Label)

	if res.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, markdown.Plain(res.Description, textWidth))
	}
	if res.Recommendation != "" {
		fmt.Fprintln(w)
		headStyle.Fprintln(w, "What may help")
		fmt.Fprintln(w, markdown.Plain(res.Recommendation, textWidth))
	}
	for _, msg := range res.Alerts {
		fmt.Fprintln(w)
		alertText.Fprintln(w, "! "+markdown.Plain(msg, textWidth-2))
	}
	fmt.Fprintln(w)
	dimStyle.Fprintln(w, "This is a self-check, not a diagnosis.")
}

// saveAttempt stores a submitted attempt and records its submit event.
func saveAttempt(ctx context.Context, st *store.Store, at *session.Attempt, res scoring.ResultInterpretation) error {
	rec := store.NewResult(at.ID(), res, at.Answers(), at.CompletedAt())
	if err := st.ResultRepo().Save(ctx, &rec); err != nil {
		return err
	}
	total := res.TotalScore
	return st.EventRepo().AppendSessionEvent(ctx, store.SessionEventData{
		AttemptID:    at.ID(),
		AssessmentID: res.AssessmentID,
		Action:       store.ActionSubmit,
		Answered:     at.AnsweredCount(),
		TotalScore:   &total,
	})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func rule(w io.Writer, n int) {
	fmt.Fprintln(w, strings.Repeat("─", n))
}
