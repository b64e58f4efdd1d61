// Package checkin derives day streaks and re-check reminders from stored
// results.
package checkin

import (
	"context"
	"fmt"
	"time"

	"github.com/mindcheck/mindcheck/internal/assessment"
	"github.com/mindcheck/mindcheck/internal/store"
)

// Summary is what the home screen shows about the user's check-in habit.
type Summary struct {
	Streak    Streak
	Reminders []Reminder
	Total     int // stored results
}

// Due returns the reminders due at now.
func (s Summary) Due(now time.Time) []Reminder {
	var out []Reminder
	for _, r := range s.Reminders {
		if r.IsDue(now) {
			out = append(out, r)
		}
	}
	return out
}

// Reminder returns the reminder for an assessment id.
func (s Summary) Reminder(id string) (Reminder, bool) {
	for _, r := range s.Reminders {
		if r.AssessmentID == id {
			return r, true
		}
	}
	return Reminder{}, false
}

// Load reads every stored result once and derives the summary.
func Load(ctx context.Context, repo store.ResultRepo, cat *assessment.Catalog, now time.Time) (Summary, error) {
	results, err := repo.List(ctx, store.QueryOpts{})
	if err != nil {
		return Summary{}, fmt.Errorf("load results: %w", err)
	}

	times := make([]time.Time, len(results))
	latest := make(map[string]time.Time)
	for i, r := range results {
		times[i] = r.TakenAt
		// List is newest first.
		if _, ok := latest[r.AssessmentID]; !ok {
			latest[r.AssessmentID] = r.TakenAt
		}
	}

	return Summary{
		Streak:    ComputeStreak(times, now),
		Reminders: Reminders(cat.All(), latest, now),
		Total:     len(results),
	}, nil
}
