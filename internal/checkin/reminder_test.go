package checkin

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcheck/mindcheck/internal/assessment"
	"github.com/mindcheck/mindcheck/internal/store"
)

func TestReminderStatus(t *testing.T) {
	taken := at(2026, 6, 1, 9)
	r := Reminder{IntervalDays: 14, LastTaken: taken, NextDue: taken.AddDate(0, 0, 14)}

	tests := []struct {
		name      string
		now       time.Time
		status    Status
		daysUntil int
	}{
		{"next day", at(2026, 6, 2, 9), StatusNotDue, 13},
		{"on due date", at(2026, 6, 15, 9), StatusDue, 0},
		{"within grace", at(2026, 6, 20, 9), StatusDue, 0},
		{"past grace", at(2026, 6, 23, 9), StatusOverdue, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, r.Status(tt.now))
			assert.Equal(t, tt.daysUntil, r.DaysUntil(tt.now))
		})
	}

	never := Reminder{IntervalDays: 14}
	assert.Equal(t, StatusNever, never.Status(at(2026, 6, 2, 9)))
	assert.True(t, never.IsDue(at(2026, 6, 2, 9)))
	assert.Zero(t, never.OverdueDays(at(2026, 6, 2, 9)))
}

func TestReminders_Ordering(t *testing.T) {
	cat := assessment.MustBuiltin()
	now := at(2026, 6, 30, 12)
	latest := map[string]time.Time{
		"gad7":   at(2026, 6, 25, 9), // 14d, not due
		"phq9":   at(2026, 6, 1, 9),  // 14d, 15 days overdue
		"stress": at(2026, 5, 25, 9), // 30d, 6 days overdue
	}

	rs := Reminders(cat.All(), latest, now)
	require.Len(t, rs, cat.Len())

	ids := make([]string, len(rs))
	for i, r := range rs {
		ids[i] = r.AssessmentID
	}
	assert.Equal(t, []string{"phq9", "stress", "wellbeing", "selfesteem", "gad7"}, ids)
	assert.Equal(t, 4, DueCount(rs, now))
}

func TestReminders_SkipsNoInterval(t *testing.T) {
	list := []assessment.Assessment{{ID: "a", RecheckDays: 0}, {ID: "b", RecheckDays: 7}}
	rs := Reminders(list, nil, at(2026, 1, 1, 0))
	require.Len(t, rs, 1)
	assert.Equal(t, "b", rs[0].AssessmentID)
}

func TestLoad(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	repo := s.ResultRepo()
	now := at(2026, 6, 10, 18)
	save := func(id, assessmentID string, when time.Time) {
		require.NoError(t, repo.Save(ctx, &store.Result{
			AttemptID: id, AssessmentID: assessmentID, AssessmentVersion: "v1.0.0",
			Level: "minimal", LevelLabel: "Minimal", Answers: map[int]int{}, TakenAt: when,
		}))
	}
	save("1", "gad7", at(2026, 6, 9, 9))
	save("2", "gad7", at(2026, 6, 10, 9))
	save("3", "phq9", at(2026, 5, 1, 9))

	sum, err := Load(ctx, repo, assessment.MustBuiltin(), now)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 2, sum.Streak.Current)

	gad, ok := sum.Reminder("gad7")
	require.True(t, ok)
	assert.True(t, gad.LastTaken.Equal(at(2026, 6, 10, 9)), "latest gad7 result wins")
	assert.False(t, gad.IsDue(now))

	due := sum.Due(now)
	assert.Len(t, due, 4)
	assert.Equal(t, "phq9", due[0].AssessmentID)
}
