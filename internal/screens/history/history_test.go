package history

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcheck/mindcheck/internal/assessment"
	"github.com/mindcheck/mindcheck/internal/screen"
	"github.com/mindcheck/mindcheck/internal/scoring"
	"github.com/mindcheck/mindcheck/internal/session"
	"github.com/mindcheck/mindcheck/internal/store"
)

func testEnv(t *testing.T) *screen.Env {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return &screen.Env{
		Catalog:      assessment.MustBuiltin(),
		Results:      s.ResultRepo(),
		Snapshots:    s.SnapshotRepo(),
		Events:       s.EventRepo(),
		HistoryLimit: 50,
	}
}

func result(id, assessmentID, version string, total int, level string, rank int, at time.Time) store.Result {
	return store.Result{
		AttemptID: id, AssessmentID: assessmentID, AssessmentVersion: version,
		TotalScore: total, MaxScore: 21, Level: level, LevelLabel: strings.ToUpper(level[:1]) + level[1:],
		LevelRank: rank, Answers: map[int]int{}, TakenAt: at,
	}
}

func seed(t *testing.T, env *screen.Env) {
	t.Helper()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for _, r := range []store.Result{
		result("g-old", "gad7", "v1.0.0", 12, "moderate", 2, base),
		result("p-1", "phq9", "v1.0.0", 3, "minimal", 0, base.AddDate(0, 0, 1)),
		result("g-new", "gad7", "v1.0.0", 7, "mild", 1, base.AddDate(0, 0, 2)),
	} {
		r := r
		require.NoError(t, env.Results.Save(context.Background(), &r))
	}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// loaded runs the load command of s and applies its result.
func loaded(t *testing.T, s *HistoryScreen, cmd tea.Cmd) *HistoryScreen {
	t.Helper()
	require.NotNil(t, cmd)
	scr, _ := s.Update(cmd())
	return scr.(*HistoryScreen)
}

func TestComputeTrends(t *testing.T) {
	at := time.Now()
	results := []store.Result{
		result("a", "gad7", "v1.0.0", 7, "mild", 1, at),
		result("b", "phq9", "v1.0.0", 5, "mild", 1, at),
		result("c", "gad7", "v1.1.0", 12, "moderate", 2, at),
		result("d", "gad7", "v0.9.0", 3, "minimal", 0, at),
		result("e", "retired", "v1.0.0", 3, "low", 0, at),
		result("f", "wellbeing", "v1.0.0", 20, "good", 0, at),
		result("g", "wellbeing", "v1.0.0", 15, "fair", 1, at),
	}
	trends, stale := computeTrends(results, assessment.MustBuiltin())

	assert.Equal(t, scoring.TrendImproved, trends["a"], "lower GAD-7 total is better")
	assert.Equal(t, scoring.TrendNone, trends["b"])
	assert.Equal(t, scoring.TrendNone, trends["c"], "no trend across major versions")
	assert.Equal(t, scoring.TrendImproved, trends["f"], "higher wellbeing total is better")
	assert.True(t, stale["d"])
	assert.True(t, stale["e"])
	assert.False(t, stale["a"])
	assert.False(t, stale["c"])
}

func TestHistoryScreen_Load(t *testing.T) {
	env := testEnv(t)
	seed(t, env)

	s := New(env, "")
	assert.Equal(t, "History", s.Title())
	assert.Contains(t, s.View(100, 30), "Loading")

	s = loaded(t, s, s.Init())
	require.Len(t, s.results, 3)
	assert.Equal(t, "g-new", s.results[0].AttemptID)
	assert.Equal(t, scoring.TrendImproved, s.trends["g-new"])
	assert.Nil(t, s.inProgress)

	view := s.View(100, 30)
	assert.Contains(t, view, "Anxiety (GAD-7)")
	assert.Contains(t, view, "Depression (PHQ-9)")
	assert.Contains(t, view, "↑")
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := New(testEnv(t), "")
	s = loaded(t, s, s.Init())
	assert.Contains(t, s.View(100, 30), "No results yet")
}

func TestHistoryScreen_Filter(t *testing.T) {
	env := testEnv(t)
	seed(t, env)

	s := New(env, "phq9")
	s = loaded(t, s, s.Init())
	require.Len(t, s.results, 1)
	assert.Equal(t, "phq9", s.results[0].AssessmentID)

	// Tab moves to the next filter (stress) and reloads.
	scr, cmd := s.Update(specialKey(tea.KeyTab))
	s = loaded(t, scr.(*HistoryScreen), cmd)
	assert.Equal(t, "stress", s.filters[s.filter])
	assert.Empty(t, s.results)

	// Shift back twice wraps through phq9 to gad7.
	scr, _ = s.Update(specialKey(tea.KeyLeft))
	scr, cmd = scr.Update(specialKey(tea.KeyLeft))
	s = loaded(t, scr.(*HistoryScreen), cmd)
	assert.Equal(t, "gad7", s.filters[s.filter])
	assert.Len(t, s.results, 2)

	// Left from the first filter wraps to the last one.
	scr, _ = s.Update(specialKey(tea.KeyLeft))
	scr, _ = scr.Update(specialKey(tea.KeyLeft))
	s = scr.(*HistoryScreen)
	assert.Equal(t, "selfesteem", s.filters[s.filter])
}

func TestHistoryScreen_IgnoresSupersededLoad(t *testing.T) {
	env := testEnv(t)
	seed(t, env)

	s := New(env, "")
	stale := s.Init()
	scr, _ := s.Update(specialKey(tea.KeyTab)) // now filtering gad7
	s = scr.(*HistoryScreen)
	s.Update(stale())

	assert.False(t, s.loaded, "load for the old filter must be ignored")
	assert.Empty(t, s.results)
}

func TestHistoryScreen_ExpandAndNavigate(t *testing.T) {
	env := testEnv(t)
	seed(t, env)
	s := New(env, "")
	s = loaded(t, s, s.Init())

	s.Update(specialKey(tea.KeyEnter))
	assert.True(t, s.expanded["g-new"])
	assert.Contains(t, s.View(100, 40), "breathing exercises")

	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyDown))
	assert.Equal(t, 2, s.selected, "selection stops at the last row")

	s.Update(specialKey(tea.KeyUp))
	assert.Equal(t, 1, s.selected)

	_, cmd := s.Update(keyPress('t'))
	require.NotNil(t, cmd)
	assert.Equal(t, screen.StartAttemptMsg{AssessmentID: "phq9"}, cmd())
}

func TestHistoryScreen_InProgress(t *testing.T) {
	env := testEnv(t)
	snap := session.AttemptSnapshot{
		AttemptID: "open", AssessmentID: "stress", AssessmentVersion: "v1.0.0",
		Index: 1, Answers: map[int]int{1: 2},
	}
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, env.Snapshots.Save(context.Background(), &store.Snapshot{
		Timestamp: time.Now(), AttemptID: "open", AssessmentID: "stress", Data: data,
	}))

	s := New(env, "")
	s = loaded(t, s, s.Init())
	require.NotNil(t, s.inProgress)
	assert.Contains(t, s.View(100, 30), "In progress: Perceived Stress (PSS-10)")
	assert.Len(t, s.KeyHints(), 6)

	_, cmd := s.Update(keyPress('c'))
	require.NotNil(t, cmd)
	msg, ok := cmd().(screen.StartAttemptMsg)
	require.True(t, ok)
	assert.Equal(t, "stress", msg.AssessmentID)
	require.NotNil(t, msg.Resume)
	assert.Equal(t, "open", msg.Resume.AttemptID)
}

func TestHistoryScreen_Scrolls(t *testing.T) {
	env := testEnv(t)
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := range 30 {
		r := result("r-"+string(rune('a'+i)), "gad7", "v1.0.0", i%21, "mild", 1, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, env.Results.Save(context.Background(), &r))
	}
	s := New(env, "")
	s = loaded(t, s, s.Init())
	for range 29 {
		s.Update(specialKey(tea.KeyDown))
	}

	rows := s.renderRows(72, 10)
	assert.Equal(t, 10, strings.Count(rows, "\n")+1)
	assert.Contains(t, rows, "▸ ", "selected row stays visible")
}
