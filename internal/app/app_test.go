package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcheck/mindcheck/internal/assessment"
	"github.com/mindcheck/mindcheck/internal/router"
	"github.com/mindcheck/mindcheck/internal/scoring"
	"github.com/mindcheck/mindcheck/internal/screen"
	"github.com/mindcheck/mindcheck/internal/screens/history"
	"github.com/mindcheck/mindcheck/internal/screens/home"
	"github.com/mindcheck/mindcheck/internal/screens/questionnaire"
	"github.com/mindcheck/mindcheck/internal/screens/result"
	"github.com/mindcheck/mindcheck/internal/screens/welcome"
	"github.com/mindcheck/mindcheck/internal/store"
)

var now = time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)

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
		SnapshotKeep: 5,
		Now:          func() time.Time { return now },
	}
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestRootScreen(t *testing.T) {
	env := testEnv(t)

	m := newAppModel(Options{Env: env})
	assert.IsType(t, &home.HomeScreen{}, m.router.Active())

	m = newAppModel(Options{Env: env, Welcome: true})
	assert.IsType(t, &welcome.WelcomeScreen{}, m.router.Active())

	m = newAppModel(Options{Env: env, Welcome: true, Start: &screen.StartAttemptMsg{AssessmentID: "gad7"}})
	assert.IsType(t, &home.HomeScreen{}, m.router.Active(), "take skips the welcome")
}

func TestInitStartsRequestedAttempt(t *testing.T) {
	m := newAppModel(Options{Env: testEnv(t), Start: &screen.StartAttemptMsg{AssessmentID: "phq9"}})
	cmd := m.Init()
	require.NotNil(t, cmd)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)

	var found bool
	for _, c := range batch {
		if c == nil {
			continue
		}
		if msg, ok := c().(screen.StartAttemptMsg); ok {
			found = true
			assert.Equal(t, "phq9", msg.AssessmentID)
		}
	}
	assert.True(t, found)
}

func TestIntentNavigation(t *testing.T) {
	m := newAppModel(Options{Env: testEnv(t)})

	m, _ = update(t, m, screen.StartAttemptMsg{AssessmentID: "gad7"})
	require.Equal(t, 2, m.router.Depth())
	assert.IsType(t, &questionnaire.QuestionnaireScreen{}, m.router.Active())

	m, _ = update(t, m, screen.ShowResultMsg{
		AttemptID: "a-1",
		Result: scoring.ResultInterpretation{
			AssessmentID: "gad7", AssessmentVersion: "v1.0.0", TotalScore: 7, MaxScore: 21,
			Level: scoring.Level{ID: "mild", Label: "Mild", Rank: 1},
		},
	})
	assert.Equal(t, 2, m.router.Depth(), "result replaces the questionnaire")
	assert.IsType(t, &result.ResultScreen{}, m.router.Active())

	m, _ = update(t, m, screen.ShowHistoryMsg{AssessmentID: "gad7"})
	assert.Equal(t, 3, m.router.Depth())
	assert.IsType(t, &history.HistoryScreen{}, m.router.Active())

	m, _ = update(t, m, screen.StartAttemptMsg{AssessmentID: "gad7", Replace: true})
	assert.Equal(t, 3, m.router.Depth())
	assert.IsType(t, &questionnaire.QuestionnaireScreen{}, m.router.Active())

	m, cmd := update(t, m, screen.GoHomeMsg{})
	assert.Equal(t, 1, m.router.Depth())
	assert.NotNil(t, cmd)
}

func TestEscape(t *testing.T) {
	m := newAppModel(Options{Env: testEnv(t)})
	esc := tea.KeyPressMsg{Code: tea.KeyEscape}

	m, cmd := update(t, m, esc)
	assert.Nil(t, cmd, "esc on home does nothing")

	m, _ = update(t, m, screen.ShowHistoryMsg{})
	m, cmd = update(t, m, esc)
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopScreenMsg{}, cmd())

	m, _ = update(t, m, screen.StartAttemptMsg{AssessmentID: "gad7"})
	depth := m.router.Depth()
	m, cmd = update(t, m, esc)
	assert.Equal(t, depth, m.router.Depth())
	if cmd != nil {
		assert.NotEqual(t, router.PopScreenMsg{}, cmd(), "questionnaire handles esc itself")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newAppModel(Options{Env: testEnv(t)})
	_, cmd := update(t, m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHeaderStats(t *testing.T) {
	env := testEnv(t)
	r := store.Result{
		AttemptID: "a-1", AssessmentID: "gad7", AssessmentVersion: "v1.0.0",
		TotalScore: 7, MaxScore: 21, Level: "mild", LevelLabel: "Mild", LevelRank: 1,
		Answers: map[int]int{}, TakenAt: now.Add(-time.Hour),
	}
	require.NoError(t, env.Results.Save(context.Background(), &r))

	m := newAppModel(Options{Env: env})
	m, _ = update(t, m, m.loadStats()())
	assert.Equal(t, 1, m.stats.Streak)
	assert.Equal(t, 4, m.stats.Due, "phq9, stress, wellbeing and selfesteem never taken")

	_, cmd := update(t, m, screen.DataChangedMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, statsLoadedMsg{}, cmd())
}

func TestFooterHints(t *testing.T) {
	m := newAppModel(Options{Env: testEnv(t), Welcome: true})
	hints := m.footerHints()
	require.Len(t, hints, 2)
	assert.Equal(t, "Any key", hints[0].Key)

	m, _ = update(t, m, screen.ShowHistoryMsg{})
	assert.Equal(t, m.router.Active().(*history.HistoryScreen).KeyHints(), m.footerHints())
}
