// Package history lists stored results with their trend over time.
package history

import (
	"context"
	"encoding/json"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mindcheck/mindcheck/internal/assessment"
	"github.com/mindcheck/mindcheck/internal/logger"
	"github.com/mindcheck/mindcheck/internal/screen"
	"github.com/mindcheck/mindcheck/internal/scoring"
	"github.com/mindcheck/mindcheck/internal/session"
	"github.com/mindcheck/mindcheck/internal/store"
	"github.com/mindcheck/mindcheck/internal/ui/layout"
)

type historyLoadedMsg struct {
	Filter     string
	Results    []store.Result
	InProgress *session.AttemptSnapshot
	Err        error
}

// HistoryScreen displays stored results, newest first.
type HistoryScreen struct {
	env        *screen.Env
	filters    []string // "" then every catalog id
	filter     int
	results    []store.Result
	trends     map[string]scoring.Trend // by attempt id
	stale      map[string]bool          // scored under another major version
	inProgress *session.AttemptSnapshot
	selected   int
	expanded   map[string]bool
	loaded     bool
	errMsg     string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)
var _ screen.Reloader = (*HistoryScreen)(nil)

// New creates a HistoryScreen showing assessmentID, or everything when
// it is empty or unknown.
func New(env *screen.Env, assessmentID string) *HistoryScreen {
	s := &HistoryScreen{
		env:      env,
		filters:  append([]string{""}, env.Catalog.IDs()...),
		expanded: make(map[string]bool),
	}
	for i, id := range s.filters {
		if id == assessmentID {
			s.filter = i
		}
	}
	return s
}

func (s *HistoryScreen) Init() tea.Cmd {
	return s.load()
}

// Reload refreshes the list after a retake.
func (s *HistoryScreen) Reload() tea.Cmd {
	return s.load()
}

// load fetches results and the unfinished attempt concurrently.
func (s *HistoryScreen) load() tea.Cmd {
	env := s.env
	filter := s.filters[s.filter]
	return func() tea.Msg {
		g, ctx := errgroup.WithContext(context.Background())

		var results []store.Result
		g.Go(func() error {
			var err error
			results, err = env.Results.List(ctx, store.QueryOpts{
				AssessmentID: filter,
				Limit:        env.HistoryLimit,
			})
			return err
		})

		var inProgress *session.AttemptSnapshot
		g.Go(func() error {
			snap, err := env.Snapshots.Latest(ctx)
			if err != nil || snap == nil {
				return err
			}
			var as session.AttemptSnapshot
			if err := json.Unmarshal(snap.Data, &as); err != nil {
				// A corrupt snapshot only hides the resume line.
				logger.Get().Warn("decode snapshot", zap.Int64("sequence", snap.Sequence), zap.Error(err))
				return nil
			}
			inProgress = &as
			return nil
		})

		if err := g.Wait(); err != nil {
			return historyLoadedMsg{Filter: filter, Err: fmt.Errorf("load history: %w", err)}
		}
		return historyLoadedMsg{Filter: filter, Results: results, InProgress: inProgress}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Details"},
		{Key: "Tab", Description: "Filter"},
		{Key: "T", Description: "Take again"},
	}
	if s.inProgress != nil {
		hints = append(hints, layout.KeyHint{Key: "C", Description: "Continue"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Filter != s.filters[s.filter] {
			return s, nil // superseded by a newer filter
		}
		s.loaded = true
		if msg.Err != nil {
			logger.Get().Error("history", zap.Error(msg.Err))
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.results = msg.Results
		s.inProgress = msg.InProgress
		s.trends, s.stale = computeTrends(s.results, s.env.Catalog)
		if s.selected >= len(s.results) {
			s.selected = max(len(s.results)-1, 0)
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *HistoryScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.results)-1 {
			s.selected++
		}
	case "enter", "space":
		if r, ok := s.current(); ok {
			s.expanded[r.AttemptID] = !s.expanded[r.AttemptID]
		}
	case "tab", "right", "l":
		return s, s.setFilter(s.filter + 1)
	case "shift+tab", "left", "h":
		return s, s.setFilter(s.filter - 1)
	case "t", "T":
		if r, ok := s.current(); ok && s.env.Catalog.Has(r.AssessmentID) {
			id := r.AssessmentID
			return s, func() tea.Msg { return screen.StartAttemptMsg{AssessmentID: id} }
		}
	case "c", "C":
		if snap := s.inProgress; snap != nil {
			return s, func() tea.Msg {
				return screen.StartAttemptMsg{AssessmentID: snap.AssessmentID, Resume: snap}
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) setFilter(i int) tea.Cmd {
	n := len(s.filters)
	s.filter = ((i % n) + n) % n
	s.selected = 0
	s.loaded = false
	return s.load()
}

func (s *HistoryScreen) current() (store.Result, bool) {
	if s.selected < 0 || s.selected >= len(s.results) {
		return store.Result{}, false
	}
	return s.results[s.selected], true
}

// computeTrends compares each result with the next older result of the
// same assessment in the list. Results whose version does not share a
// major version with the catalog's current one are marked stale; pairs
// across major versions get no trend.
func computeTrends(results []store.Result, cat *assessment.Catalog) (map[string]scoring.Trend, map[string]bool) {
	trends := make(map[string]scoring.Trend, len(results))
	stale := make(map[string]bool)

	for i, r := range results {
		if !cat.Has(r.AssessmentID) {
			stale[r.AttemptID] = true
			continue
		}
		a := cat.Get(r.AssessmentID)
		if !scoring.Comparable(r.AssessmentVersion, a.Version) {
			stale[r.AttemptID] = true
		}
		for _, older := range results[i+1:] {
			if older.AssessmentID != r.AssessmentID {
				continue
			}
			if scoring.Comparable(older.AssessmentVersion, r.AssessmentVersion) {
				trends[r.AttemptID] = scoring.Compare(a.Scoring.Direction, older.TotalScore, r.TotalScore)
			}
			break
		}
	}
	return trends, stale
}
