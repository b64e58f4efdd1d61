// Package home is the start screen: pick a questionnaire, resume one, or
// open the history.
package home

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mindcheck/mindcheck/internal/checkin"
	"github.com/mindcheck/mindcheck/internal/logger"
	"github.com/mindcheck/mindcheck/internal/screen"
	"github.com/mindcheck/mindcheck/internal/session"
	"github.com/mindcheck/mindcheck/internal/ui/components"
	"github.com/mindcheck/mindcheck/internal/ui/layout"
	"github.com/mindcheck/mindcheck/internal/ui/theme"
)

type homeLoadedMsg struct {
	Summary checkin.Summary
	Resume  *session.AttemptSnapshot
	Err     error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	env     *screen.Env
	menu    components.Menu
	summary checkin.Summary
	resume  *session.AttemptSnapshot
	now     time.Time
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Reloader = (*HomeScreen)(nil)

// New creates a HomeScreen. The menu works before the check-in data has
// loaded; badges appear once it has.
func New(env *screen.Env) *HomeScreen {
	h := &HomeScreen{env: env, now: env.Clock()}
	h.buildMenu()
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

// Reload refreshes badges and the resume entry when home becomes active.
func (h *HomeScreen) Reload() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) load() tea.Cmd {
	env := h.env
	return func() tea.Msg {
		g, ctx := errgroup.WithContext(context.Background())
		now := env.Clock()

		var sum checkin.Summary
		g.Go(func() error {
			var err error
			sum, err = checkin.Load(ctx, env.Results, env.Catalog, now)
			return err
		})

		var resume *session.AttemptSnapshot
		g.Go(func() error {
			snap, err := env.Snapshots.Latest(ctx)
			if err != nil || snap == nil {
				return err
			}
			var as session.AttemptSnapshot
			if err := json.Unmarshal(snap.Data, &as); err != nil {
				logger.Get().Warn("decode snapshot", zap.Int64("sequence", snap.Sequence), zap.Error(err))
				return nil
			}
			if env.Catalog.Has(as.AssessmentID) {
				resume = &as
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			return homeLoadedMsg{Err: err}
		}
		return homeLoadedMsg{Summary: sum, Resume: resume}
	}
}

// buildMenu lays out: resume (when a saved attempt exists), one entry per
// assessment, history, quit.
func (h *HomeScreen) buildMenu() {
	var items []components.MenuItem

	if snap := h.resume; snap != nil {
		a := h.env.Catalog.Get(snap.AssessmentID)
		items = append(items, components.MenuItem{
			Label: "Resume " + a.Title,
			Badge: theme.Hint.Render(fmt.Sprintf("%d/%d answered", len(snap.Answers), len(a.Questions))),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return screen.StartAttemptMsg{AssessmentID: snap.AssessmentID, Resume: snap}
				}
			},
		})
	}

	for _, a := range h.env.Catalog.All() {
		id := a.ID
		items = append(items, components.MenuItem{
			Label: a.Title,
			Badge: h.badge(id),
			Action: func() tea.Cmd {
				return func() tea.Msg { return screen.StartAttemptMsg{AssessmentID: id} }
			},
		})
	}

	items = append(items,
		components.MenuItem{Label: "History", Action: func() tea.Cmd {
			return func() tea.Msg { return screen.ShowHistoryMsg{} }
		}},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)

	selected := h.menu.Selected
	h.menu = components.NewMenu(items)
	if h.loaded && selected < len(items) {
		h.menu.Selected = selected
	}
}

// badge describes an assessment's re-check status.
func (h *HomeScreen) badge(id string) string {
	if !h.loaded {
		return ""
	}
	r, ok := h.summary.Reminder(id)
	if !ok {
		return ""
	}
	switch r.Status(h.now) {
	case checkin.StatusNever:
		return theme.Hint.Render("new")
	case checkin.StatusOverdue:
		return theme.ErrorText.Render("overdue")
	case checkin.StatusDue:
		return lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).Render("due")
	default:
		return theme.Hint.Render(fmt.Sprintf("in %dd", r.DaysUntil(h.now)))
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case homeLoadedMsg:
		if msg.Err != nil {
			logger.Get().Error("load home", zap.Error(msg.Err))
			h.errMsg = msg.Err.Error()
			return h, nil
		}
		h.errMsg = ""
		wasLoaded := h.loaded
		h.summary = msg.Summary
		h.resume = msg.Resume
		h.now = h.env.Clock()
		h.loaded = true
		if !wasLoaded {
			// First load: land on the resume entry if there is one.
			h.menu.Selected = 0
		}
		h.buildMenu()
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) ||
		layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(h.mascot(), cw))
	}
	sections = append(sections, renderStatsBar(h.summary, h.dueCount(), cw, compact))
	if h.errMsg != "" {
		sections = append(sections, theme.ErrorText.Width(cw).Render("Could not load your history: "+h.errMsg))
	}
	sections = append(sections, renderMenu(h.menu, cw))
	sections = append(sections, renderDisclaimer(cw))

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) dueCount() int {
	if !h.loaded {
		return 0
	}
	return checkin.DueCount(h.summary.Reminders, h.now)
}

func (h *HomeScreen) mascot() MascotVariant {
	switch {
	case h.summary.Streak.Active(h.now):
		return MascotCheered
	case h.loaded && h.summary.Total > 0 && h.dueCount() > 0:
		return MascotNudge
	default:
		return MascotCalm
	}
}
