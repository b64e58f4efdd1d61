// Package app wires the screens into the root Bubble Tea model.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/mindcheck/mindcheck/internal/checkin"
	"github.com/mindcheck/mindcheck/internal/logger"
	"github.com/mindcheck/mindcheck/internal/router"
	"github.com/mindcheck/mindcheck/internal/screen"
	"github.com/mindcheck/mindcheck/internal/screens/history"
	"github.com/mindcheck/mindcheck/internal/screens/home"
	"github.com/mindcheck/mindcheck/internal/screens/questionnaire"
	"github.com/mindcheck/mindcheck/internal/screens/result"
	"github.com/mindcheck/mindcheck/internal/screens/welcome"
	"github.com/mindcheck/mindcheck/internal/ui/layout"
)

// Options configures the application.
type Options struct {
	Env *screen.Env

	// Start opens a questionnaire on top of home right away.
	Start *screen.StartAttemptMsg

	// Welcome shows the first-run screen before home.
	Welcome bool
}

type statsLoadedMsg struct {
	Stats layout.HeaderStats
	Err   error
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	env    *screen.Env
	start  *screen.StartAttemptMsg
	stats  layout.HeaderStats
	width  int
	height int
}

// newAppModel creates a new AppModel rooted at the home screen.
func newAppModel(opts Options) AppModel {
	env := opts.Env
	var root screen.Screen = home.New(env)
	if opts.Welcome && opts.Start == nil {
		root = welcome.New(func() screen.Screen { return home.New(env) })
	}
	return AppModel{
		router: router.New(root),
		env:    env,
		start:  opts.Start,
	}
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.router.Active().Init(), m.loadStats()}
	if m.start != nil {
		start := *m.start
		cmds = append(cmds, func() tea.Msg { return start })
	}
	return tea.Batch(cmds...)
}

// loadStats reads the streak and due count for the header.
func (m AppModel) loadStats() tea.Cmd {
	env := m.env
	return func() tea.Msg {
		now := env.Clock()
		sum, err := checkin.Load(context.Background(), env.Results, env.Catalog, now)
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		return statsLoadedMsg{Stats: layout.HeaderStats{
			Streak: sum.Streak.Current,
			Due:    checkin.DueCount(sum.Reminders, now),
		}}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case statsLoadedMsg:
		if msg.Err != nil {
			logger.Get().Warn("load header stats", zap.Error(msg.Err))
			return m, nil
		}
		m.stats = msg.Stats
		return m, nil

	case screen.StartAttemptMsg:
		q := questionnaire.New(m.env, msg.AssessmentID, msg.Resume)
		if msg.Replace {
			return m, m.router.Replace(q)
		}
		return m, m.router.Push(q)

	case screen.ShowResultMsg:
		return m, m.router.Replace(result.New(m.env, msg))

	case screen.ShowHistoryMsg:
		return m, m.router.Push(history.New(m.env, msg.AssessmentID))

	case screen.GoHomeMsg:
		return m, tea.Batch(m.router.PopToRoot(), m.loadStats())

	case screen.DataChangedMsg:
		return m, m.loadStats()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Any key", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.stats, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		logger.Get().Error("tui exited", zap.Error(err))
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
