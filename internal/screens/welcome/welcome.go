// Package welcome is the first-run screen: a short breathing exercise and
// a notice about what the questionnaires are and are not.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mindcheck/mindcheck/internal/router"
	"github.com/mindcheck/mindcheck/internal/screen"
	"github.com/mindcheck/mindcheck/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	noticeAt     = 500 * time.Millisecond
	continueAt   = 1500 * time.Millisecond
)

const notice = `mindcheck offers short self-check questionnaires
for anxiety, mood, stress, wellbeing and self-esteem.

Results are not a diagnosis. If you are in crisis,
contact your local emergency number or a crisis line.`

type tickMsg time.Time

// WelcomeScreen animates a breathing circle and waits for a key before
// handing over to the home screen.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return "Welcome"
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		w.elapsed += tickInterval
		return w, tick()

	case tea.KeyPressMsg:
		// The notice must have been on screen for a moment.
		if w.elapsed >= continueAt {
			return w, w.transition()
		}
		return w, nil
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	art, inhale := breathFrame(w.elapsed)
	label := "breathe out"
	if inhale {
		label = "breathe in"
	}

	sections := []string{
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(art),
		theme.Hint.Render(label),
	}

	if w.elapsed >= noticeAt {
		sections = append(sections, "",
			lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(notice))
	}

	if w.elapsed >= continueAt {
		sections = append(sections, "",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press any key to continue"))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.TrimRight(content, "\n"))
}
