// Package result shows a scored attempt with its interpretation.
package result

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/mindcheck/mindcheck/internal/assessment"
	"github.com/mindcheck/mindcheck/internal/logger"
	"github.com/mindcheck/mindcheck/internal/screen"
	"github.com/mindcheck/mindcheck/internal/scoring"
	"github.com/mindcheck/mindcheck/internal/store"
	"github.com/mindcheck/mindcheck/internal/ui/components"
	"github.com/mindcheck/mindcheck/internal/ui/layout"
	"github.com/mindcheck/mindcheck/internal/ui/markdown"
	"github.com/mindcheck/mindcheck/internal/ui/theme"
)

// noteSavedMsg reports the outcome of saving a note.
type noteSavedMsg struct {
	Note string
	Err  error
}

// ResultScreen displays a scored attempt.
type ResultScreen struct {
	env       *screen.Env
	attemptID string
	result    scoring.ResultInterpretation
	previous  *store.Result
	saveErr   error
	title     string
	direction assessment.Direction
	bands     int

	input   components.TextInput
	editing bool
	note    string
	status  string
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)
var _ screen.EscapeHandler = (*ResultScreen)(nil)

// New creates a ResultScreen for a finished attempt.
func New(env *screen.Env, msg screen.ShowResultMsg) *ResultScreen {
	s := &ResultScreen{
		env:       env,
		attemptID: msg.AttemptID,
		result:    msg.Result,
		previous:  msg.Previous,
		saveErr:   msg.SaveErr,
		title:     msg.Result.AssessmentID,
		bands:     msg.Result.Level.Rank + 1,
		input:     components.NewTextInput("How are you feeling? (optional)", components.NoteLimit, 50),
	}
	if env.Catalog.Has(msg.Result.AssessmentID) {
		a := env.Catalog.Get(msg.Result.AssessmentID)
		s.title = a.Title
		s.direction = a.Scoring.Direction
		s.bands = len(a.Scoring.Bands)
	}
	return s
}

func (s *ResultScreen) Init() tea.Cmd {
	if s.saveErr != nil {
		return nil
	}
	return func() tea.Msg { return screen.DataChangedMsg{} }
}

func (s *ResultScreen) Title() string {
	return "Result"
}

// HandlesEscape keeps Esc for cancelling a note edit.
func (s *ResultScreen) HandlesEscape() bool {
	return s.editing
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	if s.editing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save note"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	hints := []layout.KeyHint{{Key: "Enter", Description: "Home"}}
	if s.saveErr == nil {
		hints = append(hints, layout.KeyHint{Key: "N", Description: "Note"})
	}
	return append(hints,
		layout.KeyHint{Key: "R", Description: "Retake"},
		layout.KeyHint{Key: "H", Description: "History"},
	)
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case noteSavedMsg:
		if msg.Err != nil {
			s.status = "Could not save note: " + msg.Err.Error()
			return s, nil
		}
		s.note = msg.Note
		s.status = "Note saved."
		return s, nil

	case tea.KeyMsg:
		if s.editing {
			return s.handleEditKey(msg)
		}
		return s.handleKey(msg)
	}

	if s.editing {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ResultScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return s, func() tea.Msg { return screen.GoHomeMsg{} }
	case "n", "N":
		if s.saveErr != nil {
			return s, nil
		}
		s.editing = true
		s.status = ""
		return s, s.input.Focus(s.note)
	case "r", "R":
		id := s.result.AssessmentID
		return s, func() tea.Msg {
			return screen.StartAttemptMsg{AssessmentID: id, Replace: true}
		}
	case "h", "H":
		id := s.result.AssessmentID
		return s, func() tea.Msg { return screen.ShowHistoryMsg{AssessmentID: id} }
	}
	return s, nil
}

func (s *ResultScreen) handleEditKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.editing = false
		s.input.Blur()
		return s, nil
	case "enter":
		s.editing = false
		s.input.Blur()
		return s, s.saveNote(s.input.Value())
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ResultScreen) saveNote(note string) tea.Cmd {
	repo := s.env.Results
	id := s.attemptID
	return func() tea.Msg {
		err := repo.SetNote(context.Background(), id, note)
		if err != nil {
			logger.Get().Warn("save note", zap.String("attempt_id", id), zap.Error(err))
		}
		return noteSavedMsg{Note: note, Err: err}
	}
}

// trendLine compares with the previous result of the same assessment.
func (s *ResultScreen) trendLine() string {
	p := s.previous
	if p == nil {
		return theme.Hint.Render("First result for this questionnaire.")
	}
	when := p.TakenAt.Local().Format("Jan 2")
	if !scoring.Comparable(p.AssessmentVersion, s.result.AssessmentVersion) {
		return theme.Hint.Render(fmt.Sprintf("Previous result (%s) is from %s, not comparable.",
			when, p.AssessmentVersion))
	}
	t := scoring.Compare(s.direction, p.TotalScore, s.result.TotalScore)
	style := lipgloss.NewStyle().Foreground(theme.TextDim)
	switch t {
	case scoring.TrendImproved:
		style = lipgloss.NewStyle().Foreground(theme.Success)
	case scoring.TrendWorsened:
		style = lipgloss.NewStyle().Foreground(theme.Warning)
	}
	return style.Render(fmt.Sprintf("%s %s since %s (was %d)", t.Arrow(), t, when, p.TotalScore))
}

func (s *ResultScreen) View(width, height int) string {
	r := s.result
	cw := components.ContentWidth(width)
	inner := cw - 4
	level := theme.LevelStyle(r.Level.Rank, s.bands)

	var b strings.Builder
	b.WriteString(theme.Title.Width(inner).Render(s.title))
	b.WriteString("\n\n")
	b.WriteString(level.Render(r.Level.Label))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).
		Render(fmt.Sprintf("   %d / %d", r.TotalScore, r.MaxScore)))
	b.WriteString("\n")
	bar := components.NewProgressBar("", r.Percent()/100, false, inner)
	bar.Fill = level.GetForeground()
	b.WriteString(bar.View())
	b.WriteString("\n")
	b.WriteString(s.trendLine())
	b.WriteString("\n\n")

	if r.Description != "" {
		b.WriteString(theme.Body.Width(inner).Render(strings.TrimSpace(r.Description)))
		b.WriteString("\n\n")
	}
	if r.Recommendation != "" {
		b.WriteString(markdown.Render(r.Recommendation, inner))
		b.WriteString("\n")
	}

	card := components.AccentCard(b.String(), cw, level)

	var parts []string
	parts = append(parts, card)

	if len(r.Alerts) > 0 {
		alerts := make([]string, len(r.Alerts))
		for i, a := range r.Alerts {
			alerts[i] = markdown.Render(strings.TrimSpace(a), inner-2)
		}
		parts = append(parts, theme.AlertBox.Width(cw-2).Render(strings.Join(alerts, "\n\n")))
	}

	switch {
	case s.saveErr != nil:
		parts = append(parts, theme.ErrorText.Width(cw).Render("This result could not be saved: "+s.saveErr.Error()))
	case s.editing:
		parts = append(parts, "Note: "+s.input.View())
	case s.note != "":
		parts = append(parts, theme.Hint.Width(cw).Render("Note: "+s.note))
	}
	if s.status != "" {
		parts = append(parts, theme.Hint.Render(s.status))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return components.Center(content, width, height)
}
