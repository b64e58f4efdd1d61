package questionnaire

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mindcheck/mindcheck/internal/ui/components"
	"github.com/mindcheck/mindcheck/internal/ui/theme"
)

// renderQuestionView renders the current question with its options.
func (s *QuestionnaireScreen) renderQuestionView(width, height int) string {
	at := s.attempt
	cw := components.ContentWidth(width)

	var b strings.Builder

	info := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Question %d of %d   ·   %d answered", at.Index()+1, at.Total(), at.AnsweredCount()))
	b.WriteString(info)
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar("", at.Progress(), true, cw).View())
	b.WriteString("\n\n")

	q := at.Current()
	b.WriteString(lipgloss.NewStyle().
		Width(cw).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Text))
	b.WriteString("\n\n")
	b.WriteString(s.choices.View())
	b.WriteString("\n")

	ctl := at.Controls()
	buttons := []components.Button{components.NewButton("←", "Previous", ctl.CanPrevious)}
	if ctl.ShowNext {
		buttons = append(buttons, components.NewButton("→", "Next", ctl.CanNext))
	}
	if ctl.ShowSubmit {
		buttons = append(buttons, components.NewButton("S", "Submit", ctl.CanSubmit))
	}
	b.WriteString(components.ButtonRow(buttons...))

	if s.submitting {
		b.WriteString("\n\n" + theme.Hint.Render("Saving result..."))
	} else if s.message != "" {
		b.WriteString("\n\n" + lipgloss.NewStyle().Width(cw).Render(theme.ErrorText.Render(s.message)))
		if len(at.Unanswered()) > 0 && ctl.ShowSubmit {
			b.WriteString("\n" + theme.Hint.Render("Press U to jump to the first unanswered question."))
		}
	}

	return components.Center(b.String(), width, height)
}

func (s *QuestionnaireScreen) renderQuitConfirm(width, height int) string {
	answered := s.attempt.AnsweredCount()
	body := "Leave this questionnaire?\n\n"
	if answered > 0 {
		body += fmt.Sprintf("Your %d answer(s) will be saved\nso you can resume later.", answered)
	} else {
		body += "Nothing has been answered yet."
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Foreground(theme.Text).
		Align(lipgloss.Center).
		Padding(1, 3).
		Render(body + "\n\n" + theme.Hint.Render("Y leave   R start over   N keep going"))
	return components.Center(box, width, height)
}

func renderError(width, height int, msg string) string {
	cw := components.ContentWidth(width)
	card := components.Card(theme.ErrorText.Render("Could not start questionnaire")+"\n\n"+
		lipgloss.NewStyle().Foreground(theme.Text).Render(msg), cw)
	return components.Center(card+"\n\n"+theme.Hint.Render("Press any key to go back"), width, height)
}
