package components

import (
	"charm.land/lipgloss/v2"

	"github.com/mindcheck/mindcheck/internal/ui/theme"
)

// Button is a key-labelled action shown under a question.
type Button struct {
	Key     string
	Label   string
	Enabled bool
}

// NewButton creates a new button.
func NewButton(key, label string, enabled bool) Button {
	return Button{Key: key, Label: label, Enabled: enabled}
}

// View renders the button.
func (b Button) View() string {
	label := b.Label
	if b.Key != "" {
		label = b.Key + " " + b.Label
	}
	if b.Enabled {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}

// ButtonRow renders buttons side by side separated by two spaces.
func ButtonRow(buttons ...Button) string {
	parts := make([]string, 0, 2*len(buttons))
	for i, b := range buttons {
		if i > 0 {
			parts = append(parts, "  ")
		}
		parts = append(parts, b.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}
