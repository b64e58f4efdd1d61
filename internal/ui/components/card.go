package components

import (
	"charm.land/lipgloss/v2"

	"github.com/mindcheck/mindcheck/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used by cards so that
// stacked boxes line up.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6 // frame border + padding
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded-border box at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(0, 1).
		Render(content)
}

// AccentCard is a Card whose border takes the given style's foreground.
func AccentCard(content string, cw int, accent lipgloss.Style) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent.GetForeground()).
		Width(cw - 2).
		Padding(0, 1).
		Render(content)
}

// Center places content in the middle of a width x height area.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
