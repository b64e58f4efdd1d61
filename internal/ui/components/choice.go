package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/mindcheck/mindcheck/internal/ui/theme"
)

// ChoiceList shows the answer options of one question. Cursor is the
// highlighted row; Chosen is the recorded answer or -1.
type ChoiceList struct {
	Options []string
	Cursor  int
	Chosen  int
}

// NewChoiceList creates a list with the cursor on the chosen option, or
// on the first option when nothing is chosen.
func NewChoiceList(options []string, chosen int) ChoiceList {
	c := ChoiceList{Options: options, Chosen: -1}
	if chosen >= 0 && chosen < len(options) {
		c.Chosen = chosen
		c.Cursor = chosen
	}
	return c
}

// Update moves the cursor. Choosing is left to the owner so that the
// answer can be recorded first.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	}
	return c, nil
}

// View renders numbered options. The recorded answer carries a check mark.
func (c ChoiceList) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Cursor {
			prefix = "▸ "
		}
		mark := "  "
		if i == c.Chosen {
			mark = " ✓"
		}
		line := fmt.Sprintf("%s%d)  %s%s", prefix, i+1, opt, mark)

		switch {
		case i == c.Chosen:
			b.WriteString(theme.Chosen.Render(line))
		case i == c.Cursor:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
