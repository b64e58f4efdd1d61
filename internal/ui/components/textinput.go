package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// NoteLimit is the longest note a result can carry.
const NoteLimit = 280

// TextInput wraps bubbles/textinput for free-text notes.
type TextInput struct {
	Model textinput.Model
}

// NewTextInput creates a blurred input; call Focus to start typing.
func NewTextInput(placeholder string, limit, width int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if limit > 0 {
		ti.CharLimit = limit
	}
	if width > 0 {
		ti.SetWidth(width)
	}
	return TextInput{Model: ti}
}

// Focus starts editing, optionally with existing text.
func (t *TextInput) Focus(value string) tea.Cmd {
	t.Model.SetValue(value)
	return t.Model.Focus()
}

// Blur stops editing.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input takes key presses.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	return t.Model.View()
}

// Value returns the trimmed input value.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}
