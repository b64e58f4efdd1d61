package markdown

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestPlain(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		width int
		want  string
	}{
		{"emphasis stripped", "Talk to **someone** you *trust*.", 0, "Talk to someone you trust."},
		{"soft break joins lines", "first line\nsecond line", 0, "first line second line"},
		{"paragraphs", "One.\n\nTwo.", 0, "One.\n\nTwo."},
		{"bullet list", "- sleep\n- move\n- connect", 0, "• sleep\n• move\n• connect"},
		{"ordered list", "3. three\n4. four", 0, "3. three\n4. four"},
		{"heading", "## Next steps\n\nBreathe.", 0, "Next steps\n\nBreathe."},
		{"code span", "Run `mindcheck history`.", 0, "Run mindcheck history."},
		{"wraps", "aaa bbb ccc", 7, "aaa bbb\nccc"},
		{"list continuation indented", "- aaa bbb ccc", 9, "• aaa bbb\n  ccc"},
		{"empty", "", 40, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Plain(tt.src, tt.width); got != tt.want {
				t.Errorf("Plain(%q, %d)\n got: %q\nwant: %q", tt.src, tt.width, got, tt.want)
			}
		})
	}
}

func TestRender_FitsWidth(t *testing.T) {
	src := "Consider speaking with a **health professional** about how you have been feeling.\n\n" +
		"- Keep a regular sleep schedule\n- Spend time outdoors each day"
	out := Render(src, 30)
	for _, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > 30 {
			t.Errorf("line wider than 30 (%d): %q", w, line)
		}
	}
	if !strings.Contains(out, "health") {
		t.Errorf("expected text in output:\n%s", out)
	}
}
