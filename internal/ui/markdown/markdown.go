// Package markdown renders the small markdown subset used in assessment
// recommendations (paragraphs, emphasis, lists, headings) for the terminal.
package markdown

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/mindcheck/mindcheck/internal/ui/theme"
)

// Styles controls how inline and block elements are drawn.
type Styles struct {
	Body    lipgloss.Style
	Strong  lipgloss.Style
	Em      lipgloss.Style
	Code    lipgloss.Style
	Heading lipgloss.Style
	Bullet  lipgloss.Style
}

// DefaultStyles uses the application theme.
func DefaultStyles() Styles {
	return Styles{
		Body:    theme.Body,
		Strong:  lipgloss.NewStyle().Foreground(theme.Text).Bold(true),
		Em:      lipgloss.NewStyle().Foreground(theme.Text).Italic(true),
		Code:    lipgloss.NewStyle().Foreground(theme.Secondary),
		Heading: lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		Bullet:  lipgloss.NewStyle().Foreground(theme.Secondary),
	}
}

// PlainStyles leaves every element unstyled.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Body: s, Strong: s, Em: s, Code: s, Heading: s, Bullet: s}
}

var parser = goldmark.New().Parser()

// Render draws src wrapped to width using the default styles.
func Render(src string, width int) string {
	return RenderWith(src, width, DefaultStyles())
}

// Plain returns src as unstyled text wrapped to width. A width of zero
// disables wrapping.
func Plain(src string, width int) string {
	return RenderWith(src, width, PlainStyles())
}

// RenderWith draws src with the given styles. Blocks are separated by a
// blank line; items of a tight list are not.
func RenderWith(src string, width int, st Styles) string {
	source := []byte(src)
	doc := parser.Parse(text.NewReader(source))
	r := renderer{source: source, width: width, st: st}
	blocks := r.blocks(doc, 0)
	return strings.TrimRight(strings.Join(blocks, "\n\n"), "\n")
}

type renderer struct {
	source []byte
	width  int
	st     Styles
}

// blocks renders the block children of n. indent is the column at which
// wrapped lines continue inside list items.
func (r renderer) blocks(n ast.Node, indent int) []string {
	var out []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch b := c.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			out = append(out, r.wrap(r.inline(b, r.st.Body), indent))
		case *ast.Heading:
			out = append(out, r.wrap(r.inline(b, r.st.Heading), indent))
		case *ast.List:
			out = append(out, r.list(b, indent))
		case *ast.ThematicBreak:
			out = append(out, r.st.Bullet.Render(strings.Repeat("─", max(r.width-indent, 3))))
		default:
			if c.Type() == ast.TypeBlock {
				out = append(out, r.blocks(c, indent)...)
			}
		}
	}
	return out
}

func (r renderer) list(l *ast.List, indent int) string {
	var items []string
	num := l.Start
	if num == 0 {
		num = 1
	}
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		marker := "• "
		if l.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}
		pad := lipgloss.Width(marker)
		body := strings.Join(r.blocks(c, indent+pad), "\n")
		lines := strings.Split(body, "\n")
		for i := range lines {
			if i == 0 {
				lines[i] = r.st.Bullet.Render(marker) + lines[i]
			} else if lines[i] != "" {
				lines[i] = strings.Repeat(" ", pad) + lines[i]
			}
		}
		items = append(items, strings.Join(lines, "\n"))
	}
	sep := "\n"
	if !l.IsTight {
		sep = "\n\n"
	}
	return strings.Join(items, sep)
}

// inline flattens the inline children of n, applying base to plain text.
func (r renderer) inline(n ast.Node, base lipgloss.Style) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.WriteString(base.Render(string(t.Segment.Value(r.source))))
			switch {
			case t.HardLineBreak():
				b.WriteString("\n")
			case t.SoftLineBreak():
				b.WriteString(" ")
			}
		case *ast.String:
			b.WriteString(base.Render(string(t.Value)))
		case *ast.Emphasis:
			style := r.st.Em
			if t.Level >= 2 {
				style = r.st.Strong
			}
			b.WriteString(r.inline(t, style))
		case *ast.CodeSpan:
			b.WriteString(r.inline(t, r.st.Code))
		default:
			b.WriteString(r.inline(c, base))
		}
	}
	return b.String()
}

func (r renderer) wrap(s string, indent int) string {
	w := r.width - indent
	if r.width <= 0 || w <= 0 {
		return s
	}
	return lipgloss.Wrap(s, w, " -")
}
