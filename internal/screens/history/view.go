package history

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mindcheck/mindcheck/internal/assessment"
	"github.com/mindcheck/mindcheck/internal/scoring"
	"github.com/mindcheck/mindcheck/internal/store"
	"github.com/mindcheck/mindcheck/internal/ui/components"
	"github.com/mindcheck/mindcheck/internal/ui/markdown"
	"github.com/mindcheck/mindcheck/internal/ui/theme"
)

func (s *HistoryScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var top strings.Builder
	top.WriteString(s.renderFilters())
	top.WriteString("\n")
	if p := s.inProgress; p != nil {
		title := p.AssessmentID
		if s.env.Catalog.Has(p.AssessmentID) {
			title = s.env.Catalog.Get(p.AssessmentID).Title
		}
		top.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(
			fmt.Sprintf("In progress: %s, %d answered (C to continue)", title, len(p.Answers))))
		top.WriteString("\n")
	}
	top.WriteString("\n")

	var body string
	switch {
	case s.errMsg != "":
		body = theme.ErrorText.Render("Error: " + s.errMsg)
	case !s.loaded:
		body = theme.Hint.Render("Loading history...")
	case len(s.results) == 0:
		body = theme.Hint.Render("No results yet. Take a questionnaire to start tracking.")
	default:
		avail := height - lipgloss.Height(top.String()) - 2
		body = s.renderRows(cw, avail)
	}

	content := top.String() + body
	if s.loaded && len(s.stale) > 0 {
		content += "\n\n" + theme.Hint.Render("* scored under an older questionnaire version")
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.NewStyle().Width(cw).Render(content))
}

func (s *HistoryScreen) renderFilters() string {
	parts := make([]string, len(s.filters))
	for i, id := range s.filters {
		label := "All"
		if id != "" {
			label = id
		}
		if i == s.filter {
			parts[i] = theme.Selected.Render("[" + label + "]")
		} else {
			parts[i] = theme.Disabled.Render(" " + label + " ")
		}
	}
	return strings.Join(parts, " ")
}

// renderRows renders result rows and expanded details, scrolled so the
// selected row stays within avail lines.
func (s *HistoryScreen) renderRows(cw, avail int) string {
	var lines []string
	selLine := 0
	for i, r := range s.results {
		if i == s.selected {
			selLine = len(lines)
		}
		lines = append(lines, s.renderRow(i, r))
		if s.expanded[r.AttemptID] {
			for _, l := range strings.Split(s.renderDetails(r, cw-4), "\n") {
				lines = append(lines, "    "+l)
			}
		}
	}

	if avail <= 0 || len(lines) <= avail {
		return strings.Join(lines, "\n")
	}
	start := 0
	if selLine >= avail {
		start = selLine - avail + 1
	}
	end := min(start+avail, len(lines))
	return strings.Join(lines[start:end], "\n")
}

func (s *HistoryScreen) bandCount(r store.Result) int {
	if s.env.Catalog.Has(r.AssessmentID) {
		return len(s.env.Catalog.Get(r.AssessmentID).Scoring.Bands)
	}
	return r.LevelRank + 1
}

func (s *HistoryScreen) renderRow(i int, r store.Result) string {
	prefix := "  "
	if i == s.selected {
		prefix = "▸ "
	}
	title := r.AssessmentID
	if s.env.Catalog.Has(r.AssessmentID) {
		title = s.env.Catalog.Get(r.AssessmentID).Title
	}
	mark := " "
	if s.stale[r.AttemptID] {
		mark = "*"
	}

	rowStyle := theme.Unselected
	if i == s.selected {
		rowStyle = theme.Selected
	}
	left := rowStyle.Render(fmt.Sprintf("%s%s  %-26s %3d/%-3d",
		prefix, r.TakenAt.Local().Format("2006-01-02 15:04"), truncate(title, 26), r.TotalScore, r.MaxScore))
	level := theme.LevelStyle(r.LevelRank, s.bandCount(r)).Render(fmt.Sprintf(" %-12s", r.LevelLabel))

	return left + level + " " + trendStyle(s.trends[r.AttemptID]).Render(s.trends[r.AttemptID].Arrow()) + mark
}

func (s *HistoryScreen) renderDetails(r store.Result, width int) string {
	var parts []string
	if s.env.Catalog.Has(r.AssessmentID) {
		a := s.env.Catalog.Get(r.AssessmentID)
		if b, ok := bandByLevel(a, r.Level); ok {
			if b.Description != "" {
				parts = append(parts, theme.Body.Width(width).Render(strings.TrimSpace(b.Description)))
			}
			if b.Recommendation != "" {
				parts = append(parts, markdown.Render(b.Recommendation, width))
			}
		}
	}
	for _, a := range r.Alerts {
		parts = append(parts, theme.ErrorText.Width(width).Render("! "+strings.TrimSpace(a)))
	}
	if r.Note != "" {
		parts = append(parts, theme.Hint.Width(width).Render("Note: "+r.Note))
	}
	if t := s.trends[r.AttemptID]; t != scoring.TrendNone {
		parts = append(parts, theme.Hint.Render("Compared with the previous result: "+t.String()))
	}
	if len(parts) == 0 {
		return theme.Hint.Render("No details for this result.")
	}
	return strings.Join(parts, "\n") + "\n"
}

func bandByLevel(a assessment.Assessment, level string) (assessment.Band, bool) {
	for _, b := range a.Scoring.Bands {
		if b.Level == level {
			return b, true
		}
	}
	return assessment.Band{}, false
}

func trendStyle(t scoring.Trend) lipgloss.Style {
	switch t {
	case scoring.TrendImproved:
		return lipgloss.NewStyle().Foreground(theme.Success)
	case scoring.TrendWorsened:
		return lipgloss.NewStyle().Foreground(theme.Warning)
	default:
		return lipgloss.NewStyle().Foreground(theme.TextDim)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
