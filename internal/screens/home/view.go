package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/mindcheck/mindcheck/internal/checkin"
	"github.com/mindcheck/mindcheck/internal/ui/components"
	"github.com/mindcheck/mindcheck/internal/ui/theme"
)

const titleFull = `┏┳┓╻┏┓╻╺┳┓┏━╸╻ ╻┏━╸┏━╸╻┏
┃┃┃┃┃┗┫ ┃┃┃  ┣━┫┣╸ ┃  ┣┻┓
╹ ╹╹╹ ╹╺┻┛┗━╸╹ ╹┗━╸┗━╸╹ ╹`

const titleCompact = "m i n d c h e c k"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}

// renderStatsBar renders streak, due count and result total in a bordered
// box matching the content width.
func renderStatsBar(sum checkin.Summary, due, cw int, compact bool) string {
	streakStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	dueStyle := lipgloss.NewStyle().Foreground(theme.Warning).Bold(true)
	totalStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	dueText := dim.Render("● none due")
	if due > 0 {
		dueText = dueStyle.Render(fmt.Sprintf("● %d due", due))
	}

	var stats string
	if compact {
		stats = fmt.Sprintf("%s  %s  %s",
			streakStyle.Render(fmt.Sprintf("★%d", sum.Streak.Current)),
			dueText,
			totalStyle.Render(fmt.Sprintf("✓%d", sum.Total)),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			streakStyle.Render(fmt.Sprintf("★ %d day streak (best %d)", sum.Streak.Current, sum.Streak.Longest)),
			dueText,
			totalStyle.Render(fmt.Sprintf("✓ %d results", sum.Total)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderMenu centers the menu block within the content width.
func renderMenu(m components.Menu, cw int) string {
	block := lipgloss.NewStyle().Align(lipgloss.Left).Render(m.View())
	return lipgloss.PlaceHorizontal(cw, lipgloss.Center, block)
}

func renderDisclaimer(cw int) string {
	return theme.Subtitle.
		Width(cw).
		Render("These are self-check questionnaires, not a diagnosis.")
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}

// renderFrame wraps content in a rounded frame centered in the area.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
