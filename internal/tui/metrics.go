package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/dfsmon/internal/format"
)

// renderTrendCard renders one history card: title, current value, sparkline.
//
//	╭──────────────────╮
//	│ Title            │
//	│ 1,204            │
//	│ ▁▂▃▅▇█▇▅▃▂       │
//	╰──────────────────╯
func renderTrendCard(title, value string, sparkValues []float64, cardWidth int, color lipgloss.Color) string {
	const minCardWidth = 8
	if cardWidth < minCardWidth {
		cardWidth = minCardWidth
	}
	// Border (2) plus padding (2) surround the content.
	innerWidth := cardWidth - 6
	if innerWidth < 1 {
		innerWidth = 1
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGray).
		Padding(0, 1).
		Width(cardWidth - 4)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		StyleDim.Render(title),
		lipgloss.NewStyle().Bold(true).Foreground(color).Render(value),
		RenderSparkline(sparkValues, innerWidth, color),
	))
}

// renderTrendsRow renders four history cards (active nodes, free storage,
// files, chunks) under a "Trends" label: one row on wide terminals, a 2x2
// grid below 80 columns. Returns "" before the first summary.
func renderTrendsRow(app *App) string {
	if app.current == nil {
		return ""
	}
	s := app.current

	type trend struct {
		title, value, field string
		color               lipgloss.Color
	}
	trends := []trend{
		{"Active Nodes", strconv.Itoa(s.Nodes.Active) + "/" + strconv.Itoa(s.Nodes.Total), "activeNodes", colorGreen},
		{"Free MiB", format.FormatMiB(s.Nodes.StorageRemainingMiB), "storageMiB", colorCyan},
		{"Files", format.FormatNumber(int64(len(s.Files))), "files", colorPurple},
		{"Chunks", format.FormatNumber(int64(len(s.Chunks))), "chunks", colorIndigo},
	}
	render := func(t trend, w int) string {
		return renderTrendCard(t.title, t.value, app.history.Values(t.field), w, t.color)
	}

	if app.width > 0 && app.width < 80 {
		// Two cards of (cardWidth-2) cells must fit app.width.
		cardWidth := (app.width + 4) / 2
		if cardWidth < 8 {
			return ""
		}
		label := StyleDim.MaxWidth(app.width).Render("Trends")
		top := lipgloss.JoinHorizontal(lipgloss.Top, render(trends[0], cardWidth), render(trends[1], cardWidth))
		bottom := lipgloss.JoinHorizontal(lipgloss.Top, render(trends[2], cardWidth), render(trends[3], cardWidth))
		return lipgloss.JoinVertical(lipgloss.Left, label, top, bottom)
	}

	cardWidth := (app.width + 8) / 4
	if cardWidth < 20 {
		cardWidth = 20
	}
	cards := make([]string, len(trends))
	for i, t := range trends {
		cards[i] = render(t, cardWidth)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		StyleDim.Render("Trends"),
		lipgloss.JoinHorizontal(lipgloss.Top, cards...))
}
