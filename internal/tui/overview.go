package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/dfsmon/internal/format"
)

// renderOverview renders the cluster stat cards.
// Wide terminals (>= 80 cols): all cards in a single row.
// Narrow terminals: cards in rows of 2.
// Returns "" before the first summary.
func renderOverview(app *App) string {
	if app.current == nil {
		return ""
	}

	width := app.width
	if width <= 0 {
		width = 80
	}
	const numCards = 7
	narrow := width < 80

	var cardWidth int
	if narrow {
		cardWidth = (width - 4) / 2
		if cardWidth < 10 {
			cardWidth = 10
		}
	} else {
		cardWidth = width / numCards
		if cardWidth < 8 {
			cardWidth = 8
		}
	}
	barWidth := cardWidth - 4
	if barWidth < 4 {
		barWidth = 4
	}

	s := app.current
	nodes := s.Nodes
	card := func(fg lipgloss.Color, lines ...string) string {
		return StyleOverviewCard.Foreground(fg).Width(cardWidth).Render(strings.Join(lines, "\n"))
	}

	activePct := 0.0
	if nodes.Total > 0 {
		activePct = float64(nodes.Active) / float64(nodes.Total) * 100
	}
	inactiveSev := inactiveSeverity(nodes.Inactive, nodes.Total)

	lost, under := 0, 0
	for _, c := range s.Chunks {
		switch replicationSeverity(c.Replication) {
		case severityCritical:
			lost++
		case severityWarning:
			under++
		}
	}
	replSev := severityNormal
	switch {
	case lost > 0:
		replSev = severityCritical
	case under > 0:
		replSev = severityWarning
	}

	cards := []string{
		card(colorBlue, strconv.Itoa(nodes.Total), "Nodes"),
		card(colorGreen, strconv.Itoa(nodes.Active), renderMiniBar(activePct, barWidth), "Active"),
		card(severityFg(inactiveSev, colorGray), strconv.Itoa(nodes.Inactive), "Inactive"),
		card(colorCyan, format.FormatMiB(nodes.StorageRemainingMiB), "MiB free"),
		card(colorPurple, format.FormatNumber(int64(len(s.Files))), "Files"),
		card(severityFg(replSev, colorIndigo), format.FormatNumber(int64(len(s.Chunks))), replicationCaption(lost, under)),
		card(severityFg(issueSeverity(len(s.Issues)), colorGray), strconv.Itoa(len(s.Issues)), "Issues"),
	}

	if narrow {
		rows := make([]string, 0, (len(cards)+1)/2)
		for i := 0; i < len(cards); i += 2 {
			if i+1 < len(cards) {
				rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i], cards[i+1]))
			} else {
				rows = append(rows, cards[i])
			}
		}
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// replicationCaption labels the chunk card with the replication problems, if any.
func replicationCaption(lost, under int) string {
	switch {
	case lost > 0:
		return "Chunks (" + strconv.Itoa(lost) + " lost)"
	case under > 0:
		return "Chunks (" + strconv.Itoa(under) + " under)"
	default:
		return "Chunks"
	}
}

// renderMiniBar renders a progress bar of "█" (filled) and "░" (empty) cells.
func renderMiniBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// renderIssues lists the first few integrity issues of the current summary.
func renderIssues(app *App, limit int) string {
	if app.current == nil || len(app.current.Issues) == 0 {
		return ""
	}
	issues := app.current.Issues
	lines := make([]string, 0, limit+1)
	for i, issue := range issues {
		if i == limit {
			lines = append(lines, StyleDim.Render("  ... "+strconv.Itoa(len(issues)-limit)+" more"))
			break
		}
		lines = append(lines, StyleYellow.Render("  ! "+sanitize(issue.Error())))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
