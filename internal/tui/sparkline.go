package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparkBlocks are the eight block heights used by sparklines.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline draws values as a block sparkline exactly width cells wide.
// Values are scaled between their min and max, so small changes in a large
// quantity (free storage) are still visible.
//
//   - no values: width spaces
//   - a flat series: all '▁' when zero, all '▄' otherwise
//   - more values than width: the last width values
//   - fewer values than width: left-padded with spaces
func RenderSparkline(values []float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat(" ", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := slices.Min(values), slices.Max(values)

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", width-len(values)))
	for _, v := range values {
		var idx int
		switch {
		case hi == lo && hi == 0:
			idx = 0
		case hi == lo:
			idx = 3
		default:
			idx = int((v - lo) / (hi - lo) * 7)
		}
		idx = max(0, min(idx, 7))
		sb.WriteRune(sparkBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}
