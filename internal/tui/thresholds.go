package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dm/dfsmon/internal/model"
)

// severity represents the alert level for a value.
type severity int

const (
	severityNormal   severity = iota
	severityWarning           // yellow
	severityCritical          // red
)

// inactiveSeverity returns Warning when any node is inactive and Critical
// when half or more are.
func inactiveSeverity(inactive, total int) severity {
	switch {
	case inactive == 0 || total == 0:
		return severityNormal
	case inactive*2 >= total:
		return severityCritical
	default:
		return severityWarning
	}
}

// replicationSeverity: lost chunks are Critical, under-replicated ones a
// Warning. Over-replication is wasteful but safe.
func replicationSeverity(r model.Replication) severity {
	switch r.Kind {
	case model.ReplicationLost:
		return severityCritical
	case model.ReplicationUnder:
		return severityWarning
	default:
		return severityNormal
	}
}

// issueSeverity: any integrity issue is a Warning.
func issueSeverity(n int) severity {
	if n > 0 {
		return severityWarning
	}
	return severityNormal
}

// severityToStyle maps a severity level to the appropriate lipgloss style.
func severityToStyle(s severity) lipgloss.Style {
	switch s {
	case severityWarning:
		return StyleYellow
	case severityCritical:
		return StyleRed
	default:
		return StyleGreen
	}
}

// severityFg is the card foreground for s, falling back to fallback when normal.
func severityFg(s severity, fallback lipgloss.Color) lipgloss.Color {
	switch s {
	case severityWarning:
		return colorYellow
	case severityCritical:
		return colorRed
	default:
		return fallback
	}
}
