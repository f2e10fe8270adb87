package tui

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/dfsmon/internal/client"
)

// renderHeader renders the top header bar.
//
// Layout:
//
//	left:   coordinator URL
//	center: "● LIVE", "● STALE  <reason>" after a failed poll, or "● WAITING"
//	right:  "Last: HH:MM:SS (Ns ago)  Poll: Ns"
func renderHeader(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}

	left := app.coordinator
	var center string
	switch {
	case app.lastError != nil:
		center = StyleStale.Render("● STALE  " + classifyError(app.lastError))
	case app.current != nil:
		center = StyleLive.Render("● LIVE")
	default:
		center = StyleWaiting.Render("● WAITING")
	}

	lastStr := "never"
	if !app.lastUpdated.IsZero() {
		lastStr = app.lastUpdated.Format("15:04:05")
		if age := app.now().Sub(app.lastUpdated); age >= time.Second {
			lastStr += fmt.Sprintf(" (%s ago)", formatDuration(age))
		}
	}
	right := StyleDim.Render(fmt.Sprintf("Last: %s  Poll: %s", lastStr, formatDuration(app.interval)))

	// StyleHeader has Padding(0, 1) so inner content width = total width - 2.
	innerWidth := width - 2
	spacing := innerWidth - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(right)
	if spacing < 0 {
		spacing = 0
	}
	leftSpacing := spacing / 2
	row := left +
		strings.Repeat(" ", leftSpacing) +
		center +
		strings.Repeat(" ", spacing-leftSpacing) +
		right

	return StyleHeader.Width(width).Render(row)
}

// formatDuration formats a duration compactly, e.g. "10s", "2m", or "1h".
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d >= time.Minute:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}

// classifyError maps a poll error to a short operator-facing reason.
func classifyError(err error) string {
	if err == nil {
		return ""
	}

	var pollErr *client.PollTransportError
	if errors.As(err, &pollErr) {
		switch pollErr.StatusCode {
		case http.StatusUnauthorized:
			return "Unauthorized (401)"
		case http.StatusForbidden:
			return "Forbidden (403)"
		case 0:
		default:
			return fmt.Sprintf("HTTP %d", pollErr.StatusCode)
		}
	}
	if errors.Is(err, client.ErrMalformedSnapshot) {
		return "Malformed snapshot"
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "deadline exceeded") || strings.Contains(lower, "timeout"):
		return "Timeout"
	case isTLSError(err):
		return "TLS error"
	}
	if len(msg) > 40 {
		return msg[:40] + "..."
	}
	return msg
}

// isTLSError reports whether err looks like a certificate or handshake failure.
func isTLSError(err error) bool {
	if err == nil {
		return false
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "x509") ||
		strings.Contains(lower, "tls") ||
		strings.Contains(lower, "certificate")
}
