package tui

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/dm/dfsmon/internal/client"
	"github.com/dm/dfsmon/internal/model"
)

func TestClassifyError(t *testing.T) {
	malformed := fmt.Errorf("%w: file_to_chunk_map missing", client.ErrMalformedSnapshot)
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, ""},
		{"401", &client.PollTransportError{StatusCode: 401}, "Unauthorized (401)"},
		{"403", &client.PollTransportError{StatusCode: 403}, "Forbidden (403)"},
		{"500", &client.PollTransportError{StatusCode: 500, Err: errors.New("boom")}, "HTTP 500"},
		{"malformed", &client.PollTransportError{Err: malformed}, "Malformed snapshot"},
		{"wrapped transport", fmt.Errorf("poll: %w", &client.PollTransportError{StatusCode: 502}), "HTTP 502"},
		{"connection refused", &client.PollTransportError{Err: errors.New("dial tcp: connection refused")}, "Connection refused"},
		{"context deadline exceeded", errors.New("context deadline exceeded"), "Timeout"},
		{"timeout", errors.New("request timeout after 5s"), "Timeout"},
		{"certificate", errors.New("x509: certificate signed by unknown authority"), "TLS error"},
		{"tls", errors.New("tls: handshake failure"), "TLS error"},
		{"short unknown", errors.New("some random error"), "some random error"},
		{"long unknown", errors.New("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"), "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa..."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifyError(tc.err))
		})
	}
}

func TestIsTLSError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"connection refused", errors.New("connection refused"), false},
		{"timeout", errors.New("context deadline exceeded"), false},
		{"certificate", errors.New("x509: certificate expired"), true},
		{"tls", errors.New("tls: handshake failure"), true},
		{"mixed TLS uppercase", errors.New("TLS certificate error"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isTLSError(tc.err))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0s", formatDuration(0))
	assert.Equal(t, "5s", formatDuration(5*time.Second))
	assert.Equal(t, "59s", formatDuration(59*time.Second+900*time.Millisecond))
	assert.Equal(t, "2m", formatDuration(150*time.Second))
	assert.Equal(t, "3h", formatDuration(3*time.Hour+10*time.Minute))
}

func TestRenderHeader_States(t *testing.T) {
	app := newTestApp(nil)
	app.width = 120

	out := stripANSI(renderHeader(app))
	assert.Contains(t, out, "http://coord:8000")
	assert.Contains(t, out, "WAITING")
	assert.Contains(t, out, "Last: never")
	assert.Contains(t, out, "Poll: 5s")

	app.applySummary(&model.Summary{ReceivedAt: app.now().Add(-12 * time.Second)})
	out = stripANSI(renderHeader(app))
	assert.Contains(t, out, "LIVE")
	assert.Contains(t, out, "(12s ago)")

	app.lastError = &client.PollTransportError{StatusCode: 401}
	out = stripANSI(renderHeader(app))
	assert.Contains(t, out, "STALE")
	assert.Contains(t, out, "Unauthorized (401)")
}

func TestRenderHeader_FullWidth(t *testing.T) {
	app := newTestApp(nil)
	for _, w := range []int{60, 100, 160} {
		app.width = w
		assert.Equal(t, w, lipgloss.Width(renderHeader(app)), "width %d", w)
	}
}
