package tui

import (
	"time"

	"github.com/dm/dfsmon/internal/sink"
)

// LoginResultMsg carries the outcome of a login attempt.
type LoginResultMsg struct{ Err error }

// UpdateMsg delivers one poll outcome from the channel sink.
type UpdateMsg sink.Update

// ClockTickMsg refreshes relative times in the header once per second.
type ClockTickMsg time.Time
