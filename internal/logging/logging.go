// Package logging builds the operational logger shared by the poller, the
// session manager, and the CLI.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the given level ("debug", "info",
// "warn", "error"). Unknown levels fall back to info.
func New(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "dfsmon",
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// OpenFile opens (appending) the log file used while the terminal UI owns the
// screen. An empty path selects dfsmon.log in the OS temp dir.
func OpenFile(path string) (*os.File, error) {
	if path == "" {
		path = DefaultFile()
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

// DefaultFile is the log path used when none is configured.
func DefaultFile() string {
	return filepath.Join(os.TempDir(), "dfsmon.log")
}
