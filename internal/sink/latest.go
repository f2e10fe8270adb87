package sink

import (
	"sync"
	"time"

	"github.com/dm/dfsmon/internal/model"
)

// Latest keeps the most recently published summary and the most recent
// failure. A failure does not discard the summary.
type Latest struct {
	mu       sync.RWMutex
	summary  *model.Summary
	lastErr  error
	failedAt time.Time
	now      func() time.Time
}

func NewLatest() *Latest {
	return &Latest{now: time.Now}
}

func (l *Latest) Publish(summary *model.Summary) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.summary = summary
	l.lastErr = nil
	l.failedAt = time.Time{}
}

func (l *Latest) Failed(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastErr = err
	l.failedAt = l.now()
}

// Summary returns the last published summary, or nil before the first poll.
func (l *Latest) Summary() *model.Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.summary
}

// LastFailure returns when the failure reported since the last successful
// publish happened, and the failure itself. err is nil once a later poll
// succeeds.
func (l *Latest) LastFailure() (at time.Time, err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.failedAt, l.lastErr
}
