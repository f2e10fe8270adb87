package sink

import (
	"sync"

	"github.com/dm/dfsmon/internal/model"
)

// Update is one poll outcome: exactly one of Summary and Err is set.
type Update struct {
	Summary *model.Summary
	Err     error
}

// Channel delivers poll outcomes over a buffered channel. When the reader
// falls behind the oldest pending update is dropped, so the newest
// completed poll is always the one that gets through.
type Channel struct {
	mu sync.Mutex
	ch chan Update
}

// NewChannel returns a Channel buffering up to size updates (minimum 1).
func NewChannel(size int) *Channel {
	if size < 1 {
		size = 1
	}
	return &Channel{ch: make(chan Update, size)}
}

// Updates is the receive side.
func (c *Channel) Updates() <-chan Update {
	return c.ch
}

func (c *Channel) Publish(summary *model.Summary) {
	c.send(Update{Summary: summary})
}

func (c *Channel) Failed(err error) {
	c.send(Update{Err: err})
}

func (c *Channel) send(u Update) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		select {
		case c.ch <- u:
			return
		default:
		}
		select {
		case <-c.ch:
		default:
		}
	}
}
