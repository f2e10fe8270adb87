package sink

import (
	"github.com/dm/dfsmon/internal/engine"
	"github.com/dm/dfsmon/internal/model"
)

// Fanout forwards every outcome to each of its sinks in order.
type Fanout []engine.Sink

func (f Fanout) Publish(summary *model.Summary) {
	for _, s := range f {
		s.Publish(summary)
	}
}

func (f Fanout) Failed(err error) {
	for _, s := range f {
		s.Failed(err)
	}
}
