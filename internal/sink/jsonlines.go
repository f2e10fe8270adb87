package sink

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/dm/dfsmon/internal/model"
)

// JSONLines writes one JSON object per published summary to w. Failures are
// logged only; the stream carries summaries.
type JSONLines struct {
	mu     sync.Mutex
	enc    *json.Encoder
	logger *log.Logger
}

func NewJSONLines(w io.Writer, logger *log.Logger) *JSONLines {
	if logger == nil {
		logger = log.Default()
	}
	return &JSONLines{enc: json.NewEncoder(w), logger: logger.WithPrefix("jsonl")}
}

func (j *JSONLines) Publish(summary *model.Summary) {
	view := NewSummaryView(summary)
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.enc.Encode(view); err != nil {
		j.logger.Error("write summary", "err", err)
	}
}

func (j *JSONLines) Failed(err error) {
	j.logger.Warn("poll skipped", "err", err)
}
