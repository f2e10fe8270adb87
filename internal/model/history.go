package model

import "time"

const defaultHistoryCap = 60

// HistoryPoint is a single timestamped sample stored in the ring buffer.
type HistoryPoint struct {
	At          time.Time
	ActiveNodes float64
	StorageMiB  float64
	Files       float64
	Chunks      float64
}

// PointFromSummary samples the trend-worthy values of s.
func PointFromSummary(s *Summary) HistoryPoint {
	return HistoryPoint{
		At:          s.ReceivedAt,
		ActiveNodes: float64(s.Nodes.Active),
		StorageMiB:  s.Nodes.StorageRemainingMiB,
		Files:       float64(len(s.Files)),
		Chunks:      float64(len(s.Chunks)),
	}
}

// History is a fixed-size ring buffer of HistoryPoints.
// When the buffer is full, new pushes overwrite the oldest entry.
type History struct {
	buf  []HistoryPoint
	head int // index of the next write position
	size int // number of valid entries
}

// NewHistory creates a History with the given capacity.
// If capacity <= 0, the defaultHistoryCap (60) is used.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = defaultHistoryCap
	}
	return &History{
		buf: make([]HistoryPoint, capacity),
	}
}

// Push appends a new point to the history, overwriting the oldest if full.
func (h *History) Push(p HistoryPoint) {
	h.buf[h.head] = p
	h.head = (h.head + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
}

// Len returns the number of valid entries in the history.
func (h *History) Len() int {
	return h.size
}

// Clear resets the history to empty.
func (h *History) Clear() {
	h.head = 0
	h.size = 0
}

// Values returns a slice of float64 for the named field in chronological order
// (oldest first). Valid field names: "activeNodes", "storageMiB", "files",
// "chunks".
func (h *History) Values(field string) []float64 {
	out := make([]float64, h.size)
	// oldest entry sits at (head - size + cap) % cap
	start := (h.head - h.size + len(h.buf)) % len(h.buf)
	for i := 0; i < h.size; i++ {
		p := h.buf[(start+i)%len(h.buf)]
		switch field {
		case "activeNodes":
			out[i] = p.ActiveNodes
		case "storageMiB":
			out[i] = p.StorageMiB
		case "files":
			out[i] = p.Files
		case "chunks":
			out[i] = p.Chunks
		}
	}
	return out
}
