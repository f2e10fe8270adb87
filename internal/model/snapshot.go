package model

import "time"

// NodeDetail is the coordinator's view of a single data node.
type NodeDetail struct {
	Active           bool
	StorageRemaining uint64 // bytes
	Addr             string
}

// ChunkDetail describes one chunk: its byte range within the owning file,
// its lifecycle state, and the data nodes holding a replica.
type ChunkDetail struct {
	StartOffset int64
	EndOffset   int64
	State       string
	Locations   []string // replica holders, in the order the coordinator reported them
}

// Size returns EndOffset-StartOffset and false when the offsets are malformed.
func (c ChunkDetail) Size() (int64, bool) {
	if c.EndOffset < c.StartOffset {
		return 0, false
	}
	return c.EndOffset - c.StartOffset, true
}

// Snapshot is a single point-in-time read of the coordinator's view of nodes,
// files, and chunks. A Snapshot is treated as immutable once decoded.
type Snapshot struct {
	Nodes  map[string]NodeDetail
	Files  map[string][]string
	Chunks map[string]ChunkDetail

	CapturedAt time.Time // coordinator clock; zero when not reported
	ReceivedAt time.Time
}
