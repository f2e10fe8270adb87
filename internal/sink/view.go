// Package sink holds the engine.Sink implementations that present poll
// results outside the terminal UI, plus the channel sink that feeds it.
package sink

import (
	"time"

	"github.com/dm/dfsmon/internal/format"
	"github.com/dm/dfsmon/internal/model"
)

// SummaryView is the JSON shape of a summary, shared by the JSON-lines
// writer and the HTTP status server.
type SummaryView struct {
	CapturedAt *time.Time  `json:"captured_at,omitempty"`
	ReceivedAt time.Time   `json:"received_at"`
	Nodes      NodesView   `json:"nodes"`
	NodeRows   []NodeView  `json:"node_rows"`
	Files      []FileView  `json:"files"`
	Chunks     []ChunkView `json:"chunks"`
	Issues     []string    `json:"issues,omitempty"`
}

type NodesView struct {
	Total               int    `json:"total"`
	Active              int    `json:"active"`
	Inactive            int    `json:"inactive"`
	StorageRemainingMiB string `json:"storage_remaining_mib"`
}

type NodeView struct {
	ID               string `json:"id"`
	Addr             string `json:"addr,omitempty"`
	Active           bool   `json:"active"`
	StorageRemaining uint64 `json:"storage_remaining"`
	Chunks           int    `json:"chunks"`
}

type FileView struct {
	Name       string   `json:"name"`
	Size       int64    `json:"size"`
	ChunkIDs   string   `json:"chunk_ids"`
	Unresolved []string `json:"unresolved,omitempty"`
}

type ChunkView struct {
	ID          string `json:"id"`
	StartOffset int64  `json:"start_offset"`
	EndOffset   int64  `json:"end_offset"`
	Size        int64  `json:"size"`
	State       string `json:"state"`
	Locations   string `json:"locations"`
	Malformed   bool   `json:"malformed,omitempty"`
	Replication string `json:"replication"`
}

// NewSummaryView converts s for encoding. Storage is rendered with two
// decimals and id lists are comma-joined, matching the terminal tables.
func NewSummaryView(s *model.Summary) SummaryView {
	v := SummaryView{
		ReceivedAt: s.ReceivedAt,
		Nodes: NodesView{
			Total:               s.Nodes.Total,
			Active:              s.Nodes.Active,
			Inactive:            s.Nodes.Inactive,
			StorageRemainingMiB: format.FormatMiB(s.Nodes.StorageRemainingMiB),
		},
		NodeRows: make([]NodeView, 0, len(s.NodeRows)),
		Files:    make([]FileView, 0, len(s.Files)),
		Chunks:   make([]ChunkView, 0, len(s.Chunks)),
	}
	if !s.CapturedAt.IsZero() {
		at := s.CapturedAt
		v.CapturedAt = &at
	}
	for _, n := range s.NodeRows {
		v.NodeRows = append(v.NodeRows, NodeView{
			ID:               n.ID,
			Addr:             n.Addr,
			Active:           n.Active,
			StorageRemaining: n.StorageRemaining,
			Chunks:           n.ChunkCount,
		})
	}
	for _, f := range s.Files {
		v.Files = append(v.Files, FileView{
			Name:       f.Name,
			Size:       f.Size,
			ChunkIDs:   format.FormatList(f.ChunkIDs),
			Unresolved: f.Unresolved,
		})
	}
	for _, c := range s.Chunks {
		v.Chunks = append(v.Chunks, ChunkView{
			ID:          c.ID,
			StartOffset: c.StartOffset,
			EndOffset:   c.EndOffset,
			Size:        c.Size,
			State:       c.State,
			Locations:   format.FormatList(c.Locations),
			Malformed:   c.Malformed,
			Replication: c.Replication.String(),
		})
	}
	for _, issue := range s.Issues {
		v.Issues = append(v.Issues, issue.Error())
	}
	return v
}
