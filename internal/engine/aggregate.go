package engine

import (
	"fmt"
	"slices"

	"github.com/dm/dfsmon/internal/format"
	"github.com/dm/dfsmon/internal/model"
)

// DefaultReplicationFactor is the replica count the coordinator aims for.
const DefaultReplicationFactor = 3

// Options tunes derivations that depend on cluster policy.
type Options struct {
	ReplicationFactor int // <= 0 selects DefaultReplicationFactor
}

// Aggregate derives node, file, and chunk summaries from snap. It is a pure
// function: snap is never modified and no state survives between calls, so it
// is safe to call concurrently on different (or the same) snapshots.
//
// A file referencing an absent chunk, or a chunk whose end offset precedes its
// start offset, never aborts aggregation. The affected rows are marked and a
// DataIntegrityError is appended to Summary.Issues.
func Aggregate(snap *model.Snapshot, opts Options) *model.Summary {
	if snap == nil {
		return &model.Summary{}
	}
	rf := opts.ReplicationFactor
	if rf <= 0 {
		rf = DefaultReplicationFactor
	}

	chunkRows, chunkIssues := calcChunkRows(snap, rf)
	fileRows, fileIssues := calcFileRows(snap)

	return &model.Summary{
		Nodes:      CalcNodeSummary(snap),
		NodeRows:   calcNodeRows(snap),
		Files:      fileRows,
		Chunks:     chunkRows,
		Issues:     append(chunkIssues, fileIssues...),
		CapturedAt: snap.CapturedAt,
		ReceivedAt: snap.ReceivedAt,
	}
}

// CalcNodeSummary counts total/active/inactive nodes and sums remaining storage.
func CalcNodeSummary(snap *model.Snapshot) model.NodeSummary {
	var s model.NodeSummary
	for _, n := range snap.Nodes {
		s.Total++
		if n.Active {
			s.Active++
		}
		s.StorageRemainingBytes += n.StorageRemaining
	}
	s.Inactive = s.Total - s.Active
	s.StorageRemainingMiB = format.BytesToMiB(s.StorageRemainingBytes)
	return s
}

// calcNodeRows returns one row per node, ordered by node id, with the number
// of chunks that list the node as a replica holder.
func calcNodeRows(snap *model.Snapshot) []model.NodeRow {
	held := make(map[string]int, len(snap.Nodes))
	for _, c := range snap.Chunks {
		for _, loc := range c.Locations {
			held[loc]++
		}
	}

	rows := make([]model.NodeRow, 0, len(snap.Nodes))
	for _, id := range sortedKeys(snap.Nodes) {
		n := snap.Nodes[id]
		rows = append(rows, model.NodeRow{
			ID:               id,
			Addr:             n.Addr,
			Active:           n.Active,
			StorageRemaining: n.StorageRemaining,
			ChunkCount:       held[id],
		})
	}
	return rows
}

// calcFileRows sizes every file by resolving its chunk ids in order.
func calcFileRows(snap *model.Snapshot) ([]model.FileRow, []*model.DataIntegrityError) {
	var issues []*model.DataIntegrityError
	rows := make([]model.FileRow, 0, len(snap.Files))

	for _, name := range sortedKeys(snap.Files) {
		ids := snap.Files[name]
		row := model.FileRow{
			Name:     name,
			ChunkIDs: slices.Clone(ids),
		}
		for _, id := range ids {
			chunk, ok := snap.Chunks[id]
			if !ok {
				row.Unresolved = append(row.Unresolved, id)
				issues = append(issues, &model.DataIntegrityError{
					Kind:    model.IntegrityMissingChunk,
					File:    name,
					ChunkID: id,
				})
				continue
			}
			size, ok := chunk.Size()
			if !ok {
				// Reported once per chunk by calcChunkRows.
				row.Unresolved = append(row.Unresolved, id)
				continue
			}
			row.Size += size
		}
		rows = append(rows, row)
	}
	return rows, issues
}

// calcChunkRows returns one row per chunk entry, ordered by chunk id.
func calcChunkRows(snap *model.Snapshot, replicationFactor int) ([]model.ChunkRow, []*model.DataIntegrityError) {
	var issues []*model.DataIntegrityError
	rows := make([]model.ChunkRow, 0, len(snap.Chunks))

	for _, id := range sortedKeys(snap.Chunks) {
		c := snap.Chunks[id]
		size, ok := c.Size()
		if !ok {
			issues = append(issues, &model.DataIntegrityError{
				Kind:    model.IntegrityMalformedOffsets,
				ChunkID: id,
				Detail:  fmt.Sprintf("end %d < start %d", c.EndOffset, c.StartOffset),
			})
		}
		rows = append(rows, model.ChunkRow{
			ID:          id,
			StartOffset: c.StartOffset,
			EndOffset:   c.EndOffset,
			Size:        size,
			State:       c.State,
			Locations:   slices.Clone(c.Locations),
			Malformed:   !ok,
			Replication: CalcReplication(len(c.Locations), replicationFactor),
		})
	}
	return rows, issues
}

// CalcReplication classifies a replica count against the target factor.
func CalcReplication(replicas, factor int) model.Replication {
	switch {
	case replicas == 0:
		return model.Replication{Kind: model.ReplicationLost}
	case replicas < factor:
		return model.Replication{Kind: model.ReplicationUnder, Delta: factor - replicas}
	case replicas > factor:
		return model.Replication{Kind: model.ReplicationOver, Delta: replicas - factor}
	default:
		return model.Replication{Kind: model.ReplicationBalanced}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
