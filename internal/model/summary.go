package model

import (
	"fmt"
	"time"
)

// NodeSummary holds cluster-wide node counts and remaining capacity.
type NodeSummary struct {
	Total                 int
	Active                int
	Inactive              int
	StorageRemainingBytes uint64
	StorageRemainingMiB   float64
}

// NodeRow holds display-ready data for a single row in the node table.
type NodeRow struct {
	ID               string
	Addr             string
	Active           bool
	StorageRemaining uint64 // bytes
	ChunkCount       int    // chunks listing this node as a replica holder
}

// FileRow holds display-ready data for a single row in the file table.
type FileRow struct {
	Name       string
	Size       int64    // sum of resolvable chunk sizes
	ChunkIDs   []string // original file order
	Unresolved []string // chunk ids that could not be sized
}

// Resolved reports whether every chunk of the file could be sized.
func (r FileRow) Resolved() bool {
	return len(r.Unresolved) == 0
}

// ReplicationKind classifies a chunk's replica count against the target factor.
type ReplicationKind int

const (
	ReplicationBalanced ReplicationKind = iota
	ReplicationUnder
	ReplicationOver
	ReplicationLost
)

// Replication is a chunk's replication status. Delta is the number of
// missing (Under) or surplus (Over) replicas.
type Replication struct {
	Kind  ReplicationKind
	Delta int
}

func (r Replication) String() string {
	switch r.Kind {
	case ReplicationUnder:
		return fmt.Sprintf("under -%d", r.Delta)
	case ReplicationOver:
		return fmt.Sprintf("over +%d", r.Delta)
	case ReplicationLost:
		return "lost"
	default:
		return "ok"
	}
}

// ChunkRow holds display-ready data for a single row in the chunk table.
type ChunkRow struct {
	ID          string
	StartOffset int64
	EndOffset   int64
	Size        int64 // 0 when Malformed
	State       string
	Locations   []string
	Malformed   bool
	Replication Replication
}

// Summary is everything derived from one snapshot. A new Summary is built on
// every successful poll; nothing is carried over from the previous one.
type Summary struct {
	Nodes    NodeSummary
	NodeRows []NodeRow
	Files    []FileRow
	Chunks   []ChunkRow
	Issues   []*DataIntegrityError

	CapturedAt time.Time
	ReceivedAt time.Time
}
