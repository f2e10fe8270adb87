package client

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dm/dfsmon/internal/model"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is either {"Token": "..."} or {"Error": "..."}.
type LoginResponse struct {
	Token *string `json:"Token,omitempty"`
	Error *string `json:"Error,omitempty"`
}

// SnapshotResponse represents the response from /monitoring/snapshot.
type SnapshotResponse struct {
	Timestamp           *SystemTime                `json:"timestamp,omitempty"`
	DatanodeToDetailMap map[string]DatanodeDetail  `json:"datanode_to_detail_map"`
	FileToChunkMap      map[string][]string        `json:"file_to_chunk_map"`
	ChunkIDToDetailMap  map[string]ChunkDetailWire `json:"chunk_id_to_detail_map"`
}

// SystemTime is the coordinator's wall clock encoding.
type SystemTime struct {
	SecsSinceEpoch  int64 `json:"secs_since_epoch"`
	NanosSinceEpoch int64 `json:"nanos_since_epoch"`
}

// DatanodeDetail is a single entry of datanode_to_detail_map.
type DatanodeDetail struct {
	IsActive         bool   `json:"is_active"`
	StorageRemaining uint64 `json:"storage_remaining"`
	Addrs            string `json:"addrs,omitempty"`
}

// ChunkDetailWire is a single entry of chunk_id_to_detail_map.
type ChunkDetailWire struct {
	StartOffset int64      `json:"start_offset"`
	EndOffset   int64      `json:"end_offset"`
	State       ChunkState `json:"state"`
	Locations   []string   `json:"locations"`
}

// ChunkState accepts either a plain string ("COMMITTED") or a single-key
// object such as {"Deleted": []}, in which case the key is the state.
type ChunkState string

func (s *ChunkState) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = ChunkState(str)
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil || len(obj) != 1 {
		return fmt.Errorf("unsupported chunk state %s", truncate(b, 40))
	}
	for k := range obj {
		*s = ChunkState(k)
	}
	return nil
}

// decodeSnapshot parses a snapshot body and converts it to the domain model.
// All three maps must be present; an empty map is fine.
func decodeSnapshot(body []byte, receivedAt time.Time) (*model.Snapshot, error) {
	var resp SnapshotResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	switch {
	case resp.DatanodeToDetailMap == nil:
		return nil, fmt.Errorf("%w: datanode_to_detail_map missing", ErrMalformedSnapshot)
	case resp.FileToChunkMap == nil:
		return nil, fmt.Errorf("%w: file_to_chunk_map missing", ErrMalformedSnapshot)
	case resp.ChunkIDToDetailMap == nil:
		return nil, fmt.Errorf("%w: chunk_id_to_detail_map missing", ErrMalformedSnapshot)
	}
	return resp.toModel(receivedAt), nil
}

func (r *SnapshotResponse) toModel(receivedAt time.Time) *model.Snapshot {
	snap := &model.Snapshot{
		Nodes:      make(map[string]model.NodeDetail, len(r.DatanodeToDetailMap)),
		Files:      make(map[string][]string, len(r.FileToChunkMap)),
		Chunks:     make(map[string]model.ChunkDetail, len(r.ChunkIDToDetailMap)),
		ReceivedAt: receivedAt,
	}
	if r.Timestamp != nil {
		snap.CapturedAt = time.Unix(r.Timestamp.SecsSinceEpoch, r.Timestamp.NanosSinceEpoch)
	}
	for id, n := range r.DatanodeToDetailMap {
		snap.Nodes[id] = model.NodeDetail{
			Active:           n.IsActive,
			StorageRemaining: n.StorageRemaining,
			Addr:             n.Addrs,
		}
	}
	for name, ids := range r.FileToChunkMap {
		snap.Files[name] = ids
	}
	for id, c := range r.ChunkIDToDetailMap {
		snap.Chunks[id] = model.ChunkDetail{
			StartOffset: c.StartOffset,
			EndOffset:   c.EndOffset,
			State:       string(c.State),
			Locations:   c.Locations,
		}
	}
	return snap
}
