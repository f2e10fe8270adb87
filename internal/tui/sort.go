package tui

import (
	"sort"
	"strings"

	"github.com/dm/dfsmon/internal/model"
)

// byName breaks ties case-insensitively, then byte-wise for determinism.
func byName(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

// sortNodeRows returns a sorted copy of rows. Column mapping:
//
//	0=ID, 1=Addr, 2=Active, 3=StorageRemaining, 4=ChunkCount
//
// col -1 preserves order. Ties are broken by ID ascending.
func sortNodeRows(rows []model.NodeRow, col int, desc bool) []model.NodeRow {
	out := make([]model.NodeRow, len(rows))
	copy(out, rows)
	if col < 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var less bool
		switch col {
		case 1:
			if a.Addr == b.Addr {
				return byName(a.ID, b.ID)
			}
			less = a.Addr < b.Addr
		case 2:
			if a.Active == b.Active {
				return byName(a.ID, b.ID)
			}
			less = !a.Active
		case 3:
			if a.StorageRemaining == b.StorageRemaining {
				return byName(a.ID, b.ID)
			}
			less = a.StorageRemaining < b.StorageRemaining
		case 4:
			if a.ChunkCount == b.ChunkCount {
				return byName(a.ID, b.ID)
			}
			less = a.ChunkCount < b.ChunkCount
		default:
			less = byName(a.ID, b.ID)
		}
		if desc {
			return !less
		}
		return less
	})
	return out
}

// sortFileRows returns a sorted copy of rows. Column mapping:
//
//	0=Name, 1=Size, 2=len(ChunkIDs), 3=first chunk id
//
// Ties are broken by Name ascending.
func sortFileRows(rows []model.FileRow, col int, desc bool) []model.FileRow {
	out := make([]model.FileRow, len(rows))
	copy(out, rows)
	if col < 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var less bool
		switch col {
		case 1:
			if a.Size == b.Size {
				return byName(a.Name, b.Name)
			}
			less = a.Size < b.Size
		case 2:
			if len(a.ChunkIDs) == len(b.ChunkIDs) {
				return byName(a.Name, b.Name)
			}
			less = len(a.ChunkIDs) < len(b.ChunkIDs)
		case 3:
			fa, fb := firstOf(a.ChunkIDs), firstOf(b.ChunkIDs)
			if fa == fb {
				return byName(a.Name, b.Name)
			}
			less = fa < fb
		default:
			less = byName(a.Name, b.Name)
		}
		if desc {
			return !less
		}
		return less
	})
	return out
}

// sortChunkRows returns a sorted copy of rows. Column mapping:
//
//	0=ID, 1=StartOffset, 2=EndOffset, 3=Size, 4=State, 5=len(Locations),
//	6=Replication (worst first when descending)
//
// Ties are broken by ID ascending.
func sortChunkRows(rows []model.ChunkRow, col int, desc bool) []model.ChunkRow {
	out := make([]model.ChunkRow, len(rows))
	copy(out, rows)
	if col < 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var less bool
		switch col {
		case 1:
			if a.StartOffset == b.StartOffset {
				return byName(a.ID, b.ID)
			}
			less = a.StartOffset < b.StartOffset
		case 2:
			if a.EndOffset == b.EndOffset {
				return byName(a.ID, b.ID)
			}
			less = a.EndOffset < b.EndOffset
		case 3:
			if a.Size == b.Size {
				return byName(a.ID, b.ID)
			}
			less = a.Size < b.Size
		case 4:
			if a.State == b.State {
				return byName(a.ID, b.ID)
			}
			less = byName(a.State, b.State)
		case 5:
			if len(a.Locations) == len(b.Locations) {
				return byName(a.ID, b.ID)
			}
			less = len(a.Locations) < len(b.Locations)
		case 6:
			ra, rb := replicationSeverity(a.Replication), replicationSeverity(b.Replication)
			if ra == rb {
				return byName(a.ID, b.ID)
			}
			less = ra < rb
		default:
			less = byName(a.ID, b.ID)
		}
		if desc {
			return !less
		}
		return less
	})
	return out
}

func firstOf(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// filterNodeRows returns rows whose ID or Addr contains search (case-insensitive).
func filterNodeRows(rows []model.NodeRow, search string) []model.NodeRow {
	if search == "" {
		return rows
	}
	lower := strings.ToLower(search)
	out := rows[:0:0]
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.ID), lower) ||
			strings.Contains(strings.ToLower(r.Addr), lower) {
			out = append(out, r)
		}
	}
	return out
}

// filterFileRows returns rows whose Name or any chunk id contains search.
func filterFileRows(rows []model.FileRow, search string) []model.FileRow {
	if search == "" {
		return rows
	}
	lower := strings.ToLower(search)
	out := rows[:0:0]
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Name), lower) || anyContains(r.ChunkIDs, lower) {
			out = append(out, r)
		}
	}
	return out
}

// filterChunkRows returns rows whose ID, State, or any location contains search.
func filterChunkRows(rows []model.ChunkRow, search string) []model.ChunkRow {
	if search == "" {
		return rows
	}
	lower := strings.ToLower(search)
	out := rows[:0:0]
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.ID), lower) ||
			strings.Contains(strings.ToLower(r.State), lower) ||
			anyContains(r.Locations, lower) {
			out = append(out, r)
		}
	}
	return out
}

func anyContains(values []string, lower string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), lower) {
			return true
		}
	}
	return false
}
