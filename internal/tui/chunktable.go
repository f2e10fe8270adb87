package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/dfsmon/internal/format"
	"github.com/dm/dfsmon/internal/model"
)

// ChunkTable lists chunks: 0=ID, 1=Start, 2=End, 3=Size, 4=State,
// 5=Locations, 6=Replicas.
type ChunkTable = dataTable[model.ChunkRow]

// NewChunkTable returns a chunk table sorted by id.
func NewChunkTable() ChunkTable {
	cols := []columnDef{
		{Title: "Chunk", Width: 24},
		{Title: "Start", Width: 10},
		{Title: "End", Width: 10},
		{Title: "Size", Width: 10},
		{Title: "State", Width: 12},
		{Title: "Locations", Width: 24},
		{Title: "Replicas", Width: 10},
	}
	m := newDataTable(cols, tableSpec[model.ChunkRow]{
		title:  "Chunks",
		noun:   "chunks",
		cell:   chunkCellValue,
		style:  chunkCellStyle,
		sort:   sortChunkRows,
		filter: filterChunkRows,
		detail: func(r model.ChunkRow) string {
			return r.ID + "  [" + strconv.FormatInt(r.StartOffset, 10) + ", " +
				strconv.FormatInt(r.EndOffset, 10) + ")  " + format.FormatList(r.Locations)
		},
	})
	m.sortCol = 0
	return m
}

func chunkCellValue(r model.ChunkRow, col int) string {
	switch col {
	case 0:
		return r.ID
	case 1:
		return strconv.FormatInt(r.StartOffset, 10)
	case 2:
		return strconv.FormatInt(r.EndOffset, 10)
	case 3:
		if r.Malformed {
			return "---"
		}
		return strconv.FormatInt(r.Size, 10)
	case 4:
		return r.State
	case 5:
		return format.FormatList(r.Locations)
	case 6:
		return r.Replication.String()
	default:
		return ""
	}
}

func chunkCellStyle(r model.ChunkRow, col int) lipgloss.Style {
	base := lipgloss.NewStyle()
	switch col {
	case 3:
		if r.Malformed {
			return base.Foreground(colorRed)
		}
		return base.Foreground(colorCyan)
	case 4:
		return base.Foreground(colorBlue)
	case 5:
		return base.Foreground(colorPurple)
	case 6:
		return severityToStyle(replicationSeverity(r.Replication))
	default:
		return base.Foreground(colorWhite)
	}
}
