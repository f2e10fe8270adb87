package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/dfsmon/internal/format"
	"github.com/dm/dfsmon/internal/model"
)

// NodeTable lists data nodes: 0=ID, 1=Address, 2=Status, 3=Free, 4=Chunks.
type NodeTable = dataTable[model.NodeRow]

// NewNodeTable returns a node table sorted by id.
func NewNodeTable() NodeTable {
	cols := []columnDef{
		{Title: "Node", Width: 20},
		{Title: "Address", Width: 22},
		{Title: "Status", Width: 10},
		{Title: "Free", Width: 12},
		{Title: "Chunks", Width: 8},
	}
	m := newDataTable(cols, tableSpec[model.NodeRow]{
		title:  "Data Nodes",
		noun:   "nodes",
		cell:   nodeCellValue,
		style:  nodeCellStyle,
		sort:   sortNodeRows,
		filter: filterNodeRows,
		detail: func(r model.NodeRow) string {
			return r.ID + "  " + r.Addr + "  " + format.FormatMiB(format.BytesToMiB(r.StorageRemaining)) + " MiB free"
		},
	})
	m.sortCol = 0
	return m
}

func nodeCellValue(r model.NodeRow, col int) string {
	switch col {
	case 0:
		return r.ID
	case 1:
		if r.Addr == "" {
			return "---"
		}
		return r.Addr
	case 2:
		if r.Active {
			return "active"
		}
		return "inactive"
	case 3:
		return format.FormatBytes(int64(r.StorageRemaining))
	case 4:
		return strconv.Itoa(r.ChunkCount)
	default:
		return ""
	}
}

func nodeCellStyle(r model.NodeRow, col int) lipgloss.Style {
	base := lipgloss.NewStyle()
	switch col {
	case 1:
		return base.Foreground(colorBlue)
	case 2:
		if r.Active {
			return base.Foreground(colorGreen)
		}
		return base.Foreground(colorRed)
	case 3:
		return base.Foreground(colorCyan)
	default:
		return base.Foreground(colorWhite)
	}
}
