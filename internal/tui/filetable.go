package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/dfsmon/internal/format"
	"github.com/dm/dfsmon/internal/model"
)

// FileTable lists files: 0=Name, 1=Size, 2=Chunks, 3=Chunk IDs.
type FileTable = dataTable[model.FileRow]

// NewFileTable returns a file table sorted by name.
func NewFileTable() FileTable {
	cols := []columnDef{
		{Title: "File", Width: 30},
		{Title: "Size", Width: 12},
		{Title: "Chunks", Width: 8},
		{Title: "Chunk IDs", Width: 40},
	}
	m := newDataTable(cols, tableSpec[model.FileRow]{
		title:  "Files",
		noun:   "files",
		cell:   fileCellValue,
		style:  fileCellStyle,
		sort:   sortFileRows,
		filter: filterFileRows,
		detail: func(r model.FileRow) string {
			s := r.Name + "  " + strconv.FormatInt(r.Size, 10) + " bytes"
			if !r.Resolved() {
				s += "  unresolved: " + format.FormatList(r.Unresolved)
			}
			return s
		},
	})
	m.sortCol = 0
	return m
}

func fileCellValue(r model.FileRow, col int) string {
	switch col {
	case 0:
		return r.Name
	case 1:
		s := strconv.FormatInt(r.Size, 10)
		if !r.Resolved() {
			s += "!"
		}
		return s
	case 2:
		return strconv.Itoa(len(r.ChunkIDs))
	case 3:
		return format.FormatList(r.ChunkIDs)
	default:
		return ""
	}
}

func fileCellStyle(r model.FileRow, col int) lipgloss.Style {
	base := lipgloss.NewStyle()
	switch col {
	case 1:
		if !r.Resolved() {
			return base.Foreground(colorOrange)
		}
		return base.Foreground(colorCyan)
	case 3:
		return base.Foreground(colorPurple)
	default:
		return base.Foreground(colorWhite)
	}
}
