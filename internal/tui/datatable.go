package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
)

// tableSpec supplies the row-type specific parts of a dataTable.
type tableSpec[R any] struct {
	title  string
	noun   string // used in the empty-table placeholder
	cell   func(r R, col int) string
	style  func(r R, col int) lipgloss.Style
	sort   func(rows []R, col int, desc bool) []R
	filter func(rows []R, search string) []R
	detail func(r R) string
}

// dataTable is a tableModel bound to one row type.
type dataTable[R any] struct {
	tableModel
	spec        tableSpec[R]
	allRows     []R // unfiltered source data
	displayRows []R // after filter + sort
}

func newDataTable[R any](cols []columnDef, spec tableSpec[R]) dataTable[R] {
	return dataTable[R]{tableModel: newTableModel(cols), spec: spec}
}

// SetData applies the current search filter and sort to rows.
func (m *dataTable[R]) SetData(rows []R) {
	m.allRows = rows
	m.refresh()
}

func (m *dataTable[R]) refresh() {
	m.displayRows = m.spec.sort(m.spec.filter(m.allRows, m.search), m.sortCol, m.sortDesc)
	m.clamp(len(m.displayRows))
}

// Update delegates to the embedded tableModel and re-applies filter/sort when
// the sort column, direction, or search term changes.
func (m dataTable[R]) Update(msg tea.Msg) (dataTable[R], tea.Cmd) {
	prevSort, prevDesc, prevSearch := m.sortCol, m.sortDesc, m.search

	base, cmd := m.tableModel.Update(msg)
	m.tableModel = base

	if m.sortCol != prevSort || m.sortDesc != prevDesc || m.search != prevSearch {
		m.refresh()
	}
	m.clamp(len(m.displayRows))
	return m, cmd
}

// selected returns the row under the cursor on the current page.
func (m *dataTable[R]) selected() (R, bool) {
	var zero R
	start, end := pageBounds(len(m.displayRows), m.page, m.pageSize)
	i := start + m.cursor
	if i >= end {
		return zero, false
	}
	return m.displayRows[i], true
}

// View renders the title bar followed by the current page.
func (m *dataTable[R]) View(width int) string {
	pc := pageCount(len(m.displayRows), m.pageSize)
	hdr := m.renderTitle(m.page+1, pc)

	var colWidths []int
	if width > 0 {
		colWidths = columnWidths(width, m.columns)
	}

	headers := make([]string, len(m.columns))
	for i, c := range m.columns {
		h := c.Title
		if i == m.sortCol {
			if m.sortDesc {
				h += "↓"
			} else {
				h += "↑"
			}
		}
		if len(colWidths) == len(m.columns) {
			if pad := colWidths[i] - lipgloss.Width(h); pad > 0 {
				h += strings.Repeat(" ", pad)
			}
		}
		headers[i] = h
	}

	start, end := pageBounds(len(m.displayRows), m.page, m.pageSize)
	if start == end {
		empty := "  (no " + m.spec.noun + ")"
		if m.search != "" {
			empty = "  (no " + m.spec.noun + " match)"
		}
		return lipgloss.JoinVertical(lipgloss.Left, hdr, StyleDim.Render(empty))
	}
	page := m.displayRows[start:end]

	sortCol, focused, cursor := m.sortCol, m.focused, m.cursor
	t := ltable.New().
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				if col == sortCol {
					return lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
				}
				return lipgloss.NewStyle().Bold(true).Foreground(colorGray)
			}
			s := m.spec.style(page[row], col)
			if focused && row == cursor {
				return s.Background(colorSelectedBg)
			}
			if row%2 == 0 {
				return s.Background(colorAlt)
			}
			return s
		}).
		BorderStyle(lipgloss.NewStyle().Foreground(colorGray)).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(true).
		BorderColumn(false)
	if width > 0 {
		t = t.Width(width)
	}

	for _, r := range page {
		cells := make([]string, len(m.columns))
		for col := range m.columns {
			cells[col] = sanitize(m.spec.cell(r, col))
			if col < len(colWidths) {
				cells[col] = truncateName(cells[col], colWidths[col])
			}
		}
		t = t.Row(cells...)
	}

	parts := []string{hdr, t.String()}
	if r, ok := m.selected(); ok && m.focused && m.spec.detail != nil {
		parts = append(parts, StyleDim.Render("  "+sanitize(m.spec.detail(r))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderTitle renders the title bar with search/sort/page hints. While
// searching the live text input replaces the hints.
func (m *dataTable[R]) renderTitle(page, pages int) string {
	pageInfo := fmt.Sprintf("Page %d/%d", page, pages)
	title := fmt.Sprintf("%s (%d)", m.spec.title, len(m.displayRows))

	var right string
	switch {
	case m.searching:
		right = "Search: " + m.input.View()
	case m.search != "":
		right = fmt.Sprintf("filter=%q  %s", m.search, pageInfo)
	default:
		right = fmt.Sprintf("[/: search]  [1-%d: sort]  [←→: page]  %s", len(m.columns), pageInfo)
	}
	return StyleDim.Render(title + "  " + right)
}
