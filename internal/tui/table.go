package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

// columnDef describes a single column in a table.
type columnDef struct {
	Title string
	Width int // preferred width, scaled by columnWidths
}

// tableModel is the generic base for sortable, paginated, searchable tables.
type tableModel struct {
	columns   []columnDef
	sortCol   int // -1 = unsorted
	sortDesc  bool
	page      int // 0-indexed
	pageSize  int
	cursor    int // row within the current page
	search    string
	searching bool
	input     textinput.Model
	focused   bool
}

func newTableModel(cols []columnDef) tableModel {
	ti := textinput.New()
	ti.Placeholder = "filter..."
	ti.CharLimit = 80
	return tableModel{
		columns:  cols,
		sortCol:  -1,
		pageSize: 10,
		input:    ti,
	}
}

// Update handles keyboard input for sorting, pagination, cursor movement,
// and search.
func (t tableModel) Update(msg tea.Msg) (tableModel, tea.Cmd) {
	if !t.focused {
		return t, nil
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, nil
	}

	if t.searching {
		switch {
		case key.Matches(km, keys.Escape):
			t.searching = false
			t.input.Blur()
			if t.input.Value() == "" {
				t.search = ""
			}
		case km.Type == tea.KeyEnter:
			t.search = strings.TrimSpace(t.input.Value())
			t.searching = false
			t.input.Blur()
			t.page, t.cursor = 0, 0
		default:
			var cmd tea.Cmd
			t.input, cmd = t.input.Update(km)
			return t, cmd
		}
		return t, nil
	}

	switch {
	case key.Matches(km, keys.Search):
		t.searching = true
		t.input.SetValue(t.search)
		t.input.CursorEnd()
		return t, t.input.Focus()
	case key.Matches(km, keys.Escape):
		t.search = ""
		t.input.SetValue("")
		t.page, t.cursor = 0, 0
	case key.Matches(km, keys.PrevPage):
		if t.page > 0 {
			t.page--
			t.cursor = 0
		}
	case key.Matches(km, keys.NextPage):
		t.page++
		t.cursor = 0
	case key.Matches(km, keys.Up):
		if t.cursor > 0 {
			t.cursor--
		}
	case key.Matches(km, keys.Down):
		t.cursor++
	default:
		if col := digitToCol(km.String()); col >= 0 && col < len(t.columns) {
			if col == t.sortCol {
				t.sortDesc = !t.sortDesc
			} else {
				t.sortCol = col
				t.sortDesc = false
			}
			t.page, t.cursor = 0, 0
		}
	}
	return t, nil
}

// digitToCol converts a "1"–"9" key string to a 0-indexed column number.
// Returns -1 for any other string.
func digitToCol(s string) int {
	if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		return int(s[0] - '1')
	}
	return -1
}

// pageCount returns the number of pages needed for totalRows. Always at least 1.
func pageCount(totalRows, pageSize int) int {
	if totalRows == 0 || pageSize <= 0 {
		return 1
	}
	return (totalRows + pageSize - 1) / pageSize
}

// pageBounds returns the [start, end) row range of page.
func pageBounds(totalRows, page, pageSize int) (int, int) {
	if pageSize <= 0 {
		return 0, totalRows
	}
	start := page * pageSize
	if start >= totalRows {
		start = 0
	}
	end := start + pageSize
	if end > totalRows {
		end = totalRows
	}
	return start, end
}

// clamp keeps page and cursor within bounds for totalRows rows.
func (t *tableModel) clamp(totalRows int) {
	pc := pageCount(totalRows, t.pageSize)
	if t.page >= pc {
		t.page = pc - 1
	}
	if t.page < 0 {
		t.page = 0
	}
	start, end := pageBounds(totalRows, t.page, t.pageSize)
	if n := end - start; t.cursor >= n {
		t.cursor = n - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// columnWidths scales the preferred column widths to fill available cells.
// Non-positive available returns the preferred widths unchanged.
func columnWidths(available int, defs []columnDef) []int {
	out := make([]int, len(defs))
	total := 0
	for i, d := range defs {
		out[i] = d.Width
		total += d.Width
	}
	if available <= 0 || total == 0 {
		return out
	}
	assigned := 0
	for i, d := range defs {
		w := d.Width * available / total
		if w < 3 {
			w = 3
		}
		out[i] = w
		assigned += w
	}
	// Give rounding leftovers to the first (name) column.
	if rest := available - assigned; rest > 0 && len(out) > 0 {
		out[0] += rest
	}
	return out
}

// truncateName shortens s to at most maxWidth terminal cells, ending with
// "..." when there is room for it.
func truncateName(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// sanitize strips control characters so coordinator-supplied names cannot
// move the cursor or inject escape sequences.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) {
			return -1
		}
		return r
	}, s)
}
