// Package csvio implements the flat tabular exchange format: named-column
// tables read from and written to CSV files. It is the only I/O layer the
// pipeline persists through.
package csvio

import (
	"fmt"
	"strings"
)

// Table is an in-memory tabular snapshot: an ordered header and rows of
// equal width. Column lookup is by exact header name; FoldHeaders switches
// a table to the trimmed, lower-cased header convention the scorer uses.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewTable creates an empty table with the given column order.
func NewTable(columns ...string) *Table {
	t := &Table{Columns: append([]string(nil), columns...)}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		t.index[c] = i
	}
}

// Append adds one row. Short rows are padded so every row matches the
// header width.
func (t *Table) Append(row ...string) {
	for len(row) < len(t.Columns) {
		row = append(row, "")
	}
	t.Rows = append(t.Rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Col returns the index of a column, or -1 when absent.
func (t *Table) Col(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// HasCol reports whether a column exists.
func (t *Table) HasCol(name string) bool { return t.Col(name) >= 0 }

// Get returns the value at (row, column), or "" when the column is absent.
func (t *Table) Get(row int, name string) string {
	i := t.Col(name)
	if i < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][i]
}

// FoldHeaders trims and lower-cases every column name, making lookups
// effectively case-insensitive. Later duplicates of a folded name shadow
// earlier ones in the index, matching last-one-wins rename semantics.
func (t *Table) FoldHeaders() {
	for i, c := range t.Columns {
		t.Columns[i] = strings.ToLower(strings.TrimSpace(c))
	}
	t.reindex()
}

// Clone copies the header and rows into an independent table.
func (t *Table) Clone() *Table {
	out := NewTable(t.Columns...)
	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

// RequireCols verifies that every named column is present.
func (t *Table) RequireCols(names ...string) error {
	var missing []string
	for _, n := range names {
		if !t.HasCol(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}
