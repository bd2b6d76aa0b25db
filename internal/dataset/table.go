package dataset

import "strings"

// Table is a loaded tabular file: one header row plus data rows, all raw
// strings. Rows may be ragged; Cell is bounds-safe so callers never index
// the row slices directly.
type Table struct {
	// Source is the path the table was loaded from, kept for logging
	// and for deriving output file names.
	Source string

	Header []string
	Rows   [][]string
}

// RowCount returns the number of data rows (the header is not counted).
func (t *Table) RowCount() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnCount returns the number of header columns.
func (t *Table) ColumnCount() int {
	if t == nil {
		return 0
	}
	return len(t.Header)
}

// Cell returns the trimmed cell at (row, col), or "" when the row is
// ragged and the column does not exist.
func (t *Table) Cell(row, col int) string {
	if t == nil || row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// IsEmpty reports whether the table has no data rows.
func (t *Table) IsEmpty() bool {
	return t.RowCount() == 0
}
