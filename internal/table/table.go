// Package table holds the raw string table every spreadsheet decodes into
// before schema mapping. Headers and cells are untyped; typing happens in
// the ingest decoders once the canonical vocabulary is in place.
package table

import "strings"

// Table is a rectangular block of cells with one header row. Rows may be
// ragged; Cell treats out-of-range columns as empty.
type Table struct {
	Headers []string
	Rows    [][]string
}

// New builds a Table from a header row and data rows.
func New(headers []string, rows [][]string) *Table {
	return &Table{Headers: headers, Rows: rows}
}

// ColumnIndex returns the position of the first header equal to name,
// or -1 when absent.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether a header with the given name exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Cell returns the value at (row, col), or "" when out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// DropColumns removes the columns at the given indexes, keeping the
// relative order of the survivors. Indexes out of range are ignored.
func (t *Table) DropColumns(indexes ...int) {
	if len(indexes) == 0 {
		return
	}
	drop := make(map[int]struct{}, len(indexes))
	for _, idx := range indexes {
		if idx >= 0 && idx < len(t.Headers) {
			drop[idx] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return
	}

	keep := make([]int, 0, len(t.Headers)-len(drop))
	for i := range t.Headers {
		if _, ok := drop[i]; !ok {
			keep = append(keep, i)
		}
	}

	headers := make([]string, len(keep))
	for i, idx := range keep {
		headers[i] = t.Headers[idx]
	}
	t.Headers = headers

	for ri, row := range t.Rows {
		next := make([]string, len(keep))
		for i, idx := range keep {
			if idx < len(row) {
				next[i] = row[idx]
			}
		}
		t.Rows[ri] = next
	}
}

// DropUnnamedColumns removes spreadsheet-generated index columns: headers
// that are empty or start with "unnamed" after trimming, case-insensitive.
// Quote and order exports routinely carry one of these in column zero.
func (t *Table) DropUnnamedColumns() {
	var drop []int
	for i, h := range t.Headers {
		trimmed := strings.TrimSpace(strings.ToLower(h))
		if trimmed == "" || strings.HasPrefix(trimmed, "unnamed") {
			drop = append(drop, i)
		}
	}
	t.DropColumns(drop...)
}
