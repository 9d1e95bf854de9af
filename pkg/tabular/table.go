// Package tabular provides the ordered-column, nullable-cell table that the
// pipeline stages exchange, together with its spreadsheet serialization.
package tabular

// Table is a rectangular dataset with named columns. A nil cell is a null;
// distinct from an empty string, which never occurs after loading (empty
// spreadsheet cells load as nulls).
type Table struct {
	Columns []string
	Rows    [][]*string
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string{}, columns...)}
}

// ColumnIndex returns the position of a column, or -1 when absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// AppendRow adds a row, padding or truncating it to the column count.
func (t *Table) AppendRow(cells []*string) {
	row := make([]*string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Cell returns the value at (row, column name), nil when the column is absent.
func (t *Table) Cell(row int, name string) *string {
	idx := t.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return nil
	}
	return t.Rows[row][idx]
}

// SetCell assigns the value at (row, column name). Unknown columns are ignored.
func (t *Table) SetCell(row int, name string, value *string) {
	idx := t.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return
	}
	t.Rows[row][idx] = value
}

// AddColumn appends a column of nulls and returns its index. An existing
// column is returned as is.
func (t *Table) AddColumn(name string) int {
	if idx := t.ColumnIndex(name); idx >= 0 {
		return idx
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], nil)
	}
	return len(t.Columns) - 1
}

// DropColumn removes a column and its cells. Unknown columns are a no-op.
func (t *Table) DropColumn(name string) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return
	}
	t.Columns = append(t.Columns[:idx], t.Columns[idx+1:]...)
	for i, row := range t.Rows {
		t.Rows[i] = append(row[:idx], row[idx+1:]...)
	}
}

// RenameColumns applies a rename map to the column headers.
func (t *Table) RenameColumns(renames map[string]string) {
	for i, c := range t.Columns {
		if to, ok := renames[c]; ok {
			t.Columns[i] = to
		}
	}
}

// Reorder rearranges columns so that those named in preferred (and present)
// come first, in the preferred order, followed by the remaining columns in
// their existing order.
func (t *Table) Reorder(preferred []string) {
	final := make([]string, 0, len(t.Columns))
	for _, c := range preferred {
		if t.HasColumn(c) {
			final = append(final, c)
		}
	}
	for _, c := range t.Columns {
		if !contains(final, c) {
			final = append(final, c)
		}
	}

	indices := make([]int, len(final))
	for i, c := range final {
		indices[i] = t.ColumnIndex(c)
	}
	for r, row := range t.Rows {
		next := make([]*string, len(indices))
		for i, idx := range indices {
			next[i] = row[idx]
		}
		t.Rows[r] = next
	}
	t.Columns = final
}

// Apply transforms every non-null cell of a column in place. Unknown columns
// are a no-op.
func (t *Table) Apply(name string, fn func(string) string) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return
	}
	for _, row := range t.Rows {
		if row[idx] != nil {
			v := fn(*row[idx])
			row[idx] = &v
		}
	}
}

// String returns a pointer to the given value, for building cells.
func String(v string) *string {
	return &v
}

func contains(list []string, v string) bool {
	for _, c := range list {
		if c == v {
			return true
		}
	}
	return false
}
