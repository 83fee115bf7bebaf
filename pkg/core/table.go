package core

// RowEntry is a row together with its own key.
type RowEntry struct {
	Key Key
	Row *Row
}

// Table is an ordered sequence of rows.
// Row keys are not required to be unique; rows are kept exactly as appended.
type Table struct {
	rows []RowEntry
}

// NewTable creates a table from the given entries.
func NewTable(rows ...RowEntry) *Table {
	return &Table{rows: rows}
}

// Append adds a row at the end of the table.
func (t *Table) Append(key Key, row *Row) {
	t.rows = append(t.rows, RowEntry{Key: key, Row: row})
}

// Rows returns the rows in stored order.
func (t *Table) Rows() []RowEntry {
	if t == nil {
		return nil
	}
	return t.rows
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// MetaTable holds table-level cells and anonymous meta-rows for a table.
type MetaTable struct {
	Cells *Row
	Rows  []RowEntry
}

// NewMetaTable creates an empty metatable.
func NewMetaTable() *MetaTable {
	return &MetaTable{Cells: &Row{}}
}

// AppendRow adds a meta-row at the end.
func (m *MetaTable) AppendRow(key Key, row *Row) {
	m.Rows = append(m.Rows, RowEntry{Key: key, Row: row})
}
