package core

// Key identifies a table or row by namespace and object id.
// Both parts are opaque strings and may hold any characters.
type Key struct {
	Namespace string
	ID        string
}

// Cell is a single column/value pair.
type Cell struct {
	Column string
	Value  string
}

// Row maps column names to values, keeping insertion order.
// Column names are unique within a row.
type Row struct {
	cells []Cell
	index map[string]int
}

// NewRow creates a row from cells in the given order.
// A repeated column overwrites the earlier value in place.
func NewRow(cells ...Cell) *Row {
	r := &Row{}
	for _, c := range cells {
		r.Set(c.Column, c.Value)
	}
	return r
}

// Set assigns value to column. An existing column keeps its position.
func (r *Row) Set(column, value string) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[column]; ok {
		r.cells[i].Value = value
		return
	}
	r.index[column] = len(r.cells)
	r.cells = append(r.cells, Cell{Column: column, Value: value})
}

// Get returns the value stored for column.
func (r *Row) Get(column string) (string, bool) {
	if r == nil {
		return "", false
	}
	i, ok := r.index[column]
	if !ok {
		return "", false
	}
	return r.cells[i].Value, true
}

// Cells returns the cells in insertion order.
// The returned slice must not be modified.
func (r *Row) Cells() []Cell {
	if r == nil {
		return nil
	}
	return r.cells
}

// Len returns the number of cells.
func (r *Row) Len() int {
	if r == nil {
		return 0
	}
	return len(r.cells)
}
