package core

// TableEntry is a table together with its key.
type TableEntry struct {
	Key   Key
	Table *Table
}

// Database maps keys to tables and optional metatables.
// Tables iterate in the order they were first added.
type Database struct {
	tables []TableEntry
	index  map[Key]int
	metas  map[Key]*MetaTable
}

// NewDatabase creates an empty database.
func NewDatabase() *Database {
	return &Database{
		index: make(map[Key]int),
		metas: make(map[Key]*MetaTable),
	}
}

// AddTable stores table under key. Re-adding a key replaces the table but
// keeps its original position.
func (d *Database) AddTable(key Key, table *Table) {
	if d.index == nil {
		d.index = make(map[Key]int)
	}
	if i, ok := d.index[key]; ok {
		d.tables[i].Table = table
		return
	}
	d.index[key] = len(d.tables)
	d.tables = append(d.tables, TableEntry{Key: key, Table: table})
}

// Table returns the table stored under key.
func (d *Database) Table(key Key) (*Table, bool) {
	if d == nil {
		return nil, false
	}
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.tables[i].Table, true
}

// Tables returns all tables in stored order.
func (d *Database) Tables() []TableEntry {
	if d == nil {
		return nil
	}
	return d.tables
}

// SetMetaTable attaches meta to the table key. A nil meta removes it.
// The key does not need to name an existing table.
func (d *Database) SetMetaTable(key Key, meta *MetaTable) {
	if d.metas == nil {
		d.metas = make(map[Key]*MetaTable)
	}
	if meta == nil {
		delete(d.metas, key)
		return
	}
	d.metas[key] = meta
}

// MetaTable returns the metatable for key, if any.
func (d *Database) MetaTable(key Key) (*MetaTable, bool) {
	if d == nil {
		return nil, false
	}
	m, ok := d.metas[key]
	return m, ok
}

// Len returns the number of tables.
func (d *Database) Len() int {
	if d == nil {
		return 0
	}
	return len(d.tables)
}
