// Package core defines the in-memory Mork database model.
//
// This package contains:
//   - Identity (Key: a namespace and object id pair)
//   - Row data (Row, Cell) with insertion-ordered columns
//   - Tables (Table, RowEntry) and their optional MetaTable
//   - The Database root mapping keys to tables and metatables
//
// Every collection keeps the order in which entries were added. Writers and
// exporters rely on that order, so nothing here sorts or deduplicates beyond
// the key uniqueness each type documents.
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
