package format

import (
	"io"

	"github.com/leapstack-labs/morkxml/pkg/core"
	"github.com/leapstack-labs/morkxml/pkg/xmlesc"
)

// Declaration is the first line of every document.
const Declaration = `<?xml version="1.0" encoding="UTF-8" ?>`

// RootElement is the name of the document element.
const RootElement = "morkxml"

// WriteDocument writes db as a complete XML document to w and flushes it.
// Write errors are returned unchanged.
func WriteDocument(w io.Writer, db *core.Database, esc *xmlesc.Escaper) error {
	p := NewPrinter(w, esc)
	p.WriteDocument(db)
	return p.Flush()
}

// WriteDocument writes the declaration, the root element and every table in
// stored order. Call Flush afterwards.
func (p *Printer) WriteDocument(db *core.Database) {
	p.line(Declaration)
	p.line("<", RootElement, ">")
	p.Indent()
	for _, e := range db.Tables() {
		if p.err != nil {
			return
		}
		meta, _ := db.MetaTable(e.Key)
		p.WriteTable(e.Key, e.Table, meta)
	}
	p.Dedent()
	p.line("</", RootElement, ">")
}

// WriteTable writes a table element with its rows, then meta if not nil.
func (p *Printer) WriteTable(key core.Key, table *core.Table, meta *core.MetaTable) {
	p.line("<table namespace=", p.attr(key.Namespace), " id=", p.attr(key.ID), ">")
	p.Indent()
	for _, r := range table.Rows() {
		if p.err != nil {
			return
		}
		p.WriteRow(r.Key, r.Row)
	}
	if meta != nil {
		p.WriteMetaTable(meta)
	}
	p.Dedent()
	p.line("</table>")
}

// WriteMetaTable writes the table-level cells followed by the meta-rows.
func (p *Printer) WriteMetaTable(meta *core.MetaTable) {
	p.line("<metatable>")
	p.Indent()
	for _, c := range meta.Cells.Cells() {
		p.WriteCell(c.Column, c.Value)
	}
	for _, r := range meta.Rows {
		if p.err != nil {
			return
		}
		p.WriteRow(r.Key, r.Row)
	}
	p.Dedent()
	p.line("</metatable>")
}

// WriteRow writes a row element and its cells.
func (p *Printer) WriteRow(key core.Key, row *core.Row) {
	p.line("<row namespace=", p.attr(key.Namespace), " id=", p.attr(key.ID), ">")
	p.Indent()
	for _, c := range row.Cells() {
		p.WriteCell(c.Column, c.Value)
	}
	p.Dedent()
	p.line("</row>")
}

// WriteCell writes a cell on a single line.
func (p *Printer) WriteCell(column, value string) {
	p.line("<cell column=", p.attr(column), ">", p.text(value), "</cell>")
}
