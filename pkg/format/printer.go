// Package format renders Mork databases as indented XML documents.
package format

import (
	"bufio"
	"io"
	"strings"

	"github.com/leapstack-labs/morkxml/pkg/xmlesc"
)

const indentSize = 4

// Printer writes XML line by line with depth-based indentation.
//
// The first write error is kept and every later write becomes a no-op, so
// callers can emit a whole subtree and check Err once.
type Printer struct {
	out   *bufio.Writer
	esc   *xmlesc.Escaper
	depth int
	err   error
}

// NewPrinter creates a printer writing to w and escaping text with esc.
// A nil esc escapes without reporting illegal characters.
func NewPrinter(w io.Writer, esc *xmlesc.Escaper) *Printer {
	if esc == nil {
		esc = xmlesc.New(nil)
	}
	return &Printer{
		out: bufio.NewWriter(w),
		esc: esc,
	}
}

// Err returns the first write error.
func (p *Printer) Err() error {
	return p.err
}

// Flush writes any buffered output to the underlying writer.
func (p *Printer) Flush() error {
	if p.err != nil {
		return p.err
	}
	p.err = p.out.Flush()
	return p.err
}

// Depth returns the current nesting depth.
func (p *Printer) Depth() int {
	return p.depth
}

// Indent increases the nesting depth by one.
func (p *Printer) Indent() {
	p.depth++
}

// Dedent decreases the nesting depth by one.
func (p *Printer) Dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

// line writes one indented line made of parts.
func (p *Printer) line(parts ...string) {
	if p.err != nil {
		return
	}
	p.write(strings.Repeat(" ", p.depth*indentSize))
	for _, s := range parts {
		p.write(s)
	}
	p.write("\n")
}

func (p *Printer) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = p.out.WriteString(s)
}

func (p *Printer) attr(v string) string {
	return p.esc.EscapeAttributeValue(v)
}

func (p *Printer) text(v string) string {
	return p.esc.EscapeCharData(v)
}
