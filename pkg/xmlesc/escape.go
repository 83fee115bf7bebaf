// Package xmlesc escapes text for XML 1.0 attribute values and character data.
//
// Reserved characters get their named entity. Characters outside the XML
// Char production have no legal representation at all; they are written as
// numeric character references and reported through a WarnFunc, so the
// caller can flag the document as not well-formed and keep going.
package xmlesc

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Context is the XML production a value is escaped for.
type Context int

const (
	// AttValue is a double-quoted attribute value.
	AttValue Context = iota
	// CharData is element character data.
	CharData
)

func (c Context) String() string {
	switch c {
	case AttValue:
		return "AttValue"
	case CharData:
		return "CharData"
	default:
		return "Context(" + strconv.Itoa(int(c)) + ")"
	}
}

// Warning describes one character that cannot appear in well-formed XML.
type Warning struct {
	Rune    rune
	Context Context
}

// WarnFunc receives a Warning for every illegal character found.
type WarnFunc func(Warning)

// Escaper escapes values and reports illegal characters to its WarnFunc.
// The zero value escapes without reporting.
type Escaper struct {
	warn WarnFunc
}

// New returns an Escaper reporting to warn. warn may be nil.
func New(warn WarnFunc) *Escaper {
	return &Escaper{warn: warn}
}

// EscapeAttributeValue returns s as a double-quoted attribute value,
// quotes included.
func (e *Escaper) EscapeAttributeValue(s string) string {
	return `"` + e.escape(s, AttValue) + `"`
}

// EscapeCharData returns s escaped for element content.
func (e *Escaper) EscapeCharData(s string) string {
	return e.escape(s, CharData)
}

// EscapeAttributeValue escapes s as a quoted attribute value and reports
// whether s held characters illegal in XML.
func EscapeAttributeValue(s string) (string, bool) {
	var illegal bool
	out := New(func(Warning) { illegal = true }).EscapeAttributeValue(s)
	return out, illegal
}

// EscapeCharData escapes s as character data and reports whether s held
// characters illegal in XML.
func EscapeCharData(s string) (string, bool) {
	var illegal bool
	out := New(func(Warning) { illegal = true }).EscapeCharData(s)
	return out, illegal
}

const cdataEnd = "]]>"

// escape scans s once, left to right. Substituted text is never rescanned.
func (e *Escaper) escape(s string, ctx Context) string {
	var b strings.Builder
	last := 0 // start of the pending unescaped run
	flush := func(i int, repl string) {
		if b.Len() == 0 {
			b.Grow(len(s) + 16)
		}
		b.WriteString(s[last:i])
		b.WriteString(repl)
	}

	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			var repl string
			switch {
			case c == '<':
				repl = "&lt;"
			case c == '&':
				repl = "&amp;"
			case c == '"' && ctx == AttValue:
				repl = "&quot;"
			case c == '\'' && ctx == AttValue:
				repl = "&apos;"
			case c == ']' && ctx == CharData && strings.HasPrefix(s[i:], cdataEnd):
				flush(i, "]]&gt;")
				i += len(cdataEnd)
				last = i
				continue
			case isIllegal(rune(c)):
				repl = e.charRef(rune(c), ctx)
			default:
				i++
				continue
			}
			flush(i, repl)
			i++
			last = i
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			r, size = decodeSurrogate(s[i:])
		}
		if (r == utf8.RuneError && size == 1) || isIllegal(r) {
			flush(i, e.charRef(r, ctx))
			i += size
			last = i
			continue
		}
		i += size
	}

	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

// charRef reports r and returns its numeric character reference.
// A character reference does not make r legal XML; it only keeps the
// information in the output.
func (e *Escaper) charRef(r rune, ctx Context) string {
	if e != nil && e.warn != nil {
		e.warn(Warning{Rune: r, Context: ctx})
	}
	return "&#x" + strconv.FormatInt(int64(r), 16) + ";"
}

// isIllegal reports whether r falls outside the XML 1.0 Char production:
// C0 controls other than tab, LF and CR, surrogates, U+FFFE and U+FFFF.
func isIllegal(r rune) bool {
	switch {
	case r < 0x20:
		return r != '\t' && r != '\n' && r != '\r'
	case r >= 0xD800 && r <= 0xDFFF:
		return true
	case r == 0xFFFE || r == 0xFFFF:
		return true
	}
	return false
}

// decodeSurrogate decodes a surrogate code point encoded as three UTF-8
// style bytes (ED A0..BF 80..BF), which utf8 rejects as invalid.
// Anything else yields RuneError with size 1.
func decodeSurrogate(s string) (rune, int) {
	if len(s) >= 3 && s[0] == 0xED && s[1] >= 0xA0 && s[1] <= 0xBF && s[2] >= 0x80 && s[2] <= 0xBF {
		return 0xD000 | rune(s[1]&0x3F)<<6 | rune(s[2]&0x3F), 3
	}
	return utf8.RuneError, 1
}
