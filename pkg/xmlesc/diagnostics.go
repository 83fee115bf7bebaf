package xmlesc

import (
	"fmt"
	"log/slog"
	"slices"
)

// IllegalCharsMessage is logged once per document that contains characters
// outside the XML Char production.
const IllegalCharsMessage = "found invalid XML characters; this will not be a well-formed XML document"

const maxExamples = 3

// Diagnostics collects illegal-character warnings for one document.
type Diagnostics struct {
	count    int
	examples []rune
	logger   *slog.Logger
}

// NewDiagnostics creates a collector. Each warning is also logged at debug
// level when logger is not nil.
func NewDiagnostics(logger *slog.Logger) *Diagnostics {
	return &Diagnostics{logger: logger}
}

// Add records a warning. It has the WarnFunc signature.
func (d *Diagnostics) Add(w Warning) {
	d.count++
	if len(d.examples) < maxExamples && !slices.Contains(d.examples, w.Rune) {
		d.examples = append(d.examples, w.Rune)
	}
	if d.logger != nil {
		d.logger.Debug("illegal XML character",
			slog.String("char", formatRune(w.Rune)),
			slog.String("context", w.Context.String()))
	}
}

// Escaper returns an Escaper that reports into d.
func (d *Diagnostics) Escaper() *Escaper {
	return New(d.Add)
}

// Count returns the number of warnings recorded.
func (d *Diagnostics) Count() int {
	return d.count
}

// Examples returns up to three distinct offending characters in U+XXXX form.
func (d *Diagnostics) Examples() []string {
	out := make([]string, len(d.examples))
	for i, r := range d.examples {
		out[i] = formatRune(r)
	}
	return out
}

// Log emits the summary warning if anything was recorded.
func (d *Diagnostics) Log(logger *slog.Logger) {
	if d.count == 0 || logger == nil {
		return
	}
	logger.Warn(IllegalCharsMessage,
		slog.Int("count", d.count),
		slog.Any("examples", d.Examples()))
}

func formatRune(r rune) string {
	return fmt.Sprintf("U+%04X", r)
}
