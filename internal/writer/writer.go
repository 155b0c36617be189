// Package writer implements the trace output formats.
package writer

import (
	"fmt"
	"io"

	"github.com/retroenv/sim86/internal/arch/x86"
	"github.com/retroenv/sim86/internal/options"
)

// TraceWriter defines a shared interface used by the different trace output formats.
// Begin is called once before the first record, Finish once after the run completed.
type TraceWriter interface {
	Begin() error
	Write(rec x86.Record) error
	Finish(summary x86.Summary) error
}

// Options of the writers.
type Options struct {
	Changes   bool // annotate records with register and flag changes
	Header    bool // emit a header before the first record
	Registers bool // emit the final register state
}

// New returns the writer for the given output format.
func New(format string, writer io.Writer, opts Options) (TraceWriter, error) {
	switch format {
	case options.FormatText, "":
		return NewText(writer, opts), nil
	case options.FormatCBOR:
		return NewCBOR(writer, opts), nil
	default:
		return nil, fmt.Errorf("unsupported output format '%s'", format)
	}
}
