package writer

import (
	"fmt"
	"io"

	"github.com/retroenv/sim86/internal/arch/x86"
	"github.com/retroenv/sim86/internal/trace"
)

// Text writes an assembler compatible listing, one instruction per line.
type Text struct {
	options Options
	writer  io.Writer
}

// NewText creates a new text listing writer.
func NewText(writer io.Writer, options Options) *Text {
	return &Text{
		options: options,
		writer:  writer,
	}
}

// Begin writes the listing header.
func (w *Text) Begin() error {
	if !w.options.Header {
		return nil
	}
	if _, err := fmt.Fprintf(w.writer, "bits 16\n\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return nil
}

// Write writes the instruction of a record.
func (w *Text) Write(rec x86.Record) error {
	code := trace.Instruction(rec.Instruction)

	var err error
	if w.options.Changes {
		_, err = fmt.Fprintf(w.writer, "%-30s ; %s\n", code, trace.Changes(rec))
	} else {
		_, err = fmt.Fprintf(w.writer, "%s\n", code)
	}
	if err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

// Finish writes the final register state as comments.
func (w *Text) Finish(summary x86.Summary) error {
	if !w.options.Registers {
		return nil
	}

	if _, err := fmt.Fprintf(w.writer, "\n; Final registers after %d steps:\n", summary.Steps); err != nil {
		return fmt.Errorf("writing register header: %w", err)
	}
	for _, line := range trace.RegisterDump(&summary.Registers) {
		if _, err := fmt.Fprintf(w.writer, ";%s\n", line); err != nil {
			return fmt.Errorf("writing register line: %w", err)
		}
	}
	return nil
}
