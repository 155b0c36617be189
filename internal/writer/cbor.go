package writer

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/retroenv/sim86/internal/arch/x86"
	"github.com/retroenv/sim86/internal/trace"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("writer: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Entry is the binary trace representation of an executed instruction.
type Entry struct {
	Offset      int           `cbor:"1,keyasint"`
	Bytes       []byte        `cbor:"2,keyasint"`
	Text        string        `cbor:"3,keyasint"`
	Changes     []EntryChange `cbor:"4,keyasint,omitempty"`
	FlagsBefore string        `cbor:"5,keyasint,omitempty"`
	FlagsAfter  string        `cbor:"6,keyasint,omitempty"`
	IP          uint16        `cbor:"7,keyasint"`
	Address     *uint16       `cbor:"8,keyasint,omitempty"` // effective address of a memory operand
	JumpTaken   bool          `cbor:"9,keyasint,omitempty"`
}

// EntryChange is a register value change of an Entry.
type EntryChange struct {
	Register string `cbor:"1,keyasint"`
	Before   uint16 `cbor:"2,keyasint"`
	After    uint16 `cbor:"3,keyasint"`
}

// CBOR collects all records and writes them as a single CBOR array when
// the run finishes.
type CBOR struct {
	options Options
	writer  io.Writer
	entries []Entry
}

// NewCBOR creates a new binary trace writer.
func NewCBOR(writer io.Writer, options Options) *CBOR {
	return &CBOR{
		options: options,
		writer:  writer,
		entries: []Entry{},
	}
}

// Begin resets the collected entries.
func (w *CBOR) Begin() error {
	w.entries = w.entries[:0]
	return nil
}

// Write converts a record to an entry.
func (w *CBOR) Write(rec x86.Record) error {
	entry := Entry{
		Offset: rec.Offset,
		Bytes:  rec.Instruction.Bytes,
		Text:   trace.Instruction(rec.Instruction),
		IP:     rec.IPAfter,
	}

	if w.options.Changes {
		for _, change := range rec.Changes {
			entry.Changes = append(entry.Changes, EntryChange{
				Register: change.Register.String(),
				Before:   change.Before,
				After:    change.After,
			})
		}
		entry.FlagsBefore = x86.FlagString(rec.FlagsBefore)
		entry.FlagsAfter = x86.FlagString(rec.FlagsAfter)
		entry.JumpTaken = rec.JumpTaken
		if rec.HasEffectiveAddress {
			address := rec.EffectiveAddress
			entry.Address = &address
		}
	}

	w.entries = append(w.entries, entry)
	return nil
}

// Finish encodes all collected entries.
func (w *CBOR) Finish(x86.Summary) error {
	data, err := cborEncMode.Marshal(w.entries)
	if err != nil {
		return fmt.Errorf("encoding trace: %w", err)
	}
	if _, err := w.writer.Write(data); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	return nil
}

// Decode parses a binary trace written by the CBOR writer.
func Decode(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := cbor.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("writer: unmarshal trace: %w", err)
	}
	return entries, nil
}
