// Package loader handles program image loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/sim86/internal/options"
)

// MaxProgramSize is the largest program image addressable by the 16-bit
// instruction pointer.
const MaxProgramSize = 1 << 16

// ErrProgramTooLarge is returned for images that exceed MaxProgramSize.
var ErrProgramTooLarge = errors.New("program image too large")

// Loader handles loading flat program images from disk.
type Loader struct{}

// New creates a new program loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the program image named by the input option.
func (l *Loader) Load(opts options.Program) ([]byte, error) {
	file, err := os.Open(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	return l.LoadFromReader(file)
}

// LoadFromReader reads a program image from a reader. The image is used as
// is, starting at offset 0.
func (l *Loader) LoadFromReader(reader io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(reader, MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading program image: %w", err)
	}
	if len(data) > MaxProgramSize {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrProgramTooLarge, MaxProgramSize)
	}
	return data, nil
}
