// Package options contains the program options.
package options

import "github.com/retroenv/sim86/internal/arch/x86"

// Output formats of the trace writer.
const (
	FormatText = "text"
	FormatCBOR = "cbor"
)

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input program image"`
	Output string `flag:"o" usage:"output trace file (default: stdout)"`
	Config string `flag:"c" usage:"TOML configuration file"`
	Batch  string `flag:"batch" usage:"batch process files matching pattern (e.g. *.bin)"`
	Verify string `flag:"verify" usage:"compare the text trace with an expected listing"`
}

// Flags contains behavior options.
type Flags struct {
	Debug bool `flag:"debug" usage:"enable debug logging"`
	Quiet bool `flag:"q" usage:"quiet mode"`
}

// Program options of the simulator.
type Program struct {
	Parameters
	Flags
}

// Simulator defines options to control decoding, execution and trace output.
type Simulator struct {
	Execute  bool   // apply instruction semantics, decode only otherwise
	MaxSteps int    // executed instruction limit, 0 disables the limit
	Format   string // trace output format, detected from the output file name if empty

	Changes   bool // annotate lines with register and flag changes
	Header    bool // emit a "bits 16" header
	Registers bool // dump the final register state
}

// NewSimulator returns a new options instance with default options.
func NewSimulator() Simulator {
	return Simulator{
		Execute:  true,
		MaxSteps: x86.DefaultMaxSteps,

		Changes:   true,
		Header:    true,
		Registers: true,
	}
}
