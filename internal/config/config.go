// Package config handles application configuration and setup
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sim86/internal/options"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// File is the layout of a TOML configuration file. Unset keys keep the
// current option values.
type File struct {
	Simulator struct {
		MaxSteps *int  `toml:"max_steps"`
		Execute  *bool `toml:"execute"`
	} `toml:"simulator"`

	Output struct {
		Format    *string `toml:"format"`
		Changes   *bool   `toml:"changes"`
		Header    *bool   `toml:"header"`
		Registers *bool   `toml:"registers"`
	} `toml:"output"`
}

// LoadFile reads and parses a TOML configuration file.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse parses TOML configuration data. Unknown keys are rejected.
func Parse(data []byte) (File, error) {
	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return File{}, fmt.Errorf("parsing config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return File{}, fmt.Errorf("unknown config key '%s'", undecoded[0])
	}
	return f, nil
}

// Apply sets all values of the file on the simulator options, except the
// ones whose command line flag was set explicitly. explicit contains the
// names of the flags that were passed on the command line.
func (f File) Apply(opts *options.Simulator, explicit map[string]bool) {
	set(&opts.MaxSteps, f.Simulator.MaxSteps, explicit["max-steps"])
	set(&opts.Execute, f.Simulator.Execute, explicit["execute"])
	set(&opts.Format, f.Output.Format, explicit["format"])
	set(&opts.Changes, f.Output.Changes, explicit["changes"])
	set(&opts.Header, f.Output.Header, explicit["header"])
	set(&opts.Registers, f.Output.Registers, explicit["registers"])
}

func set[T any](dst, value *T, explicit bool) {
	if value != nil && !explicit {
		*dst = *value
	}
}
