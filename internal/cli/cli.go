// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/sim86/internal/config"
	"github.com/retroenv/sim86/internal/options"
)

// ParseFlags parses command line flags and returns program and simulator options.
// Values of a configuration file passed with -c are applied unless the
// matching flag was set explicitly.
func ParseFlags() (options.Program, options.Simulator, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	simOptions := options.NewSimulator()
	readSimulatorOptionFlags(flags, &simOptions)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Batch == "" && opts.Input == "") {
		return opts, options.Simulator{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Simulator{}, err
	}

	if opts.Batch == "" && opts.Input == "" {
		opts.Input = args[0]
	}

	if opts.Config != "" {
		cfg, err := config.LoadFile(opts.Config)
		if err != nil {
			return opts, options.Simulator{}, err
		}

		explicit := map[string]bool{}
		flags.Visit(func(f *flag.Flag) {
			explicit[f.Name] = true
		})
		cfg.Apply(&simOptions, explicit)
	}

	if err := normalizeOptions(&simOptions); err != nil {
		return opts, options.Simulator{}, err
	}
	if err := validateOptionCombinations(opts, simOptions); err != nil {
		return opts, options.Simulator{}, err
	}

	return opts, simOptions, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: sim86 [options] <program image to simulate>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after program image, please pass the program image as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Simulator) error {
	opts.Format = strings.ToLower(opts.Format)
	if opts.Format == "" {
		return nil
	}

	validFormats := []string{options.FormatText, options.FormatCBOR}
	for _, valid := range validFormats {
		if opts.Format == valid {
			return nil
		}
	}

	return fmt.Errorf("unsupported output format: %s. Valid options: %s",
		opts.Format, strings.Join(validFormats, ", "))
}

// validateOptionCombinations checks for option values that can not be used together.
func validateOptionCombinations(opts options.Program, simOptions options.Simulator) error {
	if simOptions.MaxSteps < 0 {
		return fmt.Errorf("invalid step limit %d", simOptions.MaxSteps)
	}
	if opts.Verify == "" {
		return nil
	}
	if opts.Batch != "" {
		return fmt.Errorf("output verification can not be used in batch mode")
	}
	if simOptions.Format == options.FormatCBOR {
		return fmt.Errorf("output verification requires the %s output format", options.FormatText)
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input program image")
	flags.StringVar(&opts.Output, "o", "", "name of the output trace file, printed on console if no name given")
	flags.StringVar(&opts.Config, "c", "", "TOML config file with simulator and output settings")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically name the trace files, for example *.bin")
	flags.StringVar(&opts.Verify, "verify", "", "verify the generated trace against the given expected listing")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}

func readSimulatorOptionFlags(flags *flag.FlagSet, opts *options.Simulator) {
	flags.BoolVar(&opts.Execute, "execute", opts.Execute, "execute the instructions, only decode them if disabled")
	flags.IntVar(&opts.MaxSteps, "max-steps", opts.MaxSteps, "maximum number of instructions to execute, 0 for no limit")
	flags.StringVar(&opts.Format, "format", opts.Format, "output format of the trace (text/cbor), detected from the output file name if not set")
	flags.BoolVar(&opts.Changes, "changes", opts.Changes, "annotate instructions with register and flag changes")
	flags.BoolVar(&opts.Header, "header", opts.Header, "output a bits 16 header")
	flags.BoolVar(&opts.Registers, "registers", opts.Registers, "output the final register state")
}
