// Package pipeline orchestrates the simulation workflow stages.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/k0kubun/pp/v3"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sim86/internal/arch/x86"
	"github.com/retroenv/sim86/internal/detector"
	"github.com/retroenv/sim86/internal/loader"
	"github.com/retroenv/sim86/internal/options"
	"github.com/retroenv/sim86/internal/verification"
	"github.com/retroenv/sim86/internal/writer"
)

// Pipeline orchestrates the complete simulation workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
	printer  *pp.PrettyPrinter
}

// New creates a new simulation pipeline.
func New(logger *log.Logger) *Pipeline {
	printer := pp.New()
	printer.SetColoringEnabled(false)

	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
		printer:  printer,
	}
}

// Execute runs the complete simulation pipeline.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, simOpts options.Simulator, w io.Writer) (x86.Summary, error) {
	code, err := p.loader.Load(opts)
	if err != nil {
		return x86.Summary{}, fmt.Errorf("loading program: %w", err)
	}

	return p.ExecuteWithCode(ctx, code, opts, simOpts, w)
}

// ExecuteWithCode runs the simulation pipeline with a pre-loaded program image.
// This is useful for testing and programmatic usage where the program is already in memory.
// The trace is written up to the failing instruction if the simulation stops with an error.
func (p *Pipeline) ExecuteWithCode(ctx context.Context, code []byte, opts options.Program,
	simOpts options.Simulator, w io.Writer) (x86.Summary, error) {

	format := p.detector.Detect(opts, simOpts)
	if opts.Verify != "" && format != options.FormatText {
		return x86.Summary{}, fmt.Errorf("verification requires %s output, got %s", options.FormatText, format)
	}

	// keep a copy of the listing for verification
	var listing bytes.Buffer
	if opts.Verify != "" {
		w = io.MultiWriter(w, &listing)
	}

	traceWriter, err := writer.New(format, w, writer.Options{
		Changes:   simOpts.Changes && simOpts.Execute,
		Header:    simOpts.Header,
		Registers: simOpts.Registers && simOpts.Execute,
	})
	if err != nil {
		return x86.Summary{}, fmt.Errorf("creating trace writer: %w", err)
	}

	p.printInfo(opts, simOpts, code, format)

	summary, err := p.runSimulation(ctx, code, opts, simOpts, traceWriter)
	if err != nil {
		return summary, err
	}

	p.logger.Debug("Simulation finished",
		log.Int("steps", summary.Steps),
		log.Int("jump_targets", len(summary.JumpTargets)))
	p.logJumpTargets(summary)

	// Verify output (if requested)
	if opts.Verify != "" {
		if err := verification.VerifyOutput(p.logger, listing.Bytes(), opts.Verify); err != nil {
			return summary, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful")
	}

	return summary, nil
}

// runSimulation executes the program and streams all records to the trace writer.
func (p *Pipeline) runSimulation(ctx context.Context, code []byte, opts options.Program,
	simOpts options.Simulator, traceWriter writer.TraceWriter) (x86.Summary, error) {

	if err := traceWriter.Begin(); err != nil {
		return x86.Summary{}, fmt.Errorf("writing trace header: %w", err)
	}

	cpu := x86.New(code,
		x86.WithMaxSteps(simOpts.MaxSteps),
		x86.WithExecution(simOpts.Execute),
	)

	summary, runErr := cpu.Run(ctx, func(rec x86.Record) error {
		if opts.Debug {
			p.logger.Debug("Executed instruction",
				log.Hex("offset", rec.Offset),
				log.String("instruction", p.printer.Sprint(rec.Instruction)))
		}
		return traceWriter.Write(rec)
	})

	// a canceled run produces no final register dump
	if errors.Is(runErr, context.Canceled) {
		return summary, fmt.Errorf("simulating: %w", runErr)
	}

	if err := traceWriter.Finish(summary); err != nil {
		return summary, fmt.Errorf("writing trace: %w", err)
	}
	if runErr != nil {
		return summary, fmt.Errorf("simulating: %w", runErr)
	}
	return summary, nil
}

// logJumpTargets logs all taken jump destinations in ascending order.
func (p *Pipeline) logJumpTargets(summary x86.Summary) {
	targets := make([]uint16, 0, len(summary.JumpTargets))
	for target := range summary.JumpTargets {
		targets = append(targets, target)
	}
	slices.Sort(targets)

	for _, target := range targets {
		p.logger.Debug("Jump target", log.Hex("offset", target))
	}
}

// printInfo prints information about the program being processed.
func (p *Pipeline) printInfo(opts options.Program, simOpts options.Simulator, code []byte, format string) {
	if opts.Quiet {
		return
	}

	mode := "execute"
	if !simOpts.Execute {
		mode = "decode"
	}
	p.logger.Info("Processing 8086 program",
		log.String("file", opts.Input),
		log.Int("size", len(code)),
		log.String("mode", mode),
		log.String("format", format),
	)
}
