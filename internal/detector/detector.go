// Package detector handles trace output format detection.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sim86/internal/options"
)

// Detector handles output format detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new format detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the trace output format from options or file auto-detection.
// It first checks if a format is explicitly specified in options, otherwise
// attempts to detect the format from the output filename extension.
func (d *Detector) Detect(opts options.Program, simOptions options.Simulator) string {
	format := simOptions.Format
	if format == "" {
		format = d.detectFromFile(opts.Output)
		d.logger.Debug("Auto-detected output format",
			log.String("format", format),
			log.String("file", opts.Output))
	}
	return format
}

// detectFromFile determines the output format based on file extension.
func (d *Detector) detectFromFile(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".cbor":
		return options.FormatCBOR
	default:
		// console output and all other extensions get a text listing
		return options.FormatText
	}
}
