// Package verification verifies that the generated trace matches an expected listing.
package verification

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/retrogolib/log"
)

const maxReportedMismatches = 10

// VerifyOutput compares the instructions of a text trace with the listing
// stored in the expected file.
func VerifyOutput(logger *log.Logger, output []byte, expectedFile string) error {
	expected, err := os.ReadFile(expectedFile)
	if err != nil {
		return fmt.Errorf("reading expected listing: %w", err)
	}
	return CompareListings(logger, expected, output)
}

// CompareListings compares two listings line by line. Comments, blank lines
// and the bits directive are ignored and whitespace is normalized.
func CompareListings(logger *log.Logger, expected, actual []byte) error {
	expectedLines := instructionLines(expected)
	actualLines := instructionLines(actual)

	var diffs int
	for i := range max(len(expectedLines), len(actualLines)) {
		var want, got string
		if i < len(expectedLines) {
			want = expectedLines[i]
		}
		if i < len(actualLines) {
			got = actualLines[i]
		}
		if want == got {
			continue
		}

		diffs++
		if diffs <= maxReportedMismatches {
			logger.Error("Instruction mismatch",
				log.Int("line", i+1),
				log.String("expected", want),
				log.String("got", got))
		}
	}

	if len(expectedLines) != len(actualLines) {
		return fmt.Errorf("mismatched instruction counts, %d != %d", len(expectedLines), len(actualLines))
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d instruction mismatches", diffs)
}

// instructionLines extracts the normalized instructions of a listing.
func instructionLines(data []byte) []string {
	var lines []string

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		line = strings.Join(strings.Fields(line), " ")
		if line == "" || strings.HasPrefix(line, "bits ") {
			continue
		}
		lines = append(lines, strings.ToLower(line))
	}
	return lines
}
