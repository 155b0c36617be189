package x86

import (
	"errors"
	"fmt"
)

// Errors returned by the decoder and the executor. Decoding errors are
// wrapped in a *DecodeError that carries the offset of the failing instruction.
var (
	// ErrUnknownOpcode is returned when the leading byte matches no known opcode pattern.
	ErrUnknownOpcode = errors.New("unknown opcode")
	// ErrTruncatedInstruction is returned when the program ends inside an instruction.
	ErrTruncatedInstruction = errors.New("truncated instruction")
	// ErrInvalidOperandIndex signals a register or addressing table lookup out of range.
	// It indicates a decoder defect rather than malformed input.
	ErrInvalidOperandIndex = errors.New("invalid operand index")
	// ErrUnsupportedAddressingMode is returned for mode combinations the decoder does not handle.
	ErrUnsupportedAddressingMode = errors.New("unsupported addressing mode")
	// ErrStepLimitExceeded is returned when the executor runs more steps than configured.
	ErrStepLimitExceeded = errors.New("step limit exceeded")
)

// DecodeError describes a failure to decode the instruction starting at Offset.
type DecodeError struct {
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding instruction at offset 0x%04x: %s", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
