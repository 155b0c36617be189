package x86

import "golang.org/x/exp/constraints"

// littleEndian assembles b, low byte first, into an unsigned value.
func littleEndian[T constraints.Unsigned](b []byte) T {
	var v T
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | T(b[i])
	}
	return v
}

// signExtend widens a byte to 16 bits by replicating bit 7.
func signExtend(b byte) int16 {
	return int16(int8(b))
}

// immediate decodes a 0, 1 or 2 byte immediate or displacement field.
// A single byte is sign extended, an absent field is 0.
func immediate(b []byte) int16 {
	switch len(b) {
	case 0:
		return 0
	case 1:
		return signExtend(b[0])
	default:
		return int16(littleEndian[uint16](b))
	}
}
