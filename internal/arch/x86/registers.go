package x86

// Registers is the simulated register file. The four aliased registers
// AX, CX, DX and BX are stored as single 16-bit words; the byte registers
// are views on their low and high halves.
type Registers struct {
	words [8]uint16 // indexed by Register - AX
	flags uint8
	ip    uint16
}

// Get returns the value of a register. Byte registers return the
// corresponding half of their parent word in the low 8 bits.
func (r *Registers) Get(reg Register) uint16 {
	if reg.Wide() {
		return r.words[reg-AX]
	}

	word := r.words[reg&3]
	if reg >= AH {
		return word >> 8
	}
	return word & 0x00FF
}

// Set writes a register. Word registers are replaced as a whole, byte
// registers only change their half of the parent word and use the low 8 bits of value.
func (r *Registers) Set(reg Register, value uint16) {
	if reg.Wide() {
		r.words[reg-AX] = value
		return
	}

	index := reg & 3
	if reg >= AH {
		r.words[index] = r.words[index]&0x00FF | value<<8
		return
	}
	r.words[index] = r.words[index]&0xFF00 | value&0x00FF
}

// Snapshot returns a copy of the register file.
func (r *Registers) Snapshot() Registers {
	return *r
}

// Flag returns whether the given flag is set.
func (r *Registers) Flag(flag Flag) bool {
	return r.flags&uint8(flag) != 0
}

// Flags returns the raw flags byte.
func (r *Registers) Flags() uint8 {
	return r.flags
}

func (r *Registers) setFlag(flag Flag, set bool) {
	if set {
		r.flags |= uint8(flag)
	} else {
		r.flags &^= uint8(flag)
	}
}

// SetFlagsFromResult updates Zero, Sign and Parity from an arithmetic result.
// Parity is set when the result is an even number, which is a simplification
// of the 8086 rule that counts the set bits of the low byte.
func (r *Registers) SetFlagsFromResult(result int16) {
	r.setFlag(FlagZero, result == 0)
	r.setFlag(FlagSign, result < 0)
	r.setFlag(FlagParity, result%2 == 0)
}

// IP returns the instruction pointer as a byte offset into the program.
func (r *Registers) IP() uint16 {
	return r.ip
}

// SetIP sets the instruction pointer.
func (r *Registers) SetIP(ip uint16) {
	r.ip = ip
}

// MoveIP moves the instruction pointer by n bytes, n may be negative.
// The pointer wraps around at 16 bits.
func (r *Registers) MoveIP(n int) {
	r.ip = uint16(int(r.ip) + n)
}
