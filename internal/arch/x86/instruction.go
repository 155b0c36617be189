package x86

// Instruction is a fully decoded instruction. It is built once per decode
// step and not modified afterwards.
type Instruction struct {
	Opcode Opcode

	Direction  bool // d flag, the reg field names the destination
	Wide       bool // w flag, 16-bit operands
	SignExtend bool // s flag, a single immediate byte is sign extended

	// Operands holds the destination first. Jumps have a single relative operand.
	Operands []Operand

	// Bytes is the complete encoding of the instruction.
	Bytes []byte
}

// Size returns the encoded length of the instruction in bytes.
func (i Instruction) Size() int {
	return len(i.Bytes)
}

// Name returns the mnemonic of the instruction.
func (i Instruction) Name() string {
	return i.Opcode.Name()
}

// Operation returns the semantic group of the resolved opcode.
func (i Instruction) Operation() Operation {
	return i.Opcode.Operation()
}

// Destination returns the first operand.
func (i Instruction) Destination() Operand {
	if len(i.Operands) == 0 {
		return Operand{}
	}
	return i.Operands[0]
}

// Source returns the second operand.
func (i Instruction) Source() Operand {
	if len(i.Operands) < 2 {
		return Operand{}
	}
	return i.Operands[1]
}
