package x86

import (
	"fmt"
	"slices"
)

const (
	modRegister      = 0b11  // mod field value of register to register operations
	rmDirect         = 0b110 // rm field value of a direct address when mod is 00
	accumulatorIndex = 0     // register field value of al and ax
)

// Decode decodes the instruction starting at offset of code.
// The complete instruction length is determined before any byte is
// consumed; if code ends earlier an ErrTruncatedInstruction is returned.
func Decode(code []byte, offset int) (Instruction, error) {
	ins, err := decode(NewCursor(code, offset))
	if err != nil {
		return Instruction{}, &DecodeError{Offset: offset, Err: err}
	}
	return ins, nil
}

func decode(c *Cursor) (Instruction, error) {
	b0, err := c.Peek()
	if err != nil {
		return Instruction{}, err
	}

	opcode, _, ok := MatchOpcode(b0)
	if !ok {
		return Instruction{}, fmt.Errorf("%w: 0x%02x (%08b)", ErrUnknownOpcode, b0, b0)
	}

	size, err := instructionLength(c, opcode, b0)
	if err != nil {
		return Instruction{}, err
	}
	if size > c.Remaining() {
		return Instruction{}, fmt.Errorf("%w: %s needs %d bytes, %d available",
			ErrTruncatedInstruction, opcode.Name(), size, c.Remaining())
	}

	data, err := c.Read(size)
	if err != nil {
		return Instruction{}, err
	}
	return build(opcode, data)
}

// instructionLength returns the total number of bytes of the instruction
// starting with b0, peeking at the mode byte where the encoding has one.
func instructionLength(c *Cursor, opcode Opcode, b0 byte) (int, error) {
	w := b0 & 1

	switch opcode {
	case MovMemAcc, MovAccMem:
		return 3, nil

	case MovImmReg:
		return 1 + int((b0>>3)&1) + 1, nil

	case AddImmAcc, SubImmAcc, CmpImmAcc:
		return 1 + int(w) + 1, nil

	case MovRegRm, AddRegRm, SubRegRm, CmpRegRm, MovImmRm, ArithImmRm:
		modeByte, err := c.PeekAt(1)
		if err != nil {
			return 0, err
		}
		size := 2 + displacementLength(modeByte>>6, modeByte&7)

		switch opcode {
		case MovImmRm:
			size += immediateLength(w, 0)
		case ArithImmRm:
			size += immediateLength(w, (b0>>1)&1)
		}
		return size, nil

	default:
		if opcode.IsJump() {
			return 2, nil
		}
		return 0, fmt.Errorf("%w: no length rule for %s", ErrUnknownOpcode, opcode.Name())
	}
}

// displacementLength returns the number of displacement bytes that follow
// a mode byte. mod=00 with rm=110 is a 16-bit direct address.
func displacementLength(mod, rm byte) int {
	switch {
	case mod == modRegister:
		return 0
	case mod == 0 && rm == rmDirect:
		return 2
	default:
		return int(mod)
	}
}

// immediateLength returns the number of immediate bytes for the w and s
// flags. A byte form with s set carries no immediate at all.
func immediateLength(w, s byte) int {
	return int(w) + 1 - int(s)
}

func build(opcode Opcode, data []byte) (Instruction, error) {
	b0 := data[0]
	ins := Instruction{
		Opcode: opcode,
		Bytes:  slices.Clone(data),
	}

	var err error
	switch opcode {
	case MovRegRm, AddRegRm, SubRegRm, CmpRegRm:
		err = buildRegRm(&ins, b0, data[1:])

	case MovImmReg:
		err = buildImmReg(&ins, b0, data[1:])

	case AddImmAcc, SubImmAcc, CmpImmAcc:
		err = buildImmAcc(&ins, b0, data[1:])

	case MovImmRm, ArithImmRm:
		err = buildImmRm(&ins, b0, data[1:])

	case MovMemAcc, MovAccMem:
		err = buildAccMem(&ins, b0, data[1:])

	default:
		if !opcode.IsJump() {
			return Instruction{}, fmt.Errorf("%w: %s", ErrUnknownOpcode, opcode.Name())
		}
		ins.Operands = []Operand{{Kind: OperandRelative, Value: signExtend(data[1])}}
	}
	if err != nil {
		return Instruction{}, err
	}
	return ins, nil
}

// buildRegRm handles the register/memory with register forms:
// opcode d w | mod reg rm | displacement.
func buildRegRm(ins *Instruction, b0 byte, rest []byte) error {
	d := (b0 >> 1) & 1
	w := b0 & 1
	ins.Direction = d == 1
	ins.Wide = w == 1

	modeByte := rest[0]
	reg, err := lookupRegister(w, (modeByte>>3)&7)
	if err != nil {
		return err
	}
	rm, _, err := rmOperand(modeByte, w, rest[1:])
	if err != nil {
		return err
	}

	if ins.Direction {
		ins.Operands = []Operand{RegisterOperand(reg), rm}
	} else {
		ins.Operands = []Operand{rm, RegisterOperand(reg)}
	}
	return nil
}

// buildImmReg handles mov immediate to register: 1011 w reg | data | data if w.
func buildImmReg(ins *Instruction, b0 byte, rest []byte) error {
	w := (b0 >> 3) & 1
	ins.Wide = w == 1

	reg, err := lookupRegister(w, b0&7)
	if err != nil {
		return err
	}
	ins.Operands = []Operand{
		RegisterOperand(reg),
		{Kind: OperandImmediate, Value: immediate(rest), Wide: ins.Wide},
	}
	return nil
}

// buildImmAcc handles the immediate to accumulator forms of add, sub and cmp.
func buildImmAcc(ins *Instruction, b0 byte, rest []byte) error {
	w := b0 & 1
	ins.Wide = w == 1

	reg, err := lookupRegister(w, accumulatorIndex)
	if err != nil {
		return err
	}
	ins.Operands = []Operand{
		RegisterOperand(reg),
		{Kind: OperandImmediate, Value: immediate(rest), Wide: ins.Wide},
	}
	return nil
}

// buildImmRm handles the immediate to register/memory forms:
// opcode s w | mod ext rm | displacement | w+1-s data bytes.
func buildImmRm(ins *Instruction, b0 byte, rest []byte) error {
	w := b0 & 1
	ins.Wide = w == 1
	modeByte := rest[0]
	extension := (modeByte >> 3) & 7

	if ins.Opcode == ArithImmRm {
		ins.SignExtend = (b0>>1)&1 == 1
		opcode, ok := arithImmRmExtension[extension]
		if !ok {
			return fmt.Errorf("%w: 0x%02x extension %03b", ErrUnknownOpcode, b0, extension)
		}
		ins.Opcode = opcode
	} else if extension != 0 {
		return fmt.Errorf("%w: mov immediate with reg field %03b", ErrUnsupportedAddressingMode, extension)
	}

	rm, dispLength, err := rmOperand(modeByte, w, rest[1:])
	if err != nil {
		return err
	}

	ins.Operands = []Operand{
		rm,
		{Kind: OperandImmediate, Value: immediate(rest[1+dispLength:]), Wide: ins.Wide},
	}
	return nil
}

// buildAccMem handles mov between the accumulator and a direct address.
func buildAccMem(ins *Instruction, b0 byte, rest []byte) error {
	w := b0 & 1
	ins.Wide = w == 1

	reg, err := lookupRegister(w, accumulatorIndex)
	if err != nil {
		return err
	}
	memory := Operand{Kind: OperandDirect, Address: littleEndian[uint16](rest[:2]), Wide: ins.Wide}

	if ins.Opcode == MovMemAcc {
		ins.Operands = []Operand{RegisterOperand(reg), memory}
	} else {
		ins.Operands = []Operand{memory, RegisterOperand(reg)}
	}
	return nil
}

// rmOperand resolves the operand selected by the mod and rm fields and
// returns the number of displacement bytes it used from disp.
func rmOperand(modeByte, w byte, disp []byte) (Operand, int, error) {
	mod := modeByte >> 6
	rm := modeByte & 7
	length := displacementLength(mod, rm)

	switch {
	case mod == modRegister:
		reg, err := lookupRegister(w, rm)
		if err != nil {
			return Operand{}, 0, err
		}
		return RegisterOperand(reg), 0, nil

	case mod == 0 && rm == rmDirect:
		return Operand{Kind: OperandDirect, Address: littleEndian[uint16](disp[:2]), Wide: w == 1}, length, nil

	case mod <= 2:
		eac, err := lookupEAC(rm)
		if err != nil {
			return Operand{}, 0, err
		}
		op := Operand{Kind: OperandMemory, EAC: eac, Wide: w == 1}
		if length > 0 {
			op.Displacement = immediate(disp[:length])
			op.HasDisplacement = true
		}
		return op, length, nil

	default:
		return Operand{}, 0, fmt.Errorf("%w: mod=%02b rm=%03b", ErrUnsupportedAddressingMode, mod, rm)
	}
}
