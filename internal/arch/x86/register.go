package x86

import "fmt"

// Register names one of the sixteen 8086 general purpose register views.
// The byte registers alias the low and high halves of AX, CX, DX and BX.
type Register uint8

// Byte registers come first, in the order of their 3-bit encoding.
const (
	AL Register = iota
	CL
	DL
	BL
	AH
	CH
	DH
	BH
	AX
	CX
	DX
	BX
	SP
	BP
	SI
	DI
)

var registerNames = [...]string{
	AL: "al", CL: "cl", DL: "dl", BL: "bl",
	AH: "ah", CH: "ch", DH: "dh", BH: "bh",
	AX: "ax", CX: "cx", DX: "dx", BX: "bx",
	SP: "sp", BP: "bp", SI: "si", DI: "di",
}

// WordRegisters lists the eight 16-bit registers in encoding order.
var WordRegisters = [...]Register{AX, CX, DX, BX, SP, BP, SI, DI}

// registerTable is indexed by [w flag][3-bit reg or rm field].
var registerTable = [2][8]Register{
	{AL, CL, DL, BL, AH, CH, DH, BH},
	{AX, CX, DX, BX, SP, BP, SI, DI},
}

func (r Register) String() string {
	if int(r) < len(registerNames) {
		return registerNames[r]
	}
	return fmt.Sprintf("register(%d)", uint8(r))
}

// Wide returns whether the register is a 16-bit register.
func (r Register) Wide() bool {
	return r >= AX
}

// lookupRegister resolves a register from the w flag and a 3-bit register field.
func lookupRegister(w, index byte) (Register, error) {
	if w > 1 || index > 7 {
		return 0, fmt.Errorf("%w: register w=%d index=%d", ErrInvalidOperandIndex, w, index)
	}
	return registerTable[w][index], nil
}

// Flag is a single bit of the simulated flags register.
type Flag uint8

// Flag bits. Carry and Overflow are declared but no instruction computes them.
const (
	FlagCarry Flag = 1 << iota
	FlagZero
	FlagSign
	FlagParity
	FlagOverflow
)

// flagLetters is ordered like the bits of the real 8086 flags word.
var flagLetters = []struct {
	flag   Flag
	letter byte
}{
	{FlagCarry, 'C'},
	{FlagParity, 'P'},
	{FlagZero, 'Z'},
	{FlagSign, 'S'},
	{FlagOverflow, 'O'},
}

// FlagString renders the set flags of a flags byte as letters, for example "PZ".
func FlagString(flags uint8) string {
	buf := make([]byte, 0, len(flagLetters))
	for _, f := range flagLetters {
		if flags&uint8(f.flag) != 0 {
			buf = append(buf, f.letter)
		}
	}
	return string(buf)
}
