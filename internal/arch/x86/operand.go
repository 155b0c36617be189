package x86

import "fmt"

// EAC is an effective address calculation, the base and index register
// expression of a memory operand selected by the rm field.
type EAC uint8

// Effective address forms in rm field order.
const (
	EACBXSI EAC = iota
	EACBXDI
	EACBPSI
	EACBPDI
	EACSI
	EACDI
	EACBP // direct address instead when mod is 00
	EACBX
)

var eacInfos = [...]struct {
	name      string
	registers []Register
}{
	EACBXSI: {"bx + si", []Register{BX, SI}},
	EACBXDI: {"bx + di", []Register{BX, DI}},
	EACBPSI: {"bp + si", []Register{BP, SI}},
	EACBPDI: {"bp + di", []Register{BP, DI}},
	EACSI:   {"si", []Register{SI}},
	EACDI:   {"di", []Register{DI}},
	EACBP:   {"bp", []Register{BP}},
	EACBX:   {"bx", []Register{BX}},
}

func (e EAC) String() string {
	if int(e) < len(eacInfos) {
		return eacInfos[e].name
	}
	return fmt.Sprintf("eac(%d)", uint8(e))
}

// Registers returns the registers summed by the address calculation.
func (e EAC) Registers() []Register {
	if int(e) < len(eacInfos) {
		return eacInfos[e].registers
	}
	return nil
}

func lookupEAC(rm byte) (EAC, error) {
	if int(rm) >= len(eacInfos) {
		return 0, fmt.Errorf("%w: rm=%d", ErrInvalidOperandIndex, rm)
	}
	return EAC(rm), nil
}

// OperandKind tags the variant held by an Operand.
type OperandKind uint8

// Operand kinds.
const (
	OperandNone OperandKind = iota
	OperandRegister
	OperandMemory
	OperandDirect
	OperandImmediate
	OperandRelative
)

// Operand is a decoded instruction operand. Kind selects which of the
// remaining fields are meaningful.
type Operand struct {
	Kind OperandKind

	Register Register // OperandRegister

	EAC             EAC   // OperandMemory
	Displacement    int16 // OperandMemory, valid if HasDisplacement
	HasDisplacement bool

	Address uint16 // OperandDirect

	Value int16 // OperandImmediate and OperandRelative

	Wide bool // access width for memory and immediate operands
}

// RegisterOperand returns a register operand.
func RegisterOperand(reg Register) Operand {
	return Operand{Kind: OperandRegister, Register: reg, Wide: reg.Wide()}
}

// IsMemory returns whether the operand references memory.
func (o Operand) IsMemory() bool {
	return o.Kind == OperandMemory || o.Kind == OperandDirect
}

// EffectiveAddress computes the address a memory operand refers to using
// the current register values. The sum wraps around at 16 bits.
func (o Operand) EffectiveAddress(regs *Registers) (uint16, bool) {
	switch o.Kind {
	case OperandDirect:
		return o.Address, true

	case OperandMemory:
		var address uint16
		for _, reg := range o.EAC.Registers() {
			address += regs.Get(reg)
		}
		if o.HasDisplacement {
			address += uint16(o.Displacement)
		}
		return address, true

	default:
		return 0, false
	}
}
