// Package trace renders decoded instructions and execution records as
// assembly text.
package trace

import (
	"fmt"
	"strings"

	"github.com/retroenv/sim86/internal/arch/x86"
)

// Instruction renders an instruction as an assembler line without a
// trailing newline, for example "add bx, [bx + si + 4]".
func Instruction(ins x86.Instruction) string {
	if len(ins.Operands) == 0 {
		return ins.Name()
	}

	memoryDestination := ins.Destination().IsMemory()
	operands := make([]string, 0, len(ins.Operands))
	for _, op := range ins.Operands {
		operands = append(operands, Operand(op, memoryDestination))
	}
	return ins.Name() + " " + strings.Join(operands, ", ")
}

// Operand renders a single operand. Immediates get an explicit size
// prefix if sized is set, as the width can not be derived from a memory
// destination.
func Operand(op x86.Operand, sized bool) string {
	switch op.Kind {
	case x86.OperandRegister:
		return op.Register.String()

	case x86.OperandMemory:
		if op.HasDisplacement {
			return fmt.Sprintf("[%s %s]", op.EAC, signed(op.Displacement))
		}
		return fmt.Sprintf("[%s]", op.EAC)

	case x86.OperandDirect:
		return fmt.Sprintf("[%d]", op.Address)

	case x86.OperandImmediate:
		if !sized {
			return fmt.Sprintf("%d", op.Value)
		}
		if op.Wide {
			return fmt.Sprintf("word %d", op.Value)
		}
		return fmt.Sprintf("byte %d", op.Value)

	case x86.OperandRelative:
		return fmt.Sprintf("%d", op.Value)

	default:
		return ""
	}
}

// signed renders a displacement with a separate sign token.
func signed(n int16) string {
	if n < 0 {
		return fmt.Sprintf("- %d", -int(n))
	}
	return fmt.Sprintf("+ %d", n)
}

// Changes renders the register, instruction pointer and flag changes of
// an execution record, for example "ax:0x0->0x5 ip:0x0->0x3 flags:->PZ".
func Changes(rec x86.Record) string {
	parts := make([]string, 0, len(rec.Changes)+2)
	for _, change := range rec.Changes {
		parts = append(parts, fmt.Sprintf("%s:%#x->%#x", change.Register, change.Before, change.After))
	}

	parts = append(parts, fmt.Sprintf("ip:%#x->%#x", rec.IPBefore, rec.IPAfter))

	if rec.FlagsBefore != rec.FlagsAfter {
		parts = append(parts, fmt.Sprintf("flags:%s->%s",
			x86.FlagString(rec.FlagsBefore), x86.FlagString(rec.FlagsAfter)))
	}
	return strings.Join(parts, " ")
}

// RegisterDump renders the final state of all non-zero word registers
// followed by the instruction pointer and the flags, one line each.
func RegisterDump(regs *x86.Registers) []string {
	var lines []string
	for _, reg := range x86.WordRegisters {
		value := regs.Get(reg)
		if value == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%8s: 0x%04x (%d)", reg, value, value))
	}

	ip := regs.IP()
	lines = append(lines, fmt.Sprintf("%8s: 0x%04x (%d)", "ip", ip, ip))
	if flags := regs.Flags(); flags != 0 {
		lines = append(lines, fmt.Sprintf("%8s: %s", "flags", x86.FlagString(flags)))
	}
	return lines
}
