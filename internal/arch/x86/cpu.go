package x86

import (
	"context"
	"fmt"

	"github.com/retroenv/retrogolib/set"
)

// DefaultMaxSteps is the step limit used when no other limit is configured.
const DefaultMaxSteps = 1_000_000

// CPU executes a flat program image against a register file.
// It is not safe for concurrent use.
type CPU struct {
	code     []byte
	regs     Registers
	execute  bool
	maxSteps int
	steps    int
}

// Option configures a CPU.
type Option func(*CPU)

// WithMaxSteps limits the number of executed instructions, 0 disables the limit.
func WithMaxSteps(n int) Option {
	return func(c *CPU) {
		c.maxSteps = n
	}
}

// WithExecution enables or disables applying instruction semantics.
// Without execution the instructions are decoded sequentially and only
// the instruction pointer advances.
func WithExecution(enabled bool) Option {
	return func(c *CPU) {
		c.execute = enabled
	}
}

// New returns a CPU for the given program with all registers zeroed.
func New(code []byte, options ...Option) *CPU {
	c := &CPU{
		code:     code,
		execute:  true,
		maxSteps: DefaultMaxSteps,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Registers returns the register file.
func (c *CPU) Registers() *Registers {
	return &c.regs
}

// Done returns whether the instruction pointer reached the end of the program.
func (c *CPU) Done() bool {
	return int(c.regs.IP()) >= len(c.code)
}

// RegisterChange records the value of a word register before and after a step.
type RegisterChange struct {
	Register Register
	Before   uint16
	After    uint16
}

// Record describes the effect of a single executed instruction.
type Record struct {
	Offset      int
	Instruction Instruction

	Changes     []RegisterChange
	FlagsBefore uint8
	FlagsAfter  uint8
	IPBefore    uint16
	IPAfter     uint16

	// EffectiveAddress is the computed address of a memory operand,
	// valid if HasEffectiveAddress is set. Memory itself is not simulated.
	EffectiveAddress    uint16
	HasEffectiveAddress bool

	JumpTaken bool
}

// Summary describes a completed run.
type Summary struct {
	Steps       int
	Registers   Registers
	JumpTargets set.Set[uint16]
}

// Step decodes and executes the instruction at the instruction pointer.
// The instruction pointer is advanced past the instruction before its
// semantics are applied, so jump displacements are relative to the next instruction.
func (c *CPU) Step() (Record, error) {
	if c.maxSteps > 0 && c.steps >= c.maxSteps {
		return Record{}, fmt.Errorf("%w: %d", ErrStepLimitExceeded, c.maxSteps)
	}

	offset := int(c.regs.IP())
	ins, err := Decode(c.code, offset)
	if err != nil {
		return Record{}, err
	}

	before := c.regs.Snapshot()
	c.regs.MoveIP(ins.Size())

	rec := Record{
		Offset:      offset,
		Instruction: ins,
	}
	if c.execute {
		c.apply(ins, &rec)
	}

	rec.Changes = registerChanges(&before, &c.regs)
	rec.FlagsBefore = before.Flags()
	rec.FlagsAfter = c.regs.Flags()
	rec.IPBefore = before.IP()
	rec.IPAfter = c.regs.IP()
	c.steps++
	return rec, nil
}

// Run steps through the program until the instruction pointer leaves it.
// fn is called for every executed instruction, if it returns an error the
// run stops. The context is checked between instructions.
func (c *CPU) Run(ctx context.Context, fn func(Record) error) (Summary, error) {
	summary := Summary{
		JumpTargets: set.New[uint16](),
	}
	for !c.Done() {
		if err := ctx.Err(); err != nil {
			summary.Registers = c.regs
			return summary, err
		}

		rec, err := c.Step()
		if err != nil {
			summary.Registers = c.regs
			return summary, err
		}
		summary.Steps++
		if rec.JumpTaken {
			summary.JumpTargets.Add(rec.IPAfter)
		}

		if fn != nil {
			if err := fn(rec); err != nil {
				summary.Registers = c.regs
				return summary, err
			}
		}
	}

	summary.Registers = c.regs
	return summary, nil
}

func registerChanges(before, after *Registers) []RegisterChange {
	var changes []RegisterChange
	for _, reg := range WordRegisters {
		old, value := before.Get(reg), after.Get(reg)
		if old != value {
			changes = append(changes, RegisterChange{Register: reg, Before: old, After: value})
		}
	}
	return changes
}
