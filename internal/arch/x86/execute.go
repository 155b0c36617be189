package x86

// apply executes the semantics of a decoded instruction. Instructions with
// a memory operand only report their effective address since memory is
// not simulated.
func (c *CPU) apply(ins Instruction, rec *Record) {
	for _, op := range ins.Operands {
		if address, ok := op.EffectiveAddress(&c.regs); ok {
			rec.EffectiveAddress = address
			rec.HasEffectiveAddress = true
		}
	}

	operation := ins.Operation()
	switch operation {
	case OperationJump:
		rec.JumpTaken = c.jump(ins)

	case OperationMov:
		dst, src := ins.Destination(), ins.Source()
		value, ok := c.value(src)
		if ok && dst.Kind == OperandRegister {
			c.regs.Set(dst.Register, value)
		}

	case OperationAdd, OperationSub, OperationCmp:
		dst, src := ins.Destination(), ins.Source()
		value, ok := c.value(src)
		if ok && dst.Kind == OperandRegister {
			c.arithmetic(operation, dst.Register, value)
		}
	}
}

// value returns the value of a register or immediate operand.
func (c *CPU) value(op Operand) (uint16, bool) {
	switch op.Kind {
	case OperandRegister:
		return c.regs.Get(op.Register), true
	case OperandImmediate:
		return uint16(op.Value), true
	default:
		return 0, false
	}
}

// arithmetic computes dst op src with two's complement wraparound at the
// width of dst and updates the flags. CMP discards the result.
func (c *CPU) arithmetic(operation Operation, dst Register, src uint16) {
	var result int16

	if dst.Wide() {
		a, b := int16(c.regs.Get(dst)), int16(src)
		if operation == OperationAdd {
			result = a + b
		} else {
			result = a - b
		}
	} else {
		a, b := int8(c.regs.Get(dst)), int8(src)
		var r int8
		if operation == OperationAdd {
			r = a + b
		} else {
			r = a - b
		}
		result = int16(r)
	}

	c.regs.SetFlagsFromResult(result)
	if operation != OperationCmp {
		c.regs.Set(dst, uint16(result))
	}
}

// jump evaluates a conditional jump. Only jne has defined branch
// semantics, all other conditions are never taken.
func (c *CPU) jump(ins Instruction) bool {
	if ins.Opcode == Jne && !c.regs.Flag(FlagZero) {
		c.regs.MoveIP(int(ins.Destination().Value))
		return true
	}
	return false
}
