package x86

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestRegisters_ByteAliasing(t *testing.T) {
	var regs Registers

	regs.Set(AL, 0x12)
	regs.Set(AH, 0x34)
	assert.Equal(t, uint16(0x3412), regs.Get(AX))

	regs.Set(AX, 0xABCD)
	assert.Equal(t, uint16(0xCD), regs.Get(AL))
	assert.Equal(t, uint16(0xAB), regs.Get(AH))

	// only the addressed half changes
	regs.Set(BX, 0x1111)
	regs.Set(BH, 0xFF22)
	assert.Equal(t, uint16(0x2211), regs.Get(BX))
	regs.Set(BL, 0x0133)
	assert.Equal(t, uint16(0x2233), regs.Get(BX))

	regs.Set(CL, 0x01)
	regs.Set(DH, 0x02)
	assert.Equal(t, uint16(0x0001), regs.Get(CX))
	assert.Equal(t, uint16(0x0200), regs.Get(DX))
	assert.Equal(t, uint16(0x2211), regs.Get(BX))
}

func TestRegisters_WordInvariant(t *testing.T) {
	var regs Registers
	pairs := []struct {
		word, low, high Register
	}{
		{AX, AL, AH},
		{CX, CL, CH},
		{DX, DL, DH},
		{BX, BL, BH},
	}

	for i, pair := range pairs {
		value := uint16(0x1357 * (i + 1))
		regs.Set(pair.word, value)
		assert.Equal(t, regs.Get(pair.high)<<8|regs.Get(pair.low), regs.Get(pair.word))
		assert.Equal(t, value, regs.Get(pair.word))
	}
}

func TestRegisters_NonAliased(t *testing.T) {
	var regs Registers
	for i, reg := range []Register{SP, BP, SI, DI} {
		regs.Set(reg, uint16(0x1000+i))
	}
	assert.Equal(t, uint16(0x1000), regs.Get(SP))
	assert.Equal(t, uint16(0x1001), regs.Get(BP))
	assert.Equal(t, uint16(0x1002), regs.Get(SI))
	assert.Equal(t, uint16(0x1003), regs.Get(DI))
	assert.Equal(t, uint16(0), regs.Get(AX))
}

func TestRegisters_SetFlagsFromResult(t *testing.T) {
	tests := []struct {
		result int16
		zero   bool
		sign   bool
		parity bool
	}{
		{0, true, false, true},
		{1, false, false, false},
		{2, false, false, true},
		{-1, false, true, false},
		{-2, false, true, true},
		{-32768, false, true, true},
		{32767, false, false, false},
	}

	for _, tt := range tests {
		var regs Registers
		regs.setFlag(FlagCarry, true)
		regs.SetFlagsFromResult(tt.result)
		assert.Equal(t, tt.zero, regs.Flag(FlagZero))
		assert.Equal(t, tt.sign, regs.Flag(FlagSign))
		assert.Equal(t, tt.parity, regs.Flag(FlagParity))
		assert.True(t, regs.Flag(FlagCarry), "carry is left untouched")
		assert.False(t, regs.Flag(FlagOverflow))
	}
}

func TestRegisters_MoveIP(t *testing.T) {
	var regs Registers
	regs.MoveIP(3)
	assert.Equal(t, uint16(3), regs.IP())
	regs.MoveIP(-2)
	assert.Equal(t, uint16(1), regs.IP())
	regs.MoveIP(-4)
	assert.Equal(t, uint16(0xFFFD), regs.IP())
}

func TestFlagString(t *testing.T) {
	assert.Equal(t, "", FlagString(0))
	assert.Equal(t, "PZ", FlagString(uint8(FlagZero|FlagParity)))
	assert.Equal(t, "CPZSO", FlagString(0xFF))
}

func TestLookupRegister(t *testing.T) {
	reg, err := lookupRegister(1, 6)
	assert.NoError(t, err)
	assert.Equal(t, SI, reg)

	reg, err = lookupRegister(0, 4)
	assert.NoError(t, err)
	assert.Equal(t, AH, reg)

	_, err = lookupRegister(0, 8)
	assert.True(t, errors.Is(err, ErrInvalidOperandIndex))
	_, err = lookupRegister(2, 0)
	assert.True(t, errors.Is(err, ErrInvalidOperandIndex))
}
