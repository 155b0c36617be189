package x86

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		opcode   Opcode
		size     int
		operands []Operand
	}{
		{
			name:   "mov immediate to word register",
			input:  []byte{0xB8, 0x05, 0x00},
			opcode: MovImmReg,
			size:   3,
			operands: []Operand{
				RegisterOperand(AX),
				{Kind: OperandImmediate, Value: 5, Wide: true},
			},
		},
		{
			name:   "mov immediate to byte register",
			input:  []byte{0xB1, 0xF4},
			opcode: MovImmReg,
			size:   2,
			operands: []Operand{
				RegisterOperand(CL),
				{Kind: OperandImmediate, Value: -12},
			},
		},
		{
			name:   "mov register to register",
			input:  []byte{0x89, 0xD8},
			opcode: MovRegRm,
			size:   2,
			operands: []Operand{
				RegisterOperand(AX),
				RegisterOperand(BX),
			},
		},
		{
			name:   "mov with d flag set",
			input:  []byte{0x8B, 0xD8},
			opcode: MovRegRm,
			size:   2,
			operands: []Operand{
				RegisterOperand(BX),
				RegisterOperand(AX),
			},
		},
		{
			name:   "mov from memory without displacement",
			input:  []byte{0x8B, 0x00},
			opcode: MovRegRm,
			size:   2,
			operands: []Operand{
				RegisterOperand(AX),
				{Kind: OperandMemory, EAC: EACBXSI, Wide: true},
			},
		},
		{
			name:   "mov from memory with 8 bit displacement",
			input:  []byte{0x8B, 0x56, 0xFE},
			opcode: MovRegRm,
			size:   3,
			operands: []Operand{
				RegisterOperand(DX),
				{Kind: OperandMemory, EAC: EACBP, Displacement: -2, HasDisplacement: true, Wide: true},
			},
		},
		{
			name:   "mov from memory with 16 bit displacement",
			input:  []byte{0x8B, 0x87, 0xE8, 0x03},
			opcode: MovRegRm,
			size:   4,
			operands: []Operand{
				RegisterOperand(AX),
				{Kind: OperandMemory, EAC: EACBX, Displacement: 1000, HasDisplacement: true, Wide: true},
			},
		},
		{
			name:   "mov from direct address",
			input:  []byte{0x8B, 0x1E, 0xE8, 0x03},
			opcode: MovRegRm,
			size:   4,
			operands: []Operand{
				RegisterOperand(BX),
				{Kind: OperandDirect, Address: 1000, Wide: true},
			},
		},
		{
			name:   "mov to bp with zero displacement",
			input:  []byte{0x88, 0x6E, 0x00},
			opcode: MovRegRm,
			size:   3,
			operands: []Operand{
				{Kind: OperandMemory, EAC: EACBP, HasDisplacement: true},
				RegisterOperand(CH),
			},
		},
		{
			name:   "mov immediate byte to memory",
			input:  []byte{0xC6, 0x03, 0x07},
			opcode: MovImmRm,
			size:   3,
			operands: []Operand{
				{Kind: OperandMemory, EAC: EACBPDI},
				{Kind: OperandImmediate, Value: 7},
			},
		},
		{
			name:   "mov immediate word to memory",
			input:  []byte{0xC7, 0x85, 0x85, 0x03, 0x5B, 0x01},
			opcode: MovImmRm,
			size:   6,
			operands: []Operand{
				{Kind: OperandMemory, EAC: EACDI, Displacement: 901, HasDisplacement: true, Wide: true},
				{Kind: OperandImmediate, Value: 347, Wide: true},
			},
		},
		{
			name:   "mov memory to accumulator",
			input:  []byte{0xA1, 0xE8, 0x03},
			opcode: MovMemAcc,
			size:   3,
			operands: []Operand{
				RegisterOperand(AX),
				{Kind: OperandDirect, Address: 1000, Wide: true},
			},
		},
		{
			name:   "mov byte accumulator to memory",
			input:  []byte{0xA2, 0x34, 0x12},
			opcode: MovAccMem,
			size:   3,
			operands: []Operand{
				{Kind: OperandDirect, Address: 0x1234},
				RegisterOperand(AL),
			},
		},
		{
			name:   "add register with memory",
			input:  []byte{0x03, 0x58, 0x04},
			opcode: AddRegRm,
			size:   3,
			operands: []Operand{
				RegisterOperand(BX),
				{Kind: OperandMemory, EAC: EACBXSI, Displacement: 4, HasDisplacement: true, Wide: true},
			},
		},
		{
			name:   "add sign extended immediate",
			input:  []byte{0x83, 0xC6, 0x02},
			opcode: AddImmRm,
			size:   3,
			operands: []Operand{
				RegisterOperand(SI),
				{Kind: OperandImmediate, Value: 2, Wide: true},
			},
		},
		{
			name:   "add byte form with sign extension carries no immediate",
			input:  []byte{0x82, 0xC0},
			opcode: AddImmRm,
			size:   2,
			operands: []Operand{
				RegisterOperand(AL),
				{Kind: OperandImmediate, Value: 0},
			},
		},
		{
			name:   "sub word immediate",
			input:  []byte{0x81, 0xEC, 0xE8, 0x03},
			opcode: SubImmRm,
			size:   4,
			operands: []Operand{
				RegisterOperand(SP),
				{Kind: OperandImmediate, Value: 1000, Wide: true},
			},
		},
		{
			name:   "cmp word immediate with direct address",
			input:  []byte{0x81, 0x3E, 0xE8, 0x03, 0x0C, 0x00},
			opcode: CmpImmRm,
			size:   6,
			operands: []Operand{
				{Kind: OperandDirect, Address: 1000, Wide: true},
				{Kind: OperandImmediate, Value: 12, Wide: true},
			},
		},
		{
			name:   "add byte immediate to accumulator",
			input:  []byte{0x04, 0x05},
			opcode: AddImmAcc,
			size:   2,
			operands: []Operand{
				RegisterOperand(AL),
				{Kind: OperandImmediate, Value: 5},
			},
		},
		{
			name:   "cmp word immediate with accumulator",
			input:  []byte{0x3D, 0xE8, 0x03},
			opcode: CmpImmAcc,
			size:   3,
			operands: []Operand{
				RegisterOperand(AX),
				{Kind: OperandImmediate, Value: 1000, Wide: true},
			},
		},
		{
			name:   "sub register from register",
			input:  []byte{0x29, 0xD8},
			opcode: SubRegRm,
			size:   2,
			operands: []Operand{
				RegisterOperand(AX),
				RegisterOperand(BX),
			},
		},
		{
			name:     "jne backwards",
			input:    []byte{0x75, 0xFC},
			opcode:   Jne,
			size:     2,
			operands: []Operand{{Kind: OperandRelative, Value: -4}},
		},
		{
			name:     "jcxz forwards",
			input:    []byte{0xE3, 0x10},
			opcode:   Jcxz,
			size:     2,
			operands: []Operand{{Kind: OperandRelative, Value: 16}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins, err := Decode(tt.input, 0)
			assert.NoError(t, err)
			assert.Equal(t, tt.opcode, ins.Opcode)
			assert.Equal(t, tt.size, ins.Size())
			assert.Equal(t, tt.input, ins.Bytes)
			assert.Equal(t, len(tt.operands), len(ins.Operands))
			for i, op := range tt.operands {
				assert.Equal(t, op, ins.Operands[i], "operand %d", i)
			}
		})
	}
}

func TestDecode_Offset(t *testing.T) {
	code := []byte{0xB8, 0x05, 0x00, 0x89, 0xD8}

	ins, err := Decode(code, 3)
	assert.NoError(t, err)
	assert.Equal(t, MovRegRm, ins.Opcode)
	assert.Equal(t, []byte{0x89, 0xD8}, ins.Bytes)
}

func TestDecode_ByteSignExtendedStream(t *testing.T) {
	// add al, <none> followed by mov ax, 5
	code := []byte{0x82, 0xC0, 0xB8, 0x05, 0x00}

	first, err := Decode(code, 0)
	assert.NoError(t, err)
	assert.Equal(t, 2, first.Size())
	assert.True(t, first.SignExtend)
	assert.False(t, first.Wide)

	second, err := Decode(code, first.Size())
	assert.NoError(t, err)
	assert.Equal(t, MovImmReg, second.Opcode)
	assert.Equal(t, int16(5), second.Source().Value)
}

func TestDecode_BytesDetachedFromImage(t *testing.T) {
	code := []byte{0x89, 0xD8}

	ins, err := Decode(code, 0)
	assert.NoError(t, err)
	code[0] = 0x90
	assert.Equal(t, []byte{0x89, 0xD8}, ins.Bytes)
}

func TestDecode_ResolvedOpcode(t *testing.T) {
	tests := []struct {
		input    []byte
		expected Opcode
	}{
		{[]byte{0x83, 0xC6, 0x02}, AddImmRm},
		{[]byte{0x83, 0xEE, 0x02}, SubImmRm},
		{[]byte{0x83, 0xFE, 0x02}, CmpImmRm},
	}

	for _, tt := range tests {
		ins, err := Decode(tt.input, 0)
		assert.NoError(t, err)
		assert.Equal(t, tt.expected, ins.Opcode)
		assert.Equal(t, tt.expected.Operation(), ins.Operation())
		assert.NotEqual(t, ArithImmRm, ins.Opcode)
	}
}

func TestDecode_SignExtension(t *testing.T) {
	short, err := Decode([]byte{0x83, 0xC6, 0xFE}, 0)
	assert.NoError(t, err)
	long, err := Decode([]byte{0x81, 0xC6, 0xFE, 0xFF}, 0)
	assert.NoError(t, err)

	assert.True(t, short.SignExtend)
	assert.False(t, long.SignExtend)
	assert.Equal(t, int16(-2), short.Source().Value)
	assert.Equal(t, long.Source(), short.Source())
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected error
	}{
		{"empty input", []byte{}, ErrTruncatedInstruction},
		{"unknown opcode", []byte{0xFF, 0x00}, ErrUnknownOpcode},
		{"nop is not supported", []byte{0x90}, ErrUnknownOpcode},
		{"unsupported arithmetic extension", []byte{0x80, 0xC8, 0x05}, ErrUnknownOpcode},
		{"mov immediate with reg field", []byte{0xC6, 0xC8, 0x05}, ErrUnsupportedAddressingMode},
		{"missing mode byte", []byte{0x8B}, ErrTruncatedInstruction},
		{"missing immediate", []byte{0xB8, 0x05}, ErrTruncatedInstruction},
		{"missing displacement", []byte{0x8B, 0x87, 0xE8}, ErrTruncatedInstruction},
		{"missing word immediate after displacement", []byte{0x81, 0x3E, 0xE8, 0x03, 0x0C}, ErrTruncatedInstruction},
		{"missing jump displacement", []byte{0x75}, ErrTruncatedInstruction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input, 0)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, tt.expected), "unexpected error: %v", err)

			var decodeErr *DecodeError
			assert.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, 0, decodeErr.Offset)
		})
	}
}

func TestDecode_ErrorOffset(t *testing.T) {
	code := []byte{0x89, 0xD8, 0xB8, 0x05}

	_, err := Decode(code, 2)
	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, 2, decodeErr.Offset)
	assert.ErrorContains(t, err, "offset 0x0002")
	assert.ErrorContains(t, err, "needs 3 bytes, 2 available")
}

func TestImmediateLength(t *testing.T) {
	tests := []struct {
		w, s     byte
		expected int
	}{
		{0, 0, 1},
		{0, 1, 0},
		{1, 0, 2},
		{1, 1, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, immediateLength(tt.w, tt.s))
	}
}

func TestDisplacementLength(t *testing.T) {
	assert.Equal(t, 0, displacementLength(0b00, 0b000))
	assert.Equal(t, 2, displacementLength(0b00, 0b110))
	assert.Equal(t, 1, displacementLength(0b01, 0b110))
	assert.Equal(t, 2, displacementLength(0b10, 0b001))
	assert.Equal(t, 0, displacementLength(0b11, 0b110))
}
