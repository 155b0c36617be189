package x86

import "fmt"

// Opcode is the class of an instruction as identified by its leading bits.
type Opcode uint8

// Opcode classes. ArithImmRm is the shared immediate-to-register/memory
// encoding of ADD, SUB and CMP; the decoder resolves it to AddImmRm,
// SubImmRm or CmpImmRm using the reg field of the mode byte.
const (
	OpInvalid Opcode = iota
	MovRegRm
	MovImmRm
	MovImmReg
	MovMemAcc
	MovAccMem
	AddRegRm
	AddImmAcc
	SubRegRm
	SubImmAcc
	CmpRegRm
	CmpImmAcc
	ArithImmRm
	AddImmRm
	SubImmRm
	CmpImmRm
	Je
	Jl
	Jle
	Jb
	Jbe
	Jp
	Jo
	Js
	Jne
	Jnl
	Jg
	Jnb
	Ja
	Jnp
	Jno
	Jns
	Loop
	Loopz
	Loopnz
	Jcxz
)

// Operation groups opcode classes that share semantics.
type Operation uint8

// Operations.
const (
	OperationInvalid Operation = iota
	OperationMov
	OperationAdd
	OperationSub
	OperationCmp
	OperationJump
)

type opcodeInfo struct {
	name      string
	operation Operation
}

var opcodeInfos = [...]opcodeInfo{
	OpInvalid:  {"(invalid)", OperationInvalid},
	MovRegRm:   {"mov", OperationMov},
	MovImmRm:   {"mov", OperationMov},
	MovImmReg:  {"mov", OperationMov},
	MovMemAcc:  {"mov", OperationMov},
	MovAccMem:  {"mov", OperationMov},
	AddRegRm:   {"add", OperationAdd},
	AddImmAcc:  {"add", OperationAdd},
	SubRegRm:   {"sub", OperationSub},
	SubImmAcc:  {"sub", OperationSub},
	CmpRegRm:   {"cmp", OperationCmp},
	CmpImmAcc:  {"cmp", OperationCmp},
	ArithImmRm: {"(arith)", OperationInvalid},
	AddImmRm:   {"add", OperationAdd},
	SubImmRm:   {"sub", OperationSub},
	CmpImmRm:   {"cmp", OperationCmp},
	Je:         {"je", OperationJump},
	Jl:         {"jl", OperationJump},
	Jle:        {"jle", OperationJump},
	Jb:         {"jb", OperationJump},
	Jbe:        {"jbe", OperationJump},
	Jp:         {"jp", OperationJump},
	Jo:         {"jo", OperationJump},
	Js:         {"js", OperationJump},
	Jne:        {"jne", OperationJump},
	Jnl:        {"jnl", OperationJump},
	Jg:         {"jg", OperationJump},
	Jnb:        {"jnb", OperationJump},
	Ja:         {"ja", OperationJump},
	Jnp:        {"jnp", OperationJump},
	Jno:        {"jno", OperationJump},
	Jns:        {"jns", OperationJump},
	Loop:       {"loop", OperationJump},
	Loopz:      {"loopz", OperationJump},
	Loopnz:     {"loopnz", OperationJump},
	Jcxz:       {"jcxz", OperationJump},
}

// Name returns the assembler mnemonic of the opcode class.
func (o Opcode) Name() string {
	if int(o) < len(opcodeInfos) {
		return opcodeInfos[o].name
	}
	return fmt.Sprintf("opcode(%d)", uint8(o))
}

func (o Opcode) String() string {
	return o.Name()
}

// Operation returns the semantic group of the opcode class.
func (o Opcode) Operation() Operation {
	if int(o) < len(opcodeInfos) {
		return opcodeInfos[o].operation
	}
	return OperationInvalid
}

// IsJump returns whether the opcode is a conditional jump or loop.
func (o Opcode) IsJump() bool {
	return o.Operation() == OperationJump
}

// IsArithmetic returns whether the opcode is an ADD, SUB or CMP form.
func (o Opcode) IsArithmetic() bool {
	switch o.Operation() {
	case OperationAdd, OperationSub, OperationCmp:
		return true
	default:
		return false
	}
}

type opcodePattern struct {
	bits   byte
	length int
	opcode Opcode
}

var opcodePatterns = []opcodePattern{
	{0b100010, 6, MovRegRm},
	{0b1011, 4, MovImmReg},
	{0b1100011, 7, MovImmRm},
	{0b1010000, 7, MovMemAcc},
	{0b1010001, 7, MovAccMem},
	{0b000000, 6, AddRegRm},
	{0b100000, 6, ArithImmRm},
	{0b0000010, 7, AddImmAcc},
	{0b001010, 6, SubRegRm},
	{0b0010110, 7, SubImmAcc},
	{0b001110, 6, CmpRegRm},
	{0b0011110, 7, CmpImmAcc},

	{0b01110100, 8, Je},
	{0b01111100, 8, Jl},
	{0b01111110, 8, Jle},
	{0b01110010, 8, Jb},
	{0b01110110, 8, Jbe},
	{0b01111010, 8, Jp},
	{0b01110000, 8, Jo},
	{0b01111000, 8, Js},
	{0b01110101, 8, Jne},
	{0b01111101, 8, Jnl},
	{0b01111111, 8, Jg},
	{0b01110011, 8, Jnb},
	{0b01110111, 8, Ja},
	{0b01111011, 8, Jnp},
	{0b01110001, 8, Jno},
	{0b01111001, 8, Jns},
	{0b11100010, 8, Loop},
	{0b11100001, 8, Loopz},
	{0b11100000, 8, Loopnz},
	{0b11100011, 8, Jcxz},
}

// opcodes is built once and never modified afterwards.
var opcodes = newOpcodeTrie()

func newOpcodeTrie() *BitTrie {
	trie := NewBitTrie()
	for _, p := range opcodePatterns {
		if err := trie.Insert(p.bits, p.length, p.opcode); err != nil {
			panic(fmt.Sprintf("building opcode table: %v", err))
		}
	}
	return trie
}

// MatchOpcode classifies the first byte of an instruction.
func MatchOpcode(b byte) (Opcode, int, bool) {
	return opcodes.Match(b)
}

// arithImmRmExtension maps the reg field of an 0x80-0x83 mode byte to the opcode.
var arithImmRmExtension = map[byte]Opcode{
	0b000: AddImmRm,
	0b101: SubImmRm,
	0b111: CmpImmRm,
}
