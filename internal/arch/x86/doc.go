// Package x86 decodes and executes a subset of the 16-bit 8086 instruction set.
//
// # Decoding
//
// The first byte of an instruction is classified by a bit trie that holds
// the opcode patterns of 4 to 8 bits. Depending on the class, the decoder
// reads a mode byte (mod, reg, rm fields), 0 to 2 displacement bytes and
// 0 to 2 immediate bytes. The total length is computed before any byte is
// consumed.
//
// Supported instructions:
//   - mov in all register, memory, immediate and accumulator forms
//   - add, sub and cmp in register/memory, immediate and accumulator forms
//   - the conditional jumps 0x70-0x7F, loop, loopz, loopnz and jcxz
//
// # Execution
//
// The CPU keeps eight 16-bit registers, where the byte registers al to bh
// alias the halves of ax to dx, a flags byte and an instruction pointer.
// Memory is not simulated: memory operands report their effective address
// and have no further effect.
//
// Flag semantics are simplified. Zero and Sign follow the signed result,
// Parity is set for even results, Carry and Overflow are never computed.
// Only jne evaluates its condition, all other jumps are never taken.
package x86
