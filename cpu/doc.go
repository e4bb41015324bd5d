// Package cpu implements the cpu16 processor and its assembler.
//
// The processor has three 16-bit general-purpose registers (A, X, Y), an
// 8-bit stack pointer, a 16-bit program counter, seven status flags and a
// flat 64K byte address space. Words in memory are little-endian. Each call
// to Step fetches, decodes and executes one instruction from the opcode
// table, charging a fixed number of cycles.
//
// The assembler is a two-pass translator from mnemonic source text into the
// processor's byte image. The first pass assigns addresses and collects
// labels, the second pass emits bytes with every label resolved. Named
// constants (.equ) and compile-time expressions $(...) are supported.
package cpu
