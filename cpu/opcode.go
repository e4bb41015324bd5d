package cpu

import (
	"fmt"
	"strings"
)

// Class is the addressing class of an opcode. It fixes the operand width.
type Class int

//go:generate go tool stringer -linecomment -type=Class
const (
	CLASS_IMPLIED   = Class(0) // imp
	CLASS_IMMEDIATE = Class(1) // imm
	CLASS_POINTER   = Class(2) // ptr
	CLASS_RELATIVE  = Class(3) // rel
)

// Width returns the number of operand bytes that follow the opcode.
func (cl Class) Width() int {
	switch cl {
	case CLASS_IMMEDIATE:
		return 2
	case CLASS_POINTER, CLASS_RELATIVE:
		return 1
	}

	return 0
}

// Opcode values.
const (
	OP_BRK  = byte(0x00)
	OP_STA  = byte(0x01)
	OP_LSA  = byte(0x02)
	OP_STX  = byte(0x03)
	OP_LSX  = byte(0x04)
	OP_CTA  = byte(0x05)
	OP_OTT  = byte(0x06)
	OP_MUL  = byte(0x07)
	OP_XTA  = byte(0x08)
	OP_ORA  = byte(0x09)
	OP_BPL  = byte(0x10)
	OP_MULM = byte(0x14)
	OP_CLC  = byte(0x18)
	OP_AND  = byte(0x29)
	OP_BMI  = byte(0x30)
	OP_EOR  = byte(0x49)
	OP_JMP  = byte(0x4c)
	OP_BVC  = byte(0x50)
	OP_ADC  = byte(0x69)
	OP_BVS  = byte(0x70)
	OP_BCC  = byte(0x90)
	OP_LDY  = byte(0xa0)
	OP_LDX  = byte(0xa2)
	OP_LDA  = byte(0xa9)
	OP_TAX  = byte(0xaa)
	OP_BCS  = byte(0xb0)
	OP_CMP  = byte(0xc9)
	OP_CMPC = byte(0xcd)
	OP_BNE  = byte(0xd0)
	OP_CPX  = byte(0xe0)
	OP_SBC  = byte(0xe9)
	OP_NOP  = byte(0xea)
	OP_BEQ  = byte(0xf0)
)

// Opcode describes one entry of the instruction table.
type Opcode struct {
	Code     byte   // Opcode byte.
	Mnemonic string // Assembler mnemonic.
	Class    Class  // Addressing class.
	Cycles   int    // Base cycle cost.
	Writes   bool   // Stores a word at the pointer operand.

	// exec performs the operation. arg is the immediate value, the
	// pointer address, or the sign-extended branch offset.
	exec func(cpu *Cpu, arg uint16) error
}

// Size returns the encoded size of the instruction in bytes.
func (op *Opcode) Size() int {
	return 1 + op.Class.Width()
}

// Halt returns true for the halt opcode.
func (op *Opcode) Halt() bool {
	return op.Code == OP_BRK
}

func (op *Opcode) String() string {
	return fmt.Sprintf("%02X %v.%v", op.Code, op.Mnemonic, op.Class)
}

var opcodeList = []Opcode{
	{OP_BRK, "BRK", CLASS_IMPLIED, 0, false, nil},
	{OP_STA, "STA", CLASS_POINTER, 4, true, func(cpu *Cpu, addr uint16) error {
		cpu.Write16(addr, cpu.A)
		return nil
	}},
	{OP_LSA, "LSA", CLASS_POINTER, 4, false, func(cpu *Cpu, addr uint16) error {
		cpu.A = cpu.Read16(addr)
		cpu.Flags.setZN(cpu.A)
		return nil
	}},
	{OP_STX, "STX", CLASS_POINTER, 4, true, func(cpu *Cpu, addr uint16) error {
		cpu.Write16(addr, cpu.X)
		return nil
	}},
	{OP_LSX, "LSX", CLASS_POINTER, 4, false, func(cpu *Cpu, addr uint16) error {
		cpu.X = cpu.Read16(addr)
		cpu.Flags.setZN(cpu.X)
		return nil
	}},
	{OP_CTA, "CTA", CLASS_IMPLIED, 2, false, func(cpu *Cpu, _ uint16) error {
		if cpu.Input == nil {
			return ErrInput
		}
		value, err := cpu.Input.Receive()
		if err != nil {
			return err
		}
		cpu.A = uint16(value)
		cpu.Flags.setZN(cpu.A)
		return nil
	}},
	{OP_OTT, "OTT", CLASS_POINTER, 4, false, func(cpu *Cpu, addr uint16) error {
		if cpu.Output == nil {
			return nil
		}
		return cpu.Output.Send(cpu.Read16(addr), addr)
	}},
	{OP_MUL, "MUL", CLASS_POINTER, 4, false, func(cpu *Cpu, addr uint16) error {
		cpu.A *= cpu.Read16(addr)
		cpu.Flags.setZN(cpu.A)
		return nil
	}},
	{OP_XTA, "XTA", CLASS_IMPLIED, 2, false, func(cpu *Cpu, _ uint16) error {
		cpu.A = cpu.X
		cpu.Flags.setZN(cpu.A)
		return nil
	}},
	{OP_ORA, "ORA", CLASS_IMMEDIATE, 2, false, func(cpu *Cpu, value uint16) error {
		cpu.A |= value
		cpu.Flags.setZN(cpu.A)
		return nil
	}},
	{OP_BPL, "BPL", CLASS_RELATIVE, 2, false, branchIf(func(fl Flags) bool { return !fl.Negative })},
	{OP_MULM, "MULM", CLASS_POINTER, 6, true, func(cpu *Cpu, addr uint16) error {
		result := cpu.A * cpu.Read16(addr)
		cpu.Write16(addr, result)
		cpu.Flags.setZN(result)
		return nil
	}},
	{OP_CLC, "CLC", CLASS_IMPLIED, 1, false, func(cpu *Cpu, _ uint16) error {
		cpu.Flags.Carry = false
		return nil
	}},
	{OP_AND, "AND", CLASS_IMMEDIATE, 2, false, func(cpu *Cpu, value uint16) error {
		cpu.A &= value
		cpu.Flags.setZN(cpu.A)
		return nil
	}},
	{OP_BMI, "BMI", CLASS_RELATIVE, 2, false, branchIf(func(fl Flags) bool { return fl.Negative })},
	{OP_EOR, "EOR", CLASS_IMMEDIATE, 2, false, func(cpu *Cpu, value uint16) error {
		cpu.A ^= value
		cpu.Flags.setZN(cpu.A)
		return nil
	}},
	{OP_JMP, "JMP", CLASS_IMMEDIATE, 3, false, func(cpu *Cpu, target uint16) error {
		cpu.PC = target
		return nil
	}},
	{OP_BVC, "BVC", CLASS_RELATIVE, 2, false, branchIf(func(fl Flags) bool { return !fl.Overflow })},
	{OP_ADC, "ADC", CLASS_IMMEDIATE, 2, false, func(cpu *Cpu, value uint16) error {
		cpu.adc(value)
		return nil
	}},
	{OP_BVS, "BVS", CLASS_RELATIVE, 2, false, branchIf(func(fl Flags) bool { return fl.Overflow })},
	{OP_BCC, "BCC", CLASS_RELATIVE, 2, false, branchIf(func(fl Flags) bool { return !fl.Carry })},
	{OP_LDY, "LDY", CLASS_IMMEDIATE, 2, false, func(cpu *Cpu, value uint16) error {
		cpu.Y = value
		cpu.Flags.setZN(cpu.Y)
		return nil
	}},
	{OP_LDX, "LDX", CLASS_IMMEDIATE, 2, false, func(cpu *Cpu, value uint16) error {
		cpu.X = value
		cpu.Flags.setZN(cpu.X)
		return nil
	}},
	{OP_LDA, "LDA", CLASS_IMMEDIATE, 2, false, func(cpu *Cpu, value uint16) error {
		cpu.A = value
		cpu.Flags.setZN(cpu.A)
		return nil
	}},
	{OP_TAX, "TAX", CLASS_IMPLIED, 2, false, func(cpu *Cpu, _ uint16) error {
		cpu.X = cpu.A
		cpu.Flags.setZN(cpu.X)
		return nil
	}},
	{OP_BCS, "BCS", CLASS_RELATIVE, 2, false, branchIf(func(fl Flags) bool { return fl.Carry })},
	{OP_CMP, "CMP", CLASS_IMMEDIATE, 2, false, func(cpu *Cpu, value uint16) error {
		cpu.compare(cpu.A, value)
		return nil
	}},
	{OP_CMPC, "CMPC", CLASS_POINTER, 4, false, func(cpu *Cpu, addr uint16) error {
		cpu.compare(cpu.A, cpu.Read16(addr))
		return nil
	}},
	{OP_BNE, "BNE", CLASS_RELATIVE, 2, false, branchIf(func(fl Flags) bool { return !fl.Zero })},
	{OP_CPX, "CPX", CLASS_IMMEDIATE, 2, false, func(cpu *Cpu, value uint16) error {
		cpu.compare(cpu.X, value)
		return nil
	}},
	{OP_SBC, "SBC", CLASS_IMMEDIATE, 2, false, func(cpu *Cpu, value uint16) error {
		cpu.sbc(value)
		return nil
	}},
	{OP_NOP, "NOP", CLASS_IMPLIED, 2, false, func(cpu *Cpu, _ uint16) error {
		return nil
	}},
	{OP_BEQ, "BEQ", CLASS_RELATIVE, 2, false, branchIf(func(fl Flags) bool { return fl.Zero })},
}

var (
	opcodeTable   [256]*Opcode
	mnemonicTable = make(map[string]*Opcode, len(opcodeList))
)

func init() {
	for n := range opcodeList {
		op := &opcodeList[n]
		if opcodeTable[op.Code] != nil {
			panic("duplicate opcode " + op.String())
		}
		opcodeTable[op.Code] = op
		mnemonicTable[op.Mnemonic] = op
	}
}

// branchIf builds a relative branch on a flag condition. A taken branch
// costs one extra cycle.
func branchIf(cond func(fl Flags) bool) func(cpu *Cpu, offset uint16) error {
	return func(cpu *Cpu, offset uint16) error {
		if cond(cpu.Flags) {
			cpu.PC += offset
			cpu.Cycles++
		}
		return nil
	}
}

// Lookup returns the table entry for an opcode byte.
func Lookup(code byte) (op *Opcode, ok bool) {
	op = opcodeTable[code]
	ok = op != nil
	return
}

// LookupMnemonic returns the table entry for a mnemonic, ignoring case.
func LookupMnemonic(mnemonic string) (op *Opcode, ok bool) {
	op, ok = mnemonicTable[strings.ToUpper(mnemonic)]
	return
}
