package cpu

import (
	"fmt"
	"log"

	"github.com/ezrec/cpu16/io"
)

const (
	MEMORY_SIZE = 0x10000 // Bytes of addressable memory.
	SP_RESET    = 0xfd    // Stack pointer after reset.
)

// Memory is the flat processor address space.
type Memory [MEMORY_SIZE]byte

// Cpu is the simulation context for the cpu16 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	A  uint16 // Accumulator.
	X  uint16 // Index register X.
	Y  uint16 // Index register Y.
	SP uint8  // Stack pointer. Reserved, never written by an instruction.
	PC uint16 // Program counter.

	Flags  Flags  // Status flags.
	Cycles uint64 // Cycles consumed since reset.

	Memory Memory // Address space.

	Input  io.Input  // Console input source.
	Output io.Output // Console output sink.
}

// NewCpu creates a new CPU in the reset state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// Reset the CPU state.
// - Clears the registers, flags and memory.
// - Zeros the cycle counter.
// - Sets the stack pointer to its reset value.
//
// The console hooks are left attached.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.A = 0
	cpu.X = 0
	cpu.Y = 0
	cpu.SP = SP_RESET
	cpu.PC = 0
	cpu.Flags = Flags{}
	cpu.Cycles = 0
	clear(cpu.Memory[:])
}

// Load copies an image into memory at origin. The image must fit below
// the top of memory.
func (cpu *Cpu) Load(image []byte, origin uint16) (err error) {
	if int(origin)+len(image) > MEMORY_SIZE {
		err = ErrProgramSize
		return
	}

	copy(cpu.Memory[origin:], image)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes at $%04X", len(image), origin)
	}

	return
}

// Read16 reads the little-endian word at addr.
func (cpu *Cpu) Read16(addr uint16) uint16 {
	return uint16(cpu.Memory[addr]) | uint16(cpu.Memory[addr+1])<<8
}

// Write16 writes a little-endian word at addr.
func (cpu *Cpu) Write16(addr uint16, value uint16) {
	cpu.Memory[addr] = byte(value)
	cpu.Memory[addr+1] = byte(value >> 8)
}

// fetch8 reads the byte at PC and advances PC.
func (cpu *Cpu) fetch8() (value byte) {
	value = cpu.Memory[cpu.PC]
	cpu.PC++
	return
}

// fetch16 reads the word at PC and advances PC past it.
func (cpu *Cpu) fetch16() (value uint16) {
	lo := cpu.fetch8()
	hi := cpu.fetch8()
	value = uint16(lo) | uint16(hi)<<8
	return
}

// fetchArg fetches the operand for an addressing class.
func (cpu *Cpu) fetchArg(class Class) (arg uint16) {
	switch class {
	case CLASS_IMMEDIATE:
		arg = cpu.fetch16()
	case CLASS_POINTER:
		arg = uint16(cpu.fetch8())
	case CLASS_RELATIVE:
		arg = uint16(int8(cpu.fetch8()))
	}

	return
}

// Step executes a single instruction.
// Returns false when the halt opcode was fetched.
func (cpu *Cpu) Step() (running bool, err error) {
	pc := cpu.PC
	code := cpu.fetch8()

	op, ok := Lookup(code)
	if !ok {
		err = ErrOpcode(code)
		return
	}

	if op.Halt() {
		if cpu.Verbose {
			log.Printf("%04X: %v halt", pc, op.Mnemonic)
		}
		return
	}

	arg := cpu.fetchArg(op.Class)

	if cpu.Verbose {
		log.Printf("%04X: %v $%04X", pc, op.Mnemonic, arg)
	}

	err = op.exec(cpu, arg)
	if err != nil {
		return
	}

	cpu.Cycles += uint64(op.Cycles)
	running = true

	return
}

// adc adds value and the carry into A.
func (cpu *Cpu) adc(value uint16) {
	var carry uint32
	if cpu.Flags.Carry {
		carry = 1
	}

	sum := uint32(cpu.A) + uint32(value) + carry
	result := uint16(sum)

	cpu.Flags.Overflow = (cpu.A^result)&(value^result)&0x8000 != 0
	cpu.Flags.Carry = sum > 0xffff
	cpu.A = result
	cpu.Flags.setZN(cpu.A)
}

// sbc subtracts value and the inverted carry from A.
func (cpu *Cpu) sbc(value uint16) {
	var borrow int32
	if !cpu.Flags.Carry {
		borrow = 1
	}

	diff := int32(cpu.A) - int32(value) - borrow
	result := uint16(diff)

	cpu.Flags.Overflow = (cpu.A^result)&(^value^result)&0x8000 != 0
	cpu.Flags.Carry = diff >= 0
	cpu.A = result
	cpu.Flags.setZN(cpu.A)
}

// compare sets Zero and Negative from reg-value, and Carry if reg >= value.
func (cpu *Cpu) compare(reg uint16, value uint16) {
	cpu.Flags.setZN(reg - value)
	cpu.Flags.Carry = reg >= value
}

// Snapshot returns a copy of the processor-visible state.
func (cpu *Cpu) Snapshot() Snapshot {
	return Snapshot{
		PC:     cpu.PC,
		A:      cpu.A,
		X:      cpu.X,
		Y:      cpu.Y,
		SP:     cpu.SP,
		P:      cpu.Flags.Pack(),
		Cycles: cpu.Cycles,
		Flags:  cpu.Flags,
	}
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{"pc", "a", "x", "y", "sp", "p", "cycles"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%04X", cpu.PC)
		case "a":
			strval = fmt.Sprintf("%04X", cpu.A)
		case "x":
			strval = fmt.Sprintf("%04X", cpu.X)
		case "y":
			strval = fmt.Sprintf("%04X", cpu.Y)
		case "sp":
			strval = fmt.Sprintf("%02X", cpu.SP)
		case "p":
			strval = fmt.Sprintf("%02X %v", cpu.Flags.Pack(), cpu.Flags)
		case "cycles":
			strval = fmt.Sprintf("%d", cpu.Cycles)
		}
		text += fmt.Sprintf("% 6s: %v\n", reg, strval)
	}

	return
}
