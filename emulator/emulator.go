// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator drives the cpu16 processor over an assembled program,
// recording a trace of every step.
package emulator

import (
	"errors"
	"log"
	"maps"
	"slices"
	"strings"

	"github.com/ezrec/cpu16/cpu"
	"github.com/ezrec/cpu16/io"
)

const (
	DEFAULT_STEP_LIMIT = 1000   // Step ceiling when none is given.
	LOAD_ORIGIN        = 0x0000 // Address the program image is loaded at.
)

// Emulator state. CPU + program + console.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Queue   io.Queue    // Console input queue.
	Console io.Recorder // Console output recorder.

	written map[uint16]struct{} // Addresses written since Reset.
}

// NewEmulator creates a new emulator, with the console attached to the
// input queue and output recorder.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
		written: make(map[uint16]struct{}),
	}

	emu.Cpu.Input = &emu.Queue
	emu.Cpu.Output = &emu.Console

	return
}

// Reset the processor and load the program at LOAD_ORIGIN.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Reset()
	emu.Console.Reset()
	clear(emu.written)

	err = emu.Cpu.Load(emu.Program.Image, LOAD_ORIGIN)
	if err != nil {
		return
	}

	emu.Cpu.PC = LOAD_ORIGIN

	return
}

// LineNo returns the source line number for the instruction at PC.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.PC)
	if dbg.Statement == nil {
		return 0
	}

	return dbg.LineNo
}

// Written returns the addresses written since Reset, in order, with their
// current values.
func (emu *Emulator) Written() (cells []Cell) {
	cells = make([]Cell, 0, len(emu.written))
	for _, addr := range slices.Sorted(maps.Keys(emu.written)) {
		cells = append(cells, Cell{Address: addr, Value: emu.Cpu.Memory[addr]})
	}

	return
}

// markWrites notes the memory cells the instruction at PC will store to.
func (emu *Emulator) markWrites() {
	pc := emu.Cpu.PC
	op, ok := cpu.Lookup(emu.Cpu.Memory[pc])
	if !ok || !op.Writes {
		return
	}

	addr := uint16(emu.Cpu.Memory[pc+1])
	emu.written[addr] = struct{}{}
	emu.written[addr+1] = struct{}{}
}

// Tick performs a single step of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Cpu.Verbose = emu.Verbose

	addr := emu.Cpu.PC
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Addr: addr, LineNo: lineno, Err: err}
		}
	}()

	emu.markWrites()

	running, err := emu.Cpu.Step()
	if err != nil {
		return
	}

	done = !running

	return
}

// Run assembles source and executes it for at most limit steps, with
// inputs queued for console input.
//
// Only assembly errors are returned. Execution errors end the run and are
// reported in the Result.
func Run(source string, limit int, inputs []int) (res *Result, err error) {
	asm := &cpu.Assembler{}
	prog, err := asm.Parse(strings.NewReader(source))
	if err != nil {
		return
	}

	emu := NewEmulator()
	emu.Program = prog
	emu.Queue.Push(inputs...)

	res, err = emu.Run(limit)
	return
}

// Run resets the emulator and executes the program for at most limit
// steps.
func (emu *Emulator) Run(limit int) (res *Result, err error) {
	err = emu.Reset()
	if err != nil {
		return
	}

	res = &Result{
		Program: emu.Program.Image,
		Trace:   []Step{},
	}

	defer func() {
		res.Outputs = append([]io.Emission{}, emu.Console.Outputs...)
		res.FinalState = emu.Cpu.Snapshot()
	}()

	for step := 1; step <= limit; step++ {
		entry := Step{
			Step:   step,
			Opcode: emu.Cpu.Memory[emu.Cpu.PC],
			Before: emu.Cpu.Snapshot(),
		}

		done, terr := emu.Tick()
		entry.Memory = emu.Written()

		if terr != nil {
			var rerr *ErrRuntime
			if errors.As(terr, &rerr) {
				terr = rerr.Err
			}
			entry.Err = terr.Error()
			res.Trace = append(res.Trace, entry)
			res.Fault = terr
			res.Err = entry.Err
			if emu.Verbose {
				log.Printf("emulator: step %d: %v", step, rerr)
			}
			return
		}

		after := emu.Cpu.Snapshot()
		entry.After = &after
		entry.Halted = done
		res.Trace = append(res.Trace, entry)

		if done {
			res.Halted = true
			return
		}
	}

	res.Fault = ErrStepLimit
	res.Err = f("%v after %v steps", ErrStepLimit, limit)
	if emu.Verbose {
		log.Printf("emulator: %v", res.Err)
	}

	return
}
