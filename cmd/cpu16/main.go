// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/ezrec/cpu16/cpu"
	"github.com/ezrec/cpu16/emulator"
	"github.com/ezrec/cpu16/io"
)

// tee sends console output to every sink.
type tee []io.Output

func (t tee) Send(value uint16, addr uint16) (err error) {
	for _, out := range t {
		err = out.Send(value, addr)
		if err != nil {
			return
		}
	}
	return
}

// parseInputs parses a comma separated list of hex values.
func parseInputs(list string) (values []int, err error) {
	for _, word := range strings.Split(list, ",") {
		word = strings.TrimSpace(word)
		if len(word) == 0 {
			continue
		}
		var v64 int64
		v64, err = strconv.ParseInt(strings.TrimPrefix(word, "0x"), 16, 64)
		if err != nil {
			return
		}
		values = append(values, int(v64))
	}
	return
}

func main() {
	var compile string
	var output string
	var input string
	var steps int
	var listing bool
	var interactive bool
	var verbose bool

	asm := &cpu.Assembler{}

	flag.StringVar(&compile, "c", "prog.cpu", "source file to assemble and run")
	flag.StringVar(&output, "o", "result.txt", "trace report output, - for stdout")
	flag.StringVar(&input, "i", "", "comma separated hex console inputs")
	flag.IntVar(&steps, "n", emulator.DEFAULT_STEP_LIMIT, "step limit")
	flag.BoolVar(&listing, "l", false, "print the assembly listing to stderr")
	flag.BoolVar(&interactive, "x", false, "interactive console on stdin/stderr")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Func("D", "predefine an equate, NAME=VALUE", func(def string) error {
		name, value, ok := strings.Cut(def, "=")
		if !ok {
			return fmt.Errorf("%v: expected NAME=VALUE", def)
		}
		asm.Predefine(name, value)
		return nil
	})

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	inputs, err := parseInputs(input)
	if err != nil {
		log.Fatalf("-i %v: %v", input, err)
	}

	inf, err := os.Open(compile)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}
	defer inf.Close()

	asm.Verbose = verbose
	prog, err := asm.Parse(inf)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	if listing {
		fmt.Fprint(os.Stderr, prog.Listing())
	}

	emu := emulator.NewEmulator()
	emu.Program = prog
	emu.Verbose = verbose
	emu.Queue.Push(inputs...)

	if interactive {
		tape := &io.Tape{
			Input:    os.Stdin,
			Output:   os.Stderr,
			NoPrompt: !term.IsTerminal(int(os.Stdin.Fd())),
		}
		emu.Cpu.Input = tape
		emu.Cpu.Output = tee{&emu.Console, tape}
	}

	res, err := emu.Run(steps)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	ouf := os.Stdout
	if output != "-" {
		ouf, err = os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
	}

	err = emulator.WriteReport(ouf, res)
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}
}
