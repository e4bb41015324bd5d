package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Tape is an interactive Console. Input is read as one hex number per line
// from Input, prompting on Output. Emissions are printed to Output.
type Tape struct {
	Input    io.Reader
	Output   io.Writer
	NoPrompt bool // If set, Receive does not prompt on Output.

	scanner *bufio.Scanner
}

var _ Console = (*Tape)(nil)

// Rewind drops any buffered input.
func (tc *Tape) Rewind() {
	tc.scanner = nil
}

// Receive prompts for, and reads, a hex value.
func (tc *Tape) Receive() (value int, err error) {
	if tc.scanner == nil {
		tc.scanner = bufio.NewScanner(tc.Input)
	}

	if tc.Output != nil && !tc.NoPrompt {
		fmt.Fprint(tc.Output, f("Enter a hex number to load into A: "))
	}

	if !tc.scanner.Scan() {
		err = tc.scanner.Err()
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return
	}

	text := strings.TrimSpace(tc.scanner.Text())
	text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	v64, err := strconv.ParseInt(text, 16, 64)
	if err != nil {
		err = ErrInputValue(tc.scanner.Text())
		return
	}

	value = int(v64)
	return
}

// Send prints the value in hex and decimal.
func (tc *Tape) Send(value uint16, addr uint16) (err error) {
	if tc.Output == nil {
		return
	}
	_, err = fmt.Fprintf(tc.Output, "Output to console: %04X| %d\n", value, value)
	return
}
