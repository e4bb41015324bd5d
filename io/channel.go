// Package io provides the console side channel of the cpu16 processor.
//
// The processor reads console input through an Input, and sends console
// output through an Output. Implementations are provided for automated runs
// (Queue, Recorder) and for interactive use (Tape).
package io

// Input is the console input source.
type Input interface {
	// Receive returns the next input value. Only the low 16 bits are used.
	Receive() (value int, err error)
}

// Output is the console output sink.
type Output interface {
	// Send delivers a word read from memory at addr.
	Send(value uint16, addr uint16) error
}

// Console is both halves of the side channel.
type Console interface {
	Input
	Output
}
