package cpu

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StatementKind is the type of a parsed source statement.
type StatementKind int

const (
	STATEMENT_LABEL       = StatementKind(0) // Label definition.
	STATEMENT_INSTRUCTION = StatementKind(1) // Mnemonic with optional operand.
	STATEMENT_BYTE        = StatementKind(2) // Raw literal byte.
)

// Statement is one entry of the intermediate statement list.
type Statement struct {
	LineNo int           // Source line number.
	Line   string        // Source text, without comment.
	Kind   StatementKind // Statement kind.
	Label  string        // Label name, for STATEMENT_LABEL.
	Opcode *Opcode       // Table entry, for STATEMENT_INSTRUCTION.
	Arg    string        // Operand word, or the raw literal word.
	Addr   int           // Byte address, assigned by the first pass.
}

// Size returns the number of bytes the statement emits.
func (st *Statement) Size() int {
	switch st.Kind {
	case STATEMENT_INSTRUCTION:
		return st.Opcode.Size()
	case STATEMENT_BYTE:
		return 1
	}

	return 0
}

// Image is an assembled byte sequence.
// It encodes to JSON as an array of numbers.
type Image []byte

func (img Image) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(img))
	for n, b := range img {
		ints[n] = int(b)
	}
	return json.Marshal(ints)
}

func (img *Image) UnmarshalJSON(data []byte) (err error) {
	var ints []int
	err = json.Unmarshal(data, &ints)
	if err != nil {
		return
	}

	*img = make(Image, len(ints))
	for n, v := range ints {
		(*img)[n] = byte(v)
	}
	return
}

// String returns the image as space separated hex bytes.
func (img Image) String() string {
	words := make([]string, len(img))
	for n, b := range img {
		words[n] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(words, " ")
}

// Program is the output of the assembler.
type Program struct {
	Statements []Statement
	Image      Image
}

type Debug struct {
	*Statement
	Index int
}

// Debug finds the statement that emitted the byte at addr.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, st := range prog.Statements {
		size := st.Size()
		if size == 0 {
			continue
		}
		if int(addr) >= st.Addr && int(addr) < st.Addr+size {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     int(addr) - st.Addr,
			}
			break
		}
	}

	return
}

// Listing returns the address, bytes and source of every emitting statement.
func (prog *Program) Listing() (text string) {
	for _, st := range prog.Statements {
		size := st.Size()
		if size == 0 {
			continue
		}
		end := min(st.Addr+size, len(prog.Image))
		bytes := prog.Image[st.Addr:end]
		text += fmt.Sprintf("%04X  %-8v  %4d: %v\n", st.Addr, bytes, st.LineNo, st.Line)
	}

	return
}
