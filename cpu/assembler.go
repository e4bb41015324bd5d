// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"io"
	"log"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Assembler is a two pass assembler for the cpu16 processor.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to byte addresses, after Parse.
	Equate    map[string]int64  // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate, applied
// at the start of every Parse.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Assemble translates source text into a byte image.
func Assemble(source string) (image Image, err error) {
	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(source))
	if err != nil {
		return
	}

	image = prog.Image
	return
}

// parseHex parses a base-16 integer, with optional sign, 0x prefix and
// '_' separators.
func parseHex(word string) (value int64, err error) {
	text := word
	neg := false
	switch {
	case strings.HasPrefix(text, "-"):
		neg = true
		text = text[1:]
	case strings.HasPrefix(text, "+"):
		text = text[1:]
	}
	if len(text) > 2 && (text[:2] == "0x" || text[:2] == "0X") {
		text = text[2:]
	}
	text = strings.ReplaceAll(text, "_", "")

	u64, err := strconv.ParseUint(text, 16, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int64(u64)
	if neg {
		value = -value
	}

	return
}

// parenEval does compile-time $(...) evaluations over the equates and,
// when present, the labels.
func (asm *Assembler) parenEval(expr string, labels map[string]int) (value int64, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, val := range asm.Equate {
		pred[key] = starlark.MakeInt64(val)
	}
	for key, addr := range labels {
		pred[key] = starlark.MakeInt(addr)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}

	return
}

// valueOf returns the value of an operand word that is not a label.
func (asm *Assembler) valueOf(word string, labels map[string]int) (value int64, err error) {
	if strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")") {
		return asm.parenEval(word[2:len(word)-1], labels)
	}

	value, ok := asm.Equate[word]
	if ok {
		return
	}

	return parseHex(word)
}

// splitWords splits a line on white space, keeping each $(...) together.
func splitWords(line string) (words []string) {
	var word strings.Builder
	depth := 0

	for n, c := range line {
		switch {
		case depth == 0 && unicode.IsSpace(c):
			if word.Len() > 0 {
				words = append(words, word.String())
				word.Reset()
			}
			continue
		case c == '(' && (depth > 0 || strings.HasSuffix(line[:n], "$")):
			depth++
		case c == ')' && depth > 0:
			depth--
		}
		word.WriteRune(c)
	}

	if word.Len() > 0 {
		words = append(words, word.String())
	}

	return
}

// stripComment removes everything from a ';' or '#' onward.
func stripComment(text string) string {
	text, _, _ = strings.Cut(text, ";")
	text, _, _ = strings.Cut(text, "#")
	return strings.TrimSpace(text)
}

// parseLine parses a single comment-free line into statements.
func (asm *Assembler) parseLine(line string, lineno int) (stmts []Statement, err error) {
	rest := line

	// label: ...
	for {
		head, tail, found := strings.Cut(rest, ":")
		if !found || strings.Contains(head, "$(") {
			break
		}
		label := strings.TrimSpace(head)
		if strings.ContainsFunc(label, unicode.IsSpace) {
			err = ErrLabelSyntax
			return
		}
		if len(label) != 0 {
			stmts = append(stmts, Statement{LineNo: lineno, Line: line, Kind: STATEMENT_LABEL, Label: label})
		}
		rest = strings.TrimSpace(tail)
	}

	words := splitWords(rest)
	if len(words) == 0 {
		return
	}

	// .equ NAME VALUE
	if strings.EqualFold(words[0], ".equ") {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		var value int64
		value, err = asm.valueOf(words[2], nil)
		if err != nil {
			return
		}
		asm.Equate[words[1]] = value
		return
	}

	op, ok := LookupMnemonic(words[0])
	if ok {
		if len(words) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		st := Statement{LineNo: lineno, Line: line, Kind: STATEMENT_INSTRUCTION, Opcode: op}
		if len(words) == 2 {
			st.Arg = words[1]
		}
		stmts = append(stmts, st)
		return
	}

	if len(words) > 1 {
		err = ErrInstructionInvalid
		return
	}

	stmts = append(stmts, Statement{LineNo: lineno, Line: line, Kind: STATEMENT_BYTE, Arg: words[0]})

	return
}

// layout is the first pass. It assigns the address of every statement and
// returns the label table.
func layout(stmts []Statement) (labels map[string]int, err error) {
	labels = make(map[string]int, 16)

	addr := 0
	for n := range stmts {
		st := &stmts[n]
		st.Addr = addr

		if st.Kind == STATEMENT_LABEL {
			_, ok := labels[st.Label]
			if ok {
				err = ErrSyntax{LineNo: st.LineNo, Line: st.Line, Err: ErrLabelDuplicate}
				return
			}
			labels[st.Label] = addr
			continue
		}

		addr += st.Size()
		if addr > MEMORY_SIZE {
			err = ErrSyntax{LineNo: st.LineNo, Line: st.Line, Err: ErrProgramSize}
			return
		}
	}

	return
}

// emit is the second pass. It encodes every statement, resolving labels
// from the table built by layout.
func (asm *Assembler) emit(stmts []Statement, labels map[string]int) (image Image, err error) {
	for n := range stmts {
		st := &stmts[n]

		var code []byte
		code, err = asm.encode(st, labels)
		if err != nil {
			err = ErrSyntax{LineNo: st.LineNo, Line: st.Line, Err: err}
			return
		}

		image = append(image, code...)
	}

	return
}

// encode returns the bytes for a single statement.
func (asm *Assembler) encode(st *Statement, labels map[string]int) (code []byte, err error) {
	switch st.Kind {
	case STATEMENT_LABEL:
		return
	case STATEMENT_BYTE:
		var value int64
		value, err = asm.valueOf(st.Arg, labels)
		if err != nil {
			return
		}
		code = []byte{byte(value)}
		return
	}

	op := st.Opcode
	code = []byte{op.Code}

	if op.Class == CLASS_IMPLIED {
		return
	}

	if len(st.Arg) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	var value int64
	target, is_label := labels[st.Arg]
	if is_label {
		value = int64(target)
		if op.Class == CLASS_RELATIVE {
			// Relative to the byte after the offset.
			offset := target - (st.Addr + 2)
			if offset < -128 || offset > 127 {
				err = ErrBranchRange{Mnemonic: op.Mnemonic, Label: st.Arg, Offset: offset}
				return
			}
			value = int64(offset)
		}
	} else {
		value, err = asm.valueOf(st.Arg, labels)
		if err != nil {
			return
		}
	}

	switch op.Class {
	case CLASS_IMMEDIATE:
		code = append(code, byte(value), byte(value>>8))
	default:
		code = append(code, byte(value))
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var stmts []Statement

	asm.Label = nil
	asm.Equate = make(map[string]int64, len(asm.predefine))
	for _, equ := range slices.Sorted(maps.Keys(asm.predefine)) {
		var value int64
		value, err = asm.valueOf(asm.predefine[equ], nil)
		if err != nil {
			err = ErrSyntax{LineNo: 0, Line: equ + "=" + asm.predefine[equ], Err: err}
			return
		}
		asm.Equate[equ] = value
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = stripComment(text)
		if len(line) == 0 {
			continue
		}

		var parsed []Statement
		parsed, err = asm.parseLine(line, lineno)
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
			return
		}
		stmts = append(stmts, parsed...)
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	labels, err := layout(stmts)
	if err != nil {
		return
	}

	image, err := asm.emit(stmts, labels)
	if err != nil {
		return
	}

	asm.Label = maps.Clone(labels)

	prog = &Program{
		Statements: stmts,
		Image:      image,
	}

	if asm.Verbose {
		log.Printf("asm: %d statements, %d bytes, %d labels", len(stmts), len(image), len(labels))
	}

	return
}
