package cpu

import (
	"errors"

	"github.com/ezrec/cpu16/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrInput = errors.New(f("console input"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelSyntax        = errors.New(f("label syntax"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrProgramSize        = errors.New(f("program exceeds memory"))
)

// ErrOpcode is returned when an unrecognized opcode is fetched.
type ErrOpcode byte

func (eo ErrOpcode) Error() string {
	return f("unknown opcode %02X", byte(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrBranchRange is returned when a branch target is out of reach.
type ErrBranchRange struct {
	Mnemonic string
	Label    string
	Offset   int
}

func (err ErrBranchRange) Error() string {
	return f("branch offset out of range for '%v %v': %v", err.Mnemonic, err.Label, err.Offset)
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %v '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a hex number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
