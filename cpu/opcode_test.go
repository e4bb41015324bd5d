package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcodeTable(t *testing.T) {
	assert := assert.New(t)

	count := 0
	for code := range 256 {
		op, ok := Lookup(byte(code))
		if !ok {
			assert.Nil(op)
			continue
		}
		count++
		assert.Equal(byte(code), op.Code)

		named, ok := LookupMnemonic(op.Mnemonic)
		assert.True(ok, op.Mnemonic)
		assert.Same(op, named)

		if op.Halt() {
			continue
		}
		assert.NotNil(op.exec, op.Mnemonic)
		assert.Positive(op.Cycles, op.Mnemonic)
	}
	assert.Equal(33, count)
}

func TestOpcodeSizes(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		mnemonic string
		class    Class
		size     int
	}{
		{"brk", CLASS_IMPLIED, 1},
		{"NOP", CLASS_IMPLIED, 1},
		{"CTA", CLASS_IMPLIED, 1},
		{"LDA", CLASS_IMMEDIATE, 3},
		{"JMP", CLASS_IMMEDIATE, 3},
		{"CPX", CLASS_IMMEDIATE, 3},
		{"STA", CLASS_POINTER, 2},
		{"CMPC", CLASS_POINTER, 2},
		{"MULM", CLASS_POINTER, 2},
		{"BEQ", CLASS_RELATIVE, 2},
		{"bvc", CLASS_RELATIVE, 2},
	}

	for _, entry := range table {
		op, ok := LookupMnemonic(entry.mnemonic)
		assert.True(ok, entry.mnemonic)
		assert.Equal(entry.class, op.Class, entry.mnemonic)
		assert.Equal(entry.size, op.Size(), entry.mnemonic)
	}

	_, ok := LookupMnemonic("SEC")
	assert.False(ok)

	assert.Equal("imm", CLASS_IMMEDIATE.String())
	assert.Equal("Class(9)", Class(9).String())

	op, _ := Lookup(OP_MULM)
	assert.True(op.Writes)
	assert.Equal("14 MULM.ptr", op.String())
}
