package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.NotNil(Printer())
	assert.Same(Printer(), Printer())

	assert.Equal("unknown opcode FF", From("unknown opcode %02X", 0xff))
	assert.Equal("plain text", From("plain text"))
}
