package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlagsPack(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint8(0x20), Flags{}.Pack())
	assert.Equal(uint8(0xff), Flags{true, true, true, true, true, true, true}.Pack())
	assert.Equal(uint8(0x21), Flags{Carry: true}.Pack())
	assert.Equal(uint8(0x22), Flags{Zero: true}.Pack())
	assert.Equal(uint8(0x60), Flags{Overflow: true}.Pack())
	assert.Equal(uint8(0xa0), Flags{Negative: true}.Pack())

	for p := range 256 {
		assert.Equal(uint8(p)|FLAG_UNUSED, UnpackFlags(uint8(p)).Pack())
	}
}

func TestFlagsString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("[----- - --]", Flags{}.String())
	assert.Equal("[CZIDB - VN]", UnpackFlags(0xff).String())
	assert.Equal("[-Z--- - -N]", Flags{Zero: true, Negative: true}.String())
}
