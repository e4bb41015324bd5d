package cpu

// Status register bit positions.
const (
	FLAG_CARRY    = uint8(1 << 0)
	FLAG_ZERO     = uint8(1 << 1)
	FLAG_IRQ      = uint8(1 << 2)
	FLAG_DECIMAL  = uint8(1 << 3)
	FLAG_BREAK    = uint8(1 << 4)
	FLAG_UNUSED   = uint8(1 << 5) // Always set when packed.
	FLAG_OVERFLOW = uint8(1 << 6)
	FLAG_NEGATIVE = uint8(1 << 7)
)

// Flags is the processor status, one field per flag.
//
// The packed status byte only exists at the boundary (snapshots and
// dumps); see Pack and UnpackFlags.
type Flags struct {
	Carry      bool `json:"C"`
	Zero       bool `json:"Z"`
	IrqDisable bool `json:"I"`
	Decimal    bool `json:"D"`
	Break      bool `json:"B"`
	Overflow   bool `json:"V"`
	Negative   bool `json:"N"`
}

// Pack returns the status byte.
func (fl Flags) Pack() (p uint8) {
	p = FLAG_UNUSED
	for _, bit := range []struct {
		set  bool
		mask uint8
	}{
		{fl.Carry, FLAG_CARRY},
		{fl.Zero, FLAG_ZERO},
		{fl.IrqDisable, FLAG_IRQ},
		{fl.Decimal, FLAG_DECIMAL},
		{fl.Break, FLAG_BREAK},
		{fl.Overflow, FLAG_OVERFLOW},
		{fl.Negative, FLAG_NEGATIVE},
	} {
		if bit.set {
			p |= bit.mask
		}
	}

	return
}

// UnpackFlags splits a status byte into flags. Bit 5 is ignored.
func UnpackFlags(p uint8) Flags {
	return Flags{
		Carry:      p&FLAG_CARRY != 0,
		Zero:       p&FLAG_ZERO != 0,
		IrqDisable: p&FLAG_IRQ != 0,
		Decimal:    p&FLAG_DECIMAL != 0,
		Break:      p&FLAG_BREAK != 0,
		Overflow:   p&FLAG_OVERFLOW != 0,
		Negative:   p&FLAG_NEGATIVE != 0,
	}
}

// String renders the flags as "[CZIDB - VN]", with '-' for clear flags.
func (fl Flags) String() string {
	mark := func(set bool, c byte) byte {
		if set {
			return c
		}
		return '-'
	}

	return string([]byte{
		'[',
		mark(fl.Carry, 'C'),
		mark(fl.Zero, 'Z'),
		mark(fl.IrqDisable, 'I'),
		mark(fl.Decimal, 'D'),
		mark(fl.Break, 'B'),
		' ', '-', ' ',
		mark(fl.Overflow, 'V'),
		mark(fl.Negative, 'N'),
		']',
	})
}

// setZN sets Zero and Negative from a 16-bit result.
func (fl *Flags) setZN(value uint16) {
	fl.Zero = value == 0
	fl.Negative = value&0x8000 != 0
}
