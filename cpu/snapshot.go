package cpu

import (
	"fmt"
)

// Snapshot is a point-in-time copy of the processor-visible state.
type Snapshot struct {
	PC     uint16 `json:"PC"`
	A      uint16 `json:"A"`
	X      uint16 `json:"X"`
	Y      uint16 `json:"Y"`
	SP     uint8  `json:"SP"`
	P      uint8  `json:"P"`
	Cycles uint64 `json:"cycles"`
	Flags  Flags  `json:"flags"`
}

// String returns the one line register dump used in trace reports.
func (snap Snapshot) String() string {
	return fmt.Sprintf("PC:$%04X  A:$%04X  X:$%04X  Y:$%04X  SP:$%02X  P:$%02X  %v  cycles:%d",
		snap.PC, snap.A, snap.X, snap.Y, snap.SP, snap.P, snap.Flags, snap.Cycles)
}
