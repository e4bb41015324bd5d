package io

// Emission is one word sent to the console.
type Emission struct {
	Value   uint16 `json:"value"`
	Address uint16 `json:"address"`
}

// Recorder is an Output that keeps every emission in order.
type Recorder struct {
	Outputs []Emission
}

var _ Output = (*Recorder)(nil)

// Send records the emission.
func (rc *Recorder) Send(value uint16, addr uint16) (err error) {
	rc.Outputs = append(rc.Outputs, Emission{Value: value, Address: addr})
	return
}

// Reset forgets all emissions.
func (rc *Recorder) Reset() {
	rc.Outputs = nil
}
