package emulator

import (
	"encoding/json"

	"github.com/ezrec/cpu16/cpu"
	"github.com/ezrec/cpu16/io"
)

// Cell is a memory address and its value.
type Cell struct {
	Address uint16 `json:"address"`
	Value   byte   `json:"value"`
}

// Step is the trace record of one executed step. A successful step has
// After set; a failed step has Err set instead.
type Step struct {
	Step   int           `json:"step"`
	Opcode byte          `json:"opcode"`
	Before cpu.Snapshot  `json:"before"`
	After  *cpu.Snapshot `json:"after,omitempty"`
	Halted bool          `json:"-"`
	Err    string        `json:"error,omitempty"`
	Memory []Cell        `json:"memory_used"`
}

// MarshalJSON encodes the step. Successful steps always carry "halted";
// failed steps carry neither "after" nor "halted".
func (step Step) MarshalJSON() ([]byte, error) {
	type record Step
	out := struct {
		record
		Halted *bool `json:"halted,omitempty"`
	}{
		record: record(step),
	}

	if step.After != nil {
		out.Halted = &step.Halted
	}

	return json.Marshal(out)
}

// Result is the outcome of a run.
type Result struct {
	Program    cpu.Image     `json:"program"`
	Trace      []Step        `json:"trace"`
	Halted     bool          `json:"halted"`
	Err        string        `json:"error,omitempty"`
	Outputs    []io.Emission `json:"outputs"`
	FinalState cpu.Snapshot  `json:"final_state"`

	Fault error `json:"-"` // Execution error that ended the run, if any.
}
