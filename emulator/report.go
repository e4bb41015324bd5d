package emulator

import (
	"fmt"
	"io"
)

// WriteReport writes the text report of a run: program bytes, every trace
// step, and the run summary.
func WriteReport(w io.Writer, res *Result) (err error) {
	printf := func(format string, args ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, args...)
	}

	printf("Program bytes:\n%v\n\n", res.Program)

	for _, step := range res.Trace {
		printf("Step %d opcode=%02X\n", step.Step, step.Opcode)
		if step.After != nil {
			printf("  Before: %v\n", step.Before)
			printf("  After:  %v\n", *step.After)
		}
		if len(step.Err) != 0 {
			printf("  Error:  %v\n", step.Err)
		}
		printf("\n")
	}

	errText := "None"
	if len(res.Err) != 0 {
		errText = res.Err
	}

	printf("Halted: %v\n", res.Halted)
	printf("Error: %v\n", errText)
	printf("Outputs:")
	for _, out := range res.Outputs {
		printf(" %04X@%04X", out.Value, out.Address)
	}
	printf("\n")
	printf("Final state: %v\n", res.FinalState)

	return
}
