package io

// Queue is an Input backed by pre-supplied values.
// An empty queue yields zero.
type Queue struct {
	Values []int
}

var _ Input = (*Queue)(nil)

// Push appends values to the queue.
func (qc *Queue) Push(values ...int) {
	qc.Values = append(qc.Values, values...)
}

// Receive pops the next value, or zero if the queue is empty.
func (qc *Queue) Receive() (value int, err error) {
	if len(qc.Values) == 0 {
		return
	}

	value = qc.Values[0]
	qc.Values = qc.Values[1:]
	return
}
