package io

import (
	"github.com/ezrec/cpu16/translate"
)

var f = translate.From

// ErrInputValue indicates a line of console input that is not a hex number.
type ErrInputValue string

func (err ErrInputValue) Error() string {
	return f("'%v' is not a hex number", string(err))
}
