package memory

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	ErrOutOfBounds     = errors.New(f("address out of bounds"))
	ErrInvalidRegister = errors.New(f("register invalid"))
)

// ErrAddress reports the faulting address of an out of bounds access.
type ErrAddress int

func (ea ErrAddress) Error() string {
	return f("address 0x%x out of bounds", int(ea))
}

func (ea ErrAddress) Unwrap() error {
	return ErrOutOfBounds
}

// ErrRegister reports the faulting index of an invalid register access.
type ErrRegister int

func (er ErrRegister) Error() string {
	return f("register %d invalid", int(er))
}

func (er ErrRegister) Unwrap() error {
	return ErrInvalidRegister
}
