package io

import (
	"fmt"
	"io"
)

// Tape writes printed values as text to an io.Writer.
type Tape struct {
	Output io.Writer

	Lines int // Decimal lines written.
	Chars int // Characters written.
}

var _ Sink = (*Tape)(nil)

// Rewind clears the counters. The output is not rewound.
func (tc *Tape) Rewind() {
	tc.Lines = 0
	tc.Chars = 0
}

// Print writes the decimal value and a newline.
func (tc *Tape) Print(value uint8) (err error) {
	if tc.Output == nil {
		err = ErrChannelClosed
		return
	}

	_, err = fmt.Fprintf(tc.Output, "%d\n", value)
	if err != nil {
		return
	}

	tc.Lines++
	return
}

// PrintChar writes the value as a single byte.
func (tc *Tape) PrintChar(value uint8) (err error) {
	if tc.Output == nil {
		err = ErrChannelClosed
		return
	}

	_, err = tc.Output.Write([]byte{value})
	if err != nil {
		return
	}

	tc.Chars++
	return
}
