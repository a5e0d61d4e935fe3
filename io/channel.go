// Package io provides the output sinks for the LS-8 print instructions.
// It includes a Tape that writes text to an io.Writer, and a Temporary
// buffer that captures printed values in memory.
package io

import (
	"iter"
)

// Sink defines the interface for the output collaborator of the CPU.
type Sink interface {
	// Print emits a value as a decimal number and a line break.
	Print(value uint8) error
	// PrintChar emits a value as a single character.
	PrintChar(value uint8) error
}

// Source is a Sink whose output can be read back.
type Source interface {
	Sink
	// Rewind resets the sink to its initial state.
	Rewind()
	// Receive returns an iterator that yields the values printed so far.
	Receive() iter.Seq[uint8]
}
