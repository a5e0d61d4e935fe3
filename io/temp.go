package io

import (
	"iter"
	"slices"
)

// Temporary captures printed values in memory.
// Characters and numbers are stored alike, in print order.
type Temporary struct {
	Capacity int // Capacity in values, zero for unbounded.

	Data []uint8
}

var _ Source = (*Temporary)(nil)

// Rewind empties the buffer.
func (temp *Temporary) Rewind() {
	temp.Data = temp.Data[:0]
}

// Receive returns an iterator over the captured values.
func (temp *Temporary) Receive() iter.Seq[uint8] {
	return slices.Values(temp.Data)
}

// Print appends value to the buffer.
// Returns ErrChannelFull if the buffer has reached capacity.
func (temp *Temporary) Print(value uint8) (err error) {
	if temp.Capacity > 0 && len(temp.Data) >= temp.Capacity {
		err = ErrChannelFull
		return
	}

	temp.Data = append(temp.Data, value)

	return
}

// PrintChar appends value to the buffer.
func (temp *Temporary) PrintChar(value uint8) error {
	return temp.Print(value)
}
