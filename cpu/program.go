package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Opcode represents a line of assembled code with its source location and generated bytes.
type Opcode struct {
	LineNo    int
	Address   int
	Words     []string
	Bytes     []uint8
	LinkLabel string // Label whose address is patched into Bytes[LinkIndex].
	LinkIndex int
}

// Program is an assembled listing.
type Program struct {
	Opcodes []Opcode
}

// Debug locates a byte of the listing.
type Debug struct {
	*Opcode
	Index int
}

// Debug returns the listing line holding address, if any.
func (prog *Program) Debug(address int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if address >= op.Address && address < op.Address+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  address - op.Address,
			}
			break
		}
	}

	return
}

// Len returns the size of the program in bytes.
func (prog *Program) Len() (size int) {
	if len(prog.Opcodes) == 0 {
		return
	}

	last := prog.Opcodes[len(prog.Opcodes)-1]
	size = last.Address + len(last.Bytes)
	return
}

// Binary returns the memory image of the program, starting at address 0.
func (prog *Program) Binary() (bins []uint8) {
	bins = make([]uint8, prog.Len())
	for address, data := range prog.Bytes() {
		bins[address] = data
	}

	return
}

// Bytes iterates over the address and value of every byte in the program.
func (prog *Program) Bytes() iter.Seq2[int, uint8] {
	return func(yield func(address int, data uint8) bool) {
		for _, op := range prog.Opcodes {
			for n, data := range op.Bytes {
				if !yield(op.Address+n, data) {
					return
				}
			}
		}
	}
}

// String returns the listing as text, one line per opcode.
func (prog *Program) String() string {
	var text strings.Builder
	for _, op := range prog.Opcodes {
		var hex []string
		for _, data := range op.Bytes {
			hex = append(hex, fmt.Sprintf("%02X", data))
		}
		fmt.Fprintf(&text, "%02X: %-9s %4d: %v\n",
			op.Address, strings.Join(hex, " "), op.LineNo, strings.Join(op.Words, " "))
	}

	return text.String()
}
