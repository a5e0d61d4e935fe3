// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package memory

import (
	"fmt"
	"log"
)

const (
	SIZE      = 256 // Bytes of RAM.
	REGISTERS = 8   // General purpose registers.
)

// Memory is the RAM and register file of the machine.
type Memory struct {
	Verbose bool // Set to log every write.

	Ram      [SIZE]uint8      // Byte addressable RAM.
	Register [REGISTERS]uint8 // Register bank.

	Reads  int // RAM reads since reset.
	Writes int // RAM writes since reset.
}

// NewMemory creates a new, zeroed memory image.
func NewMemory() (mem *Memory) {
	mem = &Memory{}

	return
}

// Reset zeros the RAM, the registers and the access counters.
func (mem *Memory) Reset() {
	clear(mem.Ram[:])
	clear(mem.Register[:])
	mem.Reads = 0
	mem.Writes = 0
}

// Read returns the byte at address.
func (mem *Memory) Read(address int) (value uint8, err error) {
	if address < 0 || address >= SIZE {
		err = ErrAddress(address)
		return
	}

	mem.Reads++
	value = mem.Ram[address]
	return
}

// Write stores the low byte of value at address.
func (mem *Memory) Write(address int, value int) (err error) {
	if address < 0 || address >= SIZE {
		err = ErrAddress(address)
		return
	}

	if mem.Verbose {
		log.Printf("memory: [%02x] <- %02x", address, uint8(value))
	}

	mem.Writes++
	mem.Ram[address] = uint8(value)
	return
}

// Load copies data into RAM starting at address.
// Nothing is written if data would run past the end of RAM.
func (mem *Memory) Load(address int, data []uint8) (err error) {
	if address < 0 || address > SIZE {
		err = ErrAddress(address)
		return
	}
	if len(data) > SIZE-address {
		err = ErrAddress(address + len(data) - 1)
		return
	}

	copy(mem.Ram[address:], data)
	mem.Writes += len(data)

	return
}

// Get returns the value of register reg.
func (mem *Memory) Get(reg int) (value uint8, err error) {
	if reg < 0 || reg >= REGISTERS {
		err = ErrRegister(reg)
		return
	}

	value = mem.Register[reg]
	return
}

// Set stores the low byte of value in register reg.
func (mem *Memory) Set(reg int, value int) (err error) {
	if reg < 0 || reg >= REGISTERS {
		err = ErrRegister(reg)
		return
	}

	mem.Register[reg] = uint8(value)
	return
}

// String returns the register bank as text.
func (mem *Memory) String() (text string) {
	for n, val := range mem.Register {
		if n > 0 {
			text += " "
		}
		text += fmt.Sprintf("%02X", val)
	}

	return
}
