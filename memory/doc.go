// Package memory implements the memory image of the LS-8 machine.
//
// The image is a fixed 256 byte RAM and a bank of eight byte-wide general
// purpose registers. It holds no control state: the program counter, stack
// pointer and flags belong to the CPU that owns the image.
package memory
