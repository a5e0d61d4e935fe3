// Package cpu implements the processor and assembler for the LS-8 system.
//
// The CPU consists of a program counter (PC), a stack pointer (SP) into a
// downward growing stack at the top of RAM, an equality flag (FL), and the
// memory image of eight 8-bit general-purpose registers (R0-R7) and 256 bytes
// of RAM.
//
// Instructions are one opcode byte followed by zero, one or two operand
// bytes. The two bytes after the opcode are always fetched; the opcode's
// declared length decides how far the PC advances.
//
// The assembler reads the textual .ls8 format: binary byte tokens, or
// mnemonics with labels, equates, and compile-time expression evaluation.
package cpu
