package cpu

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Code is an instruction opcode byte.
//
// Encoding is AABCDDDD: AA is the operand count, B marks ALU operations,
// C marks instructions that set the PC, and DDDD identifies the instruction.
type Code uint8

const (
	NOP  = Code(0b00000000)
	HLT  = Code(0b00000001)
	RET  = Code(0b00010001)
	PUSH = Code(0b01000101)
	POP  = Code(0b01000110)
	PRN  = Code(0b01000111)
	PRA  = Code(0b01001000)
	CALL = Code(0b01010000)
	JMP  = Code(0b01010100)
	JEQ  = Code(0b01010101)
	JNE  = Code(0b01010110)
	INC  = Code(0b01100101)
	DEC  = Code(0b01100110)
	NOT  = Code(0b01101001)
	LDI  = Code(0b10000010)
	LD   = Code(0b10000011)
	ST   = Code(0b10000100)
	ADD  = Code(0b10100000)
	SUB  = Code(0b10100001)
	MUL  = Code(0b10100010)
	DIV  = Code(0b10100011)
	MOD  = Code(0b10100100)
	CMP  = Code(0b10100111)
	AND  = Code(0b10101000)
	OR   = Code(0b10101010)
	XOR  = Code(0b10101011)
	SHL  = Code(0b10101100)
	SHR  = Code(0b10101101)
)

// CodeArg is the kind of an operand byte.
type CodeArg int

const (
	ARG_REG = CodeArg(iota) // Register index.
	ARG_IMM                 // 8-bit immediate.
)

// codeInfo declares the mnemonic and operand kinds of an opcode.
// The instruction length is one plus the operand count.
type codeInfo struct {
	Name string
	Args []CodeArg
}

var codeTable = map[Code]codeInfo{
	NOP:  {"NOP", nil},
	HLT:  {"HLT", nil},
	RET:  {"RET", nil},
	PUSH: {"PUSH", []CodeArg{ARG_REG}},
	POP:  {"POP", []CodeArg{ARG_REG}},
	PRN:  {"PRN", []CodeArg{ARG_REG}},
	PRA:  {"PRA", []CodeArg{ARG_REG}},
	CALL: {"CALL", []CodeArg{ARG_REG}},
	JMP:  {"JMP", []CodeArg{ARG_REG}},
	JEQ:  {"JEQ", []CodeArg{ARG_REG}},
	JNE:  {"JNE", []CodeArg{ARG_REG}},
	INC:  {"INC", []CodeArg{ARG_REG}},
	DEC:  {"DEC", []CodeArg{ARG_REG}},
	NOT:  {"NOT", []CodeArg{ARG_REG}},
	LDI:  {"LDI", []CodeArg{ARG_REG, ARG_IMM}},
	LD:   {"LD", []CodeArg{ARG_REG, ARG_REG}},
	ST:   {"ST", []CodeArg{ARG_REG, ARG_REG}},
	ADD:  {"ADD", []CodeArg{ARG_REG, ARG_REG}},
	SUB:  {"SUB", []CodeArg{ARG_REG, ARG_REG}},
	MUL:  {"MUL", []CodeArg{ARG_REG, ARG_REG}},
	DIV:  {"DIV", []CodeArg{ARG_REG, ARG_REG}},
	MOD:  {"MOD", []CodeArg{ARG_REG, ARG_REG}},
	CMP:  {"CMP", []CodeArg{ARG_REG, ARG_REG}},
	AND:  {"AND", []CodeArg{ARG_REG, ARG_REG}},
	OR:   {"OR", []CodeArg{ARG_REG, ARG_REG}},
	XOR:  {"XOR", []CodeArg{ARG_REG, ARG_REG}},
	SHL:  {"SHL", []CodeArg{ARG_REG, ARG_REG}},
	SHR:  {"SHR", []CodeArg{ARG_REG, ARG_REG}},
}

var codeByName = func() map[string]Code {
	names := make(map[string]Code, len(codeTable))
	for code, info := range codeTable {
		names[info.Name] = code
	}
	return names
}()

// Codes returns the defined opcodes, in ascending order.
func Codes() iter.Seq[Code] {
	return slices.Values(slices.Sorted(maps.Keys(codeTable)))
}

// LookupCode returns the opcode for a mnemonic.
func LookupCode(name string) (code Code, ok bool) {
	code, ok = codeByName[name]
	return
}

// Valid returns true if the opcode is defined.
func (code Code) Valid() bool {
	_, ok := codeTable[code]
	return ok
}

// Args returns the operand kinds of the opcode.
func (code Code) Args() []CodeArg {
	return codeTable[code].Args
}

// Len returns the instruction length in bytes, or 0 for an undefined opcode.
func (code Code) Len() int {
	info, ok := codeTable[code]
	if !ok {
		return 0
	}
	return 1 + len(info.Args)
}

// Operands returns the operand count encoded in the opcode's top bits.
func (code Code) Operands() int {
	return int(code >> 6)
}

// IsAlu returns true if the opcode is an ALU operation.
func (code Code) IsAlu() bool {
	return (code>>5)&1 == 1
}

// SetsPc returns true if the opcode is a control transfer.
func (code Code) SetsPc() bool {
	return (code>>4)&1 == 1
}

// String returns the mnemonic of the opcode.
func (code Code) String() string {
	info, ok := codeTable[code]
	if !ok {
		return fmt.Sprintf("Code(0x%02x)", uint8(code))
	}
	return info.Name
}

// Instruction is a decoded opcode with its two operand bytes.
// Operands past the opcode's length are ignored.
type Instruction struct {
	Code Code
	A    uint8
	B    uint8
}

// MakeInstruction creates an instruction from an opcode and operands.
func MakeInstruction(code Code, args ...uint8) (inst Instruction) {
	inst.Code = code
	if len(args) > 0 {
		inst.A = args[0]
	}
	if len(args) > 1 {
		inst.B = args[1]
	}
	return
}

// Bytes returns the encoded instruction, Len() bytes long.
func (inst Instruction) Bytes() (data []uint8) {
	data = []uint8{uint8(inst.Code), inst.A, inst.B}
	return data[:max(1, inst.Code.Len())]
}

// String returns the assembly language representation of this instruction.
func (inst Instruction) String() (out string) {
	out = inst.Code.String()
	for n, arg := range inst.Code.Args() {
		val := inst.A
		if n == 1 {
			val = inst.B
		}
		sep := " "
		if n > 0 {
			sep = ","
		}
		switch arg {
		case ARG_REG:
			out += fmt.Sprintf("%vR%d", sep, val)
		case ARG_IMM:
			out += fmt.Sprintf("%v%d", sep, val)
		}
	}

	return
}
