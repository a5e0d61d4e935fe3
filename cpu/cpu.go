package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/io"
	"github.com/ezrec/ls8/memory"
)

var _cpu_defines = func() map[string]string {
	defines := map[string]string{
		"STACK_TOP":   fmt.Sprintf("0x%x", STACK_TOP),
		"MEMORY_SIZE": fmt.Sprintf("%v", memory.SIZE),
		"REGISTERS":   fmt.Sprintf("%v", memory.REGISTERS),
	}
	for code := range Codes() {
		defines[code.String()] = fmt.Sprintf("0x%02x", uint8(code))
	}
	return defines
}()

// Cpu is the simulation context for the LS-8 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory *memory.Memory // RAM and register bank.
	Output io.Sink        // Destination of PRN and PRA.

	Pc     int   // Program counter.
	Stack  Stack // Stack simulation; Stack.Pointer is the SP.
	Flag   bool  // Equality flag, set by CMP.
	Halted bool  // Set by HLT.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU with a zeroed memory image.
func NewCpu() (cpu *Cpu) {
	mem := memory.NewMemory()
	cpu = &Cpu{
		Memory: mem,
		Stack:  Stack{Memory: mem},
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Sp returns the stack pointer.
func (cpu *Cpu) Sp() int {
	return cpu.Stack.Pointer
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc", "sp", "fl",
		"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%02X", cpu.Pc)
		case "sp":
			strval = fmt.Sprintf("%02X", cpu.Stack.Pointer)
		case "fl":
			strval = "false"
			if cpu.Flag {
				strval = "true"
			}
		default:
			val := cpu.Memory.Register[byte(reg[1]-'0')]
			strval = fmt.Sprintf("%02X (%d)", val, val)
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Trace returns a single line summary of the state at the PC.
func (cpu *Cpu) Trace() (text string) {
	ram := func(addr int) uint8 {
		if addr < 0 || addr >= memory.SIZE {
			return 0
		}
		return cpu.Memory.Ram[addr]
	}

	text = fmt.Sprintf("TRACE: %02X | %02X %02X %02X | %v",
		cpu.Pc, ram(cpu.Pc), ram(cpu.Pc+1), ram(cpu.Pc+2), cpu.Memory.String())

	return
}

// Reset the CPU state.
// - Clears the registers and RAM.
// - Sets the PC to 0 and the SP to STACK_TOP.
// - Clears the flag and the halt state.
// - Zeros statistics counters.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Memory.Reset()
	cpu.Pc = 0
	cpu.Stack.Floor = 0
	cpu.Stack.Reset()
	cpu.Flag = false
	cpu.Halted = false
	cpu.Ticks = 0
}

// Load copies a program into RAM at address 0.
// The program may not reach into the stack region at and above STACK_TOP;
// its end becomes the stack floor.
func (cpu *Cpu) Load(program []uint8) (err error) {
	if len(program) > memory.SIZE || len(program) > STACK_TOP {
		err = ErrProgramTooLarge
		return
	}

	err = cpu.Memory.Load(0, program)
	if err != nil {
		return
	}

	cpu.Stack.Floor = len(program)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(program))
	}

	return
}

// Fetch reads the instruction at the PC.
// Both operand bytes are always read; those past the end of RAM are zero.
func (cpu *Cpu) Fetch() (inst Instruction, err error) {
	mem := cpu.Memory

	op, err := mem.Read(cpu.Pc)
	if err != nil {
		return
	}
	inst.Code = Code(op)

	if cpu.Pc+1 < memory.SIZE {
		inst.A, _ = mem.Read(cpu.Pc + 1)
	}
	if cpu.Pc+2 < memory.SIZE {
		inst.B, _ = mem.Read(cpu.Pc + 2)
	}

	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	cpu.Memory.Verbose = cpu.Verbose

	if cpu.Verbose {
		log.Print(cpu.Trace())
	}

	inst, err := cpu.Fetch()
	if err != nil {
		return
	}

	err = cpu.Execute(inst)

	return
}

// Run ticks the CPU until it halts or faults.
func (cpu *Cpu) Run() (err error) {
	for !cpu.Halted {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Execute executes a single decoded instruction at the PC.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode{Pc: cpu.Pc, Instruction: inst}, err)
		}
	}()

	length := inst.Code.Len()
	if length == 0 {
		err = ErrIllegalInstruction
		return
	}
	if cpu.Pc+length > memory.SIZE {
		err = memory.ErrAddress(memory.SIZE)
		return
	}

	mem := cpu.Memory
	a := int(inst.A)
	b := int(inst.B)

	next_pc := cpu.Pc + length

	switch inst.Code {
	case NOP:
		// pass
	case HLT:
		cpu.Halted = true
	case LDI:
		err = mem.Set(a, b)
	case LD:
		var addr uint8
		addr, err = mem.Get(b)
		if err != nil {
			return
		}
		_, err = mem.Get(a)
		if err != nil {
			return
		}
		var val uint8
		val, err = mem.Read(int(addr))
		if err != nil {
			return
		}
		err = mem.Set(a, int(val))
	case ST:
		var addr, val uint8
		addr, val, err = cpu.getPair(a, b)
		if err != nil {
			return
		}
		err = mem.Write(int(addr), int(val))
	case PRN, PRA:
		var val uint8
		val, err = mem.Get(a)
		if err != nil {
			return
		}
		if cpu.Output == nil {
			err = ErrNoOutput
			return
		}
		if inst.Code == PRN {
			err = cpu.Output.Print(val)
		} else {
			err = cpu.Output.PrintChar(val)
		}
	case ADD, SUB, MUL, DIV, MOD, AND, OR, XOR, SHL, SHR:
		var x, y uint8
		x, y, err = cpu.getPair(a, b)
		if err != nil {
			return
		}
		var val uint8
		val, err = cpu.doAlu(inst.Code, x, y)
		if err != nil {
			return
		}
		err = mem.Set(a, int(val))
	case INC, DEC, NOT:
		var x uint8
		x, err = mem.Get(a)
		if err != nil {
			return
		}
		var val uint8
		val, err = cpu.doAlu(inst.Code, x, 0)
		if err != nil {
			return
		}
		err = mem.Set(a, int(val))
	case CMP:
		var x, y uint8
		x, y, err = cpu.getPair(a, b)
		if err != nil {
			return
		}
		cpu.Flag = x == y
	case PUSH:
		var val uint8
		val, err = mem.Get(a)
		if err != nil {
			return
		}
		err = cpu.Stack.Push(val)
	case POP:
		// Validate the destination before the stack moves.
		_, err = mem.Get(a)
		if err != nil {
			return
		}
		var val uint8
		val, err = cpu.Stack.Pop()
		if err != nil {
			return
		}
		err = mem.Set(a, int(val))
	case CALL:
		var target uint8
		target, err = mem.Get(a)
		if err != nil {
			return
		}
		err = cpu.Stack.Push(uint8(next_pc))
		if err != nil {
			return
		}
		next_pc = int(target)
	case RET:
		var target uint8
		target, err = cpu.Stack.Pop()
		if err != nil {
			return
		}
		next_pc = int(target)
	case JMP, JEQ, JNE:
		var target uint8
		target, err = mem.Get(a)
		if err != nil {
			return
		}
		switch {
		case inst.Code == JMP,
			inst.Code == JEQ && cpu.Flag,
			inst.Code == JNE && !cpu.Flag:
			next_pc = int(target)
		}
	default:
		err = ErrIllegalInstruction
	}

	if err != nil {
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks++

	return
}

// getPair returns the values of two registers.
func (cpu *Cpu) getPair(a, b int) (x, y uint8, err error) {
	x, err = cpu.Memory.Get(a)
	if err != nil {
		return
	}
	y, err = cpu.Memory.Get(b)
	return
}

// doAlu performs the requested ALU action, and returns the output value.
// Results wrap modulo 256.
func (cpu *Cpu) doAlu(op Code, input uint8, value uint8) (output uint8, err error) {
	switch op {
	case ADD:
		output = input + value
	case SUB:
		output = input - value
	case MUL:
		output = input * value
	case DIV, MOD:
		if value == 0 {
			err = ErrDivideByZero
			return
		}
		if op == DIV {
			output = input / value
		} else {
			output = input % value
		}
	case AND:
		output = input & value
	case OR:
		output = input | value
	case XOR:
		output = input ^ value
	case SHL:
		output = input << (value & 7)
	case SHR:
		output = input >> (value & 7)
	case INC:
		output = input + 1
	case DEC:
		output = input - 1
	case NOT:
		output = ^input
	default:
		err = ErrIllegalInstruction
	}

	return
}
