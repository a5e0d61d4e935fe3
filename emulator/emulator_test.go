package emulator

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/memory"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Program)
	assert.Equal(&emu.Tape, emu.Cpu.Output)
	assert.Equal(0, emu.LineNo())
}

func TestEmulator_Defines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}

	assert.Equal("244", defines["PROGRAM_MAX"])
	assert.Equal("0xf4", defines["STACK_TOP"])
	assert.Equal("0x82", defines["LDI"])
	assert.Equal("0x47", defines["PRN"])
}

func doRun(emu *Emulator, program []string, t *testing.T) (output string, err error) {
	assert := assert.New(t)

	err = emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		return
	}

	err = emu.Reset()
	if err != nil {
		return
	}

	tape_output := &bytes.Buffer{}
	emu.Tape.Output = tape_output

	err = emu.Run(context.Background())
	if err == nil {
		assert.True(emu.Cpu.Halted)
	}

	output = tape_output.String()
	return
}

func TestEmulator_Print8(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"# print8.ls8",
		"10000010 # LDI R0,8",
		"00000000",
		"00001000",
		"01000111 # PRN R0",
		"00000000",
		"00000001 # HLT",
	}

	emu := NewEmulator()
	output, err := doRun(emu, program, t)
	assert.NoError(err)
	assert.Equal("8\n", output)
	assert.Equal(3, emu.Ticks())
	assert.Equal(1, emu.Tape.Lines)
}

func TestEmulator_Mult(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"10000010 # LDI R0,8",
		"00000000",
		"00001000",
		"10000010 # LDI R1,9",
		"00000001",
		"00001001",
		"10100010 # MUL R0,R1",
		"00000000",
		"00000001",
		"01000111 # PRN R0",
		"00000000",
		"00000001 # HLT",
	}

	emu := NewEmulator()
	output, err := doRun(emu, program, t)
	assert.NoError(err)
	assert.Equal("72\n", output)
}

func TestEmulator_Call(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"LDI R1,mult2print",
		"LDI R0,10",
		"CALL R1",
		"LDI R0,15",
		"CALL R1",
		"LDI R0,18",
		"CALL R1",
		"LDI R0,30",
		"CALL R1",
		"HLT",
		"",
		"mult2print:",
		"  ADD R0,R0",
		"  PRN R0",
		"  RET",
	}

	emu := NewEmulator()
	output, err := doRun(emu, program, t)
	assert.NoError(err)
	assert.Equal("20\n30\n36\n60\n", output)
	assert.Equal(cpu.STACK_TOP, emu.Sp())
}

func TestEmulator_Stack(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"LDI R0,1",
		"LDI R1,2",
		"PUSH R0",
		"PUSH R1",
		"LDI R0,3",
		"POP R0",
		"PRN R0",
		"POP R0",
		"PRN R0",
		"HLT",
	}

	emu := NewEmulator()
	output, err := doRun(emu, program, t)
	assert.NoError(err)
	assert.Equal("2\n1\n", output)
}

func TestEmulator_Loop(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		".equ COUNT 5",
		"LDI R0,0",
		"LDI R1,COUNT",
		"LDI R2,loop",
		"LDI R3,end",
		"loop:",
		"CMP R0,R1",
		"JEQ R3",
		"PRN R0",
		"INC R0",
		"JMP R2",
		"end: HLT",
	}

	emu := NewEmulator()
	output, err := doRun(emu, program, t)
	assert.NoError(err)
	assert.Equal("0\n1\n2\n3\n4\n", output)

	// Reset reloads the same program.
	output, err = doRun(emu, program, t)
	assert.NoError(err)
	assert.Equal("0\n1\n2\n3\n4\n", output)
}

func TestEmulator_PrintChar(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"LDI R0,$(ord('H'))",
		"PRA R0",
		"LDI R0,0x69",
		"PRA R0",
		"HLT",
	}

	emu := NewEmulator()
	output, err := doRun(emu, program, t)
	assert.NoError(err)
	assert.Equal("Hi", output)
	assert.Equal(2, emu.Tape.Chars)
}

func TestEmulator_Tick(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"LDI R0,8",
		"",
		"PRN R0",
		"HLT",
	}

	emu := NewEmulator()
	err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	err = emu.Reset()
	assert.NoError(err)
	emu.Tape.Output = &bytes.Buffer{}

	for _, line := range []int{1, 3, 4} {
		assert.Equal(line, emu.LineNo())
		done, err := emu.Tick()
		assert.NoError(err)
		assert.Equal(line == 4, done)
	}

	// Ticking a halted emulator stays done.
	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(3, emu.Ticks())
}

func TestEmulator_RuntimeError(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		program []string
		lineno  int
		address int
		err     error
	}){
		{[]string{"LDI R0,1", "LDI R1,0", "# divide", "DIV R0,R1", "HLT"}, 4, 6, cpu.ErrDivideByZero},
		{[]string{"NOP", "RET"}, 2, 1, cpu.ErrStackEmpty},
		{[]string{"NOP", ".byte 0xff"}, 2, 1, cpu.ErrIllegalInstruction},
		{[]string{"LDI R0,5", "JMP R0", ".byte 0x82 9 0"}, 3, 5, memory.ErrInvalidRegister},
	}

	for _, entry := range table {
		emu := NewEmulator()
		_, err := doRun(emu, entry.program, t)
		assert.ErrorIs(err, entry.err, entry.program)
		assert.ErrorIs(err, cpu.ErrOpcode{}, entry.program)
		var re *ErrRuntime
		if assert.True(errors.As(err, &re), entry.program) {
			assert.Equal(entry.lineno, re.LineNo, entry.program)
			assert.Equal(entry.address, re.Address, entry.program)
		}
	}
}

func TestEmulator_StepLimit(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"forever: LDI R0,forever",
		"JMP R0",
	}

	emu := NewEmulator()
	emu.StepLimit = 100
	_, err := doRun(emu, program, t)
	assert.ErrorIs(err, ErrStepLimit)
	assert.Equal(100, emu.Ticks())

	var re *ErrRuntime
	if assert.True(errors.As(err, &re)) {
		assert.Equal(1, re.LineNo)
		assert.Equal(0, re.Address)
	}
}

func TestEmulator_Cancel(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	err := emu.Assemble(strings.NewReader("forever: LDI R0,forever\nJMP R0\n"))
	assert.NoError(err)
	err = emu.Reset()
	assert.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = emu.Run(ctx)
	assert.ErrorIs(err, context.Canceled)
	assert.Equal(0, emu.Ticks())
}

func TestEmulator_Lenient(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"LDI R0,7",
		"garbage here",
		"PRN R0",
		"HLT",
	}

	emu := NewEmulator()
	_, err := doRun(emu, program, t)
	assert.ErrorIs(err, cpu.ErrInstructionInvalid)

	emu.Lenient = true
	output, err := doRun(emu, program, t)
	assert.NoError(err)
	assert.Equal("7\n", output)
}

func TestEmulator_ProgramTooLarge(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	err := emu.Assemble(strings.NewReader(strings.Repeat("NOP\n", cpu.STACK_TOP+1)))
	assert.NoError(err)

	err = emu.Reset()
	assert.ErrorIs(err, cpu.ErrProgramTooLarge)
}

func TestEmulator_NoOutput(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	err := emu.Assemble(strings.NewReader("PRN R0\nHLT\n"))
	assert.NoError(err)
	err = emu.Reset()
	assert.NoError(err)

	emu.Tape.Output = nil
	err = emu.Run(context.Background())
	assert.Error(err)
	var re *ErrRuntime
	if assert.True(errors.As(err, &re)) {
		assert.Equal(1, re.LineNo)
	}
}
