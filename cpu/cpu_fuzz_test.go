package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/io"
	"github.com/ezrec/ls8/memory"
)

func FuzzCpu(f *testing.F) {
	for code := range Codes() {
		f.Add(uint8(code), uint8(0), uint8(1), false)
		f.Add(uint8(code), uint8(7), uint8(8), true)
	}
	f.Add(uint8(0xff), uint8(0), uint8(0), false)

	f.Fuzz(func(t *testing.T, opcode uint8, a uint8, b uint8, flag bool) {
		assert := assert.New(t)

		inst := Instruction{Code: Code(opcode), A: a, B: b}

		cpu := NewCpu()
		cpu.Output = &io.Temporary{}
		assert.NoError(cpu.Load(make([]uint8, 0x40)))

		cpu.Pc = 0x20
		cpu.Flag = flag
		for n := range memory.REGISTERS {
			cpu.Memory.Register[n] = uint8(0x31 + n*0x11)
		}
		cpu.Stack.Push(0x1b)

		pre_reg := cpu.Memory.Register
		pre_ram := cpu.Memory.Ram
		pre_sp := cpu.Sp()
		pre_flag := cpu.Flag

		err := cpu.Execute(inst)

		if !inst.Code.Valid() {
			assert.ErrorIs(err, ErrIllegalInstruction, inst.String())
		}

		if err != nil {
			// A failed instruction changes nothing.
			assert.Equal(0x20, cpu.Pc, inst.String())
			assert.Equal(pre_reg, cpu.Memory.Register, inst.String())
			assert.Equal(pre_ram, cpu.Memory.Ram, inst.String())
			assert.Equal(pre_sp, cpu.Sp(), inst.String())
			assert.Equal(pre_flag, cpu.Flag, inst.String())
			assert.False(cpu.Halted, inst.String())
			return
		}

		// Register operands were valid.
		for n, arg := range inst.Code.Args() {
			val := a
			if n == 1 {
				val = b
			}
			if arg == ARG_REG {
				assert.Less(int(val), memory.REGISTERS, inst.String())
			}
		}

		if !inst.Code.SetsPc() {
			assert.Equal(0x20+inst.Code.Len(), cpu.Pc, inst.String())
		} else {
			assert.GreaterOrEqual(cpu.Pc, 0, inst.String())
			assert.Less(cpu.Pc, memory.SIZE, inst.String())
		}

		assert.GreaterOrEqual(cpu.Sp(), cpu.Stack.Floor, inst.String())
		assert.LessOrEqual(cpu.Sp(), STACK_TOP, inst.String())

		if inst.Code != CMP {
			assert.Equal(pre_flag, cpu.Flag, inst.String())
		}
		assert.Equal(inst.Code == HLT, cpu.Halted, inst.String())
	})
}
