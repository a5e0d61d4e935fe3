package cpu

import (
	"github.com/ezrec/ls8/memory"
)

const (
	STACK_TOP = 0xf4 // Initial stack pointer; the stack grows down from here.
)

// Stack is the machine stack, kept in RAM between Floor and STACK_TOP.
type Stack struct {
	Memory  *memory.Memory
	Pointer int // Stack pointer (SP), address of the top item.
	Floor   int // Lowest address the stack may write.
}

// Push decrements the pointer and stores value at the new top.
func (s *Stack) Push(value uint8) (err error) {
	if s.Full() {
		err = ErrStackFull
		return
	}

	err = s.Memory.Write(s.Pointer-1, int(value))
	if err != nil {
		return
	}

	s.Pointer--
	return
}

// Pop loads the top item and increments the pointer.
func (s *Stack) Pop() (value uint8, err error) {
	if s.Empty() {
		err = ErrStackEmpty
		return
	}

	value, err = s.Memory.Read(s.Pointer)
	if err != nil {
		return
	}

	s.Pointer++
	return
}

// Empty returns true if nothing has been pushed.
func (s *Stack) Empty() bool {
	return s.Pointer >= STACK_TOP
}

// Full returns true if a push would overwrite memory below Floor.
func (s *Stack) Full() bool {
	return s.Pointer <= s.Floor
}

// Depth returns the number of bytes on the stack.
func (s *Stack) Depth() int {
	return max(0, STACK_TOP-s.Pointer)
}

// Peek returns the top item without removing it.
func (s *Stack) Peek() (value uint8, ok bool) {
	if s.Empty() || s.Pointer < 0 {
		return
	}

	return s.Memory.Ram[s.Pointer], true
}

// Reset empties the stack. The floor is kept.
func (s *Stack) Reset() {
	s.Pointer = STACK_TOP
}
