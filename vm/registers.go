package vm

import (
	"github.com/pkg/errors"

	"github.com/hexaflex/c8/arch"
)

// Registers defines the register file. VF doubles as the flag output
// of arithmetic, shift and draw instructions.
type Registers struct {
	V  [arch.RegisterCount]byte // General purpose registers V0-VF.
	I  uint16                   // Index register.
	PC uint16                   // Program counter.
}

// Stack holds return addresses for subroutine calls.
type Stack struct {
	frames [arch.StackDepth]uint16
	sp     int
}

// Push pushes the given return address onto the stack.
func (s *Stack) Push(addr uint16) error {
	if s.sp >= len(s.frames) {
		return errors.Wrapf(ErrStackOverflow, "depth %d", s.sp)
	}
	s.frames[s.sp] = addr
	s.sp++
	return nil
}

// Pop removes and returns the top return address.
func (s *Stack) Pop() (uint16, error) {
	if s.sp == 0 {
		return 0, ErrStackUnderflow
	}
	s.sp--
	return s.frames[s.sp], nil
}

// Depth returns the number of addresses on the stack.
func (s *Stack) Depth() int {
	return s.sp
}

// Frames returns a copy of the stack contents, bottom first.
func (s *Stack) Frames() []uint16 {
	out := make([]uint16, s.sp)
	copy(out, s.frames[:s.sp])
	return out
}

// Reset empties the stack.
func (s *Stack) Reset() {
	*s = Stack{}
}
