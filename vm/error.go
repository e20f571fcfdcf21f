package vm

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/hexaflex/c8/arch"
)

// Error kinds. Executor faults wrap one of these and can be
// classified with errors.Is or errors.Cause.
var (
	ErrMemoryFault    = errors.New("memory fault")
	ErrUnknownOpcode  = errors.New("unknown opcode")
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrLoad           = errors.New("program does not fit in memory")
)

// Fault defines a fatal runtime error. It records the address and
// instruction that caused it. A machine that faulted stays halted
// until it is reset.
type Fault struct {
	PC          uint16           // Address of the faulting instruction.
	Instruction arch.Instruction // Instruction being executed, if it could be fetched.
	Err         error            // Underlying error kind.
}

// NewFault creates a new fault for the instruction at the given address.
func NewFault(pc uint16, instr arch.Instruction, err error) *Fault {
	return &Fault{
		PC:          pc,
		Instruction: instr,
		Err:         err,
	}
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%03x: %04x: %v", f.PC, f.Instruction.Word, f.Err)
}

// Cause returns the underlying error kind for errors.Cause.
func (f *Fault) Cause() error {
	return errors.Cause(f.Err)
}

// Unwrap returns the wrapped error for errors.Is and errors.As.
func (f *Fault) Unwrap() error {
	return f.Err
}

func memoryFault(addr int) error {
	return errors.Wrapf(ErrMemoryFault, "address %04x", addr)
}
