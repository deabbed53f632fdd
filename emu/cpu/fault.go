package cpu

import (
	"errors"
	"fmt"

	"github.com/beanboi7/chyp8/emu/opcode"
)

// Resource bound violations. The machine has no memory protection, these
// are reported instead of wrapping or corrupting state.
var (
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrMemoryBounds   = errors.New("memory access out of bounds")
)

// Fault is returned by Step and Execute when an instruction can not complete,
// either because it violates a resource bound or because the input device was
// shut down during a key wait. The instruction has no effect besides the
// timer update and the program counter advance that precede it.
type Fault struct {
	PC          uint16 // address of the faulting instruction
	Instruction opcode.Instruction
	Err         error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s at $%03X: %v", f.Instruction, f.PC, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}
