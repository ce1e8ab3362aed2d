package cpu

import (
	"errors"
	"fmt"
)

// Architecture-level errors. A cycle returning one of these (wrapped in a
// *Fault) leaves partially applied instruction effects undefined; callers
// should treat the current program run as failed.
var (
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrInvalidFont    = errors.New("invalid font digit")
	ErrPCOutOfRange   = errors.New("program counter out of range")
	ErrInvalidKey     = errors.New("invalid key code")
)

// Fault describes an aborted cycle.
type Fault struct {
	PC     uint16 // address the instruction was fetched from
	Opcode uint16 // zero when the fetch itself failed
	Err    error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("pc=%03X op=%04X: %v", f.PC, f.Opcode, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }
