package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalOpcode marks opcodes that do not exist in silicon.
	ErrIllegalOpcode = errors.New("illegal opcode")
	// ErrUnimplementedOpcode marks real opcodes (DAA, STOP, HALT) this core does not execute.
	ErrUnimplementedOpcode = errors.New("unimplemented opcode")
)

// OpcodeError reports a fatal decode. Opcode is a table index: 0x100-0x1FF
// are CB-prefixed.
type OpcodeError struct {
	PC       uint16
	Opcode   uint16
	Mnemonic string
	Err      error
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("cpu: %v %s (opcode %#03x) at PC=%04X", e.Err, e.Mnemonic, e.Opcode, e.PC)
}

func (e *OpcodeError) Unwrap() error { return e.Err }

// Prefixed reports whether the opcode came from the CB page.
func (e *OpcodeError) Prefixed() bool { return e.Opcode >= 0x100 }
