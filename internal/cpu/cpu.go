// Package cpu implements the SM83 instruction engine: register file,
// 512-entry opcode table and t-cycle stepping.
package cpu

import (
	"fmt"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bits"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"
)

// Memory is the narrow bus view the CPU needs for one step.
type Memory interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// CPU holds the register file and the progress of the instruction in flight.
type CPU struct {
	AF, BC, DE, HL Pair

	SP uint16
	PC uint16

	IME bool
	// EI/RETI set this; IME follows after the next instruction retires
	imePending bool

	// ClockCycles counts every t-cycle consumed since power on.
	ClockCycles uint64

	prefixCB bool

	cur            *Instruction
	instCycleCount int
	instLength     int
	taken          bool
	branchTaken    bool
	intBit         uint
}

// New creates a CPU in the power-on state used when a boot ROM runs from 0x0000.
func New() *CPU {
	return &CPU{SP: 0xFFFE}
}

// ResetNoBoot sets registers to typical DMG post-boot state.
// Useful when running without a boot ROM.
func (c *CPU) ResetNoBoot() {
	c.AF.SetWord(0x01B0)
	c.BC.SetWord(0x0013)
	c.DE.SetWord(0x00D8)
	c.HL.SetWord(0x014D)
	c.SP = 0xFFFE
	c.PC = 0x0100
	c.IME = false
	c.imePending = false
	c.prefixCB = false
	c.cur = nil
	c.instCycleCount = 0
}

// PrefixCB reports whether the next decode reads the CB page.
func (c *CPU) PrefixCB() bool { return c.prefixCB }

// IMEPending reports whether an EI/RETI enable is waiting for the next instruction to retire.
func (c *CPU) IMEPending() bool { return c.imePending }

// InstCycleCount is the number of ticks already spent on the instruction in flight.
func (c *CPU) InstCycleCount() int { return c.instCycleCount }

// BranchTaken reports whether the last retired instruction loaded PC itself.
func (c *CPU) BranchTaken() bool { return c.branchTaken }

// Decode returns the table entry for the byte at PC, on the CB page when a
// prefix is pending.
func (c *CPU) Decode(m Memory) *Instruction {
	op := uint16(m.Read(c.PC))
	if c.prefixCB {
		op |= 0x100
	}
	return &table[op]
}

// Instruction runs TCycle until the instruction in flight retires and returns
// the t-cycles it consumed.
func (c *CPU) Instruction(m Memory) (int, error) {
	start := c.ClockCycles
	for {
		if err := c.TCycle(m); err != nil {
			return int(c.ClockCycles - start), err
		}
		if c.instCycleCount == 0 {
			return int(c.ClockCycles - start), nil
		}
	}
}

// TCycle advances one 2^22 Hz tick. Register, memory and flag effects land on
// the last tick of the instruction; earlier ticks only count.
func (c *CPU) TCycle(m Memory) error {
	if c.instCycleCount == 0 {
		if err := c.begin(m); err != nil {
			return err
		}
	}
	c.instCycleCount++
	c.ClockCycles++
	if c.instCycleCount < c.instLength {
		return nil
	}
	c.commit(m)
	c.instCycleCount = 0
	return nil
}

func (c *CPU) begin(m Memory) error {
	if !c.prefixCB && c.IME {
		if pending := m.Read(bus.IE) & m.Read(bus.IF) & 0x1F; pending != 0 {
			for c.intBit = 0; !bits.Test(pending, c.intBit); c.intBit++ {
			}
			c.cur = &interruptDispatch
			c.taken = true
			c.instLength = c.cur.Cost(true)
			return nil
		}
	}
	in := c.Decode(m)
	c.prefixCB = false
	if in.fault != nil {
		return &OpcodeError{PC: c.PC, Opcode: in.Opcode, Mnemonic: in.Mnemonic, Err: in.fault}
	}
	c.cur = in
	c.taken = in.Cond == Always || c.condition(in.Cond)
	c.instLength = in.Cost(c.taken)
	return nil
}

func (c *CPU) commit(m Memory) {
	enable := c.imePending
	in := c.cur
	c.branchTaken = false
	if c.taken {
		in.exec(c, m)
	}
	if !c.branchTaken {
		c.PC += uint16(in.Size)
	}
	if enable && c.imePending {
		c.IME = true
		c.imePending = false
	}
}

// interruptDispatch is the 20 t-cycle pseudo-instruction that vectors to a
// pending interrupt. intBit is chosen when it begins.
var interruptDispatch = Instruction{
	Opcode:         0x200,
	Mnemonic:       "INT",
	Cycles:         20,
	CyclesNotTaken: 20,
	Kind:           Jump,
	exec: func(c *CPU, m Memory) {
		m.Write(bus.IF, bits.Clear(m.Read(bus.IF), c.intBit))
		c.IME = false
		c.push(m, c.PC)
		c.jumpTo(0x40 + uint16(c.intBit)*8)
	},
}

func (c *CPU) condition(cc Condition) bool {
	switch cc {
	case NZ:
		return !c.FlagZ()
	case Z:
		return c.FlagZ()
	case NC:
		return !c.FlagC()
	case CY:
		return c.FlagC()
	default:
		return true
	}
}

func (c *CPU) imm8(m Memory) byte { return m.Read(c.PC + 1) }

func (c *CPU) imm16(m Memory) uint16 { return bits.Word(m.Read(c.PC+2), m.Read(c.PC+1)) }

func (c *CPU) push(m Memory, v uint16) {
	c.SP -= 2
	m.Write(c.SP, bits.Lo(v))
	m.Write(c.SP+1, bits.Hi(v))
}

func (c *CPU) pop(m Memory) uint16 {
	v := bits.Word(m.Read(c.SP+1), m.Read(c.SP))
	c.SP += 2
	return v
}

func (c *CPU) jumpTo(addr uint16) {
	c.PC = addr
	c.branchTaken = true
}

// jr targets the address after the 2-byte instruction plus the signed offset.
func (c *CPU) jr(m Memory) {
	off := int8(c.imm8(m))
	c.jumpTo(uint16(int32(c.PC) + 2 + int32(off)))
}

func (c *CPU) jp(m Memory) { c.jumpTo(c.imm16(m)) }

func (c *CPU) call(m Memory) {
	c.push(m, c.PC+3)
	c.jumpTo(c.imm16(m))
}

func (c *CPU) ret(m Memory) { c.jumpTo(c.pop(m)) }

func (c *CPU) String() string {
	return fmt.Sprintf("AF=%04X BC=%04X DE=%04X HL=%04X SP=%04X PC=%04X IME=%t CYC=%d",
		c.AF.Word(), c.BC.Word(), c.DE.Word(), c.HL.Word(), c.SP, c.PC, c.IME, c.ClockCycles)
}
