package cpu

import "fmt"

// Kind separates instructions that may load PC from those that never do.
type Kind uint8

const (
	Normal Kind = iota
	Jump
)

// Condition gates a conditional branch.
type Condition uint8

const (
	Always Condition = iota
	NZ
	Z
	NC
	CY
)

var condNames = [4]string{"NZ", "Z", "NC", "C"}

type handler func(c *CPU, m Memory)

// Instruction describes one entry of the 512-entry opcode table.
type Instruction struct {
	Opcode         uint16 // 0x000-0x0FF base, 0x100-0x1FF CB-prefixed
	Mnemonic       string
	Size           uint8
	Cycles         uint8 // t-cycles, branch taken
	CyclesNotTaken uint8 // t-cycles, conditional branch not taken
	Kind           Kind
	Cond           Condition

	exec  handler
	fault error
}

// Cost returns the t-cycles charged for the given branch outcome.
func (in *Instruction) Cost(taken bool) int {
	if taken {
		return int(in.Cycles)
	}
	return int(in.CyclesNotTaken)
}

// Lookup returns the table entry for index op (0x000-0x1FF).
func Lookup(op uint16) *Instruction { return &table[op&0x1FF] }

var table = buildTable()

func buildTable() (t [512]Instruction) {
	def := func(op uint16, mnemonic string, size, cycles uint8, exec handler) {
		t[op] = Instruction{Opcode: op, Mnemonic: mnemonic, Size: size, Cycles: cycles, CyclesNotTaken: cycles, exec: exec}
	}
	jump := func(op uint16, mnemonic string, size, cycles, notTaken uint8, cond Condition, exec handler) {
		t[op] = Instruction{Opcode: op, Mnemonic: mnemonic, Size: size, Cycles: cycles, CyclesNotTaken: notTaken, Kind: Jump, Cond: cond, exec: exec}
	}
	bad := func(op uint16, mnemonic string, err error) {
		t[op] = Instruction{Opcode: op, Mnemonic: mnemonic, Size: 1, Cycles: 4, CyclesNotTaken: 4, fault: err}
	}

	def(0x00, "NOP", 1, 4, func(c *CPU, m Memory) {})
	def(0x08, "LD (a16),SP", 3, 20, func(c *CPU, m Memory) {
		addr := c.imm16(m)
		m.Write(addr, byte(c.SP))
		m.Write(addr+1, byte(c.SP>>8))
	})
	bad(0x10, "STOP", ErrUnimplementedOpcode)
	bad(0x27, "DAA", ErrUnimplementedOpcode)
	bad(0x76, "HALT", ErrUnimplementedOpcode)
	for _, op := range []uint16{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD} {
		bad(op, fmt.Sprintf("ILLEGAL_%02X", op), ErrIllegalOpcode)
	}

	// 16-bit loads and arithmetic
	for i := byte(0); i < 4; i++ {
		base := uint16(i) << 4
		rp := rpNames[i]
		def(base|0x01, "LD "+rp+",d16", 3, 12, func(c *CPU, m Memory) { c.setReg16(i, c.imm16(m)) })
		def(base|0x03, "INC "+rp, 1, 8, func(c *CPU, m Memory) { c.setReg16(i, c.reg16(i)+1) })
		def(base|0x0B, "DEC "+rp, 1, 8, func(c *CPU, m Memory) { c.setReg16(i, c.reg16(i)-1) })
		def(base|0x09, "ADD HL,"+rp, 1, 8, func(c *CPU, m Memory) { c.addHL(c.reg16(i)) })
	}

	// Indirect accumulator loads
	def(0x02, "LD (BC),A", 1, 8, func(c *CPU, m Memory) { m.Write(c.BC.Word(), c.AF.Hi) })
	def(0x12, "LD (DE),A", 1, 8, func(c *CPU, m Memory) { m.Write(c.DE.Word(), c.AF.Hi) })
	def(0x22, "LD (HL+),A", 1, 8, func(c *CPU, m Memory) {
		hl := c.HL.Word()
		m.Write(hl, c.AF.Hi)
		c.HL.SetWord(hl + 1)
	})
	def(0x32, "LD (HL-),A", 1, 8, func(c *CPU, m Memory) {
		hl := c.HL.Word()
		m.Write(hl, c.AF.Hi)
		c.HL.SetWord(hl - 1)
	})
	def(0x0A, "LD A,(BC)", 1, 8, func(c *CPU, m Memory) { c.AF.Hi = m.Read(c.BC.Word()) })
	def(0x1A, "LD A,(DE)", 1, 8, func(c *CPU, m Memory) { c.AF.Hi = m.Read(c.DE.Word()) })
	def(0x2A, "LD A,(HL+)", 1, 8, func(c *CPU, m Memory) {
		hl := c.HL.Word()
		c.AF.Hi = m.Read(hl)
		c.HL.SetWord(hl + 1)
	})
	def(0x3A, "LD A,(HL-)", 1, 8, func(c *CPU, m Memory) {
		hl := c.HL.Word()
		c.AF.Hi = m.Read(hl)
		c.HL.SetWord(hl - 1)
	})

	// 8-bit INC/DEC/LD d8
	for r := byte(0); r < 8; r++ {
		base := uint16(r) << 3
		name := r8Names[r]
		var extra uint8
		if r == regHLInd {
			extra = 8
		}
		def(base|0x04, "INC "+name, 1, 4+extra, func(c *CPU, m Memory) { c.setReg8(m, r, c.inc8(c.reg8(m, r))) })
		def(base|0x05, "DEC "+name, 1, 4+extra, func(c *CPU, m Memory) { c.setReg8(m, r, c.dec8(c.reg8(m, r))) })
		def(base|0x06, "LD "+name+",d8", 2, 8+extra/2, func(c *CPU, m Memory) { c.setReg8(m, r, c.imm8(m)) })
	}

	// Accumulator rotates and flag ops
	for i, op := range []uint16{0x07, 0x0F, 0x17, 0x1F} {
		kind := byte(i)
		def(op, rotNames[kind]+"A", 1, 4, func(c *CPU, m Memory) { c.rotA(kind) })
	}
	def(0x2F, "CPL", 1, 4, func(c *CPU, m Memory) {
		c.AF.Hi = ^c.AF.Hi
		c.AF.Lo |= flagN | flagH
	})
	def(0x37, "SCF", 1, 4, func(c *CPU, m Memory) { c.setZNHC(c.FlagZ(), false, false, true) })
	def(0x3F, "CCF", 1, 4, func(c *CPU, m Memory) { c.setZNHC(c.FlagZ(), false, false, !c.FlagC()) })

	// Relative jumps
	jump(0x18, "JR r8", 2, 12, 12, Always, (*CPU).jr)
	for i := byte(0); i < 4; i++ {
		jump(0x20|uint16(i)<<3, "JR "+condNames[i]+",r8", 2, 12, 8, Condition(i+1), (*CPU).jr)
	}

	// LD r,r' block (0x76 is HALT, set above)
	for op := uint16(0x40); op < 0x80; op++ {
		if op == 0x76 {
			continue
		}
		dst, src := byte(op>>3)&7, byte(op)&7
		cycles := uint8(4)
		if dst == regHLInd || src == regHLInd {
			cycles = 8
		}
		def(op, "LD "+r8Names[dst]+","+r8Names[src], 1, cycles, func(c *CPU, m Memory) { c.setReg8(m, dst, c.reg8(m, src)) })
	}

	// ALU A,r block and immediate forms
	for op := uint16(0x80); op < 0xC0; op++ {
		kind, src := byte(op>>3)&7, byte(op)&7
		cycles := uint8(4)
		if src == regHLInd {
			cycles = 8
		}
		def(op, aluNames[kind]+r8Names[src], 1, cycles, func(c *CPU, m Memory) { c.alu(kind, c.reg8(m, src)) })
	}
	for kind := byte(0); kind < 8; kind++ {
		def(0xC6|uint16(kind)<<3, aluNames[kind]+"d8", 2, 8, func(c *CPU, m Memory) { c.alu(kind, c.imm8(m)) })
	}

	// Stack, calls, returns, absolute jumps
	for i := byte(0); i < 4; i++ {
		base := 0xC0 | uint16(i)<<4
		def(base|0x01, "POP "+stackNames[i], 1, 12, func(c *CPU, m Memory) { c.setStackReg(i, c.pop(m)) })
		def(base|0x05, "PUSH "+stackNames[i], 1, 16, func(c *CPU, m Memory) { c.push(m, c.stackReg(i)) })
		cc := 0xC0 | uint16(i)<<3
		cond := Condition(i + 1)
		jump(cc|0x00, "RET "+condNames[i], 1, 20, 8, cond, (*CPU).ret)
		jump(cc|0x02, "JP "+condNames[i]+",a16", 3, 16, 12, cond, (*CPU).jp)
		jump(cc|0x04, "CALL "+condNames[i]+",a16", 3, 24, 12, cond, (*CPU).call)
	}
	jump(0xC3, "JP a16", 3, 16, 16, Always, (*CPU).jp)
	jump(0xCD, "CALL a16", 3, 24, 24, Always, (*CPU).call)
	jump(0xC9, "RET", 1, 16, 16, Always, (*CPU).ret)
	jump(0xD9, "RETI", 1, 16, 16, Always, func(c *CPU, m Memory) {
		c.ret(m)
		c.imePending = true
	})
	jump(0xE9, "JP (HL)", 1, 4, 4, Always, func(c *CPU, m Memory) { c.jumpTo(c.HL.Word()) })
	for i := uint16(0); i < 8; i++ {
		vector := i * 8
		jump(0xC7|i<<3, fmt.Sprintf("RST %02XH", vector), 1, 16, 16, Always, func(c *CPU, m Memory) {
			c.push(m, c.PC+1)
			c.jumpTo(vector)
		})
	}

	// High-page and absolute loads
	def(0xE0, "LDH (a8),A", 2, 12, func(c *CPU, m Memory) { m.Write(0xFF00|uint16(c.imm8(m)), c.AF.Hi) })
	def(0xF0, "LDH A,(a8)", 2, 12, func(c *CPU, m Memory) { c.AF.Hi = m.Read(0xFF00 | uint16(c.imm8(m))) })
	def(0xE2, "LD (C),A", 1, 8, func(c *CPU, m Memory) { m.Write(0xFF00|uint16(c.BC.Lo), c.AF.Hi) })
	def(0xF2, "LD A,(C)", 1, 8, func(c *CPU, m Memory) { c.AF.Hi = m.Read(0xFF00 | uint16(c.BC.Lo)) })
	def(0xEA, "LD (a16),A", 3, 16, func(c *CPU, m Memory) { m.Write(c.imm16(m), c.AF.Hi) })
	def(0xFA, "LD A,(a16)", 3, 16, func(c *CPU, m Memory) { c.AF.Hi = m.Read(c.imm16(m)) })

	// SP arithmetic
	def(0xE8, "ADD SP,r8", 2, 16, func(c *CPU, m Memory) { c.SP = c.addSPSigned(c.imm8(m)) })
	def(0xF8, "LD HL,SP+r8", 2, 12, func(c *CPU, m Memory) { c.HL.SetWord(c.addSPSigned(c.imm8(m))) })
	def(0xF9, "LD SP,HL", 1, 8, func(c *CPU, m Memory) { c.SP = c.HL.Word() })

	// Interrupt control and prefix
	def(0xF3, "DI", 1, 4, func(c *CPU, m Memory) {
		c.IME = false
		c.imePending = false
	})
	def(0xFB, "EI", 1, 4, func(c *CPU, m Memory) { c.imePending = true })
	def(0xCB, "PREFIX CB", 1, 4, func(c *CPU, m Memory) { c.prefixCB = true })

	// CB page: the prefix byte already paid 4 t-cycles.
	for op := 0; op < 256; op++ {
		group, y, r := byte(op>>6), byte(op>>3)&7, byte(op)&7
		idx := 0x100 | uint16(op)
		cycles := uint8(4)
		if r == regHLInd {
			cycles = 12
			if group == 1 {
				cycles = 8
			}
		}
		name := r8Names[r]
		switch group {
		case 0:
			def(idx, rotNames[y]+" "+name, 1, cycles, func(c *CPU, m Memory) { c.setReg8(m, r, c.rot(y, c.reg8(m, r))) })
		case 1:
			def(idx, fmt.Sprintf("BIT %d,%s", y, name), 1, cycles, func(c *CPU, m Memory) {
				set := c.reg8(m, r)&(1<<y) != 0
				c.setZNHC(!set, false, true, c.FlagC())
			})
		case 2:
			def(idx, fmt.Sprintf("RES %d,%s", y, name), 1, cycles, func(c *CPU, m Memory) { c.setReg8(m, r, c.reg8(m, r)&^(1<<y)) })
		case 3:
			def(idx, fmt.Sprintf("SET %d,%s", y, name), 1, cycles, func(c *CPU, m Memory) { c.setReg8(m, r, c.reg8(m, r)|1<<y) })
		}
	}

	for op := range t {
		if t[op].Mnemonic == "" {
			panic(fmt.Sprintf("cpu: opcode %#03x missing from table", op))
		}
	}
	return t
}
