package cpu

import "github.com/FabianRolfMatthiasNoll/gbcore/internal/bits"

func add8(a, b, carryIn byte) (res byte, z, n, h, cy bool) {
	r := uint16(a) + uint16(b) + uint16(carryIn)
	res = byte(r)
	return res, res == 0, false, bits.HalfCarryAdd(a, b, carryIn), r > 0xFF
}

func sub8(a, b, carryIn byte) (res byte, z, n, h, cy bool) {
	r := int16(a) - int16(b) - int16(carryIn)
	res = byte(r)
	return res, res == 0, true, bits.HalfBorrowSub(a, b, carryIn), r < 0
}

// aluNames is the order of the 3-bit operation field in 0x80-0xBF and the d8 forms.
var aluNames = [8]string{"ADD A,", "ADC A,", "SUB ", "SBC A,", "AND ", "XOR ", "OR ", "CP "}

// alu applies operation op (aluNames order) to A and v.
func (c *CPU) alu(op, v byte) {
	a := c.AF.Hi
	var (
		r           byte
		z, n, h, cy bool
	)
	switch op {
	case 0:
		r, z, n, h, cy = add8(a, v, 0)
	case 1:
		r, z, n, h, cy = add8(a, v, c.carry())
	case 2, 7:
		r, z, n, h, cy = sub8(a, v, 0)
	case 3:
		r, z, n, h, cy = sub8(a, v, c.carry())
	case 4:
		r = a & v
		z, h = r == 0, true
	case 5:
		r = a ^ v
		z = r == 0
	case 6:
		r = a | v
		z = r == 0
	}
	c.setZNHC(z, n, h, cy)
	if op != 7 { // CP only compares
		c.AF.Hi = r
	}
}

func (c *CPU) inc8(v byte) byte {
	r := v + 1
	c.setZNHC(r == 0, false, v&0x0F == 0x0F, c.FlagC())
	return r
}

func (c *CPU) dec8(v byte) byte {
	r := v - 1
	c.setZNHC(r == 0, true, v&0x0F == 0x00, c.FlagC())
	return r
}

// addHL adds v to HL; Z is left untouched.
func (c *CPU) addHL(v uint16) {
	hl := c.HL.Word()
	r := uint32(hl) + uint32(v)
	c.setZNHC(c.FlagZ(), false, (hl&0x0FFF)+(v&0x0FFF) > 0x0FFF, r > 0xFFFF)
	c.HL.SetWord(uint16(r))
}

// addSPSigned returns SP+off with H and C computed on the low byte only.
func (c *CPU) addSPSigned(off byte) uint16 {
	sp := c.SP
	low := bits.Lo(sp)
	c.setZNHC(false, false, bits.HalfCarryAdd(low, off, 0), uint16(low)+uint16(off) > 0xFF)
	return uint16(int32(sp) + int32(int8(off)))
}

// rotNames is the order of the 3-bit operation field in CB 0x00-0x3F.
var rotNames = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SWAP", "SRL"}

// rot applies rotate/shift op (rotNames order) to v and sets Z,N,H,C.
func (c *CPU) rot(op, v byte) byte {
	var r, out byte
	switch op {
	case 0: // RLC
		out = v >> 7
		r = v<<1 | out
	case 1: // RRC
		out = v & 1
		r = v>>1 | out<<7
	case 2: // RL
		out = v >> 7
		r = v<<1 | c.carry()
	case 3: // RR
		out = v & 1
		r = v>>1 | c.carry()<<7
	case 4: // SLA
		out = v >> 7
		r = v << 1
	case 5: // SRA
		out = v & 1
		r = v>>1 | v&0x80
	case 6: // SWAP
		r = v<<4 | v>>4
	case 7: // SRL
		out = v & 1
		r = v >> 1
	}
	c.setZNHC(r == 0, false, false, out == 1)
	return r
}

// rotA is the accumulator-only rotate: Z is always cleared.
func (c *CPU) rotA(op byte) {
	c.AF.Hi = c.rot(op, c.AF.Hi)
	c.AF.Lo &^= flagZ
}
