package cpu

import "github.com/FabianRolfMatthiasNoll/gbcore/internal/bits"

// Pair is a 16-bit register with byte views.
type Pair struct {
	Hi, Lo byte
}

func (p Pair) Word() uint16 { return bits.Word(p.Hi, p.Lo) }

func (p *Pair) SetWord(v uint16) { p.Hi, p.Lo = bits.Hi(v), bits.Lo(v) }

// Flags helpers
const (
	flagZ byte = 1 << 7
	flagN byte = 1 << 6
	flagH byte = 1 << 5
	flagC byte = 1 << 4
)

func (c *CPU) A() byte { return c.AF.Hi }
func (c *CPU) F() byte { return c.AF.Lo }
func (c *CPU) B() byte { return c.BC.Hi }
func (c *CPU) C() byte { return c.BC.Lo }
func (c *CPU) D() byte { return c.DE.Hi }
func (c *CPU) E() byte { return c.DE.Lo }
func (c *CPU) H() byte { return c.HL.Hi }
func (c *CPU) L() byte { return c.HL.Lo }

func (c *CPU) FlagZ() bool { return c.AF.Lo&flagZ != 0 }
func (c *CPU) FlagN() bool { return c.AF.Lo&flagN != 0 }
func (c *CPU) FlagH() bool { return c.AF.Lo&flagH != 0 }
func (c *CPU) FlagC() bool { return c.AF.Lo&flagC != 0 }

// setAF stores v into AF; the low nibble of F does not exist in hardware.
func (c *CPU) setAF(v uint16) { c.AF.SetWord(v & 0xFFF0) }

func (c *CPU) setZNHC(z, n, h, carry bool) {
	c.AF.Lo = bits.B(z)<<7 | bits.B(n)<<6 | bits.B(h)<<5 | bits.B(carry)<<4
}

func (c *CPU) carry() byte { return bits.B(c.FlagC()) }

// r8Names indexes the 3-bit register field used throughout the opcode map.
var r8Names = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

const regHLInd = 6

func (c *CPU) reg8(m Memory, idx byte) byte {
	switch idx {
	case 0:
		return c.BC.Hi
	case 1:
		return c.BC.Lo
	case 2:
		return c.DE.Hi
	case 3:
		return c.DE.Lo
	case 4:
		return c.HL.Hi
	case 5:
		return c.HL.Lo
	case regHLInd:
		return m.Read(c.HL.Word())
	default:
		return c.AF.Hi
	}
}

func (c *CPU) setReg8(m Memory, idx, v byte) {
	switch idx {
	case 0:
		c.BC.Hi = v
	case 1:
		c.BC.Lo = v
	case 2:
		c.DE.Hi = v
	case 3:
		c.DE.Lo = v
	case 4:
		c.HL.Hi = v
	case 5:
		c.HL.Lo = v
	case regHLInd:
		m.Write(c.HL.Word(), v)
	default:
		c.AF.Hi = v
	}
}

// rpNames covers the 16-bit group used by loads and arithmetic; SP is slot 3.
var rpNames = [4]string{"BC", "DE", "HL", "SP"}

func (c *CPU) reg16(idx byte) uint16 {
	switch idx {
	case 0:
		return c.BC.Word()
	case 1:
		return c.DE.Word()
	case 2:
		return c.HL.Word()
	default:
		return c.SP
	}
}

func (c *CPU) setReg16(idx byte, v uint16) {
	switch idx {
	case 0:
		c.BC.SetWord(v)
	case 1:
		c.DE.SetWord(v)
	case 2:
		c.HL.SetWord(v)
	default:
		c.SP = v
	}
}

// stackNames covers the PUSH/POP group where AF replaces SP.
var stackNames = [4]string{"BC", "DE", "HL", "AF"}

func (c *CPU) stackReg(idx byte) uint16 {
	if idx == 3 {
		return c.AF.Word()
	}
	return c.reg16(idx)
}

func (c *CPU) setStackReg(idx byte, v uint16) {
	if idx == 3 {
		c.setAF(v)
		return
	}
	c.setReg16(idx, v)
}
