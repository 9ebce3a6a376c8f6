package cart

const (
	romBankSize = 0x4000
	ramBankSize = 0x2000
)

// banked holds the addressing contract shared by MBC1 and MBC3:
//   - 0000-1FFF: RAM enable (0x0A in low nibble)
//   - 2000-3FFF: ROM bank, low 5 bits, 0 coerced to 1
//   - 4000-5FFF: RAM bank, 2 bits
//   - 0000-3FFF always reads bank 0; 4000-7FFF reads the selected bank
//   - A000-BFFF reads 0 while RAM is disabled
type banked struct {
	rom []byte
	ram []byte

	romBank    byte
	ramBank    byte
	ramEnabled bool
}

func newBanked(rom []byte, ramBanks int) banked {
	b := banked{rom: rom, romBank: 1}
	if ramBanks > 0 {
		b.ram = make([]byte, ramBanks*ramBankSize)
	}
	return b
}

func (b *banked) romBanks() int {
	n := len(b.rom) / romBankSize
	if n == 0 {
		return 1
	}
	return n
}

func (b *banked) read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		if int(addr) < len(b.rom) {
			return b.rom[addr]
		}
		return 0xFF
	case addr < 0x8000:
		bank := int(b.romBank) % b.romBanks()
		off := bank*romBankSize + int(addr-0x4000)
		if off < len(b.rom) {
			return b.rom[off]
		}
		return 0xFF
	case isExternalRAM(addr):
		if !b.ramEnabled {
			return 0x00
		}
		if off, ok := b.ramOffset(addr); ok {
			return b.ram[off]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

// write applies the shared register map. Writes that land nowhere are dropped.
func (b *banked) write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		b.ramEnabled = value&0x0F == 0x0A
	case addr < 0x4000:
		b.romBank = value & 0x1F
		if b.romBank == 0 {
			b.romBank = 1
		}
	case addr < 0x6000:
		b.ramBank = value & 0x03
	case isExternalRAM(addr):
		if !b.ramEnabled {
			return
		}
		if off, ok := b.ramOffset(addr); ok {
			b.ram[off] = value
		}
	}
}

func (b *banked) ramOffset(addr uint16) (int, bool) {
	if len(b.ram) == 0 {
		return 0, false
	}
	banks := len(b.ram) / ramBankSize
	off := (int(b.ramBank)%banks)*ramBankSize + int(addr-0xA000)
	return off, off < len(b.ram)
}

func (b *banked) SaveRAM() []byte {
	if len(b.ram) == 0 {
		return nil
	}
	out := make([]byte, len(b.ram))
	copy(out, b.ram)
	return out
}

func (b *banked) LoadRAM(data []byte) {
	if len(b.ram) == 0 || len(data) == 0 {
		return
	}
	copy(b.ram, data)
}
