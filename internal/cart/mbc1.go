package cart

// MBC1 implements ROM/RAM banking for cartridge types 0x01-0x03.
// The 6000-7FFF banking-mode register is ignored, so the upper ROM bits are
// never combined into the bank number and 0000-3FFF always maps bank 0.
type MBC1 struct {
	banked
}

func NewMBC1(rom []byte, ramBanks int) *MBC1 {
	return &MBC1{banked: newBanked(rom, ramBanks)}
}

func (m *MBC1) Read(addr uint16) byte { return m.read(addr) }

func (m *MBC1) Write(addr uint16, value byte) { m.write(addr, value) }

func (m *MBC1) ReadRange(lo, hi uint16) []byte { return readRange(m, lo, hi) }
