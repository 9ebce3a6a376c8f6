package cart

// MBC3 implements ROM/RAM banking for cartridge types 0x0F-0x13.
// RTC registers (bank values 0x08-0x0C) and the 6000-7FFF clock latch are
// not modelled; RTC-bearing types behave as plain MBC3.
type MBC3 struct {
	banked
}

func NewMBC3(rom []byte, ramBanks int) *MBC3 {
	return &MBC3{banked: newBanked(rom, ramBanks)}
}

func (m *MBC3) Read(addr uint16) byte { return m.read(addr) }

func (m *MBC3) Write(addr uint16, value byte) {
	// Latch writes to 6000-7FFF fall through unhandled.
	m.write(addr, value)
}

func (m *MBC3) ReadRange(lo, hi uint16) []byte { return readRange(m, lo, hi) }
