package cart

// NoMBC implements a 32KB cartridge without banking or external RAM.
type NoMBC struct {
	rom []byte
}

func NewNoMBC(rom []byte) *NoMBC {
	return &NoMBC{rom: rom}
}

func (c *NoMBC) Read(addr uint16) byte {
	if addr < 0x8000 && int(addr) < len(c.rom) {
		return c.rom[addr]
	}
	return 0xFF
}

// Write is ignored: there is no controller to program and no RAM to store into.
func (c *NoMBC) Write(addr uint16, value byte) {}

func (c *NoMBC) ReadRange(lo, hi uint16) []byte { return readRange(c, lo, hi) }
