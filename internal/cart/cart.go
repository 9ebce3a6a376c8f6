package cart

import (
	"errors"
	"fmt"
)

// ErrMalformedCartridge is returned when an image cannot be mapped to a
// supported bank controller.
var ErrMalformedCartridge = errors.New("malformed cartridge")

// Cartridge is the capability set the Bus needs from a cartridge. Addresses
// are CPU addresses: ROM lives in 0x0000–0x7FFF and external RAM in 0xA000–0xBFFF.
type Cartridge interface {
	// Read returns a byte from ROM or external RAM.
	Read(addr uint16) byte
	// Write handles bank-controller register writes (0x0000–0x7FFF) and external RAM writes.
	Write(addr uint16, value byte)
	// ReadRange returns the bytes in [lo, hi) as Read would see them.
	ReadRange(lo, hi uint16) []byte
}

// BatteryBacked is an optional interface for cartridges with external RAM to be persisted.
// SaveRAM returns a copy of RAM bytes (nil if no RAM); LoadRAM copies data back in.
type BatteryBacked interface {
	SaveRAM() []byte
	LoadRAM(data []byte)
}

// New picks the bank controller named by the header's cartridge type byte.
func New(rom []byte) (Cartridge, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCartridge, err)
	}
	switch h.CartType {
	case 0x00:
		return NewNoMBC(rom), nil
	case 0x01, 0x02, 0x03: // MBC1, +RAM, +RAM+BATTERY
		return NewMBC1(rom, h.RAMBanks), nil
	case 0x0F, 0x10, 0x11, 0x12, 0x13: // MBC3 variants; RTC registers are not modelled
		return NewMBC3(rom, h.RAMBanks), nil
	default:
		return nil, fmt.Errorf("%w: unsupported cartridge type %#02x (%s)", ErrMalformedCartridge, h.CartType, h.CartTypeStr)
	}
}

func readRange(c Cartridge, lo, hi uint16) []byte {
	if hi <= lo {
		return nil
	}
	out := make([]byte, 0, int(hi-lo))
	for addr := lo; addr < hi; addr++ {
		out = append(out, c.Read(addr))
	}
	return out
}

func isExternalRAM(addr uint16) bool { return addr >= 0xA000 && addr <= 0xBFFF }
