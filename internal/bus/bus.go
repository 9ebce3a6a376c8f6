// Package bus routes the 16-bit address space: cartridge windows, the boot ROM
// overlay, the joypad register and one backing array for everything else.
package bus

import (
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bits"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cart"
)

type Bus struct {
	mem     [0x10000]byte
	cart    cart.Cartridge
	boot    []byte // nil once unloaded
	buttons Buttons

	divReset bool // CPU wrote DIV since the timer last looked
}

// New returns a bus with an empty cartridge slot.
func New() *Bus {
	b := &Bus{cart: cart.Empty{}}
	b.mem[JOYP] = 0x30
	return b
}

// Reset clears RAM and registers to the power-on state and unmaps the boot
// overlay. The cartridge and button state are kept.
func (b *Bus) Reset() {
	b.mem = [0x10000]byte{}
	b.mem[JOYP] = 0x30
	b.boot = nil
	b.divReset = false
}

// LoadCartridge replaces the active cartridge with one built from rom.
// On error the previous cartridge stays in place.
func (b *Bus) LoadCartridge(rom []byte) error {
	c, err := cart.New(rom)
	if err != nil {
		return err
	}
	b.cart = c
	return nil
}

// Cart exposes the active cartridge.
func (b *Bus) Cart() cart.Cartridge { return b.cart }

// SetBootROM maps a 256-byte boot image over 0x0000-0x00FF.
func (b *Bus) SetBootROM(boot []byte) {
	if len(boot) < BootROMSize {
		b.boot = nil
		return
	}
	b.boot = make([]byte, BootROMSize)
	copy(b.boot, boot[:BootROMSize])
	b.mem[BOOT] = 0
}

// UnloadBootROM removes the overlay so cartridge ROM shows through.
func (b *Bus) UnloadBootROM() { b.boot = nil }

// BootROMLoaded reports whether the overlay is still mapped.
func (b *Bus) BootROMLoaded() bool { return b.boot != nil }

func isCartAddr(addr uint16) bool {
	return addr < VRAMStart || (addr >= ExtRAMStart && addr < WRAMStart)
}

func (b *Bus) Read(addr uint16) byte {
	switch {
	case b.boot != nil && addr < BootROMSize:
		return b.boot[addr]
	case isCartAddr(addr):
		return b.cart.Read(addr)
	case addr >= EchoStart && addr < echoMirrorLimit:
		return b.mem[addr-0x2000]
	case addr == JOYP:
		return b.joypad()
	default:
		return b.mem[addr]
	}
}

func (b *Bus) Write(addr uint16, value byte) {
	switch {
	case isCartAddr(addr):
		b.cart.Write(addr, value)
	case addr >= EchoStart && addr < echoMirrorLimit:
		b.mem[addr-0x2000] = value
	case addr == JOYP:
		b.mem[JOYP] = value & 0x30
	case addr == DIV:
		b.mem[DIV] = 0
		b.divReset = true
	case addr == STAT:
		// mode and LYC match bits belong to the PPU
		b.mem[STAT] = 0x80 | b.mem[STAT]&0x07 | value&0x78
	case addr == LY:
		// read-only
	case addr == BOOT:
		b.mem[BOOT] = value
		if value != 0 {
			b.UnloadBootROM()
		}
	default:
		b.mem[addr] = value
	}
}

// Poke stores value into the backing array without any CPU-side write
// semantics. Hardware units use it to publish their register state.
func (b *Bus) Poke(addr uint16, value byte) { b.mem[addr] = value }

// ReadRange returns the bytes in [lo, hi) as Read would see them.
func (b *Bus) ReadRange(lo, hi uint16) []byte {
	if hi <= lo {
		return nil
	}
	if (lo >= VRAMStart && hi <= ExtRAMStart) || (lo >= OAMStart && hi <= IOStart) {
		out := make([]byte, int(hi-lo))
		copy(out, b.mem[lo:hi])
		return out
	}
	if b.boot == nil && ((hi <= VRAMStart) || (lo >= ExtRAMStart && hi <= WRAMStart)) {
		return b.cart.ReadRange(lo, hi)
	}
	out := make([]byte, 0, int(hi-lo))
	for addr := lo; addr < hi; addr++ {
		out = append(out, b.Read(addr))
	}
	return out
}

// TakeDIVReset reports whether DIV was written since the last call and
// clears the latch.
func (b *Bus) TakeDIVReset() bool {
	r := b.divReset
	b.divReset = false
	return r
}

// RequestInterrupt raises bit in IF.
func (b *Bus) RequestInterrupt(bit uint) {
	b.mem[IF] = bits.Set(b.mem[IF], bit)
}
