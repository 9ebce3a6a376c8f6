package bus

import (
	"errors"
	"testing"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cart"
)

// buildROM makes a synthetic image with the header fields the factory reads.
func buildROM(cartType, romSizeCode, ramSizeCode byte) []byte {
	rom := make([]byte, cart.ROMBanks(romSizeCode)*0x4000)
	copy(rom[0x0134:], "BUSTEST")
	rom[0x0147] = cartType
	rom[0x0148] = romSizeCode
	rom[0x0149] = ramSizeCode
	return rom
}

func TestBus_EmptyCartridge(t *testing.T) {
	b := New()
	for _, addr := range []uint16{0x0000, 0x0100, 0x4000, 0x7FFF} {
		if got := b.Read(addr); got != 0xFF {
			t.Fatalf("empty cart read %04X got %02X want FF", addr, got)
		}
	}
}

func TestBus_ROMAndRAM(t *testing.T) {
	rom := buildROM(0x00, 0x00, 0x00)
	rom[0x0100] = 0x42
	b := New()
	if err := b.LoadCartridge(rom); err != nil {
		t.Fatalf("LoadCartridge: %v", err)
	}

	if got := b.Read(0x0100); got != 0x42 {
		t.Fatalf("ROM read got %02x, want 42", got)
	}
	// ROM writes never change ROM contents
	b.Write(0x0100, 0x00)
	if got := b.Read(0x0100); got != 0x42 {
		t.Fatalf("ROM write changed byte: got %02x", got)
	}

	b.Write(0xC000, 0x99)
	if got := b.Read(0xC000); got != 0x99 {
		t.Fatalf("RAM read got %02x, want 99", got)
	}

	// Echo RAM mirrors C000–DDFF
	b.Write(0xE001, 0x55)
	if got := b.Read(0xC001); got != 0x55 {
		t.Fatalf("Echo write did not mirror to WRAM: got %02x", got)
	}

	b.Write(0xFF80, 0xAB)
	if got := b.Read(0xFF80); got != 0xAB {
		t.Fatalf("HRAM read got %02x, want AB", got)
	}

	// ROM-only cart should return 0xFF for A000–BFFF
	if got := b.Read(0xA123); got != 0xFF {
		t.Fatalf("Ext RAM (ROM-only) got %02x, want FF", got)
	}
}

func TestBus_LoadCartridgeRejectsUnknownType(t *testing.T) {
	b := New()
	err := b.LoadCartridge(buildROM(0x20, 0x00, 0x00))
	if !errors.Is(err, cart.ErrMalformedCartridge) {
		t.Fatalf("err %v, want ErrMalformedCartridge", err)
	}
	if _, ok := b.Cart().(cart.Empty); !ok {
		t.Fatalf("cartridge replaced despite load error")
	}
}

func TestBus_MBC1RAMThroughBus(t *testing.T) {
	b := New()
	if err := b.LoadCartridge(buildROM(0x03, 0x01, 0x02)); err != nil {
		t.Fatalf("LoadCartridge: %v", err)
	}
	b.Write(0xA000, 0x12)
	if got := b.Read(0xA000); got != 0x00 {
		t.Fatalf("disabled RAM got %02X want 00", got)
	}
	b.Write(0x0000, 0x0A)
	b.Write(0xA000, 0x12)
	if got := b.Read(0xA000); got != 0x12 {
		t.Fatalf("enabled RAM got %02X want 12", got)
	}
}

func TestBus_BootROMOverlay(t *testing.T) {
	rom := buildROM(0x00, 0x00, 0x00)
	rom[0x0000] = 0xAA
	rom[0x00FF] = 0xBB
	rom[0x0100] = 0xCC
	b := New()
	if err := b.LoadCartridge(rom); err != nil {
		t.Fatalf("LoadCartridge: %v", err)
	}
	boot := make([]byte, BootROMSize)
	boot[0x00] = 0x31
	boot[0xFF] = 0x50
	b.SetBootROM(boot)

	if got := b.Read(0x0000); got != 0x31 {
		t.Fatalf("boot overlay 0000 got %02X want 31", got)
	}
	if got := b.Read(0x00FF); got != 0x50 {
		t.Fatalf("boot overlay 00FF got %02X want 50", got)
	}
	if got := b.Read(0x0100); got != 0xCC {
		t.Fatalf("0100 should read cartridge, got %02X", got)
	}

	// Zero write keeps the overlay
	b.Write(BOOT, 0x00)
	if !b.BootROMLoaded() {
		t.Fatalf("zero write to BOOT unloaded the overlay")
	}
	b.Write(BOOT, 0x01)
	if b.BootROMLoaded() {
		t.Fatalf("non-zero write to BOOT did not unload the overlay")
	}
	if got := b.Read(0x0000); got != 0xAA {
		t.Fatalf("after unload 0000 got %02X want AA", got)
	}
}

func TestBus_ReadIsStable(t *testing.T) {
	b := New()
	if err := b.LoadCartridge(buildROM(0x01, 0x02, 0x00)); err != nil {
		t.Fatalf("LoadCartridge: %v", err)
	}
	for _, addr := range []uint16{0x0000, 0x4000, 0x8000, 0xC000, 0xFE00, JOYP, IF, IE} {
		first := b.Read(addr)
		if second := b.Read(addr); second != first {
			t.Fatalf("%04X read twice: %02X then %02X", addr, first, second)
		}
	}
}

func TestBus_JOYP(t *testing.T) {
	b := New()

	// Default JOYP read (no selection set -> both groups unselected => 1s in lower 4 bits)
	if got := b.Read(JOYP); got != 0xFF {
		t.Fatalf("JOYP default got %02x want FF", got)
	}

	// Select D-Pad (P14=0), press Right+Up
	b.Write(JOYP, 0x20)
	b.SetButtons(Buttons{Right: true, Up: true})
	if got := b.Read(JOYP); got&0x0F != 0x0A {
		t.Fatalf("JOYP D-Pad got %02x want 0x0A", got&0x0F)
	}

	// Select Buttons (P15=0), press A+Start
	b.Write(JOYP, 0x10)
	b.SetButtons(Buttons{A: true, Start: true})
	got := b.Read(JOYP)
	if got&0x0F != 0x06 {
		t.Fatalf("JOYP Buttons got %02x want 0x06", got&0x0F)
	}
	if got&0xF0 != 0xD0 {
		t.Fatalf("JOYP high bits got %02x want D0", got&0xF0)
	}
}

func TestBus_JoypadInterruptOnPress(t *testing.T) {
	b := New()
	b.Write(JOYP, 0x10) // buttons selected
	b.SetButtons(Buttons{Up: true})
	if b.Read(IF)&(1<<IntJoypad) != 0 {
		t.Fatalf("unselected d-pad press should not raise the joypad interrupt")
	}
	b.SetButtons(Buttons{Up: true, B: true})
	if b.Read(IF)&(1<<IntJoypad) == 0 {
		t.Fatalf("selected button press should raise the joypad interrupt")
	}
}

func TestBus_DIVWriteResets(t *testing.T) {
	b := New()
	b.Poke(DIV, 0x7F)
	if got := b.Read(DIV); got != 0x7F {
		t.Fatalf("DIV after Poke got %02X want 7F", got)
	}
	if b.TakeDIVReset() {
		t.Fatalf("Poke latched a DIV reset")
	}
	b.Write(DIV, 0x12)
	if got := b.Read(DIV); got != 0x00 {
		t.Fatalf("DIV got %02x want 00", got)
	}
	if !b.TakeDIVReset() || b.TakeDIVReset() {
		t.Fatalf("DIV write should latch exactly one reset")
	}
	// A write while DIV already reads 0 still counts.
	b.Write(DIV, 0x00)
	if !b.TakeDIVReset() {
		t.Fatalf("DIV write at 00 not latched")
	}
	b.Write(TIMA, 0x77)
	if got := b.Read(TIMA); got != 0x77 {
		t.Fatalf("TIMA got %02x want 77", got)
	}
}

func TestBus_ReadRange(t *testing.T) {
	b := New()
	for i := 0; i < 4; i++ {
		b.Write(VRAMStart+uint16(i), byte(0x10+i))
		b.Write(OAMStart+uint16(i), byte(0x20+i))
	}
	v := b.ReadRange(VRAMStart, VRAMStart+4)
	o := b.ReadRange(OAMStart, OAMStart+4)
	for i := 0; i < 4; i++ {
		if v[i] != byte(0x10+i) || o[i] != byte(0x20+i) {
			t.Fatalf("ReadRange[%d] vram=%02X oam=%02X", i, v[i], o[i])
		}
	}
	// Snapshot is a copy
	b.Write(VRAMStart, 0xEE)
	if v[0] != 0x10 {
		t.Fatalf("ReadRange returned a live view")
	}
	if got := b.ReadRange(0x0000, 0x0002); len(got) != 2 || got[0] != 0xFF {
		t.Fatalf("ReadRange over empty cart got %v", got)
	}
}

func TestBus_RequestInterrupt(t *testing.T) {
	b := New()
	b.RequestInterrupt(IntTimer)
	b.RequestInterrupt(IntVBlank)
	if got := b.Read(IF); got != 0x05 {
		t.Fatalf("IF got %02X want 05", got)
	}
}

func TestBus_STATWriteKeepsPPUBits(t *testing.T) {
	b := New()
	b.Poke(STAT, 0x86) // LYC match, OamScan
	b.Write(STAT, 0x47)
	if got := b.Read(STAT); got != 0xC6 {
		t.Fatalf("STAT got %02X want C6", got)
	}
	b.Write(STAT, 0x00)
	if got := b.Read(STAT); got != 0x86 {
		t.Fatalf("STAT after clearing enables got %02X want 86", got)
	}
}

func TestBus_LYIsReadOnly(t *testing.T) {
	b := New()
	b.Poke(LY, 0x05)
	b.Write(LY, 0x77)
	if got := b.Read(LY); got != 0x05 {
		t.Fatalf("LY got %02X want 05", got)
	}
}

func TestBus_ResetClearsMemory(t *testing.T) {
	b := New()
	boot := make([]byte, BootROMSize)
	b.SetBootROM(boot)
	b.Write(0xC000, 0x12)
	b.Write(0x8000, 0x34)
	b.Write(IF, 0x1F)
	b.Write(DIV, 0x00)
	b.Reset()
	for _, addr := range []uint16{0xC000, 0x8000, IF} {
		if got := b.Read(addr); got != 0 {
			t.Fatalf("%04X after Reset got %02X want 00", addr, got)
		}
	}
	if b.BootROMLoaded() || b.TakeDIVReset() {
		t.Fatalf("Reset kept boot overlay or DIV latch")
	}
	if got := b.Read(JOYP); got != 0xFF {
		t.Fatalf("JOYP after Reset got %02X want FF", got)
	}
}
