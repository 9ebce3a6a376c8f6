// Package emu wires the CPU, PPU, timer and APU stub around one bus and
// steps them in lockstep, one instruction at a time.
package emu

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/apu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/timer"
)

var (
	// ErrHalted is returned by every Step after a fatal error. The original
	// cause is wrapped alongside it.
	ErrHalted = errors.New("machine halted")
	// ErrBadBootROM rejects boot images that are not exactly 256 bytes.
	ErrBadBootROM = errors.New("boot ROM must be 256 bytes")
)

// Buttons is the joypad state accepted by SetButtons.
type Buttons = bus.Buttons

// timer state the boot ROM leaves behind
const (
	postBootDIV     = 0xAB
	postBootCounter = postBootDIV << 6
)

type Machine struct {
	cfg Config
	log *log.Logger

	bus   *bus.Bus
	cpu   *cpu.CPU
	ppu   *ppu.PPU
	timer *timer.Timer
	apu   *apu.APU

	bootROM []byte
	header  *cart.Header
	romPath string
	onFrame func(ppu.Frame)

	// first fatal error; Step refuses to continue once set
	halted error
}

func New(cfg Config) *Machine {
	m := &Machine{
		cfg:   cfg,
		log:   log.Default(),
		bus:   bus.New(),
		cpu:   cpu.New(),
		ppu:   ppu.New(),
		timer: timer.New(),
		apu:   apu.New(),
	}
	m.Reset()
	return m
}

// SetLogger redirects trace and diagnostic output.
func (m *Machine) SetLogger(l *log.Logger) { m.log = l }

// LoadROM replaces the cartridge and resets the machine. A malformed image
// leaves the previous cartridge in place.
func (m *Machine) LoadROM(rom []byte) error {
	h, err := cart.ParseHeader(rom)
	if err != nil {
		return fmt.Errorf("%w: %w", cart.ErrMalformedCartridge, err)
	}
	if err := m.bus.LoadCartridge(rom); err != nil {
		return err
	}
	m.header = h
	if !cart.HeaderChecksumOK(rom) {
		m.log.Printf("emu: header checksum mismatch in %q", h.Title)
	}
	m.romPath = ""
	m.Reset()
	return nil
}

// LoadROMFile reads and loads a cartridge image. File errors are returned unchanged.
func (m *Machine) LoadROMFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := m.LoadROM(data); err != nil {
		return err
	}
	m.romPath = path
	return nil
}

// LoadBootROM installs a 256-byte boot image and resets so execution starts at 0x0000.
func (m *Machine) LoadBootROM(boot []byte) error {
	if len(boot) != bus.BootROMSize {
		return fmt.Errorf("%w: got %d bytes", ErrBadBootROM, len(boot))
	}
	m.bootROM = append([]byte(nil), boot...)
	m.Reset()
	return nil
}

// LoadBootROMFile reads and installs a boot image. File errors are returned unchanged.
func (m *Machine) LoadBootROMFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return m.LoadBootROM(data)
}

// Reset restarts every unit and clears RAM, keeping the cartridge (with its
// external RAM) and boot ROM. With a boot ROM (and SkipBoot unset) execution
// starts at 0x0000; otherwise the machine starts from the state the boot ROM
// would leave behind.
func (m *Machine) Reset() {
	m.bus.Reset()
	*m.cpu = *cpu.New()
	*m.ppu = *ppu.New()
	*m.timer = *timer.New()
	*m.apu = *apu.New()
	m.ppu.SetFrameHook(m.onFrame)
	m.halted = nil

	if m.bootROM != nil && !m.cfg.SkipBoot {
		m.bus.SetBootROM(m.bootROM)
		return
	}
	m.cpu.ResetNoBoot()
	m.applyPostBootIO()
	m.timer.SetCounter(m.bus, postBootCounter, postBootDIV)
}

// applyPostBootIO sets the IO registers to their DMG post-boot values.
func (m *Machine) applyPostBootIO() {
	b := m.bus
	b.Write(bus.BOOT, 0x01)
	b.Write(bus.JOYP, 0xCF)
	b.Write(bus.TIMA, 0x00)
	b.Write(bus.TMA, 0x00)
	b.Write(bus.TAC, 0xF8)
	b.Write(bus.IF, 0xE1)
	b.Write(bus.NR52, 0xF1)
	b.Write(bus.NR50, 0x77)
	b.Write(bus.NR51, 0xF3)
	b.Write(bus.LCDC, 0x91)
	b.Poke(bus.STAT, 0x85)
	b.Write(bus.SCY, 0x00)
	b.Write(bus.SCX, 0x00)
	b.Write(bus.LYC, 0x00)
	b.Write(bus.BGP, 0xFC)
	b.Write(bus.OBP0, 0xFF)
	b.Write(bus.OBP1, 0xFF)
	b.Write(bus.WY, 0x00)
	b.Write(bus.WX, 0x00)
	b.Write(bus.IE, 0x00)
}

// Step executes one CPU instruction (or interrupt dispatch) and advances the
// PPU, timer and APU by the t-cycles it consumed. A fatal error halts the
// machine for good.
func (m *Machine) Step() (int, error) {
	if m.halted != nil {
		return 0, fmt.Errorf("%w: %w", ErrHalted, m.halted)
	}
	if m.cfg.Trace {
		m.log.Printf("%04X  %-14s %s", m.cpu.PC, m.cpu.Decode(m.bus).Mnemonic, m.cpu)
	}
	n, err := m.cpu.Instruction(m.bus)
	m.ppu.Step(m.bus, n)
	m.timer.Step(m.bus, m.cpu.ClockCycles)
	m.apu.Step(m.bus, n)
	if err != nil {
		m.halted = err
		m.log.Printf("emu: halted: %v", err)
		return n, err
	}
	return n, nil
}

// StepFrame steps until the PPU completes the current frame.
func (m *Machine) StepFrame() error {
	start := m.ppu.Frames()
	for m.ppu.Frames() == start {
		if _, err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// OnFrame registers fn to receive a copy of every completed frame. It runs
// synchronously inside Step and must not block.
func (m *Machine) OnFrame(fn func(ppu.Frame)) {
	m.onFrame = fn
	m.ppu.SetFrameHook(fn)
}

// Frame returns the live frame buffer: 160x144 shades 0-3.
func (m *Machine) Frame() *ppu.Frame { return m.ppu.Frame() }

// Frames counts frames completed since the last reset.
func (m *Machine) Frames() uint64 { return m.ppu.Frames() }

// Halted returns the fatal error that stopped the machine, or nil.
func (m *Machine) Halted() error { return m.halted }

func (m *Machine) CPU() *cpu.CPU { return m.cpu }
func (m *Machine) Bus() *bus.Bus { return m.bus }
func (m *Machine) PPU() *ppu.PPU { return m.ppu }

func (m *Machine) PC() uint16 { return m.cpu.PC }
func (m *Machine) SP() uint16 { return m.cpu.SP }

// Mem8 reads addr as the CPU would.
func (m *Machine) Mem8(addr uint16) byte { return m.bus.Read(addr) }

// SetMem8 writes addr as the CPU would, bank-controller and register side effects included.
func (m *Machine) SetMem8(addr uint16, value byte) { m.bus.Write(addr, value) }

func (m *Machine) SetButtons(b Buttons) { m.bus.SetButtons(b) }

// Header returns the parsed header of the loaded cartridge, or nil.
func (m *Machine) Header() *cart.Header { return m.header }

// ROMPath returns the file the cartridge came from, if any.
func (m *Machine) ROMPath() string { return m.romPath }

// SaveBattery returns a copy of the cartridge's external RAM. ok is false
// when the cartridge has none.
func (m *Machine) SaveBattery() (data []byte, ok bool) {
	bb, ok := m.bus.Cart().(cart.BatteryBacked)
	if !ok {
		return nil, false
	}
	data = bb.SaveRAM()
	return data, len(data) > 0
}

// LoadBattery copies data into the cartridge's external RAM if it has any.
func (m *Machine) LoadBattery(data []byte) bool {
	bb, ok := m.bus.Cart().(cart.BatteryBacked)
	if !ok {
		return false
	}
	bb.LoadRAM(data)
	return true
}
