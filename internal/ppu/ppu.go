// Package ppu models the pixel-processing unit as a dot-driven mode machine
// with a fixed 80/160/216-dot scanline split.
package ppu

import (
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bits"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"
)

// Bus is what the PPU needs from the address space during a step.
type Bus interface {
	Read(addr uint16) byte
	ReadRange(lo, hi uint16) []byte
	Poke(addr uint16, value byte)
	RequestInterrupt(bit uint)
}

const (
	Width  = 160
	Height = 144

	DotsPerLine   = 456
	LinesPerFrame = 154
	DotsPerFrame  = DotsPerLine * LinesPerFrame

	oamScanEnd  = 80
	transferEnd = oamScanEnd + Width
	vblankStart = Height * DotsPerLine
)

// LCDC bits.
const (
	lcdcBGEnable  = 1 << 0
	lcdcOBJEnable = 1 << 1
	lcdcBGMap     = 1 << 3
	lcdcTileData  = 1 << 4
)

// STAT bits.
const (
	statLYCMatch   = 2
	statHBlankInt  = 3
	statVBlankInt  = 4
	statOAMInt     = 5
	statLYCInt     = 6
	statWriteMask  = 0x78
	statUnusedHigh = 0x80
)

// Mode is the value published in STAT bits 0-1.
type Mode byte

const (
	HBlank Mode = iota
	VBlank
	OamScan
	PixelTransfer
)

func (m Mode) String() string {
	switch m {
	case HBlank:
		return "HBlank"
	case VBlank:
		return "VBlank"
	case OamScan:
		return "OamScan"
	default:
		return "PixelTransfer"
	}
}

// Frame holds one screen of palette-mapped shades (0-3), row-major.
type Frame [Width * Height]byte

// At returns the shade at (x, y).
func (f *Frame) At(x, y int) byte { return f[y*Width+x] }

type PPU struct {
	dots     int // dots_this_frame, the next dot to process
	mode     Mode
	statLine bool
	frames   uint64

	frame Frame
	snap  snapshot

	onFrame func(Frame)
}

func New() *PPU { return &PPU{mode: OamScan} }

// SetFrameHook registers fn to receive a copy of every completed frame. The
// hook runs synchronously inside Step and must not block.
func (p *PPU) SetFrameHook(fn func(Frame)) { p.onFrame = fn }

// Step advances exactly n dots.
func (p *PPU) Step(b Bus, n int) {
	for i := 0; i < n; i++ {
		p.tick(b)
	}
}

func modeAt(dot int) Mode {
	if dot >= vblankStart {
		return VBlank
	}
	switch x := dot % DotsPerLine; {
	case x < oamScanEnd:
		return OamScan
	case x < transferEnd:
		return PixelTransfer
	default:
		return HBlank
	}
}

func (p *PPU) tick(b Bus) {
	ly, x := p.dots/DotsPerLine, p.dots%DotsPerLine
	p.mode = modeAt(p.dots)

	switch p.mode {
	case OamScan:
		if x == oamScanEnd-1 {
			p.snap.capture(b)
		}
	case PixelTransfer:
		p.renderPixel(b, x-oamScanEnd, ly)
	}
	if p.dots == vblankStart {
		b.RequestInterrupt(bus.IntVBlank)
	}
	p.publish(b, byte(ly))

	p.dots++
	if p.dots == DotsPerFrame {
		p.dots = 0
		p.frames++
		if p.onFrame != nil {
			p.onFrame(p.frame)
		}
	}
}

// publish mirrors LY and STAT onto the bus and raises the STAT interrupt on
// a rising edge of the enabled conditions.
func (p *PPU) publish(b Bus, ly byte) {
	stat := b.Read(bus.STAT)&statWriteMask | byte(p.mode)
	match := ly == b.Read(bus.LYC)
	stat = bits.Assign(stat, statLYCMatch, match)
	b.Poke(bus.STAT, statUnusedHigh|stat)
	b.Poke(bus.LY, ly)

	line := match && bits.Test(stat, statLYCInt) ||
		p.mode == HBlank && bits.Test(stat, statHBlankInt) ||
		p.mode == VBlank && bits.Test(stat, statVBlankInt) ||
		p.mode == OamScan && bits.Test(stat, statOAMInt)
	if line && !p.statLine {
		b.RequestInterrupt(bus.IntSTAT)
	}
	p.statLine = line
}

// renderPixel writes screen pixel (x, ly) from the snapshot, using the live
// scroll, palette and control registers.
func (p *PPU) renderPixel(b Bus, x, ly int) {
	lcdc := b.Read(bus.LCDC)
	var ci byte
	if lcdc&lcdcBGEnable != 0 {
		ci = p.snap.bgPixel(lcdc, byte(x)+b.Read(bus.SCX), byte(ly)+b.Read(bus.SCY))
	}
	shade := paletteShade(b.Read(bus.BGP), ci)
	if lcdc&lcdcOBJEnable != 0 {
		if sci, attr, ok := p.snap.spritePixel(x, ly); ok {
			pal := bus.OBP0
			if attr&attrPalette != 0 {
				pal = bus.OBP1
			}
			shade = paletteShade(b.Read(pal), sci)
		}
	}
	p.frame[ly*Width+x] = shade
}

// paletteShade maps a 2-bit colour index through a BGP/OBP register.
func paletteShade(pal, ci byte) byte { return pal >> (ci * 2) & 0x03 }

// Mode returns the mode of the most recently processed dot.
func (p *PPU) Mode() Mode { return p.mode }

// Dots returns the position within the frame of the next dot to process.
func (p *PPU) Dots() int { return p.dots }

// Frames counts completed frames.
func (p *PPU) Frames() uint64 { return p.frames }

// Frame returns the live frame buffer. It is overwritten as rendering proceeds.
func (p *PPU) Frame() *Frame { return &p.frame }
