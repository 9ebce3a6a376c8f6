package ppu

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"
)

func statMode(b *bus.Bus) Mode { return Mode(b.Read(bus.STAT) & 0x03) }

func TestPPU_ModeSequenceOneFrame(t *testing.T) {
	b := bus.New()
	p := New()
	for dot := 0; dot < DotsPerFrame; dot++ {
		var want Mode
		x := dot % DotsPerLine
		switch {
		case dot >= Height*DotsPerLine:
			want = VBlank
		case x <= 79:
			want = OamScan
		case x <= 239:
			want = PixelTransfer
		default:
			want = HBlank
		}
		p.Step(b, 1)
		if p.Mode() != want {
			t.Fatalf("dot %d: mode got %v want %v", dot, p.Mode(), want)
		}
		if statMode(b) != want {
			t.Fatalf("dot %d: STAT mode got %v want %v", dot, statMode(b), want)
		}
		if got := b.Read(bus.LY); int(got) != dot/DotsPerLine {
			t.Fatalf("dot %d: LY got %d want %d", dot, got, dot/DotsPerLine)
		}
	}
	if p.Dots() != 0 || p.Frames() != 1 {
		t.Fatalf("after one frame dots=%d frames=%d", p.Dots(), p.Frames())
	}
	p.Step(b, 1)
	if p.Mode() != OamScan || b.Read(bus.LY) != 0 {
		t.Fatalf("next frame should start in OamScan at LY 0, got %v LY=%d", p.Mode(), b.Read(bus.LY))
	}
}

func TestPPU_StepSplitsIntoHBlank(t *testing.T) {
	b := bus.New()
	p := New()
	p.Step(b, 80)
	if p.Mode() != OamScan {
		t.Fatalf("after 80 dots got %v want OamScan", p.Mode())
	}
	p.Step(b, 1)
	if p.Mode() != PixelTransfer {
		t.Fatalf("after 81 dots got %v want PixelTransfer", p.Mode())
	}
	p.Step(b, 299)
	if p.Mode() != HBlank {
		t.Fatalf("after 380 dots got %v want HBlank", p.Mode())
	}
}

func TestPPU_VBlankInterruptOncePerFrame(t *testing.T) {
	b := bus.New()
	p := New()
	raised := 0
	for dot := 0; dot < 3*DotsPerFrame; dot++ {
		p.Step(b, 1)
		if b.Read(bus.IF)&(1<<bus.IntVBlank) != 0 {
			raised++
			if want := Height * DotsPerLine; dot%DotsPerFrame != want {
				t.Fatalf("VBlank raised at frame dot %d want %d", dot%DotsPerFrame, want)
			}
			b.Write(bus.IF, 0)
		}
	}
	if raised != 3 {
		t.Fatalf("VBlank raised %d times in 3 frames", raised)
	}
}

func TestPPU_LYCMatchAndSTATInterrupt(t *testing.T) {
	b := bus.New()
	p := New()
	b.Write(bus.LYC, 2)
	b.Write(bus.STAT, 1<<6)

	p.Step(b, 2*DotsPerLine)
	if b.Read(bus.STAT)&0x04 != 0 {
		t.Fatalf("LYC flag set on line 1")
	}
	if b.Read(bus.IF)&(1<<bus.IntSTAT) != 0 {
		t.Fatalf("STAT interrupt before LY=LYC")
	}
	p.Step(b, 1)
	if b.Read(bus.STAT)&0x04 == 0 {
		t.Fatalf("LYC flag clear on line 2, STAT=%02X", b.Read(bus.STAT))
	}
	if b.Read(bus.IF)&(1<<bus.IntSTAT) == 0 {
		t.Fatalf("STAT interrupt not raised on LY=LYC")
	}
	// Level stays high for the rest of the line: no second edge.
	b.Write(bus.IF, 0)
	p.Step(b, DotsPerLine-1)
	if b.Read(bus.IF)&(1<<bus.IntSTAT) != 0 {
		t.Fatalf("STAT interrupt raised twice for one match")
	}
	// Enable bits survive the PPU's STAT updates.
	if b.Read(bus.STAT)&0x78 != 1<<6 {
		t.Fatalf("STAT enables got %02X", b.Read(bus.STAT)&0x78)
	}
}

func TestPPU_HBlankSTATInterruptEveryLine(t *testing.T) {
	b := bus.New()
	p := New()
	b.Write(bus.STAT, 1<<3)
	edges := 0
	for dot := 0; dot < 3*DotsPerLine; dot++ {
		p.Step(b, 1)
		if b.Read(bus.IF)&(1<<bus.IntSTAT) != 0 {
			edges++
			if dot%DotsPerLine != 240 {
				t.Fatalf("HBlank STAT at line dot %d", dot%DotsPerLine)
			}
			b.Write(bus.IF, 0)
		}
	}
	if edges != 3 {
		t.Fatalf("HBlank STAT edges got %d want 3", edges)
	}
}

// solidTile fills tile n (0x8000 addressing) with colour index ci.
func solidTile(b *bus.Bus, n int, ci byte) {
	var lo, hi byte
	if ci&1 != 0 {
		lo = 0xFF
	}
	if ci&2 != 0 {
		hi = 0xFF
	}
	for row := 0; row < 8; row++ {
		b.Write(uint16(0x8000+n*16+row*2), lo)
		b.Write(uint16(0x8000+n*16+row*2+1), hi)
	}
}

func TestPPU_RendersBackgroundThroughBGP(t *testing.T) {
	b := bus.New()
	p := New()
	solidTile(b, 0, 3)
	b.Write(bus.LCDC, 0x91) // BG on, 0x8000 tile data, map 0x9800
	b.Write(bus.BGP, 0xE4)
	p.Step(b, DotsPerFrame)
	f := p.Frame()
	for _, xy := range [][2]int{{0, 0}, {159, 0}, {80, 72}, {159, 143}} {
		if got := f.At(xy[0], xy[1]); got != 3 {
			t.Fatalf("pixel %v got %d want 3", xy, got)
		}
	}

	// BGP maps colour 3 to shade 1.
	b.Write(bus.BGP, 0x40)
	p.Step(b, DotsPerFrame)
	if got := f.At(10, 10); got != 1 {
		t.Fatalf("pixel through BGP got %d want 1", got)
	}

	// BG disabled renders colour 0 through BGP.
	b.Write(bus.LCDC, 0x90)
	b.Write(bus.BGP, 0xE7)
	p.Step(b, DotsPerFrame)
	if got := f.At(10, 10); got != 3 {
		t.Fatalf("disabled BG got %d want BGP colour 0 shade 3", got)
	}
}

func TestPPU_SignedTileDataAndScroll(t *testing.T) {
	b := bus.New()
	p := New()
	// Tile -1 in 0x8800 mode lives at 0x8FF0; paint it colour 2.
	for row := 0; row < 8; row++ {
		b.Write(uint16(0x8FF0+row*2+1), 0xFF)
	}
	// Map 0x9C00: column 1 of row 0 uses tile 0xFF; the rest use tile 0 (blank at 0x9000).
	b.Write(0x9C01, 0xFF)
	b.Write(bus.LCDC, 0x89) // BG on, 0x8800 data, map 0x9C00
	b.Write(bus.BGP, 0xE4)
	b.Write(bus.SCX, 4)
	p.Step(b, DotsPerFrame)
	f := p.Frame()
	// Background x 8..15 is tile column 1; with SCX=4 that is screen x 4..11.
	for x := 0; x < 16; x++ {
		want := byte(0)
		if x >= 4 && x < 12 {
			want = 2
		}
		if got := f.At(x, 0); got != want {
			t.Fatalf("x=%d got %d want %d", x, got, want)
		}
	}
	// Row 1 of the map is blank.
	if got := f.At(5, 8); got != 0 {
		t.Fatalf("row 1 got %d want 0", got)
	}
}

func TestPPU_SnapshotLatency(t *testing.T) {
	b := bus.New()
	p := New()
	b.Write(bus.LCDC, 0x91)
	b.Write(bus.BGP, 0xE4)
	// Into PixelTransfer of line 0: the line's snapshot is already taken.
	p.Step(b, 100)
	solidTile(b, 0, 1)
	p.Step(b, DotsPerFrame-100)
	f := p.Frame()
	if got := f.At(50, 0); got != 0 {
		t.Fatalf("line 0 saw a VRAM write made after its snapshot: got %d", got)
	}
	if got := f.At(50, 1); got != 1 {
		t.Fatalf("line 1 missed the VRAM write: got %d", got)
	}
}

func TestPPU_SpritesOverBackground(t *testing.T) {
	b := bus.New()
	p := New()
	// Tile 1: only the leftmost column is colour 1.
	for row := 0; row < 8; row++ {
		b.Write(uint16(0x8010+row*2), 0x80)
	}
	solidTile(b, 2, 2)
	// Sprite 0 at screen (10, 0) with tile 1.
	oam := []byte{16, 18, 1, 0}
	// Sprite 1 at screen (30, 20) with tile 2, X-flip and OBP1.
	oam = append(oam, 36, 38, 2, attrXFlip|attrPalette)
	for i, v := range oam {
		b.Write(bus.OAMStart+uint16(i), v)
	}
	b.Write(bus.LCDC, 0x93)
	b.Write(bus.BGP, 0xE4)
	b.Write(bus.OBP0, 0xE4)
	b.Write(bus.OBP1, 0x1B) // colour 2 -> shade 1
	p.Step(b, DotsPerFrame)
	f := p.Frame()
	if got := f.At(10, 0); got != 1 {
		t.Fatalf("sprite pixel got %d want 1", got)
	}
	if got := f.At(11, 0); got != 0 {
		t.Fatalf("transparent sprite pixel got %d want background 0", got)
	}
	if got := f.At(30, 20); got != 1 {
		t.Fatalf("OBP1 sprite pixel got %d want 1", got)
	}
	if got := f.At(38, 20); got != 0 {
		t.Fatalf("pixel past sprite got %d want 0", got)
	}

	// Sprites hidden with LCDC bit 1 clear.
	b.Write(bus.LCDC, 0x91)
	p.Step(b, DotsPerFrame)
	if got := f.At(10, 0); got != 0 {
		t.Fatalf("hidden sprite pixel got %d want 0", got)
	}
}

func TestPPU_FrameHook(t *testing.T) {
	b := bus.New()
	p := New()
	solidTile(b, 0, 3)
	b.Write(bus.LCDC, 0x91)
	b.Write(bus.BGP, 0xE4)
	var frames []Frame
	p.SetFrameHook(func(f Frame) { frames = append(frames, f) })
	p.Step(b, DotsPerFrame-1)
	if len(frames) != 0 {
		t.Fatalf("hook ran before the frame completed")
	}
	p.Step(b, 1)
	if len(frames) != 1 {
		t.Fatalf("hook ran %d times want 1", len(frames))
	}
	// The delivered frame is a copy.
	b.Write(bus.BGP, 0x00)
	p.Step(b, DotsPerFrame)
	if frames[0].At(0, 0) != 3 || frames[1].At(0, 0) != 0 {
		t.Fatalf("frames got %d/%d want 3/0", frames[0].At(0, 0), frames[1].At(0, 0))
	}
}
