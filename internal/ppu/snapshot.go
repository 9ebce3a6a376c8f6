package ppu

import "github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"

// Sprite is one decoded OAM entry. X and Y are the stored coordinates; the
// sprite's top-left pixel sits at (X-8, Y-16).
type Sprite struct {
	Y, X, Tile, Attr byte
	Index            int
}

const (
	attrPalette = 1 << 4 // OBP1 when set
	attrXFlip   = 1 << 5
	attrYFlip   = 1 << 6
)

// snapshot is the copy of VRAM and OAM the renderer reads for one scanline.
// It is replaced wholesale at the last dot of OAM scan and never aliases the bus.
type snapshot struct {
	vram    [bus.VRAMSize]byte
	sprites [40]Sprite
}

func (s *snapshot) capture(b Bus) {
	copy(s.vram[:], b.ReadRange(bus.VRAMStart, bus.VRAMStart+bus.VRAMSize))
	oam := b.ReadRange(bus.OAMStart, bus.OAMStart+bus.OAMSize)
	for i := range s.sprites {
		e := oam[i*4 : i*4+4]
		s.sprites[i] = Sprite{Y: e[0], X: e[1], Tile: e[2], Attr: e[3], Index: i}
	}
}

// read returns the captured VRAM byte at a CPU address in 0x8000-0x9FFF.
func (s *snapshot) read(addr uint16) byte { return s.vram[addr-bus.VRAMStart] }

// tileDataAddr resolves a tile number to its first byte. The 0x8800 mode
// treats the number as signed around 0x9000.
func tileDataAddr(tile byte, data8000 bool) uint16 {
	if data8000 {
		return 0x8000 + uint16(tile)*16
	}
	return uint16(0x9000 + int32(int8(tile))*16)
}

// tilePixel decodes the 2-bit colour index at column x (0 = leftmost) of row
// fineY in the tile starting at base.
func (s *snapshot) tilePixel(base uint16, x, fineY byte) byte {
	lo := s.read(base + uint16(fineY&7)*2)
	hi := s.read(base + uint16(fineY&7)*2 + 1)
	bit := 7 - x&7
	return (hi>>bit&1)<<1 | lo>>bit&1
}

// bgPixel returns the background colour index at background-space (x, y).
// Both coordinates wrap at 256 through their byte type.
func (s *snapshot) bgPixel(lcdc, x, y byte) byte {
	mapBase := bus.TileMap0
	if lcdc&lcdcBGMap != 0 {
		mapBase = bus.TileMap1
	}
	tile := s.read(mapBase + uint16(y>>3)*32 + uint16(x>>3))
	return s.tilePixel(tileDataAddr(tile, lcdc&lcdcTileData != 0), x, y)
}

// spritePixel returns the colour index and attributes of the sprite covering
// screen pixel (x, y). Higher OAM indices win; colour 0 is transparent.
func (s *snapshot) spritePixel(x, y int) (ci, attr byte, ok bool) {
	for i := len(s.sprites) - 1; i >= 0; i-- {
		sp := &s.sprites[i]
		col, row := x-(int(sp.X)-8), y-(int(sp.Y)-16)
		if col < 0 || col >= 8 || row < 0 || row >= 8 {
			continue
		}
		if sp.Attr&attrXFlip != 0 {
			col = 7 - col
		}
		if sp.Attr&attrYFlip != 0 {
			row = 7 - row
		}
		if ci := s.tilePixel(tileDataAddr(sp.Tile, true), byte(col), byte(row)); ci != 0 {
			return ci, sp.Attr, true
		}
	}
	return 0, 0, false
}

// Sprites returns the OAM entries captured at the last OAM scan.
func (p *PPU) Sprites() []Sprite {
	out := make([]Sprite, len(p.snap.sprites))
	copy(out, p.snap.sprites[:])
	return out
}
