package ppu

import "testing"

// snapshotWith builds a snapshot whose VRAM holds the given bytes.
func snapshotWith(mem map[uint16]byte) *snapshot {
	s := &snapshot{}
	for addr, v := range mem {
		s.vram[addr-0x8000] = v
	}
	return s
}

func TestSnapshot_BGPixelSCXOffsetAndTileWrap(t *testing.T) {
	mem := map[uint16]byte{}
	// Map row 0 holds tiles 0..31; tile n row 0 is lo=n, hi=^n.
	for tile := 0; tile < 32; tile++ {
		mem[0x9800+uint16(tile)] = byte(tile)
		mem[uint16(0x8000+tile*16)] = byte(tile)
		mem[uint16(0x8000+tile*16+1)] = ^byte(tile)
	}
	s := snapshotWith(mem)
	const lcdc = lcdcTileData
	for _, x := range []int{0, 5, 7, 8, 100, 255} {
		tile := byte(x / 8)
		bit := 7 - byte(x%8)
		want := (^tile>>bit&1)<<1 | tile>>bit&1
		if got := s.bgPixel(lcdc, byte(x), 0); got != want {
			t.Fatalf("x=%d got %d want %d", x, got, want)
		}
	}
	// Screen x 250 + SCX 10 wraps to background x 4 (tile 0).
	screenX, scx := byte(250), byte(10)
	if got, want := s.bgPixel(lcdc, screenX+scx, 0), s.bgPixel(lcdc, 4, 0); got != want {
		t.Fatalf("wrap got %d want %d", got, want)
	}
}

func TestSnapshot_TileDataAddr(t *testing.T) {
	cases := []struct {
		tile     byte
		data8000 bool
		want     uint16
	}{
		{0x00, true, 0x8000},
		{0xFF, true, 0x8FF0},
		{0x00, false, 0x9000},
		{0x7F, false, 0x97F0},
		{0x80, false, 0x8800},
		{0xFF, false, 0x8FF0},
	}
	for _, tc := range cases {
		if got := tileDataAddr(tc.tile, tc.data8000); got != tc.want {
			t.Fatalf("tile %02X mode8000=%v got %04X want %04X", tc.tile, tc.data8000, got, tc.want)
		}
	}
}

func TestSnapshot_SpriteTieBreakerAndFlip(t *testing.T) {
	// Tile 0: leftmost pixel colour 1. Tile 1: full row colour 3 on row 0 only.
	s := snapshotWith(map[uint16]byte{
		0x8000: 0x80,
		0x8010: 0xFF, 0x8011: 0xFF,
	})
	s.sprites[0] = Sprite{Y: 16, X: 28, Tile: 1, Index: 0}
	s.sprites[1] = Sprite{Y: 16, X: 28, Tile: 0, Index: 1}

	// Sprite 1 wins where it is opaque.
	if ci, _, ok := s.spritePixel(20, 0); !ok || ci != 1 {
		t.Fatalf("overlap got ci=%d ok=%v want 1", ci, ok)
	}
	// Sprite 1 is transparent at x=21, so sprite 0 shows through.
	if ci, _, ok := s.spritePixel(21, 0); !ok || ci != 3 {
		t.Fatalf("fallthrough got ci=%d ok=%v want 3", ci, ok)
	}
	// Row 1 of both tiles is empty.
	if _, _, ok := s.spritePixel(20, 1); ok {
		t.Fatalf("empty row reported a sprite pixel")
	}

	// Y-flip moves sprite 0's opaque row to the bottom.
	s.sprites[1] = Sprite{}
	s.sprites[0].Attr = attrYFlip
	if _, _, ok := s.spritePixel(21, 0); ok {
		t.Fatalf("y-flipped sprite still opaque on row 0")
	}
	if ci, _, ok := s.spritePixel(21, 7); !ok || ci != 3 {
		t.Fatalf("y-flipped sprite row 7 got ci=%d ok=%v", ci, ok)
	}
}
