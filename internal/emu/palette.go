package emu

import (
	"image"
	"image/color"
	"strings"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
)

// Palette names a display tint for the four DMG shades.
type Palette int

const (
	PaletteGreen Palette = iota
	PaletteSepia
	PaletteBlue
	PaletteRed
	PalettePastel
	PaletteGrey
)

var paletteNames = [...]string{"green", "sepia", "blue", "red", "pastel", "grey"}

// tints lists shade 0 (lightest) to shade 3 (darkest) per palette.
var tints = [...][4]color.RGBA{
	PaletteGreen:  {{0xE0, 0xF8, 0xD0, 0xFF}, {0x88, 0xC0, 0x70, 0xFF}, {0x34, 0x68, 0x56, 0xFF}, {0x08, 0x18, 0x20, 0xFF}},
	PaletteSepia:  {{0xF8, 0xE8, 0xC8, 0xFF}, {0xD8, 0xA8, 0x78, 0xFF}, {0x98, 0x60, 0x38, 0xFF}, {0x38, 0x20, 0x10, 0xFF}},
	PaletteBlue:   {{0xE8, 0xF0, 0xFF, 0xFF}, {0x90, 0xB0, 0xE8, 0xFF}, {0x40, 0x58, 0xA8, 0xFF}, {0x10, 0x18, 0x40, 0xFF}},
	PaletteRed:    {{0xFF, 0xE8, 0xE0, 0xFF}, {0xF0, 0x90, 0x80, 0xFF}, {0xA8, 0x38, 0x30, 0xFF}, {0x38, 0x08, 0x08, 0xFF}},
	PalettePastel: {{0xFF, 0xF0, 0xF8, 0xFF}, {0xD0, 0xB8, 0xE8, 0xFF}, {0x88, 0x80, 0xB8, 0xFF}, {0x38, 0x30, 0x58, 0xFF}},
	PaletteGrey:   {{0xFF, 0xFF, 0xFF, 0xFF}, {0xAA, 0xAA, 0xAA, 0xFF}, {0x55, 0x55, 0x55, 0xFF}, {0x00, 0x00, 0x00, 0xFF}},
}

// Color maps a shade (0-3) to its RGBA value.
func (p Palette) Color(shade byte) color.RGBA {
	if p < 0 || int(p) >= len(tints) {
		p = PaletteGreen
	}
	return tints[p][shade&0x03]
}

// Next cycles to the following palette.
func (p Palette) Next() Palette { return Palette((int(p) + 1) % len(paletteNames)) }

// FrameImage renders a frame of shades into an RGBA image.
func FrameImage(f *ppu.Frame, p Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, ppu.Width, ppu.Height))
	FrameRGBA(f, p, img.Pix)
	return img
}

// FrameRGBA writes f into dst as packed RGBA, 4 bytes per pixel.
func FrameRGBA(f *ppu.Frame, p Palette, dst []byte) {
	for i, shade := range f {
		c := p.Color(shade)
		dst[i*4], dst[i*4+1], dst[i*4+2], dst[i*4+3] = c.R, c.G, c.B, c.A
	}
}

func (p Palette) String() string {
	if p < 0 || int(p) >= len(paletteNames) {
		return "green"
	}
	return paletteNames[p]
}

// ParsePalette maps a name from paletteNames back to its Palette.
func ParsePalette(name string) (Palette, bool) {
	for i, n := range paletteNames {
		if strings.EqualFold(n, name) {
			return Palette(i), true
		}
	}
	return PaletteGreen, false
}

type titleRule struct {
	title   string
	exact   bool
	palette Palette
}

// titleRules are checked in order; exact matches come first.
var titleRules = []titleRule{
	{"TETRIS", true, PaletteBlue},
	{"SUPER MARIO LAND", true, PaletteRed},
	{"DR. MARIO", true, PalettePastel},
	{"DONKEY KONG", true, PaletteSepia},
	{"ZELDA", true, PaletteGreen},
	{"POKEMON YELLOW", true, PalettePastel},
	{"TETRIS", false, PaletteBlue},
	{"MARIO", false, PaletteRed},
	{"ZELDA", false, PaletteGreen},
	{"KIRBY", false, PalettePastel},
	{"METROID", false, PaletteRed},
	{"MEGA MAN", false, PaletteBlue},
	{"MEGAMAN", false, PaletteBlue},
	{"WARIO", false, PaletteSepia},
	{"POKEMON", false, PalettePastel},
	{"POCKET MONSTERS", false, PalettePastel},
}

// SuggestedPalette picks a tint for the loaded cartridge from its title,
// falling back to a checksum-derived choice for first-party titles.
func (m *Machine) SuggestedPalette() Palette { return paletteForHeader(m.header) }

func paletteForHeader(h *cart.Header) Palette {
	if h == nil {
		return PaletteGreen
	}
	title := strings.ToUpper(strings.TrimSpace(h.Title))
	for _, r := range titleRules {
		if r.exact && title == r.title || !r.exact && strings.Contains(title, r.title) {
			return r.palette
		}
	}
	firstParty := h.OldLicensee == 0x01 || h.OldLicensee == 0x33 && h.NewLicensee == "01"
	if firstParty {
		return Palette(int(h.HeaderChecksum) % len(paletteNames))
	}
	return PaletteGreen
}
