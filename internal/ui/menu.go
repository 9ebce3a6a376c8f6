package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
)

var menuItems = []string{"Resume", "Reset", "Palette", "Screenshot", "Quit"}

const lineHeight = 14

func (a *App) updateMenu() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < len(menuItems)-1 {
		a.menuIdx++
	}
	if !inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		return nil
	}
	switch menuItems[a.menuIdx] {
	case "Resume":
		a.showMenu = false
	case "Reset":
		a.reset()
		a.showMenu = false
	case "Palette":
		a.palette = a.palette.Next()
		a.toast("Palette: " + a.palette.String())
	case "Screenshot":
		a.showMenu = false
		a.screenshot()
	case "Quit":
		return ebiten.Termination
	}
	return nil
}

func (a *App) drawMenu(screen *ebiten.Image) {
	shade := ebiten.NewImage(ppu.Width, ppu.Height)
	shade.Fill(color.RGBA{0, 0, 0, 0xA0})
	screen.DrawImage(shade, nil)
	for i, item := range menuItems {
		prefix := "  "
		if i == a.menuIdx {
			prefix = "> "
		}
		text.Draw(screen, prefix+item, basicfont.Face7x13, 16, 28+i*lineHeight, color.White)
	}
}

// drawBanner centres msg on a dark strip across the middle of the screen.
func (a *App) drawBanner(screen *ebiten.Image, msg string, c color.Color) {
	strip := ebiten.NewImage(ppu.Width, lineHeight+6)
	strip.Fill(color.RGBA{0, 0, 0, 0xC0})
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, float64(ppu.Height/2-lineHeight))
	screen.DrawImage(strip, op)
	x := (ppu.Width - text.BoundString(basicfont.Face7x13, msg).Dx()) / 2
	text.Draw(screen, msg, basicfont.Face7x13, x, ppu.Height/2, c)
}

// drawLine writes msg at baseline y with a backing strip for legibility.
func (a *App) drawLine(screen *ebiten.Image, msg string, y int) {
	w := text.BoundString(basicfont.Face7x13, msg).Dx() + 4
	if w > ppu.Width {
		w = ppu.Width
	}
	strip := ebiten.NewImage(w, lineHeight)
	strip.Fill(color.RGBA{0, 0, 0, 0x90})
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, float64(y-lineHeight+3))
	screen.DrawImage(strip, op)
	text.Draw(screen, msg, basicfont.Face7x13, 2, y, color.White)
}
