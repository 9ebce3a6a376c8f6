package ui

import (
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
)

type App struct {
	cfg     Config
	m       *emu.Machine
	palette emu.Palette
	last    ppu.Frame // most recent completed frame
	tex     *ebiten.Image
	pix     []byte
	paused  bool
	fast    bool
	err     error // fatal machine error; emulation stops

	// overlay/menu
	showMenu bool
	menuIdx  int
	toastMsg string
	toastTil time.Time
}

func NewApp(cfg Config, m *emu.Machine) *App {
	cfg.Defaults()
	pal := m.SuggestedPalette()
	if p, ok := emu.ParsePalette(cfg.Palette); ok {
		pal = p
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(ppu.Width*cfg.Scale, ppu.Height*cfg.Scale)
	a := &App{cfg: cfg, m: m, palette: pal, pix: make([]byte, ppu.Width*ppu.Height*4)}
	m.OnFrame(func(f ppu.Frame) { a.last = f })
	return a
}

func (a *App) Run() error {
	err := ebiten.RunGame(a)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (a *App) Update() error {
	// Keyboard → joypad
	a.m.SetButtons(emu.Buttons{
		Right:  ebiten.IsKeyPressed(ebiten.KeyRight),
		Left:   ebiten.IsKeyPressed(ebiten.KeyLeft),
		Up:     ebiten.IsKeyPressed(ebiten.KeyUp),
		Down:   ebiten.IsKeyPressed(ebiten.KeyDown),
		A:      ebiten.IsKeyPressed(ebiten.KeyZ),
		B:      ebiten.IsKeyPressed(ebiten.KeyX),
		Start:  ebiten.IsKeyPressed(ebiten.KeyEnter) && !a.showMenu,
		Select: ebiten.IsKeyPressed(ebiten.KeyShiftRight),
	})

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.showMenu = !a.showMenu
		a.menuIdx = 0
	}
	if a.showMenu {
		return a.updateMenu()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	// Fast-forward (Tab): while held, run multiple frames per update
	a.fast = ebiten.IsKeyPressed(ebiten.KeyTab)
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		a.screenshot()
	}

	switch {
	case a.err != nil:
	case a.paused:
		// Frame-step when paused (N)
		if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			a.runFrames(1)
		}
	case a.fast:
		a.runFrames(5)
	default:
		a.runFrames(1)
	}
	return nil
}

func (a *App) runFrames(n int) {
	for i := 0; i < n; i++ {
		if err := a.m.StepFrame(); err != nil {
			a.err = err
			log.Printf("ui: emulation stopped: %v", err)
			return
		}
	}
}

func (a *App) reset() {
	a.m.Reset()
	a.err = nil
	a.toast("Reset")
}

func (a *App) toast(msg string) {
	a.toastMsg = msg
	a.toastTil = time.Now().Add(2 * time.Second)
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(ppu.Width, ppu.Height)
	}
	emu.FrameRGBA(&a.last, a.palette, a.pix)
	a.tex.WritePixels(a.pix)
	screen.DrawImage(a.tex, nil)

	switch {
	case a.showMenu:
		a.drawMenu(screen)
	case a.err != nil:
		a.drawBanner(screen, "HALTED - R to reset", color.RGBA{0xC0, 0x20, 0x20, 0xFF})
	case a.paused:
		a.drawBanner(screen, "PAUSED", color.White)
	}
	if a.toastMsg != "" && time.Now().Before(a.toastTil) {
		a.drawLine(screen, a.toastMsg, ppu.Height-4)
	}
	if a.cfg.Status && !a.showMenu {
		a.drawLine(screen, fmt.Sprintf("PC %04X F%d", a.m.PC(), a.m.Frames()), 12)
	}
}

func (a *App) Layout(outW, outH int) (int, int) { return ppu.Width, ppu.Height }

func (a *App) screenshot() {
	name := fmt.Sprintf("screenshot_%s.png", time.Now().Format("20060102_150405"))
	f, err := os.Create(name)
	if err != nil {
		a.toast("Screenshot failed")
		log.Printf("ui: screenshot: %v", err)
		return
	}
	defer f.Close()
	if err := png.Encode(f, emu.FrameImage(&a.last, a.palette)); err != nil {
		a.toast("Screenshot failed")
		log.Printf("ui: screenshot: %v", err)
		return
	}
	a.toast("Saved " + name)
}
