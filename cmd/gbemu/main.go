package main

import (
	"errors"
	"flag"
	"fmt"
	"hash/crc32"
	"image/png"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ui"
)

type CLIFlags struct {
	ROMPath  string
	BootROM  string
	Scale    int
	Title    string
	Palette  string
	Trace    bool
	SkipBoot bool
	SaveRAM  bool // persist battery RAM next to ROM (.sav)
	Status   bool

	// headless
	Headless bool
	Frames   int
	PNGOut   string
	Expect   string // expected frame CRC32 hex (e.g., "1a2b3c4d")
	ASCII    bool   // print the last frame as text
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to ROM (.gb)")
	flag.StringVar(&f.BootROM, "bootrom", "", "optional DMG boot ROM (256 bytes)")
	flag.IntVar(&f.Scale, "scale", 3, "window scale")
	flag.StringVar(&f.Title, "title", "gbemu", "window title")
	flag.StringVar(&f.Palette, "palette", "", "shade tint: green, sepia, blue, red, pastel, grey (default: from cartridge)")
	flag.BoolVar(&f.Trace, "trace", false, "CPU trace log")
	flag.BoolVar(&f.SkipBoot, "skipboot", false, "start from the post-boot state even with -bootrom")
	flag.BoolVar(&f.SaveRAM, "save", true, "persist battery RAM to ROM.sav on exit and load on start")
	flag.BoolVar(&f.Status, "status", false, "show PC and frame counter overlay")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run in headless mode")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last frame to PNG at path")
	flag.StringVar(&f.Expect, "expect", "", "assert frame CRC32 (hex)")
	flag.BoolVar(&f.ASCII, "ascii", false, "print the last frame to the terminal")
	flag.Parse()
	return f
}

func runHeadless(m *emu.Machine, f CLIFlags, pal emu.Palette) error {
	frames := f.Frames
	if frames <= 0 {
		frames = 1
	}

	start := time.Now()
	for i := 0; i < frames; i++ {
		if err := m.StepFrame(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	dur := time.Since(start)

	fb := m.Frame()
	crc := crc32.ChecksumIEEE(fb[:])
	fps := float64(frames) / dur.Seconds()

	log.Printf("headless: frames=%d elapsed=%s fps=%.2f fb_crc32=%08x",
		frames, dur.Truncate(time.Millisecond), fps, crc)

	if f.PNGOut != "" {
		if err := saveFramePNG(fb, pal, f.PNGOut); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", f.PNGOut)
	}
	if f.ASCII {
		printFrame(fb)
	}

	if f.Expect != "" {
		// normalize expected hex (allow with/without 0x, upper/lowercase)
		want := strings.TrimPrefix(strings.ToLower(f.Expect), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func saveFramePNG(fb *ppu.Frame, pal emu.Palette, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, emu.FrameImage(fb, pal))
}

// shade 0 is lightest
var shadeRunes = [4]rune{' ', '░', '▒', '█'}

// printFrame renders the frame as block characters, downsampled to fit the
// terminal when stdout is one.
func printFrame(fb *ppu.Frame) {
	cols, rows := ppu.Width, ppu.Height/2
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		if w, h, err := term.GetSize(fd); err == nil && w > 0 && h > 1 {
			cols, rows = min(cols, w), min(rows, h-1)
		}
	}
	var sb strings.Builder
	for r := 0; r < rows; r++ {
		y := r * ppu.Height / rows
		for c := 0; c < cols; c++ {
			sb.WriteRune(shadeRunes[fb.At(c*ppu.Width/cols, y)])
		}
		sb.WriteByte('\n')
	}
	fmt.Print(sb.String())
}

func savPath(romPath string) string {
	return strings.TrimSuffix(romPath, filepath.Ext(romPath)) + ".sav"
}

func writeSave(m *emu.Machine, path string) {
	data, ok := m.SaveBattery()
	if !ok {
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("write %s: %v", path, err)
		return
	}
	log.Printf("wrote %s", path)
}

func main() {
	f := parseFlags()

	m := emu.New(emu.Config{Trace: f.Trace, SkipBoot: f.SkipBoot})
	if f.BootROM != "" {
		if err := m.LoadBootROMFile(f.BootROM); err != nil {
			log.Fatalf("load bootrom: %v", err)
		}
	}
	if f.ROMPath != "" {
		path := f.ROMPath
		// prefer absolute path for save placement consistency
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if err := m.LoadROMFile(path); err != nil {
			log.Fatalf("load rom: %v", err)
		}
		if h := m.Header(); h != nil {
			log.Printf("ROM: %q type=%s banks=%d ram=%d banks", h.Title, h.CartTypeStr, h.ROMBanks, h.RAMBanks)
		}
	}

	// Battery RAM: load .sav if present
	var sav string
	if f.SaveRAM && m.ROMPath() != "" {
		sav = savPath(m.ROMPath())
		data, err := os.ReadFile(sav)
		switch {
		case err == nil:
			if m.LoadBattery(data) {
				log.Printf("loaded save RAM: %s (%d bytes)", sav, len(data))
			}
		case !errors.Is(err, fs.ErrNotExist):
			log.Printf("read %s: %v", sav, err)
		}
	}

	pal := m.SuggestedPalette()
	if f.Palette != "" {
		p, ok := emu.ParsePalette(f.Palette)
		if !ok {
			log.Fatalf("unknown palette %q", f.Palette)
		}
		pal = p
	}

	if f.Headless {
		err := runHeadless(m, f, pal)
		if sav != "" {
			writeSave(m, sav)
		}
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	app := ui.NewApp(ui.Config{Title: f.Title, Scale: f.Scale, Palette: pal.String(), Status: f.Status}, m)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
	if sav != "" {
		writeSave(m, sav)
	}
}
