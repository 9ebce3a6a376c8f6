package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
)

type traceEntry struct {
	pc       uint16
	mnemonic string
	regs     string
	cyc      int
}

func (te traceEntry) String() string {
	return fmt.Sprintf("%04X  %-14s cyc=%-2d %s", te.pc, te.mnemonic, te.cyc, te.regs)
}

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	bootPath := flag.String("bootrom", "", "optional DMG boot ROM to run from 0x0000 until FF50 disables it")
	steps := flag.Int("steps", 5_000_000, "max CPU steps to run")
	breakAt := flag.String("break", "", "stop when PC reaches this address (hex)")
	trace := flag.Bool("trace", false, "print every instruction")
	auto := flag.Bool("auto", false, "watch the cartridge-RAM result protocol and exit 0 on pass, 1 on fail")
	timeout := flag.Duration("timeout", 0, "optional wall-clock timeout (e.g. 30s, 2m); 0 disables")
	traceWindow := flag.Int("traceWindow", 200, "recent instructions to print when the run stops early")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}
	bp := -1
	if *breakAt != "" {
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(*breakAt), "0x"), 16, 16)
		if err != nil {
			log.Fatalf("bad -break %q: %v", *breakAt, err)
		}
		bp = int(v)
	}

	m := emu.New(emu.Config{})
	if *bootPath != "" {
		if err := m.LoadBootROMFile(*bootPath); err != nil {
			log.Fatalf("load bootrom: %v", err)
		}
	}
	if err := m.LoadROMFile(*romPath); err != nil {
		log.Fatalf("load rom: %v", err)
	}

	start := time.Now()
	var deadline time.Time
	if *timeout > 0 {
		deadline = start.Add(*timeout)
	}

	// ring buffer for recent traces
	ring := make([]traceEntry, max(*traceWindow, 1))
	ringIdx, ringFill := 0, 0
	dumpRing := func() {
		if ringFill == 0 {
			return
		}
		fmt.Printf("\n--- recent trace (last %d instructions) ---\n", ringFill)
		first := (ringIdx - ringFill + len(ring)) % len(ring)
		for j := 0; j < ringFill; j++ {
			fmt.Println(ring[(first+j)%len(ring)])
		}
		fmt.Printf("--- end trace ---\n")
	}
	done := func(i int, code int) {
		fmt.Printf("\nDone: steps=%d cycles=%d elapsed=%s\n", i, m.CPU().ClockCycles, time.Since(start).Truncate(time.Millisecond))
		os.Exit(code)
	}

	c := m.CPU()
	for i := 0; i < *steps; i++ {
		if int(m.PC()) == bp {
			fmt.Printf("\nBreak at %04X: %s\n", bp, c)
			dumpRing()
			done(i, 0)
		}
		te := traceEntry{pc: m.PC(), mnemonic: c.Decode(m.Bus()).Mnemonic}
		n, err := m.Step()
		te.cyc, te.regs = n, c.String()
		ring[ringIdx] = te
		ringIdx = (ringIdx + 1) % len(ring)
		if ringFill < len(ring) {
			ringFill++
		}
		if *trace {
			fmt.Println(te)
		}
		if err != nil {
			fmt.Printf("\nStopped: %v\n", err)
			dumpRing()
			done(i+1, 1)
		}
		if *auto && i%1024 == 0 {
			if status, text, ok := m.ROMResult(); ok && status != emu.StatusRunning {
				fmt.Print(text)
				if status == 0x00 {
					fmt.Printf("\nDetected PASS.\n")
					done(i+1, 0)
				}
				fmt.Printf("\nDetected FAIL (status %02X).\n", status)
				dumpRing()
				done(i+1, 1)
			}
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			fmt.Printf("\nTimeout after %s.\n", time.Since(start).Truncate(time.Millisecond))
			done(i+1, 2)
		}
	}
	done(*steps, 0)
}
