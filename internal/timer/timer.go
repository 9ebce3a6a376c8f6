// Package timer drives DIV, TIMA, TMA and TAC from the running t-cycle count.
package timer

import "github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"

// Bus is the slice of the address space the timer touches.
type Bus interface {
	Read(addr uint16) byte
	Poke(addr uint16, value byte)
	RequestInterrupt(bit uint)
	// TakeDIVReset reports and clears a pending CPU write to DIV.
	TakeDIVReset() bool
}

// periods maps TAC bits 0-1 to machine-cycles per TIMA increment.
var periods = [4]uint16{256, 4, 16, 64}

const tacEnable = 0x04

type Timer struct {
	counter uint16 // system counter in machine-cycles, always running
	div     uint16 // machine-cycles counted while TAC is enabled; DIV is its low byte
	lastM   uint64
}

func New() *Timer { return &Timer{} }

// Step runs every machine-cycle between the previous call and total, the
// t-cycle count since power on. Calling it at any cadence gives the same result.
func (t *Timer) Step(b Bus, total uint64) {
	for m := total / 4; t.lastM < m; t.lastM++ {
		t.tick(b)
	}
}

func (t *Timer) tick(b Bus) {
	if b.TakeDIVReset() {
		t.counter = 0
		t.div = 0
	}
	t.counter++

	if tac := b.Read(bus.TAC); tac&tacEnable != 0 {
		t.div++
		if t.div%periods[tac&0x03] == 0 {
			t.incTIMA(b)
		}
	}
	b.Poke(bus.DIV, byte(t.div))
}

func (t *Timer) incTIMA(b Bus) {
	tima := b.Read(bus.TIMA) + 1
	if tima == 0 {
		tima = b.Read(bus.TMA)
		b.RequestInterrupt(bus.IntTimer)
	}
	b.Poke(bus.TIMA, tima)
}

// SetCounter seeds the system counter and DIV, e.g. to the values the boot
// ROM leaves behind.
func (t *Timer) SetCounter(b Bus, counter uint16, div byte) {
	t.counter = counter
	t.div = uint16(div)
	b.Poke(bus.DIV, div)
}

// Counter returns the system counter in machine-cycles.
func (t *Timer) Counter() uint16 { return t.counter }

// Cycles returns the machine-cycles processed so far.
func (t *Timer) Cycles() uint64 { return t.lastM }
