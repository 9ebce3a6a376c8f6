// Package apu stands in for the audio unit. It produces no samples; it keeps
// NR52's power and channel-status bits coherent with triggers and length
// counters so software that polls them behaves.
package apu

import (
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bits"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"
)

// Bus is the register access the stub needs.
type Bus interface {
	Read(addr uint16) byte
	Poke(addr uint16, value byte)
}

// frame sequencer runs at 512 Hz
const fsPeriod = 8192

const (
	nr52Power = 7
	lengthEn  = 6
	trigger   = 7
)

type channel struct {
	lengthReg, controlReg uint16
	lengthMask            byte
	maxLength             int
}

var channels = [4]channel{
	{bus.NR11, bus.NR14, 0x3F, 64},
	{bus.NR21, bus.NR24, 0x3F, 64},
	{bus.NR31, bus.NR34, 0xFF, 256},
	{bus.NR41, bus.NR44, 0x3F, 64},
}

type APU struct {
	fsCounter int
	fsStep    int
	length    [4]int
	on        [4]bool
}

func New() *APU { return &APU{} }

// Step advances the stub by cycles t-cycles.
func (a *APU) Step(b Bus, cycles int) {
	nr52 := b.Read(bus.NR52)
	if !bits.Test(nr52, nr52Power) {
		a.on = [4]bool{}
		a.fsCounter, a.fsStep = 0, 0
		a.publish(b, nr52)
		return
	}
	for i, ch := range channels {
		ctl := b.Read(ch.controlReg)
		if !bits.Test(ctl, trigger) {
			continue
		}
		a.on[i] = true
		if a.length[i] == 0 {
			a.length[i] = ch.maxLength - int(b.Read(ch.lengthReg)&ch.lengthMask)
		}
		b.Poke(ch.controlReg, bits.Clear(ctl, trigger))
	}
	for a.fsCounter += cycles; a.fsCounter >= fsPeriod; a.fsCounter -= fsPeriod {
		if a.fsStep%2 == 0 {
			a.clockLength(b)
		}
		a.fsStep = (a.fsStep + 1) % 8
	}
	a.publish(b, nr52)
}

func (a *APU) clockLength(b Bus) {
	for i, ch := range channels {
		if !a.on[i] || !bits.Test(b.Read(ch.controlReg), lengthEn) || a.length[i] == 0 {
			continue
		}
		a.length[i]--
		if a.length[i] == 0 {
			a.on[i] = false
		}
	}
}

func (a *APU) publish(b Bus, nr52 byte) {
	v := nr52&0x80 | 0x70
	for i, on := range a.on {
		v = bits.Assign(v, uint(i), on)
	}
	b.Poke(bus.NR52, v)
}

// Active reports whether channel ch (0-3) is sounding.
func (a *APU) Active(ch int) bool { return a.on[ch] }
