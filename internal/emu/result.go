package emu

import "strings"

// Test ROMs that follow the external-RAM protocol write DE B0 61 at A001,
// keep 0x80 at A000 while running and leave the final status there. Text
// output starts at A004 and is NUL terminated.
const (
	resultStatus  = 0xA000
	resultSig     = 0xA001
	resultText    = 0xA004
	StatusRunning = 0x80
)

// ROMResult reports what a test ROM has published through cartridge RAM.
// ok is false until the ROM has written its signature.
func (m *Machine) ROMResult() (status byte, text string, ok bool) {
	if m.Mem8(resultSig) != 0xDE || m.Mem8(resultSig+1) != 0xB0 || m.Mem8(resultSig+2) != 0x61 {
		return 0, "", false
	}
	var sb strings.Builder
	for addr := uint16(resultText); addr < 0xC000; addr++ {
		c := m.Mem8(addr)
		if c == 0 {
			break
		}
		sb.WriteByte(c)
	}
	return m.Mem8(resultStatus), sb.String(), true
}
