package bus

import "github.com/FabianRolfMatthiasNoll/gbcore/internal/bits"

// Buttons is the pressed state of the eight inputs.
type Buttons struct {
	A, B, Start, Select   bool
	Up, Down, Left, Right bool
}

// dpad returns the d-pad lines in JOYP bit order, 1 = pressed.
func (s Buttons) dpad() byte {
	return bits.B(s.Right) | bits.B(s.Left)<<1 | bits.B(s.Up)<<2 | bits.B(s.Down)<<3
}

// actions returns the button lines in JOYP bit order, 1 = pressed.
func (s Buttons) actions() byte {
	return bits.B(s.A) | bits.B(s.B)<<1 | bits.B(s.Select)<<2 | bits.B(s.Start)<<3
}

// joypad computes JOYP from the stored select bits and the live button state.
// A selected line reads 0 while pressed; bits 6-7 always read 1.
func (b *Bus) joypad() byte {
	sel := b.mem[JOYP] & 0x30
	var pressed byte
	if !bits.Test(sel, 4) {
		pressed |= b.buttons.dpad()
	}
	if !bits.Test(sel, 5) {
		pressed |= b.buttons.actions()
	}
	return 0xC0 | sel | (^pressed & 0x0F)
}

// SetButtons replaces the button state. A line going from released to pressed
// while its group is selected requests the joypad interrupt.
func (b *Bus) SetButtons(s Buttons) {
	before := b.joypad()
	b.buttons = s
	after := b.joypad()
	if before&^after&0x0F != 0 {
		b.RequestInterrupt(IntJoypad)
	}
}

// Buttons returns the current button state.
func (b *Bus) Buttons() Buttons { return b.buttons }
