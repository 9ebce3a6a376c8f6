// Package bits holds the small bit and byte primitives shared by every
// hardware component.
package bits

// Test reports whether bit n of v is set.
func Test(v byte, n uint) bool { return v&(1<<n) != 0 }

// Set returns v with bit n set.
func Set(v byte, n uint) byte { return v | 1<<n }

// Clear returns v with bit n cleared.
func Clear(v byte, n uint) byte { return v &^ (1 << n) }

// Assign returns v with bit n set to on.
func Assign(v byte, n uint, on bool) byte {
	if on {
		return Set(v, n)
	}
	return Clear(v, n)
}

// Value returns bit n of v as 0 or 1.
func Value(v byte, n uint) byte { return (v >> n) & 1 }

// Hi returns the high byte of w.
func Hi(w uint16) byte { return byte(w >> 8) }

// Lo returns the low byte of w.
func Lo(w uint16) byte { return byte(w) }

// Word joins hi and lo into a 16-bit value.
func Word(hi, lo byte) uint16 { return uint16(hi)<<8 | uint16(lo) }

// HalfCarryAdd reports a carry out of bit 3 when adding a, b and carry.
func HalfCarryAdd(a, b, carry byte) bool { return (a&0x0F)+(b&0x0F)+carry > 0x0F }

// HalfBorrowSub reports a borrow into bit 3 when subtracting b and carry from a.
func HalfBorrowSub(a, b, carry byte) bool { return int(a&0x0F)-int(b&0x0F)-int(carry) < 0 }

// B converts a bool to 0 or 1.
func B(on bool) byte {
	if on {
		return 1
	}
	return 0
}
