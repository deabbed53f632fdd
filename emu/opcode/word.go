// Package opcode splits CHIP-8 instruction words into their bit fields and
// decodes them into typed instructions.
package opcode

// Word is a 16-bit CHIP-8 instruction word stored as the two bytes it was
// fetched as.
type Word struct {
	high uint8
	low  uint8
}

// NewWord returns the word made of the high and low byte.
func NewWord(high, low uint8) Word {
	return Word{high: high, low: low}
}

// WordFromUint16 splits a 16-bit value into a Word.
func WordFromUint16(value uint16) Word {
	return Word{high: uint8(value >> 8), low: uint8(value)}
}

// Value returns the full 16-bit value.
func (w Word) Value() uint16 {
	return uint16(w.high)<<8 | uint16(w.low)
}

// Bytes returns the high and low byte.
func (w Word) Bytes() (uint8, uint8) {
	return w.high, w.low
}

// Nibbles returns the four 4-bit fields, most significant first.
func (w Word) Nibbles() [4]uint8 {
	return [4]uint8{
		w.high >> 4,
		w.high & 0x0F,
		w.low >> 4,
		w.low & 0x0F,
	}
}

// Nibble returns the nibble at index i, 0 being the most significant.
// Indexes above 3 are taken modulo 4.
func (w Word) Nibble(i int) uint8 {
	return w.Nibbles()[i&3]
}

// Low returns the low 8 bits.
func (w Word) Low() uint8 {
	return w.low
}

// Addr returns the low 12 bits.
func (w Word) Addr() uint16 {
	return w.Value() & 0x0FFF
}

// Bits returns the bits [start, end) of the word counted from the most
// significant bit, shifted down to the lowest position. It reports false if
// the range does not fit in 16 bits.
func (w Word) Bits(start, end int) (uint16, bool) {
	if start < 0 || end > 16 || start >= end {
		return 0, false
	}
	value := w.Value() & (0xFFFF >> start)
	return value >> (16 - end), true
}
