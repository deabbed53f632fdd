package cpu

import (
	"math/rand"
	"time"
)

// Input is a keypad holding the keys 0x0-0xF.
type Input interface {
	// Key returns the most recent still fresh key press without blocking.
	Key() (uint8, bool)
	// WaitKey blocks until a fresh key press arrives. It returns an error
	// only when the device is shut down while waiting.
	WaitKey() (uint8, error)
}

// Output is a grid of 1-bit pixels. Coordinates are not validated by the
// machine, devices decide how to treat cells outside their resolution.
type Output interface {
	Set(x, y int, bit uint8)
	Get(x, y int) uint8
	Clear()
	// Refresh redraws the whole grid, it does not change any cell.
	Refresh()
}

// ByteSource supplies uniformly distributed bytes for the rand instruction.
type ByteSource interface {
	Byte() uint8
}

// ByteSourceFunc adapts a function to a ByteSource.
type ByteSourceFunc func() uint8

// Byte calls f.
func (f ByteSourceFunc) Byte() uint8 {
	return f()
}

// Random is a ByteSource backed by math/rand.
type Random struct {
	rnd *rand.Rand
}

// NewRandom returns a Random seeded from the current time.
func NewRandom() *Random {
	return &Random{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Byte returns a random byte.
func (r *Random) Byte() uint8 {
	return uint8(r.rnd.Intn(256))
}
