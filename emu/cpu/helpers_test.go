package cpu_test

import (
	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/headless"
	"github.com/beanboi7/chyp8/emu/opcode"
)

// stubInput is a keypad with a fixed current key and a script of keys
// returned by successive waits.
type stubInput struct {
	key     uint8
	pressed bool
	waits   []uint8
	err     error
}

func (s *stubInput) Key() (uint8, bool) {
	return s.key, s.pressed
}

func (s *stubInput) WaitKey() (uint8, error) {
	if s.err != nil {
		return 0, s.err
	}
	key := s.waits[0]
	s.waits = s.waits[1:]
	return key, nil
}

func newTestEMU(input *stubInput, random byte) (*cpu.EMU, *headless.Screen) {
	screen := headless.NewScreen()
	e := cpu.NewEMU(input, screen, cpu.WithRandom(cpu.ByteSourceFunc(func() uint8 {
		return random
	})))
	return e, screen
}

// program assembles instruction words into bytes.
func program(words ...uint16) []byte {
	b := make([]byte, 0, 2*len(words))
	for _, w := range words {
		high, low := opcode.WordFromUint16(w).Bytes()
		b = append(b, high, low)
	}
	return b
}

// placeAt returns a program image where each word is stored at its address.
func placeAt(words map[uint16]uint16) []byte {
	image := make([]byte, cpu.MemorySize-cpu.ProgramStart)
	for addr, w := range words {
		high, low := opcode.WordFromUint16(w).Bytes()
		image[addr-cpu.ProgramStart] = high
		image[addr-cpu.ProgramStart+1] = low
	}
	return image
}
