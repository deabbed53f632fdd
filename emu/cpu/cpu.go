// Package cpu implements the CHIP-8 virtual machine: its memory, registers,
// stack and timers, and the engine executing one instruction per step.
package cpu

import (
	"fmt"
	"os"

	"github.com/beanboi7/chyp8/emu/headless"
	"github.com/beanboi7/chyp8/emu/keypad"
	"github.com/beanboi7/chyp8/emu/opcode"
	"github.com/retroenv/retrogolib/log"
)

const (
	// MemorySize is the size of the addressable memory.
	MemorySize = 4096
	// ProgramStart is the address programs are loaded to and executed from.
	ProgramStart = 0x200
	// MaxAddress is the highest addressable memory location.
	MaxAddress = MemorySize - 1
	// StackSize is the maximum depth of nested calls.
	StackSize = 256
	// FlagRegister is VF, the carry, borrow, shift and collision flag.
	FlagRegister opcode.Reg = 0xF
	// GlyphSize is the number of bytes of one font glyph.
	GlyphSize = 5
	// DisplayWidth and DisplayHeight are the resolution programs assume.
	// The machine itself never checks coordinates against them.
	DisplayWidth  = 64
	DisplayHeight = 32

	registerCount = 16
	maxRomSize    = MemorySize - ProgramStart
)

// FontSet holds the 16 hexadecimal glyphs loaded at address 0.
var FontSet = [16 * GlyphSize]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// EMU is a CHIP-8 machine wired to its input and output devices.
// It is not safe for concurrent use, calls to Step must be serialized.
type EMU struct {
	memory     [MemorySize]uint8
	V          [registerCount]uint8
	I          uint16 // address register
	pc         uint16
	delayTimer uint8
	soundTimer uint8
	stack      [StackSize]uint16
	sp         int

	input  Input
	output Output
	random ByteSource
	logger *log.Logger
}

// Option configures an EMU.
type Option func(*EMU)

// WithLogger sets the logger that instructions are traced to at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(emu *EMU) {
		emu.logger = logger
	}
}

// WithRandom sets the byte source used by the rand instruction.
func WithRandom(random ByteSource) Option {
	return func(emu *EMU) {
		emu.random = random
	}
}

// NewEMU returns a machine with the font loaded, the program counter at
// ProgramStart and everything else zeroed.
func NewEMU(input Input, output Output, opts ...Option) *EMU {
	emu := &EMU{
		pc:     ProgramStart,
		input:  input,
		output: output,
	}
	for _, opt := range opts {
		opt(emu)
	}
	if emu.random == nil {
		emu.random = NewRandom()
	}
	if emu.logger == nil {
		emu.logger = log.NewWithConfig(log.DefaultConfig())
	}

	emu.loadFont()
	return emu
}

// NewDummy returns a machine with a keypad that is never pressed and a
// headless screen.
func NewDummy(opts ...Option) *EMU {
	return NewEMU(keypad.Dummy{}, headless.NewScreen(), opts...)
}

func (emu *EMU) loadFont() {
	copy(emu.memory[:], FontSet[:])
}

// Load copies a program into memory at ProgramStart. Bytes that do not fit
// below MemorySize are discarded. It returns the number of bytes copied.
func (emu *EMU) Load(program []byte) int {
	return copy(emu.memory[ProgramStart:], program)
}

// LoadROM reads a program file and loads it with the rules of Load.
func (emu *EMU) LoadROM(filename string) error {
	rom, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}

	if n := emu.Load(rom); n < len(rom) {
		emu.logger.Warn("ROM truncated to fit memory",
			log.String("file", filename),
			log.Int("size", len(rom)),
			log.Int("max", maxRomSize))
	}
	return nil
}

// PC returns the program counter.
func (emu *EMU) PC() uint16 {
	return emu.pc
}

// SP returns the number of return addresses on the stack.
func (emu *EMU) SP() int {
	return emu.sp
}

// Register returns the value of register Vr.
func (emu *EMU) Register(r opcode.Reg) uint8 {
	return emu.V[r&0xF]
}

// Registers returns a copy of V0-VF.
func (emu *EMU) Registers() [registerCount]uint8 {
	return emu.V
}

// Memory returns the byte at addr, out of range addresses read as 0.
func (emu *EMU) Memory(addr uint16) uint8 {
	if addr > MaxAddress {
		return 0
	}
	return emu.memory[addr]
}

// DelayTimer returns the delay timer.
func (emu *EMU) DelayTimer() uint8 {
	return emu.delayTimer
}

// SoundTimer returns the sound timer.
func (emu *EMU) SoundTimer() uint8 {
	return emu.soundTimer
}

// Output returns the output device the machine draws to.
func (emu *EMU) Output() Output {
	return emu.output
}
