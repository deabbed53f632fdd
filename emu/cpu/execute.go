package cpu

import (
	"fmt"

	"github.com/beanboi7/chyp8/emu/opcode"
	"github.com/retroenv/retrogolib/log"
)

// Step updates the timers, fetches the instruction at the program counter,
// decodes and executes it. Invalid opcodes, resource faults and a closed
// input device while waiting for a key are returned as errors, the machine
// should not be stepped any further after one.
func (emu *EMU) Step() error {
	emu.tickTimers()

	pc := emu.pc
	if pc > MaxAddress-1 {
		return fmt.Errorf("fetching instruction at $%03X: %w", pc, ErrMemoryBounds)
	}

	ins, err := opcode.Decode(emu.memory[pc], emu.memory[pc+1])
	if err != nil {
		return fmt.Errorf("decoding instruction at $%03X: %w", pc, err)
	}

	return emu.run(ins)
}

// Execute runs a single already decoded instruction with the same timer and
// program counter handling as Step.
func (emu *EMU) Execute(ins opcode.Instruction) error {
	emu.tickTimers()
	return emu.run(ins)
}

// ExecuteMany runs the instructions in order and stops at the first error.
func (emu *EMU) ExecuteMany(instructions ...opcode.Instruction) error {
	for _, ins := range instructions {
		if err := emu.Execute(ins); err != nil {
			return err
		}
	}
	return nil
}

func (emu *EMU) tickTimers() {
	if emu.delayTimer > 0 {
		emu.delayTimer--
	}
	if emu.soundTimer > 0 {
		emu.soundTimer--
	}
}

func (emu *EMU) run(ins opcode.Instruction) error {
	emu.logger.Debug("Executing instruction",
		log.Hex("pc", emu.pc),
		log.Stringer("instruction", ins))

	pc := emu.pc
	emu.pc += 2

	if err := emu.execute(ins); err != nil {
		return &Fault{PC: pc, Instruction: ins, Err: err}
	}
	return nil
}

func (emu *EMU) execute(ins opcode.Instruction) error {
	x, y := ins.X&0xF, ins.Y&0xF

	switch ins.Op {
	case opcode.OpClearScreen:
		emu.output.Clear()

	case opcode.OpReturn:
		if emu.sp == 0 {
			return ErrStackUnderflow
		}
		emu.sp--
		emu.pc = emu.stack[emu.sp]

	case opcode.OpGoto:
		emu.pc = uint16(ins.Addr)

	case opcode.OpCall:
		if emu.sp == StackSize {
			return ErrStackOverflow
		}
		emu.stack[emu.sp] = emu.pc
		emu.sp++
		emu.pc = uint16(ins.Addr)

	case opcode.OpSkipEqConst:
		emu.skipIf(emu.V[x] == uint8(ins.Const))
	case opcode.OpSkipNeqConst:
		emu.skipIf(emu.V[x] != uint8(ins.Const))
	case opcode.OpSkipEqReg:
		emu.skipIf(emu.V[x] == emu.V[y])
	case opcode.OpSkipNeqReg:
		emu.skipIf(emu.V[x] != emu.V[y])

	case opcode.OpSetConst:
		emu.V[x] = uint8(ins.Const)
	case opcode.OpAddConst:
		emu.V[x] += uint8(ins.Const)
	case opcode.OpSetReg:
		emu.V[x] = emu.V[y]
	case opcode.OpOr:
		emu.V[x] |= emu.V[y]
	case opcode.OpAnd:
		emu.V[x] &= emu.V[y]
	case opcode.OpXor:
		emu.V[x] ^= emu.V[y]

	case opcode.OpAddReg, opcode.OpSubReg, opcode.OpSubRegReversed,
		opcode.OpShiftRight, opcode.OpShiftLeft:
		emu.arithmetic(ins.Op, x, y)

	case opcode.OpSetI:
		emu.I = uint16(ins.Addr)
	case opcode.OpJumpV0:
		emu.pc = uint16(emu.V[0]) + uint16(ins.Addr)
	case opcode.OpRand:
		emu.V[x] = emu.random.Byte() & uint8(ins.Const)

	case opcode.OpDraw:
		return emu.draw(x, y, int(ins.Const))

	case opcode.OpSkipKeyPressed:
		key, ok := emu.input.Key()
		emu.skipIf(ok && key == emu.V[x])
	case opcode.OpSkipKeyNotPressed:
		key, ok := emu.input.Key()
		emu.skipIf(!ok || key != emu.V[x])

	case opcode.OpSetRegFromDelay:
		emu.V[x] = emu.delayTimer
	case opcode.OpWaitKey:
		key, err := emu.input.WaitKey()
		if err != nil {
			return fmt.Errorf("waiting for key: %w", err)
		}
		emu.V[x] = key
	case opcode.OpSetDelay:
		emu.delayTimer = emu.V[x]
	case opcode.OpSetSound:
		emu.soundTimer = emu.V[x]

	case opcode.OpAddToI:
		emu.I += uint16(emu.V[x])
	case opcode.OpSetIToFontAddr:
		emu.I = GlyphSize * uint16(emu.V[x])

	case opcode.OpStoreBCD:
		if err := emu.checkMemory(3); err != nil {
			return err
		}
		value := emu.V[x]
		emu.memory[emu.I] = value / 100
		emu.memory[emu.I+1] = value / 10 % 10
		emu.memory[emu.I+2] = value % 10

	case opcode.OpRegDump:
		if err := emu.checkMemory(int(x) + 1); err != nil {
			return err
		}
		copy(emu.memory[emu.I:], emu.V[:x+1])
	case opcode.OpRegLoad:
		if err := emu.checkMemory(int(x) + 1); err != nil {
			return err
		}
		copy(emu.V[:x+1], emu.memory[emu.I:])

	default:
		return fmt.Errorf("%w: %v", opcode.ErrInvalidOpcode, ins.Op)
	}
	return nil
}

// arithmetic runs the 8XY_ instructions that set VF. The flag is written
// last so that it wins when X is VF.
func (emu *EMU) arithmetic(op opcode.Op, x, y opcode.Reg) {
	a, b := emu.V[x], emu.V[y]
	var flag uint8

	switch op {
	case opcode.OpAddReg:
		emu.V[x] = a + b
		if uint16(a)+uint16(b) > 0xFF {
			flag = 1
		}
	case opcode.OpSubReg:
		emu.V[x] = a - b
		if a >= b {
			flag = 1
		}
	case opcode.OpSubRegReversed:
		emu.V[x] = b - a
		if b >= a {
			flag = 1
		}
	case opcode.OpShiftRight:
		emu.V[x] = a >> 1
		flag = a & 0x01
	case opcode.OpShiftLeft:
		emu.V[x] = a << 1
		flag = a >> 7
	}

	emu.V[FlagRegister] = flag
}

// draw XORs an n row sprite read from memory at I onto the output at
// (Vx, Vy), most significant bit first. VF is set when a set pixel is
// cleared.
func (emu *EMU) draw(x, y opcode.Reg, rows int) error {
	if err := emu.checkMemory(rows); err != nil {
		return err
	}

	originX, originY := int(emu.V[x]), int(emu.V[y])
	var collision uint8

	for row, sprite := range emu.memory[emu.I : int(emu.I)+rows] {
		for bit := 0; bit < 8; bit++ {
			pixel := sprite >> (7 - bit) & 1
			px, py := originX+bit, originY+row

			old := emu.output.Get(px, py)
			xored := old ^ pixel
			emu.output.Set(px, py, xored)

			if old == 1 && xored == 0 {
				collision = 1
			}
		}
	}

	emu.V[FlagRegister] = collision
	return nil
}

func (emu *EMU) skipIf(condition bool) {
	if condition {
		emu.pc += 2
	}
}

// checkMemory verifies that n bytes starting at I are addressable.
func (emu *EMU) checkMemory(n int) error {
	if int(emu.I)+n > MemorySize {
		return fmt.Errorf("%w: $%03X+%d", ErrMemoryBounds, emu.I, n)
	}
	return nil
}
