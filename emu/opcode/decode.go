package opcode

import (
	"errors"
	"fmt"
)

// ErrInvalidOpcode is wrapped by every DecodeError.
var ErrInvalidOpcode = errors.New("invalid opcode")

// DecodeError reports an instruction word that matches no CHIP-8 opcode.
type DecodeError struct {
	Word Word
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %04X", ErrInvalidOpcode, e.Word.Value())
}

func (e *DecodeError) Unwrap() error {
	return ErrInvalidOpcode
}

// Decode maps the two bytes of an instruction word to an Instruction. Words
// that are not one of the 34 supported CHIP-8 opcodes return a *DecodeError,
// this includes 0NNN (SYS) which calls machine code and is rejected.
func Decode(high, low uint8) (Instruction, error) {
	w := NewWord(high, low)
	n := w.Nibbles()
	x, y := Reg(n[1]), Reg(n[2])
	nn := Const(w.Low())
	addr := Addr(w.Addr())

	switch n[0] {
	case 0x0:
		switch w.Value() {
		case 0x00E0:
			return ClearScreen(), nil
		case 0x00EE:
			return Return(), nil
		}

	case 0x1:
		return Goto(addr), nil
	case 0x2:
		return Call(addr), nil
	case 0x3:
		return SkipEqConst(x, nn), nil
	case 0x4:
		return SkipNeqConst(x, nn), nil

	case 0x5:
		if n[3] == 0 {
			return SkipEqReg(x, y), nil
		}

	case 0x6:
		return SetConst(x, nn), nil
	case 0x7:
		return AddConst(x, nn), nil

	case 0x8:
		if ins, ok := decodeALU(n[3], x, y); ok {
			return ins, nil
		}

	case 0x9:
		if n[3] == 0 {
			return SkipNeqReg(x, y), nil
		}

	case 0xA:
		return SetI(addr), nil
	case 0xB:
		return JumpV0(addr), nil
	case 0xC:
		return Rand(x, nn), nil
	case 0xD:
		return Draw(x, y, Const(n[3])), nil

	case 0xE:
		switch w.Low() {
		case 0x9E:
			return SkipKeyPressed(x), nil
		case 0xA1:
			return SkipKeyNotPressed(x), nil
		}

	case 0xF:
		if ins, ok := decodeMisc(w.Low(), x); ok {
			return ins, nil
		}
	}

	return Instruction{}, &DecodeError{Word: w}
}

// decodeALU handles the 8XYN family that shares the (X, Y) operand shape.
func decodeALU(n uint8, x, y Reg) (Instruction, bool) {
	switch n {
	case 0x0:
		return SetReg(x, y), true
	case 0x1:
		return Or(x, y), true
	case 0x2:
		return And(x, y), true
	case 0x3:
		return Xor(x, y), true
	case 0x4:
		return AddReg(x, y), true
	case 0x5:
		return SubReg(x, y), true
	case 0x6:
		return ShiftRight(x), true
	case 0x7:
		return SubRegReversed(x, y), true
	case 0xE:
		return ShiftLeft(x), true
	}
	return Instruction{}, false
}

// decodeMisc handles the FXNN family.
func decodeMisc(nn uint8, x Reg) (Instruction, bool) {
	switch nn {
	case 0x07:
		return SetRegFromDelay(x), true
	case 0x0A:
		return WaitKey(x), true
	case 0x15:
		return SetDelay(x), true
	case 0x18:
		return SetSound(x), true
	case 0x1E:
		return AddToI(x), true
	case 0x29:
		return SetIToFontAddr(x), true
	case 0x33:
		return StoreBCD(x), true
	case 0x55:
		return RegDump(x), true
	case 0x65:
		return RegLoad(x), true
	}
	return Instruction{}, false
}
