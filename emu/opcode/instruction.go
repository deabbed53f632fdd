package opcode

import "fmt"

// Reg is a register index in 0x0-0xF.
type Reg uint8

// Const is an 8-bit constant embedded in an instruction.
type Const uint8

// Addr is a 12-bit address embedded in an instruction.
type Addr uint16

// Op identifies one of the CHIP-8 instructions.
type Op uint8

// CHIP-8 instructions. The comment shows the encoding, X and Y are register
// nibbles, NN an 8-bit constant, N a 4-bit constant and NNN an address.
const (
	OpInvalid          Op = iota
	OpClearScreen         // 00E0
	OpReturn              // 00EE
	OpGoto                // 1NNN
	OpCall                // 2NNN
	OpSkipEqConst         // 3XNN
	OpSkipNeqConst        // 4XNN
	OpSkipEqReg           // 5XY0
	OpSetConst            // 6XNN
	OpAddConst            // 7XNN
	OpSetReg              // 8XY0
	OpOr                  // 8XY1
	OpAnd                 // 8XY2
	OpXor                 // 8XY3
	OpAddReg              // 8XY4
	OpSubReg              // 8XY5
	OpShiftRight          // 8XY6
	OpSubRegReversed      // 8XY7
	OpShiftLeft           // 8XYE
	OpSkipNeqReg          // 9XY0
	OpSetI                // ANNN
	OpJumpV0              // BNNN
	OpRand                // CXNN
	OpDraw                // DXYN
	OpSkipKeyPressed      // EX9E
	OpSkipKeyNotPressed   // EXA1
	OpSetRegFromDelay     // FX07
	OpWaitKey             // FX0A
	OpSetDelay            // FX15
	OpSetSound            // FX18
	OpAddToI              // FX1E
	OpSetIToFontAddr      // FX29
	OpStoreBCD            // FX33
	OpRegDump             // FX55
	OpRegLoad             // FX65
)

var opNames = [...]string{
	OpInvalid:           "invalid",
	OpClearScreen:       "cls",
	OpReturn:            "ret",
	OpGoto:              "jp",
	OpCall:              "call",
	OpSkipEqConst:       "se",
	OpSkipNeqConst:      "sne",
	OpSkipEqReg:         "se",
	OpSetConst:          "ld",
	OpAddConst:          "add",
	OpSetReg:            "ld",
	OpOr:                "or",
	OpAnd:               "and",
	OpXor:               "xor",
	OpAddReg:            "add",
	OpSubReg:            "sub",
	OpShiftRight:        "shr",
	OpSubRegReversed:    "subn",
	OpShiftLeft:         "shl",
	OpSkipNeqReg:        "sne",
	OpSetI:              "ld",
	OpJumpV0:            "jp",
	OpRand:              "rnd",
	OpDraw:              "drw",
	OpSkipKeyPressed:    "skp",
	OpSkipKeyNotPressed: "sknp",
	OpSetRegFromDelay:   "ld",
	OpWaitKey:           "ld",
	OpSetDelay:          "ld",
	OpSetSound:          "ld",
	OpAddToI:            "add",
	OpSetIToFontAddr:    "ld",
	OpStoreBCD:          "ld",
	OpRegDump:           "ld",
	OpRegLoad:           "ld",
}

// String returns the conventional mnemonic of the instruction.
func (o Op) String() string {
	if int(o) >= len(opNames) {
		return fmt.Sprintf("op(%d)", uint8(o))
	}
	return opNames[o]
}

// Instruction is a decoded CHIP-8 instruction. Only the operands that the
// Op uses are set, all others are zero.
type Instruction struct {
	Op    Op
	X     Reg
	Y     Reg
	Const Const // NN, or N for Draw
	Addr  Addr
}

// ClearScreen returns the 00E0 instruction.
func ClearScreen() Instruction { return Instruction{Op: OpClearScreen} }

// Return returns the 00EE instruction.
func Return() Instruction { return Instruction{Op: OpReturn} }

// Goto returns a 1NNN instruction.
func Goto(addr Addr) Instruction { return Instruction{Op: OpGoto, Addr: addr} }

// Call returns a 2NNN instruction.
func Call(addr Addr) Instruction { return Instruction{Op: OpCall, Addr: addr} }

// SkipEqConst returns a 3XNN instruction.
func SkipEqConst(x Reg, n Const) Instruction {
	return Instruction{Op: OpSkipEqConst, X: x, Const: n}
}

// SkipNeqConst returns a 4XNN instruction.
func SkipNeqConst(x Reg, n Const) Instruction {
	return Instruction{Op: OpSkipNeqConst, X: x, Const: n}
}

// SkipEqReg returns a 5XY0 instruction.
func SkipEqReg(x, y Reg) Instruction { return Instruction{Op: OpSkipEqReg, X: x, Y: y} }

// SetConst returns a 6XNN instruction.
func SetConst(x Reg, n Const) Instruction {
	return Instruction{Op: OpSetConst, X: x, Const: n}
}

// AddConst returns a 7XNN instruction.
func AddConst(x Reg, n Const) Instruction {
	return Instruction{Op: OpAddConst, X: x, Const: n}
}

// SetReg returns an 8XY0 instruction.
func SetReg(x, y Reg) Instruction { return Instruction{Op: OpSetReg, X: x, Y: y} }

// Or returns an 8XY1 instruction.
func Or(x, y Reg) Instruction { return Instruction{Op: OpOr, X: x, Y: y} }

// And returns an 8XY2 instruction.
func And(x, y Reg) Instruction { return Instruction{Op: OpAnd, X: x, Y: y} }

// Xor returns an 8XY3 instruction.
func Xor(x, y Reg) Instruction { return Instruction{Op: OpXor, X: x, Y: y} }

// AddReg returns an 8XY4 instruction.
func AddReg(x, y Reg) Instruction { return Instruction{Op: OpAddReg, X: x, Y: y} }

// SubReg returns an 8XY5 instruction.
func SubReg(x, y Reg) Instruction { return Instruction{Op: OpSubReg, X: x, Y: y} }

// ShiftRight returns an 8XY6 instruction. Y is ignored on execution.
func ShiftRight(x Reg) Instruction { return Instruction{Op: OpShiftRight, X: x} }

// SubRegReversed returns an 8XY7 instruction.
func SubRegReversed(x, y Reg) Instruction {
	return Instruction{Op: OpSubRegReversed, X: x, Y: y}
}

// ShiftLeft returns an 8XYE instruction. Y is ignored on execution.
func ShiftLeft(x Reg) Instruction { return Instruction{Op: OpShiftLeft, X: x} }

// SkipNeqReg returns a 9XY0 instruction.
func SkipNeqReg(x, y Reg) Instruction { return Instruction{Op: OpSkipNeqReg, X: x, Y: y} }

// SetI returns an ANNN instruction.
func SetI(addr Addr) Instruction { return Instruction{Op: OpSetI, Addr: addr} }

// JumpV0 returns a BNNN instruction.
func JumpV0(addr Addr) Instruction { return Instruction{Op: OpJumpV0, Addr: addr} }

// Rand returns a CXNN instruction.
func Rand(x Reg, mask Const) Instruction { return Instruction{Op: OpRand, X: x, Const: mask} }

// Draw returns a DXYN instruction drawing a sprite of n rows.
func Draw(x, y Reg, n Const) Instruction {
	return Instruction{Op: OpDraw, X: x, Y: y, Const: n}
}

// SkipKeyPressed returns an EX9E instruction.
func SkipKeyPressed(x Reg) Instruction { return Instruction{Op: OpSkipKeyPressed, X: x} }

// SkipKeyNotPressed returns an EXA1 instruction.
func SkipKeyNotPressed(x Reg) Instruction { return Instruction{Op: OpSkipKeyNotPressed, X: x} }

// SetRegFromDelay returns an FX07 instruction.
func SetRegFromDelay(x Reg) Instruction { return Instruction{Op: OpSetRegFromDelay, X: x} }

// WaitKey returns an FX0A instruction.
func WaitKey(x Reg) Instruction { return Instruction{Op: OpWaitKey, X: x} }

// SetDelay returns an FX15 instruction.
func SetDelay(x Reg) Instruction { return Instruction{Op: OpSetDelay, X: x} }

// SetSound returns an FX18 instruction.
func SetSound(x Reg) Instruction { return Instruction{Op: OpSetSound, X: x} }

// AddToI returns an FX1E instruction.
func AddToI(x Reg) Instruction { return Instruction{Op: OpAddToI, X: x} }

// SetIToFontAddr returns an FX29 instruction.
func SetIToFontAddr(x Reg) Instruction { return Instruction{Op: OpSetIToFontAddr, X: x} }

// StoreBCD returns an FX33 instruction.
func StoreBCD(x Reg) Instruction { return Instruction{Op: OpStoreBCD, X: x} }

// RegDump returns an FX55 instruction.
func RegDump(x Reg) Instruction { return Instruction{Op: OpRegDump, X: x} }

// RegLoad returns an FX65 instruction.
func RegLoad(x Reg) Instruction { return Instruction{Op: OpRegLoad, X: x} }

// String formats the instruction in the usual assembler notation, for logs.
func (i Instruction) String() string {
	name := i.Op.String()
	switch i.Op {
	case OpClearScreen, OpReturn, OpInvalid:
		return name
	case OpGoto, OpCall:
		return fmt.Sprintf("%s $%03X", name, uint16(i.Addr))
	case OpSkipEqConst, OpSkipNeqConst, OpSetConst, OpAddConst, OpRand:
		return fmt.Sprintf("%s V%X, $%02X", name, uint8(i.X), uint8(i.Const))
	case OpSkipEqReg, OpSkipNeqReg, OpSetReg, OpOr, OpAnd, OpXor,
		OpAddReg, OpSubReg, OpSubRegReversed:
		return fmt.Sprintf("%s V%X, V%X", name, uint8(i.X), uint8(i.Y))
	case OpShiftRight, OpShiftLeft, OpSkipKeyPressed, OpSkipKeyNotPressed:
		return fmt.Sprintf("%s V%X", name, uint8(i.X))
	case OpSetI:
		return fmt.Sprintf("%s I, $%03X", name, uint16(i.Addr))
	case OpJumpV0:
		return fmt.Sprintf("%s V0, $%03X", name, uint16(i.Addr))
	case OpDraw:
		return fmt.Sprintf("%s V%X, V%X, $%X", name, uint8(i.X), uint8(i.Y), uint8(i.Const))
	case OpSetRegFromDelay:
		return fmt.Sprintf("%s V%X, DT", name, uint8(i.X))
	case OpWaitKey:
		return fmt.Sprintf("%s V%X, K", name, uint8(i.X))
	case OpSetDelay:
		return fmt.Sprintf("%s DT, V%X", name, uint8(i.X))
	case OpSetSound:
		return fmt.Sprintf("%s ST, V%X", name, uint8(i.X))
	case OpAddToI:
		return fmt.Sprintf("%s I, V%X", name, uint8(i.X))
	case OpSetIToFontAddr:
		return fmt.Sprintf("%s F, V%X", name, uint8(i.X))
	case OpStoreBCD:
		return fmt.Sprintf("%s B, V%X", name, uint8(i.X))
	case OpRegDump:
		return fmt.Sprintf("%s [I], V%X", name, uint8(i.X))
	case OpRegLoad:
		return fmt.Sprintf("%s V%X, [I]", name, uint8(i.X))
	}
	return name
}
