// Package disasm renders CHIP-8 instruction words as assembly text for traces.
package disasm

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Lookup returns the instruction matching op, or nil if op is not a known encoding.
func Lookup(op uint16) *chip8.Instruction {
	for _, candidate := range chip8.Opcodes[int(op>>12)] {
		if candidate.Info.Mask&op == candidate.Info.Value {
			return candidate.Instruction
		}
	}
	return nil
}

// Name returns the mnemonic of op, or an empty string for unknown words.
func Name(op uint16) string {
	ins := Lookup(op)
	if ins == nil {
		return ""
	}
	return ins.Name
}

// Format returns op as a mnemonic followed by its operands. Unknown words
// are rendered as data.
func Format(op uint16) string {
	name := Name(op)
	if name == "" {
		return fmt.Sprintf(".word $%04X", op)
	}
	params := operands(op)
	if params == "" {
		return name
	}
	return name + " " + params
}

// operands formats the operand fields of op based on its encoding.
func operands(op uint16) string {
	x := (op >> 8) & 0x0F
	y := (op >> 4) & 0x0F
	nn := op & 0x00FF
	nnn := op & 0x0FFF

	switch op >> 12 {
	case 0x0:
		if op == 0x00E0 || op == 0x00EE {
			return ""
		}
		return fmt.Sprintf("$%03X", nnn)
	case 0x1, 0x2:
		return fmt.Sprintf("$%03X", nnn)
	case 0x3, 0x4, 0x6, 0x7, 0xC:
		return fmt.Sprintf("V%X, $%02X", x, nn)
	case 0x5, 0x9:
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0x8:
		if n := op & 0x000F; n == 0x6 || n == 0xE {
			return fmt.Sprintf("V%X", x)
		}
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0xA:
		return fmt.Sprintf("I, $%03X", nnn)
	case 0xB:
		return fmt.Sprintf("V0, $%03X", nnn)
	case 0xD:
		return fmt.Sprintf("V%X, V%X, $%X", x, y, op&0x000F)
	case 0xE:
		return fmt.Sprintf("V%X", x)
	case 0xF:
		return miscOperands(x, byte(nn))
	}
	return ""
}

func miscOperands(x uint16, nn byte) string {
	switch nn {
	case 0x07:
		return fmt.Sprintf("V%X, DT", x)
	case 0x0A:
		return fmt.Sprintf("V%X, K", x)
	case 0x15:
		return fmt.Sprintf("DT, V%X", x)
	case 0x18:
		return fmt.Sprintf("ST, V%X", x)
	case 0x1E:
		return fmt.Sprintf("I, V%X", x)
	case 0x29:
		return fmt.Sprintf("F, V%X", x)
	case 0x33:
		return fmt.Sprintf("B, V%X", x)
	case 0x55:
		return fmt.Sprintf("[I], V%X", x)
	case 0x65:
		return fmt.Sprintf("V%X, [I]", x)
	}
	return fmt.Sprintf("V%X", x)
}
