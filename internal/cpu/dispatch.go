package cpu

import (
	"fmt"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/bus"
)

type handler func(c *CPU, op Opcode) error

// groups is indexed by the high nibble of the opcode.
var groups = [16]handler{
	0x0: execSystem,
	0x1: execJump,
	0x2: execCall,
	0x3: execSkipEqualImm,
	0x4: execSkipNotEqualImm,
	0x5: execSkipEqualReg,
	0x6: execLoadImm,
	0x7: execAddImm,
	0x8: execALU,
	0x9: execSkipNotEqualReg,
	0xA: execLoadIndex,
	0xB: execJumpOffset,
	0xC: execRandom,
	0xD: execDraw,
	0xE: execKey,
	0xF: execMisc,
}

// aluOps is indexed by the low nibble of 8XYN opcodes.
var aluOps = [16]handler{
	0x0: execMove,
	0x1: execOr,
	0x2: execAnd,
	0x3: execXor,
	0x4: execAddReg,
	0x5: execSub,
	0x6: execShiftRight,
	0x7: execSubReverse,
	0xE: execShiftLeft,
}

// keyOps and miscOps are keyed by the low byte of EXNN and FXNN opcodes.
var keyOps = map[byte]handler{
	0x9E: execSkipKeyPressed,
	0xA1: execSkipKeyNotPressed,
}

var miscOps = map[byte]handler{
	0x07: execLoadDelay,
	0x0A: execWaitKey,
	0x15: execSetDelay,
	0x18: execSetSound,
	0x1E: execAddIndex,
	0x29: execLoadFont,
	0x33: execStoreBCD,
	0x55: execStoreRegisters,
	0x65: execLoadRegisters,
}

// execute dispatches op. Opcodes without a handler are ignored.
func (c *CPU) execute(op Opcode) error {
	return groups[op.Group()](c, op)
}

func (c *CPU) skipIf(cond bool) {
	if cond {
		c.pc += InstrSize
	}
}

func (c *CPU) setFlag(set bool) {
	if set {
		c.v[flagReg] = 1
	} else {
		c.v[flagReg] = 0
	}
}

// 00E0 clears the display, 00EE returns; any other 0NNN machine code call
// has no host code to run and is a no-op.
func execSystem(c *CPU, op Opcode) error {
	switch op {
	case 0x00E0:
		c.display.Clear()
	case 0x00EE:
		if c.sp == 0 {
			return ErrStackUnderflow
		}
		c.sp--
		c.pc = c.stack[c.sp]
	}
	return nil
}

func execJump(c *CPU, op Opcode) error {
	c.pc = op.NNN()
	return nil
}

func execCall(c *CPU, op Opcode) error {
	if c.sp == StackDepth {
		return ErrStackOverflow
	}
	c.stack[c.sp] = c.pc
	c.sp++
	c.pc = op.NNN()
	return nil
}

func execSkipEqualImm(c *CPU, op Opcode) error {
	c.skipIf(c.v[op.X()] == op.NN())
	return nil
}

func execSkipNotEqualImm(c *CPU, op Opcode) error {
	c.skipIf(c.v[op.X()] != op.NN())
	return nil
}

func execSkipEqualReg(c *CPU, op Opcode) error {
	c.skipIf(c.v[op.X()] == c.v[op.Y()])
	return nil
}

func execSkipNotEqualReg(c *CPU, op Opcode) error {
	c.skipIf(c.v[op.X()] != c.v[op.Y()])
	return nil
}

func execLoadImm(c *CPU, op Opcode) error {
	c.v[op.X()] = op.NN()
	return nil
}

func execAddImm(c *CPU, op Opcode) error {
	c.v[op.X()] += op.NN()
	return nil
}

func execALU(c *CPU, op Opcode) error {
	h := aluOps[op.N()]
	if h == nil {
		return nil
	}
	return h(c, op)
}

func execMove(c *CPU, op Opcode) error {
	c.v[op.X()] = c.v[op.Y()]
	return nil
}

func execOr(c *CPU, op Opcode) error {
	c.v[op.X()] |= c.v[op.Y()]
	return nil
}

func execAnd(c *CPU, op Opcode) error {
	c.v[op.X()] &= c.v[op.Y()]
	return nil
}

func execXor(c *CPU, op Opcode) error {
	c.v[op.X()] ^= c.v[op.Y()]
	return nil
}

func execAddReg(c *CPU, op Opcode) error {
	sum := uint16(c.v[op.X()]) + uint16(c.v[op.Y()])
	c.v[op.X()] = byte(sum)
	c.setFlag(sum >= 0x100)
	return nil
}

func execSub(c *CPU, op Opcode) error {
	x := op.X()
	r, noBorrow := subtract(c.v[x], c.v[op.Y()])
	c.v[x] = r
	c.setFlag(noBorrow)
	return nil
}

func execSubReverse(c *CPU, op Opcode) error {
	x := op.X()
	r, noBorrow := subtract(c.v[op.Y()], c.v[x])
	c.v[x] = r
	c.setFlag(noBorrow)
	return nil
}

// subtract computes a-b. A negative result wraps by adding 0xFF, not 0x100.
// Callers store the result before the flag, so the flag wins when X is VF.
func subtract(a, b byte) (byte, bool) {
	r := int(a) - int(b)
	if r < 0 {
		return byte(r + 0xFF), false
	}
	return byte(r), true
}

func execShiftRight(c *CPU, op Opcode) error {
	x := op.X()
	c.v[flagReg] = c.v[x] & 0x01
	c.v[x] >>= 1
	return nil
}

func execShiftLeft(c *CPU, op Opcode) error {
	x := op.X()
	c.v[flagReg] = (c.v[x] & 0x80) >> 7
	c.v[x] <<= 1
	return nil
}

func execLoadIndex(c *CPU, op Opcode) error {
	c.i = op.NNN()
	return nil
}

// BNNN adds V0 to the whole opcode before masking to 12 bits.
func execJumpOffset(c *CPU, op Opcode) error {
	c.pc = (uint16(c.v[0]) + uint16(op)) & 0x0FFF
	return nil
}

func execRandom(c *CPU, op Opcode) error {
	c.v[op.X()] = byte(c.rng.Uint32()) & op.NN()
	return nil
}

// DXYN XORs an N row sprite read from I onto the display at (VX, VY).
// VF is only touched when the DrawCollision quirk is enabled.
func execDraw(c *CPU, op Opcode) error {
	rows, err := c.bus.Slice(c.i, int(op.N()))
	if err != nil {
		return fmt.Errorf("reading sprite: %w", err)
	}
	collision := c.display.DrawSprite(c.v[op.X()], c.v[op.Y()], rows)
	if c.cfg.Quirks.DrawCollision {
		c.setFlag(collision)
	}
	return nil
}

func execKey(c *CPU, op Opcode) error {
	h, ok := keyOps[op.NN()]
	if !ok {
		return nil
	}
	return h(c, op)
}

func execSkipKeyPressed(c *CPU, op Opcode) error {
	c.skipIf(c.key == int(c.v[op.X()]))
	return nil
}

func execSkipKeyNotPressed(c *CPU, op Opcode) error {
	c.skipIf(c.key != int(c.v[op.X()]))
	return nil
}

func execMisc(c *CPU, op Opcode) error {
	h, ok := miscOps[op.NN()]
	if !ok {
		return nil
	}
	return h(c, op)
}

func execLoadDelay(c *CPU, op Opcode) error {
	c.v[op.X()] = byte(c.delay)
	return nil
}

// FX0A blocks dispatch until a key is latched. PC already points past the
// instruction, so execution resumes with the next one.
func execWaitKey(c *CPU, op Opcode) error {
	c.awaiting = true
	c.waitReg = op.X()
	return nil
}

func execSetDelay(c *CPU, op Opcode) error {
	c.delay = int(c.v[op.X()])
	return nil
}

func execSetSound(c *CPU, op Opcode) error {
	c.sound = int(c.v[op.X()])
	return nil
}

func execAddIndex(c *CPU, op Opcode) error {
	sum := c.i + uint16(c.v[op.X()])
	overflow := sum > bus.MaxAddress
	if overflow {
		sum &= bus.MaxAddress
	}
	c.i = sum
	c.setFlag(overflow)
	return nil
}

func execLoadFont(c *CPU, op Opcode) error {
	d := c.v[op.X()]
	if d > 0xF {
		return fmt.Errorf("%w: %#x", ErrInvalidFont, d)
	}
	c.i = bus.FontAddress(d)
	return nil
}

// FX33 stores the decimal digits of VX from I onwards. Leading zero digits
// are not written, so values below 100 touch fewer cells.
func execStoreBCD(c *CPU, op Opcode) error {
	return c.bus.Store(c.i, bcdDigits(c.v[op.X()]))
}

func bcdDigits(v byte) []byte {
	switch {
	case v < 10:
		return []byte{v}
	case v < 100:
		return []byte{v / 10, v % 10}
	default:
		return []byte{v / 100, v / 10 % 10, v % 10}
	}
}

func execStoreRegisters(c *CPU, op Opcode) error {
	return c.bus.Store(c.i, c.v[:op.X()+1])
}

func execLoadRegisters(c *CPU, op Opcode) error {
	src, err := c.bus.Slice(c.i, int(op.X())+1)
	if err != nil {
		return err
	}
	copy(c.v[:], src)
	return nil
}
