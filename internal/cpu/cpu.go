package cpu

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/bus"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/ppu"
)

const (
	NumRegisters = 16
	StackDepth   = 16
	InstrSize    = 2

	flagReg = 0xF
	keyNone = -1
)

// DrawFunc observes the display once per completed cycle. The display is
// reused and mutated in place by later cycles.
type DrawFunc func(d *ppu.Display)

// Quirks toggle behaviors that differ between CHIP-8 interpreters. The zero
// value keeps the reference behavior.
type Quirks struct {
	DrawCollision    bool // DXYN sets VF when a set pixel is cleared
	FloorTimers      bool // timers stop at zero instead of going negative
	KeyWaitStoresKey bool // FX0A stores the pressed key in VX when unblocking
}

// Config contains settings for a new interpreter.
type Config struct {
	Seed   uint64 // random source seed for CXNN, 0 picks a time based seed
	Quirks Quirks
}

// CPU is the CHIP-8 interpreter. It owns memory, registers, stack, timers,
// the input latch and the display.
type CPU struct {
	cfg     Config
	bus     *bus.Bus
	display *ppu.Display
	draw    DrawFunc
	rng     *rand.Rand

	v     [NumRegisters]byte
	i     uint16
	pc    uint16
	stack [StackDepth]uint16
	sp    int

	delay int
	sound int

	key      int // latched key or keyNone
	awaiting bool
	waitReg  byte
}

// New creates an interpreter in reset state. draw may be nil.
func New(cfg Config, draw DrawFunc) *CPU {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	c := &CPU{
		cfg:     cfg,
		bus:     bus.New(),
		display: ppu.New(),
		draw:    draw,
		rng:     rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
	c.Reset()
	return c
}

// Reset zeroes all machine state, re-seeds the font and clears the display.
func (c *CPU) Reset() {
	c.bus.Reset()
	c.display.Clear()
	c.v = [NumRegisters]byte{}
	c.i = 0
	c.pc = 0
	c.stack = [StackDepth]uint16{}
	c.sp = 0
	c.delay = 0
	c.sound = 0
	c.key = keyNone
	c.awaiting = false
	c.waitReg = 0
}

// LoadProgram places words big-endian from 0x200 and points PC at them.
func (c *CPU) LoadProgram(words []uint16) error {
	if err := c.bus.LoadProgram(words); err != nil {
		return err
	}
	c.pc = bus.ProgramStart
	return nil
}

// Press latches key (0x0-0xF) as the most recently pressed key.
func (c *CPU) Press(key byte) error {
	if key > 0xF {
		return fmt.Errorf("%w: %#x", ErrInvalidKey, key)
	}
	c.key = int(key)
	return nil
}

// Release clears the input latch.
func (c *CPU) Release() { c.key = keyNone }

// Tick runs one cycle: both timers decrement, one instruction is fetched and
// dispatched unless the interpreter is waiting for a key, then the draw
// callback observes the display. A failing instruction aborts the cycle with
// a *Fault and the callback is not invoked.
func (c *CPU) Tick() error {
	c.tickTimers()

	if c.awaiting && c.key != keyNone {
		c.awaiting = false
		if c.cfg.Quirks.KeyWaitStoresKey {
			c.v[c.waitReg] = byte(c.key)
		}
	}

	if !c.awaiting {
		pc := c.pc
		op, err := c.fetch()
		if err != nil {
			return &Fault{PC: pc, Err: err}
		}
		if err := c.execute(op); err != nil {
			return &Fault{PC: pc, Opcode: uint16(op), Err: err}
		}
	}

	if c.draw != nil {
		c.draw(c.display)
	}
	return nil
}

func (c *CPU) tickTimers() {
	if c.cfg.Quirks.FloorTimers {
		if c.delay > 0 {
			c.delay--
		}
		if c.sound > 0 {
			c.sound--
		}
		return
	}
	c.delay--
	c.sound--
}

// fetch reads the word at PC and advances PC by one instruction.
func (c *CPU) fetch() (Opcode, error) {
	w, err := c.bus.Word(c.pc)
	if err != nil {
		return 0, fmt.Errorf("%w: %#03x", ErrPCOutOfRange, c.pc)
	}
	c.pc += InstrSize
	return Opcode(w), nil
}

// SetPC moves the program counter, for tools that start at a custom address.
func (c *CPU) SetPC(pc uint16) { c.pc = pc }

// PC returns the address of the next instruction.
func (c *CPU) PC() uint16 { return c.pc }

// I returns the index register.
func (c *CPU) I() uint16 { return c.i }

// V returns register x.
func (c *CPU) V(x byte) byte { return c.v[x&0x0F] }

// Registers returns a copy of V0-VF.
func (c *CPU) Registers() [NumRegisters]byte { return c.v }

// SP returns the number of saved return addresses.
func (c *CPU) SP() int { return c.sp }

// Stack returns the saved return addresses, oldest first.
func (c *CPU) Stack() []uint16 {
	out := make([]uint16, c.sp)
	copy(out, c.stack[:c.sp])
	return out
}

// DelayTimer returns the delay timer. It may be negative.
func (c *CPU) DelayTimer() int { return c.delay }

// SoundTimer returns the sound timer. It may be negative; consumers should
// treat values <= 0 as silent.
func (c *CPU) SoundTimer() int { return c.sound }

// Key returns the latched key, if any.
func (c *CPU) Key() (byte, bool) {
	if c.key == keyNone {
		return 0, false
	}
	return byte(c.key), true
}

// AwaitingInput reports whether dispatch is blocked on FX0A.
func (c *CPU) AwaitingInput() bool { return c.awaiting }

// Peek returns the byte at addr.
func (c *CPU) Peek(addr uint16) byte { return c.bus.Read(addr) }

// PeekWord returns the instruction word at addr.
func (c *CPU) PeekWord(addr uint16) (uint16, error) { return c.bus.Word(addr) }

// Display returns the display buffer for reading.
func (c *CPU) Display() *ppu.Display { return c.display }
