package cpu

import (
	"errors"
	"testing"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/bus"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/ppu"
	"github.com/retroenv/retrogolib/assert"
)

func run(t *testing.T, c *CPU, op uint16) {
	t.Helper()
	assert.NoError(t, c.execute(Opcode(op)))
}

func TestDispatch_LoadImmediateAllRegisters(t *testing.T) {
	c := New(Config{}, nil)
	for x := range uint16(NumRegisters) {
		for _, nn := range []uint16{0x00, 0x01, 0x7F, 0x80, 0xFF} {
			run(t, c, 0x6000|x<<8|nn)
			assert.Equal(t, byte(nn), c.V(byte(x)))
		}
	}
}

func TestDispatch_AddImmediateWrapsWithoutFlag(t *testing.T) {
	c := New(Config{}, nil)
	c.v[2] = 0xF0
	c.v[flagReg] = 0x55
	run(t, c, 0x7220)
	assert.Equal(t, byte(0x10), c.V(2))
	assert.Equal(t, byte(0x55), c.V(flagReg))
}

func TestDispatch_Jumps(t *testing.T) {
	c := New(Config{}, nil)
	run(t, c, 0x1ABC)
	assert.Equal(t, uint16(0xABC), c.PC())

	// V0 is added to the whole opcode before masking
	c.v[0] = 0x10
	run(t, c, 0xBFF8)
	assert.Equal(t, uint16((0x10+0xBFF8)&0x0FFF), c.PC())
	assert.Equal(t, uint16(0x008), c.PC())
}

func TestDispatch_Skips(t *testing.T) {
	tests := []struct {
		name string
		op   uint16
		vx   byte
		vy   byte
		skip bool
	}{
		{"3XNN equal", 0x3142, 0x42, 0, true},
		{"3XNN differ", 0x3142, 0x41, 0, false},
		{"4XNN equal", 0x4142, 0x42, 0, false},
		{"4XNN differ", 0x4142, 0x41, 0, true},
		{"5XY0 equal", 0x5120, 0x09, 0x09, true},
		{"5XY0 differ", 0x5120, 0x09, 0x08, false},
		{"9XY0 equal", 0x9120, 0x09, 0x09, false},
		{"9XY0 differ", 0x9120, 0x09, 0x08, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCPUWithProgram(t)
			c.v[1] = tt.vx
			c.v[2] = tt.vy
			run(t, c, tt.op)
			want := uint16(bus.ProgramStart)
			if tt.skip {
				want += InstrSize
			}
			assert.Equal(t, want, c.PC())
		})
	}
}

func TestDispatch_Logic(t *testing.T) {
	c := New(Config{}, nil)
	set := func(x, y byte) {
		c.v[1] = x
		c.v[2] = y
	}

	set(0x0F, 0xF0)
	run(t, c, 0x8120)
	assert.Equal(t, byte(0xF0), c.V(1))

	set(0x0C, 0x0A)
	run(t, c, 0x8121)
	assert.Equal(t, byte(0x0E), c.V(1))

	set(0x0C, 0x0A)
	run(t, c, 0x8122)
	assert.Equal(t, byte(0x08), c.V(1))

	set(0x0C, 0x0A)
	run(t, c, 0x8123)
	assert.Equal(t, byte(0x06), c.V(1))
}

func TestDispatch_AddRegisterFlag(t *testing.T) {
	c := New(Config{}, nil)
	for a := range 256 {
		for b := range 256 {
			c.v[1] = byte(a)
			c.v[2] = byte(b)
			run(t, c, 0x8124)
			assert.Equal(t, byte(a+b), c.V(1))
			var want byte
			if a+b >= 256 {
				want = 1
			}
			assert.Equal(t, want, c.V(flagReg))
		}
	}
}

func TestDispatch_Subtract(t *testing.T) {
	tests := []struct {
		name string
		op   uint16
		vx   byte
		vy   byte
		want byte
		flag byte
	}{
		{"8XY5 no borrow", 0x8125, 0x30, 0x10, 0x20, 1},
		{"8XY5 equal", 0x8125, 0x30, 0x30, 0x00, 1},
		{"8XY5 borrow wraps by 0xFF", 0x8125, 0x10, 0x30, 0xDF, 0},
		{"8XY5 borrow by one", 0x8125, 0x00, 0x01, 0xFE, 0},
		{"8XY7 no borrow", 0x8127, 0x10, 0x30, 0x20, 1},
		{"8XY7 borrow wraps by 0xFF", 0x8127, 0x30, 0x10, 0xDF, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Config{}, nil)
			c.v[1] = tt.vx
			c.v[2] = tt.vy
			run(t, c, tt.op)
			assert.Equal(t, tt.want, c.V(1))
			assert.Equal(t, tt.flag, c.V(flagReg))
		})
	}
}

func TestDispatch_FlagWinsWhenTargetIsVF(t *testing.T) {
	c := New(Config{}, nil)
	c.v[flagReg] = 0x30
	c.v[1] = 0x10
	run(t, c, 0x8F15)
	assert.Equal(t, byte(1), c.V(flagReg))

	c.v[flagReg] = 0xFF
	c.v[1] = 0x01
	run(t, c, 0x8F14)
	assert.Equal(t, byte(1), c.V(flagReg))
}

func TestDispatch_Shifts(t *testing.T) {
	c := New(Config{}, nil)
	c.v[1] = 0x81
	run(t, c, 0x8126)
	assert.Equal(t, byte(0x40), c.V(1))
	assert.Equal(t, byte(1), c.V(flagReg))

	c.v[1] = 0x81
	run(t, c, 0x812E)
	assert.Equal(t, byte(0x02), c.V(1))
	assert.Equal(t, byte(1), c.V(flagReg))

	c.v[1] = 0x40
	run(t, c, 0x812E)
	assert.Equal(t, byte(0x80), c.V(1))
	assert.Equal(t, byte(0), c.V(flagReg))

	// the flag is captured first, so the shift is applied to it
	c.v[flagReg] = 0x03
	run(t, c, 0x8FF6)
	assert.Equal(t, byte(0), c.V(flagReg))
}

func TestDispatch_UnknownOpcodesAreNoops(t *testing.T) {
	for _, op := range []uint16{0x0000, 0x0123, 0x00E1, 0x8128, 0xE1FF, 0xF1FF} {
		c := newCPUWithProgram(t)
		c.v[1] = 0x11
		c.v[2] = 0x22
		before := c.Registers()
		run(t, c, op)
		assert.Equal(t, before, c.Registers())
		assert.Equal(t, uint16(bus.ProgramStart), c.PC())
		assert.Equal(t, 0, c.SP())
	}
}

func TestDispatch_RandomIsMasked(t *testing.T) {
	c := New(Config{Seed: 42}, nil)
	for range 64 {
		run(t, c, 0xC30F)
		assert.Equal(t, byte(0), c.V(3)&0xF0)
	}
	run(t, c, 0xC300)
	assert.Equal(t, byte(0), c.V(3))
}

func TestDispatch_RandomIsSeeded(t *testing.T) {
	a := New(Config{Seed: 7}, nil)
	b := New(Config{Seed: 7}, nil)
	for range 16 {
		run(t, a, 0xC0FF)
		run(t, b, 0xC0FF)
		assert.Equal(t, a.V(0), b.V(0))
	}
}

func TestDispatch_DrawIsSelfInverse(t *testing.T) {
	c := New(Config{}, nil)
	c.display.DrawSprite(10, 5, []byte{0x3C})
	before := append([]byte(nil), c.Display().Pixels()...)

	c.v[1] = 8
	c.v[2] = 4
	c.i = bus.FontAddress(0xA)
	run(t, c, 0xD125)
	assert.True(t, c.Display().Lit())
	run(t, c, 0xD125)

	assert.Equal(t, len(before), len(c.Display().Pixels()))
	for k, p := range c.Display().Pixels() {
		assert.Equal(t, before[k], p)
	}
	assert.Equal(t, bus.FontAddress(0xA), c.I())
}

func TestDispatch_DrawCollisionQuirk(t *testing.T) {
	c := New(Config{}, nil)
	c.i = bus.FontAddress(0)
	c.v[flagReg] = 0x77
	run(t, c, 0xD005)
	run(t, c, 0xD005)
	assert.Equal(t, byte(0x77), c.V(flagReg))

	c = New(Config{Quirks: Quirks{DrawCollision: true}}, nil)
	c.i = bus.FontAddress(0)
	run(t, c, 0xD005)
	assert.Equal(t, byte(0), c.V(flagReg))
	run(t, c, 0xD005)
	assert.Equal(t, byte(1), c.V(flagReg))
}

func TestDispatch_DrawSpritePastMemory(t *testing.T) {
	c := New(Config{}, nil)
	c.i = bus.MaxAddress - 1
	err := c.execute(0xD003)
	assert.True(t, errors.Is(err, bus.ErrAddressOutOfRange))
}

func TestDispatch_ClearAfterDraws(t *testing.T) {
	c := New(Config{}, nil)
	for d := range byte(0x10) {
		c.v[0] = d * 4
		c.v[1] = d * 2
		c.i = bus.FontAddress(d)
		run(t, c, 0xD015)
	}
	assert.True(t, c.Display().Lit())

	run(t, c, 0x00E0)
	for y := range ppu.Height {
		for x := range ppu.Width {
			assert.Equal(t, byte(0), c.Display().Pixel(x, y))
		}
	}
}

func TestDispatch_KeySkips(t *testing.T) {
	tests := []struct {
		name  string
		op    uint16
		press int
		skip  bool
	}{
		{"EX9E match", 0xE19E, 0x5, true},
		{"EX9E other key", 0xE19E, 0x6, false},
		{"EX9E released", 0xE19E, keyNone, false},
		{"EXA1 match", 0xE1A1, 0x5, false},
		{"EXA1 other key", 0xE1A1, 0x6, true},
		{"EXA1 released", 0xE1A1, keyNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCPUWithProgram(t)
			c.v[1] = 0x5
			if tt.press != keyNone {
				assert.NoError(t, c.Press(byte(tt.press)))
			}
			run(t, c, tt.op)
			want := uint16(bus.ProgramStart)
			if tt.skip {
				want += InstrSize
			}
			assert.Equal(t, want, c.PC())
		})
	}
}

func TestDispatch_Timers(t *testing.T) {
	c := New(Config{}, nil)
	c.v[4] = 0x3C
	run(t, c, 0xF415)
	run(t, c, 0xF418)
	assert.Equal(t, 0x3C, c.DelayTimer())
	assert.Equal(t, 0x3C, c.SoundTimer())

	run(t, c, 0xF507)
	assert.Equal(t, byte(0x3C), c.V(5))

	// negative timers read back as their low byte
	c.delay = -1
	run(t, c, 0xF507)
	assert.Equal(t, byte(0xFF), c.V(5))
}

func TestDispatch_IndexRegister(t *testing.T) {
	c := New(Config{}, nil)
	run(t, c, 0xA123)
	assert.Equal(t, uint16(0x123), c.I())

	c.v[2] = 0x10
	run(t, c, 0xF21E)
	assert.Equal(t, uint16(0x133), c.I())
	assert.Equal(t, byte(0), c.V(flagReg))

	c.i = 0xFF8
	run(t, c, 0xF21E)
	assert.Equal(t, uint16(0x008), c.I())
	assert.Equal(t, byte(1), c.V(flagReg))
}

func TestDispatch_LoadFont(t *testing.T) {
	c := New(Config{}, nil)
	c.v[3] = 0xA
	run(t, c, 0xF329)
	assert.Equal(t, uint16(0xA*5), c.I())

	c.v[3] = 0x10
	err := c.execute(0xF329)
	assert.True(t, errors.Is(err, ErrInvalidFont))
	assert.Equal(t, uint16(0xA*5), c.I())
}

func TestDispatch_StoreBCD(t *testing.T) {
	tests := []struct {
		v    byte
		want []byte
	}{
		{0xFE, []byte{2, 5, 4}},
		{100, []byte{1, 0, 0}},
		{0x0F, []byte{1, 5}},
		{0x07, []byte{7}},
		{0x00, []byte{0}},
	}
	for _, tt := range tests {
		c := New(Config{}, nil)
		c.v[0] = tt.v
		c.i = 0x500
		for k := range uint16(3) {
			c.bus.Write(0x500+k, 0xAA)
		}

		run(t, c, 0xF033)

		for k := range uint16(3) {
			want := byte(0xAA)
			if int(k) < len(tt.want) {
				want = tt.want[k]
			}
			assert.Equal(t, want, c.Peek(0x500+k))
		}
	}
}

func TestDispatch_StoreBCDScenario(t *testing.T) {
	c := New(Config{}, nil)
	c.v[0] = 0xFE
	c.i = 0x500
	poke(c, 0x000, 0xF033)
	mustTick(t, c, 1)
	assert.Equal(t, byte(2), c.Peek(0x500))
	assert.Equal(t, byte(5), c.Peek(0x501))
	assert.Equal(t, byte(4), c.Peek(0x502))
}

func TestDispatch_StoreBCDPastMemory(t *testing.T) {
	c := New(Config{}, nil)
	c.v[0] = 200
	c.i = bus.MaxAddress - 1
	err := c.execute(0xF033)
	assert.True(t, errors.Is(err, bus.ErrAddressOutOfRange))
	assert.Equal(t, byte(0), c.Peek(bus.MaxAddress-1))
}

func TestDispatch_RegisterDumpRoundTrip(t *testing.T) {
	for x := range uint16(NumRegisters) {
		c := New(Config{}, nil)
		for r := range NumRegisters {
			c.v[r] = byte(0x10 + r*3)
		}
		want := c.Registers()
		c.i = 0x600

		run(t, c, 0xF055|x<<8)
		for r := range uint16(NumRegisters) {
			if r <= x {
				assert.Equal(t, want[r], c.Peek(0x600+r))
				c.v[r] = 0
			} else {
				assert.Equal(t, byte(0), c.Peek(0x600+r))
			}
		}
		run(t, c, 0xF065|x<<8)

		assert.Equal(t, want, c.Registers())
		assert.Equal(t, uint16(0x600), c.I())
	}
}

func TestDispatch_RegisterDumpPastMemory(t *testing.T) {
	c := New(Config{}, nil)
	c.i = bus.MaxAddress - 2
	assert.True(t, errors.Is(c.execute(0xF355), bus.ErrAddressOutOfRange))
	assert.True(t, errors.Is(c.execute(0xF365), bus.ErrAddressOutOfRange))
	assert.NoError(t, c.execute(0xF255))
}
