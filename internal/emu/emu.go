package emu

import (
	"errors"
	"fmt"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/cart"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/disasm"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/ppu"
	"github.com/retroenv/retrogolib/log"
)

// ErrNoProgram is returned when stepping a machine that has no program loaded.
var ErrNoProgram = errors.New("no program loaded")

// NumKeys is the size of the hex keypad.
const NumKeys = 16

// Keys holds the held state of keypad keys 0x0-0xF.
type Keys [NumKeys]bool

// Machine wires an interpreter to a program image, an RGBA framebuffer and
// keypad state for front-ends.
type Machine struct {
	cfg    Config
	logger *log.Logger
	cpu    *cpu.CPU

	fb        []byte // RGBA 64x32*4
	palette   ppu.Palette
	dirty     bool
	lastFrame uint64

	image   *cart.Image
	romPath string
	fault   error
}

// New creates a machine without a program.
func New(cfg Config, logger *log.Logger) *Machine {
	m := &Machine{
		cfg:     cfg,
		logger:  logger,
		fb:      make([]byte, ppu.FramebufferSize),
		palette: ppu.DefaultPalette,
		dirty:   true,
	}
	m.cpu = cpu.New(cpu.Config{Seed: cfg.Seed, Quirks: cfg.Quirks}, m.onDraw)
	return m
}

// onDraw marks the framebuffer stale when the display changed since the last cycle.
func (m *Machine) onDraw(d *ppu.Display) {
	if f := d.Frame(); f != m.lastFrame {
		m.lastFrame = f
		m.dirty = true
	}
}

// LoadROM parses rom and starts it from a fresh interpreter state.
func (m *Machine) LoadROM(rom []byte) error {
	img, err := cart.Parse(rom)
	if err != nil {
		return err
	}
	if err := m.load(img); err != nil {
		return err
	}
	m.romPath = ""
	return nil
}

// LoadROMFromFile reads a program image from disk and starts it.
func (m *Machine) LoadROMFromFile(path string) error {
	img, err := cart.LoadFile(path)
	if err != nil {
		return err
	}
	if err := m.load(img); err != nil {
		return err
	}
	m.romPath = path
	return nil
}

func (m *Machine) load(img *cart.Image) error {
	m.cpu.Reset()
	if err := m.cpu.LoadProgram(img.Words); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	m.image = img
	m.fault = nil
	m.logger.Info("Program loaded",
		log.Int("size", img.Size),
		log.Int("words", len(img.Words)),
		log.Hex("crc32", img.CRC32))
	return nil
}

// ROMPath returns the path of the loaded program, if it was read from disk.
func (m *Machine) ROMPath() string { return m.romPath }

// Image returns the loaded program image, or nil.
func (m *Machine) Image() *cart.Image { return m.image }

// Reset restarts the loaded program from a fresh interpreter state and
// clears a latched fault.
func (m *Machine) Reset() error {
	m.cpu.Reset()
	m.fault = nil
	if m.image != nil {
		if err := m.cpu.LoadProgram(m.image.Words); err != nil {
			return fmt.Errorf("reloading program: %w", err)
		}
	}
	m.logger.Debug("Machine reset")
	return nil
}

// Step runs a single interpreter cycle. After a fault the machine stops and
// keeps returning that fault until it is reset or a program is loaded.
func (m *Machine) Step() error {
	if m.fault != nil {
		return m.fault
	}
	if m.image == nil {
		return ErrNoProgram
	}

	if m.cfg.Trace && !m.cpu.AwaitingInput() {
		m.trace()
	}

	if err := m.cpu.Tick(); err != nil {
		m.fault = err
		m.logger.Error("Interpreter fault",
			log.Hex("pc", m.cpu.PC()),
			log.Err(err))
		return err
	}
	return nil
}

func (m *Machine) trace() {
	pc := m.cpu.PC()
	op, err := m.cpu.PeekWord(pc)
	if err != nil {
		return
	}
	m.logger.Debug("Executing",
		log.Hex("pc", pc),
		log.Hex("opcode", op),
		log.String("instruction", disasm.Format(op)))
}

// StepFrame runs one frame worth of cycles, stopping early on a fault.
func (m *Machine) StepFrame() error {
	for range m.cfg.cyclesPerFrame() {
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Framebuffer returns the display as RGBA bytes. The slice is reused
// between calls.
func (m *Machine) Framebuffer() []byte {
	if m.dirty {
		ppu.RenderRGBA(m.cpu.Display(), m.palette, m.fb)
		m.dirty = false
	}
	return m.fb
}

// SetPalette changes the colors used by Framebuffer.
func (m *Machine) SetPalette(p ppu.Palette) {
	m.palette = p
	m.dirty = true
}

// SetKeys maps held keypad keys onto the single key input latch. The lowest
// held key is latched; the latch is released when no key is held.
func (m *Machine) SetKeys(k Keys) {
	for i, held := range k {
		if held {
			_ = m.cpu.Press(byte(i))
			return
		}
	}
	m.cpu.Release()
}

// Fault returns the latched interpreter fault, or nil.
func (m *Machine) Fault() error { return m.fault }

// CPU exposes the interpreter for inspection.
func (m *Machine) CPU() *cpu.CPU { return m.cpu }

// SoundActive reports whether the sound timer is running. Negative timer
// values count as expired.
func (m *Machine) SoundActive() bool { return m.cpu.SoundTimer() > 0 }
