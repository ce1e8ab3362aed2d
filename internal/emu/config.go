package emu

import "github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/cpu"

// DefaultCyclesPerFrame is the number of interpreter cycles run per 60 Hz frame.
const DefaultCyclesPerFrame = 10

// Config contains settings that affect emulation behavior.
type Config struct {
	Trace          bool   // log every executed instruction at debug level
	CyclesPerFrame int    // cycles per StepFrame, 0 uses DefaultCyclesPerFrame
	Seed           uint64 // random source seed, 0 picks a time based seed
	Quirks         cpu.Quirks
}

func (c Config) cyclesPerFrame() int {
	if c.CyclesPerFrame <= 0 {
		return DefaultCyclesPerFrame
	}
	return c.CyclesPerFrame
}
