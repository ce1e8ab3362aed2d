// Package main implements a headless runner that ticks a program and reports how it stopped.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/bus"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/cart"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/config"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/cpu"
	"github.com/retroenv/retrogolib/log"
)

func main() {
	romPath := flag.String("rom", "", "path to program image (.ch8)")
	steps := flag.Int("steps", 1_000_000, "max interpreter cycles to run")
	startPC := flag.Int("pc", bus.ProgramStart, "initial PC value")
	until := flag.Int("until", -1, "stop when PC reaches this address; negative disables")
	trace := flag.Bool("trace", false, "print PC/opcodes")
	timeout := flag.Duration("timeout", 0, "optional wall-clock timeout (e.g. 30s, 2m); 0 disables")
	traceWindow := flag.Int("traceWindow", 32, "number of recent instructions to dump on a fault; 0 disables")
	seed := flag.Uint64("seed", 1, "random seed for CXNN")
	collision := flag.Bool("quirk-collision", false, "DXYN sets VF on collision")
	debug := flag.Bool("debug", false, "enable debug logging")
	quiet := flag.Bool("q", false, "only log errors")
	flag.Parse()

	logger := config.CreateLogger(*debug, *quiet)
	if *romPath == "" {
		logger.Fatal("-rom is required")
	}
	img, err := cart.LoadFile(*romPath)
	if err != nil {
		logger.Fatal("Reading program failed", log.Err(err))
	}

	c := cpu.New(cpu.Config{Seed: *seed, Quirks: cpu.Quirks{DrawCollision: *collision}}, nil)
	if err := c.LoadProgram(img.Words); err != nil {
		logger.Fatal("Loading program failed", log.Err(err))
	}
	pc, err := parseStartPC(*startPC)
	if err != nil {
		logger.Fatal("Invalid start address", log.Err(err))
	}
	c.SetPC(pc)
	logger.Debug("Program loaded",
		log.String("path", *romPath),
		log.Int("words", len(img.Words)),
		log.Hex("crc32", img.CRC32))

	start := time.Now()
	res := run(c, options{
		steps:       *steps,
		until:       *until,
		timeout:     *timeout,
		trace:       *trace,
		traceWindow: *traceWindow,
	}, os.Stdout)

	fmt.Printf("\nDone: %s steps=%d pc=%03X elapsed=%s\n",
		res.reason, res.steps, c.PC(), time.Since(start).Truncate(time.Millisecond))

	switch res.reason {
	case stopFault:
		logger.Error("Interpreter fault", log.Err(res.err))
		os.Exit(1)
	case stopTimeout:
		os.Exit(2)
	}
}

var errStartPCRange = errors.New("start address outside memory")

// parseStartPC validates the -pc flag against the addressable range.
func parseStartPC(v int) (uint16, error) {
	if v < 0 || v > bus.MaxAddress {
		return 0, fmt.Errorf("%w: $%X, max $%03X", errStartPCRange, v, bus.MaxAddress)
	}
	return uint16(v), nil
}
