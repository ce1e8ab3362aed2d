// Package main implements the CHIP-8 emulator binary with a window or headless mode.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/config"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/emu"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/ui"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

type CLIFlags struct {
	ROMPath string
	ROMsDir string
	Scale   int
	Title   string
	Trace   bool
	Debug   bool
	Quiet   bool
	Paused  bool

	Cycles         int
	Seed           uint64
	QuirkCollision bool
	QuirkFloor     bool
	QuirkKeyStore  bool

	// headless
	Headless bool
	Frames   int
	PNGOut   string
	Expect   string // expected framebuffer CRC32 hex (e.g., "1a2b3c4d")
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to program image (.ch8)")
	flag.StringVar(&f.ROMsDir, "romsdir", "roms", "directory listed by the ROM picker")
	flag.IntVar(&f.Scale, "scale", 10, "window scale")
	flag.StringVar(&f.Title, "title", "chip8emu", "window title")
	flag.BoolVar(&f.Trace, "trace", false, "log every executed instruction, implies -debug")
	flag.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	flag.BoolVar(&f.Quiet, "q", false, "only log errors")
	flag.BoolVar(&f.Paused, "paused", false, "start paused")

	flag.IntVar(&f.Cycles, "cycles", emu.DefaultCyclesPerFrame, "interpreter cycles per frame")
	flag.Uint64Var(&f.Seed, "seed", 0, "random seed, 0 picks one from the clock")
	flag.BoolVar(&f.QuirkCollision, "quirk-collision", false, "DXYN sets VF on collision")
	flag.BoolVar(&f.QuirkFloor, "quirk-floor-timers", false, "timers stop at zero")
	flag.BoolVar(&f.QuirkKeyStore, "quirk-key-store", false, "FX0A stores the pressed key in VX")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run in headless mode")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last framebuffer to PNG at path")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer CRC32 (hex)")
	flag.Parse()
	return f
}

func (f CLIFlags) emuConfig() emu.Config {
	return emu.Config{
		Trace:          f.Trace,
		CyclesPerFrame: f.Cycles,
		Seed:           f.Seed,
		Quirks: cpu.Quirks{
			DrawCollision:    f.QuirkCollision,
			FloorTimers:      f.QuirkFloor,
			KeyWaitStoresKey: f.QuirkKeyStore,
		},
	}
}

func printBanner(logger *log.Logger, quiet bool) {
	if quiet {
		return
	}
	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}
	logger.Info("chip8emu", log.String("version", versionString))
	if date != "" {
		logger.Info("Build", log.String("date", date))
	}
}

func main() {
	ctx := app.Context()
	f := parseFlags()

	logger := config.CreateLogger(f.Debug || f.Trace, f.Quiet)
	printBanner(logger, f.Quiet)

	m := emu.New(f.emuConfig(), logger)
	if f.ROMPath != "" {
		if err := m.LoadROMFromFile(f.ROMPath); err != nil {
			logger.Fatal("Loading program failed", log.Err(err))
		}
	}

	if f.Headless {
		if f.ROMPath == "" {
			logger.Fatal("-rom is required in headless mode")
		}
		if err := runHeadless(ctx, logger, m, f.Frames, f.PNGOut, f.Expect); err != nil {
			logger.Error("Headless run failed", log.Err(err))
			os.Exit(1)
		}
		return
	}

	uiCfg := ui.Config{
		Title:   f.Title,
		Scale:   f.Scale,
		ROMsDir: f.ROMsDir,
		Paused:  f.Paused,
	}
	a := ui.NewApp(uiCfg, m, logger)
	if err := a.Run(); err != nil {
		logger.Fatal("UI stopped", log.Err(err))
	}
}
