package ui

import (
	"image/color"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/ppu"
)

// Config contains window and input related settings.
type Config struct {
	Title    string     // window title
	Scale    int        // integer upscaling factor
	ROMsDir  string     // directory to browse for ROMs
	Paused   bool       // start paused
	OnColor  color.RGBA // lit pixel color
	OffColor color.RGBA // unlit pixel color
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "chip8emu"
	}
	if c.Scale <= 0 {
		c.Scale = 10
	}
	if c.ROMsDir == "" {
		c.ROMsDir = "roms"
	}
	// an all-zero color is not a usable choice, it has no alpha
	if c.OnColor == (color.RGBA{}) {
		c.OnColor = ppu.DefaultPalette.On
	}
	if c.OffColor == (color.RGBA{}) {
		c.OffColor = ppu.DefaultPalette.Off
	}
}

// Palette returns the configured display colors.
func (c Config) Palette() ppu.Palette {
	return ppu.Palette{On: c.OnColor, Off: c.OffColor}
}
