package emu

import (
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"os"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/ppu"
)

// Snapshot returns a copy of the current framebuffer as an image.
func (m *Machine) Snapshot() *image.RGBA {
	fb := m.Framebuffer()
	img := &image.RGBA{
		Pix:    make([]byte, len(fb)),
		Stride: 4 * ppu.Width,
		Rect:   image.Rect(0, 0, ppu.Width, ppu.Height),
	}
	copy(img.Pix, fb)
	return img
}

// FramebufferCRC32 returns the IEEE checksum of the RGBA framebuffer.
func (m *Machine) FramebufferCRC32() uint32 {
	return crc32.ChecksumIEEE(m.Framebuffer())
}

// SavePNG writes the current framebuffer to path.
func (m *Machine) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, m.Snapshot()); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding png: %w", err)
	}
	return f.Close()
}
