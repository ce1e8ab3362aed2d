package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/emu"
	"github.com/retroenv/retrogolib/log"
)

func runHeadless(ctx context.Context, logger *log.Logger, m *emu.Machine, frames int, pngPath, expectCRC string) error {
	if frames <= 0 {
		frames = 1
	}

	start := time.Now()
	ran := 0
	for ran < frames {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("interrupted after %d frames: %w", ran, err)
		}
		if err := m.StepFrame(); err != nil {
			return fmt.Errorf("frame %d: %w", ran, err)
		}
		ran++
	}
	dur := time.Since(start)

	crc := m.FramebufferCRC32()
	logger.Info("Headless run finished",
		log.Int("frames", ran),
		log.String("elapsed", dur.Truncate(time.Millisecond).String()),
		log.String("fb_crc32", fmt.Sprintf("%08x", crc)))

	if pngPath != "" {
		if err := m.SavePNG(pngPath); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		logger.Info("Wrote framebuffer", log.String("path", pngPath))
	}

	if expectCRC != "" {
		return matchCRC(crc, expectCRC)
	}
	return nil
}

// matchCRC compares got with a hex checksum given with or without 0x prefix.
func matchCRC(got uint32, want string) error {
	s := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(want)), "0x")
	w, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("invalid expected checksum %q: %w", want, err)
	}
	if uint32(w) != got {
		return fmt.Errorf("checksum mismatch: got %08x, want %08x", got, w)
	}
	return nil
}
