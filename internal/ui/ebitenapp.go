package ui

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"time"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/emu"
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/ppu"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/retrogolib/log"
)

const (
	fastForwardFrames = 5
	toastDuration     = 2 * time.Second
)

// soundColor is the border color while the sound timer runs.
var soundColor = color.RGBA{R: 0xE0, G: 0x70, B: 0x20, A: 0xFF}

type App struct {
	cfg    Config
	m      *emu.Machine
	logger *log.Logger
	tex    *ebiten.Image
	shade  *ebiten.Image
	paused bool
	fast   bool
	quit   bool

	// logical screen size including the border
	curW, curH int
	border     int

	// overlay/menu
	showMenu bool
	menuMode string // "main", "rom" or "keys"
	menuIdx  int
	romList  []string
	romSel   int
	romOff   int
	keysOff  int

	toastMsg   string
	toastUntil time.Time
	lastFault  error
}

func NewApp(cfg Config, m *emu.Machine, logger *log.Logger) *App {
	cfg.Defaults()
	border := cfg.Scale
	a := &App{
		cfg:      cfg,
		m:        m,
		logger:   logger,
		paused:   cfg.Paused,
		border:   border,
		curW:     ppu.Width*cfg.Scale + 2*border,
		curH:     ppu.Height*cfg.Scale + 2*border,
		menuMode: "main",
	}
	m.SetPalette(cfg.Palette())
	ebiten.SetWindowTitle(a.windowTitle())
	ebiten.SetWindowSize(a.curW, a.curH)
	ebiten.SetTPS(60)
	return a
}

func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) Update() error {
	if a.quit {
		return ebiten.Termination
	}

	// Toggle menu (Escape); submenus handle Escape themselves
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && (!a.showMenu || a.menuMode == "main") {
		a.showMenu = !a.showMenu
		a.menuMode = "main"
		a.menuIdx = 0
		return nil
	}
	if a.showMenu {
		switch a.menuMode {
		case "rom":
			a.updateRomMenu()
		case "keys":
			a.updateKeysMenu()
		default:
			a.updateMainMenu()
		}
		return nil
	}

	a.m.SetKeys(readKeys(ebiten.IsKeyPressed))

	// Pause toggle (P)
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}

	// Fast-forward (Tab): while held, run multiple frames per Ebiten update
	a.fast = ebiten.IsKeyPressed(ebiten.KeyTab)

	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		a.reset()
	}

	// Screenshot (F12)
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		a.saveScreenshot()
	}

	// Frame-step when paused (N)
	if a.paused {
		if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			a.runFrames(1)
		}
		return nil
	}

	frames := 1
	if a.fast {
		frames = fastForwardFrames
	}
	a.runFrames(frames)
	return nil
}

func (a *App) runFrames(n int) {
	for range n {
		err := a.m.StepFrame()
		if err == nil {
			continue
		}
		if !errors.Is(err, emu.ErrNoProgram) && err != a.lastFault {
			a.lastFault = err
			a.toast("Stopped: " + err.Error())
		}
		return
	}
}

func (a *App) reset() {
	a.lastFault = nil
	if err := a.m.Reset(); err != nil {
		a.logger.Error("Reset failed", log.Err(err))
		a.toast("Reset failed: " + err.Error())
		return
	}
	a.toast("Reset")
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.m.SoundActive() {
		screen.Fill(soundColor)
	} else {
		screen.Fill(a.cfg.OffColor)
	}

	if a.tex == nil {
		a.tex = ebiten.NewImage(ppu.Width, ppu.Height)
	}
	a.tex.WritePixels(a.m.Framebuffer())
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(a.cfg.Scale), float64(a.cfg.Scale))
	op.GeoM.Translate(float64(a.border), float64(a.border))
	screen.DrawImage(a.tex, op)

	switch {
	case a.m.Image() == nil && !a.showMenu:
		ebitenutil.DebugPrintAt(screen, "No ROM loaded. Esc: Menu", a.border+4, a.border+4)
	case a.paused && !a.showMenu:
		ebitenutil.DebugPrintAt(screen, "PAUSED", a.border+4, a.border+4)
	}

	if a.showMenu {
		if a.shade == nil {
			a.shade = ebiten.NewImage(a.curW, a.curH)
			a.shade.Fill(color.RGBA{A: 0xC0})
		}
		screen.DrawImage(a.shade, nil)
		switch a.menuMode {
		case "rom":
			a.drawRomMenu(screen)
		case "keys":
			a.drawKeysMenu(screen)
		default:
			a.drawMainMenu(screen)
		}
	}

	if a.toastMsg != "" && time.Now().Before(a.toastUntil) {
		msg := truncateText(a.toastMsg, a.maxCharsForText(10))
		ebitenutil.DebugPrintAt(screen, msg, 10, a.curH-20)
	}
}

func (a *App) Layout(outW, outH int) (int, int) { return a.curW, a.curH }

func (a *App) toast(msg string) {
	a.toastMsg = msg
	a.toastUntil = time.Now().Add(toastDuration)
}

func (a *App) windowTitle() string {
	if p := a.m.ROMPath(); p != "" {
		return a.cfg.Title + " - [" + filepath.Base(p) + "]"
	}
	return a.cfg.Title
}

func (a *App) saveScreenshot() {
	ts := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("screenshot_%s.png", ts)
	if err := a.m.SavePNG(name); err != nil {
		a.logger.Error("Saving screenshot failed", log.Err(err))
		a.toast("Screenshot failed: " + err.Error())
		return
	}
	a.logger.Info("Saved screenshot", log.String("path", name))
	a.toast("Saved " + name)
}
