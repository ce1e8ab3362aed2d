package ui

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/retrogolib/log"
)

// mainMenu lists the main menu entries in display order.
var mainMenu = []string{"Resume", "Reset", "Switch ROM", "Keybindings", "Exit"}

// romExtensions are the file extensions offered by the ROM picker.
var romExtensions = []string{".ch8", ".c8", ".rom"}

func (a *App) updateMainMenu() {
	last := len(mainMenu) - 1
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < last {
		a.menuIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		switch a.menuIdx {
		case 0:
			a.showMenu = false
		case 1:
			a.reset()
			a.showMenu = false
		case 2:
			a.romList = findROMs(a.cfg.ROMsDir)
			a.romSel = 0
			a.romOff = 0
			a.menuMode = "rom"
		case 3:
			a.menuMode = "keys"
			a.keysOff = 0
		case 4:
			a.quit = true
		}
	}
	// Back with Backspace
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.showMenu = false
	}
}

func (a *App) updateRomMenu() {
	n := len(a.romList)
	back := inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace)
	if n == 0 {
		if back || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			a.menuMode = "main"
		}
		return
	}
	// compute window to maintain selection visibility
	maxRows := a.visibleRows(romListY)
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.romSel > 0 {
		a.romSel--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.romSel < n-1 {
		a.romSel++
	}
	if a.romSel < a.romOff {
		a.romOff = a.romSel
	}
	if a.romSel >= a.romOff+maxRows {
		a.romOff = a.romSel - maxRows + 1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		path := a.romList[a.romSel]
		if err := a.m.LoadROMFromFile(path); err != nil {
			a.logger.Error("Loading ROM failed", log.String("path", path), log.Err(err))
			a.toast("ROM load failed: " + err.Error())
		} else {
			a.lastFault = nil
			ebiten.SetWindowTitle(a.windowTitle())
			a.toast("Loaded ROM: " + filepath.Base(path))
			a.showMenu = false
		}
		a.menuMode = "main"
	}
	if back {
		a.menuMode = "main"
	}
}

func (a *App) updateKeysMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.keysOff > 0 {
		a.keysOff--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.keysOff < len(keyHelp)-1 {
		a.keysOff++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.menuMode = "main"
	}
}

// findROMs returns the sorted paths of program files directly inside dir.
func findROMs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var roms []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if slices.Contains(romExtensions, ext) {
			roms = append(roms, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(roms)
	return roms
}
