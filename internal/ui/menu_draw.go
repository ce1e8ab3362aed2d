package ui

import (
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	lineHeight = 14
	charWidth  = 6 // debug font glyph width
	romListY   = 40
)

var keyHelp = []string{
	"Keypad:  1 2 3 4 -> 1 2 3 C",
	"         Q W E R -> 4 5 6 D",
	"         A S D F -> 7 8 9 E",
	"         Z X C V -> A 0 B F",
	"P: Pause",
	"N: Step frame (when paused)",
	"Tab: Fast-forward",
	"F5: Reset",
	"F12: Screenshot",
	"Esc: Open/Close Menu",
}

func (a *App) drawMainMenu(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, "Menu:", 10, 10)
	for i, s := range mainMenu {
		prefix := "  "
		if i == a.menuIdx {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+s, 10, 10+(i+1)*lineHeight)
	}
}

func (a *App) drawRomMenu(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, truncateText("Select ROM (Enter: load, Esc: back)", a.maxCharsForText(10)), 10, 10)
	// show configured ROMs directory
	ebitenutil.DebugPrintAt(screen, truncateText("Dir: "+a.cfg.ROMsDir, a.maxCharsForText(10)), 10, 24)
	if len(a.romList) == 0 {
		ebitenutil.DebugPrintAt(screen, "No ROMs found", 10, romListY)
		return
	}
	maxRows := a.visibleRows(romListY)
	end := min(a.romOff+maxRows, len(a.romList))
	maxChars := max(a.maxCharsForText(10)-2, 1) // account for "> " prefix
	for i, p := range a.romList[a.romOff:end] {
		prefix := "  "
		if a.romOff+i == a.romSel {
			prefix = "> "
		}
		name := truncateText(filepath.Base(p), maxChars)
		ebitenutil.DebugPrintAt(screen, prefix+name, 10, romListY+i*lineHeight)
	}
	// scroll indicators
	if a.romOff > 0 {
		ebitenutil.DebugPrintAt(screen, "^", 2, romListY)
	}
	if end < len(a.romList) {
		ebitenutil.DebugPrintAt(screen, "v", 2, romListY+(maxRows-1)*lineHeight)
	}
}

func (a *App) drawKeysMenu(screen *ebiten.Image) {
	cursorY := 10
	for _, w := range wrapText("Keybindings (Up/Down to scroll, Esc to return)", a.maxCharsForText(10)) {
		ebitenutil.DebugPrintAt(screen, w, 10, cursorY)
		cursorY += lineHeight
	}
	baseY := cursorY + 4
	maxRows := a.visibleRows(baseY)
	end := min(a.keysOff+maxRows, len(keyHelp))
	for i := a.keysOff; i < end; i++ {
		line := truncateText(keyHelp[i], a.maxCharsForText(10))
		ebitenutil.DebugPrintAt(screen, line, 10, baseY+(i-a.keysOff)*lineHeight)
	}
	if a.keysOff > 0 {
		ebitenutil.DebugPrintAt(screen, "^", 2, baseY)
	}
	if end < len(keyHelp) {
		ebitenutil.DebugPrintAt(screen, "v", 2, baseY+(maxRows-1)*lineHeight)
	}
}

// visibleRows returns how many text lines fit below y.
func (a *App) visibleRows(y int) int {
	return max((a.curH-y)/lineHeight, 1)
}

// maxCharsForText returns how many glyphs fit on a line starting at x.
func (a *App) maxCharsForText(x int) int {
	return max((a.curW-x)/charWidth, 1)
}

func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

// wrapText splits s on spaces into lines of at most n characters. Words
// longer than n are kept on their own line.
func wrapText(s string, n int) []string {
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		if cur.Len() > 0 && cur.Len()+1+len(word) > n {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
