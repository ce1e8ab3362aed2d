package ui

import (
	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/emu"
	"github.com/hajimehoshi/ebiten/v2"
)

// keypad maps the left side of a QWERTY keyboard onto the hex keypad:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
var keypad = [emu.NumKeys]ebiten.Key{
	0x0: ebiten.KeyX,
	0x1: ebiten.Key1,
	0x2: ebiten.Key2,
	0x3: ebiten.Key3,
	0x4: ebiten.KeyQ,
	0x5: ebiten.KeyW,
	0x6: ebiten.KeyE,
	0x7: ebiten.KeyA,
	0x8: ebiten.KeyS,
	0x9: ebiten.KeyD,
	0xA: ebiten.KeyZ,
	0xB: ebiten.KeyC,
	0xC: ebiten.Key4,
	0xD: ebiten.KeyR,
	0xE: ebiten.KeyF,
	0xF: ebiten.KeyV,
}

// readKeys returns the keypad state given a key state query.
func readKeys(pressed func(ebiten.Key) bool) emu.Keys {
	var k emu.Keys
	for pad, key := range keypad {
		k[pad] = pressed(key)
	}
	return k
}
