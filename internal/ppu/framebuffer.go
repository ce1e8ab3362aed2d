package ppu

import "image/color"

// FramebufferSize is the byte length of an RGBA frame.
const FramebufferSize = Width * Height * 4

// Palette maps the two pixel states to colors.
type Palette struct {
	On, Off color.RGBA
}

// DefaultPalette is white pixels on black.
var DefaultPalette = Palette{
	On:  color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	Off: color.RGBA{A: 0xFF},
}

// RenderRGBA converts the display into dst, which must hold FramebufferSize bytes.
func RenderRGBA(d *Display, pal Palette, dst []byte) {
	_ = dst[FramebufferSize-1]
	for i, p := range d.pix {
		c := pal.Off
		if p != 0 {
			c = pal.On
		}
		j := i * 4
		dst[j+0], dst[j+1], dst[j+2], dst[j+3] = c.R, c.G, c.B, c.A
	}
}
