package ppu

// Screen dimensions in pixels.
const (
	Width  = 64
	Height = 32
)

// Display is the 64x32 monochrome frame buffer. Pixels are stored row-major,
// one byte per pixel holding 0 (unset) or 1 (set).
type Display struct {
	pix [Width * Height]byte
	// frame counts mutations so observers can skip unchanged frames
	frame uint64
}

// New returns a cleared display.
func New() *Display {
	return &Display{}
}

// Clear resets every pixel to 0.
func (d *Display) Clear() {
	clear(d.pix[:])
	d.frame++
}

// Pixel returns the pixel at (x, y), or 0 outside the screen.
func (d *Display) Pixel(x, y int) byte {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return 0
	}
	return d.pix[y*Width+x]
}

// Pixels returns the row-major pixel slice. It aliases the live buffer and
// is mutated in place by subsequent draws; copy it to retain a frame.
func (d *Display) Pixels() []byte { return d.pix[:] }

// Frame returns the mutation counter.
func (d *Display) Frame() uint64 { return d.frame }

// Lit reports whether any pixel is set.
func (d *Display) Lit() bool {
	for _, p := range d.pix {
		if p != 0 {
			return true
		}
	}
	return false
}

// DrawSprite XORs rows of 8-pixel sprite data onto the screen with the top-left
// corner at (x, y). The most significant bit of each row is the leftmost pixel.
// Coordinates wrap at the screen edges. It reports whether any set pixel was cleared.
func (d *Display) DrawSprite(x, y byte, rows []byte) (collision bool) {
	for row, bits := range rows {
		py := (int(y) + row) % Height
		for bit := 0; bit < 8; bit++ {
			v := (bits >> (7 - bit)) & 1
			if v == 0 {
				continue
			}
			px := (int(x) + bit) % Width
			i := py*Width + px
			if d.pix[i] == 1 {
				collision = true
			}
			d.pix[i] ^= v
		}
	}
	d.frame++
	return collision
}
