package vm

import (
	"strings"

	"github.com/hexaflex/c8/arch"
)

// Frame holds one monochrome image of the display, indexed [y][x].
type Frame [arch.DisplayHeight][arch.DisplayWidth]bool

// String renders the frame as text, one line per row.
func (f *Frame) String() string {
	var sb strings.Builder
	sb.Grow((arch.DisplayWidth + 1) * arch.DisplayHeight)

	for y := range f {
		for _, on := range f[y] {
			if on {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

// Lit returns the number of pixels that are on.
func (f *Frame) Lit() int {
	var n int
	for y := range f {
		for _, on := range f[y] {
			if on {
				n++
			}
		}
	}
	return n
}

// Display defines the 64x32 display buffer.
type Display struct {
	pixels Frame
}

// Clear turns off all pixels.
func (d *Display) Clear() {
	d.pixels = Frame{}
}

// Pixel returns the state of the pixel at the given coordinates. The
// coordinates wrap around the display edges.
func (d *Display) Pixel(x, y int) bool {
	return d.pixels[mod(y, arch.DisplayHeight)][mod(x, arch.DisplayWidth)]
}

// Draw XORs the 8 pixel wide sprite onto the display with its top left
// corner at (x mod 64, y mod 32). Each byte in sprite is one row, most
// significant bit on the left. Pixels past the edges wrap around, unless
// clip is set in which case they are dropped.
//
// Returns true if any pixel was turned off.
func (d *Display) Draw(x, y byte, sprite []byte, clip bool) bool {
	x0 := int(x) % arch.DisplayWidth
	y0 := int(y) % arch.DisplayHeight
	collision := false

	for row, bits := range sprite {
		py := y0 + row
		if py >= arch.DisplayHeight {
			if clip {
				break
			}
			py %= arch.DisplayHeight
		}

		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}

			px := x0 + col
			if px >= arch.DisplayWidth {
				if clip {
					break
				}
				px %= arch.DisplayWidth
			}

			p := &d.pixels[py][px]
			if *p {
				collision = true
			}
			*p = !*p
		}
	}

	return collision
}

// Frame returns a copy of the current display contents.
func (d *Display) Frame() Frame {
	return d.pixels
}

func mod(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
