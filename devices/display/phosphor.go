package display

import (
	"github.com/hexaflex/c8/arch"
	"github.com/hexaflex/c8/vm"
)

// Phosphor decay applied to unlit pixels on every refresh.
const (
	decayRate = 0.3 // Fraction of the remaining intensity lost per refresh.
	decayMin  = 5   // Intensities closer than this to zero snap to zero.
)

// phosphor holds per-pixel intensities for the display texture.
type phosphor [arch.DisplayWidth * arch.DisplayHeight]byte

// update sets lit pixels to full intensity. Unlit pixels either fade
// out or turn off immediately.
func (p *phosphor) update(f *vm.Frame, fade bool) {
	i := 0
	for y := range f {
		for _, on := range f[y] {
			switch {
			case on:
				p[i] = 0xff
			case fade:
				p[i] = decay(p[i])
			default:
				p[i] = 0
			}
			i++
		}
	}
}

func decay(v byte) byte {
	if v < decayMin {
		return 0
	}
	return byte(float32(v) - float32(v)*decayRate)
}
