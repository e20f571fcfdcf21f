package display

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/hexaflex/c8/arch"
	"github.com/hexaflex/c8/vm"
)

func TestPhosphor(t *testing.T) {
	var p phosphor
	var f vm.Frame

	f[0][1] = true
	f[1][0] = true
	p.update(&f, true)

	assert.Equal(t, byte(0), p[0])
	assert.Equal(t, byte(0xff), p[1])
	assert.Equal(t, byte(0xff), p[arch.DisplayWidth])

	// Unlit pixels fade out over a few refreshes.
	f[0][1] = false
	p.update(&f, true)
	assert.Equal(t, byte(178), p[1])
	assert.Equal(t, byte(0xff), p[arch.DisplayWidth])

	for i := 0; i < 20; i++ {
		p.update(&f, true)
	}
	assert.Equal(t, byte(0), p[1])

	f[0][1] = true
	p.update(&f, true)
	f[0][1] = false
	p.update(&f, false)
	assert.Equal(t, byte(0), p[1])
}

func TestRGB(t *testing.T) {
	c := RGB(255, 0, 51)
	assert.Equal(t, float32(1), c[0])
	assert.Equal(t, float32(0), c[1])
	assert.Equal(t, float32(0.2), c[2])
}
