package keypad

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/retroenv/retrogolib/assert"

	"github.com/hexaflex/c8/arch"
)

func TestKeyMapping(t *testing.T) {
	d := New(nil, nil)

	assert.Equal(t, glfw.Key1, d.keys[0x1])
	assert.Equal(t, glfw.Key4, d.keys[0xc])
	assert.Equal(t, glfw.KeyQ, d.keys[0x4])
	assert.Equal(t, glfw.KeyX, d.keys[0x0])
	assert.Equal(t, glfw.KeyV, d.keys[0xf])
}

func TestReport(t *testing.T) {
	d := New(nil, nil)

	type event struct {
		key     int
		pressed bool
	}
	var events []event
	d.keyFunc = func(key int, pressed bool) {
		events = append(events, event{key, pressed})
	}

	var pressed [arch.KeyCount]bool
	pressed[5] = true
	d.report(pressed)
	d.report(pressed)

	assert.Equal(t, 1, len(events))
	assert.True(t, events[0] == event{5, true})

	// Disabling releases held keys.
	d.SetEnabled(false)
	assert.Equal(t, 2, len(events))
	assert.True(t, events[1] == event{5, false})
}
