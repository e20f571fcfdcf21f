// Package keypad implements a keypad driven by the keyboard of a GLFW
// window and, if one is connected, a gamepad.
package keypad

import (
	"unicode"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/c8/arch"
	"github.com/hexaflex/c8/devices"
)

// DefaultButtons maps gamepad buttons to keypad keys. The d-pad covers the
// 2/4/6/8 directions most programs use, the face buttons the keys around them.
var DefaultButtons = map[glfw.GamepadButton]int{
	glfw.ButtonDpadUp:    0x2,
	glfw.ButtonDpadLeft:  0x4,
	glfw.ButtonDpadRight: 0x6,
	glfw.ButtonDpadDown:  0x8,
	glfw.ButtonA:         0x5,
	glfw.ButtonB:         0x6,
	glfw.ButtonX:         0x4,
	glfw.ButtonY:         0x0,
	glfw.ButtonStart:     0xf,
	glfw.ButtonBack:      0xe,
}

// Device defines all internal doodads for the keypad.
type Device struct {
	Buttons  map[glfw.GamepadButton]int // Gamepad to keypad mapping.
	logger   *log.Logger
	window   *glfw.Window
	keys     [arch.KeyCount]glfw.Key // Keyboard key for each keypad key.
	state    [arch.KeyCount]bool     // Last reported key states.
	keyFunc  devices.KeyFunc
	joy      glfw.Joystick
	hasJoy   bool
	disabled bool
}

var _ devices.Device = &Device{}

// New creates a new keypad reading the keyboard of the given window.
func New(logger *log.Logger, window *glfw.Window) *Device {
	d := &Device{
		Buttons: DefaultButtons,
		logger:  logger,
		window:  window,
	}

	// GLFW key codes for digits and letters match their upper case ASCII codes.
	for _, r := range devices.KeyLayout {
		key, _ := devices.KeyForRune(r)
		d.keys[key] = glfw.Key(unicode.ToUpper(r))
	}

	return d
}

// ID returns the device id.
func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Vendor, 0x0002)
}

// Startup initializes device resources.
// It detects any connected gamepad.
func (d *Device) Startup(f devices.KeyFunc) error {
	d.keyFunc = f
	d.state = [arch.KeyCount]bool{}
	glfw.SetJoystickCallback(d.configure)

	// Check if we have a connected gamepad.
	for joy := glfw.Joystick1; joy <= glfw.JoystickLast; joy++ {
		if joy.Present() && joy.IsGamepad() {
			d.configure(joy, glfw.Connected)
			break
		}
	}

	return nil
}

// Shutdown clears up device resources.
func (d *Device) Shutdown() error {
	glfw.SetJoystickCallback(nil)
	d.keyFunc = nil
	return nil
}

// SetEnabled turns keyboard and gamepad polling on or off. Keys that are
// held down are released when the keypad is disabled.
func (d *Device) SetEnabled(v bool) {
	d.disabled = !v
	if d.disabled {
		d.report([arch.KeyCount]bool{})
	}
}

// Update polls the keyboard and gamepad and reports changed keys.
func (d *Device) Update(*devices.State) {
	if d.disabled || d.keyFunc == nil {
		return
	}

	var pressed [arch.KeyCount]bool

	for key, k := range d.keys {
		pressed[key] = d.window.GetKey(k) == glfw.Press
	}

	if d.hasJoy {
		if state := d.joy.GetGamepadState(); state != nil {
			for btn, key := range d.Buttons {
				if state.Buttons[btn] == glfw.Press {
					pressed[key&0xf] = true
				}
			}
		}
	}

	d.report(pressed)
}

// report sends all keys that changed state since the last report.
func (d *Device) report(pressed [arch.KeyCount]bool) {
	for key, v := range pressed {
		if v == d.state[key] {
			continue
		}
		d.state[key] = v
		if d.keyFunc != nil {
			d.keyFunc(key, v)
		}
	}
}

// configure is called whenever a joystick is connected or disconnected from the system.
func (d *Device) configure(joy glfw.Joystick, event glfw.PeripheralEvent) {
	d.hasJoy = event == glfw.Connected && joy.IsGamepad()
	d.joy = joy

	if d.hasJoy {
		d.logger.Info("Gamepad connected", log.String("name", joy.GetGamepadName()))
	} else {
		d.logger.Info("Gamepad disconnected")
	}
}
