// Package devices defines the host peripherals attached to a machine:
// displays, keypads and audio outputs.
package devices

import (
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/c8/vm"
)

// KeyFunc represents a keypad input handler. Input devices call it to
// report key 0-F being pressed or released.
type KeyFunc func(key int, pressed bool)

// State holds the machine output a device sees once per refresh.
type State struct {
	Display vm.Frame // Current display contents.
	Sound   byte     // Sound timer value.
	Running bool     // Is the machine executing instructions?
}

// Tone returns true while the sound timer is running.
func (s *State) Tone() bool {
	return s.Running && s.Sound > 0
}

// Device represents a host peripheral.
type Device interface {
	// ID yields the manufacturer and serial number for the device.
	ID() ID

	// Startup initializes internal resources.
	//
	// KeyFunc represents a key handler the device can use to send
	// keypad input to the machine.
	Startup(KeyFunc) error

	// Shutdown cleans up internal resources.
	Shutdown() error

	// Update is called once per display refresh with the current
	// machine state.
	Update(*State)
}

// Map contains a list of registered peripherals.
type Map []Device

// Connect adds the given device to the device map.
// Returns false if the device type is already present in the set.
func (dm *Map) Connect(dev Device) bool {
	if (*dm).Find(dev.ID()) > -1 {
		return false
	}

	*dm = append(*dm, dev)
	return true
}

// Startup initializes internal resources.
func (dm Map) Startup(logger *log.Logger, f KeyFunc) error {
	var errorset ErrorSet

	for _, dev := range dm {
		logger.Debug("Device startup", log.String("device", dev.ID().String()))
		if err := dev.Startup(f); err != nil {
			errorset.Append(errors.Wrapf(err, "%s", dev.ID()))
		}
	}

	return errorset.Err()
}

// Shutdown cleans up internal resources.
func (dm Map) Shutdown(logger *log.Logger) error {
	var errorset ErrorSet

	for _, dev := range dm {
		logger.Debug("Device shutdown", log.String("device", dev.ID().String()))
		if err := dev.Shutdown(); err != nil {
			errorset.Append(errors.Wrapf(err, "%s", dev.ID()))
		}
	}

	return errorset.Err()
}

// Update passes the machine state to all devices.
func (dm Map) Update(s *State) {
	for _, dev := range dm {
		dev.Update(s)
	}
}

// Find returns the index for the device with the given id.
// Returns -1 if it can't be found.
func (dm Map) Find(id ID) int {
	for i, dev := range dm {
		if dev.ID() == id {
			return i
		}
	}
	return -1
}
