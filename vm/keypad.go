package vm

import "github.com/hexaflex/c8/arch"

// Keypad holds the state of the 16-key hexadecimal keypad and the
// wait-for-key suspension marker.
type Keypad struct {
	keys    [arch.KeyCount]bool
	waiting bool // CPU is suspended until a key is pressed.
	target  int  // Register that receives the key.
}

// Pressed returns true if the key with the low nibble of key is held down.
func (k *Keypad) Pressed(key byte) bool {
	return k.keys[key&0xf]
}

// set updates the key state. Returns true on a released to pressed transition.
func (k *Keypad) set(key int, pressed bool) bool {
	was := k.keys[key]
	k.keys[key] = pressed
	return pressed && !was
}

// wait suspends the CPU until the next key press, which is stored in
// register x.
func (k *Keypad) wait(x int) {
	k.waiting = true
	k.target = x
}

// Waiting returns true if the CPU is suspended waiting for a key press.
func (k *Keypad) Waiting() bool {
	return k.waiting
}

// State returns a copy of all key states.
func (k *Keypad) State() [arch.KeyCount]bool {
	return k.keys
}
