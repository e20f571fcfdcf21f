package vm

// Timers defines the delay and sound timers. Both count down by one at
// every 60 Hz tick until they reach zero.
type Timers struct {
	Delay byte
	Sound byte
}

// Tick decrements both timers, stopping at zero.
func (t *Timers) Tick() {
	if t.Delay > 0 {
		t.Delay--
	}
	if t.Sound > 0 {
		t.Sound--
	}
}

// Tone returns true while the sound timer is running.
func (t *Timers) Tone() bool {
	return t.Sound > 0
}
