// Package terminal implements a display and keypad on a text terminal.
//
// Terminals only report key presses, so every press is followed by a
// release once the key has been held for HoldTime without repeating.
package terminal

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/pkg/term"
	"github.com/retroenv/retrogolib/log"

	"github.com/hexaflex/c8/arch"
	"github.com/hexaflex/c8/devices"
	"github.com/hexaflex/c8/vm"
)

// HoldTime is how long a key stays down after its last press. It covers
// the gap before the terminal starts auto repeating a held key.
const HoldTime = 150 * time.Millisecond

// Control bytes that end the session.
const (
	keyEscape = 0x1b
	keyCtrlC  = 0x03
)

// Device defines all internal doodads for the terminal.
type Device struct {
	path    string
	logger  *log.Logger
	tty     *term.Term
	keyFunc devices.KeyFunc
	quit    chan struct{}
	done    chan struct{}
	last    vm.Frame
	drawn   bool

	mu       sync.Mutex
	deadline [arch.KeyCount]time.Time // Release time for held keys.
	quitOnce sync.Once
}

var _ devices.Device = &Device{}

// New creates a new device for the given terminal, usually /dev/tty.
func New(logger *log.Logger, path string) *Device {
	return &Device{
		path:   path,
		logger: logger,
	}
}

// ID returns the device id.
func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Vendor, 0x0005)
}

// Quit is closed when the user asks to end the session.
func (d *Device) Quit() <-chan struct{} {
	return d.quit
}

// Startup switches the terminal to raw mode and starts reading keys.
func (d *Device) Startup(f devices.KeyFunc) error {
	tty, err := term.Open(d.path, term.RawMode)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", d.path)
	}

	// Reads return periodically so the reader notices a shutdown.
	if err = tty.SetReadTimeout(100 * time.Millisecond); err != nil {
		_ = tty.Restore()
		_ = tty.Close()
		return errors.Wrapf(err, "failed to configure %s", d.path)
	}

	d.tty = tty
	d.keyFunc = f
	d.quit = make(chan struct{})
	d.done = make(chan struct{})
	d.quitOnce = sync.Once{}
	d.drawn = false

	_, _ = d.tty.Write([]byte(hideCursor + clearScreen))

	go d.read()
	return nil
}

// Shutdown restores the terminal.
func (d *Device) Shutdown() error {
	if d.tty == nil {
		return nil
	}

	d.signalQuit()
	<-d.done

	_, _ = d.tty.Write([]byte(resetAttrs + showCursor + clearScreen + cursorHome))

	err := d.tty.Restore()
	if cerr := d.tty.Close(); err == nil {
		err = cerr
	}

	d.tty = nil
	return err
}

// Update releases expired keys and redraws the display if it changed.
func (d *Device) Update(s *devices.State) {
	d.releaseKeys(time.Now())

	if d.drawn && s.Display == d.last {
		return
	}

	d.last = s.Display
	d.drawn = true

	if _, err := d.tty.Write([]byte(render(&d.last))); err != nil {
		d.logger.Error("Terminal write failed", log.Err(err))
	}
}

// read handles terminal input until shutdown.
func (d *Device) read() {
	defer close(d.done)

	buf := make([]byte, 32)

	for {
		select {
		case <-d.quit:
			return
		default:
		}

		n, err := d.tty.Read(buf)
		if err != nil {
			d.logger.Error("Terminal read failed", log.Err(err))
			d.signalQuit()
			return
		}

		for _, b := range buf[:n] {
			d.handle(b, time.Now())
		}
	}
}

// handle processes one input byte.
func (d *Device) handle(b byte, now time.Time) {
	switch b {
	case keyEscape, keyCtrlC:
		d.signalQuit()
		return
	}

	key, ok := devices.KeyForRune(rune(b))
	if !ok {
		return
	}

	d.mu.Lock()
	held := !d.deadline[key].IsZero()
	d.deadline[key] = now.Add(HoldTime)
	d.mu.Unlock()

	if !held && d.keyFunc != nil {
		d.keyFunc(key, true)
	}
}

// releaseKeys releases all keys whose hold time expired.
func (d *Device) releaseKeys(now time.Time) {
	var expired []int

	d.mu.Lock()
	for key, t := range d.deadline {
		if !t.IsZero() && now.After(t) {
			d.deadline[key] = time.Time{}
			expired = append(expired, key)
		}
	}
	d.mu.Unlock()

	for _, key := range expired {
		if d.keyFunc != nil {
			d.keyFunc(key, false)
		}
	}
}

func (d *Device) signalQuit() {
	d.quitOnce.Do(func() { close(d.quit) })
}
