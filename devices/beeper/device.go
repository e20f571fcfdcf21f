// Package beeper plays the sound timer tone through SDL audio.
package beeper

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/hexaflex/c8/devices"
	"github.com/hexaflex/c8/devices/tone"
)

// maxQueued limits the queued audio, in refresh periods, so the tone
// does not lag behind the sound timer.
const maxQueued = 3

// Device defines all internal doodads for the beeper.
type Device struct {
	gen     *tone.Square
	samples []int16
	buf     []byte
	id      sdl.AudioDeviceID
	open    bool
}

var _ devices.Device = &Device{}

// New creates a new device.
func New() *Device {
	return &Device{
		gen:     tone.New(),
		samples: make([]int16, tone.SamplesPerFrame),
		buf:     make([]byte, tone.SamplesPerFrame*2),
	}
}

// ID returns the device id.
func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Vendor, 0x0003)
}

// Startup opens the default audio output.
func (d *Device) Startup(devices.KeyFunc) error {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return errors.Wrapf(err, "sdl audio init failed")
	}

	spec := &sdl.AudioSpec{
		Freq:     tone.SampleRate,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  512,
	}

	var err error
	var obtained sdl.AudioSpec
	d.id, err = sdl.OpenAudioDevice("", false, spec, &obtained, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return errors.Wrapf(err, "failed to open audio device")
	}

	d.open = true
	sdl.PauseAudioDevice(d.id, false)
	return nil
}

// Shutdown closes the audio output.
func (d *Device) Shutdown() error {
	if !d.open {
		return nil
	}

	d.open = false
	sdl.ClearQueuedAudio(d.id)
	sdl.CloseAudioDevice(d.id)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
	return nil
}

// Update queues one refresh period of tone or silence.
func (d *Device) Update(s *devices.State) {
	if !d.open {
		return
	}

	if sdl.GetQueuedAudioSize(d.id) >= uint32(len(d.buf)*maxQueued) {
		return
	}

	d.gen.Fill(d.samples, s.Tone())
	for i, v := range d.samples {
		binary.LittleEndian.PutUint16(d.buf[i*2:], uint16(v))
	}

	// A failed queue only drops this period of audio.
	_ = sdl.QueueAudio(d.id, d.buf)
}
