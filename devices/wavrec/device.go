// Package wavrec records the sound timer tone to a WAV file.
package wavrec

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"

	"github.com/hexaflex/c8/devices"
	"github.com/hexaflex/c8/devices/tone"
)

// Known output format.
const (
	BitDepth    = 16
	NumChannels = 1
	pcmFormat   = 1
)

// Device defines all internal doodads for the recorder.
type Device struct {
	path    string
	gen     *tone.Square
	samples []int16
	data    []int // Recorded samples, written out at shutdown.
}

var _ devices.Device = &Device{}

// New creates a recorder writing to the given file.
func New(path string) *Device {
	return &Device{
		path:    path,
		gen:     tone.New(),
		samples: make([]int16, tone.SamplesPerFrame),
	}
}

// ID returns the device id.
func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Vendor, 0x0004)
}

// Startup discards any previous recording.
func (d *Device) Startup(devices.KeyFunc) error {
	d.data = d.data[:0]
	return nil
}

// Update records one refresh period of tone or silence.
func (d *Device) Update(s *devices.State) {
	d.gen.Fill(d.samples, s.Tone())
	for _, v := range d.samples {
		d.data = append(d.data, int(v))
	}
}

// Len returns the number of recorded samples.
func (d *Device) Len() int {
	return len(d.data)
}

// Shutdown writes the recording to disk.
func (d *Device) Shutdown() error {
	fd, err := os.Create(d.path)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(fd, tone.SampleRate, BitDepth, NumChannels, pcmFormat)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: NumChannels,
			SampleRate:  tone.SampleRate,
		},
		Data:           d.data,
		SourceBitDepth: BitDepth,
	}

	if err = enc.Write(buf); err != nil {
		fd.Close()
		return errors.Wrapf(err, "failed to encode %s", d.path)
	}

	if err = enc.Close(); err != nil {
		fd.Close()
		return errors.Wrapf(err, "failed to encode %s", d.path)
	}

	return fd.Close()
}
