// Package tone generates the square wave played while the sound timer runs.
package tone

import "github.com/hexaflex/c8/arch"

// Default tone settings.
const (
	SampleRate = 44100 // Samples per second.
	Frequency  = 110   // Tone pitch in Hz.
	Volume     = 0.10  // Amplitude relative to full scale.
)

// SamplesPerFrame is the number of samples covering one display refresh.
const SamplesPerFrame = SampleRate / arch.TimerHz

// Square generates a square wave as signed 16-bit samples.
type Square struct {
	SampleRate int     // Samples per second.
	Frequency  float64 // Tone pitch in Hz.
	Volume     float64 // Amplitude in the range [0, 1].
	phase      float64
}

// New creates a generator with the default settings.
func New() *Square {
	return &Square{
		SampleRate: SampleRate,
		Frequency:  Frequency,
		Volume:     Volume,
	}
}

// Fill writes len(p) samples into p. The wave is written while on is
// set. Otherwise p is filled with silence. The phase carries over
// between calls so consecutive buffers join up without clicks.
func (s *Square) Fill(p []int16, on bool) {
	if !on {
		for i := range p {
			p[i] = 0
		}
		return
	}

	amp := int16(s.Volume * 0x7fff)
	inc := s.Frequency / float64(s.SampleRate)

	for i := range p {
		if s.phase < 0.5 {
			p[i] = amp
		} else {
			p[i] = -amp
		}

		s.phase += inc
		if s.phase >= 1 {
			s.phase--
		}
	}
}
