package synth

import (
	"math"

	"tjweldon/drumsynth/src/noise"
	"tjweldon/drumsynth/src/util"
)

const TwoPi = 2 * math.Pi

// Frame is one stereo sample
type Frame struct {
	Left, Right float64
}

// Silence is the zero frame
var Silence = Frame{}

// Voice is anything the sequencer can start and pull frames from
type Voice interface {
	// Trigger restarts the voice
	Trigger()
	// Render returns the frame elapsed frames after the last Trigger
	Render(sampleRate float64, elapsed int) Frame
}

// Params are the knobs of a Drum. They can be changed between frames, which
// is how the sweeps in the song vary the timbre from bar to bar.
type Params struct {
	Amplitude   float64
	EnvDecay    float64
	Frequency   float64
	FreqDecay   float64
	NoiseAmount float64
	NoiseDecay  float64
	Limit       float64
}

// Drum is a decaying sine with a pitch glide, mixed with a decaying burst of
// stereo noise and hard clipped at Limit.
type Drum struct {
	Params
	phase float64
	noise noise.Source
}

// NewDrum makes a drum voice drawing its noise from src
func NewDrum(p Params, src noise.Source) *Drum {
	return &Drum{Params: p, noise: src}
}

// Phase is the oscillator position in radians, always in [0, 2π)
func (d *Drum) Phase() float64 { return d.phase }

// Trigger implements Voice. Only the phase is reset, the envelopes are
// driven entirely by the elapsed count passed to Render.
func (d *Drum) Trigger() { d.phase = 0 }

// Render implements Voice
func (d *Drum) Render(sampleRate float64, elapsed int) Frame {
	t := Seconds(sampleRate, elapsed)
	ampEnv := Decay(d.EnvDecay).At(t)
	noiseEnv := Decay(d.NoiseDecay).At(t)

	tone := math.Sin(d.phase) * (1 - d.NoiseAmount)
	na := d.NoiseAmount * d.noise.Next() * noiseEnv
	nb := d.NoiseAmount * d.noise.Next() * noiseEnv
	n := 0.7 * (na + nb)

	freq := d.Frequency * Decay(d.FreqDecay).At(t)
	d.advance(TwoPi * freq / sampleRate)

	gain := d.Amplitude * ampEnv
	return Frame{
		Left:  util.Clamp(-d.Limit, d.Limit, gain*(tone+n+na*0.3)),
		Right: util.Clamp(-d.Limit, d.Limit, gain*(tone+n+nb*0.3)),
	}
}

func (d *Drum) advance(step float64) {
	d.phase += step
	if d.phase >= TwoPi {
		d.phase = math.Mod(d.phase, TwoPi)
	}
}
