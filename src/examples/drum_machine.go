package examples

import (
	"github.com/faiface/beep"
	"github.com/pkg/errors"

	"tjweldon/drumsynth/src/noise"
	"tjweldon/drumsynth/src/song"
	"tjweldon/drumsynth/src/streams"
	"tjweldon/drumsynth/src/synth"
	"tjweldon/drumsynth/src/timing"
	"tjweldon/drumsynth/src/util"
)

var logger = util.Logger{Volume: util.Normal}.Ctx("examples/drum_machine")

// Steps in the pattern, two bars of sixteenths
const Steps = 32

// Kit is the set of voices the demo track is played on. All of them draw
// from the same noise source.
type Kit struct {
	Kick, Snare *synth.Drum
	// tonal hits, pitched A2, G2 and B2
	A, G, B *synth.Drum
}

// NewKit builds the kit
func NewKit(src noise.Source) *Kit {
	return &Kit{
		Kick: synth.NewDrum(synth.Params{
			Amplitude: 1.0, EnvDecay: 15, Frequency: 110, FreqDecay: 28,
			NoiseAmount: 0.1, NoiseDecay: 28, Limit: 0.5,
		}, src),
		Snare: synth.NewDrum(synth.Params{
			Amplitude: 0.6, EnvDecay: 15, Frequency: 279, FreqDecay: 45,
			NoiseAmount: 0.5, NoiseDecay: 10.1, Limit: 0.4,
		}, src),
		A: tonal(110, src),
		G: tonal(97.999, src),
		B: tonal(123.471, src),
	}
}

func tonal(freq float64, src noise.Source) *synth.Drum {
	return synth.NewDrum(synth.Params{
		Amplitude: 0.6, EnvDecay: 15, Frequency: freq, FreqDecay: 0,
		NoiseAmount: 0.01, NoiseDecay: 10.1, Limit: 0.4,
	}, src)
}

// Sweeps slowly move the snare's rattle, the kick's pitch drop and the
// level of the tonal hits so each repeat sounds a little different
func (k *Kit) Sweeps() synth.Modulators {
	return synth.Modulators{
		synth.Sweep{Centre: 10.2, Depth: 8, Period: 8, Targets: []*float64{&k.Snare.NoiseDecay}},
		synth.Sweep{Centre: 28.5, Depth: -18, Period: 8, Targets: []*float64{&k.Kick.FreqDecay}},
		synth.Sweep{Centre: 0.3, Depth: 0.1, Period: 16, Targets: []*float64{&k.A.Limit, &k.G.Limit, &k.B.Limit}},
	}
}

// Track lays the kit out over Steps sixteenths at the given tempo
func Track(k *Kit, tempo timing.Tempo, format beep.Format) []streams.Event {
	step := timing.Step(tempo, timing.Sixteenth, format)
	hit := func(n int, d *synth.Drum) streams.Event { return streams.Hit(step.Steps(n), d) }

	return []streams.Event{
		hit(0, k.Kick), hit(2, k.A),
		hit(3, k.Kick), hit(4, k.Snare),
		hit(6, k.A), hit(8, k.Kick),
		hit(11, k.Snare), hit(16, k.G),
		hit(18, k.Kick), hit(20, k.Snare),
		hit(22, k.G), hit(24, k.Kick),
		hit(27, k.Snare), hit(28, k.G),
		hit(30, k.B),
		streams.End(step.Steps(Steps)),
	}
}

// Demo is the whole track: the pattern repeated with the kit's sweeps on
func Demo(seed int64, tempo timing.Tempo, repeats int, format beep.Format) (song.Song, error) {
	logger := logger.Ctx("Demo")
	if tempo <= 0 {
		return song.Song{}, errors.Errorf("tempo must be positive, got %d", tempo)
	}
	if repeats < 0 {
		return song.Song{}, errors.Errorf("repeats must not be negative, got %d", repeats)
	}
	kit := NewKit(noise.New(seed))

	pattern, err := streams.NewPattern(float64(format.SampleRate), Track(kit, tempo, format)...)
	if err != nil {
		return song.Song{}, err
	}
	logger.Log("tempo", tempo, "bpm,", repeats, "repeats,", pattern.Len(), "ticks per repeat")

	return song.Song{
		Pattern:   pattern,
		Repeats:   repeats,
		Modulator: kit.Sweeps(),
	}, nil
}
