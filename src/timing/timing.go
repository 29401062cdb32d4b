// Package timing turns musical time into sample counts
package timing

import (
	"time"

	"github.com/faiface/beep"
)

// Tempo is a type that represents a tempo in beats per minute
type Tempo int

// Quantum returns the duration of a single beat
func (t Tempo) Quantum() time.Duration {
	return time.Minute / time.Duration(t)
}

// Count returns the number of samples in a single beat for a given format.
func (t Tempo) Count(of beep.Format) (samples int) {
	return of.SampleRate.N(t.Quantum())
}

// Timing is the length of one step in both wall time and samples
type Timing struct {
	Duration time.Duration
	Samples  int
}

func (Timing) From(t Tempo, f beep.Format) Timing {
	return Timing{Duration: t.Quantum(), Samples: t.Count(f)}
}

// Quantise divides a beat into q equal steps
func (t Timing) Quantise(q Quantisation) Timing {
	return Timing{
		Samples:  t.Samples / int(q),
		Duration: t.Duration / time.Duration(q),
	}
}

// Steps converts a step index into a sample offset
func (t Timing) Steps(n int) int { return n * t.Samples }

// Quantisation is the number of steps a beat is split into
type Quantisation int

const (
	Quarter   Quantisation = 1
	Eighth    Quantisation = 2
	Sixteenth Quantisation = 4
)

// Step is shorthand for the timing of one q step at tempo t
func Step(t Tempo, q Quantisation, f beep.Format) Timing {
	return Timing{}.From(t, f).Quantise(q)
}
