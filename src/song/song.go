// Package song drives a pattern into a sink, one tick at a time.
package song

import (
	"github.com/pkg/errors"

	"tjweldon/drumsynth/src/sink"
	"tjweldon/drumsynth/src/streams"
	"tjweldon/drumsynth/src/synth"
	"tjweldon/drumsynth/src/util"
)

var logger = util.Logger{}.Ctx("song")

// Clock counts song time across repeats for the modulators
type Clock struct {
	SampleRate float64
	ticks      int
}

// Advance moves the clock on one tick and returns the new time in seconds
func (c *Clock) Advance() float64 {
	c.ticks++
	return float64(c.ticks) / c.SampleRate
}

// Song is a pattern played Repeats times with its parameters swept by
// Modulator after every frame
type Song struct {
	Pattern   *streams.Pattern
	Repeats   int
	Modulator synth.Modulator

	// Strict aborts on the first write error instead of carrying on
	Strict bool
}

// Ticks is the total number of frames Render produces
func (s Song) Ticks() int { return s.Repeats * s.Pattern.Len() }

// Render generates every frame of the song into out and returns how many
// ticks it pushed. Write errors are logged and skipped unless the song is
// Strict; out keeps the first one for Close to return.
func (s Song) Render(out *sink.Sink) (ticks int, err error) {
	logger := logger.Ctx("Render").Vol(util.Normal)
	clock := Clock{SampleRate: s.Pattern.SampleRate()}
	length := s.Pattern.Len()

	logger.Log("rendering", s.Repeats, "repeats of", length, "ticks")
	for r := 0; r < s.Repeats; r++ {
		s.Pattern.Reset()
		for tick := 0; tick < length; tick++ {
			if err := out.Push(s.Pattern.NextFrame(tick)); err != nil {
				if s.Strict || errors.Is(err, sink.ErrClosed) {
					return ticks, errors.Wrapf(err, "repeat %d tick %d", r, tick)
				}
				logger.Vol(util.Loud).Log("continuing after write error at repeat", r, "tick", tick)
			}
			ticks++

			if s.Modulator != nil {
				s.Modulator.Modulate(clock.Advance())
			}
		}
		logger.Vol(util.Quiet).Log("repeat", r+1, "of", s.Repeats, "done")
	}
	return ticks, nil
}
