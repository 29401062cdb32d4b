package synth

import "math"

// Modulator changes voice parameters as a function of song time in seconds.
// It is applied between frames, the last write wins.
type Modulator interface {
	Modulate(t float64)
}

// Sweep is a sine LFO written straight into one or more parameters:
//
//	value(t) = Centre + Depth * sin(2πt / Period)
type Sweep struct {
	Centre, Depth float64
	// Period of one cycle in seconds. A zero period holds the parameter at Centre.
	Period  float64
	Targets []*float64
}

// Value evaluates the sweep at time t
func (s Sweep) Value(t float64) float64 {
	if s.Period == 0 {
		return s.Centre
	}
	return s.Centre + s.Depth*math.Sin(TwoPi*t/s.Period)
}

// Modulate implements Modulator
func (s Sweep) Modulate(t float64) {
	v := s.Value(t)
	for _, target := range s.Targets {
		*target = v
	}
}

// Modulators applies each of its members in order
type Modulators []Modulator

func (ms Modulators) Modulate(t float64) {
	for _, m := range ms {
		m.Modulate(t)
	}
}
