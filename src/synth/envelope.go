package synth

import "math"

// Decay is an exponential decay rate per second. Its envelope starts at 1
// and falls towards 0 as time passes; a negative rate grows instead.
type Decay float64

// At evaluates the envelope t seconds after the voice was triggered
func (d Decay) At(t float64) float64 {
	return math.Exp(-float64(d) * t)
}

// Seconds converts a frame count at the given sample rate into elapsed time
func Seconds(sampleRate float64, elapsed int) float64 {
	return float64(elapsed) / sampleRate
}
