// Package noise provides the white noise used by the synth voices.
//
// Voices never reach for a global random source: every voice is handed a
// Source, so a fixed seed renders the same audio on every run.
package noise

import (
	"math/rand"
)

// Source is a stream of uniform values in [-1, 1]
type Source interface {
	Next() float64
}

// White is a seeded uniform noise generator. It is not safe for concurrent
// use, give each goroutine its own.
type White struct {
	rand *rand.Rand
}

// New returns white noise seeded with seed
func New(seed int64) *White {
	return &White{rand: rand.New(rand.NewSource(seed))}
}

// Next returns the next value in [-1, 1)
func (w *White) Next() float64 {
	return 2*w.rand.Float64() - 1
}

// Func adapts a plain function to a Source
type Func func() float64

func (f Func) Next() float64 { return f() }

// Constant always returns the same value. Useful for silencing the noise
// component or pinning it for tests.
func Constant(v float64) Source {
	return Func(func() float64 { return v })
}
