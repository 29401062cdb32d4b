package timing

import (
	"testing"
	"time"

	"github.com/faiface/beep"
)

var cd = beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}

func TestTempoQuantum(t *testing.T) {
	if q := Tempo(120).Quantum(); q != 500*time.Millisecond {
		t.Fatalf("expected 500ms, got %v", q)
	}
	if n := Tempo(120).Count(cd); n != 22050 {
		t.Fatalf("expected 22050 samples, got %d", n)
	}
}

func TestSixteenthAt134(t *testing.T) {
	// 44100 * 60 / 134 / 4, truncated
	step := Step(134, Sixteenth, cd)
	if step.Samples != 4936 {
		t.Fatalf("expected 4936 samples per sixteenth, got %d", step.Samples)
	}
	if step.Steps(32) != 32*4936 {
		t.Fatalf("expected %d, got %d", 32*4936, step.Steps(32))
	}
}

func TestQuantise(t *testing.T) {
	beat := Timing{}.From(60, cd)
	cases := []struct {
		q    Quantisation
		want int
	}{
		{Quarter, 44100},
		{Eighth, 22050},
		{Sixteenth, 11025},
	}
	for _, tc := range cases {
		if got := beat.Quantise(tc.q).Samples; got != tc.want {
			t.Errorf("quantisation %d: got %d samples, want %d", tc.q, got, tc.want)
		}
	}
}
