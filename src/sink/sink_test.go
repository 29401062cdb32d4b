package sink

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"

	"tjweldon/drumsynth/src/synth"
)

// recorder is an in-memory Stream. accept caps how many samples a single
// write takes, 0 means no cap.
type recorder struct {
	batches [][]float64
	accept  int
	fail    error
	closes  int
}

func (r *recorder) WriteSamples(samples []float64) (int, error) {
	if r.fail != nil {
		return 0, r.fail
	}
	n := len(samples)
	if r.accept > 0 && n > r.accept {
		n = r.accept
	}
	r.batches = append(r.batches, append([]float64(nil), samples[:n]...))
	return n, nil
}

func (r *recorder) Close() error {
	r.closes++
	return nil
}

func frame(i int) synth.Frame {
	return synth.Frame{Left: float64(i), Right: -float64(i)}
}

func mustSink(t *testing.T, r *recorder, capacity int) *Sink {
	t.Helper()
	s, err := New(r, Stereo, capacity)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewRejectsBadLayout(t *testing.T) {
	cases := []struct {
		name               string
		channels, capacity int
		want               error
	}{
		{"mono", 1, 8, ErrChannels},
		{"zero capacity", 2, 0, ErrCapacity},
		{"odd capacity", 2, 7, ErrCapacity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(&recorder{}, tc.channels, tc.capacity); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestPushFlushesWhenFull(t *testing.T) {
	r := &recorder{}
	s := mustSink(t, r, 8)

	// 2 * capacity samples
	for i := 0; i < 8; i++ {
		if err := s.Push(frame(i)); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
		if s.Buffered()%Stereo != 0 || s.Buffered() > s.Capacity() {
			t.Fatalf("push %d: bad fill %d", i, s.Buffered())
		}
	}
	if s.Flushes() != 2 || len(r.batches) != 2 {
		t.Fatalf("expected 2 flushes, got %d (%d batches)", s.Flushes(), len(r.batches))
	}
	if s.Buffered() != 0 {
		t.Fatalf("expected empty buffer, got %d", s.Buffered())
	}
	want := []float64{4, -4, 5, -5, 6, -6, 7, -7}
	for i, v := range want {
		if r.batches[1][i] != v {
			t.Fatalf("second batch %v, want %v", r.batches[1], want)
		}
	}
}

func TestCloseFlushesRemainder(t *testing.T) {
	r := &recorder{}
	s := mustSink(t, r, 8)
	s.Push(frame(1))
	s.Push(frame(2))
	s.Push(frame(3))

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(r.batches) != 1 || len(r.batches[0]) != 6 {
		t.Fatalf("expected one batch of 6 samples, got %v", r.batches)
	}
	if r.closes != 1 {
		t.Fatalf("expected stream closed once, got %d", r.closes)
	}
	if s.Written() != 6 {
		t.Fatalf("expected 6 samples written, got %d", s.Written())
	}
}

func TestFlushEmptyIsNoop(t *testing.T) {
	r := &recorder{}
	s := mustSink(t, r, 4)
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if s.Flushes() != 0 || len(r.batches) != 0 {
		t.Fatalf("empty flush reached the stream")
	}
}

func TestShortWriteIsReportedAndDiscarded(t *testing.T) {
	r := &recorder{accept: 3}
	s := mustSink(t, r, 4)
	s.Push(frame(1))
	err := s.Push(frame(2))
	if !errors.Is(err, ErrShortWrite) {
		t.Fatalf("expected short write, got %v", err)
	}
	if s.Buffered() != 0 {
		t.Fatalf("buffer kept %d samples after short write", s.Buffered())
	}

	// generation carries on after the mismatch
	if err := s.Push(frame(3)); err != nil {
		t.Fatalf("push after short write: %v", err)
	}
	if err := s.Close(); !errors.Is(err, ErrShortWrite) {
		t.Fatalf("expected Close to report the short write, got %v", err)
	}
	if !errors.Is(s.Err(), ErrShortWrite) {
		t.Fatalf("expected first error kept, got %v", s.Err())
	}
	if s.Written() != 5 {
		t.Fatalf("expected 5 samples accepted, got %d", s.Written())
	}
}

func TestStreamErrorIsReported(t *testing.T) {
	boom := errors.New("disk on fire")
	r := &recorder{fail: boom}
	s := mustSink(t, r, 2)
	if err := s.Push(frame(1)); !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if s.Buffered() != 0 {
		t.Fatalf("buffer not reset")
	}
}

func TestClosedSink(t *testing.T) {
	r := &recorder{}
	s := mustSink(t, r, 4)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if r.closes != 1 {
		t.Fatalf("stream closed %d times", r.closes)
	}
	if err := s.Push(frame(1)); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected %v, got %v", ErrClosed, err)
	}
	if err := s.Flush(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected %v, got %v", ErrClosed, err)
	}
	if s.Capacity() != 0 {
		t.Fatalf("buffer not released")
	}
}

func TestCreateFailsOnBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.wav")
	if _, err := Create(path, Stereo, 16); err == nil {
		t.Fatalf("expected an error opening %s", path)
	}
	called := false
	err := With(path, Stereo, 16, func(*Sink) error { called = true; return nil })
	if err == nil || called {
		t.Fatalf("expected With to fail before running, err=%v called=%v", err, called)
	}
}

func TestWithWritesWav(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	const frames = 1000
	err := With(path, Stereo, 64, func(s *Sink) error {
		for i := 0; i < frames; i++ {
			v := math.Sin(float64(i) / 10)
			if err := s.Push(synth.Frame{Left: v / 2, Right: -v / 2}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	decoded, format, err := wav.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if format.SampleRate != SampleRate || format.NumChannels != 2 || format.Precision != 2 {
		t.Fatalf("unexpected format %+v", format)
	}
	if decoded.Len() != frames {
		t.Fatalf("expected %d frames, got %d", frames, decoded.Len())
	}

	got := make([][2]float64, frames)
	filled := 0
	for filled < frames {
		n, ok := decoded.Stream(got[filled:])
		if !ok {
			break
		}
		filled += n
	}
	if filled != frames {
		t.Fatalf("streamed %d frames", filled)
	}
	for i, s := range got {
		v := math.Sin(float64(i) / 10)
		if math.Abs(s[0]-v/2) > 1e-4 || math.Abs(s[1]+v/2) > 1e-4 {
			t.Fatalf("frame %d: got %v, want ±%v", i, s, v/2)
		}
	}
}

func TestWithClosesOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	stop := errors.New("stop")
	err := With(path, Stereo, 64, func(s *Sink) error {
		for i := 0; i < 10; i++ {
			s.Push(frame(0))
		}
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected %v, got %v", stop, err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	decoded, _, err := wav.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Len() != 10 {
		t.Fatalf("expected the buffered frames to be finalised, got %d", decoded.Len())
	}
}
