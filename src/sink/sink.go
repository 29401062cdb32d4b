// Package sink batches rendered frames and hands them to an output stream.
package sink

import (
	"github.com/pkg/errors"

	"tjweldon/drumsynth/src/synth"
	"tjweldon/drumsynth/src/util"
)

// Stereo is the only channel layout a Sink accepts, one Frame is two samples
const Stereo = 2

var (
	ErrShortWrite = errors.New("stream accepted fewer samples than written")
	ErrClosed     = errors.New("sink is closed")
	ErrChannels   = errors.New("unsupported channel count")
	ErrCapacity   = errors.New("buffer capacity must be a positive multiple of the channel count")
)

var logger = util.Logger{}.Ctx("sink")

// Stream is the destination of a Sink. WriteSamples receives interleaved
// samples and returns how many it took.
type Stream interface {
	WriteSamples(samples []float64) (n int, err error)
	Close() error
}

// Sink owns an interleaved sample buffer and the stream it drains into.
// Samples are written when the buffer fills, on Flush and on Close.
type Sink struct {
	stream   Stream
	channels int
	buf      []float64
	fill     int

	flushes int
	written int
	err     error
	closed  bool
}

// New wraps stream with a buffer of capacity samples
func New(stream Stream, channels, capacity int) (*Sink, error) {
	if channels != Stereo {
		return nil, errors.Wrapf(ErrChannels, "got %d, want %d", channels, Stereo)
	}
	if capacity <= 0 || capacity%channels != 0 {
		return nil, errors.Wrapf(ErrCapacity, "got %d", capacity)
	}
	return &Sink{
		stream:   stream,
		channels: channels,
		buf:      make([]float64, capacity),
	}, nil
}

// Create opens a WAV file at path and buffers frames of it at a time. The
// capacity in samples is channels*frames.
func Create(path string, channels, frames int) (*Sink, error) {
	if channels != Stereo {
		return nil, errors.Wrapf(ErrChannels, "got %d, want %d", channels, Stereo)
	}
	stream, err := CreateWav(path, CD)
	if err != nil {
		return nil, err
	}
	s, err := New(stream, channels, channels*frames)
	if err != nil {
		if cerr := stream.Close(); cerr != nil {
			logger.Ctx("Create").Vol(util.Loud).Log("closing", path, "after failed setup:", cerr)
		}
		return nil, err
	}
	logger.Ctx("Create").Vol(util.Normal).Log("writing", path, "in batches of", frames, "frames")
	return s, nil
}

// With creates a sink at path, runs fn against it and always closes it,
// whichever way fn returns. fn's error takes precedence over Close's.
func With(path string, channels, frames int, fn func(*Sink) error) (err error) {
	s, err := Create(path, channels, frames)
	if err != nil {
		return err
	}
	defer func() {
		cerr := s.Close()
		if err == nil {
			err = cerr
		} else if cerr != nil {
			logger.Ctx("With").Vol(util.Loud).Log("close after error:", cerr)
		}
	}()
	return fn(s)
}

// Push appends a frame, flushing first if the buffer is full after it
func (s *Sink) Push(f synth.Frame) error {
	if s.closed {
		return ErrClosed
	}
	s.buf[s.fill] = f.Left
	s.buf[s.fill+1] = f.Right
	s.fill += s.channels
	if s.fill == len(s.buf) {
		return s.Flush()
	}
	return nil
}

// Flush writes everything buffered. A short write is reported but the
// buffer is emptied regardless; unwritten samples are dropped.
func (s *Sink) Flush() error {
	if s.closed {
		return ErrClosed
	}
	if s.fill == 0 {
		return nil
	}
	want := s.fill
	s.fill = 0
	s.flushes++

	n, err := s.stream.WriteSamples(s.buf[:want])
	s.written += n
	if err == nil && n != want {
		err = errors.Wrapf(ErrShortWrite, "wrote %d of %d samples", n, want)
	}
	if err != nil {
		err = errors.Wrap(err, "flush")
		logger.Ctx("Flush").Vol(util.Loud).Log(err)
		if s.err == nil {
			s.err = err
		}
		return err
	}
	logger.Ctx("Flush").Vol(util.Quieter).Log("flushed", n, "samples")
	return nil
}

// Close flushes, drops the buffer and closes the stream. It returns the
// first write error of the sink's lifetime, if there was one. Calling it
// again is a no-op.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	ferr := s.Flush()
	s.closed = true
	s.buf = nil

	cerr := s.stream.Close()
	if cerr != nil {
		cerr = errors.Wrap(cerr, "close stream")
	}
	logger.Ctx("Close").Vol(util.Normal).Log("closed after", s.flushes, "flushes,", s.written, "samples")

	if ferr == nil {
		ferr = s.err
	}
	if ferr != nil {
		if cerr != nil {
			logger.Ctx("Close").Vol(util.Loud).Log(cerr)
		}
		return ferr
	}
	return cerr
}

// Buffered is the number of samples waiting to be flushed
func (s *Sink) Buffered() int { return s.fill }

// Capacity is the buffer size in samples, 0 once closed
func (s *Sink) Capacity() int { return len(s.buf) }

// Flushes counts the non-empty flushes so far
func (s *Sink) Flushes() int { return s.flushes }

// Written is the number of samples the stream has accepted
func (s *Sink) Written() int { return s.written }

// Err is the first write error seen, if any
func (s *Sink) Err() error { return s.err }
