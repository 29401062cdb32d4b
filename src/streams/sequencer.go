package streams

import (
	"fmt"

	"github.com/pkg/errors"

	"tjweldon/drumsynth/src/synth"
	"tjweldon/drumsynth/src/util"
)

var logger = util.Logger{}.Ctx("streams")

var (
	ErrEmptyPattern   = errors.New("pattern has no events")
	ErrMissingEnd     = errors.New("pattern is not terminated by an end marker")
	ErrEarlyEnd       = errors.New("end marker before the last event")
	ErrNegativeOffset = errors.New("event offset is negative")
	ErrUnsorted       = errors.New("event offsets are not in order")
	ErrNoVoice        = errors.New("event has no voice")
	ErrSampleRate     = errors.New("sample rate must be positive")
)

// Event starts Voice at Offset ticks into the pattern. The last event of a
// pattern is always an end marker, made with End, which carries no voice.
type Event struct {
	Offset int
	Voice  synth.Voice
	end    bool
}

// Hit is an event that triggers v at offset
func Hit(offset int, v synth.Voice) Event {
	return Event{Offset: offset, Voice: v}
}

// End marks the end of a pattern at offset
func End(offset int) Event {
	return Event{Offset: offset, end: true}
}

// IsEnd reports whether the event is the end marker
func (e Event) IsEnd() bool { return e.end }

func (e Event) String() string {
	if e.end {
		return fmt.Sprintf("End(%d)", e.Offset)
	}
	return fmt.Sprintf("Hit(%d, %T)", e.Offset, e.Voice)
}

// State is where a Pattern's cursor sits
type State int

const (
	BeforeStart State = iota
	Active
	Exhausted
)

func (s State) String() string {
	switch s {
	case BeforeStart:
		return "BeforeStart"
	case Active:
		return "Active"
	case Exhausted:
		return "Exhausted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Pattern walks a timeline of events one tick at a time, routing each tick
// to whichever voice was triggered last. Only one voice sounds at a time; a
// new event cuts the previous one off.
type Pattern struct {
	events     []Event
	sampleRate float64

	// index of the current event, -1 before the first one starts
	cursor int
	// frames rendered since the current voice was triggered
	elapsed int
}

// NewPattern validates the timeline and returns a pattern positioned before
// its first event. The events are referenced, not copied.
func NewPattern(sampleRate float64, events ...Event) (*Pattern, error) {
	if sampleRate <= 0 {
		return nil, errors.Wrapf(ErrSampleRate, "got %v", sampleRate)
	}
	if err := Validate(events); err != nil {
		return nil, err
	}
	logger.Ctx("NewPattern").Vol(util.Quiet).Log("pattern of", len(events), "events, length", events[len(events)-1].Offset)
	return &Pattern{events: events, sampleRate: sampleRate, cursor: -1}, nil
}

// Validate checks that events form a well formed timeline
func Validate(events []Event) error {
	if len(events) == 0 {
		return ErrEmptyPattern
	}
	last := len(events) - 1
	if !events[last].IsEnd() {
		return errors.Wrapf(ErrMissingEnd, "last event is %v", events[last])
	}
	for i, e := range events {
		switch {
		case e.Offset < 0:
			return errors.Wrapf(ErrNegativeOffset, "event %d at %d", i, e.Offset)
		case i > 0 && e.Offset < events[i-1].Offset:
			return errors.Wrapf(ErrUnsorted, "event %d at %d follows %d", i, e.Offset, events[i-1].Offset)
		case e.IsEnd() && i != last:
			return errors.Wrapf(ErrEarlyEnd, "event %d of %d", i, len(events))
		case !e.IsEnd() && e.Voice == nil:
			return errors.Wrapf(ErrNoVoice, "event %d", i)
		}
	}
	return nil
}

// Len is the offset of the end marker, the number of ticks in one pass
func (p *Pattern) Len() int { return p.events[len(p.events)-1].Offset }

// SampleRate is the rate voices are rendered at
func (p *Pattern) SampleRate() float64 { return p.sampleRate }

// State reports where the cursor is
func (p *Pattern) State() State {
	switch {
	case p.cursor < 0:
		return BeforeStart
	case p.events[p.cursor].IsEnd():
		return Exhausted
	default:
		return Active
	}
}

// Reset rewinds the pattern so it can be played again from tick 0. Voices
// keep whatever state they have.
func (p *Pattern) Reset() {
	p.cursor = -1
	p.elapsed = 0
}

// NextFrame returns the frame for tick. Ticks must be passed in strictly
// increasing order starting from 0.
func (p *Pattern) NextFrame(tick int) synth.Frame {
	if p.cursor < 0 && tick < p.events[0].Offset {
		return synth.Silence
	}

	advanced := false
	for next := p.cursor + 1; next < len(p.events) && tick >= p.events[next].Offset; next++ {
		p.cursor = next
		advanced = true
	}

	current := p.events[p.cursor]
	if current.IsEnd() {
		if advanced {
			logger.Ctx("NextFrame").Vol(util.Quiet).Log("pattern exhausted at tick", tick)
		}
		return synth.Silence
	}
	if advanced {
		current.Voice.Trigger()
		p.elapsed = 0
	}

	frame := current.Voice.Render(p.sampleRate, p.elapsed)
	p.elapsed++
	return frame
}
