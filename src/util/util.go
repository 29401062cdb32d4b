package util

import (
	"fmt"
	"log"
	"math"
)

// Clamp limits x to the closed interval [lo, hi]. When lo > hi the lower
// bound wins.
func Clamp(lo, hi, x float64) float64 { return math.Max(lo, math.Min(hi, x)) }

type LogVolume int

const (
	Silent LogVolume = 1 << iota
	Quieter
	Quiet
	Normal
	Loud
	Louder
	Loudest
)

func (lv LogVolume) String() string {
	switch lv {
	case Silent:
		return "Silent"
	case Quieter:
		return "Quieter"
	case Quiet:
		return "Quiet"
	case Normal:
		return "Normal"
	case Loud:
		return "Loud"
	case Louder:
		return "Louder"
	case Loudest:
		return "Loudest"
	default:
		return fmt.Sprintf("%d", lv)
	}
}

// initialise the log level as Loud by default, so only problems get through
var filterBelow = func(lv LogVolume) *LogVolume { return &lv }(Loud)

// FilterBelow sets the log level below which messages will not be printed
func (lv LogVolume) FilterBelow() LogVolume {
	*filterBelow = lv
	return lv
}

// Threshold reports the current process-wide log level
func Threshold() LogVolume { return *filterBelow }

// Logger is a context-aware logger
type Logger struct {
	prefixes []any
	Volume   LogVolume
}

// Ctx returns a copy of the logger with the given prefix added after all pre-existing prefixes
func (l Logger) Ctx(prefix string) Logger {
	prefixes := make([]any, 0, len(l.prefixes)+1)
	prefixes = append(prefixes, l.prefixes...)
	return Logger{append(prefixes, prefix+":"), l.Volume}
}

// Vol is like a -v option. A Loudest logger will print all messages,
// a Silent one will only print when the threshold is Silent
func (l Logger) Vol(v LogVolume) Logger {
	l.Volume = v
	return l
}

// Enabled reports whether Log would print anything
func (l Logger) Enabled() bool { return l.Volume >= *filterBelow }

// Log shares its interface with log.Println
func (l Logger) Log(msgs ...any) {
	if l.Enabled() {
		line := append([]any{fmt.Sprintf("[%s]", l.Volume)}, l.prefixes...)
		log.Println(append(line, msgs...)...)
	}
}

// Logf shares its interface with log.Printf
func (l Logger) Logf(format string, args ...any) {
	if l.Enabled() {
		l.Log(fmt.Sprintf(format, args...))
	}
}
