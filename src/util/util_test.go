package util

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	flags, out := log.Flags(), log.Writer()
	log.SetFlags(0)
	log.SetOutput(&buf)
	prev := Threshold()
	t.Cleanup(func() {
		log.SetFlags(flags)
		log.SetOutput(out)
		prev.FilterBelow()
	})
	return &buf
}

func TestLoggerFiltersByVolume(t *testing.T) {
	buf := captureLog(t)
	Normal.FilterBelow()

	l := Logger{}.Ctx("pkg")
	l.Vol(Quiet).Log("hidden")
	l.Vol(Loud).Log("shown", 3)

	got := buf.String()
	if strings.Contains(got, "hidden") {
		t.Fatalf("quiet message printed: %q", got)
	}
	if got != "[Loud] pkg: shown 3\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestCtxDoesNotSharePrefixes(t *testing.T) {
	buf := captureLog(t)
	Silent.FilterBelow()

	base := Logger{Volume: Normal}.Ctx("a")
	base.Ctx("b").Log("one")
	base.Ctx("c").Logf("%d", 2)

	want := "[Normal] a: b: one\n[Normal] a: c: 2\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestClamp(t *testing.T) {
	cases := []struct{ lo, hi, x, want float64 }{
		{-1, 1, 0.5, 0.5},
		{-1, 1, 3, 1},
		{-1, 1, -3, -1},
		{-0.4, 0.4, 0.4, 0.4},
	}
	for _, tc := range cases {
		if got := Clamp(tc.lo, tc.hi, tc.x); got != tc.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tc.lo, tc.hi, tc.x, got, tc.want)
		}
	}
}
