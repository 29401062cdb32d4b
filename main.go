package main

import (
	"log"

	"github.com/alexflint/go-arg"

	"tjweldon/drumsynth/src/examples"
	"tjweldon/drumsynth/src/sink"
	"tjweldon/drumsynth/src/timing"
	"tjweldon/drumsynth/src/util"
)

type args struct {
	Out     string `arg:"-o,--out,env:DRUMSYNTH_OUT" default:"drums.wav" help:"WAV file to write"`
	BPM     int    `arg:"--bpm" default:"134" help:"tempo in beats per minute"`
	Repeats int    `arg:"-r,--repeats" default:"8" help:"how many times to play the pattern"`
	Seed    int64  `arg:"--seed,env:DRUMSYNTH_SEED" default:"1" help:"noise seed, the same seed renders the same file"`
	Buffer  int    `arg:"--buffer" default:"30000" help:"frames held in memory between writes"`
	Strict  bool   `arg:"--strict" help:"stop at the first write error instead of carrying on"`
	Verbose bool   `arg:"-v,--verbose" help:"log progress"`
}

func (args) Description() string {
	return "drumsynth renders a synthesised drum pattern to a 16 bit stereo WAV file"
}

func (args) Version() string { return "drumsynth 0.1.0" }

func main() {
	var a args
	p := arg.MustParse(&a)
	if a.BPM <= 0 {
		p.Fail("--bpm must be positive")
	}
	if a.Buffer <= 0 {
		p.Fail("--buffer must be positive")
	}
	if a.Repeats < 0 {
		p.Fail("--repeats must not be negative")
	}

	if a.Verbose {
		util.Normal.FilterBelow()
	}
	logger := util.Logger{Volume: util.Normal}.Ctx("main")

	demo, err := examples.Demo(a.Seed, timing.Tempo(a.BPM), a.Repeats, sink.CD)
	if err != nil {
		log.Fatal(err)
	}
	demo.Strict = a.Strict

	var ticks int
	err = sink.With(a.Out, sink.Stereo, a.Buffer, func(out *sink.Sink) error {
		ticks, err = demo.Render(out)
		return err
	})
	if err != nil {
		log.Fatal(err)
	}

	logger.Log("wrote", ticks, "frames to", a.Out, "in", sink.CD.SampleRate.D(ticks))
}
