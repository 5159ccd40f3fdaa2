// Command ultrafxr compiles an UltraFXR source program into rendered
// audio: S-expression source, through the tokenizer, parser, and
// evaluator, into a dataflow graph, then rendered sample-by-sample to a
// WAV file and/or the default audio device.
package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/depp/ultrafxr/internal/ast"
	"github.com/depp/ultrafxr/internal/diag"
	"github.com/depp/ultrafxr/internal/engine"
	"github.com/depp/ultrafxr/internal/eval"
	"github.com/depp/ultrafxr/internal/note"
	"github.com/depp/ultrafxr/internal/parser"
	"github.com/depp/ultrafxr/internal/player"
	"github.com/depp/ultrafxr/internal/sourcetext"
	"github.com/depp/ultrafxr/internal/token"
	"github.com/depp/ultrafxr/internal/wave"
)

// Exit codes, following the sysexits-style convention.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 64
)

var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

func main() {
	os.Exit(run())
}

func run() int {
	var (
		script      = pflag.String("script", "", "inline source text, in place of input files")
		writeWav    = pflag.Bool("write-wav", false, "render and write a WAV file")
		wavOut      = pflag.String("wav-out", "", "output WAV path (default: derived from the input file name)")
		play        = pflag.Bool("play", false, "stream the rendered audio to the default output device")
		notesFlag   = pflag.String("notes", "", "comma-separated MIDI note names to render, e.g. a4,c5")
		tempo       = pflag.Float64("tempo", 1.0, "seconds between the start of successive notes")
		gate        = pflag.Float64("gate", 0.5, "seconds from a note's start until its gate releases")
		disassemble = pflag.Bool("disassemble", false, "(not implemented)")
		loop        = pflag.Bool("loop", false, "(not implemented)")
		verbose     = pflag.Bool("verbose", false, "enable debug logging")
		dumpSyntax  = pflag.Bool("dump-syntax", false, "print the parsed syntax tree and exit")
		dumpGraph   = pflag.String("dump-graph", "", "print the compiled graph (text or yaml) and exit")
		sampleRate  = pflag.Uint("sample-rate", 48000, "render sample rate, in Hz")
		bufferSize  = pflag.Uint("buffer-size", 1024, "render buffer size, in samples")
	)
	pflag.Lookup("dump-graph").NoOptDefVal = "text"
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [file...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Compile and render an UltraFXR sound effects program.\n\n")
		pflag.PrintDefaults()
	}
	args := os.Args[1:]
	for i := 0; i < len(args) && args[i] != "--"; i++ {
		if a := args[i]; len(a) > 1 && a[0] == '-' && a[1] != '-' {
			args[i] = "-" + a // pflag would read "-name" as shorthand letters
		}
	}
	pflag.CommandLine.Init(os.Args[0], pflag.ContinueOnError)
	if err := pflag.CommandLine.Parse(args); err == pflag.ErrHelp {
		return exitOK
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "ultrafxr: %s\n", err)
		return exitUsage
	}

	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if *disassemble || *loop {
		fmt.Fprintln(os.Stderr, "ultrafxr: not implemented")
		return exitFailure
	}

	files := pflag.Args()
	if (*script == "") == (len(files) == 0) {
		fmt.Fprintln(os.Stderr, "ultrafxr: specify either -script or one or more input files")
		pflag.Usage()
		return exitUsage
	}

	if *sampleRate < 8000 || *sampleRate > 192000 {
		fmt.Fprintf(os.Stderr, "ultrafxr: -sample-rate=%d out of range [8000, 192000]\n", *sampleRate)
		return exitUsage
	}
	bufSize := clampBufferSize(*bufferSize)
	if bufSize != *bufferSize {
		logger.Warn("buffer size clamped", "requested", *bufferSize, "used", bufSize)
	}

	var notes []note.Note
	if *notesFlag != "" {
		for _, s := range strings.Split(*notesFlag, ",") {
			n, err := note.Parse(s)
			if err != nil {
				fmt.Fprintf(os.Stderr, "ultrafxr: invalid -notes value %q: %s\n", s, err)
				return exitUsage
			}
			notes = append(notes, n)
		}
	} else {
		notes = []note.Note{60} // middle C, the default when no notes are given
	}

	var (
		name string
		src  []byte
	)
	if *script != "" {
		name = "<script>"
		src = []byte(*script)
	} else {
		name = files[0]
		data, err := os.ReadFile(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ultrafxr: %s\n", err)
			return exitFailure
		}
		src = data
	}
	logger.Debug("read source", "name", name, "bytes", len(src))

	program, sourceText, ok := parseProgram(name, src)
	if !ok {
		return exitFailure
	}

	if *dumpSyntax {
		for i := range program {
			fmt.Println(program[i].Print())
		}
		return exitOK
	}

	handler := &diag.Console{Out: os.Stderr, Name: name, Source: sourceText}
	graph, root, ok := eval.EvaluateProgram(handler, program)
	if !ok {
		return exitFailure
	}
	logger.Debug("evaluated program", "nodes", graph.Len())

	if *dumpGraph != "" {
		out, err := dumpGraphAs(*dumpGraph, graph)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ultrafxr: %s\n", err)
			return exitUsage
		}
		fmt.Println(out)
		return exitOK
	}

	params := engine.Parameters{SampleRate: float64(*sampleRate), BufferSize: int(bufSize)}
	samples, err := renderNotes(graph, root, params, notes, *tempo, *gate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ultrafxr: %s\n", err)
		return exitFailure
	}
	logger.Debug("rendered", "samples", len(samples))

	if !*writeWav && !*play {
		logger.Warn("neither -write-wav nor -play given, nothing to do")
		return exitOK
	}

	if *writeWav {
		outPath := *wavOut
		if outPath == "" {
			outPath = deriveWavPath(name)
		}
		if err := writeWavFile(outPath, samples, *sampleRate); err != nil {
			fmt.Fprintf(os.Stderr, "ultrafxr: %s\n", err)
			return exitFailure
		}
		logger.Info("wrote WAV file", "path", outPath)
	}

	if *play {
		if err := playSamples(samples, float64(*sampleRate), int(bufSize)); err != nil {
			fmt.Fprintf(os.Stderr, "ultrafxr: %s\n", err)
			return exitFailure
		}
	}

	return exitOK
}

func clampBufferSize(n uint) uint {
	if n < 32 {
		n = 32
	}
	if n > 8192 {
		n = 8192
	}
	return nextPowerOfTwo(n)
}

func nextPowerOfTwo(n uint) uint {
	p := uint(1)
	for p < n {
		p <<= 1
	}
	return p
}

// parseProgram reads every top-level form out of src, reporting
// diagnostics through a console handler built from name and src.
func parseProgram(name string, src []byte) ([]ast.SExpr, *sourcetext.SourceText, bool) {
	sourceText := sourcetext.New(src)
	handler := &diag.Console{Out: os.Stderr, Name: name, Source: sourceText}
	tz, err := token.New(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ultrafxr: %s: %s\n", name, err)
		return nil, sourceText, false
	}
	p := parser.New()
	var program []ast.SExpr
	for {
		r := p.Parse(tz, handler)
		switch r.Kind {
		case parser.Value:
			program = append(program, r.Expr)
		case parser.None, parser.Incomplete:
			p.Finish(handler)
			return program, sourceText, !handler.Errored()
		case parser.Error:
			return nil, sourceText, false
		}
	}
}

// renderNotes renders the program once per note, concatenating the
// results: monophonic, one note at a time. Each note's gate releases
// gate seconds after it starts; a note's render never runs past tempo
// seconds (a patch with no "(stop)" envelope segment, such as a bare
// oscillator, never sets engine.Program.Done on its own), and if its
// natural decay finishes sooner, silence pads it out to keep successive
// note onsets tempo seconds apart.
func renderNotes(graph *engine.Graph, root engine.SignalRef, params engine.Parameters, notes []note.Note, tempo, gateTime float64) ([]float32, error) {
	gateSamples := timeFrom(gateTime, params.SampleRate)
	tempoSamples := timeFrom(tempo, params.SampleRate)
	var out []float32
	for _, n := range notes {
		prog, err := engine.NewProgram(graph, root, params)
		if err != nil {
			return nil, fmt.Errorf("compiling graph: %w", err)
		}
		rendered := renderOne(prog, float32(n), gateSamples, tempoSamples)
		if len(rendered) < tempoSamples {
			rendered = append(rendered, make([]float32, tempoSamples-len(rendered))...)
		}
		out = append(out, rendered...)
	}
	return out, nil
}

// renderOne renders at most maxSamples samples of prog, stopping early
// if the program's own envelope calls Stop first.
func renderOne(prog *engine.Program, noteValue float32, gateSamples, maxSamples int) []float32 {
	var samples []float32
	offset := 0
	for offset < maxSamples {
		remaining := gateSamples - offset
		var gatePtr *int
		if remaining >= 0 {
			g := remaining
			gatePtr = &g
		}
		buf, ok := prog.Render(engine.Input{Gate: gatePtr, Note: noteValue})
		if !ok {
			break
		}
		if offset+len(buf) > maxSamples {
			buf = buf[:maxSamples-offset]
		}
		samples = append(samples, buf...)
		offset += len(buf)
		if prog.Done() {
			break
		}
	}
	return samples
}

func timeFrom(seconds float64, sampleRate float64) int {
	n := seconds * sampleRate
	if n < 0 {
		return 0
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n + 0.5)
}

func deriveWavPath(inputName string) string {
	ext := filepath.Ext(inputName)
	base := strings.TrimSuffix(inputName, ext)
	if base == "" || base == "<script>" {
		base = "out"
	}
	return base + ".wav"
}

func writeWavFile(path string, samples []float32, sampleRate uint) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	w := wave.NewWriter(f, wave.Parameters{ChannelCount: 1, SampleRate: uint32(sampleRate)})
	if err := w.Write(samples); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := w.Finish(); err != nil {
		return fmt.Errorf("finishing %s: %w", path, err)
	}
	return nil
}

func playSamples(samples []float32, sampleRate float64, bufferSize int) error {
	p, err := player.Open(sampleRate, bufferSize)
	if err != nil {
		return fmt.Errorf("opening output device: %w", err)
	}
	defer p.Close()
	if err := p.Write(samples); err != nil {
		return fmt.Errorf("writing to output device: %w", err)
	}
	return nil
}

func dumpGraphAs(format string, graph *engine.Graph) (string, error) {
	switch format {
	case "text":
		return graph.Dump(), nil
	case "yaml":
		return dumpGraphYAML(graph)
	default:
		return "", fmt.Errorf("unknown -dump-graph format %q, expected text or yaml", format)
	}
}
