package dsp

import (
	"math"

	"github.com/depp/ultrafxr/internal/engine"
)

// svfStep performs one iteration of the two-integrator state-variable
// filter update, returning the updated (a, b) state and the highpass
// tap c.
func svfStep(a, b, x, f, invQ float32) (na, nb, c float32) {
	nb = b + f*a
	c = x - nb - invQ*a
	na = a + f*c
	return na, nb, c
}

// HighPass is a fixed-frequency 2-pole high-pass filter (Q = sqrt(2)),
// oversampled by running the SVF update twice per output sample.
type HighPass struct {
	Input     engine.SignalRef
	Frequency float64 // Hz, a compile-time constant
}

func (h HighPass) Inputs() []engine.SignalRef { return []engine.SignalRef{h.Input} }
func (h HighPass) String() string             { return "highPass" }

func (h HighPass) Instantiate(params engine.Parameters) (engine.Function, error) {
	f := float32(math.Sin(2 * math.Pi * h.Frequency / params.SampleRate))
	return &highPassFn{f: f, invQ: float32(1 / math.Sqrt2)}, nil
}

type highPassFn struct {
	a, b, f, invQ float32
}

func (fn *highPassFn) Render(output []float32, inputs [][]float32, state *engine.State) {
	in := inputs[0]
	for i, x := range in {
		var c float32
		fn.a, fn.b, c = svfStep(fn.a, fn.b, x, fn.f, fn.invQ)
		fn.a, fn.b, c = svfStep(fn.a, fn.b, x, fn.f, fn.invQ)
		output[i] = c
	}
}

// FilterMode selects which state-variable filter tap is emitted.
type FilterMode int

const (
	LowPass2 FilterMode = iota
	HighPass2
	BandPass2
)

func (m FilterMode) String() string {
	switch m {
	case LowPass2:
		return "lowPass2"
	case HighPass2:
		return "highPass2"
	case BandPass2:
		return "bandPass2"
	default:
		return "svf"
	}
}

const maxSVFFrequency = 20000

// StateVariable is a 2-pole state-variable filter with a per-sample Hz
// frequency input and a constant Q, oversampled by running the inner
// update twice per output sample.
type StateVariable struct {
	Input     engine.SignalRef
	Frequency engine.SignalRef
	Q         float64
	Mode      FilterMode
}

func (s StateVariable) Inputs() []engine.SignalRef {
	return []engine.SignalRef{s.Input, s.Frequency}
}
func (s StateVariable) String() string { return s.Mode.String() }

func (s StateVariable) Instantiate(params engine.Parameters) (engine.Function, error) {
	return &svfFn{
		invQ:       float32(1 / s.Q),
		mode:       s.Mode,
		sampleRate: params.SampleRate,
	}, nil
}

type svfFn struct {
	a, b       float32
	invQ       float32
	mode       FilterMode
	sampleRate float64
}

func svfCoefficient(freq float32, sampleRate float64) float32 {
	clamped := math.Min(0.5*float64(freq), maxSVFFrequency)
	return float32(math.Sin(2 * math.Pi * clamped / sampleRate))
}

func (fn *svfFn) Render(output []float32, inputs [][]float32, state *engine.State) {
	in, freq := inputs[0], inputs[1]
	for i, x := range in {
		f := svfCoefficient(freq[i], fn.sampleRate)
		var c float32
		fn.a, fn.b, c = svfStep(fn.a, fn.b, x, f, fn.invQ)
		fn.a, fn.b, c = svfStep(fn.a, fn.b, x, f, fn.invQ)
		switch fn.mode {
		case LowPass2:
			output[i] = fn.b
		case HighPass2:
			output[i] = c
		case BandPass2:
			output[i] = fn.a
		}
	}
}

// LowPass4 cascades two state-variable low-pass stages that share the
// same frequency input and the same Q, transformed from q to
// sqrt(q * sqrt(0.5)).
type LowPass4 struct {
	Input     engine.SignalRef
	Frequency engine.SignalRef
	Q         float64
}

func (l LowPass4) Inputs() []engine.SignalRef {
	return []engine.SignalRef{l.Input, l.Frequency}
}
func (l LowPass4) String() string { return "lowPass4" }

func (l LowPass4) Instantiate(params engine.Parameters) (engine.Function, error) {
	q := math.Sqrt(l.Q * math.Sqrt(0.5))
	return &lowPass4Fn{
		invQ:       float32(1 / q),
		sampleRate: params.SampleRate,
	}, nil
}

type lowPass4Fn struct {
	a1, b1, a2, b2 float32
	invQ           float32
	sampleRate     float64
}

func (fn *lowPass4Fn) Render(output []float32, inputs [][]float32, state *engine.State) {
	in, freq := inputs[0], inputs[1]
	for i, x := range in {
		f := svfCoefficient(freq[i], fn.sampleRate)
		var stage1 float32
		fn.a1, fn.b1, _ = svfStep(fn.a1, fn.b1, x, f, fn.invQ)
		fn.a1, fn.b1, _ = svfStep(fn.a1, fn.b1, x, f, fn.invQ)
		stage1 = fn.b1
		fn.a2, fn.b2, _ = svfStep(fn.a2, fn.b2, stage1, f, fn.invQ)
		fn.a2, fn.b2, _ = svfStep(fn.a2, fn.b2, stage1, f, fn.invQ)
		output[i] = fn.b2
	}
}
