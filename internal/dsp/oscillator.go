// Package dsp implements the concrete dataflow nodes (C10): signal
// generators, waveform shapers, filters, and the envelope runtime.
package dsp

import (
	"math"

	"github.com/depp/ultrafxr/internal/engine"
)

// Oscillator accumulates a phase signal, in cycles, from a frequency
// input in Hz. Output is the pre-increment phase; the phase wraps only
// once it exceeds 1, so the output lies in [0,1].
type Oscillator struct {
	Frequency engine.SignalRef
}

func (o Oscillator) Inputs() []engine.SignalRef { return []engine.SignalRef{o.Frequency} }
func (o Oscillator) String() string             { return "oscillator" }

func (o Oscillator) Instantiate(params engine.Parameters) (engine.Function, error) {
	return &oscillatorFn{dt: 1 / params.SampleRate}, nil
}

type oscillatorFn struct {
	phase float64
	dt    float64
}

func (f *oscillatorFn) Render(output []float32, inputs [][]float32, state *engine.State) {
	freq := inputs[0]
	for i := range output {
		output[i] = float32(f.phase)
		f.phase += float64(freq[i]) * f.dt
		if f.phase > 1 {
			f.phase -= math.Floor(f.phase)
		}
	}
}

// Sine renders sin(2*pi*phase) from a phase (cycles) input.
type Sine struct{ Phase engine.SignalRef }

func (s Sine) Inputs() []engine.SignalRef { return []engine.SignalRef{s.Phase} }
func (s Sine) String() string             { return "sine" }
func (s Sine) Instantiate(engine.Parameters) (engine.Function, error) {
	return sineFn{}, nil
}

type sineFn struct{}

func (sineFn) Render(output []float32, inputs [][]float32, state *engine.State) {
	in := inputs[0]
	for i := range output {
		output[i] = float32(math.Sin(2 * math.Pi * float64(in[i])))
	}
}

// Sawtooth renders 2*phase - 1 from a phase (cycles) input.
type Sawtooth struct{ Phase engine.SignalRef }

func (s Sawtooth) Inputs() []engine.SignalRef { return []engine.SignalRef{s.Phase} }
func (s Sawtooth) String() string             { return "sawtooth" }
func (s Sawtooth) Instantiate(engine.Parameters) (engine.Function, error) {
	return sawtoothFn{}, nil
}

type sawtoothFn struct{}

func (sawtoothFn) Render(output []float32, inputs [][]float32, state *engine.State) {
	in := inputs[0]
	for i := range output {
		output[i] = 2*in[i] - 1
	}
}

// Saturate renders tanh(x).
type Saturate struct{ Input engine.SignalRef }

func (s Saturate) Inputs() []engine.SignalRef { return []engine.SignalRef{s.Input} }
func (s Saturate) String() string             { return "saturate" }
func (s Saturate) Instantiate(engine.Parameters) (engine.Function, error) {
	return saturateFn{}, nil
}

type saturateFn struct{}

func (saturateFn) Render(output []float32, inputs [][]float32, state *engine.State) {
	in := inputs[0]
	for i := range output {
		output[i] = float32(math.Tanh(float64(in[i])))
	}
}

// Rectify renders |x|.
type Rectify struct{ Input engine.SignalRef }

func (r Rectify) Inputs() []engine.SignalRef { return []engine.SignalRef{r.Input} }
func (r Rectify) String() string             { return "rectify" }
func (r Rectify) Instantiate(engine.Parameters) (engine.Function, error) {
	return rectifyFn{}, nil
}

type rectifyFn struct{}

func (rectifyFn) Render(output []float32, inputs [][]float32, state *engine.State) {
	in := inputs[0]
	for i := range output {
		v := in[i]
		if v < 0 {
			v = -v
		}
		output[i] = v
	}
}

// Overtone multiplies a phase (cycles) signal by an integer.
type Overtone struct {
	Phase engine.SignalRef
	Scale int32
}

func (o Overtone) Inputs() []engine.SignalRef { return []engine.SignalRef{o.Phase} }
func (o Overtone) String() string             { return "overtone" }
func (o Overtone) Instantiate(engine.Parameters) (engine.Function, error) {
	return overtoneFn{scale: float32(o.Scale)}, nil
}

type overtoneFn struct{ scale float32 }

func (f overtoneFn) Render(output []float32, inputs [][]float32, state *engine.State) {
	in := inputs[0]
	for i := range output {
		output[i] = in[i] * f.scale
	}
}
