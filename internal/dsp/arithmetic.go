package dsp

import (
	"math"

	"github.com/depp/ultrafxr/internal/engine"
	"github.com/depp/ultrafxr/internal/pcg"
)

// Multiply renders the sample-wise product of two signals. A longer
// argument list is folded by the evaluator into a left-leaning tree of
// these, since the engine caps every node at four inputs.
type Multiply struct {
	A, B engine.SignalRef
}

func (m Multiply) Inputs() []engine.SignalRef { return []engine.SignalRef{m.A, m.B} }
func (m Multiply) String() string             { return "*" }
func (m Multiply) Instantiate(engine.Parameters) (engine.Function, error) {
	return multiplyFn{}, nil
}

type multiplyFn struct{}

func (multiplyFn) Render(output []float32, inputs [][]float32, state *engine.State) {
	a, b := inputs[0], inputs[1]
	for i := range output {
		output[i] = a[i] * b[i]
	}
}

// Constant renders a fixed value on every sample.
type Constant struct{ Value float64 }

func (Constant) Inputs() []engine.SignalRef { return nil }
func (Constant) String() string             { return "constant" }
func (c Constant) Instantiate(engine.Parameters) (engine.Function, error) {
	return constantFn{value: float32(c.Value)}, nil
}

type constantFn struct{ value float32 }

func (f constantFn) Render(output []float32, inputs [][]float32, state *engine.State) {
	for i := range output {
		output[i] = f.value
	}
}

// Zero renders silence. Kept distinct from Constant{0} since it names
// the common case the way the rest of the operator table does.
type Zero struct{}

func (Zero) Inputs() []engine.SignalRef { return nil }
func (Zero) String() string             { return "zero" }
func (Zero) Instantiate(engine.Parameters) (engine.Function, error) {
	return constantFn{value: 0}, nil
}

// Frequency converts a scalar control signal to Hz via 630*32^x.
type Frequency struct{ Input engine.SignalRef }

func (f Frequency) Inputs() []engine.SignalRef { return []engine.SignalRef{f.Input} }
func (f Frequency) String() string             { return "frequency" }
func (f Frequency) Instantiate(engine.Parameters) (engine.Function, error) {
	return frequencyFn{}, nil
}

type frequencyFn struct{}

func (frequencyFn) Render(output []float32, inputs [][]float32, state *engine.State) {
	in := inputs[0]
	for i := range output {
		output[i] = float32(630 * math.Pow(32, float64(in[i])))
	}
}

// ScaleInt multiplies a signal by an integer constant.
type ScaleInt struct {
	Input engine.SignalRef
	Scale int32
}

func (s ScaleInt) Inputs() []engine.SignalRef { return []engine.SignalRef{s.Input} }
func (s ScaleInt) String() string             { return "scale-int" }
func (s ScaleInt) Instantiate(engine.Parameters) (engine.Function, error) {
	return scaleIntFn{scale: float32(s.Scale)}, nil
}

type scaleIntFn struct{ scale float32 }

func (f scaleIntFn) Render(output []float32, inputs [][]float32, state *engine.State) {
	in := inputs[0]
	for i := range output {
		output[i] = in[i] * f.scale
	}
}

// Note renders 440*2^((state.Note()+offset-69)/12), constant over the
// buffer. The note pitch itself comes from the engine's per-call state
// (set by the CLI's -notes flag); offset is this node's own parameter.
type Note struct{ Offset int32 }

func (Note) Inputs() []engine.SignalRef { return nil }
func (Note) String() string             { return "note" }
func (n Note) Instantiate(engine.Parameters) (engine.Function, error) {
	return &noteFn{offset: float64(n.Offset)}, nil
}

type noteFn struct{ offset float64 }

func (f *noteFn) Render(output []float32, inputs [][]float32, state *engine.State) {
	v := float32(440 * math.Pow(2, (float64(state.Note())+f.offset-69)/12))
	for i := range output {
		output[i] = v
	}
}

// Noise renders uniform [-1, +1) white noise from an independent PCG
// stream. SeedSeq selects that stream; callers assign a distinct value
// per noise node so that multiple noise sources in one graph do not
// correlate.
type Noise struct{ SeedSeq uint64 }

func (Noise) Inputs() []engine.SignalRef { return nil }
func (Noise) String() string             { return "noise" }
func (n Noise) Instantiate(engine.Parameters) (engine.Function, error) {
	r := pcg.WithSeed(0x9e3779b97f4a7c15, n.SeedSeq)
	return &noiseFn{rand: r}, nil
}

type noiseFn struct{ rand pcg.Rand }

func (f *noiseFn) Render(output []float32, inputs [][]float32, state *engine.State) {
	for i := range output {
		output[i] = f.rand.NextFloat()*2 - 1
	}
}

// MixPair is one (gain, signal) term of a mix or phase-mod expression.
// Gain is a plain constant: the evaluator resolves dB-or-scalar gain
// arguments to a float before building any graph node. It is not itself
// a Node; the evaluator folds a list of these into a chain of binary
// Mix or PhaseMod nodes.
type MixPair struct {
	Gain  float32
	Input engine.SignalRef
}

// Mix adds one gain-scaled signal onto a running sum: Base + Gain*Input.
// A "mix" of N (gain, signal) pairs is a left-leaning chain of these,
// seeded from Zero, so that no single node's input count depends on N.
type Mix struct {
	Base, Input engine.SignalRef
	Gain        float32
}

func (m Mix) Inputs() []engine.SignalRef { return []engine.SignalRef{m.Base, m.Input} }
func (m Mix) String() string             { return "mix" }
func (m Mix) Instantiate(engine.Parameters) (engine.Function, error) {
	return mixFn{gain: m.Gain}, nil
}

type mixFn struct{ gain float32 }

func (f mixFn) Render(output []float32, inputs [][]float32, state *engine.State) {
	base, in := inputs[0], inputs[1]
	for i := range output {
		output[i] = base[i] + f.gain*in[i]
	}
}

// PhaseMod adds one gain-scaled modulator signal onto a running phase:
// Base + Gain*Input. A "phase-mod" expression with N modulator pairs is
// a chain of these seeded from the carrier's own phase signal.
type PhaseMod struct {
	Base, Input engine.SignalRef
	Gain        float32
}

func (p PhaseMod) Inputs() []engine.SignalRef { return []engine.SignalRef{p.Base, p.Input} }
func (p PhaseMod) String() string             { return "phase-mod" }
func (p PhaseMod) Instantiate(engine.Parameters) (engine.Function, error) {
	return phaseModFn{gain: p.Gain}, nil
}

type phaseModFn struct{ gain float32 }

func (f phaseModFn) Render(output []float32, inputs [][]float32, state *engine.State) {
	base, mod := inputs[0], inputs[1]
	for i := range output {
		output[i] = base[i] + f.gain*mod[i]
	}
}
