package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constNode struct{ value float32 }

func (constNode) Inputs() []SignalRef { return nil }
func (c constNode) Instantiate(Parameters) (Function, error) {
	return constFn{value: c.value}, nil
}
func (constNode) String() string { return "const" }

type constFn struct{ value float32 }

func (c constFn) Render(output []float32, inputs [][]float32, state *State) {
	for i := range output {
		output[i] = c.value
	}
}

type sumNode struct{ a, b SignalRef }

func (n sumNode) Inputs() []SignalRef { return []SignalRef{n.a, n.b} }
func (sumNode) Instantiate(Parameters) (Function, error) {
	return sumFn{}, nil
}
func (sumNode) String() string { return "sum" }

type sumFn struct{}

func (sumFn) Render(output []float32, inputs [][]float32, state *State) {
	for i := range output {
		output[i] = inputs[0][i] + inputs[1][i]
	}
}

type stopNode struct{ in SignalRef; at int }

func (n stopNode) Inputs() []SignalRef { return []SignalRef{n.in} }
func (n stopNode) Instantiate(Parameters) (Function, error) {
	return stopFn{at: n.at}, nil
}
func (stopNode) String() string { return "stop" }

type stopFn struct{ at int }

func (s stopFn) Render(output []float32, inputs [][]float32, state *State) {
	copy(output, inputs[0])
	state.Stop(s.at)
}

func TestProgramRendersSum(t *testing.T) {
	g := New()
	a := g.Add(constNode{value: 1})
	b := g.Add(constNode{value: 2})
	sum := g.Add(sumNode{a: a, b: b})
	prog, err := NewProgram(g, sum, Parameters{SampleRate: 48000, BufferSize: 4})
	require.NoError(t, err)
	out, ok := prog.Render(Input{})
	require.True(t, ok)
	for _, v := range out {
		assert.EqualValues(t, 3, v)
	}
}

func TestProgramStopsEarly(t *testing.T) {
	g := New()
	a := g.Add(constNode{value: 5})
	s := g.Add(stopNode{in: a, at: 2})
	prog, err := NewProgram(g, s, Parameters{SampleRate: 48000, BufferSize: 8})
	require.NoError(t, err)
	out, ok := prog.Render(Input{})
	require.True(t, ok)
	assert.Len(t, out, 2)
	_, ok = prog.Render(Input{})
	assert.False(t, ok)
	assert.True(t, prog.Done())
}

func TestBadBufferSize(t *testing.T) {
	g := New()
	a := g.Add(constNode{value: 1})
	_, err := NewProgram(g, a, Parameters{SampleRate: 48000, BufferSize: 0})
	assert.ErrorIs(t, err, ErrBadBuffer)
}

func TestAddPanicsOnForwardReference(t *testing.T) {
	g := New()
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on forward reference")
		}
	}()
	g.Add(sumNode{a: 0, b: 1})
}
