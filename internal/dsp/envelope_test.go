package dsp

import (
	"testing"

	"github.com/depp/ultrafxr/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeLinearRamp(t *testing.T) {
	g := engine.New()
	e := g.Add(Envelope{Segments: []Segment{
		{Kind: SegSet, Value: 0},
		{Kind: SegLinear, Time: 1, Value: 1}, // 1s at 4Hz = 4 samples
	}})
	prog, err := engine.NewProgram(g, e, engine.Parameters{SampleRate: 4, BufferSize: 8})
	require.NoError(t, err)
	out, ok := prog.Render(engine.Input{})
	require.True(t, ok)
	expect := []float32{0.25, 0.5, 0.75, 1.0, 1.0, 1.0, 1.0, 1.0}
	for i, v := range expect {
		assert.InDelta(t, v, out[i], 1e-6, "sample %d", i)
	}
}

func TestEnvelopeGateDividesSections(t *testing.T) {
	g := engine.New()
	e := g.Add(Envelope{Segments: []Segment{
		{Kind: SegSet, Value: 0},
		{Kind: SegGate},
		{Kind: SegSet, Value: 1},
	}})
	prog, err := engine.NewProgram(g, e, engine.Parameters{SampleRate: 4, BufferSize: 8})
	require.NoError(t, err)
	at := 3
	out, ok := prog.Render(engine.Input{Gate: &at})
	require.True(t, ok)
	for i := 0; i < 3; i++ {
		assert.EqualValues(t, 0, out[i], "sample %d before gate", i)
	}
	for i := 3; i < 8; i++ {
		assert.EqualValues(t, 1, out[i], "sample %d after gate", i)
	}
}

func TestEnvelopeStopEndsProgram(t *testing.T) {
	g := engine.New()
	e := g.Add(Envelope{Segments: []Segment{
		{Kind: SegSet, Value: 5},
		{Kind: SegStop},
	}})
	prog, err := engine.NewProgram(g, e, engine.Parameters{SampleRate: 4, BufferSize: 8})
	require.NoError(t, err)
	out, ok := prog.Render(engine.Input{})
	require.True(t, ok)
	assert.Len(t, out, 0)
	assert.True(t, prog.Done())
	_, ok = prog.Render(engine.Input{})
	assert.False(t, ok)
}
