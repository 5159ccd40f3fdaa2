package dsp

import (
	"testing"

	"github.com/depp/ultrafxr/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A constant (DC) input settles a state-variable filter's lowpass tap
// near the input value and its highpass/bandpass taps near zero.

func svfDCResponse(t *testing.T, mode FilterMode) float32 {
	t.Helper()
	g := engine.New()
	in := g.Add(Constant{Value: 1})
	freq := g.Add(Constant{Value: 1000})
	f := g.Add(StateVariable{Input: in, Frequency: freq, Q: 0.707, Mode: mode})
	prog, err := engine.NewProgram(g, f, engine.Parameters{SampleRate: testSampleRate, BufferSize: 4000})
	require.NoError(t, err)
	out, ok := prog.Render(engine.Input{})
	require.True(t, ok)
	return out[len(out)-1]
}

func TestStateVariableLowPassDCGain(t *testing.T) {
	assert.InDelta(t, 1, svfDCResponse(t, LowPass2), 0.05)
}

func TestStateVariableHighPassBlocksDC(t *testing.T) {
	assert.InDelta(t, 0, svfDCResponse(t, HighPass2), 0.05)
}

func TestStateVariableBandPassBlocksDC(t *testing.T) {
	assert.InDelta(t, 0, svfDCResponse(t, BandPass2), 0.05)
}

func TestHighPassBlocksDC(t *testing.T) {
	g := engine.New()
	in := g.Add(Constant{Value: 1})
	h := g.Add(HighPass{Input: in, Frequency: 1000})
	prog, err := engine.NewProgram(g, h, engine.Parameters{SampleRate: testSampleRate, BufferSize: 4000})
	require.NoError(t, err)
	out, ok := prog.Render(engine.Input{})
	require.True(t, ok)
	assert.InDelta(t, 0, out[len(out)-1], 0.05)
}

func TestLowPass4DCGain(t *testing.T) {
	g := engine.New()
	in := g.Add(Constant{Value: 1})
	freq := g.Add(Constant{Value: 1000})
	l := g.Add(LowPass4{Input: in, Frequency: freq, Q: 0.707})
	prog, err := engine.NewProgram(g, l, engine.Parameters{SampleRate: testSampleRate, BufferSize: 8000})
	require.NoError(t, err)
	out, ok := prog.Render(engine.Input{})
	require.True(t, ok)
	assert.InDelta(t, 1, out[len(out)-1], 0.05)
}
