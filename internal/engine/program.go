package engine

import (
	"errors"
	"fmt"
)

// Parameters configures how a Program renders.
type Parameters struct {
	SampleRate float64
	BufferSize int
}

// Input carries the per-call note/gate control values into Render.
type Input struct {
	// Gate is the sample offset within this call at which the gate was
	// released, or nil if the gate is still held (or was never set).
	Gate *int
	Note float32
}

// State is the mutable per-call control state every Function's Render
// observes and may mutate (via Stop) to request early termination.
type State struct {
	gate *int
	note float32
	end  *int
}

// Gate returns the sample offset of gate release within this call, or
// nil if the gate is still held.
func (s *State) Gate() *int { return s.gate }

// Note returns the current note, as a MIDI note number.
func (s *State) Note() float32 { return s.note }

// Stop requests that rendering end at the given sample offset within the
// current call's buffers. The earliest requested offset wins.
func (s *State) Stop(pos int) {
	if s.end == nil || pos < *s.end {
		p := pos
		s.end = &p
	}
}

// Function is the stateful, render-time counterpart to a Node: it owns
// whatever state (phase, filter memory, envelope position) persists
// across calls to Render.
type Function interface {
	Render(output []float32, inputs [][]float32, state *State)
}

// ErrContainsLoop is returned by NewProgram if the reachable subgraph
// contains a cycle. Graph.Add already forbids this by construction, but
// the scheduler still checks, the same way original_source's DFS did,
// rather than trusting an invariant enforced far away.
var ErrContainsLoop = errors.New("engine: audio graph contains a cycle")

// ErrBadBuffer is returned by NewProgram if the buffer size is zero.
var ErrBadBuffer = errors.New("engine: invalid buffer size")

type compiledNode struct {
	fn         Function
	inputCount int
	inputs     [4]int
}

// Program is a compiled, topologically-ordered rendering plan for one
// output signal of a Graph.
type Program struct {
	bufferSize int
	buffer     []float32
	nodes      []compiledNode
	done       bool
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

// NewProgram compiles the subgraph reachable from output into a
// topologically-ordered render plan.
func NewProgram(g *Graph, output SignalRef, params Parameters) (*Program, error) {
	if params.BufferSize == 0 {
		return nil, ErrBadBuffer
	}
	states := make([]visitState, g.Len())
	compiledIndex := make([]int, g.Len())
	var nodes []compiledNode

	type frame struct {
		ref  SignalRef
		post bool
	}
	stack := []frame{{ref: output, post: false}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.post {
			n := g.Node(f.ref)
			inputs := n.Inputs()
			var inputArr [4]int
			for i := range inputArr {
				inputArr[i] = -1
			}
			for i, in := range inputs {
				inputArr[i] = compiledIndex[in]
			}
			fn, err := n.Instantiate(params)
			if err != nil {
				return nil, fmt.Errorf("engine: instantiate node %d (%s): %w", f.ref, n, err)
			}
			compiledIndex[f.ref] = len(nodes)
			states[f.ref] = visited
			nodes = append(nodes, compiledNode{fn: fn, inputCount: len(inputs), inputs: inputArr})
			continue
		}
		switch states[f.ref] {
		case visited:
			continue
		case visiting:
			return nil, ErrContainsLoop
		}
		states[f.ref] = visiting
		stack = append(stack, frame{ref: f.ref, post: true})
		inputs := g.Node(f.ref).Inputs()
		for i := len(inputs) - 1; i >= 0; i-- {
			stack = append(stack, frame{ref: inputs[i], post: false})
		}
	}

	buffer := make([]float32, params.BufferSize*len(nodes))
	return &Program{bufferSize: params.BufferSize, buffer: buffer, nodes: nodes}, nil
}

// Render produces up to one buffer's worth of samples. It returns nil,
// false once the program has finished (a prior call observed a Stop and
// already returned the final partial buffer).
func (p *Program) Render(input Input) ([]float32, bool) {
	if p.done {
		return nil, false
	}
	state := State{gate: input.Gate, note: input.Note}
	outputs := make([][]float32, len(p.nodes))
	for i, n := range p.nodes {
		output := p.buffer[i*p.bufferSize : (i+1)*p.bufferSize]
		var inputs [4][]float32
		for j := 0; j < n.inputCount; j++ {
			inputs[j] = outputs[n.inputs[j]]
		}
		n.fn.Render(output, inputs[:n.inputCount], &state)
		outputs[i] = output
	}
	last := outputs[len(outputs)-1]
	if state.end != nil {
		p.done = true
		n := *state.end
		if n < 0 {
			n = 0
		}
		if n > len(last) {
			n = len(last)
		}
		return last[:n], true
	}
	return last, true
}

// Done reports whether the program has finished rendering.
func (p *Program) Done() bool { return p.done }
