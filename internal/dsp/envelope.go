package dsp

import (
	"math"

	"github.com/depp/ultrafxr/internal/engine"
)

// SegmentKind discriminates one envelope segment, as produced by the
// envelope compiler (C7) from an `envelope` form's sub-expressions.
type SegmentKind int

const (
	SegSet SegmentKind = iota
	SegLinear
	SegExponential
	SegDelay
	SegGate
	SegStop
)

// Segment is one eval-time envelope segment. Time and Value are in
// seconds and scalar units respectively; Envelope.Instantiate converts
// Time to samples.
type Segment struct {
	Kind  SegmentKind
	Time  float64
	Value float64
}

// Envelope is the node description for an `envelope` form: a flat list
// of segments, with Gate segments dividing it into parallel sections.
type Envelope struct {
	Segments []Segment
}

func (Envelope) Inputs() []engine.SignalRef { return nil }
func (Envelope) String() string             { return "envelope" }

func timeFrom(samples float64) int {
	if samples < 0 {
		return 0
	}
	if samples > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Round(samples))
}

// fsegment is one compiled, sample-domain segment.
type fsegmentKind int

const (
	fSet fsegmentKind = iota
	fLinear
	fExponential
	fDelay
	fGate
	fStop
)

type fsegment struct {
	kind          fsegmentKind
	value         float32
	time          int
	timeConstant  float32
	threshold     float32
}

// section is one parallel strand of an envelope's runtime state
// machine, running from one Gate divider to the next.
type section struct {
	generator generator
	timeState timeState
	index     int
	segments  []fsegment
}

type timeKind int

const (
	tDone timeKind = iota
	tForever
	tTimed
	tGate
)

type timeState struct {
	kind timeKind
	n    int
}

type generatorKind int

const (
	gPassthrough generatorKind = iota
	gConstant
	gLinear
	gExponential
)

type generator struct {
	kind   generatorKind
	value  float32 // Passthrough/Constant/Linear current value
	delta  float32 // Linear
	remain int     // Linear remaining samples
	target float32 // Linear/Exponential
	offset float32 // Exponential
	decay  float32 // Exponential
}

func (g generator) currentValue() float32 {
	switch g.kind {
	case gExponential:
		return g.target + g.offset
	default:
		return g.value
	}
}

// render fills output fully according to the generator, possibly
// transitioning Linear to Constant when its ramp completes mid-buffer.
func (g *generator) render(output []float32) {
	switch g.kind {
	case gPassthrough:
		if len(output) > 0 {
			g.value = output[len(output)-1]
		}
	case gConstant:
		for i := range output {
			output[i] = g.value
		}
	case gLinear:
		n := g.remain
		if n > len(output) {
			n = len(output)
		}
		v := g.value
		for i := 0; i < n; i++ {
			v += g.delta
			output[i] = v
		}
		g.value = v
		g.remain -= n
		if g.remain <= 0 {
			for i := n; i < len(output); i++ {
				output[i] = g.target
			}
			g.kind = gConstant
			g.value = g.target
		}
	case gExponential:
		v := g.offset
		for i := range output {
			output[i] = g.target + v
			v *= g.decay
		}
		g.offset = v
	}
}

// Instantiate compiles the eval-time segment list into sections and
// returns the render-time Function.
func (e Envelope) Instantiate(params engine.Parameters) (engine.Function, error) {
	var sections []section
	var current []fsegment
	addState := func() {
		gen := generator{kind: gPassthrough}
		if len(sections) == 0 {
			gen = generator{kind: gConstant, value: 0}
		}
		sections = append(sections, section{
			generator: gen,
			timeState: timeState{kind: tDone},
			segments:  current,
		})
		current = nil
	}
	for _, seg := range e.Segments {
		switch seg.Kind {
		case SegSet:
			current = append(current, fsegment{kind: fSet, value: float32(seg.Value)})
		case SegLinear:
			current = append(current, fsegment{
				kind:  fLinear,
				value: float32(seg.Value),
				time:  timeFrom(seg.Time * params.SampleRate),
			})
		case SegExponential:
			current = append(current, fsegment{
				kind:         fExponential,
				value:        float32(seg.Value),
				timeConstant: float32(seg.Time * params.SampleRate),
				threshold:    0.05,
			})
		case SegDelay:
			current = append(current, fsegment{kind: fDelay, time: timeFrom(seg.Time * params.SampleRate)})
		case SegGate:
			addState()
			current = []fsegment{{kind: fGate}}
		case SegStop:
			current = append(current, fsegment{kind: fStop})
		}
	}
	addState()
	return &envelopeFn{sections: sections}, nil
}

type envelopeFn struct {
	sections []section
}

func (f *envelopeFn) Render(output []float32, inputs [][]float32, state *engine.State) {
	for i := range f.sections {
		renderSection(&f.sections[i], output, state)
	}
}

// renderSection runs one section's state machine across the whole
// output buffer, advancing through its segments as each one's time
// budget is exhausted.
func renderSection(s *section, output []float32, state *engine.State) {
	pos := 0
	for len(output) > 0 {
		n, done := renderNext(s, output, state)
		if !done {
			return
		}
		pos += n
		output = output[n:]
		advance(s, pos, state)
	}
}

// renderNext renders as much of output as the section's current time
// budget allows. It returns the number of samples it decided to stop
// after (0 if the section must advance before producing anything) and
// whether the caller should advance and continue (true) or the buffer
// was fully consumed for this call (false).
func renderNext(s *section, output []float32, state *engine.State) (int, bool) {
	switch s.timeState.kind {
	case tDone:
		return 0, true
	case tForever:
		s.generator.render(output)
		return 0, false
	case tTimed:
		return renderPartial(s, output, s.timeState.n)
	case tGate:
		if g := state.Gate(); g != nil {
			return renderPartial(s, output, *g)
		}
		s.generator.render(output)
		return 0, false
	default:
		return 0, false
	}
}

func renderPartial(s *section, output []float32, t int) (int, bool) {
	if t < len(output) {
		s.generator.render(output[:t])
		return t, true
	}
	s.generator.render(output)
	if s.timeState.kind == tTimed {
		s.timeState.n = t - len(output)
	}
	return 0, false
}

// advance moves the section to its next segment, building the next
// generator and time budget. If no segments remain, the section keeps
// running its current generator forever (a finished linear ramp holds
// its target; an exponential keeps decaying toward its target).
func advance(s *section, offset int, state *engine.State) {
	if s.index >= len(s.segments) {
		s.timeState = timeState{kind: tForever}
		return
	}
	seg := s.segments[s.index]
	s.index++
	switch seg.kind {
	case fSet:
		s.generator = generator{kind: gConstant, value: seg.value}
		s.timeState = timeState{kind: tDone}
	case fLinear:
		target := seg.value
		start := s.generator.currentValue()
		var delta float32
		if seg.time > 0 {
			delta = (target - start) / float32(seg.time)
		}
		s.generator = generator{kind: gLinear, value: start, delta: delta, remain: seg.time, target: target}
		s.timeState = timeState{kind: tTimed, n: seg.time}
	case fExponential:
		target := seg.value
		offsetVal := s.generator.currentValue() - target
		decay := float32(math.Exp(-1 / float64(seg.timeConstant)))
		var dur int
		if offsetVal != 0 && seg.threshold > 0 {
			ratio := math.Abs(float64(offsetVal)) / float64(seg.threshold)
			if ratio > 1 {
				dur = timeFrom(float64(seg.timeConstant) * math.Log(ratio))
			}
		}
		s.generator = generator{kind: gExponential, offset: offsetVal, target: target, decay: decay}
		s.timeState = timeState{kind: tTimed, n: dur}
	case fDelay:
		s.timeState = timeState{kind: tTimed, n: seg.time}
	case fGate:
		s.timeState = timeState{kind: tGate}
	case fStop:
		state.Stop(offset)
		s.timeState = timeState{kind: tDone}
	}
}
