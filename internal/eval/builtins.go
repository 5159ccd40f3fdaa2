package eval

import (
	"github.com/depp/ultrafxr/internal/ast"
	"github.com/depp/ultrafxr/internal/dsp"
	"github.com/depp/ultrafxr/internal/engine"
	"github.com/depp/ultrafxr/internal/sourcepos"
	"github.com/depp/ultrafxr/internal/units"
)

func operators() map[string]operator {
	m := make(map[string]operator)
	add := func(name string, op operator) {
		if _, exists := m[name]; exists {
			panic("eval: duplicate operator name: " + name)
		}
		m[name] = op
	}

	add("define", operator{macro: defineMacro})
	add("envelope", operator{macro: envelopeMacro})

	add("note", operator{fn: noteFn})
	add("oscillator", operator{fn: oscillatorFn})
	add("sine", operator{fn: sineFn})
	add("sawtooth", operator{fn: sawtoothFn})
	add("saturate", operator{fn: saturateFn})
	add("rectify", operator{fn: rectifyFn})
	add("noise", operator{fn: noiseFn})
	add("*", operator{fn: multiplyFn})
	add("frequency", operator{fn: frequencyFn})
	add("mix", operator{fn: mixFn})
	add("phase-mod", operator{fn: phaseModFn})
	add("overtone", operator{fn: overtoneFn})
	add("highPass", operator{fn: highPassFn})
	add("lowPass2", operator{fn: svfFn(dsp.LowPass2)})
	add("highPass2", operator{fn: svfFn(dsp.HighPass2)})
	add("bandPass2", operator{fn: svfFn(dsp.BandPass2)})
	add("lowPass4", operator{fn: lowPass4Fn})

	return m
}

func checkNArgs(args []arg, min, max int, hasMax bool) error {
	n := len(args)
	if n < min || (hasMax && n > max) {
		return badNArgs(n, min, max, hasMax)
	}
	return nil
}

// defineMacro binds a name to a value: (define name expr).
func defineMacro(env *Env, pos sourcepos.Span, args []ast.SExpr) (Value, error) {
	if len(args) != 2 {
		return Value{}, badNArgs(len(args), 2, 2, true)
	}
	nameExpr, valueExpr := &args[0], &args[1]
	if nameExpr.Kind != ast.KindSymbol {
		env.Errorf(nameExpr.Pos, "name must be a symbol")
		return Value{}, errFailed
	}
	name := nameExpr.Sym
	if _, exists := env.variables[name]; exists {
		env.Errorf(nameExpr.Pos, "duplicate definition: %q", name)
		return Value{}, errFailed
	}
	v, err := env.eval(valueExpr)
	if err != nil {
		env.variables[name] = variable{failed: true}
		return Value{}, errFailed
	}
	v, verr := v.intoNonVoid()
	if verr != nil {
		env.Errorf(valueExpr.Pos, "invalid value for %s: %s", name, verr)
		env.variables[name] = variable{failed: true}
		return Value{}, errFailed
	}
	env.variables[name] = variable{value: v}
	return void(), nil
}

func noteFn(env *Env, pos sourcepos.Span, args []arg) (Value, error) {
	if err := checkNArgs(args, 1, 1, true); err != nil {
		return Value{}, err
	}
	offset, err := args[0].named("offset", 0).int(env)
	if err != nil {
		return Value{}, err
	}
	ref := env.newNode(dsp.Note{Offset: int32(offset)})
	return signal(ref, units.Hertz(1)), nil
}

func oscillatorFn(env *Env, pos sourcepos.Span, args []arg) (Value, error) {
	if err := checkNArgs(args, 1, 1, true); err != nil {
		return Value{}, err
	}
	freq, err := args[0].named("frequency", 0).signal(env, units.Hertz(1))
	if err != nil {
		return Value{}, err
	}
	ref := env.newNode(dsp.Oscillator{Frequency: freq})
	return signal(ref, units.Radian(1)), nil
}

func sineFn(env *Env, pos sourcepos.Span, args []arg) (Value, error) {
	if err := checkNArgs(args, 1, 1, true); err != nil {
		return Value{}, err
	}
	phase, err := args[0].named("phase", 0).signal(env, units.Radian(1))
	if err != nil {
		return Value{}, err
	}
	ref := env.newNode(dsp.Sine{Phase: phase})
	return signal(ref, units.Volt(1)), nil
}

func sawtoothFn(env *Env, pos sourcepos.Span, args []arg) (Value, error) {
	if err := checkNArgs(args, 1, 1, true); err != nil {
		return Value{}, err
	}
	phase, err := args[0].named("phase", 0).signal(env, units.Radian(1))
	if err != nil {
		return Value{}, err
	}
	ref := env.newNode(dsp.Sawtooth{Phase: phase})
	return signal(ref, units.Volt(1)), nil
}

func saturateFn(env *Env, pos sourcepos.Span, args []arg) (Value, error) {
	if err := checkNArgs(args, 1, 1, true); err != nil {
		return Value{}, err
	}
	in, err := args[0].named("input", 0).signal(env, units.Volt(1))
	if err != nil {
		return Value{}, err
	}
	ref := env.newNode(dsp.Saturate{Input: in})
	return signal(ref, units.Volt(1)), nil
}

func rectifyFn(env *Env, pos sourcepos.Span, args []arg) (Value, error) {
	if err := checkNArgs(args, 1, 1, true); err != nil {
		return Value{}, err
	}
	in, err := args[0].named("input", 0).signal(env, units.Volt(1))
	if err != nil {
		return Value{}, err
	}
	ref := env.newNode(dsp.Rectify{Input: in})
	return signal(ref, units.Volt(1)), nil
}

func noiseFn(env *Env, pos sourcepos.Span, args []arg) (Value, error) {
	if err := checkNArgs(args, 0, 0, true); err != nil {
		return Value{}, err
	}
	ref := env.newNode(dsp.Noise{SeedSeq: env.nextNoiseSeq()})
	return signal(ref, units.Volt(1)), nil
}

// multiplyFn implements "*": the sample-wise product of one or more
// signals of any units, with the result's units being the product of
// its arguments' units. Beyond the first argument, each further factor
// folds into a left-leaning tree of binary Multiply nodes, since the
// engine caps every node at four inputs.
func multiplyFn(env *Env, pos sourcepos.Span, args []arg) (Value, error) {
	if err := checkNArgs(args, 1, 0, false); err != nil {
		return Value{}, err
	}
	resultUnits := units.Scalar
	var acc engine.SignalRef
	for i := range args {
		ref, u, err := args[i].anySignal(env)
		if err != nil {
			return Value{}, err
		}
		combined, uerr := units.Multiply(resultUnits, u)
		if uerr != nil {
			env.Errorf(args[i].pos.Pos, "unit overflow multiplying %s by %s", resultUnits, u)
			return Value{}, errFailed
		}
		resultUnits = combined
		if i == 0 {
			acc = ref
		} else {
			acc = env.newNode(dsp.Multiply{A: acc, B: ref})
		}
	}
	return signal(acc, resultUnits), nil
}

func frequencyFn(env *Env, pos sourcepos.Span, args []arg) (Value, error) {
	if err := checkNArgs(args, 1, 1, true); err != nil {
		return Value{}, err
	}
	in, err := args[0].named("input", 0).signal(env, units.Scalar)
	if err != nil {
		return Value{}, err
	}
	ref := env.newNode(dsp.Frequency{Input: in})
	return signal(ref, units.Hertz(1)), nil
}

// parseMixPairs consumes a trailing (gain, signal) pair list, starting
// at args[start], into dsp.MixPair values with the signal checked
// against wantUnits.
func parseMixPairs(env *Env, args []arg, start int, wantUnits units.Units) ([]dsp.MixPair, error) {
	pairs := make([]dsp.MixPair, 0, (len(args)-start)/2)
	for i := start; i < len(args); i += 2 {
		gain, err := args[i].named("gain", i).gain(env)
		if err != nil {
			return nil, err
		}
		sig, err := args[i+1].named("input", i+1).signal(env, wantUnits)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, dsp.MixPair{Gain: float32(gain), Input: sig})
	}
	return pairs, nil
}

// foldMix chains pairs into a left-leaning tree of binary Mix nodes
// seeded from Zero, so the sum stays within the engine's 4-input cap
// regardless of how many pairs the caller supplies.
func foldMix(env *Env, pairs []dsp.MixPair) engine.SignalRef {
	acc := env.newNode(dsp.Zero{})
	for _, p := range pairs {
		acc = env.newNode(dsp.Mix{Base: acc, Input: p.Input, Gain: p.Gain})
	}
	return acc
}

func mixFn(env *Env, pos sourcepos.Span, args []arg) (Value, error) {
	if len(args)%2 != 0 {
		return Value{}, &opError{"got an odd number of args, expected (gain, signal) pairs"}
	}
	pairs, err := parseMixPairs(env, args, 0, units.Volt(1))
	if err != nil {
		return Value{}, err
	}
	ref := foldMix(env, pairs)
	return signal(ref, units.Volt(1)), nil
}

func phaseModFn(env *Env, pos sourcepos.Span, args []arg) (Value, error) {
	if len(args) == 0 || len(args)%2 != 1 {
		return Value{}, &opError{"got an even number of args, expected phase followed by (gain, signal) pairs"}
	}
	base, err := args[0].named("phase", 0).signal(env, units.Radian(1))
	if err != nil {
		return Value{}, err
	}
	pairs, err := parseMixPairs(env, args, 1, units.Volt(1))
	if err != nil {
		return Value{}, err
	}
	acc := base
	for _, p := range pairs {
		acc = env.newNode(dsp.PhaseMod{Base: acc, Input: p.Input, Gain: p.Gain})
	}
	return signal(acc, units.Radian(1)), nil
}

func overtoneFn(env *Env, pos sourcepos.Span, args []arg) (Value, error) {
	if err := checkNArgs(args, 2, 2, true); err != nil {
		return Value{}, err
	}
	scale, err := args[0].named("scale", 0).int(env)
	if err != nil {
		return Value{}, err
	}
	phase, err := args[1].named("phase", 1).signal(env, units.Radian(1))
	if err != nil {
		return Value{}, err
	}
	ref := env.newNode(dsp.Overtone{Phase: phase, Scale: int32(scale)})
	return signal(ref, units.Radian(1)), nil
}

func highPassFn(env *Env, pos sourcepos.Span, args []arg) (Value, error) {
	if err := checkNArgs(args, 2, 2, true); err != nil {
		return Value{}, err
	}
	freq, err := args[0].named("frequency", 0).float(env, units.Hertz(1))
	if err != nil {
		return Value{}, err
	}
	in, err := args[1].named("input", 1).signal(env, units.Volt(1))
	if err != nil {
		return Value{}, err
	}
	ref := env.newNode(dsp.HighPass{Input: in, Frequency: freq})
	return signal(ref, units.Volt(1)), nil
}

// svfFn returns the shared implementation for lowPass2/highPass2/
// bandPass2, which differ only in which state-variable tap they emit.
func svfFn(mode dsp.FilterMode) func(env *Env, pos sourcepos.Span, args []arg) (Value, error) {
	return func(env *Env, pos sourcepos.Span, args []arg) (Value, error) {
		if err := checkNArgs(args, 3, 3, true); err != nil {
			return Value{}, err
		}
		in, err := args[0].named("input", 0).signal(env, units.Volt(1))
		if err != nil {
			return Value{}, err
		}
		freq, err := args[1].named("frequency", 1).signal(env, units.Hertz(1))
		if err != nil {
			return Value{}, err
		}
		q, err := args[2].named("q", 2).float(env, units.Scalar)
		if err != nil {
			return Value{}, err
		}
		ref := env.newNode(dsp.StateVariable{Input: in, Frequency: freq, Q: q, Mode: mode})
		return signal(ref, units.Volt(1)), nil
	}
}

func lowPass4Fn(env *Env, pos sourcepos.Span, args []arg) (Value, error) {
	if err := checkNArgs(args, 3, 3, true); err != nil {
		return Value{}, err
	}
	in, err := args[0].named("input", 0).signal(env, units.Volt(1))
	if err != nil {
		return Value{}, err
	}
	freq, err := args[1].named("frequency", 1).signal(env, units.Hertz(1))
	if err != nil {
		return Value{}, err
	}
	q, err := args[2].named("q", 2).float(env, units.Scalar)
	if err != nil {
		return Value{}, err
	}
	ref := env.newNode(dsp.LowPass4{Input: in, Frequency: freq, Q: q})
	return signal(ref, units.Volt(1)), nil
}
