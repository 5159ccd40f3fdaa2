package eval

import (
	"github.com/depp/ultrafxr/internal/ast"
	"github.com/depp/ultrafxr/internal/dsp"
	"github.com/depp/ultrafxr/internal/sourcepos"
	"github.com/depp/ultrafxr/internal/units"
)

// envelopeMacro implements (envelope seg...), where each seg is itself
// a form naming one of set/lin/exp/delay/gate/stop.
func envelopeMacro(env *Env, pos sourcepos.Span, args []ast.SExpr) (Value, error) {
	segments := make([]dsp.Segment, 0, len(args))
	failed := false
	for i := range args {
		seg, err := evalSegment(env, &args[i])
		if err != nil {
			failed = true
			continue
		}
		segments = append(segments, seg)
	}
	if failed {
		return Value{}, errFailed
	}
	ref := env.newNode(dsp.Envelope{Segments: segments})
	return signal(ref, units.Scalar), nil
}

func evalSegment(env *Env, expr *ast.SExpr) (dsp.Segment, error) {
	if expr.Kind != ast.KindList {
		env.Errorf(expr.Pos, "expected an envelope segment form")
		return dsp.Segment{}, errFailed
	}
	items := expr.List
	if len(items) == 0 {
		env.Errorf(expr.Pos, "cannot evaluate empty list")
		return dsp.Segment{}, errFailed
	}
	head := &items[0]
	if head.Kind != ast.KindSymbol {
		env.Errorf(head.Pos, "envelope segment name must be a symbol")
		return dsp.Segment{}, errFailed
	}
	rawArgs := items[1:]
	name := head.Sym

	vals := make([]arg, len(rawArgs))
	for i := range rawArgs {
		v, verr := env.eval(&rawArgs[i])
		vals[i] = arg{pos: Label{Pos: rawArgs[i].Pos, Index: i}, val: v, err: verr}
	}

	var seg dsp.Segment
	var err error
	switch name {
	case "set":
		seg, err = segSet(env, vals)
	case "lin":
		seg, err = segLin(env, vals)
	case "exp":
		seg, err = segExp(env, vals)
	case "delay":
		seg, err = segDelay(env, vals)
	case "gate":
		seg, err = segGate(env, vals)
	case "stop":
		seg, err = segStop(env, vals)
	default:
		env.Errorf(expr.Pos, "undefined envelope segment: %q", name)
		return dsp.Segment{}, errFailed
	}
	if err == nil {
		return seg, nil
	}
	if seg2, ok := err.(*opError); ok {
		env.Errorf(head.Pos, "invalid segment %s: %s", name, seg2)
		return dsp.Segment{}, errFailed
	}
	return dsp.Segment{}, errFailed
}

func segSet(env *Env, args []arg) (dsp.Segment, error) {
	if err := checkNArgs(args, 1, 1, true); err != nil {
		return dsp.Segment{}, err
	}
	v, err := args[0].named("value", 0).float(env, units.Scalar)
	if err != nil {
		return dsp.Segment{}, err
	}
	return dsp.Segment{Kind: dsp.SegSet, Value: v}, nil
}

func segLin(env *Env, args []arg) (dsp.Segment, error) {
	if err := checkNArgs(args, 2, 2, true); err != nil {
		return dsp.Segment{}, err
	}
	t, err := args[0].named("time", 0).float(env, units.Second(1))
	if err != nil {
		return dsp.Segment{}, err
	}
	v, err := args[1].named("value", 1).float(env, units.Scalar)
	if err != nil {
		return dsp.Segment{}, err
	}
	return dsp.Segment{Kind: dsp.SegLinear, Time: t, Value: v}, nil
}

func segExp(env *Env, args []arg) (dsp.Segment, error) {
	if err := checkNArgs(args, 2, 2, true); err != nil {
		return dsp.Segment{}, err
	}
	t, err := args[0].named("time", 0).float(env, units.Second(1))
	if err != nil {
		return dsp.Segment{}, err
	}
	v, err := args[1].named("value", 1).float(env, units.Scalar)
	if err != nil {
		return dsp.Segment{}, err
	}
	return dsp.Segment{Kind: dsp.SegExponential, Time: t, Value: v}, nil
}

func segDelay(env *Env, args []arg) (dsp.Segment, error) {
	if err := checkNArgs(args, 1, 1, true); err != nil {
		return dsp.Segment{}, err
	}
	t, err := args[0].named("time", 0).float(env, units.Second(1))
	if err != nil {
		return dsp.Segment{}, err
	}
	return dsp.Segment{Kind: dsp.SegDelay, Time: t}, nil
}

func segGate(env *Env, args []arg) (dsp.Segment, error) {
	if err := checkNArgs(args, 0, 0, true); err != nil {
		return dsp.Segment{}, err
	}
	return dsp.Segment{Kind: dsp.SegGate}, nil
}

func segStop(env *Env, args []arg) (dsp.Segment, error) {
	if err := checkNArgs(args, 0, 0, true); err != nil {
		return dsp.Segment{}, err
	}
	return dsp.Segment{Kind: dsp.SegStop}, nil
}
