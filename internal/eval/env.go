package eval

import (
	"errors"
	"fmt"

	"github.com/depp/ultrafxr/internal/ast"
	"github.com/depp/ultrafxr/internal/diag"
	"github.com/depp/ultrafxr/internal/engine"
	"github.com/depp/ultrafxr/internal/sourcepos"
	"github.com/depp/ultrafxr/internal/units"
)

// opError reports a malformed call to an operator: wrong argument
// count. It is distinct from ValueError, which reports a malformed
// individual argument.
type opError struct{ msg string }

func (e *opError) Error() string { return e.msg }

func badNArgs(got, min int, max int, hasMax bool) error {
	if hasMax {
		if min < max {
			return &opError{fmt.Sprintf("got %d args, expected %d-%d", got, min, max)}
		}
		return &opError{fmt.Sprintf("got %d args, expected %d", got, min)}
	}
	return &opError{fmt.Sprintf("got %d args, expected at least %d", got, min)}
}

// arg is one evaluated function argument, carrying enough identity to
// produce a useful diagnostic if its type turns out to be wrong.
type arg struct {
	pos Label
	val Value
	err error
}

// Label identifies an argument's source position and name, for error
// messages of the form "invalid value for NAME: ...".
type Label struct {
	Pos   sourcepos.Span
	Name  string
	Index int
}

func (env *Env) reportArg(label Label, err error) error {
	if errors.Is(err, errFailed) {
		return errFailed
	}
	var msg string
	if label.Name != "" {
		msg = fmt.Sprintf("invalid value for %s: %s", label.Name, err)
	} else {
		msg = fmt.Sprintf("invalid value for argument %d: %s", label.Index, err)
	}
	env.Errorf(label.Pos, "%s", msg)
	return errFailed
}

func (a arg) named(name string, index int) arg {
	a.pos.Name = name
	a.pos.Index = index
	return a
}

func (a arg) int(env *Env) (int64, error) {
	if a.err != nil {
		return 0, a.err
	}
	v, err := a.val.intoInt()
	if err != nil {
		return 0, env.reportArg(a.pos, err)
	}
	return v, nil
}

func (a arg) float(env *Env, u units.Units) (float64, error) {
	if a.err != nil {
		return 0, a.err
	}
	v, err := a.val.intoFloat(u)
	if err != nil {
		return 0, env.reportArg(a.pos, err)
	}
	return v, nil
}

func (a arg) gain(env *Env) (float64, error) {
	if a.err != nil {
		return 0, a.err
	}
	v, err := a.val.intoGain()
	if err != nil {
		return 0, env.reportArg(a.pos, err)
	}
	return v, nil
}

func (a arg) signal(env *Env, u units.Units) (engine.SignalRef, error) {
	if a.err != nil {
		return 0, a.err
	}
	v, err := a.val.intoSignal(u)
	if err != nil {
		return 0, env.reportArg(a.pos, err)
	}
	return v, nil
}

func (a arg) anySignal(env *Env) (engine.SignalRef, units.Units, error) {
	if a.err != nil {
		return 0, units.Scalar, a.err
	}
	ref, u, err := a.val.intoAnySignal()
	if err != nil {
		return 0, units.Scalar, env.reportArg(a.pos, err)
	}
	return ref, u, nil
}

// operator is one entry of the operator table: exactly one of fn and
// macro is set. Functions receive pre-evaluated arguments; macros
// receive the raw, unevaluated argument forms.
type operator struct {
	fn    func(env *Env, pos sourcepos.Span, args []arg) (Value, error)
	macro func(env *Env, pos sourcepos.Span, args []ast.SExpr) (Value, error)
}

// variable holds a bound name's value, or a sticky failure marker if
// its defining expression could not be evaluated (so later references
// fail silently instead of re-reporting the same error).
type variable struct {
	value  Value
	failed bool
}

// Env is an evaluation environment: variable bindings, the operator
// table, the graph under construction, and a sticky error flag.
type Env struct {
	handler   diag.Handler
	hasError  bool
	variables map[string]variable
	operators map[string]operator
	graph     *engine.Graph
	noiseSeq  uint64
}

// New creates an environment that reports diagnostics to handler.
func New(handler diag.Handler) *Env {
	return &Env{
		handler:   handler,
		variables: make(map[string]variable),
		operators: operators(),
		graph:     engine.New(),
	}
}

// Errorf reports a diagnostic at pos and marks the environment as
// having failed.
func (env *Env) Errorf(pos sourcepos.Span, format string, a ...any) {
	env.hasError = true
	env.handler.Handle(pos, diag.Error, fmt.Sprintf(format, a...))
}

func (env *Env) newNode(n engine.Node) engine.SignalRef {
	return env.graph.Add(n)
}

func (env *Env) nextNoiseSeq() uint64 {
	env.noiseSeq++
	return env.noiseSeq
}

// eval evaluates one expression, returning errFailed if a diagnostic
// was already reported for it (by this call or a nested one).
func (env *Env) eval(expr *ast.SExpr) (Value, error) {
	switch expr.Kind {
	case ast.KindSymbol:
		v, ok := env.variables[expr.Sym]
		if !ok {
			env.Errorf(expr.Pos, "undefined symbol: %q", expr.Sym)
			return Value{}, errFailed
		}
		if v.failed {
			return Value{}, errFailed
		}
		return v.value, nil
	case ast.KindInteger:
		return Value{Kind: TypeInt, Int: expr.Int, Units: expr.Units}, nil
	case ast.KindFloat:
		return Value{Kind: TypeFloat, Float: expr.Float, Units: expr.Units}, nil
	case ast.KindList:
		return env.evalList(expr.Pos, expr.List)
	default:
		return Value{}, errFailed
	}
}

func (env *Env) evalList(pos sourcepos.Span, items []ast.SExpr) (Value, error) {
	if len(items) == 0 {
		env.Errorf(pos, "cannot evaluate empty list")
		return Value{}, errFailed
	}
	head := &items[0]
	args := items[1:]
	if head.Kind != ast.KindSymbol {
		env.Errorf(head.Pos, "function or macro name must be a symbol")
		return Value{}, errFailed
	}
	name := head.Sym
	op, ok := env.operators[name]
	if !ok {
		env.Errorf(head.Pos, "undefined function or macro: %q", name)
		return Value{}, errFailed
	}
	var result Value
	var err error
	if op.macro != nil {
		result, err = op.macro(env, pos, args)
	} else {
		vals := make([]arg, len(args))
		for i := range args {
			v, verr := env.eval(&args[i])
			vals[i] = arg{pos: Label{Pos: args[i].Pos, Index: i}, val: v, err: verr}
		}
		result, err = op.fn(env, pos, vals)
	}
	if err == nil {
		return result, nil
	}
	if errors.Is(err, errFailed) {
		return Value{}, errFailed
	}
	env.Errorf(head.Pos, "invalid call to %q: %s", name, err)
	return Value{}, errFailed
}

// EvaluateProgram evaluates a full program: every form but the last
// must be void, and the last must be a volt-unit signal, the audio
// output. It returns the constructed graph and the output's reference,
// or ok=false if any diagnostic was emitted.
func EvaluateProgram(handler diag.Handler, program []ast.SExpr) (graph *engine.Graph, root engine.SignalRef, ok bool) {
	if len(program) == 0 {
		handler.Handle(sourcepos.NoSpan, diag.Error, "empty program")
		return nil, 0, false
	}
	last := &program[len(program)-1]
	first := program[:len(program)-1]
	env := New(handler)
	for i := range first {
		form := &first[i]
		v, err := env.eval(form)
		if err == nil {
			if verr := v.intoVoid(); verr != nil {
				env.Errorf(form.Pos, "invalid top-level statement: %s", verr)
			}
		} else if !errors.Is(err, errFailed) {
			env.Errorf(form.Pos, "invalid top-level statement: %s", err)
		}
	}
	v, err := env.eval(last)
	var ref engine.SignalRef
	if err == nil {
		ref, err = v.intoSignal(units.Volt(1))
	}
	if err != nil {
		if !errors.Is(err, errFailed) {
			env.Errorf(last.Pos, "invalid program body: %s", err)
		}
		return nil, 0, false
	}
	if env.hasError {
		return nil, 0, false
	}
	return env.graph, ref, true
}
