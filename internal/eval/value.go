// Package eval evaluates a parsed S-expression program into a dataflow
// graph: it binds names, dispatches operators, and checks the unit
// algebra of every argument.
package eval

import (
	"errors"
	"fmt"
	"math"

	"github.com/depp/ultrafxr/internal/engine"
	"github.com/depp/ultrafxr/internal/units"
)

// errFailed marks a value as having already produced a diagnostic; it
// propagates silently instead of generating a second message.
var errFailed = errors.New("evaluation failed")

// DataType names the kind of data in a Value, for error messages.
type DataType int

const (
	TypeVoid DataType = iota
	TypeSignal
	TypeInt
	TypeFloat
	TypeNonVoid
)

func (d DataType) String() string {
	switch d {
	case TypeVoid:
		return "void"
	case TypeSignal:
		return "signal"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeNonVoid:
		return "non-void"
	default:
		return "value"
	}
}

// Value is the result of evaluating an expression: a plain int or
// float, a reference to a node in the graph under construction, or
// void (the result of a statement with no output). Units apply to all
// but void.
type Value struct {
	Kind   DataType
	Int    int64
	Float  float64
	Signal engine.SignalRef
	Units  units.Units
}

func void() Value { return Value{Kind: TypeVoid} }

func (v Value) typeString() string {
	if v.Kind == TypeVoid {
		return "void"
	}
	return fmt.Sprintf("%s(%s)", v.Kind, v.Units)
}

// ValueError describes why a Value did not have the shape an operator
// needed.
type ValueError struct {
	msg string
}

func (e *ValueError) Error() string { return e.msg }

func badType(v Value, expect string) error {
	return &ValueError{fmt.Sprintf("type is %s, expected %s", v.typeString(), expect)}
}

func (v Value) intoVoid() error {
	if v.Kind == TypeVoid {
		return nil
	}
	return badType(v, "void")
}

func (v Value) intoNonVoid() (Value, error) {
	if v.Kind == TypeVoid {
		return Value{}, badType(v, "non-void")
	}
	return v, nil
}

func (v Value) intoInt() (int64, error) {
	if v.Kind == TypeInt && v.Units.Dimensionless() {
		return v.Int, nil
	}
	return 0, badType(v, "int(1)")
}

func (v Value) intoFloat(u units.Units) (float64, error) {
	switch v.Kind {
	case TypeFloat:
		if v.Units == u {
			return v.Float, nil
		}
	case TypeInt:
		if v.Units == u {
			return float64(v.Int), nil
		}
	}
	return 0, badType(v, fmt.Sprintf("float(%s)", u))
}

// dbToRatio converts a decibel value to a linear amplitude ratio.
func dbToRatio(db float64) float64 {
	return math.Exp(db * (math.Log(10) / 20))
}

// intoGain accepts either a bare scalar or a dB value, converting dB to
// a linear ratio.
func (v Value) intoGain() (float64, error) {
	var num float64
	switch v.Kind {
	case TypeFloat:
		num = v.Float
	case TypeInt:
		num = float64(v.Int)
	default:
		return 0, badType(v, "gain (dB or scalar constant)")
	}
	switch v.Units {
	case units.Decibel(1):
		return dbToRatio(num), nil
	case units.Scalar:
		return num, nil
	default:
		return 0, badType(v, "gain (dB or scalar constant)")
	}
}

func (v Value) intoAnySignal() (engine.SignalRef, units.Units, error) {
	if v.Kind == TypeSignal {
		return v.Signal, v.Units, nil
	}
	return 0, units.Scalar, badType(v, "signal")
}

func (v Value) intoSignal(u units.Units) (engine.SignalRef, error) {
	if v.Kind == TypeSignal && v.Units == u {
		return v.Signal, nil
	}
	return 0, badType(v, fmt.Sprintf("signal(%s)", u))
}

func signal(ref engine.SignalRef, u units.Units) Value {
	return Value{Kind: TypeSignal, Signal: ref, Units: u}
}
