// Package ast defines the S-expression abstract syntax tree produced by
// the parser.
package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/depp/ultrafxr/internal/sourcepos"
	"github.com/depp/ultrafxr/internal/units"
)

// Kind discriminates the content of an SExpr node.
type Kind int

const (
	KindSymbol Kind = iota
	KindInteger
	KindFloat
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindSymbol:
		return "symbol"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindList:
		return "list"
	default:
		return "expr"
	}
}

// SExpr is one S-expression node: a symbol, an integer or float literal
// with its units, or a list of child nodes.
type SExpr struct {
	Pos   sourcepos.Span
	Kind  Kind
	Sym   string
	Units units.Units
	Int   int64
	Float float64
	List  []SExpr
}

// Symbol constructs a symbol node.
func Symbol(pos sourcepos.Span, name string) SExpr {
	return SExpr{Pos: pos, Kind: KindSymbol, Sym: name}
}

// Integer constructs an integer literal node.
func Integer(pos sourcepos.Span, u units.Units, v int64) SExpr {
	return SExpr{Pos: pos, Kind: KindInteger, Units: u, Int: v}
}

// Float constructs a float literal node.
func Float(pos sourcepos.Span, u units.Units, v float64) SExpr {
	return SExpr{Pos: pos, Kind: KindFloat, Units: u, Float: v}
}

// List constructs a list node spanning its children.
func List(pos sourcepos.Span, items []SExpr) SExpr {
	return SExpr{Pos: pos, Kind: KindList, List: items}
}

// Print renders the expression in its canonical textual form.
func (e SExpr) Print() string {
	var b strings.Builder
	e.print(&b)
	return b.String()
}

func (e SExpr) print(b *strings.Builder) {
	switch e.Kind {
	case KindSymbol:
		b.WriteString(e.Sym)
	case KindInteger:
		if e.Units.Dimensionless() {
			b.WriteString(strconv.FormatInt(e.Int, 10))
		} else {
			fmt.Fprintf(b, "[%s %d]", e.Units, e.Int)
		}
	case KindFloat:
		if e.Units.Dimensionless() {
			fmt.Fprintf(b, "%g", e.Float)
		} else {
			fmt.Fprintf(b, "[%s %g]", e.Units, e.Float)
		}
	case KindList:
		b.WriteByte('(')
		for i, item := range e.List {
			if i > 0 {
				b.WriteByte(' ')
			}
			item.print(b)
		}
		b.WriteByte(')')
	}
}
