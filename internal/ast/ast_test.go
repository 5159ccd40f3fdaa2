package ast

import (
	"testing"

	"github.com/depp/ultrafxr/internal/sourcepos"
	"github.com/depp/ultrafxr/internal/units"
	"github.com/stretchr/testify/assert"
)

func TestPrintSymbol(t *testing.T) {
	e := Symbol(sourcepos.NoSpan, "foo")
	assert.Equal(t, "foo", e.Print())
}

func TestPrintScalarInteger(t *testing.T) {
	e := Integer(sourcepos.NoSpan, units.Scalar, 42)
	assert.Equal(t, "42", e.Print())
}

func TestPrintUnitInteger(t *testing.T) {
	e := Integer(sourcepos.NoSpan, units.Hertz(1), 440)
	assert.Equal(t, "[s^-1 440]", e.Print())
}

func TestPrintList(t *testing.T) {
	e := List(sourcepos.NoSpan, []SExpr{
		Symbol(sourcepos.NoSpan, "sine"),
		Symbol(sourcepos.NoSpan, "osc"),
	})
	assert.Equal(t, "(sine osc)", e.Print())
}
