package parser

import (
	"testing"

	"github.com/depp/ultrafxr/internal/ast"
	"github.com/depp/ultrafxr/internal/diag"
	"github.com/depp/ultrafxr/internal/sourcepos"
	"github.com/depp/ultrafxr/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	diag.HasError
	msgs []string
}

func (r *recorder) Handle(pos sourcepos.Span, severity diag.Severity, message string) {
	r.msgs = append(r.msgs, message)
}

func TestParseSymbol(t *testing.T) {
	tz, err := token.New([]byte("foo"))
	require.NoError(t, err)
	p := New()
	rec := &recorder{}
	res := p.Parse(tz, rec)
	require.Equal(t, Value, res.Kind)
	assert.Equal(t, ast.KindSymbol, res.Expr.Kind)
	assert.Equal(t, "foo", res.Expr.Sym)
}

func TestParseList(t *testing.T) {
	tz, err := token.New([]byte("(a b 1)"))
	require.NoError(t, err)
	p := New()
	rec := &recorder{}
	res := p.Parse(tz, rec)
	require.Equal(t, Value, res.Kind)
	require.Equal(t, ast.KindList, res.Expr.Kind)
	require.Len(t, res.Expr.List, 3)
	assert.Equal(t, "a", res.Expr.List[0].Sym)
	assert.Equal(t, ast.KindInteger, res.Expr.List[2].Kind)
}

func TestParseNested(t *testing.T) {
	tz, err := token.New([]byte("(a (b c) d)"))
	require.NoError(t, err)
	p := New()
	rec := &recorder{}
	res := p.Parse(tz, rec)
	require.Equal(t, Value, res.Kind)
	require.Len(t, res.Expr.List, 3)
	assert.Equal(t, ast.KindList, res.Expr.List[1].Kind)
}

func TestParseIncomplete(t *testing.T) {
	tz, err := token.New([]byte("(a b"))
	require.NoError(t, err)
	p := New()
	rec := &recorder{}
	res := p.Parse(tz, rec)
	assert.Equal(t, Incomplete, res.Kind)
}

func TestParseExtraCloseParen(t *testing.T) {
	tz, err := token.New([]byte(")"))
	require.NoError(t, err)
	p := New()
	rec := &recorder{}
	res := p.Parse(tz, rec)
	assert.Equal(t, Error, res.Kind)
	require.Len(t, rec.msgs, 1)
	assert.Contains(t, rec.msgs[0], "extra ')'")
}

func TestFinishReportsEveryUnclosedFrame(t *testing.T) {
	tz, err := token.New([]byte("(a (b"))
	require.NoError(t, err)
	p := New()
	rec := &recorder{}
	res := p.Parse(tz, rec)
	require.Equal(t, Incomplete, res.Kind)
	p.Finish(rec)
	assert.Len(t, rec.msgs, 2)
}

func TestParseNone(t *testing.T) {
	tz, err := token.New([]byte("  "))
	require.NoError(t, err)
	p := New()
	rec := &recorder{}
	res := p.Parse(tz, rec)
	assert.Equal(t, None, res.Kind)
}

func TestParseNumberUnits(t *testing.T) {
	tz, err := token.New([]byte("440Hz"))
	require.NoError(t, err)
	p := New()
	rec := &recorder{}
	res := p.Parse(tz, rec)
	require.Equal(t, Value, res.Kind)
	assert.Equal(t, ast.KindInteger, res.Expr.Kind)
	assert.Equal(t, int64(440), res.Expr.Int)
	assert.False(t, res.Expr.Units.Dimensionless())
}
