// Package parser turns a token stream into S-expressions.
package parser

import (
	"fmt"

	"github.com/depp/ultrafxr/internal/ast"
	"github.com/depp/ultrafxr/internal/diag"
	"github.com/depp/ultrafxr/internal/number"
	"github.com/depp/ultrafxr/internal/sourcepos"
	"github.com/depp/ultrafxr/internal/token"
	"github.com/depp/ultrafxr/internal/units"
)

// ResultKind discriminates the outcome of one Parse call.
type ResultKind int

const (
	// None means the stream ended at top level with nothing pending.
	None ResultKind = iota
	// Incomplete means the stream ended inside an unclosed list.
	Incomplete
	// Error means a fatal diagnostic was already emitted for this call.
	Error
	// Value means one complete top-level expression is ready.
	Value
)

// Result is the outcome of one Parser.Parse call.
type Result struct {
	Kind ResultKind
	Expr ast.SExpr
}

type group struct {
	pos   sourcepos.Span
	start int
}

// Parser incrementally assembles S-expressions from a token stream. It
// retains open-list frames and a flat pending-expression buffer across
// calls to Parse.
type Parser struct {
	exprs  []ast.SExpr
	groups []group
}

// New creates an empty parser.
func New() *Parser {
	return &Parser{}
}

// Parse pulls tokens from tz until it can report a definite outcome:
// a complete top-level value, the stream ending cleanly or inside an
// unclosed list, or a fatal parse error.
func (p *Parser) Parse(tz *token.Tokenizer, h diag.Handler) Result {
	for {
		tok := tz.Next()
		switch tok.Type {
		case token.End:
			if len(p.groups) == 0 {
				return Result{Kind: None}
			}
			return Result{Kind: Incomplete}
		case token.Error:
			p.handleErrorToken(h, tok)
			return Result{Kind: Error}
		case token.Comment:
			continue
		case token.Symbol:
			p.push(ast.Symbol(tok.Pos, string(tok.Text)))
			if r, ok := p.maybeValue(); ok {
				return r
			}
		case token.Number:
			expr, err := parseNumber(tok)
			if err != nil {
				h.Handle(tok.Pos, diag.Error, err.Error())
				return Result{Kind: Error}
			}
			p.push(expr)
			if r, ok := p.maybeValue(); ok {
				return r
			}
		case token.ParenOpen:
			p.groups = append(p.groups, group{pos: tok.Pos, start: len(p.exprs)})
		case token.ParenClose:
			if len(p.groups) == 0 {
				h.Handle(tok.Pos, diag.Error, "extra ')'")
				return Result{Kind: Error}
			}
			g := p.groups[len(p.groups)-1]
			p.groups = p.groups[:len(p.groups)-1]
			items := append([]ast.SExpr(nil), p.exprs[g.start:]...)
			p.exprs = p.exprs[:g.start]
			list := ast.List(g.pos.Union(tok.Pos), items)
			p.push(list)
			if r, ok := p.maybeValue(); ok {
				return r
			}
		}
	}
}

// push appends a completed expression either to the pending buffer (if
// inside a list) or keeps it to be reported as the top-level value.
func (p *Parser) push(e ast.SExpr) {
	p.exprs = append(p.exprs, e)
}

// maybeValue reports a top-level value if nothing is open.
func (p *Parser) maybeValue() (Result, bool) {
	if len(p.groups) != 0 {
		return Result{}, false
	}
	if len(p.exprs) == 0 {
		return Result{}, false
	}
	e := p.exprs[len(p.exprs)-1]
	p.exprs = p.exprs[:len(p.exprs)-1]
	return Result{Kind: Value, Expr: e}, true
}

// Finish reports a "missing ')'" diagnostic for every frame still open
// at end of input.
func (p *Parser) Finish(h diag.Handler) {
	for i := len(p.groups) - 1; i >= 0; i-- {
		h.Handle(p.groups[i].pos, diag.Error, "missing ')'")
	}
	p.groups = nil
	p.exprs = nil
}

func (p *Parser) handleErrorToken(h diag.Handler, tok token.Token) {
	text := tok.Text
	if len(text) == 1 {
		c := text[0]
		if c < 0x20 || c == 0x7f {
			h.Handle(tok.Pos, diag.Error, fmt.Sprintf("unexpected control character U+%04X", c))
			return
		}
		if c < 0x80 {
			r := rune(c)
			if r == '\'' {
				h.Handle(tok.Pos, diag.Error, "unexpected character '\\''")
				return
			}
			h.Handle(tok.Pos, diag.Error, fmt.Sprintf("unexpected character '%c'", r))
			return
		}
	}
	if r, ok := decodeValid(text); ok {
		h.Handle(tok.Pos, diag.Error, fmt.Sprintf("unexpected Unicode character U+%04X", r))
		return
	}
	h.Handle(tok.Pos, diag.Error, fmt.Sprintf("invalid UTF-8 text (byte sequence %s)", hexBytes(text)))
}

func decodeValid(text []byte) (rune, bool) {
	r := []rune(string(text))
	if len(r) == 1 && string(r) == string(text) {
		return r[0], true
	}
	return 0, false
}

func hexBytes(b []byte) string {
	s := ""
	for i, c := range b {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("0x%02x", c)
	}
	return s
}

// parseNumber converts a Number token's text into an Integer or Float
// AST node by feeding it through the number parser and, for any
// remainder, the units parser.
func parseNumber(tok token.Token) (ast.SExpr, error) {
	text := string(tok.Text)
	parsed, rest, err := number.Parse(text)
	if err != nil {
		return ast.SExpr{}, fmt.Errorf("invalid number %q: %w", text, err)
	}
	u, prefixExp, err := units.Parse(rest)
	if err != nil {
		return ast.SExpr{}, err
	}
	if prefixExp != 0 {
		parsed.Exponent += prefixExp
		parsed.HasExponent = true
		if parsed.Radix != number.Decimal {
			return ast.SExpr{}, fmt.Errorf("unit prefix only applies to decimal literals")
		}
	}
	if parsed.IsInteger() && u.Dimensionless() {
		v, ok := parsed.Int64()
		if !ok {
			return ast.SExpr{}, fmt.Errorf("integer literal %q overflows", text)
		}
		return ast.Integer(tok.Pos, u, v), nil
	}
	if parsed.IsInteger() {
		v, ok := parsed.Int64()
		if ok {
			return ast.Integer(tok.Pos, u, v), nil
		}
	}
	return ast.Float(tok.Pos, u, parsed.Float64()), nil
}
