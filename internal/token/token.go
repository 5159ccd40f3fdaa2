// Package token tokenizes UltraFXR source text.
package token

import (
	"errors"

	"github.com/depp/ultrafxr/internal/sourcepos"
	"github.com/depp/ultrafxr/internal/utf8scan"
)

// Type identifies the kind of a token.
type Type int

const (
	End Type = iota
	Error
	Comment
	Symbol
	Number
	ParenOpen
	ParenClose
)

func (t Type) String() string {
	switch t {
	case End:
		return "end"
	case Error:
		return "error"
	case Comment:
		return "comment"
	case Symbol:
		return "symbol"
	case Number:
		return "number"
	case ParenOpen:
		return "("
	case ParenClose:
		return ")"
	default:
		return "token"
	}
}

// Token is one lexical token, with its span and raw text (empty for End,
// ParenOpen and ParenClose).
type Token struct {
	Type Type
	Pos  sourcepos.Span
	Text []byte
}

// ErrTooMuchText is returned by New when the source text exceeds the
// tokenizer's 4 GiB addressing limit.
var ErrTooMuchText = errors.New("source text too large: exceeds 4 GiB")

const startPos = 1

// Tokenizer scans UltraFXR source text into tokens.
type Tokenizer struct {
	text []byte
	pos  uint32
}

// New creates a tokenizer over text. It fails if text is too large to be
// addressed by the tokenizer's 32-bit positions.
func New(text []byte) (*Tokenizer, error) {
	if uint64(len(text)) > uint64(^uint32(0))-startPos {
		return nil, ErrTooMuchText
	}
	return &Tokenizer{text: text, pos: 0}, nil
}

// Rewind resets the tokenizer to the beginning of its text.
func (t *Tokenizer) Rewind() { t.pos = 0 }

func isSpace(c byte) bool {
	return c == ' ' || (9 <= c && c <= 13)
}

func isSymbolCont(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '!', '$', '%', '&', '*', '+', '.', '/', ':', '<', '=', '>', '?', '@', '^', '_', '~':
		return true
	}
	return false
}

func isSymbolStart(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		return true
	}
	switch c {
	case '!', '$', '%', '&', '*', '/', ':', '<', '=', '>', '?', '@', '^', '_', '~':
		return true
	}
	return false
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isLineBreak(c byte) bool { return c == '\n' || c == '\r' }

// symbolLen returns the number of bytes in text belonging to the symbol
// class, starting from the beginning.
func symbolLen(text []byte) int {
	n := 0
	for n < len(text) && isSymbolCont(text[n]) {
		n++
	}
	return n
}

// Next returns the next token in the stream. Once it returns an End
// token, all subsequent calls also return End.
func (t *Tokenizer) Next() Token {
	for int(t.pos) < len(t.text) && isSpace(t.text[t.pos]) {
		t.pos++
	}
	start := t.pos
	if int(start) >= len(t.text) {
		return Token{Type: End, Pos: t.span(start, start)}
	}
	rest := t.text[start:]
	c := rest[0]
	switch {
	case isSymbolStart(c):
		n := 1 + symbolLen(rest[1:])
		return t.emit(Symbol, start, n)
	case isDigit(c):
		n := 1 + symbolLen(rest[1:])
		return t.emit(Number, start, n)
	case c == ';':
		n := 0
		for n < len(rest) && !isLineBreak(rest[n]) {
			n++
		}
		return t.emit(Comment, start, n)
	case c == '.':
		if len(rest) > 1 && isDigit(rest[1]) {
			n := 1 + symbolLen(rest[1:])
			return t.emit(Number, start, n)
		}
		n := 1 + symbolLen(rest[1:])
		return t.emit(Symbol, start, n)
	case c == '+' || c == '-':
		isNum := len(rest) > 1 && isDigit(rest[1])
		if !isNum && len(rest) > 2 && rest[1] == '.' && isDigit(rest[2]) {
			isNum = true
		}
		n := 1 + symbolLen(rest[1:])
		if isNum {
			return t.emit(Number, start, n)
		}
		return t.emit(Symbol, start, n)
	case c == '(':
		return t.emit(ParenOpen, start, 1)
	case c == ')':
		return t.emit(ParenClose, start, 1)
	default:
		_, _, n := utf8scan.DecodeRune(rest)
		if n == 0 {
			n = 1
		}
		return t.emit(Error, start, n)
	}
}

func (t *Tokenizer) emit(ty Type, start uint32, n int) Token {
	end := start + uint32(n)
	text := t.text[start:end]
	t.pos = end
	tok := Token{Type: ty, Pos: t.span(start, end)}
	if ty != ParenOpen && ty != ParenClose && ty != End {
		tok.Text = text
	}
	return tok
}

func (t *Tokenizer) span(start, end uint32) sourcepos.Span {
	return sourcepos.Span{
		Start: sourcepos.Pos(start + startPos),
		End:   sourcepos.Pos(end + startPos),
	}
}
