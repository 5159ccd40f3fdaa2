package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, text string) []Token {
	tz, err := New([]byte(text))
	require.NoError(t, err)
	var toks []Token
	for {
		tok := tz.Next()
		toks = append(toks, tok)
		if tok.Type == End {
			return toks
		}
	}
}

func TestBasicForms(t *testing.T) {
	toks := scanAll(t, "(foo 1.5 -2 +.5 0x1F ; comment\n)")
	var types []Type
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []Type{ParenOpen, Symbol, Number, Number, Number, Number, Comment, ParenClose, End}, types)
}

func TestSymbolPunctuation(t *testing.T) {
	toks := scanAll(t, "note->freq")
	require.Len(t, toks, 2)
	assert.Equal(t, Symbol, toks[0].Type)
	assert.Equal(t, "note->freq", string(toks[0].Text))
}

func TestDotSymbolVsNumber(t *testing.T) {
	toks := scanAll(t, ". .5")
	require.Len(t, toks, 3)
	assert.Equal(t, Symbol, toks[0].Type)
	assert.Equal(t, Number, toks[1].Type)
}

func TestErrorTokenNeverZeroLength(t *testing.T) {
	toks := scanAll(t, "\x01")
	require.Len(t, toks, 2)
	assert.Equal(t, Error, toks[0].Type)
	assert.True(t, toks[0].Pos.Len() >= 1)
}

func TestErrorTokenMultibyteCharacter(t *testing.T) {
	toks := scanAll(t, "\xc2\x80")
	// \xc2\x80 is a valid two-byte encoding of U+0080. No classification
	// rule accepts it, so it becomes one Error token whose length is the
	// full sequence length the UTF-8 scanner decodes (2).
	require.Len(t, toks, 2)
	assert.Equal(t, Error, toks[0].Type)
	assert.EqualValues(t, 2, toks[0].Pos.Len())
}

func TestNewAcceptsSmallText(t *testing.T) {
	_, err := New(make([]byte, 1))
	assert.NoError(t, err)
}

func TestEndIsSticky(t *testing.T) {
	tz, err := New([]byte(""))
	require.NoError(t, err)
	a := tz.Next()
	b := tz.Next()
	assert.Equal(t, End, a.Type)
	assert.Equal(t, End, b.Type)
}

func TestRewind(t *testing.T) {
	tz, err := New([]byte("abc"))
	require.NoError(t, err)
	first := tz.Next()
	tz.Rewind()
	second := tz.Next()
	assert.Equal(t, first, second)
}
