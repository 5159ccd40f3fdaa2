package note

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOctave(t *testing.T) {
	assert.Equal(t, -1, Note(0).Octave())
	assert.Equal(t, -1, Note(11).Octave())
	assert.Equal(t, 0, Note(12).Octave())
	assert.Equal(t, 3, Note(59).Octave())
	assert.Equal(t, 4, Note(60).Octave())
}

func TestChromaticity(t *testing.T) {
	assert.Equal(t, 0, Note(0).Chromaticity())
	assert.Equal(t, 1, Note(1).Chromaticity())
	assert.Equal(t, 0, Note(12).Chromaticity())
	assert.Equal(t, 11, Note(59).Chromaticity())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "c-1", Note(0).String())
	assert.Equal(t, "c#-1", Note(1).String())
	assert.Equal(t, "c0", Note(12).String())
	assert.Equal(t, "b3", Note(59).String())
	assert.Equal(t, "c4", Note(60).String())
	assert.Equal(t, "c#4", Note(61).String())
}

func TestParseRoundTrip(t *testing.T) {
	for n := 0; n <= 255; n++ {
		s := Note(n).String()
		got, err := Parse(s)
		assert.NoError(t, err)
		assert.Equal(t, Note(n), got)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{"", "h4", "c##b4", "c4x", "c##########4", "c-100"}
	for _, c := range cases {
		_, err := Parse(c)
		assert.Error(t, err, c)
	}
}

func TestParseAccidentals(t *testing.T) {
	n, err := Parse("d#4")
	assert.NoError(t, err)
	assert.Equal(t, Note(63), n)

	n, err = Parse("ebb4")
	assert.NoError(t, err)
	assert.Equal(t, Note(62), n)
}
