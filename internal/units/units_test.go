package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestMultiplyScalarIdentity(t *testing.T) {
	u := Units{Volt: 2, Second: -1, Radian: 3, Decibel: 0}
	got, err := Multiply(u, Scalar)
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestMultiplyComponentwise(t *testing.T) {
	a := Units{Volt: 1, Second: 2, Radian: 3, Decibel: 4}
	b := Units{Volt: 5, Second: 6, Radian: 7, Decibel: 8}
	got, err := Multiply(a, b)
	require.NoError(t, err)
	assert.Equal(t, Units{Volt: 6, Second: 8, Radian: 10, Decibel: 12}, got)
}

func TestMultiplyOverflow(t *testing.T) {
	a := Units{Volt: 120}
	b := Units{Volt: 120}
	_, err := Multiply(a, b)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestMultiplyCommutativeAssociative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		gen := rapid.Int8Range(-30, 30)
		mk := func(name string) Units {
			return Units{
				Volt:    int8(gen.Draw(t, name+"v")),
				Second:  int8(gen.Draw(t, name+"s")),
				Radian:  int8(gen.Draw(t, name+"r")),
				Decibel: int8(gen.Draw(t, name+"d")),
			}
		}
		a, b, c := mk("a"), mk("b"), mk("c")
		ab, err1 := Multiply(a, b)
		ba, err2 := Multiply(b, a)
		if err1 == nil && err2 == nil {
			assert.Equal(t, ab, ba)
		}
		abc1, e1 := Multiply(a, b)
		if e1 == nil {
			abc1, e1 = Multiply(abc1, c)
		}
		bc, e2 := Multiply(b, c)
		abc2 := Units{}
		if e2 == nil {
			abc2, e2 = Multiply(a, bc)
		}
		if e1 == nil && e2 == nil {
			assert.Equal(t, abc1, abc2)
		}
	})
}

func TestParseBaseUnits(t *testing.T) {
	cases := []struct {
		suffix string
		units  Units
		prefix int32
	}{
		{"V", Volt(1), 0},
		{"s", Second(1), 0},
		{"Hz", Hertz(1), 0},
		{"rad", Radian(1), 0},
		{"dB", Decibel(1), 0},
		{"kHz", Hertz(1), 3},
		{"ms", Second(1), -3},
		{"uV", Volt(1), -6},
		{"µV", Volt(1), -6},
		{"μV", Volt(1), -6},
		{"MV", Volt(1), 6},
	}
	for _, c := range cases {
		u, p, err := Parse(c.suffix)
		require.NoError(t, err, c.suffix)
		assert.Equal(t, c.units, u, c.suffix)
		assert.Equal(t, c.prefix, p, c.suffix)
	}
}

func TestParseRejectsPrefixedDecibel(t *testing.T) {
	_, _, err := Parse("kdB")
	assert.Error(t, err)
}

func TestParseUnknown(t *testing.T) {
	_, _, err := Parse("xyz")
	assert.Error(t, err)
}

func TestStringFormat(t *testing.T) {
	assert.Equal(t, "1", Scalar.String())
	assert.Equal(t, "V", Volt(1).String())
	assert.Equal(t, "V^2", Volt(2).String())
	assert.Equal(t, "V*s^-1", Units{Volt: 1, Second: -1}.String())
}
