package number

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseInteger(t *testing.T) {
	p, rest, err := Parse("440")
	require.NoError(t, err)
	assert.Equal(t, "", rest)
	assert.True(t, p.IsInteger())
	v, ok := p.Int64()
	require.True(t, ok)
	assert.EqualValues(t, 440, v)
}

func TestParseWithUnitRemainder(t *testing.T) {
	p, rest, err := Parse("12V")
	require.NoError(t, err)
	assert.Equal(t, "V", rest)
	v, ok := p.Int64()
	require.True(t, ok)
	assert.EqualValues(t, 12, v)
}

func TestParseFloat(t *testing.T) {
	p, rest, err := Parse("1.5")
	require.NoError(t, err)
	assert.Equal(t, "", rest)
	assert.False(t, p.IsInteger())
	assert.InDelta(t, 1.5, p.Float64(), 1e-12)
}

func TestParseExponent(t *testing.T) {
	p, rest, err := Parse("3e2")
	require.NoError(t, err)
	assert.Equal(t, "", rest)
	assert.InDelta(t, 300.0, p.Float64(), 1e-9)
}

func TestParseNegativeExponent(t *testing.T) {
	p, _, err := Parse("-2.5e-3")
	require.NoError(t, err)
	assert.InDelta(t, -0.0025, p.Float64(), 1e-12)
}

func TestParseRadixPrefixes(t *testing.T) {
	cases := []struct {
		text string
		want int64
	}{
		{"0b101", 5},
		{"0o17", 15},
		{"0x1F", 31},
		{"0X1f", 31},
	}
	for _, c := range cases {
		p, rest, err := Parse(c.text)
		require.NoError(t, err, c.text)
		assert.Equal(t, "", rest)
		v, ok := p.Int64()
		require.True(t, ok, c.text)
		assert.EqualValues(t, c.want, v, c.text)
	}
}

func TestParseMissingExponentDigits(t *testing.T) {
	_, _, err := Parse("1e")
	assert.Error(t, err)
}

func TestParseExtraPoint(t *testing.T) {
	_, _, err := Parse("1.2.3")
	assert.Error(t, err)
}

func TestTrimTrailingZeros(t *testing.T) {
	p, _, err := Parse("120")
	require.NoError(t, err)
	trimmed := p.Trim()
	assert.InDelta(t, 120.0, trimmed.Float64(), 1e-9)
}

func TestRoundTripInteger(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mantissa := rapid.Int64Range(-999999, 999999).Draw(t, "mantissa")
		p, _, err := Parse(fmtInt(mantissa))
		require.NoError(t, err)
		v, ok := p.Int64()
		require.True(t, ok)
		assert.Equal(t, mantissa, v)
	})
}

func fmtInt(v int64) string {
	if v < 0 {
		return "-" + fmtInt(-v)
	}
	if v == 0 {
		return "0"
	}
	var digits []byte
	for v > 0 {
		digits = append(digits, byte('0')+byte(v%10))
		v /= 10
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}
