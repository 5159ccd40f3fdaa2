// Package units implements the dimensional algebra over volts, seconds,
// radians, and decibels, plus SI-prefix-aware unit-suffix parsing.
package units

import (
	"errors"
	"fmt"
	"strings"
)

// Units is a 4-tuple of signed exponents over the base units volt,
// second, radian, decibel. The zero value is the dimensionless scalar.
type Units struct {
	Volt    int8
	Second  int8
	Radian  int8
	Decibel int8
}

// Scalar is the dimensionless unit.
var Scalar = Units{}

// Volt returns volts raised to n.
func Volt(n int8) Units { return Units{Volt: n} }

// Second returns seconds raised to n.
func Second(n int8) Units { return Units{Second: n} }

// Hertz returns seconds raised to -n, i.e. Hz ≡ s⁻¹.
func Hertz(n int8) Units { return Second(-n) }

// Radian returns radians raised to n.
func Radian(n int8) Units { return Units{Radian: n} }

// Decibel returns decibels raised to n.
func Decibel(n int8) Units { return Units{Decibel: n} }

// Dimensionless reports whether u is the scalar unit.
func (u Units) Dimensionless() bool { return u == Scalar }

// ErrOverflow is returned when a unit exponent overflows an int8.
var ErrOverflow = errors.New("unit exponent overflow")

func addExp(a, b int8) (int8, bool) {
	r := int(a) + int(b)
	if r < -128 || r > 127 {
		return 0, false
	}
	return int8(r), true
}

// Multiply combines two units by adding their exponents component-wise.
// It is commutative and associative, with Scalar as identity.
func Multiply(a, b Units) (Units, error) {
	volt, ok1 := addExp(a.Volt, b.Volt)
	second, ok2 := addExp(a.Second, b.Second)
	radian, ok3 := addExp(a.Radian, b.Radian)
	decibel, ok4 := addExp(a.Decibel, b.Decibel)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return Units{}, ErrOverflow
	}
	return Units{Volt: volt, Second: second, Radian: radian, Decibel: decibel}, nil
}

// Invert negates every exponent, i.e. u^-1.
func (u Units) Invert() Units {
	return Units{Volt: -u.Volt, Second: -u.Second, Radian: -u.Radian, Decibel: -u.Decibel}
}

func appendComponent(b *strings.Builder, name string, exp int8) {
	if exp == 0 {
		return
	}
	if b.Len() > 0 {
		b.WriteByte('*')
	}
	b.WriteString(name)
	if exp != 1 {
		fmt.Fprintf(b, "^%d", exp)
	}
}

// String renders the unit in the form "V^2*s*rad^-1", or "1" for Scalar.
func (u Units) String() string {
	var b strings.Builder
	appendComponent(&b, "V", u.Volt)
	appendComponent(&b, "s", u.Second)
	appendComponent(&b, "rad", u.Radian)
	appendComponent(&b, "dB", u.Decibel)
	if b.Len() == 0 {
		return "1"
	}
	return b.String()
}

// ParseError describes a failure to parse a unit suffix.
type ParseError struct {
	Suffix string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid unit suffix %q: %s", e.Suffix, e.Reason)
}

// prefixExponents maps a single prefix rune to a power-of-1000 exponent
// in {-24,-21,...,0,...,24}. The bare-micro spellings 'u', 'µ' (U+00B5)
// and 'μ' (U+03BC) are all accepted for -6.
var prefixExponents = map[rune]int32{
	'y': -24, 'z': -21, 'a': -18, 'f': -15, 'p': -12, 'n': -9,
	'u': -6, 'µ': -6, 'μ': -6,
	'm': -3,
	'k': 3, 'M': 6, 'G': 9, 'T': 12, 'P': 15, 'E': 18, 'Z': 21, 'Y': 24,
}

var baseUnits = map[string]Units{
	"V":   Volt(1),
	"s":   Second(1),
	"Hz":  Hertz(1),
	"rad": Radian(1),
	"dB":  Decibel(1),
}

// Parse parses a unit suffix (e.g. "kHz", "ms", "dB") into a Units value
// and a prefix exponent expressed as a power of 10 (a multiple of 3 in
// [-24,24], or 0 if no prefix was present). An empty suffix yields
// (Scalar, 0, nil).
func Parse(suffix string) (Units, int32, error) {
	if suffix == "" {
		return Scalar, 0, nil
	}
	if u, ok := baseUnits[suffix]; ok {
		return u, 0, nil
	}
	runes := []rune(suffix)
	prefixExp, ok := prefixExponents[runes[0]]
	if !ok {
		return Units{}, 0, &ParseError{Suffix: suffix, Reason: "unknown prefix or unit"}
	}
	rest := string(runes[1:])
	u, ok := baseUnits[rest]
	if !ok {
		return Units{}, 0, &ParseError{Suffix: suffix, Reason: "unknown unit"}
	}
	if rest == "dB" {
		return Units{}, 0, &ParseError{Suffix: suffix, Reason: "dB cannot be combined with an SI prefix"}
	}
	return u, prefixExp, nil
}
