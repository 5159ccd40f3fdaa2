// Package note parses and formats MIDI note names, for the -notes CLI
// flag.
package note

import (
	"fmt"
	"strconv"
)

var names = [12]string{"c", "c#", "d", "d#", "e", "f", "f#", "g", "g#", "a", "a#", "b"}

// Note is a MIDI note value, 0-255 (the format does not restrict it to
// the 0-127 MIDI range).
type Note uint8

func (n Note) Octave() int        { return int(n)/12 - 1 }
func (n Note) Chromaticity() int  { return int(n) % 12 }

func (n Note) String() string {
	return fmt.Sprintf("%s%d", names[n.Chromaticity()], n.Octave())
}

// ParseError reports why a note name failed to parse.
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid note %q: %s", e.Text, e.Reason)
}

var letterValue = map[byte]int{
	'c': 0, 'C': 0,
	'd': 2, 'D': 2,
	'e': 4, 'E': 4,
	'f': 5, 'F': 5,
	'g': 7, 'G': 7,
	'a': 9, 'A': 9,
	'b': 11, 'B': 11,
}

// Parse reads a note name in the form <letter>[accidentals]<octave>, for
// example "c#4" or "bbb-1".
func Parse(s string) (Note, error) {
	orig := s
	if len(s) == 0 {
		return 0, &ParseError{orig, "empty note name"}
	}
	value, ok := letterValue[s[0]]
	if !ok {
		return 0, &ParseError{orig, "unknown note letter"}
	}
	rest := s[1:]
	switch {
	case len(rest) > 0 && rest[0] == 'b':
		flats := 0
		for len(rest) > 0 && rest[0] == 'b' {
			flats++
			rest = rest[1:]
			if flats > 3 {
				return 0, &ParseError{orig, "too many accidentals"}
			}
		}
		if len(rest) > 0 && (rest[0] == 'b' || rest[0] == '#') {
			return 0, &ParseError{orig, "invalid accidentals"}
		}
		value -= flats
	case len(rest) > 0 && rest[0] == '#':
		sharps := 0
		for len(rest) > 0 && rest[0] == '#' {
			sharps++
			rest = rest[1:]
			if sharps > 3 {
				return 0, &ParseError{orig, "too many accidentals"}
			}
		}
		if len(rest) > 0 && (rest[0] == 'b' || rest[0] == '#') {
			return 0, &ParseError{orig, "invalid accidentals"}
		}
		value += sharps
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, &ParseError{orig, "missing or invalid octave"}
	}
	if octave < -2 || octave > 20 {
		return 0, &ParseError{orig, "octave out of range"}
	}
	value += (octave + 1) * 12
	if value < 0 || value > 255 {
		return 0, &ParseError{orig, "note out of range"}
	}
	return Note(value), nil
}
