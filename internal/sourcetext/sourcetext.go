// Package sourcetext decodes byte offsets into line/column positions for
// diagnostic rendering.
package sourcetext

import (
	"sort"

	"github.com/depp/ultrafxr/internal/sourcepos"
)

// TextPos is a decoded position: a zero-indexed line number and a byte
// offset within that line.
type TextPos struct {
	Line uint32
	Byte uint32
}

// SourceText decodes sourcepos.Pos values against a single source file's
// contents.
type SourceText struct {
	text  []byte
	lines []uint32 // start offset of each line
	span  sourcepos.Span
}

// New builds a SourceText over the given file contents. Positions start
// at 1, matching the tokenizer's convention that offset 0 means "no
// position".
func New(text []byte) *SourceText {
	lines := []uint32{0}
	var prev byte
	for n, c := range text {
		switch c {
		case '\n':
			if prev == '\r' {
				lines = lines[:len(lines)-1]
			}
			lines = append(lines, uint32(n+1))
		case '\r':
			lines = append(lines, uint32(n+1))
		}
		prev = c
	}
	return &SourceText{
		text:  text,
		lines: lines,
		span: sourcepos.Span{
			Start: sourcepos.Pos(1),
			End:   sourcepos.Pos(len(text) + 1),
		},
	}
}

// Lookup converts a byte position to a line/column pair. The second
// return value is false if pos falls outside the source text.
func (t *SourceText) Lookup(pos sourcepos.Pos) (TextPos, bool) {
	if pos < t.span.Start || t.span.End < pos {
		return TextPos{}, false
	}
	offset := uint32(pos) - uint32(t.span.Start)
	i := sort.Search(len(t.lines), func(i int) bool { return t.lines[i] >= offset })
	if i < len(t.lines) && t.lines[i] == offset {
		return TextPos{Line: uint32(i), Byte: 0}, true
	}
	return TextPos{Line: uint32(i - 1), Byte: offset - t.lines[i-1]}, true
}

// Line returns the contents of the zero-indexed line, with its line
// break (if any) stripped.
func (t *SourceText) Line(index uint32) []byte {
	i := int(index)
	if i >= len(t.lines) {
		return nil
	}
	if i+1 == len(t.lines) {
		return t.text[t.lines[i]:]
	}
	line := t.text[t.lines[i]:t.lines[i+1]]
	switch {
	case len(line) > 0 && line[len(line)-1] == '\n':
		line = line[:len(line)-1]
		if len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}
	case len(line) > 0 && line[len(line)-1] == '\r':
		line = line[:len(line)-1]
	}
	return line
}
