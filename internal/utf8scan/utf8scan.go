// Package utf8scan implements a WHATWG-style lenient UTF-8 decoder used
// by the tokenizer to compute the byte length of an invalid-text error
// token.
package utf8scan

// DecodeRune decodes the first character from text. If the sequence is
// valid, it returns the decoded rune and true along with its byte
// length. If invalid, it returns (utf8.RuneError-ish) false and the
// number of bytes the invalid sequence should be treated as occupying,
// per the WHATWG decoder error-recovery algorithm: a bad continuation
// byte stops the sequence at the bytes consumed so far, while an
// overlong or out-of-range sequence still consumes its full expected
// length.
func DecodeRune(text []byte) (r rune, ok bool, length int) {
	if len(text) == 0 {
		return 0, false, 0
	}
	c0 := text[0]
	switch {
	case c0 < 0x80:
		return rune(c0), true, 1
	case c0 < 0xC0:
		return 0, false, 1
	case c0 < 0xE0:
		return decodeMulti(text, int32(c0&0x1F), 1, 1<<7)
	case c0 < 0xF0:
		return decodeMulti(text, int32(c0&0x0F), 2, 1<<11)
	case c0 < 0xF8:
		return decodeMulti(text, int32(c0&0x07), 3, 1<<16)
	default:
		return 0, false, 1
	}
}

func decodeMulti(text []byte, lead int32, n int, minCP int32) (rune, bool, int) {
	cp := lead
	for i := 1; i <= n; i++ {
		if i >= len(text) {
			return 0, false, i
		}
		c := text[i]
		if c < 0x80 || c >= 0xC0 {
			return 0, false, i
		}
		cp = (cp << 6) | int32(c&0x3F)
	}
	if cp < minCP || (cp >= 0xD800 && cp <= 0xDFFF) || cp > 0x10FFFF {
		return 0, false, n + 1
	}
	return rune(cp), true, n + 1
}
