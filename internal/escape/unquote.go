// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of string literals.
package escape

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// An Error reports an invalid escape sequence in the input to Unquote.
type Error struct {
	Offset int // byte offset of the backslash starting the sequence
	Msg    string
}

func (e *Error) Error() string { return fmt.Sprintf("%s (offset %d)", e.Msg, e.Offset) }

// Unquote decodes the body of a quoted string. The input must have the
// enclosing quotation marks already removed.
//
// The escapes \b \f \n \r \t \v \' \" \\ \/ and \uXXXX are decoded. A \u
// escape naming the high half of a surrogate pair is joined with a following
// \u escape for the low half; unpaired surrogates decode to the Unicode
// replacement rune.
//
// If strict is false, any other escaped character is passed through without
// its backslash. If strict is true, only the escapes permitted by JSON are
// accepted. Unquote reports an *Error for an incomplete or invalid escape.
func Unquote(src mem.RO, strict bool) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		dec = mem.Append(dec, src)
		return dec, nil
	}

	putByte := func(bs ...byte) { dec = append(dec, bs...) }
	putRune := func(r rune) { dec = utf8.AppendRune(dec, r) }
	var base int // offset of src in the original input
	for src.Len() != 0 {
		dec = mem.Append(dec, src.SliceTo(i))
		at := base + i
		fail := func(msg string, args ...any) error {
			return &Error{Offset: at, Msg: fmt.Sprintf(msg, args...)}
		}

		src = src.SliceFrom(i + 1)
		base = at + 1
		if src.Len() == 0 {
			return nil, fail("incomplete escape sequence")
		}
		r, n := mem.DecodeRune(src)
		if n == 0 {
			n++
		}
		src = src.SliceFrom(n)
		base += n

		switch r {
		case '"', '\\', '/':
			putByte(byte(r))
		case 'b':
			putByte('\b')
		case 'f':
			putByte('\f')
		case 'n':
			putByte('\n')
		case 'r':
			putByte('\r')
		case 't':
			putByte('\t')
		case 'v', '\'':
			if strict {
				return nil, fail("invalid %q after escape", r)
			} else if r == 'v' {
				putByte('\v')
			} else {
				putByte('\'')
			}
		case 'u':
			v, err := parseHex4(src)
			if err != nil {
				return nil, fail("invalid Unicode escape: %v", err)
			}
			src = src.SliceFrom(4)
			base += 4
			if utf16.IsSurrogate(v) {
				if lo, ok := lowSurrogate(src); ok {
					if d := utf16.DecodeRune(v, lo); d != utf8.RuneError {
						v = d
						src = src.SliceFrom(6)
						base += 6
					}
				}
				if utf16.IsSurrogate(v) {
					v = utf8.RuneError
				}
			}
			putRune(v)
		default:
			if strict {
				return nil, fail("invalid %q after escape", r)
			}
			putRune(r)
		}

		// Look for the next escape sequence, and if one is not found we can blit
		// the rest of the input and go home.
		i = mem.IndexByte(src, '\\')
		if i < 0 {
			dec = mem.Append(dec, src)
			break
		}
	}
	return dec, nil
}

// lowSurrogate reports whether src begins with a \u escape, and if so returns
// its value.
func lowSurrogate(src mem.RO) (rune, bool) {
	if src.Len() < 6 || src.At(0) != '\\' || src.At(1) != 'u' {
		return 0, false
	}
	v, err := parseHex4(src.SliceFrom(2))
	return v, err == nil
}

// parseHex4 parses exactly 4 hexadecimal digits from the front of data.
func parseHex4(data mem.RO) (rune, error) {
	if data.Len() < 4 {
		return 0, fmt.Errorf("want 4 hex digits, got %d", data.Len())
	}
	var v rune
	for i := range 4 {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += rune(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += rune(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += rune(b - 'A' + 10)
		} else {
			return 0, fmt.Errorf("invalid hex digit %q", b)
		}
	}
	return v, nil
}
