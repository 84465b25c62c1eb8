// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// An Error reports a problem decoding the contents of a string literal.
type Error struct {
	Offset  int // byte offset of the problem in the input to Unquote
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (offset %d)", e.Message, e.Offset)
}

// Unquote decodes a byte slice containing the JSON encoding of a string. The
// input must have the enclosing double quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents. A \u escape
// naming a UTF-16 surrogate pair is combined into a single rune; an unpaired
// surrogate and any invalid UTF-8 in src are replaced by the Unicode
// replacement rune. Unquote reports an error for an unknown or incomplete
// escape sequence, and for an unescaped control character.
func Unquote(src mem.RO) ([]byte, error) {
	size := src.Len()
	dec := make([]byte, 0, size)
	offset := func() int { return size - src.Len() }
	fail := func(at int, msg string, args ...any) ([]byte, error) {
		return nil, &Error{Offset: at, Message: fmt.Sprintf(msg, args...)}
	}
	putRune := func(r rune) { dec = utf8.AppendRune(dec, r) }

	for src.Len() != 0 {
		// Blit the longest run of plain ASCII, which needs no decoding.
		i := plainPrefix(src)
		dec = mem.Append(dec, src.SliceTo(i))
		src = src.SliceFrom(i)
		if src.Len() == 0 {
			break
		}

		b := src.At(0)
		if b < ' ' {
			return fail(offset(), "unescaped control %q", b)
		} else if b != '\\' {
			// A multi-byte rune, possibly invalid (RuneError, 1).
			r, n := mem.DecodeRune(src)
			putRune(r)
			src = src.SliceFrom(n)
			continue
		}

		start := offset()
		src = src.SliceFrom(1)
		if src.Len() == 0 {
			return fail(start, "incomplete escape sequence")
		}
		c := src.At(0)
		src = src.SliceFrom(1)
		switch c {
		case '"', '\\', '/':
			dec = append(dec, c)
		case 'b':
			dec = append(dec, '\b')
		case 'f':
			dec = append(dec, '\f')
		case 'n':
			dec = append(dec, '\n')
		case 'r':
			dec = append(dec, '\r')
		case 't':
			dec = append(dec, '\t')
		case 'u':
			if src.Len() < 4 {
				return fail(start, "incomplete Unicode escape")
			}
			v, ok := parseHex(src.SliceTo(4))
			if !ok {
				return fail(start, "invalid Unicode escape %q", src.SliceTo(4).StringCopy())
			}
			src = src.SliceFrom(4)

			r := rune(v)
			if utf16.IsSurrogate(r) {
				r = utf8.RuneError
				if lo, ok := lowSurrogate(src); ok {
					if d := utf16.DecodeRune(rune(v), lo); d != utf8.RuneError {
						r = d
						src = src.SliceFrom(6)
					}
				}
			}
			putRune(r)
		default:
			return fail(start, "invalid %q after escape", c)
		}
	}
	return dec, nil
}

// plainPrefix returns the length of the longest prefix of src consisting of
// printable ASCII other than backslash.
func plainPrefix(src mem.RO) int {
	for i := 0; i < src.Len(); i++ {
		if b := src.At(i); b < ' ' || b == '\\' || b >= utf8.RuneSelf {
			return i
		}
	}
	return src.Len()
}

// lowSurrogate reports whether src begins with a well-formed \u escape, and if
// so returns its value. The caller decides whether it pairs.
func lowSurrogate(src mem.RO) (rune, bool) {
	if src.Len() < 6 || src.At(0) != '\\' || src.At(1) != 'u' {
		return 0, false
	}
	v, ok := parseHex(src.SliceFrom(2).SliceTo(4))
	return rune(v), ok
}

func parseHex(data mem.RO) (int64, bool) {
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += int64(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += int64(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += int64(b - 'A' + 10)
		} else {
			return 0, false
		}
	}
	return v, true
}
