// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jpull

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/creachadair/jpull/internal/escape"

	"github.com/creachadair/mds/stack"
	"go4.org/mem"
)

// Options control the behavior of a Tokenizer. A nil *Options is ready for
// use and provides default values as described.
type Options struct {
	// Name identifies the input in diagnostics. If empty, "input" is used.
	Name string

	// MaxDepth, if positive, limits the nesting depth of objects and arrays.
	// Exceeding the limit is reported as an Error token wrapping ErrTooDeep.
	// If zero, nesting is limited only by available memory.
	MaxDepth int
}

func (o *Options) name() string {
	if o == nil || o.Name == "" {
		return "input"
	}
	return o.Name
}

func (o *Options) maxDepth() int {
	if o == nil || o.MaxDepth < 0 {
		return 0
	}
	return o.MaxDepth
}

// container marks an open object or array on the container stack.
type container byte

const (
	inObject container = iota + 1
	inArray
)

// A Tokenizer reads tokens from a complete JSON text. Each call to Next
// returns the next token of the input, until the sequence ends with either an
// EndOfDocument token or an Error token.
//
// A Tokenizer accepts exactly one JSON value, optionally surrounded by
// whitespace. Any other input yields an Error token describing the first
// violation; Next never panics on bad input.
type Tokenizer struct {
	text     string
	name     string
	maxDepth int

	pos       int // offset of the next unread byte
	line      int // current line number, 1-based
	lineStart int // offset of the first byte of the current line

	want expect                  // token classes valid at pos
	stk  *stack.Stack[container] // open containers, innermost on top
	done bool                    // the sequence has ended
}

// NewTokenizer constructs a Tokenizer that reads tokens from text.
func NewTokenizer(text string, opts *Options) *Tokenizer {
	return &Tokenizer{
		text:     text,
		name:     opts.name(),
		maxDepth: opts.maxDepth(),
		line:     1,
		want:     expectValue,
		stk:      stack.New[container](),
	}
}

// Next returns the next token of the input and true, or a zero Token and
// false if the sequence has already ended. The last token of a sequence has
// kind EndOfDocument (the input was valid) or Error (it was not).
func (t *Tokenizer) Next() (Token, bool) {
	if t.done {
		return Token{}, false
	}
	tok := t.next()
	if tok.Kind == EndOfDocument || tok.Kind == Error {
		t.done = true
	}
	return tok, true
}

// All returns an iterator over the remaining tokens of t. The iterator shares
// the state of t, so tokens it consumes are not reported again by Next.
func (t *Tokenizer) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			tok, ok := t.Next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

// Depth reports the number of objects and arrays currently open.
func (t *Tokenizer) Depth() int { return t.stk.Len() }

func (t *Tokenizer) next() Token {
	for t.pos < len(t.text) {
		switch ch := t.text[t.pos]; ch {
		case '\n':
			t.pos++
			t.line++
			t.lineStart = t.pos
			continue

		case ' ', '\t', '\r':
			t.pos++
			continue

		case '{', '[':
			if !t.want.has(expectValue) {
				return t.unexpected(t.pos)
			}
			if t.maxDepth > 0 && t.stk.Len() >= t.maxDepth {
				return t.failf(t.pos, ErrTooDeep, "nesting exceeds %d levels at offset %d", t.maxDepth, t.pos)
			}
			if ch == '{' {
				t.stk.Push(inObject)
				t.want = expectKey | expectCloser
				return t.emit(StartObject, t.pos, t.pos+1, nil)
			}
			t.stk.Push(inArray)
			t.want = expectValue | expectCloser
			return t.emit(StartArray, t.pos, t.pos+1, nil)

		case '}', ']':
			if !t.want.has(expectCloser) {
				return t.unexpected(t.pos)
			}
			kind, match := EndObject, inObject
			if ch == ']' {
				kind, match = EndArray, inArray
			}
			if top := t.stk.Top(); top != match {
				return t.failf(t.pos, ErrUnexpectedToken, "unexpected %q at offset %d; expected %s",
					ch, t.pos, closerFor(top))
			}
			t.stk.Pop()
			t.valueDone()
			return t.emit(kind, t.pos, t.pos+1, nil)

		case ':':
			if !t.want.has(expectColon) {
				return t.unexpected(t.pos)
			}
			t.want = expectValue
			t.pos++
			continue

		case ',':
			if !t.want.has(expectComma) {
				return t.unexpected(t.pos)
			}
			if t.stk.Top() == inObject {
				t.want = expectKey
			} else {
				t.want = expectValue
			}
			t.pos++
			continue

		case '"':
			isKey := t.want.has(expectKey)
			if !isKey && !t.want.has(expectValue) {
				return t.unexpected(t.pos)
			}
			tok := t.scanString(t.pos)
			if tok.Kind == String {
				if isKey {
					t.want = expectColon
				} else {
					t.valueDone()
				}
			}
			return tok

		case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			if !t.want.has(expectValue) {
				return t.unexpected(t.pos)
			}
			tok := t.scanNumber(t.pos)
			if tok.Kind == Number {
				t.valueDone()
			}
			return tok

		case 't', 'f', 'n':
			if !t.want.has(expectValue) {
				return t.unexpected(t.pos)
			}
			var tok Token
			switch ch {
			case 't':
				tok = t.scanLiteral(t.pos, "true", True, true)
			case 'f':
				tok = t.scanLiteral(t.pos, "false", False, false)
			default:
				tok = t.scanLiteral(t.pos, "null", Null, nil)
			}
			if tok.Kind != Error {
				t.valueDone()
			}
			return tok

		default:
			return t.unexpected(t.pos)
		}
	}

	if t.want != expectNothing {
		return t.failf(t.pos, ErrUnexpectedEOF, "unexpected end of input; expected %s", t.want)
	}
	return t.emit(EndOfDocument, t.pos, t.pos, nil)
}

// valueDone updates the expectation after a complete value: another member or
// element, or the closer, inside a container; nothing at the top level.
func (t *Tokenizer) valueDone() {
	if t.stk.IsEmpty() {
		t.want = expectNothing
	} else {
		t.want = expectComma | expectCloser
	}
}

// scanString scans a quoted string beginning at offset start, which must be
// the opening quotation mark.
func (t *Tokenizer) scanString(start int) Token {
	i := start + 1
	for {
		if i >= len(t.text) {
			return t.failf(len(t.text), ErrUnexpectedEOF, "unexpected end of input in string starting at offset %d", start)
		}
		c := t.text[i]
		i++
		if c == '"' {
			break
		} else if c != '\\' {
			continue
		}

		// Skip the escaped character; \u consumes four more. The digits are
		// checked when the string is decoded.
		if i < len(t.text) && t.text[i] == 'u' {
			i += 5
		} else {
			i++
		}
		if i > len(t.text) {
			return t.failf(len(t.text), ErrUnexpectedEOF, "unexpected end of input in string starting at offset %d", start)
		}
	}

	dec, err := escape.Unquote(mem.S(t.text[start+1 : i-1]))
	if err != nil {
		var eerr *escape.Error
		if !errors.As(err, &eerr) {
			return t.failf(start, fmt.Errorf("%w: %w", ErrInvalidString, err), "invalid string at offset %d: %v", start, err)
		}
		at := start + 1 + eerr.Offset
		return t.failf(at, fmt.Errorf("%w: %s", ErrInvalidString, eerr.Message),
			"invalid string at offset %d: %s", at, eerr.Message)
	}
	return t.emit(String, start, i, string(dec))
}

// scanNumber scans a number beginning at offset start, per ECMA-404 §8:
//
//	[-] (0 | [1-9][0-9]*) [. [0-9]+] [(e|E) [+|-] [0-9]+]
//
// A zero integer part is never followed by further integer digits, so "01"
// scans as the number 0 followed by an unexpected "1".
func (t *Tokenizer) scanNumber(start int) Token {
	text := t.text
	i := start
	if text[i] == '-' {
		i++
	}

	// Integer part.
	if i >= len(text) {
		return t.failf(i, ErrUnexpectedEOF, "unexpected end of input in number starting at offset %d", start)
	}
	switch c := text[i]; {
	case c == '0':
		i++
	case isDigit(c):
		i = skipDigits(text, i)
	default:
		return t.badNumber(start, i)
	}

	// Fraction.
	if i < len(text) && text[i] == '.' {
		i++
		if i >= len(text) {
			return t.failf(i, ErrUnexpectedEOF, "unexpected end of input in number starting at offset %d", start)
		} else if !isDigit(text[i]) {
			return t.badNumber(start, i)
		}
		i = skipDigits(text, i)
	}

	// Exponent.
	if i < len(text) && (text[i] == 'e' || text[i] == 'E') {
		i++
		if i < len(text) && (text[i] == '+' || text[i] == '-') {
			i++
		}
		if i >= len(text) {
			return t.failf(i, ErrUnexpectedEOF, "unexpected end of input in number starting at offset %d", start)
		} else if !isDigit(text[i]) {
			return t.badNumber(start, i)
		}
		i = skipDigits(text, i)
	}

	// A literal too large for float64 decodes as ±Inf, as it would in any
	// floating-point literal parser; only a syntax problem is an error here.
	v, err := strconv.ParseFloat(text[start:i], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return t.failf(start, fmt.Errorf("%w: %w", ErrInvalidNumber, err), "invalid number at offset %d: %v", start, err)
	}
	return t.emit(Number, start, i, v)
}

func (t *Tokenizer) badNumber(start, at int) Token {
	return t.failf(at, ErrInvalidNumber, "unexpected %s at offset %d in number starting at offset %d",
		quoteByte(t.text[at]), at, start)
}

// scanLiteral matches the constant word at offset start, one byte at a time.
func (t *Tokenizer) scanLiteral(start int, word string, kind Kind, value any) Token {
	for j := 0; j < len(word); j++ {
		i := start + j
		if i >= len(t.text) {
			return t.failf(i, ErrUnexpectedEOF, "unexpected end of input in %s at offset %d", word, start)
		} else if t.text[i] != word[j] {
			return t.failf(i, ErrUnexpectedToken, "unexpected %s at offset %d; expected %q",
				quoteByte(t.text[i]), i, word[j])
		}
	}
	return t.emit(kind, start, start+len(word), value)
}

// emit constructs a token of the given kind spanning text[pos:end], and
// advances the read offset to end. Tokens never span a line break.
func (t *Tokenizer) emit(kind Kind, pos, end int, value any) Token {
	t.pos = end
	return Token{
		Kind: kind,
		Location: Location{
			Span:  Span{Pos: pos, End: end},
			First: LineCol{Line: t.line, Column: pos - t.lineStart},
			Last:  LineCol{Line: t.line, Column: end - t.lineStart},
		},
		Value: value,
	}
}

// unexpected reports the byte at offset as invalid in the current state.
func (t *Tokenizer) unexpected(offset int) Token {
	return t.failf(offset, ErrUnexpectedToken, "unexpected %s at offset %d; expected %s",
		describe(t.text[offset]), offset, t.want)
}

// failf constructs an Error token at offset. The error err becomes the cause
// of the *SyntaxError carried by the token.
func (t *Tokenizer) failf(offset int, err error, msg string, args ...any) Token {
	// The offset may lie past line breaks inside the current token.
	line := t.line + strings.Count(t.text[t.lineStart:offset], "\n")
	serr := newSyntaxError(t.name, t.text, offset, line, err, fmt.Sprintf(msg, args...))
	end := min(offset+1, len(t.text))
	return Token{
		Kind: Error,
		Location: Location{
			Span:  Span{Pos: offset, End: end},
			First: serr.Location,
			Last:  LineCol{Line: serr.Location.Line, Column: serr.Location.Column + (end - offset)},
		},
		Value: serr,
	}
}

// describe renders the byte b, which begins a token, for use in an error
// message.
func describe(b byte) string {
	switch {
	case b == '"':
		return "string"
	case b == '-' || isDigit(b):
		return "number"
	default:
		return quoteByte(b)
	}
}

func quoteByte(b byte) string {
	if b < ' ' || b >= 0x7f {
		return fmt.Sprintf("byte 0x%02x", b)
	}
	return strconv.QuoteRune(rune(b))
}

func closerFor(c container) string {
	if c == inArray {
		return `"]"`
	}
	return `"}"`
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }

func skipDigits(text string, i int) int {
	for i < len(text) && isDigit(text[i]) {
		i++
	}
	return i
}
