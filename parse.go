// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jpull

import (
	"fmt"
	"io"
	"iter"
)

// Parse parses text as a single JSON value and returns the value it denotes,
// using the representation described for Builder. In case of error, the
// returned error has concrete type *SyntaxError and no value is returned.
func Parse(text string) (any, error) { return ParseWithOptions(text, nil) }

// ParseWithOptions parses text as Parse does, using the given options.
func ParseWithOptions(text string, opts *Options) (any, error) {
	tz := NewTokenizer(text, opts)
	b := NewBuilder()
	for tok := range tz.All() {
		if tok.Kind == EndOfDocument {
			break
		}
		if err := b.Handle(tok); err != nil {
			return nil, err
		}
	}
	v, ok := b.Value()
	if !ok {
		// The tokenizer reports truncation itself, so this is unreachable for
		// well-behaved input; keep the contract anyway.
		return nil, newSyntaxError(opts.name(), text, len(text), countLines(text), ErrNoValue,
			"unexpected end of input; no value")
	}
	return v, nil
}

// ParseReader reads all of r and parses it as ParseWithOptions does.
// An error reading r is wrapped and returned without parsing.
func ParseReader(r io.Reader, opts *Options) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return ParseWithOptions(string(data), opts)
}

// MustParse parses text as Parse does, but panics if text is not valid.
// It simplifies the construction of values in tests and static data.
func MustParse(text string) any {
	v, err := Parse(text)
	if err != nil {
		panic(fmt.Sprintf("jpull: invalid JSON: %v", err))
	}
	return v
}

// Tokens returns an iterator over the tokens of text. Each call returns an
// independent sequence that starts from the beginning of text.
func Tokens(text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for tok := range NewTokenizer(text, nil).All() {
			if !yield(tok) {
				return
			}
		}
	}
}

func countLines(text string) int {
	n := 1
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			n++
		}
	}
	return n
}
