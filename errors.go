// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jpull

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors wrapped by a *SyntaxError. Use errors.Is to classify a
// failure.
var (
	// ErrUnexpectedEOF reports that the input ended while more was expected.
	ErrUnexpectedEOF = errors.New("unexpected end of input")

	// ErrUnexpectedToken reports a character that is not valid in the current
	// grammar state, including a closer that does not match its opener.
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrInvalidNumber reports a malformed number.
	ErrInvalidNumber = errors.New("invalid number")

	// ErrInvalidString reports a string with an invalid escape or an
	// unescaped control character.
	ErrInvalidString = errors.New("invalid string")

	// ErrTooDeep reports that nesting exceeded Options.MaxDepth.
	ErrTooDeep = errors.New("nesting too deep")

	// ErrNoValue reports that the token stream ended without a root value.
	ErrNoValue = errors.New("no value")

	// ErrBuilderState reports that a Builder received a token that the
	// Tokenizer never delivers in that state. It indicates a bug in the
	// caller, not a problem with the input.
	ErrBuilderState = errors.New("inconsistent builder state")
)

// SyntaxError is the concrete type of errors reported for invalid input.
type SyntaxError struct {
	Name     string  // the source name, from Options.Name
	Offset   int     // the byte offset of the error in the input
	Location LineCol // the line and column of Offset
	Line     string  // the text of the source line containing Offset
	Message  string  // a description of the violation

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%s: %s", s.Name, s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// Diagnostic renders s as a location header, the offending source line, and
// a caret marking the error column, followed by the message:
//
//	input:2:7
//	  "b" 1
//	      ^
//
//	unexpected number at offset 9; expected ":"
func (s *SyntaxError) Diagnostic() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:%s\n", s.Name, s.Location)
	sb.WriteString(s.Line)
	sb.WriteByte('\n')

	// Keep tabs so the caret lines up with the source as a terminal renders it.
	col := min(s.Location.Column, len(s.Line))
	for i := 0; i < col; i++ {
		if s.Line[i] == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	sb.WriteString("^\n\n")
	sb.WriteString(s.Message)
	return sb.String()
}

// newSyntaxError constructs a *SyntaxError for the given offset of text.
// The line number is supplied by the caller, who tracks it while scanning.
func newSyntaxError(name, text string, offset, line int, err error, msg string) *SyntaxError {
	start := strings.LastIndexByte(text[:offset], '\n') + 1
	end := strings.IndexByte(text[start:], '\n')
	if end < 0 {
		end = len(text)
	} else {
		end += start
	}
	return &SyntaxError{
		Name:     name,
		Offset:   offset,
		Location: LineCol{Line: line, Column: offset - start},
		Line:     strings.TrimSuffix(text[start:end], "\r"),
		Message:  msg,
		err:      err,
	}
}
