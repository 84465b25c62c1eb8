// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jpull

import "fmt"

// Kind is the type of a token in the JSON grammar.
type Kind byte

// Constants defining the valid Kind values.
const (
	Invalid       Kind = iota // invalid token
	StartObject               // left brace "{"
	EndObject                 // right brace "}"
	StartArray                // left square bracket "["
	EndArray                  // right square bracket "]"
	String                    // quoted string
	Number                    // number
	True                      // constant: true
	False                     // constant: false
	Null                      // constant: null
	EndOfDocument             // end of a complete document
	Error                     // syntax error; terminates the sequence
)

var kindStr = [...]string{
	Invalid:       "invalid token",
	StartObject:   `"{"`,
	EndObject:     `"}"`,
	StartArray:    `"["`,
	EndArray:      `"]"`,
	String:        "string",
	Number:        "number",
	True:          "true",
	False:         "false",
	Null:          "null",
	EndOfDocument: "end of document",
	Error:         "error",
}

func (k Kind) String() string {
	v := int(k)
	if v >= len(kindStr) {
		return kindStr[Invalid]
	}
	return kindStr[v]
}

// IsValue reports whether k is a scalar value kind (String, Number, True,
// False, or Null).
func (k Kind) IsValue() bool { return k >= String && k <= Null }

// A Token is a single lexical unit reported by a Tokenizer.
//
// The concrete type of Value depends on the kind:
//
//	Kind                 | Value
//	-------------------- | -------------------------------
//	String               | string (escapes decoded)
//	Number               | float64
//	True, False          | bool
//	Error                | *SyntaxError
//	all others           | nil
//
// For an Error token, Location marks the offending position in the input.
type Token struct {
	Kind     Kind
	Location Location
	Value    any
}

// Span returns the source span of t.
func (t Token) Span() Span { return t.Location.Span }

// Err returns the error carried by an Error token, or nil for any other kind.
func (t Token) Err() error {
	if t.Kind != Error {
		return nil
	}
	if e, ok := t.Value.(*SyntaxError); ok {
		return e
	}
	return fmt.Errorf("%w: error token without detail", ErrBuilderState)
}

func (t Token) String() string {
	switch t.Kind {
	case String:
		s, _ := t.Value.(string)
		return fmt.Sprintf("%v %s [%s]", t.Kind, Quote(s), t.Location)
	case Number:
		return fmt.Sprintf("%v %v [%s]", t.Kind, t.Value, t.Location)
	case Error:
		return fmt.Sprintf("%v [%s]: %v", t.Kind, t.Location, t.Value)
	default:
		return fmt.Sprintf("%v [%s]", t.Kind, t.Location)
	}
}
