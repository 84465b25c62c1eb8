// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jpull implements a pull-style JSON tokenizer, and a builder that
// folds its tokens into ordinary Go values.
//
// # Parsing
//
// The Parse function parses a complete JSON text and returns the value it
// denotes. Objects are represented as map[string]any, arrays as []any,
// strings as string, numbers as float64, true and false as bool, and null as
// nil:
//
//	v, err := jpull.Parse(`{"a": 1, "b": [2, 3]}`)
//	if err != nil {
//	   log.Fatalf("Parse: %v", err)
//	}
//
// In case of error, the returned error has concrete type *jpull.SyntaxError.
// Its Diagnostic method renders the offending source line with a caret
// marking the position of the error.
//
// # Tokenizing
//
// The Tokenizer type exposes the token stream from which Parse builds its
// result. Construct a tokenizer from the input text and call its Next method
// to pull one token at a time:
//
//	tz := jpull.NewTokenizer(input, nil)
//	for {
//	   tok, ok := tz.Next()
//	   if !ok {
//	      break
//	   }
//	   log.Printf("Next token: %v", tok)
//	}
//
// Every sequence ends with exactly one EndOfDocument token, if the input is a
// single valid JSON value, or with one Error token describing the first
// violation. Next never panics on bad input: an error is just another token,
// so the caller may inspect its location before deciding what to do. The
// Tokens function returns the same sequence as an iterator:
//
//	for tok := range jpull.Tokens(input) {
//	   if err := tok.Err(); err != nil {
//	      log.Fatal(err)
//	   }
//	   // ...
//	}
//
// # Tokens
//
// Each Token reports its kind, its location in the input, and for scalars the
// decoded value:
//
//	Kind                    | Source            | Value
//	----------------------- | ----------------- | ----------------
//	StartObject, EndObject  | { ... }           | nil
//	StartArray, EndArray    | [ ... ]           | nil
//	String                  | "..."             | string
//	Number                  | -1.5e3            | float64
//	True, False             | true, false       | bool
//	Null                    | null              | nil
//	EndOfDocument           | end of input      | nil
//	Error                   | first violation   | *SyntaxError
//
// Object keys are reported as String tokens; a key is always followed by the
// tokens of its value. Commas and colons are checked but not reported.
//
// # Building
//
// A Builder consumes tokens and reconstructs the value they describe. Parse
// is a Tokenizer feeding a Builder; other consumers, such as the ast package,
// may read the same token stream to build different structures.
package jpull
