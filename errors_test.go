// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jpull_test

import (
	"errors"
	"testing"

	"github.com/creachadair/jpull"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSyntaxError(t *testing.T) {
	tests := []struct {
		name, input string
		errText     string
		diag        string
	}{
		{"MissingColon", "{\n  \"a\": 1,\n  \"b\" 1\n}",
			`input:3:6: unexpected number at offset 18; expected ":"`,
			"input:3:6\n  \"b\" 1\n      ^\n\nunexpected number at offset 18; expected \":\""},
		{"Tabs", "[\n\t1 x]",
			`input:2:3: unexpected 'x' at offset 5; expected "," or closer`,
			"input:2:3\n\t1 x]\n\t  ^\n\nunexpected 'x' at offset 5; expected \",\" or closer"},
		{"CRLF", "[1 x\r\n]",
			`input:1:3: unexpected 'x' at offset 3; expected "," or closer`,
			"input:1:3\n[1 x\n   ^\n\nunexpected 'x' at offset 3; expected \",\" or closer"},
		{"EndOfInput", "[1,\n",
			"input:2:0: unexpected end of input; expected value",
			"input:2:0\n\n^\n\nunexpected end of input; expected value"},
		{"Empty", "",
			"input:1:0: unexpected end of input; expected value",
			"input:1:0\n\n^\n\nunexpected end of input; expected value"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := jpull.Parse(test.input)
			var serr *jpull.SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("Parse: got %v, want *SyntaxError", err)
			}
			if got := serr.Error(); got != test.errText {
				t.Errorf("Error:\ngot:  %q\nwant: %q", got, test.errText)
			}
			if diff := cmp.Diff(test.diag, serr.Diagnostic()); diff != "" {
				t.Errorf("Diagnostic: (-want, +got)\n%s", diff)
			}
		})
	}
}

func TestSyntaxErrorFields(t *testing.T) {
	_, err := jpull.ParseWithOptions("[true,\n  nope]", &jpull.Options{Name: "f.json"})
	var serr *jpull.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("Parse: got %v, want *SyntaxError", err)
	}
	want := &jpull.SyntaxError{
		Name:     "f.json",
		Offset:   10,
		Location: jpull.LineCol{Line: 2, Column: 3},
		Line:     "  nope]",
		Message:  `unexpected 'o' at offset 10; expected 'u'`,
	}
	if diff := cmp.Diff(want, serr, cmpopts.IgnoreUnexported(jpull.SyntaxError{})); diff != "" {
		t.Errorf("SyntaxError: (-want, +got)\n%s", diff)
	}
}
