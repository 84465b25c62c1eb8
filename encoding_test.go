// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jpull_test

import (
	"testing"

	"github.com/creachadair/jpull"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", `""`},
		{" ", `" "`},
		{"a\t\nb", `"a\t\nb"`},
		{"\x00\x01\x02", `"\u0000\u0001\u0002"`},
		{`a "b c\" d"`, `"a \"b c\\\" d\""`},
		{`\ufffd`, `"\\ufffd"`},
		{"\u2028 \u2029 \ufffd", "\"\\u2028 \\u2029 \ufffd\""},
		{"This is the end\v", `"This is the end\u000b"`},
		{"<\x1e>", `"<\u001e>"`},
		{"caf\xe9", "\"caf\ufffd\""},
		{"\U0001F600", "\"\U0001F600\""},
	}
	for _, test := range tests {
		got := jpull.Quote(test.input)
		if got != test.want {
			t.Errorf("Input: %#q\nGot:  %#q\nWant: %#q", test.input, got, test.want)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input string
		want  string
		fail  bool
	}{
		{``, ``, true},                          // missing quotes
		{`"`, ``, true},                         // missing quotes
		{`"missing quote`, ``, true},            // missing quotes
		{`missing quote"`, ``, true},            // missing quotes
		{`""`, ``, false},                       // ok
		{`"ok go"`, "ok go", false},             // ok
		{`"abc\ndef"`, "abc\ndef", false},       // C escapes
		{`"\tabc\n"`, "\tabc\n", false},         // C escapes
		{`"\b\f\n\r\t"`, "\b\f\n\r\t", false},   // C escapes
		{`"a\/b"`, "a/b", false},                // solidus
		{`"a \u0026 b"`, "a & b", false},        // short Unicode escape
		{`"\u00e9\u00E9"`, "éé", false},         // either case of hex digit
		{`"\ud83d\ude00"`, "\U0001F600", false}, // surrogate pair
		{`"\ud800"`, "\ufffd", false},           // unpaired high surrogate
		{`"\udc00x"`, "\ufffdx", false},         // unpaired low surrogate
		{`"\ud800\u0041"`, "\ufffdA", false},    // high surrogate, non-surrogate
		{"\"a\xffb\"", "a\ufffdb", false},       // invalid UTF-8
		{`"\u"`, ``, true},                      // incomplete Unicode escape
		{`"\u00"`, ``, true},                    // incomplete Unicode escape
		{`"\u00x9"`, ``, true},                  // invalid Unicode escape
		{`"\u019 "`, ``, true},                  // invalid Unicode escape
		{`"\q"`, ``, true},                      // unknown escape
		{`"abc\"`, ``, true},                    // incomplete escape
		{"\"a\x01b\"", ``, true},                // unescaped control
		{"\"a\tb\"", ``, true},                  // unescaped control
		{`"a\"b"`, `a"b`, false},                // ok
		{`"a\\b\\cd"`, `a\b\cd`, false},         // ok
	}

	for _, test := range tests {
		got, err := jpull.Unquote(test.input)
		if err != nil {
			if !test.fail {
				t.Errorf("Unquote(%#q): got %v, want no error", test.input, err)
			} else {
				t.Logf("Unquote(%#q): got expected error: %v", test.input, err)
			}
		} else if test.fail {
			t.Errorf("Unquote(%#q): got nil, want error", test.input)
		}
		if got != test.want {
			t.Errorf("Unquote(%#q): got %#q, want %#q", test.input, got, test.want)
		}
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	for _, s := range []string{
		"", "plain", "tab\there", "quote\"and\\slash", "\x00\x1f\x7f",
		"Aé中\U0001F600", "\u2028\u2029", "</script>",
	} {
		q := jpull.Quote(s)
		got, err := jpull.Unquote(q)
		if err != nil {
			t.Errorf("Unquote(%#q): unexpected error: %v", q, err)
		} else if got != s {
			t.Errorf("Round trip %#q: got %#q via %#q", s, got, q)
		}
	}
}
