// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jpath_test

import (
	"strings"
	"testing"

	"github.com/creachadair/jpull/ast"
	"github.com/creachadair/jpull/jpath"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []string{
		"$",
		"$.store.book[*]..author",
		"$..author",
		"$.store.*",
		"$.store..price",
		"$..book[2]",
		"$..book[-1:]",
		"$..book[0,1]",
		"$..book[:2]",
		"$..book[1:-1]",
		"$..*",
		"$['apple sauce'].pearPlum..'cherry apple'",
		"$[a][1:3][b]['c d e']",
	}
	for _, input := range tests {
		e, err := jpath.Parse(input)
		if err != nil {
			t.Errorf("Parse %q: %v", input, err)
			continue
		}
		if got := e.String(); got != input {
			t.Errorf("Parse %q:\n got %q\nwant %q", input, got, input)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", "missing root marker"},
		{"store.book", "missing root marker"},
		{"$store", "offset 1: invalid path step"},
		{"$.", "offset 1: invalid .name"},
		{"$..", "offset 1: invalid ..name"},
		{"$.a[0", "offset 3: missing close bracket"},
		{"$.a['x]", "offset 3: invalid subscript"},
		{"$..book[(@.length-1)]", "not supported"},
		{"$..book[?(@.isbn)]", "not supported"},
		{"$[99999999999999999999]", "invalid index"},
	}
	for _, test := range tests {
		e, err := jpath.Parse(test.input)
		if err == nil {
			t.Errorf("Parse %q: got %v, want error", test.input, e)
		} else if !strings.Contains(err.Error(), test.want) {
			t.Errorf("Parse %q: got error %v, want %q", test.input, err, test.want)
		}
	}
	mtest.MustPanic(t, func() { jpath.MustParse("$[") })
}

const store = `{
  "store": {
    "book": [
      {"category": "reference", "author": "Nigel Rees", "price": 8.95},
      {"category": "fiction", "author": "Evelyn Waugh", "price": 12.99},
      {"category": "fiction", "author": "Herman Melville", "price": 8.99, "isbn": "0-553-21311-3"},
      {"category": "fiction", "author": "J. R. R. Tolkien", "price": 22.99}
    ],
    "bicycle": {"color": "red", "price": 19.95}
  },
  "odd key": [true, null],
  "dup": 1, "dup": 2
}`

func TestSelect(t *testing.T) {
	root, err := ast.Parse(store)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tests := []struct {
		expr string
		want []string
	}{
		{"$.store.book[*].author", []string{
			`"Nigel Rees"`, `"Evelyn Waugh"`, `"Herman Melville"`, `"J. R. R. Tolkien"`,
		}},
		{"$..author", []string{
			`"Nigel Rees"`, `"Evelyn Waugh"`, `"Herman Melville"`, `"J. R. R. Tolkien"`,
		}},
		{"$.store..price", []string{"8.95", "12.99", "8.99", "22.99", "19.95"}},
		{"$.store.bicycle.*", []string{`"red"`, "19.95"}},
		{"$..book[2].author", []string{`"Herman Melville"`}},
		{"$..book[-1:].author", []string{`"J. R. R. Tolkien"`}},
		{"$..book[0,1].price", []string{"8.95", "12.99"}},
		{"$..book[3,-4].price", []string{"22.99", "8.95"}},
		{"$..book[:2].category", []string{`"reference"`, `"fiction"`}},
		{"$..book[1:-1].price", []string{"12.99", "8.99"}},
		{"$..isbn", []string{`"0-553-21311-3"`}},
		{"$['odd key'][*]", []string{"true", "null"}},
		{"$['odd key'][1]", []string{"null"}},
		{"$.dup", []string{"2"}},

		// Steps that do not apply select nothing.
		{"$..book[4]", nil},
		{"$..book[-5]", nil},
		{"$..book[3:1]", nil},
		{"$.store.bicycle[0]", nil},
		{"$.store.bicycle[:]", nil},
		{"$.missing", nil},
		{"$['*']", nil},
	}
	for _, test := range tests {
		got := selectJSON(jpath.MustParse(test.expr), root)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Select %q (-want, +got):\n%s", test.expr, diff)
		}
	}
}

func TestSelectAll(t *testing.T) {
	root := mustParse(t, `{"a":[1,{"b":2}]}`)
	got := selectJSON(jpath.MustParse("$..*"), root)
	want := []string{`[1,{"b":2}]`, "1", `{"b":2}`, "2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Select $..* (-want, +got):\n%s", diff)
	}

	// Selection from a member starts at its value.
	obj := root.(*ast.Object)
	got = selectJSON(jpath.MustParse("$[1].b"), obj.Members[0])
	if diff := cmp.Diff([]string{"2"}, got); diff != "" {
		t.Errorf("Select from member (-want, +got):\n%s", diff)
	}
}

func mustParse(t *testing.T, text string) ast.Value {
	t.Helper()
	v, err := ast.Parse(text)
	if err != nil {
		t.Fatalf("Parse %q: %v", text, err)
	}
	return v
}

func selectJSON(e jpath.Expr, v ast.Value) []string {
	var out []string
	for _, elt := range e.Select(v) {
		out = append(out, elt.JSON())
	}
	return out
}
