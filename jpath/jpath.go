// Package jpath implements a subset of JSONPath for selecting values from a
// syntax tree.
package jpath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/creachadair/jpull/ast"
)

/*
Grammar:

  expr = root steps
  root = "$"
 steps = step [steps]
  step = "." name
  step = ".." name
  step = "[" name "]"
  step = "[" index "]"
  step = "[" slice "]"
  name = WORD
  name = "'" QTEXT "'"
  name = "*"
 index = INT ["," index]
 slice = [INT] ":" [INT]

  WORD = RE `\w+`
 QTEXT = RE `[^']*`
   INT = RE `-?\d+`

Script "(...)" and filter "?(...)" subscripts are not supported.

Source:
  https://www.ietf.org/archive/id/draft-goessner-dispatch-jsonpath-00.html
*/

// An Expr is a parsed JSONPath expression.
type Expr []Step

// Parse parses s as a JSONPath expression.
func Parse(s string) (Expr, error) {
	rest, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, errors.New("missing root marker")
	}
	var e Expr
	for rest != "" {
		step, tail, err := parseStep(rest)
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", len(s)-len(rest), err)
		}
		e = append(e, step)
		rest = tail
	}
	return e, nil
}

// MustParse parses s as a JSONPath expression, and panics on error.
func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("jpath: invalid expression %q: %v", s, err))
	}
	return e
}

func (e Expr) String() string {
	var sb strings.Builder
	sb.WriteString("$")
	for _, s := range e {
		sb.WriteString(s.String())
	}
	return sb.String()
}

// Select returns the values of v selected by e, in document order. Steps that
// do not apply to a value (such as an index applied to an object) select
// nothing from it. If v is an object member, selection starts from its value.
func (e Expr) Select(v ast.Value) []ast.Value {
	if m, ok := v.(*ast.Member); ok {
		v = m.Value
	}
	cur := []ast.Value{v}
	for _, s := range e {
		var next []ast.Value
		for _, v := range cur {
			next = s.apply(v, next)
		}
		cur = next
	}
	return cur
}

// An Op is a path operator.
type Op byte

const (
	Invalid Op = iota // invalid operator
	Member            // member or wildcard lookup (.name, [name])
	Recur             // recursive descent (..name)
	Index             // array index lookup ([i,j,...])
	Slice             // array slice ([lo:hi])
)

var opText = [...]string{
	Invalid: "invalid",
	Member:  ".",
	Recur:   "..",
	Index:   "index",
	Slice:   "slice",
}

func (o Op) String() string {
	if int(o) < len(opText) {
		return opText[o]
	}
	return opText[Invalid]
}

// A Step is a single step of a JSONPath expression.
type Step struct {
	Op Op

	Name    string // Member, Recur: the key, or "*" for all children
	Quoted  bool   // Member, Recur: the name was quoted
	Bracket bool   // Member: the name was written in brackets

	Index []int // Index: offsets, negative from the end

	Lo, Hi       int  // Slice: bounds, negative from the end
	HasLo, HasHi bool // Slice: which bounds are present
}

func (s Step) String() string {
	switch s.Op {
	case Member, Recur:
		name := s.Name
		if s.Quoted {
			name = "'" + name + "'"
		}
		if s.Bracket {
			return "[" + name + "]"
		}
		return s.Op.String() + name

	case Index:
		parts := make([]string, len(s.Index))
		for i, v := range s.Index {
			parts[i] = strconv.Itoa(v)
		}
		return "[" + strings.Join(parts, ",") + "]"

	case Slice:
		var lo, hi string
		if s.HasLo {
			lo = strconv.Itoa(s.Lo)
		}
		if s.HasHi {
			hi = strconv.Itoa(s.Hi)
		}
		return "[" + lo + ":" + hi + "]"
	}
	return s.Op.String()
}

// apply appends the values selected by s from v to out.
func (s Step) apply(v ast.Value, out []ast.Value) []ast.Value {
	switch s.Op {
	case Member:
		return s.children(v, out)

	case Recur:
		for d := range ast.All(v) {
			// Each member is followed by its value, which is the node to search.
			if _, ok := d.(*ast.Member); !ok {
				out = s.children(d, out)
			}
		}

	case Index:
		if arr, ok := v.(*ast.Array); ok {
			for _, i := range s.Index {
				if i < 0 {
					i += arr.Len()
				}
				if i >= 0 && i < arr.Len() {
					out = append(out, arr.Values[i])
				}
			}
		}

	case Slice:
		if arr, ok := v.(*ast.Array); ok {
			n := arr.Len()
			lo, hi := 0, n
			if s.HasLo {
				lo = clampIndex(s.Lo, n)
			}
			if s.HasHi {
				hi = clampIndex(s.Hi, n)
			}
			if lo < hi {
				out = append(out, arr.Values[lo:hi]...)
			}
		}
	}
	return out
}

// children appends the children of v matching the name of s. A named lookup
// on an object selects the value of its last member with that key, as
// Object.Find does; the wildcard selects every member value or array element.
func (s Step) children(v ast.Value, out []ast.Value) []ast.Value {
	wild := s.Name == "*" && !s.Quoted
	switch t := v.(type) {
	case *ast.Object:
		if !wild {
			if m := t.Find(s.Name); m != nil {
				out = append(out, m.Value)
			}
			return out
		}
		for _, m := range t.Members {
			out = append(out, m.Value)
		}
	case *ast.Array:
		if wild {
			out = append(out, t.Values...)
		}
	}
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	return max(0, min(i, n))
}

func parseStep(s string) (Step, string, error) {
	if t, ok := strings.CutPrefix(s, ".."); ok {
		name, quoted, rest, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid ..name: %w", err)
		}
		return Step{Op: Recur, Name: name, Quoted: quoted}, rest, nil
	}
	if t, ok := strings.CutPrefix(s, "."); ok {
		name, quoted, rest, err := parseName(t)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid .name: %w", err)
		}
		return Step{Op: Member, Name: name, Quoted: quoted}, rest, nil
	}
	t, ok := strings.CutPrefix(s, "[")
	if !ok {
		return Step{}, s, errors.New("invalid path step")
	}
	step, rest, err := parseSubscript(t)
	if err != nil {
		return Step{}, s, err
	}
	rest, ok = strings.CutPrefix(rest, "]")
	if !ok {
		return Step{}, s, errors.New("missing close bracket")
	}
	return step, rest, nil
}

func parseName(s string) (name string, quoted bool, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "*"); ok {
		return "*", false, t, nil
	}
	if m := wordRE.FindStringSubmatch(s); m != nil {
		return m[1], false, s[len(m[0]):], nil
	}
	if m := quoteRE.FindStringSubmatch(s); m != nil {
		return m[1], true, s[len(m[0]):], nil
	}
	return "", false, s, errors.New("invalid name")
}

func parseSubscript(s string) (Step, string, error) {
	if strings.HasPrefix(s, "(") || strings.HasPrefix(s, "?(") {
		return Step{}, s, errors.New("script and filter expressions are not supported")
	}
	if m := sliceRE.FindStringSubmatch(s); m != nil {
		step := Step{Op: Slice}
		var err error
		if m[1] != "" {
			step.Lo, err = strconv.Atoi(m[1])
			step.HasLo = true
		}
		if m[2] != "" && err == nil {
			step.Hi, err = strconv.Atoi(m[2])
			step.HasHi = true
		}
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid slice: %w", err)
		}
		return step, s[len(m[0]):], nil
	}
	if m := indexRE.FindStringSubmatch(s); m != nil {
		step := Step{Op: Index}
		for _, f := range strings.Split(m[1], ",") {
			v, err := strconv.Atoi(f)
			if err != nil {
				return Step{}, s, fmt.Errorf("invalid index: %w", err)
			}
			step.Index = append(step.Index, v)
		}
		return step, s[len(m[0]):], nil
	}
	name, quoted, rest, err := parseName(s)
	if err != nil {
		return Step{}, s, fmt.Errorf("invalid subscript %q", s)
	}
	return Step{Op: Member, Name: name, Quoted: quoted, Bracket: true}, rest, nil
}

var (
	wordRE  = regexp.MustCompile(`^(\w+)`)
	quoteRE = regexp.MustCompile(`^'([^']*)'`)
	indexRE = regexp.MustCompile(`^(-?\d+(?:,-?\d+)*)`)
	sliceRE = regexp.MustCompile(`^(-?\d+)?:(-?\d+)?`)
)
