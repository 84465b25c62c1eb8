// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines a syntax tree for JSON values that records the source
// location of every node, and a parser that constructs trees from the tokens
// of a jpull.Tokenizer.
//
// Unlike the values produced by jpull.Parse, a tree preserves the order of
// object members, any duplicate keys, and the source text of numbers.
package ast

import (
	"fmt"
	"iter"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/creachadair/jpull"
)

// A Value is an arbitrary JSON value, or an object member.
type Value interface {
	// Location reports the source location of the value. A value constructed
	// by ToValue has a zero location.
	Location() jpull.Location

	// Span reports the source span of the value.
	Span() jpull.Span

	// JSON renders the value as compact JSON text.
	JSON() string
}

// Source records the location of a node in its input. It is embedded in each
// of the concrete node types.
type Source struct{ Loc jpull.Location }

// Location satisfies part of the Value interface.
func (s Source) Location() jpull.Location { return s.Loc }

// Span satisfies part of the Value interface.
func (s Source) Span() jpull.Span { return s.Loc.Span }

// An Object is a collection of key-value members, in input order.
type Object struct {
	Members []*Member
	Source
}

// Len reports the number of members in o, including duplicates.
func (o *Object) Len() int { return len(o.Members) }

// Find returns the member of o with the given key, or nil. If o has more than
// one such member, the last is returned, matching the value jpull.Parse
// assigns to the key.
func (o *Object) Find(key string) *Member {
	for i := len(o.Members) - 1; i >= 0; i-- {
		if o.Members[i].Key == key {
			return o.Members[i]
		}
	}
	return nil
}

// Keys returns the distinct keys of o, in order of first appearance.
func (o *Object) Keys() []string {
	var keys []string
	seen := make(map[string]bool)
	for _, m := range o.Members {
		if !seen[m.Key] {
			seen[m.Key] = true
			keys = append(keys, m.Key)
		}
	}
	return keys
}

// JSON satisfies the Value interface.
func (o *Object) JSON() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range o.Members {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(m.JSON())
	}
	sb.WriteByte('}')
	return sb.String()
}

// A Member is a single key-value pair belonging to an Object. Its location
// runs from the start of the key to the end of the value.
type Member struct {
	Key    string
	KeyLoc jpull.Location // location of the quoted key
	Value  Value
	Source
}

// JSON satisfies the Value interface. A member renders as "key":value.
func (m *Member) JSON() string { return jpull.Quote(m.Key) + ":" + m.Value.JSON() }

// Field constructs an object member with the given key and value.
func Field(key string, value any) *Member { return &Member{Key: key, Value: ToValue(value)} }

// An Array is a sequence of values.
type Array struct {
	Values []Value
	Source
}

// Len reports the number of elements in a.
func (a *Array) Len() int { return len(a.Values) }

// JSON satisfies the Value interface.
func (a *Array) JSON() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a.Values {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

// A String is a string value. Value holds the decoded contents.
type String struct {
	Value string
	Source
}

// JSON satisfies the Value interface.
func (s *String) JSON() string { return jpull.Quote(s.Value) }

// A Number is a numeric value.
type Number struct {
	Value float64
	Text  string // the source text, if parsed
	Source
}

// IsInt reports whether n is a finite whole number.
func (n *Number) IsInt() bool {
	return !math.IsInf(n.Value, 0) && n.Value == math.Trunc(n.Value)
}

// JSON satisfies the Value interface. A parsed number renders as its source
// text, so that no precision is lost.
func (n *Number) JSON() string {
	if n.Text != "" {
		return n.Text
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// A Bool is a Boolean constant, true or false.
type Bool struct {
	Value bool
	Source
}

// JSON satisfies the Value interface.
func (b *Bool) JSON() string { return strconv.FormatBool(b.Value) }

// Null represents the null constant.
type Null struct{ Source }

// JSON satisfies the Value interface.
func (*Null) JSON() string { return "null" }

// ToValue converts a Go value into a Value. It accepts nil, bool, string, the
// built-in integer and floating-point types, []any, map[string]any, and any
// Value, which is returned unchanged. Object members constructed from a map
// are sorted by key. ToValue panics for any other type.
func ToValue(v any) Value {
	switch t := v.(type) {
	case Value:
		return t
	case nil:
		return new(Null)
	case bool:
		return &Bool{Value: t}
	case string:
		return &String{Value: t}
	case int:
		return &Number{Value: float64(t)}
	case int32:
		return &Number{Value: float64(t)}
	case int64:
		return &Number{Value: float64(t)}
	case float32:
		return &Number{Value: float64(t)}
	case float64:
		return &Number{Value: t}
	case []any:
		arr := &Array{Values: make([]Value, len(t))}
		for i, elt := range t {
			arr.Values[i] = ToValue(elt)
		}
		return arr
	case map[string]any:
		obj := new(Object)
		for _, key := range slices.Sorted(maps.Keys(t)) {
			obj.Members = append(obj.Members, Field(key, t[key]))
		}
		return obj
	default:
		panic(fmt.Sprintf("cannot convert %T to a value", v))
	}
}

// Native converts v into the representation produced by jpull.Parse: objects
// become map[string]any, arrays []any, strings string, numbers float64,
// Booleans bool, and null nil. A duplicate key takes its last value. For a
// *Member, Native converts the member's value.
func Native(v Value) any {
	switch t := v.(type) {
	case *Object:
		m := make(map[string]any, len(t.Members))
		for _, mem := range t.Members {
			m[mem.Key] = Native(mem.Value)
		}
		return m
	case *Member:
		return Native(t.Value)
	case *Array:
		out := make([]any, len(t.Values))
		for i, elt := range t.Values {
			out[i] = Native(elt)
		}
		return out
	case *String:
		return t.Value
	case *Number:
		return t.Value
	case *Bool:
		return t.Value
	case *Null, nil:
		return nil
	default:
		panic(fmt.Sprintf("unknown value type %T", v))
	}
}

// All returns an iterator over v and the values nested within it, in
// depth-first order. Each member of an object is visited, followed by the
// contents of its value.
func All(v Value) iter.Seq[Value] {
	return func(yield func(Value) bool) { walk(v, yield) }
}

func walk(v Value, yield func(Value) bool) bool {
	if !yield(v) {
		return false
	}
	switch t := v.(type) {
	case *Object:
		for _, m := range t.Members {
			if !walk(m, yield) {
				return false
			}
		}
	case *Member:
		return walk(t.Value, yield)
	case *Array:
		for _, elt := range t.Values {
			if !walk(elt, yield) {
				return false
			}
		}
	}
	return true
}
