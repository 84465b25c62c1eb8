// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"

	"github.com/creachadair/jpull"
	"github.com/creachadair/mds/stack"
)

// Parse parses text as a single JSON value and returns its syntax tree.
// In case of error, the returned error has concrete type *jpull.SyntaxError.
func Parse(text string) (Value, error) { return ParseWithOptions(text, nil) }

// ParseWithOptions parses text as Parse does, using the given options.
func ParseWithOptions(text string, opts *jpull.Options) (Value, error) {
	p := &parser{text: text, stk: stack.New[Value]()}
	for tok := range jpull.NewTokenizer(text, opts).All() {
		switch tok.Kind {
		case jpull.EndOfDocument:
			return p.root, nil
		case jpull.Error:
			return nil, tok.Err()
		}
		if err := p.handle(tok); err != nil {
			return nil, err
		}
	}
	panic("token sequence ended without a result")
}

// A parser constructs a syntax tree from a sequence of tokens. The stack holds
// the open objects and arrays, and each member awaiting its value.
type parser struct {
	text string
	root Value
	stk  *stack.Stack[Value]
}

func (p *parser) handle(tok jpull.Token) error {
	loc := tok.Location
	switch tok.Kind {
	case jpull.StartObject:
		p.stk.Push(&Object{Source: Source{loc}})

	case jpull.StartArray:
		p.stk.Push(&Array{Source: Source{loc}})

	case jpull.EndObject, jpull.EndArray:
		top, ok := p.stk.Pop()
		if !ok {
			return fmt.Errorf("%w: unbalanced %v", jpull.ErrBuilderState, tok.Kind)
		}
		switch t := top.(type) {
		case *Object:
			t.Loc = joinLoc(t.Loc, loc)
		case *Array:
			t.Loc = joinLoc(t.Loc, loc)
		default:
			return fmt.Errorf("%w: %v closes %T", jpull.ErrBuilderState, tok.Kind, top)
		}
		return p.reduce(top)

	case jpull.String:
		s := tok.Value.(string)

		// A string directly inside an object is the key of a new member. Add
		// it to the object now; its value arrives later.
		if obj, ok := p.stk.Peek(0); ok {
			if o, ok := obj.(*Object); ok {
				m := &Member{Key: s, KeyLoc: loc, Source: Source{loc}}
				o.Members = append(o.Members, m)
				p.stk.Push(m)
				return nil
			}
		}
		return p.reduce(&String{Value: s, Source: Source{loc}})

	case jpull.Number:
		return p.reduce(&Number{
			Value:  tok.Value.(float64),
			Text:   p.text[loc.Pos:loc.End],
			Source: Source{loc},
		})

	case jpull.True, jpull.False:
		return p.reduce(&Bool{Value: tok.Kind == jpull.True, Source: Source{loc}})

	case jpull.Null:
		return p.reduce(&Null{Source{loc}})

	default:
		return fmt.Errorf("%w: unexpected %v token", jpull.ErrBuilderState, tok.Kind)
	}
	return nil
}

// reduce attaches the complete value v to the innermost open container, or
// makes it the root if none is open.
func (p *parser) reduce(v Value) error {
	top, ok := p.stk.Peek(0)
	if !ok {
		if p.root != nil {
			return fmt.Errorf("%w: second root value", jpull.ErrBuilderState)
		}
		p.root = v
		return nil
	}
	switch t := top.(type) {
	case *Array:
		t.Values = append(t.Values, v)
	case *Member:
		t.Value = v
		t.Loc = joinLoc(t.Loc, v.Location())
		p.stk.Pop()
	default:
		return fmt.Errorf("%w: value %T without a key", jpull.ErrBuilderState, v)
	}
	return nil
}

// joinLoc returns a location spanning from the start of a to the end of b.
func joinLoc(a, b jpull.Location) jpull.Location {
	return jpull.Location{
		Span:  jpull.Span{Pos: a.Pos, End: b.End},
		First: a.First,
		Last:  b.Last,
	}
}
