// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jpull

import (
	"fmt"

	"github.com/creachadair/mds/stack"
)

// A Builder consumes the tokens of a single JSON document and reconstructs
// the value they describe. Objects become map[string]any, arrays []any,
// strings string, numbers float64, true and false bool, and null nil. This is
// the same representation encoding/json produces when decoding into an any.
//
// A Builder does not check the grammar; it relies on its tokens coming from a
// Tokenizer. Feed it each token other than EndOfDocument, in order, then call
// Value to recover the result.
//
// A container is attached to its parent when its closing token is handled,
// not when it opens. No partial value is ever returned, so the order is not
// observable.
type Builder struct {
	root *frame
	stk  *stack.Stack[*frame] // open containers, innermost on top
}

// frameKind distinguishes the variants of a builder frame.
type frameKind byte

const (
	rootFrame   frameKind = iota // holds the single root value
	arrayFrame                   // holds an array under construction
	objectFrame                  // holds an object under construction
)

// A frame is one level of value reconstruction. Which fields are in use
// depends on the kind.
type frame struct {
	kind frameKind

	value any  // rootFrame: the root value
	set   bool // rootFrame: value has been stored

	array []any // arrayFrame

	object map[string]any // objectFrame
	key    string         // objectFrame: the key awaiting its value
	hasKey bool           // objectFrame: key is valid
}

// add attaches v to the container held by f.
func (f *frame) add(v any) error {
	switch f.kind {
	case rootFrame:
		if f.set {
			return fmt.Errorf("%w: second root value", ErrBuilderState)
		}
		f.value, f.set = v, true

	case arrayFrame:
		f.array = append(f.array, v)

	case objectFrame:
		// Members alternate between key and value.
		if !f.hasKey {
			key, ok := v.(string)
			if !ok {
				return fmt.Errorf("%w: object key is %T, not string", ErrBuilderState, v)
			}
			f.key, f.hasKey = key, true
			return nil
		}
		f.object[f.key] = v
		f.key, f.hasKey = "", false

	default:
		panic(fmt.Sprintf("unknown frame kind %d", f.kind))
	}
	return nil
}

// contents returns the container held by f.
func (f *frame) contents() any {
	if f.kind == arrayFrame {
		if f.array == nil {
			return []any{}
		}
		return f.array
	}
	return f.object
}

// NewBuilder constructs a new empty Builder.
func NewBuilder() *Builder {
	root := &frame{kind: rootFrame}
	stk := stack.New[*frame]()
	stk.Push(root)
	return &Builder{root: root, stk: stk}
}

// Handle consumes a single token. It reports an error if tok is an Error
// token, whose *SyntaxError is returned unchanged, or if tok cannot occur in
// the current state of b, which means the token did not come from a Tokenizer
// in sequence (see ErrBuilderState).
func (b *Builder) Handle(tok Token) error {
	switch tok.Kind {
	case StartObject:
		b.stk.Push(&frame{kind: objectFrame, object: make(map[string]any)})

	case StartArray:
		b.stk.Push(&frame{kind: arrayFrame})

	case EndObject, EndArray:
		want := objectFrame
		if tok.Kind == EndArray {
			want = arrayFrame
		}
		cur := b.stk.Top()
		if cur.kind != want {
			return fmt.Errorf("%w: %v at offset %d does not close the current container",
				ErrBuilderState, tok.Kind, tok.Location.Pos)
		} else if cur.hasKey {
			return fmt.Errorf("%w: object closed with key %q pending", ErrBuilderState, cur.key)
		}

		// A slice is a value, so a container is attached to its parent only
		// once it is complete. The parent's pending key (if any) waits for it.
		b.stk.Pop()
		parent := b.stk.Top()
		return parent.add(cur.contents())

	case String, Number, True, False, Null:
		cur := b.stk.Top()
		return cur.add(tok.Value)

	case Error:
		return tok.Err()

	default:
		return fmt.Errorf("%w: unexpected %v token", ErrBuilderState, tok.Kind)
	}
	return nil
}

// Value reports the root value and true, if a complete root value has been
// built; otherwise it returns nil and false.
func (b *Builder) Value() (any, bool) {
	if b.stk.Len() != 1 || !b.root.set {
		return nil, false
	}
	return b.root.value, true
}

// Depth reports the number of containers currently under construction.
func (b *Builder) Depth() int { return b.stk.Len() - 1 }
