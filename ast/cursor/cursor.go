// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements traversal over the AST of a JSON value.
package cursor

import (
	"errors"
	"fmt"

	"github.com/creachadair/jpull/ast"
	"github.com/creachadair/mds/stack"
)

// ErrNotFound is reported by a traversal step naming an object key or index
// that does not exist.
var ErrNotFound = errors.New("not found")

// Path follows path from v as Cursor.Down does and returns the value it
// reaches as a T. A path ending on an object member yields the member itself
// if T admits it, otherwise the member's value.
func Path[T ast.Value](v ast.Value, path ...any) (T, error) {
	var zero T
	c := New(v).Down(path...)
	if err := c.Err(); err != nil {
		return zero, err
	}
	end := c.Value()
	if out, ok := end.(T); ok {
		return out, nil
	}
	if m, ok := end.(*ast.Member); ok {
		if out, ok := m.Value.(T); ok {
			return out, nil
		}
		end = m.Value
	}
	return zero, fmt.Errorf("path ends at %T, not %T", end, zero)
}

// A Cursor walks into the structure of an ast.Value from a fixed origin. It
// remembers every value it passes through, so Up can step back out.
type Cursor struct {
	origin ast.Value
	trail  *stack.Stack[ast.Value] // visited values below the origin
	err    error
}

// New constructs a Cursor positioned at origin.
func New(origin ast.Value) *Cursor {
	return &Cursor{origin: origin, trail: stack.New[ast.Value]()}
}

// Origin returns the value c started from.
func (c *Cursor) Origin() ast.Value { return c.origin }

// AtOrigin reports whether c is positioned at its origin.
func (c *Cursor) AtOrigin() bool { return c.trail.Len() == 0 }

// Value returns the value at the current position of c.
func (c *Cursor) Value() ast.Value {
	if v, ok := c.trail.Peek(0); ok {
		return v
	}
	return c.origin
}

// Path returns the values from the origin to the current position, inclusive.
func (c *Cursor) Path() []ast.Value {
	n := c.trail.Len()
	out := make([]ast.Value, 0, n+1)
	out = append(out, c.origin)
	for i := n - 1; i >= 0; i-- {
		v, _ := c.trail.Peek(i)
		out = append(out, v)
	}
	return out
}

// Err returns the error recorded by the last call to Down, or nil.
func (c *Cursor) Err() error { return c.err }

// Up moves c back one step toward its origin. At the origin it does nothing.
// It returns c.
func (c *Cursor) Up() *Cursor {
	c.trail.Pop()
	return c
}

// Reset moves c back to its origin and clears its error. It returns c.
func (c *Cursor) Reset() *Cursor {
	c.trail = stack.New[ast.Value]()
	c.err = nil
	return c
}

// Down moves c along path from its current position and returns c. If a step
// fails, c stops at the last value it reached and records the error, which
// Err reports.
//
// Each path element is one of:
//
//   - string: selects the member of an object with that key, the last one if
//     the key repeats. A missing key is an error wrapping ErrNotFound.
//   - int: selects an element of an array, or a member of an object by its
//     position. Negative values count from the end. An index out of range is
//     an error wrapping ErrNotFound.
//   - func(ast.Value) (ast.Value, error): called with the current value; its
//     result becomes the next position.
//   - nil: no step. Ending a path with nil after a key moves to the member's
//     value instead of the member.
//
// A step that follows a member applies to the member's value.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil
	for _, elt := range path {
		cur := c.Value()
		if m, ok := cur.(*ast.Member); ok {
			cur = m.Value
			c.trail.Push(cur)
		}
		if elt == nil {
			continue
		}
		next, err := step(cur, elt)
		if err != nil {
			c.err = err
			return c
		}
		c.trail.Push(next)
	}
	return c
}

// step resolves a single non-nil path element relative to v.
func step(v ast.Value, elt any) (ast.Value, error) {
	switch t := elt.(type) {
	case string:
		obj, ok := v.(*ast.Object)
		if !ok {
			return nil, fmt.Errorf("key %q: %T is not an object", t, v)
		}
		if m := obj.Find(t); m != nil {
			return m, nil
		}
		return nil, fmt.Errorf("key %q: %w", t, ErrNotFound)

	case int:
		switch e := v.(type) {
		case *ast.Array:
			if i, ok := offset(t, e.Len()); ok {
				return e.Values[i], nil
			}
			return nil, fmt.Errorf("index %d of array length %d: %w", t, e.Len(), ErrNotFound)
		case *ast.Object:
			if i, ok := offset(t, e.Len()); ok {
				return e.Members[i], nil
			}
			return nil, fmt.Errorf("index %d of object length %d: %w", t, e.Len(), ErrNotFound)
		}
		return nil, fmt.Errorf("index %d: %T is not an array or object", t, v)

	case func(ast.Value) (ast.Value, error):
		return t(v)
	}
	return nil, fmt.Errorf("invalid path element %T", elt)
}

// offset converts i into an offset in a sequence of length n, counting
// negative values from the end.
func offset(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, 0 <= i && i < n
}
