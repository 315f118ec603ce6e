// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements traversal over a parsed value tree.
package cursor

import (
	"fmt"

	"github.com/creachadair/jlax/ast"
)

// Path follows path from v and returns the value it reaches, which must have
// type T. Path elements are interpreted as described for Cursor.Down.
func Path[T ast.Value](v ast.Value, path ...any) (T, error) {
	var zero T
	c := New(v).Down(path...)
	if c.err != nil {
		return zero, c.err
	}
	got, ok := c.Value().(T)
	if !ok {
		return zero, fmt.Errorf("value has kind %s, want %T", kindOf(c.Value()), zero)
	}
	return got, nil
}

// A Cursor records a position inside a value tree as the chain of values
// from the root to that position.
type Cursor struct {
	trail []ast.Value // trail[0] is the root
	err   error
}

// New returns a Cursor positioned at root.
func New(root ast.Value) *Cursor { return &Cursor{trail: []ast.Value{root}} }

// Value returns the value at the current position.
func (c *Cursor) Value() ast.Value { return c.trail[len(c.trail)-1] }

// Depth reports how many steps the cursor is below the root.
func (c *Cursor) Depth() int { return len(c.trail) - 1 }

// Err reports the error from the most recent call to Down, or nil.
func (c *Cursor) Err() error { return c.err }

// Up moves c to the parent of its current position. At the root it does
// nothing. It returns c.
func (c *Cursor) Up() *Cursor {
	if len(c.trail) > 1 {
		c.trail = c.trail[:len(c.trail)-1]
	}
	return c
}

// Reset moves c back to the root and clears its error.
func (c *Cursor) Reset() { c.trail, c.err = c.trail[:1], nil }

// Down moves c along path from its current position and returns c. Each
// element of path is one of:
//
//   - a string, naming a member of an object;
//   - an int, indexing an array element or an object member by position,
//     where negative values count back from the end;
//   - a func(ast.Value) (ast.Value, error), whose result is the next value.
//
// Down stops at the first element that cannot be followed and records the
// error, reported by Err. The cursor stays at the last value reached.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil
	for _, elt := range path {
		next, err := step(c.Value(), elt)
		if err != nil {
			c.err = err
			break
		}
		c.trail = append(c.trail, next)
	}
	return c
}

// step follows a single path element from v.
func step(v ast.Value, elt any) (ast.Value, error) {
	switch t := elt.(type) {
	case string:
		obj, ok := v.(ast.Object)
		if !ok {
			return nil, fmt.Errorf("cannot look up key %q in %s", t, kindOf(v))
		}
		if m := obj.Find(t); m != nil {
			return m.Value, nil
		}
		return nil, fmt.Errorf("key %q not found", t)

	case int:
		switch e := v.(type) {
		case ast.Array:
			if i, ok := resolveIndex(t, len(e)); ok {
				return e[i], nil
			}
			return nil, fmt.Errorf("array index %d out of bounds (n=%d)", t, len(e))
		case ast.Object:
			if i, ok := resolveIndex(t, len(e)); ok {
				return e[i].Value, nil
			}
			return nil, fmt.Errorf("object index %d out of bounds (n=%d)", t, len(e))
		}
		return nil, fmt.Errorf("cannot index %s with %d", kindOf(v), t)

	case func(ast.Value) (ast.Value, error):
		return t(v)
	}
	return nil, fmt.Errorf("invalid path element %T", elt)
}

func kindOf(v ast.Value) string {
	if v == nil {
		return "nil"
	}
	return v.Kind()
}

// resolveIndex maps i, possibly negative, to an offset in a sequence of
// length n.
func resolveIndex(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, 0 <= i && i < n
}
