// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines the value tree produced by parsing lenient JSON-like
// text, and the recursive-descent parser that constructs it from tokens.
package ast

import (
	"fmt"
	"sort"
)

// A Value is a parsed value. Its concrete type is one of Null, Bool, Number,
// String, Array, or Object.
type Value interface {
	// Kind reports the name of the value's type: "null", "bool", "number",
	// "string", "array", or "object".
	Kind() string

	isValue()
}

// Null represents the null constant.
type Null struct{}

// A Bool is a Boolean constant, true or false.
type Bool bool

// A Number is a floating-point value.
type Number float64

// A String is a string value, quoted or bare.
type String string

// An Array is a sequence of values.
type Array []Value

// An Object is a collection of key-value members in order of first insertion.
// Keys are unique; see Set.
type Object []*Member

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

// Field constructs an object member with the given key and value.
func Field(key string, val Value) *Member { return &Member{Key: key, Value: val} }

func (Null) Kind() string   { return "null" }
func (Bool) Kind() string   { return "bool" }
func (Number) Kind() string { return "number" }
func (String) Kind() string { return "string" }
func (Array) Kind() string  { return "array" }
func (Object) Kind() string { return "object" }

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Number) isValue() {}
func (String) isValue() {}
func (Array) isValue()  {}
func (Object) isValue() {}

// Find returns the member of o with the given key, or nil.
func (o Object) Find(key string) *Member {
	for _, m := range o {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// Set sets the value of key in *o. If o already has a member with that key,
// its value is replaced and the member keeps its position; otherwise a new
// member is appended.
func (o *Object) Set(key string, val Value) {
	if m := o.Find(key); m != nil {
		m.Value = val
		return
	}
	*o = append(*o, Field(key, val))
}

// Keys returns the keys of o in order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// ToAny converts v into the plain Go representation used by encoding/json
// when decoding into an empty interface: nil, bool, float64, string, []any,
// and map[string]any.
func ToAny(v Value) any {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(t)
	case Number:
		return float64(t)
	case String:
		return string(t)
	case Array:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = ToAny(e)
		}
		return out
	case Object:
		out := make(map[string]any, len(t))
		for _, m := range t {
			out[m.Key] = ToAny(m.Value)
		}
		return out
	default:
		panic(fmt.Sprintf("unknown value type %T", v))
	}
}

// FromAny converts a plain Go value of the kind produced by ToAny into a
// Value. Integer types are also accepted. Object members are ordered by key.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(t), nil
	case float64:
		return Number(t), nil
	case int:
		return Number(t), nil
	case int64:
		return Number(t), nil
	case string:
		return String(t), nil
	case []any:
		out := make(Array, len(t))
		for i, e := range t {
			v, err := FromAny(e)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(Object, 0, len(t))
		for _, k := range keys {
			v, err := FromAny(t[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out = append(out, Field(k, v))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", x)
	}
}

// Equal reports whether a and b are deeply equal. Objects are equal if they
// have the same keys with equal values, regardless of member order.
func Equal(a, b Value) bool {
	switch at := a.(type) {
	case Array:
		bt, ok := b.(Array)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if !Equal(at[i], bt[i]) {
				return false
			}
		}
		return true
	case Object:
		bt, ok := b.(Object)
		if !ok || len(at) != len(bt) {
			return false
		}
		for _, m := range at {
			n := bt.Find(m.Key)
			if n == nil || !Equal(m.Value, n.Value) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
