// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jlax

// DefaultMaxDepth is the nesting limit used when Options.MaxDepth is zero.
const DefaultMaxDepth = 1000

// Options control the dialect accepted by the lexer and parser.
// The zero value accepts the lenient dialect with default limits.
type Options struct {
	// Strict restricts the input to standard JSON: the whitespace characters
	// space, tab, CR, and LF; double-quoted strings with JSON escapes only; no
	// bare words; numbers in JSON syntax including exponents; and exactly one
	// comma between the elements of an object or array.
	Strict bool

	// MaxDepth is the maximum nesting depth of objects and arrays, where the
	// root value has depth 1. If zero, DefaultMaxDepth is used.
	MaxDepth int

	// DisallowTrailing, if true, causes input remaining after the root value
	// to be reported as ErrExtraInput. The root value is still returned.
	DisallowTrailing bool
}

// DepthLimit reports the effective maximum nesting depth of o.
func (o Options) DepthLimit() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}
