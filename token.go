// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jlax

import (
	"strconv"
	"strings"
)

// Kind is the type of a lexical token in the lenient grammar.
type Kind byte

// Constants defining the valid Kind values.
const (
	Invalid      Kind = iota // invalid token
	BraceOpen                // left brace "{"
	BraceClose               // right brace "}"
	BracketOpen              // left square bracket "["
	BracketClose             // right square bracket "]"
	Colon                    // colon ":"
	Comma                    // comma ","
	String                   // quoted string or bare word
	Number                   // number
	Bool                     // constant: true or false
	Null                     // constant: null
)

var kindStr = [...]string{
	Invalid:      "invalid token",
	BraceOpen:    `"{"`,
	BraceClose:   `"}"`,
	BracketOpen:  `"["`,
	BracketClose: `"]"`,
	Colon:        `":"`,
	Comma:        `","`,
	String:       "string",
	Number:       "number",
	Bool:         "bool",
	Null:         "null",
}

func (k Kind) String() string {
	v := int(k)
	if v >= len(kindStr) {
		return kindStr[Invalid]
	}
	return kindStr[v]
}

// IsScalar reports whether k is a token that stands for a complete value by
// itself: a string, number, Boolean, or null.
func (k Kind) IsScalar() bool { return k >= String && k <= Null }

// A Token is a single classified unit of lexical input.
type Token struct {
	Kind Kind
	Span Span // location of the token in the input

	// Text is the decoded text of a String token, or the raw source text of
	// any other token.
	Text string

	Num  float64 // value of a Number token
	Bool bool    // value of a Bool token
}

// String renders a human-readable label for t, used in diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case String:
		return "string " + Quote(t.Text)
	case Number:
		return "number " + strconv.FormatFloat(t.Num, 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(t.Bool)
	}
	return t.Kind.String()
}

var self = [...]Kind{BraceOpen, BraceClose, BracketOpen, BracketClose, Colon, Comma}

func selfDelim(ch byte) (Kind, bool) {
	i := strings.IndexByte("{}[]:,", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}
