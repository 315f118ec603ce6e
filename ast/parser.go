// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"

	"github.com/creachadair/jlax"
)

// Parse parses text in the lenient dialect and returns its value.
// It is shorthand for ParseWith(text, jlax.Options{}).
func Parse(text string) (Value, error) { return ParseWith(text, jlax.Options{}) }

// ParseWith lexes and parses text according to opts. In case of error, the
// error has concrete type *jlax.SyntaxError with its Location populated.
//
// If opts.DisallowTrailing is set and input remains after the root value, the
// root value is returned along with an error wrapping jlax.ErrExtraInput.
func ParseWith(text string, opts jlax.Options) (Value, error) {
	toks, err := opts.Lex(text)
	if err != nil {
		return nil, err
	}
	v, err := ParseTokens(toks, opts)
	if err != nil {
		// N.B. v may be valid alongside ErrExtraInput.
		return v, jlax.Locate(err, text)
	}
	return v, nil
}

// MustParse parses text in the lenient dialect and panics if it fails.
// It is intended for use in tests and for initializing constant values.
func MustParse(text string) Value {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseTokens parses a single value from toks, which must begin with the
// opening brace of an object or the opening bracket of an array.
func ParseTokens(toks []jlax.Token, opts jlax.Options) (Value, error) {
	p := &parser{toks: toks, strict: opts.Strict, maxDepth: opts.DepthLimit()}
	if len(toks) == 0 {
		return nil, p.fail(0, jlax.ErrEmptyInput, "no tokens in input")
	}

	cur := 0
	v, err := p.parseRoot(&cur)
	if err != nil {
		return nil, err
	}
	if cur < len(toks) && opts.DisallowTrailing {
		return v, p.fail(cur, jlax.ErrExtraInput, "unexpected %v after %s", toks[cur], v.Kind())
	}
	return v, nil
}

// A parser holds the immutable state of a single call to ParseTokens.
// The position in the token sequence is not part of this state: it is a
// cursor passed by pointer to each parse method. Every method that consumes
// a value leaves the cursor one past the last token of that value.
type parser struct {
	toks     []jlax.Token
	strict   bool
	maxDepth int
}

// parseRoot parses the object or array at *cur.
func (p *parser) parseRoot(cur *int) (Value, error) {
	switch tok := p.toks[*cur]; tok.Kind {
	case jlax.BraceOpen, jlax.BracketOpen:
		return p.parseValue(cur, 0)
	default:
		return nil, p.fail(*cur, jlax.ErrInvalidRoot, "expected %v or %v, got %v",
			jlax.BraceOpen, jlax.BracketOpen, tok)
	}
}

// parseValue consumes a single value of any type beginning at *cur, which is
// nested inside depth enclosing objects and arrays.
func (p *parser) parseValue(cur *int, depth int) (Value, error) {
	if *cur >= len(p.toks) {
		return nil, p.fail(*cur, jlax.ErrUnexpectedToken, "expected value, got end of input")
	}
	switch tok := p.toks[*cur]; tok.Kind {
	case jlax.BraceOpen:
		*cur++
		obj, err := p.parseObject(cur, depth+1)
		if err != nil {
			return nil, err
		}
		return obj, nil
	case jlax.BracketOpen:
		*cur++
		arr, err := p.parseArray(cur, depth+1)
		if err != nil {
			return nil, err
		}
		return arr, nil
	case jlax.String:
		*cur++
		return String(tok.Text), nil
	case jlax.Number:
		*cur++
		return Number(tok.Num), nil
	case jlax.Bool:
		*cur++
		return Bool(tok.Bool), nil
	case jlax.Null:
		*cur++
		return Null{}, nil
	default:
		return nil, p.fail(*cur, jlax.ErrUnexpectedToken, "expected value, got %v", tok)
	}
}

// parseObject consumes zero or more key: value members and the closing brace
// of an object at the given depth.
// Precondition: *cur is one past the opening brace.
// Postcondition: *cur is one past the closing brace.
func (p *parser) parseObject(cur *int, depth int) (Object, error) {
	open := *cur - 1
	if depth > p.maxDepth {
		return nil, p.fail(open, jlax.ErrNestingTooDeep, "object exceeds maximum depth %d", p.maxDepth)
	}
	obj := Object{}
	var wantSep, afterSep bool // for strict separator checks
	for {
		if *cur >= len(p.toks) {
			return nil, p.fail(*cur, jlax.ErrUnexpectedToken, "unterminated object starting at offset %d",
				p.toks[open].Span.Pos)
		}
		tok := p.toks[*cur]
		if tok.Kind == jlax.BraceClose {
			if p.strict && afterSep {
				return nil, p.fail(*cur, jlax.ErrUnexpectedToken, "expected string key, got %v", tok)
			}
			*cur++
			return obj, nil
		} else if p.strict && wantSep {
			return nil, p.fail(*cur, jlax.ErrUnexpectedToken, "expected %v or %v, got %v",
				jlax.Comma, jlax.BraceClose, tok)
		}

		// Parse a single member: "key": value
		if tok.Kind != jlax.String {
			return nil, p.fail(*cur, jlax.ErrUnexpectedToken, "expected string key, got %v", tok)
		}
		*cur++
		if err := p.require(cur, jlax.Colon); err != nil {
			return nil, err
		}
		val, err := p.parseValue(cur, depth)
		if err != nil {
			return nil, err
		}
		obj.Set(tok.Text, val)

		// A comma between members is optional unless strict.
		if *cur < len(p.toks) && p.toks[*cur].Kind == jlax.Comma {
			*cur++
			wantSep, afterSep = false, true
		} else {
			wantSep, afterSep = true, false
		}
	}
}

// parseArray consumes zero or more values and the closing bracket of an array
// at the given depth.
// Precondition: *cur is one past the opening bracket.
// Postcondition: *cur is one past the closing bracket.
func (p *parser) parseArray(cur *int, depth int) (Array, error) {
	open := *cur - 1
	if depth > p.maxDepth {
		return nil, p.fail(open, jlax.ErrNestingTooDeep, "array exceeds maximum depth %d", p.maxDepth)
	}
	arr := Array{}
	var wantSep, afterSep bool // for strict separator checks
	for {
		if *cur >= len(p.toks) {
			return nil, p.fail(*cur, jlax.ErrUnexpectedToken, "unterminated array starting at offset %d",
				p.toks[open].Span.Pos)
		}
		switch tok := p.toks[*cur]; tok.Kind {
		case jlax.BracketClose:
			if p.strict && afterSep {
				return nil, p.fail(*cur, jlax.ErrUnexpectedToken, "expected value, got %v", tok)
			}
			*cur++
			return arr, nil

		case jlax.Comma:
			if p.strict && !wantSep {
				return nil, p.fail(*cur, jlax.ErrUnexpectedToken, "expected value, got %v", tok)
			}
			*cur++
			wantSep, afterSep = false, true
			continue

		default:
			if p.strict && wantSep {
				return nil, p.fail(*cur, jlax.ErrUnexpectedToken, "expected %v or %v, got %v",
					jlax.Comma, jlax.BracketClose, tok)
			}
		}

		val, err := p.parseValue(cur, depth)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
		wantSep, afterSep = true, false
	}
}

// require consumes a token of kind k at *cur, or reports an error.
func (p *parser) require(cur *int, k jlax.Kind) error {
	if *cur >= len(p.toks) {
		return p.fail(*cur, jlax.ErrUnexpectedToken, "expected %v, got end of input", k)
	} else if tok := p.toks[*cur]; tok.Kind != k {
		return p.fail(*cur, jlax.ErrUnexpectedToken, "expected %v, got %v", k, tok)
	}
	*cur++
	return nil
}

// fail reports an error of the given kind at token index pos. If pos is at
// the end of the input, the offset reported is the end of the last token.
func (p *parser) fail(pos int, kind error, msg string, args ...any) error {
	var offset int
	if pos < len(p.toks) {
		offset = p.toks[pos].Span.Pos
	} else if n := len(p.toks); n > 0 {
		offset = p.toks[n-1].Span.End
	}
	return &jlax.SyntaxError{
		Err:     kind,
		Offset:  offset,
		Token:   pos,
		Message: fmt.Sprintf(msg, args...),
	}
}
