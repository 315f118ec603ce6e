// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/creachadair/jlax"
	"github.com/creachadair/jlax/ast"
	"github.com/creachadair/jlax/internal/testutil"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
)

// Shorthand constructors for expected values.
var (
	null = ast.Null{}
	yes  = ast.Bool(true)
	no   = ast.Bool(false)
)

func obj(ms ...*ast.Member) ast.Object {
	if ms == nil {
		return ast.Object{}
	}
	return ast.Object(ms)
}

func arr(vs ...ast.Value) ast.Value {
	if vs == nil {
		return ast.Array{}
	}
	return ast.Array(vs)
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  ast.Value
	}{
		// Standard JSON
		{`{}`, obj()},
		{`[]`, arr()},
		{`{"a": 1}`, obj(ast.Field("a", ast.Number(1)))},
		{`[1, 2.5, -3]`, arr(ast.Number(1), ast.Number(2.5), ast.Number(-3))},
		{`{"name": "Alice", "age": 30}`, obj(
			ast.Field("name", ast.String("Alice")),
			ast.Field("age", ast.Number(30)),
		)},
		{`[true, false, null]`, arr(yes, no, null)},
		{`{"a": {"b": [1, {"c": null}]}}`, obj(
			ast.Field("a", obj(
				ast.Field("b", arr(ast.Number(1), obj(ast.Field("c", null)))),
			)),
		)},
		{`[[], {}, [[]]]`, arr(arr(), obj(), arr(arr()))},
		{`{"a": 1, "b": [2, 3, {"c": "d"}]}`, obj(
			ast.Field("a", ast.Number(1)),
			ast.Field("b", arr(ast.Number(2), ast.Number(3), obj(ast.Field("c", ast.String("d"))))),
		)},
		{`[1, 2, [3, 4], 5]`, arr(ast.Number(1), ast.Number(2), arr(ast.Number(3), ast.Number(4)), ast.Number(5))},

		// Quoting
		{`{'name': 'O\'Brien'}`, obj(ast.Field("name", ast.String("O'Brien")))},
		{`{'key': 'it\'s'}`, obj(ast.Field("key", ast.String("it's")))},
		{`["a\tb", 'c\nd', "\"q\""]`, arr(ast.String("a\tb"), ast.String("c\nd"), ast.String(`"q"`))},
		{`['say "hi"']`, arr(ast.String(`say "hi"`))},

		// Bare words
		{`{a: b}`, obj(ast.Field("a", ast.String("b")))},
		{`[usr/bin/env x1 true]`, arr(ast.String("usr/bin/env"), ast.String("x1"), yes)},
		{`{nil: none}`, obj(ast.Field("nil", ast.String("none")))},

		// Optional, repeated, and trailing commas
		{`[1 2 3]`, arr(ast.Number(1), ast.Number(2), ast.Number(3))},
		{`[1,,2,]`, arr(ast.Number(1), ast.Number(2))},
		{`[,]`, arr()},
		{`{"a":1,}`, obj(ast.Field("a", ast.Number(1)))},
		{`{"a":1 "b":2}`, obj(ast.Field("a", ast.Number(1)), ast.Field("b", ast.Number(2)))},

		// Duplicate keys: the last value wins at the position of the first.
		{`{"a":1,"b":2,"a":3}`, obj(ast.Field("a", ast.Number(3)), ast.Field("b", ast.Number(2)))},

		// Numbers
		{`[.5 -.25 007 -0]`, arr(ast.Number(0.5), ast.Number(-0.25), ast.Number(7), ast.Number(0))},
		{`[1e-7 1e+21 -2.5E3]`, arr(ast.Number(1e-7), ast.Number(1e21), ast.Number(-2500))},
		{`{"a":1e-7}`, obj(ast.Field("a", ast.Number(1e-7)))},
		{`[1e x]`, arr(ast.Number(1), ast.String("e"), ast.String("x"))},

		// Whitespace is spaces only, anywhere between tokens.
		{`   {   "a"   :   [   ]   }   `, obj(ast.Field("a", arr()))},

		// Tokens after the root are ignored.
		{`[1] [2]`, arr(ast.Number(1))},
		{`{} garbage 'here'`, obj()},
	}
	for _, test := range tests {
		got, err := ast.Parse(test.input)
		if err != nil {
			t.Errorf("Parse %#q: unexpected error: %v", test.input, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Parse %#q: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestParse_errors(t *testing.T) {
	tests := []struct {
		input  string
		want   error
		token  int
		offset int
	}{
		{``, jlax.ErrEmptyInput, 0, 0},
		{`   `, jlax.ErrEmptyInput, 0, 0},

		{`not json`, jlax.ErrInvalidRoot, 0, 0},
		{`5`, jlax.ErrInvalidRoot, 0, 0},
		{`"str"`, jlax.ErrInvalidRoot, 0, 0},
		{`}`, jlax.ErrInvalidRoot, 0, 0},
		{`  null`, jlax.ErrInvalidRoot, 0, 2},

		{`{"a": 1, "b":}`, jlax.ErrUnexpectedToken, 7, 13}, // missing value
		{`{"a":}`, jlax.ErrUnexpectedToken, 3, 5},          // missing value
		{`{`, jlax.ErrUnexpectedToken, 1, 1},               // unterminated object
		{`{"a": 1`, jlax.ErrUnexpectedToken, 4, 7},         // unterminated object
		{`[1, 2`, jlax.ErrUnexpectedToken, 4, 5},           // unterminated array
		{`[[1]`, jlax.ErrUnexpectedToken, 4, 4},            // unterminated array
		{`{1: 2}`, jlax.ErrUnexpectedToken, 1, 1},          // non-string key
		{`{"a" 1}`, jlax.ErrUnexpectedToken, 2, 5},         // missing colon
		{`{"a"`, jlax.ErrUnexpectedToken, 2, 4},            // missing colon at end
		{`{"a":`, jlax.ErrUnexpectedToken, 3, 5},           // missing value at end
		{`{,"a":1}`, jlax.ErrUnexpectedToken, 1, 1},        // comma before key
		{`[1 : 2]`, jlax.ErrUnexpectedToken, 2, 3},         // stray colon
		{`[}`, jlax.ErrUnexpectedToken, 1, 1},              // mismatched close

		// Lexical errors are reported with no token index.
		{`{"a": 'x}`, jlax.ErrUnterminatedString, -1, 6},
		{`[1.2.3]`, jlax.ErrInvalidNumber, -1, 1},
		{`[1 @]`, jlax.ErrUnrecognizedCharacter, -1, 3},
	}
	for _, test := range tests {
		v, err := ast.Parse(test.input)
		if err == nil {
			t.Errorf("Parse %#q: got %v, want error", test.input, v)
			continue
		}
		if !errors.Is(err, test.want) {
			t.Errorf("Parse %#q: got error %v, want %v", test.input, err, test.want)
		}
		var se *jlax.SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("Parse %#q: error has type %T, want *jlax.SyntaxError", test.input, err)
			continue
		}
		if se.Token != test.token || se.Offset != test.offset {
			t.Errorf("Parse %#q: error at token %d offset %d, want %d, %d",
				test.input, se.Token, se.Offset, test.token, test.offset)
		}
		if se.Location.Line != 1 || se.Location.Column != test.offset {
			t.Errorf("Parse %#q: error location %v, want 1:%d", test.input, se.Location, test.offset)
		}
	}
}

func TestParse_errorMessage(t *testing.T) {
	_, err := ast.Parse(`{"a": 1, "b":}`)
	if got, want := fmt.Sprint(err), `at 1:13: expected value, got "}"`; got != want {
		t.Errorf("Parse error: got %q, want %q", got, want)
	}

	_, err = ast.Parse("[1,\n  {'a' 2}]")
	if got, want := fmt.Sprint(err), `at 2:7: expected ":", got number 2`; got != want {
		t.Errorf("Parse error: got %q, want %q", got, want)
	}
}

func nestedArrays(n int) string {
	return strings.Repeat("[", n) + strings.Repeat("]", n)
}

func TestParse_maxDepth(t *testing.T) {
	t.Run("Custom", func(t *testing.T) {
		opts := jlax.Options{MaxDepth: 3}
		for _, ok := range []string{`[[[1]]]`, `{"a": [{"b": 1}]}`, `[1, [2], [3, [4]]]`} {
			if _, err := ast.ParseWith(ok, opts); err != nil {
				t.Errorf("Parse %#q: unexpected error: %v", ok, err)
			}
		}
		for _, bad := range []string{`[[[[1]]]]`, `{"a": [{"b": {}}]}`, `[1, [2], [3, [[4]]]]`} {
			_, err := ast.ParseWith(bad, opts)
			if !errors.Is(err, jlax.ErrNestingTooDeep) {
				t.Errorf("Parse %#q: got %v, want %v", bad, err, jlax.ErrNestingTooDeep)
			}
		}
	})

	t.Run("Default", func(t *testing.T) {
		if _, err := ast.Parse(nestedArrays(jlax.DefaultMaxDepth)); err != nil {
			t.Errorf("Parse depth %d: unexpected error: %v", jlax.DefaultMaxDepth, err)
		}
		_, err := ast.Parse(nestedArrays(jlax.DefaultMaxDepth + 1))
		if !errors.Is(err, jlax.ErrNestingTooDeep) {
			t.Fatalf("Parse depth %d: got %v, want %v", jlax.DefaultMaxDepth+1, err, jlax.ErrNestingTooDeep)
		}
		var se *jlax.SyntaxError
		if errors.As(err, &se) && se.Offset != jlax.DefaultMaxDepth {
			t.Errorf("Error offset: got %d, want %d", se.Offset, jlax.DefaultMaxDepth)
		}
	})

	t.Run("Pathological", func(t *testing.T) {
		// Unbalanced input must fail on depth before running off the end.
		_, err := ast.Parse(strings.Repeat("[", 100_000))
		if !errors.Is(err, jlax.ErrNestingTooDeep) {
			t.Errorf("Parse: got %v, want %v", err, jlax.ErrNestingTooDeep)
		}
	})
}

func TestParse_disallowTrailing(t *testing.T) {
	opts := jlax.Options{DisallowTrailing: true}

	v, err := ast.ParseWith(`[1] x`, opts)
	if !errors.Is(err, jlax.ErrExtraInput) {
		t.Fatalf("Parse: got error %v, want %v", err, jlax.ErrExtraInput)
	}
	if diff := cmp.Diff(arr(ast.Number(1)), v); diff != "" {
		t.Errorf("Parse value (-want, +got):\n%s", diff)
	}
	if got, want := err.Error(), `at 1:4: unexpected string "x" after array`; got != want {
		t.Errorf("Parse error: got %q, want %q", got, want)
	}

	// Trailing whitespace is not extra input.
	if _, err := ast.ParseWith(`{"a": 1}   `, opts); err != nil {
		t.Errorf("Parse: unexpected error: %v", err)
	}
}

func TestParse_strict(t *testing.T) {
	opts := jlax.Options{Strict: true}

	t.Run("Valid", func(t *testing.T) {
		tests := []struct {
			input string
			want  ast.Value
		}{
			{"{\n\t\"a\": 1e3,\r\n\t\"b\": [true, null]\n}", obj(
				ast.Field("a", ast.Number(1000)),
				ast.Field("b", arr(yes, null)),
			)},
			{`[]`, arr()},
			{`[{}, [], ""]`, arr(obj(), arr(), ast.String(""))},
		}
		for _, test := range tests {
			got, err := ast.ParseWith(test.input, opts)
			if err != nil {
				t.Errorf("Parse %#q: unexpected error: %v", test.input, err)
				continue
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Parse %#q: (-want, +got)\n%s", test.input, diff)
			}
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		tests := []struct {
			input  string
			want   error
			offset int
		}{
			{`[1 2]`, jlax.ErrUnexpectedToken, 3},         // missing comma
			{`[1,]`, jlax.ErrUnexpectedToken, 3},          // trailing comma
			{`[,1]`, jlax.ErrUnexpectedToken, 1},          // leading comma
			{`[1,,2]`, jlax.ErrUnexpectedToken, 3},        // doubled comma
			{`{"a":1 "b":2}`, jlax.ErrUnexpectedToken, 7}, // missing comma
			{`{"a":1,}`, jlax.ErrUnexpectedToken, 7},      // trailing comma
			{`{'a':1}`, jlax.ErrUnrecognizedCharacter, 1}, // single quotes
			{`{"a":b}`, jlax.ErrUnrecognizedCharacter, 5}, // bare word
			{`["\q"]`, jlax.ErrInvalidEscape, 2},          // unknown escape
			{`[.5]`, jlax.ErrInvalidNumber, 1},            // JSON number syntax
		}
		for _, test := range tests {
			_, err := ast.ParseWith(test.input, opts)
			if !errors.Is(err, test.want) {
				t.Errorf("Parse %#q: got %v, want %v", test.input, err, test.want)
				continue
			}
			var se *jlax.SyntaxError
			if errors.As(err, &se) && se.Offset != test.offset {
				t.Errorf("Parse %#q: error offset %d, want %d", test.input, se.Offset, test.offset)
			}
		}
	})
}

func TestParseTokens(t *testing.T) {
	toks := []jlax.Token{
		{Kind: jlax.BracketOpen},
		{Kind: jlax.Number, Num: 1},
		{Kind: jlax.String, Text: "two"},
		{Kind: jlax.BraceOpen},
		{Kind: jlax.String, Text: "k"},
		{Kind: jlax.Colon},
		{Kind: jlax.Null},
		{Kind: jlax.BraceClose},
		{Kind: jlax.BracketClose},
	}
	got, err := ast.ParseTokens(toks, jlax.Options{})
	if err != nil {
		t.Fatalf("ParseTokens: unexpected error: %v", err)
	}
	want := arr(ast.Number(1), ast.String("two"), obj(ast.Field("k", null)))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseTokens (-want, +got):\n%s", diff)
	}

	if _, err := ast.ParseTokens(nil, jlax.Options{}); !errors.Is(err, jlax.ErrEmptyInput) {
		t.Errorf("ParseTokens(nil): got %v, want %v", err, jlax.ErrEmptyInput)
	}
}

func TestRoundTrip(t *testing.T) {
	for seed := range uint64(200) {
		g := testutil.NewGenerator(seed)
		want := g.Root()

		compact, err := json.Marshal(want)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		v, err := ast.Parse(string(compact))
		if err != nil {
			t.Fatalf("Seed %d: Parse %#q: %v", seed, compact, err)
		}
		if diff := cmp.Diff(want, ast.ToAny(v)); diff != "" {
			t.Errorf("Seed %d: lenient round trip (-want, +got):\n%s", seed, diff)
		}

		// Indented output uses tabs and newlines, which only strict mode allows.
		indented, err := json.MarshalIndent(want, "", "\t")
		if err != nil {
			t.Fatalf("MarshalIndent: %v", err)
		}
		sv, err := ast.ParseWith(string(indented), jlax.Options{Strict: true})
		if err != nil {
			t.Fatalf("Seed %d: strict Parse %#q: %v", seed, indented, err)
		}
		if !ast.Equal(v, sv) {
			t.Errorf("Seed %d: strict and lenient results differ", seed)
		}
	}
}

func TestRoundTrip_exponents(t *testing.T) {
	want := []any{1e-7, 1e21, -3.5e-300, 1.7976931348623157e308, map[string]any{"a": 1e-7}}
	bits, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	v, err := ast.Parse(string(bits))
	if err != nil {
		t.Fatalf("Parse %#q: %v", bits, err)
	}
	if diff := cmp.Diff(want, ast.ToAny(v)); diff != "" {
		t.Errorf("Parse %#q: (-want, +got)\n%s", bits, diff)
	}
}

// respace reconstructs text from its tokens, separated by the given run of
// spaces.
func respace(t *testing.T, text, sep string) string {
	t.Helper()
	toks, err := jlax.Lex(text)
	if err != nil {
		t.Fatalf("Lex %#q: %v", text, err)
	}
	parts := make([]string, len(toks))
	for i, tok := range toks {
		parts[i] = text[tok.Span.Pos:tok.Span.End]
	}
	return sep + strings.Join(parts, sep) + sep
}

func TestWhitespaceInsensitive(t *testing.T) {
	inputs := []string{
		`{a:b c:[1 2 'x y']}`,
		`{"a":{"b":[true,false,null,-1.5]},"c":"  spaced  "}`,
		`[[[[[1]]]],{},'',"\"",{k:v}]`,
	}
	g := testutil.NewGenerator(17)
	for range 20 {
		bits, err := json.Marshal(g.Root())
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		inputs = append(inputs, string(bits))
	}

	for _, input := range inputs {
		want, err := ast.Parse(input)
		if err != nil {
			t.Fatalf("Parse %#q: %v", input, err)
		}
		for _, sep := range []string{" ", "   "} {
			spaced := respace(t, input, sep)
			got, err := ast.Parse(spaced)
			if err != nil {
				t.Errorf("Parse %#q: %v", spaced, err)
				continue
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Parse %#q: (-want, +got)\n%s", spaced, diff)
			}
		}
	}
}

func TestParse_concurrent(t *testing.T) {
	g := testutil.NewGenerator(99)
	var inputs []string
	var wants []ast.Value
	for range 8 {
		bits, err := json.Marshal(g.Root())
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		inputs = append(inputs, string(bits))
		wants = append(wants, ast.MustParse(string(bits)))
	}

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j, input := range inputs {
				k := (i + j) % len(inputs)
				got, err := ast.Parse(inputs[k])
				if err != nil {
					t.Errorf("Parse %#q: %v", input, err)
					return
				}
				if !ast.Equal(wants[k], got) {
					t.Errorf("Parse %#q: result differs", inputs[k])
				}
			}
		}()
	}
	wg.Wait()
}

func TestMustParse(t *testing.T) {
	v := ast.MustParse(`{ok: true}`)
	if diff := cmp.Diff(obj(ast.Field("ok", yes)), v); diff != "" {
		t.Errorf("MustParse (-want, +got):\n%s", diff)
	}

	p := mtest.MustPanic(t, func() { ast.MustParse(`5`) })
	if err, ok := p.(error); !ok || !errors.Is(err, jlax.ErrInvalidRoot) {
		t.Errorf("MustParse panic: got %v, want %v", p, jlax.ErrInvalidRoot)
	}
}
