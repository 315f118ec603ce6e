// Package testutil defines support code for unit tests.
package testutil

import (
	"math/rand/v2"
	"strings"
)

// A Generator produces pseudo-random trees of plain Go values of the kinds
// produced by encoding/json when decoding into an empty interface: nil, bool,
// float64, string, []any, and map[string]any. The output is deterministic for
// a given seed.
type Generator struct {
	MaxDepth int // maximum nesting depth of generated trees
	MaxWidth int // maximum number of elements in an array or object

	rng *rand.Rand
}

// NewGenerator constructs a Generator with default limits using the given seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		MaxDepth: 6,
		MaxWidth: 5,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Root returns a random object or array.
func (g *Generator) Root() any {
	if g.rng.IntN(2) == 0 {
		return g.object(1)
	}
	return g.array(1)
}

// Nested returns a value in which objects and arrays alternate to exactly the
// given depth, each level holding a scalar alongside the next level.
func (g *Generator) Nested(depth int) any {
	var v any = g.scalar()
	for i := depth; i > 0; i-- {
		if i%2 == 0 {
			v = []any{g.scalar(), v, g.scalar()}
		} else {
			v = map[string]any{g.String(): g.scalar(), "next": v}
		}
	}
	return v
}

func (g *Generator) value(depth int) any {
	if depth >= g.MaxDepth {
		return g.scalar()
	}
	switch g.rng.IntN(6) {
	case 0:
		return g.object(depth + 1)
	case 1:
		return g.array(depth + 1)
	default:
		return g.scalar()
	}
}

func (g *Generator) object(depth int) map[string]any {
	n := g.rng.IntN(g.MaxWidth + 1)
	out := make(map[string]any, n)
	for range n {
		out[g.String()] = g.value(depth)
	}
	return out
}

func (g *Generator) array(depth int) []any {
	n := g.rng.IntN(g.MaxWidth + 1)
	out := make([]any, n)
	for i := range out {
		out[i] = g.value(depth)
	}
	return out
}

func (g *Generator) scalar() any {
	switch g.rng.IntN(5) {
	case 0:
		return nil
	case 1:
		return g.rng.IntN(2) == 0
	case 2:
		return g.Number()
	default:
		return g.String()
	}
}

// Number returns a random number. About one in four is very small or very
// large, so that its standard encoding has an exponent.
func (g *Generator) Number() float64 {
	v := float64(g.rng.IntN(2_000_000)-1_000_000) / 8
	switch g.rng.IntN(8) {
	case 0:
		return v * 1e-12
	case 1:
		return v * 1e24
	}
	return v
}

// stringRunes are the characters used in generated strings. They include
// quotation marks, backslashes, spaces, control characters, characters that
// encoding/json escapes as \uXXXX, and non-ASCII text.
var stringRunes = []rune("abcXYZ019 /'\"\\\t\n<>&éü日本\u2028")

// String returns a random string of up to 12 characters.
func (g *Generator) String() string {
	var sb strings.Builder
	n := g.rng.IntN(13)
	for range n {
		sb.WriteRune(stringRunes[g.rng.IntN(len(stringRunes))])
	}
	return sb.String()
}
