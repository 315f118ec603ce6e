// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/alecthomas/kingpin/v2"
	"github.com/creachadair/jlax"
	"github.com/creachadair/jlax/ast"
	"github.com/creachadair/jlax/ast/cursor"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/go-kit/log/level"
)

var (
	punctColor  = color.New(color.Bold)
	stringColor = color.New(color.FgGreen)
	numberColor = color.New(color.FgCyan)
	constColor  = color.New(color.FgYellow)
)

// addTokensCommand adds the tokens command, which prints the tokens of each
// input with their locations.
func addTokensCommand(app *kingpin.Application, e *env) {
	var files []string
	cmd := app.Command("tokens", "Print the tokens of each input")
	cmd.Arg("file", "Input files (- for stdin)").Required().StringsVar(&files)
	cmd.Action(func(*kingpin.ParseContext) error {
		return e.eachFile(files, func(name, text string) error {
			toks, err := e.options().Lex(text)
			if err != nil {
				return err
			}
			for _, tok := range toks {
				fmt.Fprintf(e.stdout, "%s\t%s\n", tok.Span.Location(text), tokenColor(tok.Kind).Sprint(tok))
			}
			return nil
		})
	})
}

func tokenColor(k jlax.Kind) *color.Color {
	switch k {
	case jlax.String:
		return stringColor
	case jlax.Number:
		return numberColor
	case jlax.Bool, jlax.Null:
		return constColor
	default:
		return punctColor
	}
}

// parseInput parses text with the options selected by e. Extra input after
// the root value is logged as a warning and the value is kept.
func (e *env) parseInput(name, text string) (ast.Value, error) {
	v, err := ast.ParseWith(text, e.options())
	if errors.Is(err, jlax.ErrExtraInput) {
		level.Warn(e.logger).Log("msg", "extra input", "file", name, "err", err)
		return v, nil
	}
	return v, err
}

func (e *env) printJSON(v ast.Value) error {
	out, err := json.MarshalIndent(ast.ToAny(v), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.stdout, string(out))
	return err
}

// addParseCommand adds the parse command, which prints each input as
// standard JSON.
func addParseCommand(app *kingpin.Application, e *env) {
	var files []string
	cmd := app.Command("parse", "Parse each input and print it as JSON")
	cmd.Arg("file", "Input files (- for stdin)").Required().StringsVar(&files)
	cmd.Action(func(*kingpin.ParseContext) error {
		return e.eachFile(files, func(name, text string) error {
			v, err := e.parseInput(name, text)
			if err != nil {
				return err
			}
			return e.printJSON(v)
		})
	})
}

// addGetCommand adds the get command, which prints the value at a path
// inside an input. Path elements that are integers select array elements;
// all others select object members.
func addGetCommand(app *kingpin.Application, e *env) {
	var file string
	var path []string
	cmd := app.Command("get", "Print the value at a path in the input")
	cmd.Arg("file", "Input file (- for stdin)").Required().StringVar(&file)
	cmd.Arg("path", "Object keys and array indices").StringsVar(&path)
	cmd.Action(func(*kingpin.ParseContext) error {
		return e.eachFile([]string{file}, func(name, text string) error {
			v, err := e.parseInput(name, text)
			if err != nil {
				return err
			}
			c := cursor.New(v).Down(pathElements(path)...)
			if err := c.Err(); err != nil {
				return fmt.Errorf("path %q: %w", path, err)
			}
			level.Debug(e.logger).Log("msg", "path resolved", "file", name, "depth", c.Depth())
			return e.printJSON(c.Value())
		})
	})
}

func pathElements(path []string) []any {
	out := make([]any, len(path))
	for i, p := range path {
		if n, err := strconv.Atoi(p); err == nil {
			out[i] = n
		} else {
			out[i] = p
		}
	}
	return out
}

// addStatsCommand adds the stats command, which summarizes each input.
func addStatsCommand(app *kingpin.Application, e *env) {
	var files []string
	cmd := app.Command("stats", "Print statistics about each input")
	cmd.Arg("file", "Input files (- for stdin)").Required().StringsVar(&files)
	cmd.Action(func(*kingpin.ParseContext) error {
		return e.eachFile(files, func(name, text string) error {
			toks, err := e.options().Lex(text)
			if err != nil {
				return err
			}
			v, err := e.parseInput(name, text)
			if err != nil {
				return err
			}
			st := newStats(v)

			bold := color.New(color.Bold)
			bold.Fprintf(e.stdout, "%s:\n", name)
			fmt.Fprintf(e.stdout, "\tsize: %v, tokens: %s, max depth: %d\n",
				humanize.Bytes(uint64(len(text))), humanize.Comma(int64(len(toks))), st.maxDepth)
			for _, kind := range st.kinds() {
				fmt.Fprintf(e.stdout, "\t%s: %s\n", kind, humanize.Comma(int64(st.counts[kind])))
			}
			return nil
		})
	})
}

// valueStats records the number of values of each kind in a tree and its
// maximum nesting depth.
type valueStats struct {
	counts   map[string]int
	maxDepth int
}

func newStats(v ast.Value) *valueStats {
	st := &valueStats{counts: make(map[string]int)}
	st.walk(v, 0)
	return st
}

func (s *valueStats) walk(v ast.Value, depth int) {
	s.counts[v.Kind()]++
	switch t := v.(type) {
	case ast.Array:
		depth++
		for _, elt := range t {
			s.walk(elt, depth)
		}
	case ast.Object:
		depth++
		for _, m := range t {
			s.walk(m.Value, depth)
		}
	}
	s.maxDepth = max(s.maxDepth, depth)
}

func (s *valueStats) kinds() []string {
	out := make([]string, 0, len(s.counts))
	for k := range s.counts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
