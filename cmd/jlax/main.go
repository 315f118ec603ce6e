// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Program jlax inspects text in the lenient JSON-like dialect accepted by
// the jlax package.
//
// Usage:
//
//	jlax [flags] tokens FILE...
//	jlax [flags] parse FILE...
//	jlax [flags] get FILE PATH...
//	jlax [flags] stats FILE...
//
// A FILE of "-" reads standard input.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/creachadair/jlax"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/tailscale/hujson"
)

// errFailed is returned by a command when one or more inputs failed. The
// details have already been logged.
var errFailed = errors.New("one or more inputs failed")

// env carries the global settings and I/O streams shared by all commands.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	logger log.Logger

	strict     bool
	maxDepth   int
	noTrailing bool
	hujson     bool
	logLevel   string
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "jlax: %v\n", err)
		}
		os.Exit(1)
	}
}

// run parses args and executes the selected command.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	e := &env{stdin: stdin, stdout: stdout, logger: log.NewNopLogger()}

	app := kingpin.New("jlax", "Inspect lenient JSON-like text.")
	app.UsageWriter(stdout).ErrorWriter(stderr)
	app.Terminate(nil)
	app.HelpFlag.Short('h')

	app.Flag("strict", "Accept only standard JSON").BoolVar(&e.strict)
	app.Flag("max-depth", "Maximum nesting depth of objects and arrays").
		Default(fmt.Sprint(jlax.DefaultMaxDepth)).IntVar(&e.maxDepth)
	app.Flag("no-trailing", "Warn about input after the root value").BoolVar(&e.noTrailing)
	app.Flag("hujson", "Standardize HuJSON input (comments, trailing commas) before parsing; implies --strict").
		BoolVar(&e.hujson)
	app.Flag("log.level", "Only log messages with the given severity or above").
		Default("info").EnumVar(&e.logLevel, "debug", "info", "warn", "error")

	app.PreAction(func(*kingpin.ParseContext) error {
		logger := log.NewLogfmtLogger(log.NewSyncWriter(stderr))
		e.logger = level.NewFilter(logger, level.Allow(level.ParseDefault(e.logLevel, level.InfoValue())))
		return nil
	})

	addTokensCommand(app, e)
	addParseCommand(app, e)
	addGetCommand(app, e)
	addStatsCommand(app, e)

	_, err := app.Parse(args)
	return err
}

// options reports the parsing options selected by the global flags.
func (e *env) options() jlax.Options {
	return jlax.Options{
		Strict:           e.strict || e.hujson,
		MaxDepth:         e.maxDepth,
		DisallowTrailing: e.noTrailing,
	}
}

// load reads the named input, or standard input if name is "-".
func (e *env) load(name string) (string, error) {
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(e.stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", err
	}
	if e.hujson {
		data, err = hujson.Standardize(data)
		if err != nil {
			return "", fmt.Errorf("standardize: %w", err)
		}
	}
	level.Debug(e.logger).Log("msg", "loaded input", "file", name, "bytes", len(data))
	return string(data), nil
}

// eachFile calls f for each named input, logging failures. It reports
// errFailed if any call failed.
func (e *env) eachFile(names []string, f func(name, text string) error) error {
	var failed int
	for _, name := range names {
		text, err := e.load(name)
		if err == nil {
			err = f(name, text)
		}
		if err != nil {
			level.Error(e.logger).Log("msg", "failed", "file", name, "err", err)
			failed++
		}
	}
	if failed > 0 {
		return errFailed
	}
	return nil
}
