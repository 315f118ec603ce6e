// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jlax

import (
	"errors"

	"github.com/creachadair/jlax/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a double-quoted string literal. The contents are
// escaped and double quotation marks are added.
func Quote(src string) string { return `"` + string(escape.Quote(mem.S(src), '"')) + `"` }

// Unquote decodes a string literal enclosed in matching single or double
// quotation marks. The quotation marks are removed, and escape sequences are
// replaced with their unescaped equivalents as in the lenient dialect:
// unrecognized escapes yield the escaped character itself.
func Unquote(src string) (string, error) {
	if len(src) < 2 || (src[0] != '"' && src[0] != '\'') || src[len(src)-1] != src[0] {
		return "", errors.New("missing quotations")
	}
	dec, err := escape.Unquote(mem.S(src[1:len(src)-1]), false)
	if err != nil {
		return "", err
	}
	return string(dec), nil
}
