// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jlax implements a lexer for a lenient dialect of JSON.
//
// # Dialect
//
// The lenient dialect is a relaxed superset of JSON:
//
//   - Strings may be quoted with either "double" or 'single' quotes.
//   - Unquoted words of letters, digits, and "/" are strings, unless they
//     are one of the keywords true, false, or null.
//   - Escapes \b \f \n \r \t \v \' \" \\ \/ and \uXXXX are decoded; any other
//     escaped character stands for itself.
//   - A number is any maximal run of "-", ".", and digits that converts to a
//     floating-point value.
//   - Only the space character is whitespace.
//   - Commas between object members and array elements are optional.
//
// Setting Options.Strict restricts the input to standard JSON.
//
// # Lexing
//
// Lex converts an entire input into a slice of tokens in one pass:
//
//	toks, err := jlax.Lex(`{'name': 'O\'Brien'}`)
//	if err != nil {
//	   log.Fatalf("Lex failed: %v", err)
//	}
//	for _, tok := range toks {
//	   log.Printf("Token: %v", tok)
//	}
//
// The ast package parses tokens into a tree of values.
//
// # Errors
//
// Errors reported by the lexer and by the ast parser have concrete type
// *SyntaxError, and wrap one of the Err* values declared by this package so
// that each failure mode can be matched with errors.Is:
//
//	if errors.Is(err, jlax.ErrUnterminatedString) {
//	   // ...
//	}
package jlax
