// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jlax

import (
	"errors"
	"fmt"
)

// Errors reported by the lexer and parser. Every error returned by Parse,
// Lex, and ParseTokens is a *SyntaxError wrapping exactly one of these,
// so callers can match the failure mode with errors.Is.
var (
	// Lexical errors.
	ErrUnterminatedString    = errors.New("unterminated string")
	ErrInvalidNumber         = errors.New("invalid number")
	ErrUnrecognizedCharacter = errors.New("unrecognized character")
	ErrInvalidEscape         = errors.New("invalid escape sequence")

	// Structural errors.
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrEmptyInput      = errors.New("empty input")
	ErrInvalidRoot     = errors.New("invalid root value")
	ErrNestingTooDeep  = errors.New("nesting too deep")

	// ErrExtraInput is reported alongside a complete value when input remains
	// after the root and the caller has asked for that to be checked.
	ErrExtraInput = errors.New("extra input after value")
)

// SyntaxError is the concrete type of errors reported by the lexer and parser.
type SyntaxError struct {
	Err      error   // the class of the error, one of the Err* values
	Offset   int     // byte offset of the offending input
	Token    int     // index of the offending token, or -1 for lexical errors
	Location LineCol // line and column of Offset, if known
	Message  string

	cause error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	if s.Location.Line == 0 {
		return fmt.Sprintf("at offset %d: %s", s.Offset, s.Message)
	}
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() []error {
	if s.cause != nil {
		return []error{s.Err, s.cause}
	}
	return []error{s.Err}
}

// Locate fills in the line and column of err from text, if err is a
// *SyntaxError that does not already have them. It returns err.
func Locate(err error, text string) error {
	var se *SyntaxError
	if errors.As(err, &se) && se.Location.Line == 0 {
		se.Location = lineColAt(text, se.Offset)
	}
	return err
}
