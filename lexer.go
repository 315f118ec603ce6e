// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jlax

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/creachadair/jlax/internal/escape"

	"go4.org/mem"
)

// Lex converts text into a sequence of tokens in the lenient dialect.
// It is shorthand for Options{}.Lex(text).
func Lex(text string) ([]Token, error) { return Options{}.Lex(text) }

// Lex converts text into a sequence of tokens according to o. The entire
// input is tokenized in a single left-to-right pass. In case of error, the
// error has concrete type *SyntaxError and no tokens are returned.
func (o Options) Lex(text string) ([]Token, error) {
	lx := &lexer{src: mem.S(text), strict: o.Strict}
	if err := lx.run(); err != nil {
		return nil, Locate(err, text)
	}
	return lx.toks, nil
}

// A lexer holds the state of a single call to Lex.
type lexer struct {
	src    mem.RO
	strict bool
	pos    int // offset of the next unread byte
	toks   []Token
}

func (lx *lexer) run() error {
	for lx.pos < lx.src.Len() {
		ch := lx.src.At(lx.pos)

		// Discard whitespace.
		if lx.isSpace(ch) {
			lx.pos++
			continue
		}

		// Handle punctuation.
		if k, ok := selfDelim(ch); ok {
			lx.emit(Token{Kind: k, Text: string(ch)}, lx.pos+1)
			continue
		}

		var err error
		switch {
		case ch == '"' || (ch == '\'' && !lx.strict):
			err = lx.scanString(ch)
		case isNumStart(ch):
			err = lx.scanNumber()
		case isLetter(ch):
			err = lx.scanWord()
		default:
			r, _ := mem.DecodeRune(lx.src.SliceFrom(lx.pos))
			err = lx.failf(lx.pos, ErrUnrecognizedCharacter, "unexpected %q", r)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// emit records a token spanning from the current position to end, and
// advances the position to end.
func (lx *lexer) emit(tok Token, end int) {
	tok.Span = Span{Pos: lx.pos, End: end}
	lx.toks = append(lx.toks, tok)
	lx.pos = end
}

func (lx *lexer) text(pos, end int) string {
	return lx.src.SliceFrom(pos).SliceTo(end - pos).StringCopy()
}

// scanString scans a string enclosed by the quote character q.
// Precondition: the byte at the current position is q.
func (lx *lexer) scanString(q byte) error {
	start := lx.pos
	end := -1
	var esc bool
	for i := start + 1; i < lx.src.Len(); i++ {
		ch := lx.src.At(i)
		if esc {
			esc = false
		} else if ch == '\\' {
			esc = true
		} else if ch == q {
			end = i
			break
		} else if ch < ' ' && lx.strict {
			return lx.failf(i, ErrUnrecognizedCharacter, "unescaped control %q in string", ch)
		}
	}
	if end < 0 {
		return lx.failf(start, ErrUnterminatedString, "missing closing %c for string", q)
	}

	dec, err := escape.Unquote(lx.src.SliceFrom(start+1).SliceTo(end-start-1), lx.strict)
	if err != nil {
		var ee *escape.Error
		if errors.As(err, &ee) {
			return lx.failf(start+1+ee.Offset, ErrInvalidEscape, "%s", ee.Msg)
		}
		return lx.failf(start, ErrInvalidEscape, "%v", err)
	}
	lx.emit(Token{Kind: String, Text: string(dec)}, end+1)
	return nil
}

// scanNumber scans a maximal run of number characters. An exponent marker
// with an optional sign is part of the run when it falls between digits.
// Precondition: the byte at the current position satisfies isNumStart.
func (lx *lexer) scanNumber() error {
	end := lx.pos + 1
	for end < lx.src.Len() {
		if lx.isNumRune(lx.src.At(end)) {
			end++
		} else if n := lx.exponentLen(end); n > 0 {
			end += n
		} else {
			break
		}
	}
	text := lx.text(lx.pos, end)
	if lx.strict && !isJSONNumber(text) {
		return lx.failf(lx.pos, ErrInvalidNumber, "invalid number %q", text)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		se := lx.failf(lx.pos, ErrInvalidNumber, "invalid number %q", text)
		se.cause = err
		return se
	}
	lx.emit(Token{Kind: Number, Text: text, Num: v}, end)
	return nil
}

var keywords = map[string]Token{
	"true":  {Kind: Bool, Bool: true},
	"false": {Kind: Bool, Bool: false},
	"null":  {Kind: Null},
}

// scanWord scans an unquoted word. Words matching a keyword become Bool or
// Null tokens; otherwise the word is a String token.
// Precondition: the byte at the current position is a letter.
func (lx *lexer) scanWord() error {
	end := lx.pos + 1
	for end < lx.src.Len() && isWordRune(lx.src.At(end)) {
		end++
	}
	word := lx.text(lx.pos, end)
	tok, ok := keywords[word]
	if !ok {
		if lx.strict {
			return lx.failf(lx.pos, ErrUnrecognizedCharacter, "unquoted word %q", word)
		}
		tok = Token{Kind: String}
	}
	tok.Text = word
	lx.emit(tok, end)
	return nil
}

func (lx *lexer) failf(pos int, kind error, msg string, args ...any) *SyntaxError {
	return &SyntaxError{
		Err:     kind,
		Offset:  pos,
		Token:   -1,
		Message: fmt.Sprintf(msg, args...),
	}
}

func (lx *lexer) isSpace(ch byte) bool {
	return ch == ' ' || (lx.strict && (ch == '\t' || ch == '\n' || ch == '\r'))
}

func (lx *lexer) isNumRune(ch byte) bool {
	return isNumStart(ch) || (lx.strict && (ch == 'e' || ch == 'E' || ch == '+'))
}

// exponentLen reports the length of the exponent marker and sign at offset i
// if they are preceded and followed by a digit, or 0. Strict numbers include
// the marker in the run already.
func (lx *lexer) exponentLen(i int) int {
	if lx.strict || i == 0 || !isDigit(lx.src.At(i-1)) {
		return 0
	} else if ch := lx.src.At(i); ch != 'e' && ch != 'E' {
		return 0
	}
	n := 1
	if j := i + n; j < lx.src.Len() && (lx.src.At(j) == '-' || lx.src.At(j) == '+') {
		n++
	}
	if j := i + n; j < lx.src.Len() && isDigit(lx.src.At(j)) {
		return n
	}
	return 0
}

func isNumStart(ch byte) bool { return ch == '-' || ch == '.' || isDigit(ch) }
func isDigit(ch byte) bool    { return '0' <= ch && ch <= '9' }
func isLetter(ch byte) bool   { return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') }
func isWordRune(ch byte) bool { return isLetter(ch) || isDigit(ch) || ch == '/' }

// isJSONNumber reports whether s has the syntax of a JSON number:
//
//	number = [ "-" ] int [ frac ] [ exp ]
//	int    = "0" / digit1-9 *digit
//	frac   = "." 1*digit
//	exp    = ("e" / "E") [ "-" / "+" ] 1*digit
func isJSONNumber(s string) bool {
	i := 0
	digits := func() int {
		n := 0
		for i < len(s) && isDigit(s[i]) {
			i++
			n++
		}
		return n
	}
	if i < len(s) && s[i] == '-' {
		i++
	}
	if i < len(s) && s[i] == '0' {
		i++ // a leading zero is OK only if it's the only digit
	} else if digits() == 0 {
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		if digits() == 0 {
			return false
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '-' || s[i] == '+') {
			i++
		}
		if digits() == 0 {
			return false
		}
	}
	return i == len(s)
}
