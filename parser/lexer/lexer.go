// Copyright © 2025 The Lambdust authors

// Package lexer splits a source stream into scheme tokens.  The lexer is a
// state function over a token.Scanner; most tokens are produced by the base
// state and a few constructs (hash-bang lines) switch the state for the
// following read.
package lexer

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/akasaka-miraina/lambdust-sub006/parser/token"
)

type LexFn func(*Lexer) []*token.Token

const (
	// specialInitial may start a symbol; specialSubsequent may only
	// continue one.
	specialInitial    = "!$%&*/:<=>?^_~"
	specialSubsequent = "+-.@"
)

type Lexer struct {
	scanner *token.Scanner
	lex     LexFn
}

func New(s *token.Scanner) *Lexer {
	return &Lexer{
		scanner: s,
		lex:     (*Lexer).readToken,
	}
}

func (lex *Lexer) ReadToken() []*token.Token {
	return lex.lex(lex)
}

func (lex *Lexer) readToken() []*token.Token {
	lex.skipWhitespace()
	if !lex.scanner.Accept(func(c rune) bool { return true }) {
		if lex.scanner.EOF() {
			return lex.emit(token.EOF, "")
		}
		if err := lex.scanner.Err(); err != nil {
			return lex.emitError(err, false)
		}
		return lex.errorf("invalid utf-8 sequence")
	}
	switch c := lex.scanner.Rune(); c {
	case '(':
		return lex.charToken(token.PAREN_L)
	case ')':
		return lex.charToken(token.PAREN_R)
	case '\'', '`':
		return lex.charToken(token.QUOTE)
	case ',':
		lex.scanner.AcceptRune('@')
		return lex.emitText(token.QUOTE)
	case ';':
		lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
		return lex.emitText(token.COMMENT)
	case '#':
		return lex.readHash()
	case '"':
		return lex.readString()
	case '+', '-':
		if isDigit(lex.peekRune()) {
			return lex.readNumber()
		}
		return lex.readSymbol()
	case '.':
		if isDigit(lex.peekRune()) {
			return lex.readFloatFraction()
		}
		if isWord(lex.peekRune()) {
			return lex.readSymbol()
		}
		return lex.emitText(token.DOT)
	default:
		if isDigit(c) {
			return lex.readNumber()
		}
		if isWordStart(c) {
			return lex.readSymbol()
		}
		err := fmt.Errorf("unexpected text starting with %q", c)
		return lex.emit(token.INVALID, err.Error())
	}
}

// readHash dispatches the constructs introduced by '#'.  The '#' itself has
// been scanned.
func (lex *Lexer) readHash() []*token.Token {
	if lex.scanner.AcceptRune('(') {
		return lex.emitText(token.VEC_OPEN)
	}
	if lex.scanner.AcceptRune('!') {
		tok := lex.emitText(token.HASH_BANG)
		lex.lex = (*Lexer).readHashBangLine
		return tok
	}
	if lex.scanner.AcceptRune(':') {
		return lex.readKeyword()
	}
	if lex.scanner.AcceptRune('\\') {
		return lex.readCharLiteral()
	}
	if lex.scanner.AcceptRune('|') {
		return lex.readBlockComment()
	}
	if lex.scanner.AcceptRune('u') {
		if _, ok := lex.scanner.AcceptString("8("); !ok {
			return lex.errorf("invalid bytevector literal starting: %v", lex.scanner.Text())
		}
		return lex.emitText(token.BYTEVEC_OPEN)
	}
	if lex.scanner.AcceptAny("txXoObBfTF") {
		switch lex.scanner.Rune() {
		case 't', 'f', 'T', 'F':
			return lex.readBool()
		default:
			return lex.readRadixLiteral()
		}
	}
	return lex.errorf("invalid dispatch character %q", lex.peekRune())
}

// readBool scans the remainder of #t, #f, #true, or #false.  The first
// letter has been scanned.
func (lex *Lexer) readBool() []*token.Token {
	lex.scanner.AcceptSeq(unicode.IsLetter)
	switch lex.scanner.Text() {
	case "#t", "#f", "#true", "#false":
		return lex.emitText(token.BOOL)
	}
	return lex.errorf("invalid boolean literal: %v", lex.scanner.Text())
}

// readRadixLiteral scans the digits of a #x, #o, or #b integer.  The radix
// letter has been scanned.
func (lex *Lexer) readRadixLiteral() []*token.Token {
	var digit func(rune) bool
	switch lex.scanner.Rune() {
	case 'x', 'X':
		digit = func(c rune) bool {
			return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
		}
	case 'o', 'O':
		digit = func(c rune) bool { return '0' <= c && c <= '7' }
	default:
		digit = func(c rune) bool { return c == '0' || c == '1' }
	}
	lex.scanner.AcceptAny("+-")
	if lex.scanner.AcceptSeq(digit) == 0 {
		return lex.errorf("invalid radix literal starting: %v", lex.scanner.Text())
	}
	if isWord(lex.peekRune()) {
		return lex.errorf("invalid radix literal character: %q", lex.peekRune())
	}
	return lex.emitText(token.INT_RADIX)
}

// readCharLiteral scans a #\ character: a literal rune, a character name,
// or a #\xNN hex escape.  Which form it was is decided at parse time; the
// lexer only finds the token boundary.
func (lex *Lexer) readCharLiteral() []*token.Token {
	if !lex.scanner.Accept(func(c rune) bool { return true }) {
		return lex.errorf("unterminated character literal")
	}
	if unicode.IsLetter(lex.scanner.Rune()) {
		lex.scanner.AcceptSeq(func(c rune) bool {
			return unicode.IsLetter(c) || isDigit(c)
		})
	}
	return lex.emitText(token.CHAR)
}

// readBlockComment scans a #| ... |# comment.  Block comments nest.
func (lex *Lexer) readBlockComment() []*token.Token {
	depth := 1
	for depth > 0 {
		if _, ok := lex.scanner.AcceptString("|#"); ok {
			depth--
			continue
		}
		if _, ok := lex.scanner.AcceptString("#|"); ok {
			depth++
			continue
		}
		if !lex.scanner.Accept(func(c rune) bool { return true }) {
			return lex.errorf("unterminated block comment")
		}
	}
	return lex.emitText(token.COMMENT)
}

func (lex *Lexer) readHashBangLine() []*token.Token {
	lex.resetState()
	lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
	return lex.emitText(token.COMMENT)
}

func (lex *Lexer) readString() []*token.Token {
	for {
		lex.scanner.AcceptSeq(func(c rune) bool { return c != '"' && c != '\\' })
		if lex.scanner.AcceptRune('\\') {
			// The escaped character is validated at parse time.
			if !lex.scanner.Accept(func(c rune) bool { return true }) {
				return lex.errorf("unterminated string literal")
			}
			continue
		}
		if lex.scanner.AcceptRune('"') {
			return lex.emitText(token.STRING)
		}
		if lex.scanner.EOF() {
			return lex.errorf("unterminated string literal")
		}
		if err := lex.scanner.Err(); err != nil {
			return lex.errorf("scan failure: %v", err)
		}
		return lex.errorf("unexpected rune %q", lex.peekRune())
	}
}

func (lex *Lexer) readKeyword() []*token.Token {
	if lex.scanner.AcceptSeq(isWord) == 0 {
		return lex.errorf("invalid keyword starting: %v", lex.scanner.Text())
	}
	return lex.emitText(token.KEYWORD)
}

func (lex *Lexer) readSymbol() []*token.Token {
	lex.scanner.AcceptSeq(isWord)
	return lex.emitText(token.SYMBOL)
}

func (lex *Lexer) readNumber() []*token.Token {
	lex.scanner.AcceptSeqDigit()
	switch {
	case lex.scanner.AcceptRune('.'):
		return lex.readFloatFraction()
	case lex.scanner.AcceptAny("eE"):
		return lex.readFloatExponent()
	default:
		if isWord(lex.peekRune()) {
			return lex.errorf("invalid number literal character: %q", lex.peekRune())
		}
		// Overflow is found at parse time, not scan time.
		return lex.emitText(token.INT)
	}
}

func (lex *Lexer) readFloatFraction() []*token.Token {
	if lex.scanner.AcceptSeqDigit() == 0 {
		return lex.errorf("invalid floating point literal starting: %v", lex.scanner.Text())
	}
	if lex.scanner.AcceptAny("eE") {
		return lex.readFloatExponent()
	}
	if isWord(lex.peekRune()) {
		return lex.errorf("invalid floating point literal character: %q", lex.peekRune())
	}
	return lex.emitText(token.FLOAT)
}

func (lex *Lexer) readFloatExponent() []*token.Token {
	lex.scanner.AcceptAny("+-")
	if lex.scanner.AcceptSeqDigit() == 0 {
		return lex.errorf("invalid floating point literal starting: %v", lex.scanner.Text())
	}
	if isWord(lex.peekRune()) {
		return lex.errorf("invalid floating point literal character: %q", lex.peekRune())
	}
	return lex.emitText(token.FLOAT)
}

func (lex *Lexer) resetState() {
	lex.lex = (*Lexer).readToken
}

func (lex *Lexer) emit(typ token.Type, text string) []*token.Token {
	tok := []*token.Token{{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitText(typ token.Type) []*token.Token {
	return []*token.Token{lex.scanner.EmitToken(typ)}
}

func (lex *Lexer) emitError(err error, expectEOF bool) []*token.Token {
	if err == io.EOF {
		if expectEOF {
			return lex.emit(token.EOF, "")
		}
		return lex.emit(token.ERROR, "unexpected EOF")
	}
	return lex.emit(token.ERROR, err.Error())
}

func (lex *Lexer) errorf(format string, v ...interface{}) []*token.Token {
	return lex.emitError(fmt.Errorf(format, v...), false)
}

func (lex *Lexer) charToken(typ token.Type) []*token.Token {
	return lex.emitText(typ)
}

func (lex *Lexer) skipWhitespace() {
	if lex.scanner.AcceptSeqSpace() > 0 {
		lex.scanner.Ignore()
	}
}

func (lex *Lexer) peekRune() rune {
	r, _ := lex.scanner.Peek()
	return r
}

func isWordStart(c rune) bool {
	return unicode.IsLetter(c) || strings.ContainsRune(specialInitial, c)
}

func isWord(c rune) bool {
	return unicode.IsLetter(c) || isDigit(c) ||
		strings.ContainsRune(specialInitial, c) ||
		strings.ContainsRune(specialSubsequent, c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
