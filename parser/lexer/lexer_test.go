// Copyright © 2025 The Lambdust authors

package lexer

import (
	"reflect"
	"strings"
	"testing"

	"github.com/akasaka-miraina/lambdust-sub006/parser/token"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		input  string
		tokens []*token.Token
	}{
		{``, []*token.Token{
			testToken(token.EOF, ""),
		}},
		{`abc`, []*token.Token{
			testToken(token.SYMBOL, "abc"),
			testToken(token.EOF, ""),
		}},
		{`(+ 1 2)`, []*token.Token{
			testToken(token.PAREN_L, "("),
			testToken(token.SYMBOL, "+"),
			testToken(token.INT, "1"),
			testToken(token.INT, "2"),
			testToken(token.PAREN_R, ")"),
			testToken(token.EOF, ""),
		}},
		{`'(a . b)`, []*token.Token{
			testToken(token.QUOTE, "'"),
			testToken(token.PAREN_L, "("),
			testToken(token.SYMBOL, "a"),
			testToken(token.DOT, "."),
			testToken(token.SYMBOL, "b"),
			testToken(token.PAREN_R, ")"),
			testToken(token.EOF, ""),
		}},
		{"`(a ,b ,@c)", []*token.Token{
			testToken(token.QUOTE, "`"),
			testToken(token.PAREN_L, "("),
			testToken(token.SYMBOL, "a"),
			testToken(token.QUOTE, ","),
			testToken(token.SYMBOL, "b"),
			testToken(token.QUOTE, ",@"),
			testToken(token.SYMBOL, "c"),
			testToken(token.PAREN_R, ")"),
			testToken(token.EOF, ""),
		}},
		{`10 -5 +42 0.1 12e12 12e-12 12.02E+5 .5`, []*token.Token{
			testToken(token.INT, "10"),
			testToken(token.INT, "-5"),
			testToken(token.INT, "+42"),
			testToken(token.FLOAT, "0.1"),
			testToken(token.FLOAT, "12e12"),
			testToken(token.FLOAT, "12e-12"),
			testToken(token.FLOAT, "12.02E+5"),
			testToken(token.FLOAT, ".5"),
			testToken(token.EOF, ""),
		}},
		{`#x2a #o17 #b1010 #x-FF`, []*token.Token{
			testToken(token.INT_RADIX, "#x2a"),
			testToken(token.INT_RADIX, "#o17"),
			testToken(token.INT_RADIX, "#b1010"),
			testToken(token.INT_RADIX, "#x-FF"),
			testToken(token.EOF, ""),
		}},
		{`#t #f #true #false`, []*token.Token{
			testToken(token.BOOL, "#t"),
			testToken(token.BOOL, "#f"),
			testToken(token.BOOL, "#true"),
			testToken(token.BOOL, "#false"),
			testToken(token.EOF, ""),
		}},
		{`#\a #\space #\x41 #\(`, []*token.Token{
			testToken(token.CHAR, `#\a`),
			testToken(token.CHAR, `#\space`),
			testToken(token.CHAR, `#\x41`),
			testToken(token.CHAR, `#\(`),
			testToken(token.EOF, ""),
		}},
		{`"abc" "" "a\"b"`, []*token.Token{
			testToken(token.STRING, `"abc"`),
			testToken(token.STRING, `""`),
			testToken(token.STRING, `"a\"b"`),
			testToken(token.EOF, ""),
		}},
		{"\"two\nlines\"", []*token.Token{
			testToken(token.STRING, "\"two\nlines\""),
			testToken(token.EOF, ""),
		}},
		{`#(1 2) #u8(255)`, []*token.Token{
			testToken(token.VEC_OPEN, "#("),
			testToken(token.INT, "1"),
			testToken(token.INT, "2"),
			testToken(token.PAREN_R, ")"),
			testToken(token.BYTEVEC_OPEN, "#u8("),
			testToken(token.INT, "255"),
			testToken(token.PAREN_R, ")"),
			testToken(token.EOF, ""),
		}},
		{`#:key x`, []*token.Token{
			testToken(token.KEYWORD, "#:key"),
			testToken(token.SYMBOL, "x"),
			testToken(token.EOF, ""),
		}},
		{`... -> list->vector str*`, []*token.Token{
			testToken(token.SYMBOL, "..."),
			testToken(token.SYMBOL, "->"),
			testToken(token.SYMBOL, "list->vector"),
			testToken(token.SYMBOL, "str*"),
			testToken(token.EOF, ""),
		}},
		{"; comment\nx", []*token.Token{
			testToken(token.COMMENT, "; comment"),
			testToken(token.SYMBOL, "x"),
			testToken(token.EOF, ""),
		}},
		{`#| outer #| inner |# |# x`, []*token.Token{
			testToken(token.COMMENT, "#| outer #| inner |# |#"),
			testToken(token.SYMBOL, "x"),
			testToken(token.EOF, ""),
		}},
		{"#!/usr/bin/env lambdust\n(f)", []*token.Token{
			testToken(token.HASH_BANG, "#!"),
			testToken(token.COMMENT, "/usr/bin/env lambdust"),
			testToken(token.PAREN_L, "("),
			testToken(token.SYMBOL, "f"),
			testToken(token.PAREN_R, ")"),
			testToken(token.EOF, ""),
		}},
		{`"unterminated`, []*token.Token{
			testToken(token.ERROR, "unterminated string literal"),
		}},
		{`#| unterminated`, []*token.Token{
			testToken(token.ERROR, "unterminated block comment"),
		}},
		{`1abc`, []*token.Token{
			testToken(token.ERROR, `invalid number literal character: 'a'`),
		}},
		{`#xZZ`, []*token.Token{
			testToken(token.ERROR, "invalid radix literal starting: #x"),
		}},
	}
testloop:
	for i, test := range tests {
		lex := New(token.NewScanner("", strings.NewReader(test.input)))
		var tokens []*token.Token
		numToken := 0
		for {
			toks := lex.ReadToken()
			if len(toks) != 1 {
				t.Fatalf("test %d: lexer returned %d tokens", i, len(toks))
			}
			tok := toks[0]
			tok.Source = nil
			tokens = append(tokens, tok)
			if tok.Type == token.EOF || tok.Type == token.ERROR {
				break
			}
			numToken++
			if numToken > 100000 {
				t.Errorf("test %d: apparent infinite scanning loop", i)
				for _, tok := range tokens[len(tokens)-10:] {
					t.Log(tok)
				}
				continue testloop
			}
		}
		if !reflect.DeepEqual(tokens, test.tokens) {
			t.Errorf("test %d: unexpected tokens for input", i)
			t.Logf("source:\n\t%s", test.input)
			t.Logf("tokens:")
			for _, tok := range tokens {
				t.Logf("\t%v", tok)
			}
		}
	}
}

func TestLexerLocation(t *testing.T) {
	lex := New(token.NewScanner("test.scm", strings.NewReader("(define x\n  42)")))
	want := []struct {
		line int
		col  int
	}{
		{1, 1}, // (
		{1, 2}, // define
		{1, 9}, // x
		{2, 3}, // 42
		{2, 5}, // )
	}
	for i, loc := range want {
		toks := lex.ReadToken()
		if len(toks) != 1 {
			t.Fatalf("token %d: lexer returned %d tokens", i, len(toks))
		}
		tok := toks[0]
		if tok.Source == nil {
			t.Fatalf("token %d: no source location", i)
		}
		if tok.Source.File != "test.scm" {
			t.Errorf("token %d: file %q", i, tok.Source.File)
		}
		if tok.Source.Line != loc.line || tok.Source.Col != loc.col {
			t.Errorf("token %d (%v): line %d col %d (wanted line %d col %d)",
				i, tok, tok.Source.Line, tok.Source.Col, loc.line, loc.col)
		}
	}
}

func testToken(typ token.Type, text string) *token.Token {
	return &token.Token{
		Type: typ,
		Text: text,
	}
}
