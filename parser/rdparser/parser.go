// Copyright © 2025 The Lambdust authors

// Package rdparser implements a recursive descent parser for the lambdust
// language.
package rdparser

import (
	"io"
	"strconv"
	"strings"

	"github.com/akasaka-miraina/lambdust-sub006/parser/token"
	"github.com/akasaka-miraina/lambdust-sub006/scheme"
)

type reader struct {
}

// NewReader returns a scheme.Reader to use in a scheme.Runtime.
func NewReader() scheme.Reader {
	return &reader{}
}

// Read implements scheme.Reader.
func (*reader) Read(name string, r io.Reader) ([]scheme.Value, error) {
	s := token.NewScanner(name, r)
	p := New(s)
	return p.ParseProgram()
}

// ReadLocation implements scheme.LocationReader.
func (*reader) ReadLocation(name string, loc string, r io.Reader) ([]scheme.Value, error) {
	s := token.NewScanner(name, r)
	s.SetPath(loc)
	p := New(s)
	return p.ParseProgram()
}

// Parser is a lambdust parser.
type Parser struct {
	parsing bool
	src     *TokenSource
}

// NewFromSource initializes and returns a Parser that reads tokens from src.
func NewFromSource(src *TokenSource) *Parser {
	return &Parser{
		src: src,
	}
}

// New initializes and returns a new Parser that reads tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	return NewFromSource(NewTokenSource(scanner))
}

// Parse is a generic entry point that is similar to ParseExpression but is
// capable of handling EOF before reading an expression.
func (p *Parser) Parse() (scheme.Value, error) {
	p.ignoreComments()
	if p.src.IsEOF() {
		return scheme.Nil(), io.EOF
	}
	expr := p.ParseExpression()
	if expr.IsError() {
		return scheme.Nil(), scheme.GoError(expr)
	}
	return expr, nil
}

// ParseProgram parses a series of expressions potentially preceded by a
// hash-bang, `#!`.
func (p *Parser) ParseProgram() ([]scheme.Value, error) {
	var exprs []scheme.Value

	p.ignoreHashBang()

	for {
		expr, err := p.Parse()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}

	return exprs, nil
}

// ParseExpression parses a single expression.  Unlike Parse, ParseExpression
// requires an expression to be present in the input stream and will report
// unexpected EOF tokens encountered.
func (p *Parser) ParseExpression() scheme.Value {
	fn := p.parseExpression()

	// We have a token marking the beginning of an expression.  Flag that we
	// are currently in the middle of an expression while we finish parsing
	// the expression so that an Interactive parser can determine what state
	// we are in (and thus imply what the REPL prompt should be).
	if !p.parsing {
		p.parsing = true
		defer func() { p.parsing = false }()
	}

	return fn(p)
}

func (p *Parser) ignoreHashBang() {
	if p.PeekType() != token.HASH_BANG {
		return
	}
	p.src.Scan()
	p.src.AcceptType(token.COMMENT)
}

func (p *Parser) parseExpression() func(p *Parser) scheme.Value {
	p.ignoreComments()
	switch p.PeekType() {
	case token.INT:
		return (*Parser).ParseLiteralInt
	case token.INT_RADIX:
		return (*Parser).ParseLiteralIntRadix
	case token.FLOAT:
		return (*Parser).ParseLiteralFloat
	case token.STRING:
		return (*Parser).ParseLiteralString
	case token.CHAR:
		return (*Parser).ParseLiteralChar
	case token.BOOL:
		return (*Parser).ParseLiteralBool
	case token.KEYWORD:
		return (*Parser).ParseKeyword
	case token.QUOTE:
		return (*Parser).ParseQuote
	case token.SYMBOL:
		return (*Parser).ParseSymbol
	case token.PAREN_L:
		return (*Parser).ParseConsExpression
	case token.VEC_OPEN:
		return (*Parser).ParseVector
	case token.BYTEVEC_OPEN:
		return (*Parser).ParseBytevector
	case token.ERROR, token.INVALID:
		return func(p *Parser) scheme.Value {
			p.ReadToken()
			return p.errorf("scan-error", "%s", p.TokenText())
		}
	default:
		return func(p *Parser) scheme.Value {
			p.ReadToken()
			return p.errorf("parse-error", "unexpected token: %v", p.TokenType())
		}
	}
}

func (p *Parser) ParseLiteralInt() scheme.Value {
	if !p.Accept(token.INT) {
		return p.errorf("parse-error", "invalid integer literal: %v", p.PeekType())
	}
	text := p.TokenText()
	x, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return p.errorf("integer-overflow-error", "integer literal overflows int: %v", text)
	}
	return p.Int(x)
}

func (p *Parser) ParseLiteralIntRadix() scheme.Value {
	if !p.Accept(token.INT_RADIX) {
		return p.errorf("parse-error", "unexpected token: %v", p.PeekType())
	}
	text := p.TokenText()
	x, err := token.ParseRadixInt(text)
	if err != nil {
		return p.errorf("integer-overflow-error", "radix literal overflows int: %v", text)
	}
	return p.Int(x)
}

func (p *Parser) ParseLiteralFloat() scheme.Value {
	if !p.Accept(token.FLOAT) {
		return p.errorf("parse-error", "invalid float literal: %v", p.PeekType())
	}
	x, err := strconv.ParseFloat(p.TokenText(), 64)
	if err != nil {
		return p.errorf("invalid-float", "invalid floating point literal: %v", p.TokenText())
	}
	return p.Float(x)
}

func (p *Parser) ParseLiteralString() scheme.Value {
	if !p.Accept(token.STRING) {
		return p.errorf("parse-error", "invalid string literal: %v", p.PeekType())
	}
	s, err := token.UnquoteString(p.TokenText())
	if err != nil {
		return p.errorf("invalid-string", "%v", err)
	}
	return p.String(s)
}

func (p *Parser) ParseLiteralChar() scheme.Value {
	if !p.Accept(token.CHAR) {
		return p.errorf("parse-error", "invalid character literal: %v", p.PeekType())
	}
	c, err := token.UnquoteChar(p.TokenText())
	if err != nil {
		return p.errorf("invalid-char", "%v", err)
	}
	return p.Char(c)
}

func (p *Parser) ParseLiteralBool() scheme.Value {
	if !p.Accept(token.BOOL) {
		return p.errorf("parse-error", "invalid boolean literal: %v", p.PeekType())
	}
	switch p.TokenText() {
	case "#t", "#true":
		return p.Bool(true)
	case "#f", "#false":
		return p.Bool(false)
	}
	return p.errorf("invalid-bool", "invalid boolean literal: %v", p.TokenText())
}

func (p *Parser) ParseKeyword() scheme.Value {
	if !p.Accept(token.KEYWORD) {
		return p.errorf("parse-error", "invalid keyword: %v", p.PeekType())
	}
	return p.Keyword(strings.TrimPrefix(p.TokenText(), "#:"))
}

// quoteSymbols maps reader macro text to the symbol it abbreviates.
var quoteSymbols = map[string]string{
	"'":  "quote",
	"`":  "quasiquote",
	",":  "unquote",
	",@": "unquote-splicing",
}

func (p *Parser) ParseQuote() scheme.Value {
	if !p.Accept(token.QUOTE) {
		return p.errorf("parse-error", "invalid quote: %v", p.PeekType())
	}
	name, ok := quoteSymbols[p.TokenText()]
	if !ok {
		return p.errorf("parse-error", "invalid quote: %v", p.TokenText())
	}
	sym := p.Symbol(name)
	loc := p.Location()
	expr := p.ParseExpression()
	if expr.IsError() {
		return expr
	}
	return scheme.List(sym, expr).WithSource(loc)
}

func (p *Parser) ParseSymbol() scheme.Value {
	if !p.Accept(token.SYMBOL) {
		return p.errorf("parse-error", "invalid symbol: %v", p.PeekType())
	}
	return p.Symbol(p.TokenText())
}

/// ParseConsExpression parses a parenthesized form: a proper list, or a
// dotted pair when a single expression follows a DOT token.
func (p *Parser) ParseConsExpression() scheme.Value {
	if !p.Accept(token.PAREN_L) {
		return p.errorf("parse-error", "unexpected token: %v", p.PeekType())
	}
	open := p.src.Token
	loc := open.Source
	var elems []scheme.Value
	tail := scheme.Nil()
	for {
		p.ignoreComments()
		if p.src.IsEOF() {
			return p.errorf("unmatched-syntax", "unmatched %s", open.Text)
		}
		if p.Accept(token.PAREN_R) {
			break
		}
		if p.Accept(token.DOT) {
			if len(elems) == 0 {
				return p.errorf("parse-error", "unexpected token: %v", token.DOT)
			}
			x := p.ParseExpression()
			if x.IsError() {
				return x
			}
			tail = x
			p.ignoreComments()
			if p.src.IsEOF() {
				return p.errorf("unmatched-syntax", "unmatched %s", open.Text)
			}
			if !p.Accept(token.PAREN_R) {
				return p.errorf("parse-error", "multiple expressions follow dot")
			}
			break
		}
		x := p.ParseExpression()
		if x.IsError() {
			return x
		}
		elems = append(elems, x)
	}
	expr := tail
	for i := len(elems) - 1; i >= 0; i-- {
		expr = scheme.Cons(elems[i], expr)
	}
	return expr.WithSource(loc)
}

// ParseVector parses a #( vector literal.
func (p *Parser) ParseVector() scheme.Value {
	if !p.Accept(token.VEC_OPEN) {
		return p.errorf("parse-error", "unexpected token: %v", p.PeekType())
	}
	open := p.src.Token
	loc := open.Source
	var elems []scheme.Value
	for {
		p.ignoreComments()
		if p.src.IsEOF() {
			return p.errorf("unmatched-syntax", "unmatched %s", open.Text)
		}
		if p.Accept(token.PAREN_R) {
			break
		}
		x := p.ParseExpression()
		if x.IsError() {
			return x
		}
		elems = append(elems, x)
	}
	return scheme.Vector(elems...).WithSource(loc)
}

// ParseBytevector parses a #u8( bytevector literal.  Elements must be
// integer literals between 0 and 255.
func (p *Parser) ParseBytevector() scheme.Value {
	if !p.Accept(token.BYTEVEC_OPEN) {
		return p.errorf("parse-error", "unexpected token: %v", p.PeekType())
	}
	open := p.src.Token
	loc := open.Source
	var data []byte
	for {
		p.ignoreComments()
		if p.src.IsEOF() {
			return p.errorf("unmatched-syntax", "unmatched %s", open.Text)
		}
		if p.Accept(token.PAREN_R) {
			break
		}
		var x int64
		var err error
		switch {
		case p.Accept(token.INT):
			x, err = strconv.ParseInt(p.TokenText(), 10, 64)
		case p.Accept(token.INT_RADIX):
			x, err = token.ParseRadixInt(p.TokenText())
		default:
			return p.errorf("parse-error", "invalid bytevector element: %v", p.PeekType())
		}
		if err != nil || x < 0 || x > 255 {
			return p.errorf("parse-error", "bytevector element out of range: %v", p.TokenText())
		}
		data = append(data, byte(x))
	}
	return scheme.Bytes(data).WithSource(loc)
}

func (p *Parser) ignoreComments() {
	for p.Accept(token.COMMENT) {
	}
}

func (p *Parser) ReadToken() *token.Token {
	p.src.Scan()
	return p.src.Token
}

func (p *Parser) TokenText() string {
	return p.src.Token.Text
}

func (p *Parser) TokenType() token.Type {
	return p.src.Token.Type
}

func (p *Parser) Location() *token.Location {
	return p.src.Token.Source
}

func (p *Parser) PeekType() token.Type {
	return p.src.Peek().Type
}

func (p *Parser) PeekLocation() *token.Location {
	return p.src.Peek().Source
}

func (p *Parser) String(s string) scheme.Value {
	return p.tokenValue(scheme.String(s))
}

func (p *Parser) Symbol(name string) scheme.Value {
	return p.tokenValue(scheme.Symbol(name))
}

func (p *Parser) Keyword(name string) scheme.Value {
	return p.tokenValue(scheme.Keyword(name))
}

func (p *Parser) Int(x int64) scheme.Value {
	return p.tokenValue(scheme.Int(x))
}

func (p *Parser) Float(x float64) scheme.Value {
	return p.tokenValue(scheme.Float(x))
}

func (p *Parser) Char(c rune) scheme.Value {
	return p.tokenValue(scheme.Char(c))
}

func (p *Parser) Bool(b bool) scheme.Value {
	return p.tokenValue(scheme.Bool(b))
}

func (p *Parser) tokenValue(v scheme.Value) scheme.Value {
	return v.WithSource(p.Location())
}

func (p *Parser) Accept(typ ...token.Type) bool {
	return p.src.AcceptType(typ...)
}

func (p *Parser) errorf(condition string, format string, v ...interface{}) scheme.Value {
	err := scheme.ErrorConditionf(condition, format, v...)
	return err.WithSource(p.Location())
}
