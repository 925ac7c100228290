// Copyright © 2025 The Lambdust authors

package token

import "fmt"

// Source is an abstract stream of tokens which allows one token lookahead.
type Source interface {
	// Token returns the current token.  Token returns nil if Scan has not
	// been called.
	Token() *Token
	// Peek returns the next token in the stream.  At the end of the stream
	// Peek should return a value to indicate the lack of a token (EOF).
	Peek() *Token
	// Scan advances the token stream if possible.  If there are no tokens
	// remaining Scan returns false.
	Scan() bool
}

type Token struct {
	Type   Type
	Text   string
	Source *Location
}

type Type uint

// Type constants used for the lambdust lexer/parser.  These constants aren't
// necessary to use the package.
const (
	INVALID Type = iota
	ERROR
	EOF

	HASH_BANG

	// Atomic expressions & literals
	SYMBOL
	KEYWORD
	INT
	INT_RADIX // hex/octal/binary literal including its #x/#o/#b prefix
	FLOAT
	STRING
	CHAR
	BOOL

	COMMENT

	// Reader macros
	QUOTE

	// Delimiters
	PAREN_L
	PAREN_R
	DOT
	VEC_OPEN     // "#("
	BYTEVEC_OPEN // "#u8("

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID:      "invalid",
		ERROR:        "error",
		EOF:          "EOF",
		HASH_BANG:    "#!",
		SYMBOL:       "symbol",
		KEYWORD:      "keyword",
		INT:          "int",
		INT_RADIX:    "radix-int",
		FLOAT:        "float",
		STRING:       "string",
		CHAR:         "char",
		BOOL:         "bool",
		COMMENT:      ";",
		QUOTE:        "'",
		PAREN_L:      "(",
		PAREN_R:      ")",
		DOT:          ".",
		VEC_OPEN:     "#(",
		BYTEVEC_OPEN: "#u8(",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

type Location struct {
	File string // a name representing the source stream
	Path string // a physical location which may differ from File
	Pos  int
	Line int // line number (starting at 1 when tracked)
	Col  int // line column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

type LocationError struct {
	Err    error
	Source *Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

func (err *LocationError) Unwrap() error {
	return err.Err
}
