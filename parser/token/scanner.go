// Copyright © 2025 The Lambdust authors

package token

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from a byte stream (io.Reader).
// The entire stream is buffered up front; lambdust sources are small files
// and the REPL feeds the scanner one line at a time.
type Scanner struct {
	file    string
	path    string
	readErr error

	buf   []byte
	start int // start of the current token
	pos   int // index of the rune following the scanned text

	line      int // line number at pos (1-based)
	col       int // column number at pos (1-based)
	startLine int // line number at start
	startCol  int // column number at start
	startPos  int
}

// NewScanner initializes and returns a new Scanner reading from r.
func NewScanner(file string, r io.Reader) *Scanner {
	buf, err := io.ReadAll(r)
	s := &Scanner{
		file:      file,
		buf:       buf,
		line:      1,
		col:       1,
		startLine: 1,
		startCol:  1,
	}
	if err != nil {
		s.readErr = err
	}
	return s
}

// SetPath associates a physical location (e.g. filesystem path) with s to
// aid in debugging projects which scan many ungrouped files.
func (s *Scanner) SetPath(path string) {
	s.path = path
}

// EmitToken returns a token containing the text scanned since the last call
// to either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.pos
	s.startLine = s.line
	s.startCol = s.col
	s.startPos = s.pos
}

// Text returns a string containing text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Text() string {
	return string(s.buf[s.start:s.pos])
}

// Peek returns the next rune to be scanned, if there are any.  If an
// invalid utf-8 sequence or EOF prevents further runes from being scanned
// Peek returns a false second value.
func (s *Scanner) Peek() (rune, bool) {
	if s.pos >= len(s.buf) {
		return 0, false
	}
	c, n := utf8.DecodeRune(s.buf[s.pos:])
	if c == utf8.RuneError && n == 1 {
		return utf8.RuneError, false
	}
	return c, true
}

// ScanRune attempts to scan a utf-8 rune from the input for inclusion in
// the current token.
func (s *Scanner) ScanRune() error {
	if s.pos >= len(s.buf) {
		if s.readErr != nil {
			return s.readErr
		}
		return io.EOF
	}
	c, n := utf8.DecodeRune(s.buf[s.pos:])
	if c == utf8.RuneError && n == 1 {
		return fmt.Errorf("invalid utf-8 sequence in source text starting with byte %q", s.buf[s.pos])
	}
	s.pos += n
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return nil
}

// Rune returns the last rune scanned into the current token.
func (s *Scanner) Rune() rune {
	if s.pos <= s.start {
		return 0
	}
	c, _ := utf8.DecodeLastRune(s.buf[s.start:s.pos])
	return c
}

// Err returns an error encountered reading the input stream, if any.
func (s *Scanner) Err() error {
	return s.readErr
}

// EOF returns true once all buffered input has been scanned.
func (s *Scanner) EOF() bool {
	return s.pos >= len(s.buf)
}

func (s *Scanner) Accept(fn func(rune) bool) bool {
	c, ok := s.Peek()
	if !ok {
		return false
	}
	if fn(c) {
		return s.ScanRune() == nil
	}
	return false
}

func (s *Scanner) AcceptRune(c rune) bool {
	peek, ok := s.Peek()
	if !ok {
		return false
	}
	if peek == c {
		return s.ScanRune() == nil
	}
	return false
}

func (s *Scanner) AcceptDigit() bool {
	return s.Accept(func(c rune) bool { return '0' <= c && c <= '9' })
}

func (s *Scanner) AcceptSpace() bool {
	return s.Accept(unicode.IsSpace)
}

func (s *Scanner) AcceptAny(charset string) bool {
	return s.Accept(func(c rune) bool { return strings.ContainsRune(charset, c) })
}

func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

func (s *Scanner) AcceptSeqDigit() int {
	var n int
	for s.AcceptDigit() {
		n++
	}
	return n
}

func (s *Scanner) AcceptSeqSpace() int {
	var n int
	for s.AcceptSpace() {
		n++
	}
	return n
}

func (s *Scanner) AcceptString(literal string) (int, bool) {
	var n int
	for _, c := range literal {
		if !s.AcceptRune(c) {
			return n, false
		}
		n++
	}
	return n, true
}

// LocStart returns a Location referencing the beginning of the current
// token, just beyond the end of the previous token.
func (s *Scanner) LocStart() *Location {
	return &Location{
		File: s.file,
		Path: s.path,
		Pos:  s.startPos,
		Line: s.startLine,
		Col:  s.startCol,
	}
}

// Loc returns a Location referencing the current scanner position.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Path: s.path,
		Pos:  s.pos,
		Line: s.line,
		Col:  s.col,
	}
}
