// Copyright © 2025 The Lambdust authors

package token

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// charNames maps the written names accepted in #\ character literals.  The
// table is shared by the parsers and by the printer, which renders these
// characters under the same names.
var charNames = map[string]rune{
	"space":     ' ',
	"newline":   '\n',
	"tab":       '\t',
	"return":    '\r',
	"null":      0x00,
	"alarm":     0x07,
	"backspace": 0x08,
	"delete":    0x7f,
	"escape":    0x1b,
}

// NamedChar returns the character written as name in a #\ literal.
func NamedChar(name string) (rune, bool) {
	c, ok := charNames[name]
	return c, ok
}

// CharName returns the written name of c, if it has one.
func CharName(c rune) (string, bool) {
	for name, r := range charNames {
		if r == c {
			return name, true
		}
	}
	return "", false
}

// UnquoteChar decodes the text of a CHAR token, including its #\ prefix.
// The text may spell a literal character, a named character, or a hex
// scalar value escape #\xHH.
func UnquoteChar(text string) (rune, error) {
	body := strings.TrimPrefix(text, `#\`)
	if body == text || body == "" {
		return 0, fmt.Errorf("invalid character literal: %s", text)
	}
	runes := []rune(body)
	if len(runes) == 1 {
		return runes[0], nil
	}
	if c, ok := charNames[body]; ok {
		return c, nil
	}
	if runes[0] == 'x' {
		n, err := strconv.ParseUint(body[1:], 16, 32)
		if err != nil || !utf8.ValidRune(rune(n)) {
			return 0, fmt.Errorf("invalid character literal: %s", text)
		}
		return rune(n), nil
	}
	return 0, fmt.Errorf("unknown character name: %s", body)
}

// UnquoteString decodes the text of a STRING token, including its
// surrounding double quotes.  Escape sequences \a \b \t \n \r \" \\ and
// \xHH; are decoded and a backslash immediately preceding a newline elides
// the newline along with any leading whitespace on the following line.
func UnquoteString(text string) (string, error) {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", fmt.Errorf("invalid string literal: %s", text)
	}
	s := text[1 : len(text)-1]
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var buf strings.Builder
	buf.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			buf.WriteByte(c)
			i++
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("trailing backslash in string literal")
		}
		switch s[i] {
		case 'a':
			buf.WriteByte('\a')
			i++
		case 'b':
			buf.WriteByte('\b')
			i++
		case 't':
			buf.WriteByte('\t')
			i++
		case 'n':
			buf.WriteByte('\n')
			i++
		case 'r':
			buf.WriteByte('\r')
			i++
		case '"':
			buf.WriteByte('"')
			i++
		case '\\':
			buf.WriteByte('\\')
			i++
		case 'x':
			j := strings.IndexByte(s[i:], ';')
			if j < 0 {
				return "", fmt.Errorf("unterminated hex escape in string literal")
			}
			n, err := strconv.ParseUint(s[i+1:i+j], 16, 32)
			if err != nil || !utf8.ValidRune(rune(n)) {
				return "", fmt.Errorf("invalid hex escape in string literal: \\x%s;", s[i+1:i+j])
			}
			buf.WriteRune(rune(n))
			i += j + 1
		case '\n':
			i++
			for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
				i++
			}
		default:
			return "", fmt.Errorf("invalid escape character %q in string literal", s[i])
		}
	}
	return buf.String(), nil
}

// ParseRadixInt decodes the text of an INT_RADIX token, including its #x,
// #o, or #b prefix.  A sign may follow the prefix.
func ParseRadixInt(text string) (int64, error) {
	if len(text) < 3 || text[0] != '#' {
		return 0, fmt.Errorf("invalid radix literal: %s", text)
	}
	var base int
	switch text[1] {
	case 'x', 'X':
		base = 16
	case 'o', 'O':
		base = 8
	case 'b', 'B':
		base = 2
	default:
		return 0, fmt.Errorf("invalid radix prefix: %s", text)
	}
	return strconv.ParseInt(text[2:], base, 64)
}
