// Copyright © 2025 The Lambdust authors

package scheme

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/akasaka-miraina/lambdust-sub006/intern"
	"github.com/akasaka-miraina/lambdust-sub006/parser/token"
)

// writer accumulates the external representation of a value.  It exists so
// heap objects can render themselves without each allocating a builder.
type writer struct {
	strings.Builder
}

// String renders v in write form: strings quoted and escaped, characters
// in #\ notation.  The result reads back as the same value for every kind
// with a read syntax.
func (v Value) String() string {
	var buf writer
	v.write(&buf, false)
	return buf.String()
}

// DisplayString renders v in display form: strings and characters appear
// as their raw text.  Aggregate kinds render their elements in display
// form too.
func (v Value) DisplayString() string {
	var buf writer
	v.write(&buf, true)
	return buf.String()
}

// Format implements fmt.Formatter so %v and %s both print the write form.
func (v Value) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v', 's':
		fmt.Fprint(s, v.String())
	default:
		fmt.Fprintf(s, "%%!%c(scheme.Value=%s)", verb, v.String())
	}
}

func (v Value) write(buf *writer, display bool) {
	switch v.tag {
	case TNil:
		buf.WriteString("()")
	case TBool:
		if v.word != 0 {
			buf.WriteString("#t")
		} else {
			buf.WriteString("#f")
		}
	case TInt:
		buf.WriteString(strconv.FormatInt(int64(v.fixnum()), 10))
	case TChar:
		writeChar(buf, v.char(), display)
	case TUnspecified:
		buf.WriteString("#<unspecified>")
	case TEOF:
		buf.WriteString("#<eof>")
	case TSymbol:
		name, ok := intern.Name(v.symbolID())
		if !ok {
			fmt.Fprintf(buf, "#<symbol %d>", v.symbolID())
			return
		}
		buf.WriteString(name)
	default:
		v.obj.writeObject(buf, display)
	}
}

func writeChar(buf *writer, r rune, display bool) {
	if display {
		buf.WriteRune(r)
		return
	}
	buf.WriteString("#\\")
	if name, ok := token.CharName(r); ok {
		buf.WriteString(name)
		return
	}
	if strconv.IsPrint(r) {
		buf.WriteRune(r)
		return
	}
	fmt.Fprintf(buf, "x%x", r)
}

// writeString renders s with the escapes that read back identically.
func writeString(buf *writer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\t':
			buf.WriteString(`\t`)
		case '\r':
			buf.WriteString(`\r`)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}

// formatFloat renders a heap number.  Integral floats keep a trailing ".0"
// so the printed form reads back as the same kind.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	switch s {
	case "+Inf":
		return "+inf.0"
	case "-Inf":
		return "-inf.0"
	case "NaN":
		return "+nan.0"
	}
	return s
}
