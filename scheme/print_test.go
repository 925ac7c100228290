// Copyright © 2025 The Lambdust authors

package scheme_test

import (
	"math"
	"testing"

	"github.com/akasaka-miraina/lambdust-sub006/scheme"
	"github.com/stretchr/testify/assert"
)

func TestWriteForms(t *testing.T) {
	tests := []struct {
		v    scheme.Value
		want string
	}{
		{scheme.Nil(), "()"},
		{scheme.True(), "#t"},
		{scheme.False(), "#f"},
		{scheme.Unspecified(), "#<unspecified>"},
		{scheme.EOFObject(), "#<eof>"},
		{scheme.Int(42), "42"},
		{scheme.Int(-7), "-7"},
		{scheme.Float(2.5), "2.5"},
		{scheme.Float(1e21), "1e+21"},
		{scheme.Float(-1.2e13), "-1.2e+13"},
		{scheme.Float(math.Inf(1)), "+inf.0"},
		{scheme.Float(math.Inf(-1)), "-inf.0"},
		{scheme.Float(math.NaN()), "+nan.0"},
		{scheme.Char('a'), `#\a`},
		{scheme.Char(' '), `#\space`},
		{scheme.Char('\n'), `#\newline`},
		{scheme.Char('\t'), `#\tab`},
		{scheme.Char(0x7f), `#\delete`},
		{scheme.Char(1), `#\x1`},
		{scheme.Char('λ'), `#\λ`},
		{scheme.Symbol("abc"), "abc"},
		{scheme.Keyword("rest"), "#:rest"},
		{scheme.String("hi"), `"hi"`},
		{scheme.String("a\"b\n\tc\r\\d"), `"a\"b\n\tc\r\\d"`},
		{scheme.Cons(scheme.Int(1), scheme.Int(2)), "(1 . 2)"},
		{scheme.List(scheme.Int(1), scheme.Int(2), scheme.Int(3)), "(1 2 3)"},
		{scheme.Cons(scheme.Int(1), scheme.Cons(scheme.Int(2), scheme.Int(3))), "(1 2 . 3)"},
		{scheme.List(scheme.Symbol("quote"), scheme.Symbol("x")), "'x"},
		{scheme.List(scheme.Symbol("quasiquote"), scheme.List(scheme.Symbol("unquote"), scheme.Symbol("x"))), "`,x"},
		{scheme.List(scheme.Symbol("unquote-splicing"), scheme.Symbol("x")), ",@x"},
		{scheme.Vector(), "#()"},
		{scheme.Vector(scheme.Int(1), scheme.String("a")), `#(1 "a")`},
		{scheme.Bytes(nil), "#u8()"},
		{scheme.Bytes([]byte{1, 2, 255}), "#u8(1 2 255)"},
		{scheme.Error(scheme.String("boom"), scheme.Int(1)), `#<error error "boom" 1>`},
		{scheme.ErrorCondition("wrong-type", scheme.String("oops")), `#<error wrong-type "oops">`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.v.String())
	}
}

func TestDisplayForms(t *testing.T) {
	tests := []struct {
		v    scheme.Value
		want string
	}{
		{scheme.String("a\"b\n"), "a\"b\n"},
		{scheme.Char('a'), "a"},
		{scheme.Char(' '), " "},
		{scheme.List(scheme.String("a"), scheme.Char('b')), "(a b)"},
		{scheme.Vector(scheme.String("a")), "#(a)"},
		{scheme.Int(42), "42"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.v.DisplayString())
	}
}

func TestProcedurePrintForms(t *testing.T) {
	env := scheme.NewEnv(nil)
	fn := scheme.Lambda([]string{"x"}, "", []scheme.Value{scheme.Symbol("x")}, env, "")
	assert.Regexp(t, `^#<procedure fun\d{8}>$`, fn.String())
	env.Define("identity", fn)
	assert.Equal(t, "#<procedure identity>", fn.String())

	prim := scheme.Primitive("frob", 0, 0, "", func(rt *scheme.Runtime, env *scheme.Env, args []scheme.Value) scheme.Value {
		return scheme.Nil()
	})
	assert.Equal(t, "#<builtin frob>", prim.String())
}
