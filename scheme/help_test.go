// Copyright © 2025 The Lambdust authors

package scheme_test

import (
	"strings"
	"testing"

	"github.com/akasaka-miraina/lambdust-sub006/scheme"
	"github.com/akasaka-miraina/lambdust-sub006/schemetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHelpBuiltin(t *testing.T) {
	env := initTestEnv(t)
	car, ok := env.Lookup("car")
	require.True(t, ok)

	var buf strings.Builder
	require.NoError(t, scheme.RenderHelp(&buf, "car", car))
	assert.Equal(t, "builtin (car pair)\n  Return the first field of a pair.\n", buf.String())

	help, ok := env.Lookup("help")
	require.True(t, ok)
	buf.Reset()
	require.NoError(t, scheme.RenderHelp(&buf, "help", help))
	assert.Equal(t,
		"builtin (help [value])\n  Print documentation for a procedure or list bound symbols.\n",
		buf.String())
}

func TestRenderHelpProcedure(t *testing.T) {
	env := initTestEnv(t)
	v := env.LoadString("test", `(define (add2 x y) "Add two numbers." (+ x y))`)
	require.False(t, v.IsError(), "define: %v", scheme.GoError(v))

	add2, ok := env.Lookup("add2")
	require.True(t, ok)
	var buf strings.Builder
	require.NoError(t, scheme.RenderHelp(&buf, "add2", add2))
	assert.Equal(t, "procedure (add2 x y)\n  Add two numbers.\n", buf.String())

	v = env.LoadString("test", `(define (f . args) "Collect." args)`)
	require.False(t, v.IsError())
	f, ok := env.Lookup("f")
	require.True(t, ok)
	buf.Reset()
	require.NoError(t, scheme.RenderHelp(&buf, "f", f))
	assert.Equal(t, "procedure (f . args)\n  Collect.\n", buf.String())

	v = env.LoadString("test", "(define (g x . rest) rest)")
	require.False(t, v.IsError())
	g, ok := env.Lookup("g")
	require.True(t, ok)
	buf.Reset()
	require.NoError(t, scheme.RenderHelp(&buf, "g", g))
	assert.Equal(t, "procedure (g x . rest)\n", buf.String())
}

func TestRenderHelpCaseLambda(t *testing.T) {
	env := initTestEnv(t)
	v := env.LoadString("test", "(define pick (case-lambda ((x) x) ((x y) y)))")
	require.False(t, v.IsError(), "define: %v", scheme.GoError(v))

	pick, ok := env.Lookup("pick")
	require.True(t, ok)
	var buf strings.Builder
	require.NoError(t, scheme.RenderHelp(&buf, "pick", pick))
	assert.Equal(t, "procedure (pick x)\nprocedure (pick x y)\n", buf.String())
}

func TestRenderHelpValue(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, scheme.RenderHelp(&buf, "five", scheme.Int(5)))
	assert.Equal(t, "fixnum five 5\n", buf.String())
}

// TestRenderHelpDedent exercises the docstring normalization: continuation
// lines lose the indentation they inherited from the source.
func TestRenderHelpDedent(t *testing.T) {
	env := initTestEnv(t)
	v := env.LoadString("test",
		`(define (h x) "Sum both arguments.\n    The second line came indented." x)`)
	require.False(t, v.IsError(), "define: %v", scheme.GoError(v))

	h, ok := env.Lookup("h")
	require.True(t, ok)
	var buf strings.Builder
	require.NoError(t, scheme.RenderHelp(&buf, "h", h))
	assert.Equal(t,
		"procedure (h x)\n  Sum both arguments.\n  The second line came indented.\n",
		buf.String())
}

func TestRenderBoundSymbols(t *testing.T) {
	env := scheme.NewEnv(nil)
	env.Define("b", scheme.Int(1))
	env.Define("a", scheme.Int(2))
	child := env.Extend()
	child.Define("a", scheme.Int(3))

	var buf strings.Builder
	require.NoError(t, scheme.RenderBoundSymbols(&buf, child))
	assert.Equal(t, "a b\n", buf.String())
}

func TestHelpBuiltin(t *testing.T) {
	tests := schemetest.TestSuite{
		{"help writes to the current output port", schemetest.TestSequence{
			{"(define sp (open-output-string))", "#<unspecified>", ""},
			{"(parameterize ((current-output-port sp)) (help 'car))", "#<unspecified>", ""},
			{"(get-output-string sp)", `"builtin (car pair)\n  Return the first field of a pair.\n"`, ""},
		}},
		{"help takes procedures directly", schemetest.TestSequence{
			{"(define sp (open-output-string))", "#<unspecified>", ""},
			{"(parameterize ((current-output-port sp)) (help car))", "#<unspecified>", ""},
			{"(get-output-string sp)", `"builtin (car pair)\n  Return the first field of a pair.\n"`, ""},
		}},
		{"help argument checks", schemetest.TestSequence{
			{"(help 'zzz)", "test:1:1: unbound-symbol: help: unbound symbol: zzz", ""},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}
