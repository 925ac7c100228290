// Copyright © 2025 The Lambdust authors

package scheme_test

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/akasaka-miraina/lambdust-sub006/parser"
	"github.com/akasaka-miraina/lambdust-sub006/scheme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardRuntimeDefaults(t *testing.T) {
	rt := scheme.StandardRuntime()
	assert.Equal(t, scheme.DefaultMaxLogicalStackHeight, rt.Stack.MaxHeightLogical)
	assert.Equal(t, scheme.DefaultMaxPhysicalStackHeight, rt.Stack.MaxHeightPhysical)
	assert.Equal(t, os.Stdout, rt.Stdout)
	assert.Equal(t, os.Stderr, rt.Stderr)
	assert.Equal(t, os.Stdin, rt.Stdin)
	assert.Equal(t, 0, rt.Stack.Len())
}

func TestGenSym(t *testing.T) {
	rt := scheme.NewEnv(nil).Runtime()
	assert.Equal(t, "gen00000001", rt.GenSym())
	assert.Equal(t, "gen00000002", rt.GenSym())

	other := scheme.NewEnv(nil).Runtime()
	assert.Equal(t, "gen00000001", other.GenSym(), "runtimes count independently")
}

// TestMaxStepsInterrupts bounds an evaluation by procedure applications.
// Special forms do not count; each builtin or closure application counts
// one step.
func TestMaxStepsInterrupts(t *testing.T) {
	env := scheme.NewEnv(nil)
	rc := scheme.InitializeUserEnv(env,
		scheme.WithReader(parser.NewReader()),
		scheme.WithMaxSteps(5),
		scheme.WithStderr(io.Discard),
	)
	require.False(t, rc.IsError(), "InitializeUserEnv: %v", scheme.GoError(rc))

	v := env.LoadString("test", "(define six (+ 1 (+ 2 3)))")
	require.False(t, v.IsError(), "define: %v", scheme.GoError(v))
	assert.Equal(t, uint64(2), env.Runtime().Steps())

	v = env.LoadString("test", "(+ six six)")
	require.False(t, v.IsError())
	assert.Equal(t, "12", v.String())

	v = env.LoadString("test", "(list six six)")
	require.False(t, v.IsError())
	assert.Equal(t, "(6 6)", v.String())

	v = env.LoadString("test", "(+ 1 1)")
	require.False(t, v.IsError())
	assert.Equal(t, "2", v.String())
	assert.Equal(t, uint64(5), env.Runtime().Steps())

	v = env.LoadString("test", "(+ 1 1)")
	require.EqualError(t, scheme.GoError(v),
		"test:1:1: interrupted: step budget exceeded: 5")
	assert.Equal(t, uint64(6), env.Runtime().Steps())
}

func TestContextCancelsEvaluation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env := scheme.NewEnv(nil)
	rc := scheme.InitializeUserEnv(env,
		scheme.WithReader(parser.NewReader()),
		scheme.WithContext(ctx),
		scheme.WithStderr(io.Discard),
	)
	require.False(t, rc.IsError(), "InitializeUserEnv: %v", scheme.GoError(rc))

	v := env.LoadString("test", "(+ 1 1)")
	require.EqualError(t, scheme.GoError(v),
		"test:1:1: interrupted: context canceled")
}

func TestContextLeftAloneEvaluates(t *testing.T) {
	env := scheme.NewEnv(nil)
	rc := scheme.InitializeUserEnv(env,
		scheme.WithReader(parser.NewReader()),
		scheme.WithContext(context.Background()),
		scheme.WithStderr(io.Discard),
	)
	require.False(t, rc.IsError(), "InitializeUserEnv: %v", scheme.GoError(rc))

	v := env.LoadString("test", "(+ 1 1)")
	require.False(t, v.IsError(), "eval: %v", scheme.GoError(v))
	assert.Equal(t, "2", v.String())
}
