// Copyright © 2025 The Lambdust authors

package profiler

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akasaka-miraina/lambdust-sub006/parser"
	"github.com/akasaka-miraina/lambdust-sub006/scheme"
)

func loadProcedure(t *testing.T, env *scheme.Env, src string) scheme.Value {
	t.Helper()
	v := env.LoadString("test.scm", src)
	require.False(t, v.IsError(), "load: %v", scheme.GoError(v))
	require.True(t, v.IsProcedure())
	return v
}

func TestDocSkipFilter(t *testing.T) {
	env := scheme.NewEnv(nil)
	rc := scheme.InitializeUserEnv(env,
		scheme.WithReader(parser.NewReader()),
		scheme.WithStdout(io.Discard),
		scheme.WithStderr(io.Discard),
	)
	require.False(t, rc.IsError(), "InitializeUserEnv: %v", scheme.GoError(rc))

	traced := loadProcedure(t, env, `(define (f x) "@trace" x) f`)
	assert.False(t, docSkipFilter(traced))

	plain := loadProcedure(t, env, `(define (g x) "count down" x) g`)
	assert.True(t, docSkipFilter(plain))

	bare := loadProcedure(t, env, `(define (h x) x) h`)
	assert.True(t, docSkipFilter(bare))
}

func TestDefaultSkipFilter(t *testing.T) {
	env := scheme.NewEnv(nil)
	rc := scheme.InitializeUserEnv(env,
		scheme.WithReader(parser.NewReader()),
		scheme.WithStdout(io.Discard),
		scheme.WithStderr(io.Discard),
	)
	require.False(t, rc.IsError(), "InitializeUserEnv: %v", scheme.GoError(rc))

	fun := loadProcedure(t, env, `(define (f x) x) f`)
	assert.False(t, defaultSkipFilter(fun))
	assert.True(t, defaultSkipFilter(scheme.Int(1)))
	assert.True(t, defaultSkipFilter(scheme.Nil()))
}
