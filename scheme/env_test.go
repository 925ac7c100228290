// Copyright © 2025 The Lambdust authors

package scheme_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/akasaka-miraina/lambdust-sub006/scheme"
	"github.com/akasaka-miraina/lambdust-sub006/schemetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvDefineAndLookup(t *testing.T) {
	root := scheme.NewEnv(nil)
	_, ok := root.Lookup("x")
	assert.False(t, ok)

	root.Define("x", scheme.Int(1))
	v, ok := root.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "1", v.String())

	child := root.Extend()
	v, ok = child.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "1", v.String())

	// An inner define shadows without touching the outer binding.
	child.Define("x", scheme.Int(2))
	v, _ = child.Lookup("x")
	assert.Equal(t, "2", v.String())
	v, _ = root.Lookup("x")
	assert.Equal(t, "1", v.String())
}

func TestEnvSetWalksTheChain(t *testing.T) {
	root := scheme.NewEnv(nil)
	root.Define("x", scheme.Int(1))
	child := root.Extend()

	require.True(t, child.Set("x", scheme.Int(9)))
	v, _ := root.Lookup("x")
	assert.Equal(t, "9", v.String())

	assert.False(t, child.Set("missing", scheme.Int(1)))
}

func TestEnvNamesKeepDefinitionOrder(t *testing.T) {
	env := scheme.NewEnv(nil)
	env.Define("b", scheme.Int(1))
	env.Define("a", scheme.Int(2))
	env.Define("b", scheme.Int(3))
	assert.Equal(t, []string{"b", "a"}, env.Names())
	assert.Equal(t, 2, env.Len())
	v, _ := env.Lookup("b")
	assert.Equal(t, "3", v.String())
}

func TestEnvGenerationAndRoot(t *testing.T) {
	root := scheme.NewEnv(nil)
	child := root.Extend()
	grand := child.Extend()
	assert.Equal(t, uint64(0), root.Generation())
	assert.Equal(t, uint64(1), child.Generation())
	assert.Equal(t, uint64(2), grand.Generation())
	assert.Same(t, root, grand.Root())
	assert.Same(t, child, grand.Parent())
	assert.Nil(t, root.Parent())
	assert.Same(t, root.Runtime(), grand.Runtime())
}

func TestDefineNamesProcedures(t *testing.T) {
	env := scheme.NewEnv(nil)
	fn := scheme.Lambda([]string{"x"}, "", []scheme.Value{scheme.Symbol("x")}, env, "")
	assert.Equal(t, "", fn.FunName())

	env.Define("first", fn)
	assert.Equal(t, "first", fn.FunName())

	// The first binding names the procedure for good.
	env.Define("second", fn)
	assert.Equal(t, "first", fn.FunName())
}

func TestEnvConcurrentAccess(t *testing.T) {
	env := scheme.NewEnv(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				name := fmt.Sprintf("g%d-%d", i, j)
				env.Define(name, scheme.Int(int64(j)))
				_, ok := env.Lookup(name)
				assert.True(t, ok)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 800, env.Len())
}

func BenchmarkEnvLookup(b *testing.B) {
	env := scheme.NewEnv(nil)
	env.Define("x", scheme.Int(1))
	leaf := env
	for i := 0; i < 8; i++ {
		leaf = leaf.Extend()
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		leaf.Lookup("x")
	}
}

func BenchmarkTailLoop(b *testing.B) {
	schemetest.RunBenchmark(b, `
		(define (spin n) (if (> n 0) (spin (- n 1)) 'done))
		(spin 1000)
	`)
}

func BenchmarkClosureCall(b *testing.B) {
	schemetest.RunBenchmark(b, `
		(define (compose f g) (lambda (x) (f (g x))))
		(define add3 (compose (lambda (x) (+ x 1)) (lambda (x) (+ x 2))))
		(add3 1)
	`)
}
