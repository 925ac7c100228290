// Copyright © 2025 The Lambdust authors

package scheme_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/akasaka-miraina/lambdust-sub006/parser"
	"github.com/akasaka-miraina/lambdust-sub006/scheme"
	"github.com/akasaka-miraina/lambdust-sub006/schemetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestEnv(t *testing.T, config ...scheme.Config) *scheme.Env {
	t.Helper()
	env := scheme.NewEnv(nil)
	config = append([]scheme.Config{
		scheme.WithReader(parser.NewReader()),
		scheme.WithStderr(io.Discard),
	}, config...)
	rc := scheme.InitializeUserEnv(env, config...)
	require.False(t, rc.IsError(), "InitializeUserEnv: %v", scheme.GoError(rc))
	return env
}

// TestTextLoader parses a program once and evaluates it against independent
// environments.
func TestTextLoader(t *testing.T) {
	src := "(define counter 0) (set! counter (+ counter 1)) counter"
	loader, err := scheme.TextLoader(parser.NewReader(), "boot", strings.NewReader(src))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		env := initTestEnv(t)
		v := loader(env)
		require.False(t, v.IsError(), "load %d: %v", i, scheme.GoError(v))
		assert.Equal(t, "1", v.String(), "each environment starts fresh")

		v = env.LoadString("test", "counter")
		assert.Equal(t, "1", v.String(), "definitions landed in the environment")
	}
}

func TestTextLoaderRejectsSharedExpressions(t *testing.T) {
	_, err := scheme.TextLoader(parser.NewReader(), "boot", strings.NewReader("#(1 2 3)"))
	require.EqualError(t, err, "cannot cache shared reference expression: vector")

	_, err = scheme.TextLoader(parser.NewReader(), "boot", strings.NewReader("(define v #(1))"))
	require.EqualError(t, err, "cannot cache shared reference expression: vector")
}

func TestTextLoaderParseError(t *testing.T) {
	_, err := scheme.TextLoader(parser.NewReader(), "boot", strings.NewReader("("))
	require.EqualError(t, err, "boot:1:1: unmatched-syntax: unmatched (")
}

func TestLoaderMust(t *testing.T) {
	require.Panics(t, func() {
		scheme.LoaderMust(scheme.TextLoader(parser.NewReader(), "boot", strings.NewReader("(")))
	})

	loader := scheme.LoaderMust(scheme.TextLoader(parser.NewReader(), "boot", strings.NewReader("(+ 1 2)")))
	env := initTestEnv(t)
	assert.Equal(t, "3", loader(env).String())
}

// TestRelativeFileSystemLibrary loads a file that loads its neighbor by a
// location relative to itself.
func TestRelativeFileSystemLibrary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.scm"),
		[]byte("(load \"lib/util.scm\")\n(greet)"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib", "util.scm"),
		[]byte("(define (greet) \"hello from util\")"), 0o644))

	env := initTestEnv(t, scheme.WithLibrary(&scheme.RelativeFileSystemLibrary{}))
	v := env.LoadFile(filepath.Join(dir, "main.scm"))
	require.False(t, v.IsError(), "load: %v", scheme.GoError(v))
	assert.Equal(t, `"hello from util"`, v.String())
}

func TestRelativeFileSystemLibraryRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.scm"),
		[]byte("(load \"../outside.scm\")"), 0o644))

	env := initTestEnv(t, scheme.WithLibrary(&scheme.RelativeFileSystemLibrary{RootDir: dir}))
	v := env.LoadFile(filepath.Join(dir, "main.scm"))
	require.EqualError(t, scheme.GoError(v),
		"main.scm:1:1: load: library error: source location outside library root: ../outside.scm")
}

func TestFSLibrary(t *testing.T) {
	fsys := fstest.MapFS{
		"srv/boot.scm": &fstest.MapFile{Data: []byte("(load \"srv/dep.scm\")")},
		"srv/dep.scm":  &fstest.MapFile{Data: []byte("(* 6 7)")},
	}
	env := initTestEnv(t, scheme.WithLibrary(&scheme.FSLibrary{FS: fsys}))

	v := env.LoadFile("srv/boot.scm")
	require.False(t, v.IsError(), "load: %v", scheme.GoError(v))
	assert.Equal(t, "42", v.String())

	v = env.LoadFile("nope.scm")
	require.EqualError(t, scheme.GoError(v),
		"library error: open nope.scm: file does not exist")

	v = env.LoadFile("/abs.scm")
	require.EqualError(t, scheme.GoError(v),
		"library error: invalid source location: /abs.scm")
}

func TestLoadFileWithoutLibrary(t *testing.T) {
	env := initTestEnv(t)
	v := env.LoadFile("x.scm")
	require.EqualError(t, scheme.GoError(v), "no source library in environment runtime")
}

func TestLoadStringParseError(t *testing.T) {
	env := initTestEnv(t)
	v := env.LoadString("test", "(")
	require.EqualError(t, scheme.GoError(v), "test:1:1: unmatched-syntax: unmatched (")
}

func TestLoadBuiltin(t *testing.T) {
	tests := schemetest.TestSuite{
		{"load argument checks", schemetest.TestSequence{
			{"(load 5)", "test:1:1: load: not a string: 5", ""},
			{`(load "x.scm")`, "test:1:1: load: no source library in environment runtime", ""},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}
