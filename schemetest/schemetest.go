// Copyright © 2025 The Lambdust authors

// Package schemetest provides helpers for testing the interpreter and code
// written against it.  Expression tables run against isolated environments
// so one test's definitions never leak into another, and script runners
// evaluate whole source files, reporting failures with the stack trace
// captured when the error was raised.
package schemetest

import (
	"bytes"
	"io"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/akasaka-miraina/lambdust-sub006/parser"
	"github.com/akasaka-miraina/lambdust-sub006/scheme"
)

// BenchmarkParse returns a benchmark function that repeatedly parses the
// source file at path with readers produced by r.
func BenchmarkParse(path string, r func() scheme.Reader) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			_, err := r().Read("test", bytes.NewReader(buf))
			if err != nil {
				b.Fatalf("Parse failure: %v", err)
			}
		}
	}
}

// TestSequence is a sequence of expressions which are evaluated
// sequentially by a shared environment.
type TestSequence []struct {
	Expr   string // an expression
	Result string // the evaluated result, rendered with Render
	Output string // debug output written to Runtime.Stderr
}

// TestSuite is a set of named TestSequences.
type TestSuite []struct {
	Name string
	TestSequence
}

// Render renders an evaluation result for comparison against a
// TestSequence expectation.  Error values render through their Go error
// form, which carries the source location and condition, and every other
// value renders in write form.
func Render(v scheme.Value) string {
	if err := scheme.GoError(v); err != nil {
		return err.Error()
	}
	return v.String()
}

// RunTestSuite runs each TestSequence in tests on an isolated environment.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		log.Printf("test %d -- %s", i, test.Name)
		env := scheme.NewEnv(nil)
		var exprBuf bytes.Buffer
		err := scheme.GoError(scheme.InitializeUserEnv(env,
			scheme.WithMaximumLogicalStackHeight(scheme.DefaultMaxLogicalStackHeight),
			scheme.WithMaximumPhysicalStackHeight(scheme.DefaultMaxPhysicalStackHeight),
			scheme.WithReader(parser.NewReader()),
			scheme.WithStderr(io.MultiWriter(os.Stderr, &exprBuf)),
		))
		if err != nil {
			t.Errorf("test %d %q: %v", i, test.Name, err)
			continue
		}
		for j, expr := range test.TestSequence {
			exprBuf.Reset()
			v, err := env.Runtime().Reader.Read("test", strings.NewReader(expr.Expr))
			if err != nil {
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				continue
			}
			if len(v) == 0 {
				t.Errorf("test %d %q: expr %d: no expression parsed", i, test.Name, j)
				continue
			}
			if len(v) != 1 {
				t.Errorf("test %d %q: expr %d: more than one expression parsed (%d)", i, test.Name, j, len(v))
				continue
			}
			result := Render(env.Eval(v[0]))
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			if exprBuf.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected debug output %q (got %q)", i, test.Name, j, expr.Output, exprBuf.String())
			}
		}
	}
}

// RunScript evaluates the source file at path in a fresh environment and
// fails t if evaluation raises an error.  Relative load locations inside
// the script resolve against the script's own directory.  Config functions
// run after the builtins are installed.
func RunScript(t *testing.T, path string, config ...scheme.Config) {
	logger := NewLogger(t)
	defer logger.Flush()
	env := scheme.NewEnv(nil)
	config = append([]scheme.Config{
		scheme.WithReader(parser.NewReader()),
		scheme.WithLibrary(&scheme.RelativeFileSystemLibrary{}),
		scheme.WithStderr(logger),
	}, config...)
	err := scheme.GoError(scheme.InitializeUserEnv(env, config...))
	if err != nil {
		t.Fatalf("failed to initialize environment: %v", err)
	}
	err = scheme.GoError(env.LoadFile(path))
	if err != nil {
		SchemeError(t, err)
	}
}

// SchemeError reports err as a test failure.  Interpreter errors are
// reported with the call stack captured when they were raised; other
// errors are reported as-is.
func SchemeError(t testing.TB, err error) {
	lerr, ok := err.(*scheme.ErrorVal)
	if !ok {
		t.Error(err)
		return
	}
	var buf bytes.Buffer
	_, ioerr := lerr.WriteTrace(&buf)
	if ioerr != nil {
		t.Errorf("io error: %v", ioerr)
		t.Error(err)
		return
	}
	t.Error(buf.String())
}

// RunBenchmark runs a standard benchmark that executes expressions parsed
// from source.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	p := parser.NewReader()
	exprs, err := p.Read("benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		env := scheme.NewEnv(nil)
		err := scheme.GoError(scheme.InitializeUserEnv(env,
			scheme.WithMaximumLogicalStackHeight(scheme.DefaultMaxLogicalStackHeight),
			scheme.WithMaximumPhysicalStackHeight(scheme.DefaultMaxPhysicalStackHeight),
			scheme.WithReader(p),
			scheme.WithStderr(io.Discard),
		))
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		for i, expr := range exprs {
			v := env.Eval(expr)
			if v.IsError() {
				b.Fatalf("expr %d: %v", i, Render(v))
			}
		}
		b.StopTimer()
	}
}
