// Copyright © 2025 The Lambdust authors

package scheme

import (
	"context"
	"io"
)

// Config is a function that configures a root environment or its runtime.
type Config func(env *Env) Value

// WithMaximumLogicalStackHeight returns a Config that will prevent an
// execution environment from allowing the logical stack height to exceed
// n.  The logical height of the stack is the stack's physical height plus
// the number of stack frames which have been elided by tail call
// collapsing.
func WithMaximumLogicalStackHeight(n int) Config {
	return func(env *Env) Value {
		env.Runtime().Stack.MaxHeightLogical = n
		return Nil()
	}
}

// WithMaximumPhysicalStackHeight returns a Config that will prevent an
// execution environment from allowing the physical stack height to exceed
// n.  The physical stack height is the literal number of frames in the
// call stack and does not count frames elided by tail call collapsing.
func WithMaximumPhysicalStackHeight(n int) Config {
	return func(env *Env) Value {
		env.Runtime().Stack.MaxHeightPhysical = n
		return Nil()
	}
}

// WithLoader returns a Config that executes fn against the environment
// during initialization.  It adapts a Loader, letting pre-parsed programs
// run where a Config is expected.
func WithLoader(fn Loader) Config {
	return func(env *Env) Value {
		return fn(env)
	}
}

// WithReader returns a Config that makes environments use r to parse
// source streams.  There is no default Reader for an environment.
func WithReader(r Reader) Config {
	return func(env *Env) Value {
		env.Runtime().Reader = r
		return Nil()
	}
}

// WithStderr returns a Config that makes environments write debugging
// output to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(env *Env) Value {
		env.Runtime().Stderr = w
		return Nil()
	}
}

// WithStdout returns a Config that makes environments write program
// output to w instead of the default, os.Stdout.  The current-output-port
// parameter is rebound to match.
func WithStdout(w io.Writer) Config {
	return func(env *Env) Value {
		env.Runtime().Stdout = w
		env.Root().Define("current-output-port",
			MakeParameter("current-output-port", NewOutputPort("stdout", w), Nil()))
		return Nil()
	}
}

// WithStdin returns a Config that makes environments read program input
// from r.  The current-input-port parameter is rebound to match.
func WithStdin(r io.Reader) Config {
	return func(env *Env) Value {
		env.Runtime().Stdin = r
		env.Root().Define("current-input-port",
			MakeParameter("current-input-port", NewInputPort("stdin", r), Nil()))
		return Nil()
	}
}

// WithLibrary returns a Config that makes environments use l as a source
// library.
func WithLibrary(l SourceLibrary) Config {
	return func(env *Env) Value {
		env.Runtime().Library = l
		return Nil()
	}
}

// WithContext returns a Config that sets the context for the root
// environment.  The context is polled between procedure applications; if
// it is cancelled or its deadline expires, evaluation returns an
// interrupted error.
func WithContext(ctx context.Context) Config {
	return func(env *Env) Value {
		env.Runtime().Context = ctx
		return Nil()
	}
}

// WithMaxSteps returns a Config that bounds the number of procedure
// applications an evaluation may perform before returning an interrupted
// error.  A value of 0 means unlimited (the default).
func WithMaxSteps(n uint64) Config {
	return func(env *Env) Value {
		env.Runtime().MaxSteps = n
		return Nil()
	}
}

// WithProfiler returns a Config that attaches a profiler to the runtime.
// While a profiler is enabled, tail calls are not collapsed so every
// application gets balanced start and end marks.
func WithProfiler(p Profiler) Config {
	return func(env *Env) Value {
		env.Runtime().Profiler = p
		return Nil()
	}
}
