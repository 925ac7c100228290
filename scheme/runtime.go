// Copyright © 2025 The Lambdust authors

package scheme

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// DefaultMaxLogicalStackHeight bounds the logical call depth of a
	// standard runtime, counting tail calls collapsed into their caller's
	// frame.
	DefaultMaxLogicalStackHeight = 50000
	// DefaultMaxPhysicalStackHeight bounds the live frames of a standard
	// runtime.  Physical frames cost Go stack, so the limit trips before
	// the goroutine stack is exhausted.
	DefaultMaxPhysicalStackHeight = 25000
)

// Runtime holds the state shared by a tree of Env frames: the call stack,
// standard streams, source loading, profiling hooks, and identifier
// generation.
type Runtime struct {
	Stderr   io.Writer
	Stdout   io.Writer
	Stdin    io.Reader
	Stack    *CallStack
	Reader   Reader
	Library  SourceLibrary
	Profiler Profiler

	// Context, when set, is polled between procedure applications so
	// cancellation interrupts evaluation.
	Context context.Context

	// MaxSteps, when positive, bounds the number of procedure
	// applications an evaluation may perform.
	MaxSteps uint64

	steps  atomicCounter
	numsym atomicCounter
}

// StandardRuntime returns a new Runtime bound to the process's standard
// streams, with the default stack limits.
func StandardRuntime() *Runtime {
	return &Runtime{
		Stderr: os.Stderr,
		Stdout: os.Stdout,
		Stdin:  os.Stdin,
		Stack: &CallStack{
			MaxHeightLogical:  DefaultMaxLogicalStackHeight,
			MaxHeightPhysical: DefaultMaxPhysicalStackHeight,
		},
	}
}

func (r *Runtime) stdin() io.Reader {
	if r.Stdin != nil {
		return r.Stdin
	}
	return strings.NewReader("")
}

func (r *Runtime) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return io.Discard
}

func (r *Runtime) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return io.Discard
}

// runtimeWriter resolves the runtime's output stream on every write so that
// configuration applied after the standard ports are built still takes
// effect.
type runtimeWriter struct{ rt *Runtime }

func (w runtimeWriter) Write(p []byte) (int, error) { return w.rt.stdout().Write(p) }

// runtimeReader is the input counterpart of runtimeWriter.
type runtimeReader struct{ rt *Runtime }

func (r runtimeReader) Read(p []byte) (int, error) { return r.rt.stdin().Read(p) }

// GenSym returns an identifier that cannot collide with any symbol read
// from source.
func (r *Runtime) GenSym() string {
	return fmt.Sprintf("gen%08d", r.numsym.Add(1))
}

// Steps returns the number of procedure applications evaluated so far.
func (r *Runtime) Steps() uint64 {
	return r.steps.Load()
}

// countStep records one procedure application and reports whether
// evaluation should be interrupted by the step budget or context
// cancellation.
func (r *Runtime) countStep() error {
	n := r.steps.Add(1)
	if r.MaxSteps > 0 && n > r.MaxSteps {
		return fmt.Errorf("step budget exceeded: %d", r.MaxSteps)
	}
	if r.Context != nil {
		select {
		case <-r.Context.Done():
			return r.Context.Err()
		default:
		}
	}
	return nil
}

// sourceContext reports the file containing the load expression currently
// being evaluated, so relative loads resolve against the loading file.
func (r *Runtime) sourceContext() SourceContext {
	if top := r.Stack.Top(); top != nil && top.Source != nil {
		return &sourceContext{name: top.Source.File, loc: top.Source.Path}
	}
	return &sourceContext{}
}

// Profiler hooks procedure applications for trace collection.  Start is
// called as application begins and the returned function is called when it
// completes; implementations decide what to record between the two.
type Profiler interface {
	// IsEnabled reports whether Start should be consulted at all.
	IsEnabled() bool
	// Enable starts the profiling session.
	Enable() error
	// SetFile directs output to the named file for profilers that write
	// one.
	SetFile(filename string) error
	// Complete ends the session and flushes pending output.
	Complete() error
	// Start marks a procedure application, returning the matching end
	// mark.
	Start(fun Value) func()
}
