// Copyright © 2025 The Lambdust authors

package profiler_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akasaka-miraina/lambdust-sub006/parser"
	"github.com/akasaka-miraina/lambdust-sub006/scheme"
)

// testScheme exercises nested and recursive applications.  The docstring
// magic drives the doc filter and labeler tests: under WithDocFilter only
// the four user procedures trace, producing seven spans (four spin-down
// applications, then add-it, print-it, and the lambda).
const testScheme = `
(define (print-it x)
  "Write x to the output stream. @trace{ Print It }"
  (display x))
(define (add-it x y)
  "@trace{ Add It }"
  (+ x y))
(define (spin-down x)
  "Count x down to zero. @trace{ Spin Down }"
  (if (< 0 x) (spin-down (- x 1)) x))
(print-it (add-it (spin-down 3) 8))
((lambda (n) "@trace{ Bump }" (+ n 1)) 41)
`

func newProfilerEnv(t *testing.T) *scheme.Env {
	t.Helper()
	env := scheme.NewEnv(nil)
	rc := scheme.InitializeUserEnv(env,
		scheme.WithReader(parser.NewReader()),
		scheme.WithStdout(io.Discard),
		scheme.WithStderr(io.Discard),
	)
	require.False(t, rc.IsError(), "InitializeUserEnv: %v", scheme.GoError(rc))
	return env
}
