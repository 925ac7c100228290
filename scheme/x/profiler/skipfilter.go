// Copyright © 2025 The Lambdust authors

package profiler

import (
	"regexp"

	"github.com/akasaka-miraina/lambdust-sub006/scheme"
)

// SkipFilter reports whether an application of fun should be left out of
// the trace.
type SkipFilter func(fun scheme.Value) bool

// defaultSkipFilter drops anything that is not applicable.  The evaluator
// only starts the profiler for procedure kinds, so this is a guard against
// hand-built values.
func defaultSkipFilter(fun scheme.Value) bool {
	return !fun.IsProcedure()
}

// WithDocFilter filters the trace to applications of procedures whose
// docstring opts in to tracing.
func WithDocFilter() Option {
	return WithSkipFilter(docSkipFilter)
}

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// DocTrace is a magic string used to enable tracing in a profiler
// configured WithDocFilter.  All procedures with a docstring that contains
// this string will be traced.
const DocTrace = "@trace"

var docTraceRegExp = regexp.MustCompile(DocTrace)

func docSkipFilter(fun scheme.Value) bool {
	docStr := fun.Docstring()
	if docStr == "" {
		return true
	}
	// do not skip docstrings that include the trace constant
	return !docTraceRegExp.MatchString(docStr)
}
