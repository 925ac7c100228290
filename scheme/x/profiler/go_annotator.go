// Copyright © 2025 The Lambdust authors

package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/akasaka-miraina/lambdust-sub006/scheme"
)

// pprofAnnotator appends pprof labels to samples if pprof is enabled.  It
// never starts pprof itself: the embedding program decides when profiles
// are collected.  Note that pprof's fixed 100Hz sampling rate makes short
// evaluations unlikely to appear at all.
type pprofAnnotator struct {
	profiler
	currentContext context.Context
}

var _ scheme.Profiler = &pprofAnnotator{}

// NewPprofAnnotator returns a profiler that labels goroutine samples with
// the procedure being applied.  A nil parentContext gets the background
// context at Enable time.
func NewPprofAnnotator(runtime *scheme.Runtime, parentContext context.Context, opts ...Option) *pprofAnnotator {
	p := &pprofAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.currentContext == nil {
		p.currentContext = context.Background()
	}
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	pprof.SetGoroutineLabels(context.Background())
	return nil
}

func (p *pprofAnnotator) Start(fun scheme.Value) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	// The context is kept on a stack of closures here rather than using
	// pprof.Do, which would cost an extra stack entry for every
	// application even when nothing is being profiled.
	oldContext := p.currentContext
	prettyLabel, _ := p.prettyFunName(fun)
	p.currentContext = pprof.WithLabels(p.currentContext, pprof.Labels("function", prettyLabel))
	// Apply the selected labels to the current goroutine.  These propagate
	// if the evaluation branches into new goroutines further down.
	pprof.SetGoroutineLabels(p.currentContext)

	return func() {
		p.currentContext = oldContext
		pprof.SetGoroutineLabels(p.currentContext)
	}
}
