// Copyright © 2025 The Lambdust authors

// Package profiler provides scheme.Profiler implementations that trace
// procedure applications: a callgrind file writer, a pprof label
// annotator, and span annotators for OpenTelemetry and OpenCensus.
package profiler

import (
	"fmt"

	"github.com/akasaka-miraina/lambdust-sub006/parser/token"
	"github.com/akasaka-miraina/lambdust-sub006/scheme"
)

// profiler is a minimal scheme.Profiler
type profiler struct {
	runtime    *scheme.Runtime
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

var _ scheme.Profiler = &profiler{}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) SetFile(filename string) error {
	return fmt.Errorf("this profiler writes no output file")
}

func (p *profiler) Complete() error {
	p.enabled = false
	return nil
}

func (p *profiler) Start(fun scheme.Value) func() {
	return func() {}
}

// defaultFunName constructs a display name for a procedure, falling back
// to its function identifier when it was never bound to a symbol.
func defaultFunName(fun scheme.Value) string {
	if !fun.IsProcedure() {
		return ""
	}
	if name := fun.FunName(); name != "" {
		return name
	}
	return fun.FID()
}

// prettyFunName returns a trace label and the original name for a
// procedure.  If no labeler is set, or the labeler produces nothing, the
// label is the original name.
func (p *profiler) prettyFunName(fun scheme.Value) (string, string) {
	origLabel := defaultFunName(fun)
	if origLabel == "" {
		return "", ""
	}
	prettyLabel := origLabel
	if p.funLabeler != nil {
		prettyLabel = p.funLabeler(p.runtime, fun)
	}
	if prettyLabel == "" {
		prettyLabel = origLabel
	}

	return prettyLabel, origLabel
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(v scheme.Value) bool {
	return !p.enabled || defaultSkipFilter(v) || p.skipFilter != nil && p.skipFilter(v)
}

// getSourceLoc returns the location a procedure value carries, usually its
// definition site.  Builtins and synthesized closures have none.
func getSourceLoc(fun scheme.Value) *token.Location {
	return fun.Source()
}
