// Copyright © 2025 The Lambdust authors

package profiler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akasaka-miraina/lambdust-sub006/scheme"
	"github.com/akasaka-miraina/lambdust-sub006/scheme/x/profiler"
)

func TestPprofAnnotator(t *testing.T) {
	env := newProfilerEnv(t)

	ppa := profiler.NewPprofAnnotator(env.Runtime(), context.Background())
	// The pprof annotator decorates goroutine labels and writes no file of
	// its own.
	assert.Error(t, ppa.SetFile("pprof.out"))
	require.NoError(t, ppa.Enable())

	rc := env.LoadString("test.scm", testScheme)
	require.False(t, rc.IsError(), "eval: %v", scheme.GoError(rc))
	require.NoError(t, ppa.Complete())
}

func TestPprofAnnotatorNilContext(t *testing.T) {
	env := newProfilerEnv(t)

	// A nil parent context falls back to context.Background.
	ppa := profiler.NewPprofAnnotator(env.Runtime(), nil)
	require.NoError(t, ppa.Enable())

	rc := env.LoadString("test.scm", testScheme)
	require.False(t, rc.IsError(), "eval: %v", scheme.GoError(rc))
	require.NoError(t, ppa.Complete())
}
