// Copyright © 2025 The Lambdust authors

package profiler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/akasaka-miraina/lambdust-sub006/scheme"
	"github.com/akasaka-miraina/lambdust-sub006/scheme/x/profiler"
)

func setupOtelTestExporter(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	t.Cleanup(func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Error(err)
		}
	})
	otel.SetTracerProvider(tp)
	return exporter
}

func TestOpenTelemetryAnnotator(t *testing.T) {
	exporter := setupOtelTestExporter(t)

	env := newProfilerEnv(t)
	annotator := profiler.NewOpenTelemetryAnnotator(env.Runtime(), context.Background())
	require.NoError(t, annotator.Enable())

	rc := env.LoadString("test.scm", testScheme)
	require.False(t, rc.IsError(), "eval: %v", scheme.GoError(rc))
	require.NoError(t, annotator.Complete())

	// Every application traces, including builtins like display and <.
	spans := exporter.GetSpans()
	assert.GreaterOrEqual(t, len(spans), 6)
}

func TestOpenTelemetryAnnotatorDocFilter(t *testing.T) {
	exporter := setupOtelTestExporter(t)

	env := newProfilerEnv(t)
	annotator := profiler.NewOpenTelemetryAnnotator(env.Runtime(), context.Background(),
		profiler.WithDocFilter(),
		profiler.WithDocLabeler(),
	)
	require.NoError(t, annotator.Enable())

	rc := env.LoadString("test.scm", testScheme)
	require.False(t, rc.IsError(), "eval: %v", scheme.GoError(rc))
	require.NoError(t, annotator.Complete())

	// Only procedures carrying a @trace docstring produce spans.  Spans
	// arrive in end order: the recursive spin-down applications unwind
	// first, then add-it, print-it, and the traced lambda.
	spans := exporter.GetSpans()
	require.Len(t, spans, 7)
	assert.Equal(t, "Spin_Down", spans[0].Name)
	assert.Equal(t, "Spin_Down", spans[3].Name)
	assert.Equal(t, "Add_It", spans[4].Name)
	assert.Equal(t, "Print_It", spans[5].Name)
	assert.Equal(t, "Bump", spans[6].Name)
}

func TestOpenTelemetryAnnotatorRequiresContext(t *testing.T) {
	env := newProfilerEnv(t)
	annotator := profiler.NewOpenTelemetryAnnotator(env.Runtime(), nil)
	assert.Error(t, annotator.Enable())
}
