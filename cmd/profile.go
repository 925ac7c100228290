// Copyright © 2025 The Lambdust authors

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/pprof"

	octrace "go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/akasaka-miraina/lambdust-sub006/scheme"
	"github.com/akasaka-miraina/lambdust-sub006/scheme/x/profiler"
)

// enableProfiler attaches the profiler selected by --profile to env and
// returns a function that flushes and detaches it. With no --profile the
// returned function is a no-op.
func enableProfiler(env *scheme.Env) (func() error, error) {
	if runProfile != "" {
		slog.Debug("enabling profiler", "profile", runProfile)
	}
	switch runProfile {
	case "":
		return func() error { return nil }, nil
	case "callgrind":
		return enableCallgrind(env)
	case "pprof":
		return enablePprof(env)
	case "otel":
		return enableOpenTelemetry(env)
	case "opencensus":
		return enableOpenCensus(env)
	default:
		return nil, fmt.Errorf("unknown profiler: %s", runProfile)
	}
}

func profileOutput(fallback string) string {
	if runProfileOut != "" {
		return runProfileOut
	}
	return fallback
}

func enableCallgrind(env *scheme.Env) (func() error, error) {
	p := profiler.NewCallgrindProfiler(env.Runtime())
	if err := p.SetFile(profileOutput("callgrind.out")); err != nil {
		return nil, err
	}
	if err := p.Enable(); err != nil {
		return nil, err
	}
	return p.Complete, nil
}

func enablePprof(env *scheme.Env) (func() error, error) {
	f, err := os.Create(profileOutput("cpu.pprof"))
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close() //nolint:errcheck,gosec // nothing was written
		return nil, err
	}
	p := profiler.NewPprofAnnotator(env.Runtime(), context.Background())
	if err := p.Enable(); err != nil {
		pprof.StopCPUProfile()
		f.Close() //nolint:errcheck,gosec // profile is discarded on error
		return nil, err
	}
	return func() error {
		err := p.Complete()
		pprof.StopCPUProfile()
		return errors.Join(err, f.Close())
	}, nil
}

func enableOpenTelemetry(env *scheme.Env) (func() error, error) {
	f, err := os.Create(profileOutput("trace.json"))
	if err != nil {
		return nil, err
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(f))
	if err != nil {
		f.Close() //nolint:errcheck,gosec // nothing was written
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	p := profiler.NewOpenTelemetryAnnotator(env.Runtime(), context.Background())
	if err := p.Enable(); err != nil {
		f.Close() //nolint:errcheck,gosec // profile is discarded on error
		return nil, err
	}
	return func() error {
		err := p.Complete()
		return errors.Join(err, tp.Shutdown(context.Background()), f.Close())
	}, nil
}

func enableOpenCensus(env *scheme.Env) (func() error, error) {
	f, err := os.Create(profileOutput("octrace.json"))
	if err != nil {
		return nil, err
	}
	octrace.ApplyConfig(octrace.Config{DefaultSampler: octrace.AlwaysSample()})
	exporter := &spanFileExporter{enc: json.NewEncoder(f)}
	octrace.RegisterExporter(exporter)
	p := profiler.NewOpenCensusAnnotator(env.Runtime(), context.Background())
	if err := p.Enable(); err != nil {
		octrace.UnregisterExporter(exporter)
		f.Close() //nolint:errcheck,gosec // profile is discarded on error
		return nil, err
	}
	return func() error {
		err := p.Complete()
		octrace.UnregisterExporter(exporter)
		return errors.Join(err, f.Close())
	}, nil
}

// spanFileExporter writes one JSON object per completed opencensus span.
type spanFileExporter struct {
	enc *json.Encoder
}

func (e *spanFileExporter) ExportSpan(sd *octrace.SpanData) {
	_ = e.enc.Encode(map[string]interface{}{
		"name":  sd.Name,
		"start": sd.StartTime,
		"end":   sd.EndTime,
	})
}
