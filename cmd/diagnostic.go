// Copyright © 2025 The Lambdust authors

package cmd

import (
	"os"

	"github.com/spf13/viper"

	"github.com/akasaka-miraina/lambdust-sub006/diagnostic"
	"github.com/akasaka-miraina/lambdust-sub006/scheme"
)

func colorMode() diagnostic.ColorMode {
	switch viper.GetString("color") {
	case "always":
		return diagnostic.ColorAlways
	case "never":
		return diagnostic.ColorNever
	default:
		return diagnostic.ColorAuto
	}
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode()}
}

// errorToDiagnostic converts an error value to a Diagnostic for display.
func errorToDiagnostic(ev *scheme.ErrorVal) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  ev.ErrorMessage(),
	}

	// Add the procedure context to the message if available
	fname := ev.FunName()
	if fname != "" {
		d.Message = fname + ": " + d.Message
	}
	if cond := ev.Condition(); cond != "" && cond != "error" {
		d.Message = cond + ": " + d.Message
	}

	// Add source span if available
	if src := ev.SourceLocation(); src != nil && src.Pos >= 0 {
		span := diagnostic.Span{
			File: src.File,
			Line: src.Line,
			Col:  src.Col,
		}
		// Prefer physical path for reading source
		if src.Path != "" {
			span.File = src.Path
		}
		d.Spans = append(d.Spans, span)
	}

	// Add stack trace frames as notes
	if stack := ev.CallStack(); stack != nil {
		for i := len(stack.Frames) - 1; i >= 0; i-- {
			frame := &stack.Frames[i]
			name := frame.FunName()
			if name == "" {
				continue
			}
			loc := "unknown"
			if frame.Source != nil {
				loc = frame.Source.String()
			}
			d.Notes = append(d.Notes, "in "+name+" at "+loc)
		}
	}

	return d
}

// renderSchemeError renders an error value with diagnostic formatting to
// stderr. If sourceFile is non-empty it is named in a trailing note.
func renderSchemeError(v scheme.Value, sourceFile string) {
	ev, ok := scheme.GoError(v).(*scheme.ErrorVal)
	if !ok {
		return
	}
	d := errorToDiagnostic(ev)
	if sourceFile != "" {
		d.Notes = append(d.Notes, "while loading "+sourceFile)
	}
	r := newRenderer()
	_ = r.Render(os.Stderr, d)
}
