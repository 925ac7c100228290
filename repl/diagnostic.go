// Copyright © 2025 The Lambdust authors

package repl

import (
	"io"

	"github.com/akasaka-miraina/lambdust-sub006/diagnostic"
	"github.com/akasaka-miraina/lambdust-sub006/scheme"
)

// renderError renders an error value using the diagnostic renderer for
// Rust-style annotated output. For REPL errors, source snippets may not
// be available (input comes from stdin, not files), but the renderer
// degrades gracefully to show just the location and error message.
func renderError(w io.Writer, v scheme.Value) {
	ev, ok := scheme.GoError(v).(*scheme.ErrorVal)
	if !ok {
		return
	}
	d := errorToDiag(ev)
	d.Notes = append(d.Notes, "use (help 'symbol) to browse available symbols")
	r := &diagnostic.Renderer{Color: diagnostic.ColorAuto}
	_ = r.Render(w, d)
}

// errorToDiag converts an error value to a Diagnostic for display.
func errorToDiag(ev *scheme.ErrorVal) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  ev.ErrorMessage(),
	}

	fname := ev.FunName()
	if fname != "" {
		d.Message = fname + ": " + d.Message
	}
	if cond := ev.Condition(); cond != "" && cond != "error" {
		d.Message = cond + ": " + d.Message
	}

	if src := ev.SourceLocation(); src != nil && src.Pos >= 0 {
		span := diagnostic.Span{
			File: src.File,
			Line: src.Line,
			Col:  src.Col,
		}
		if src.Path != "" {
			span.File = src.Path
		}
		d.Spans = append(d.Spans, span)
	}

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
