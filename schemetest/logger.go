// Copyright © 2025 The Lambdust authors

package schemetest

import (
	"bytes"
	"io"
	"testing"
)

// Logger adapts a testing.TB to io.Writer so interpreter debug output can
// be routed through the test log.  Writes are buffered per line.
type Logger struct {
	t   testing.TB
	buf []byte
}

var _ io.Writer = (*Logger)(nil)

func NewLogger(t testing.TB) *Logger {
	return &Logger{
		t: t,
	}
}

func (log *Logger) Write(b []byte) (int, error) {
	log.buf = append(log.buf, b...)
	i := bytes.Index(log.buf, []byte("\n"))
	if i < 0 {
		return len(b), nil
	}
	log.t.Log(string(log.buf[:i])) // slice does not include \n
	log.buf = log.buf[i+1:]
	return len(b), nil
}

// Flush logs any buffered text that was not terminated with a newline.
func (log *Logger) Flush() {
	if len(log.buf) == 0 {
		return
	}
	log.t.Log(string(log.buf))
	log.buf = nil
}
