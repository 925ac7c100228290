// Copyright © 2025 The Lambdust authors

package scheme

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// portObj backs port values.  Ports are shared between copies; the mutex
// serializes reads, writes, and close.
type portObj struct {
	mu     sync.Mutex
	oid    uint64
	name   string
	input  *bufio.Reader
	output io.Writer
	strBuf *strings.Builder
	closer io.Closer
	closed bool
}

// NewInputPort returns an input port reading from r.
func NewInputPort(name string, r io.Reader) Value {
	countAlloc()
	o := &portObj{oid: nextObjectID(), name: name, input: bufio.NewReader(r)}
	if c, ok := r.(io.Closer); ok {
		o.closer = c
	}
	return Value{tag: TPort, obj: o}
}

// NewOutputPort returns an output port writing to w.
func NewOutputPort(name string, w io.Writer) Value {
	countAlloc()
	o := &portObj{oid: nextObjectID(), name: name, output: w}
	if c, ok := w.(io.Closer); ok {
		o.closer = c
	}
	return Value{tag: TPort, obj: o}
}

// newStringOutputPort returns an output port accumulating text in memory
// for get-output-string.
func newStringOutputPort() Value {
	countAlloc()
	buf := &strings.Builder{}
	o := &portObj{oid: nextObjectID(), name: "string", output: buf, strBuf: buf}
	return Value{tag: TPort, obj: o}
}

// outputString returns the accumulated text of a string output port.
func (o *portObj) outputString() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.strBuf == nil {
		return "", false
	}
	return o.strBuf.String(), true
}

func (o *portObj) objTag() Tag { return TPort }

func (o *portObj) cloneObject() heapObject { return o }

func (o *portObj) equalObject(other heapObject) bool {
	q, ok := other.(*portObj)
	return ok && o.oid == q.oid
}

func (o *portObj) hashObject(h *hasher) {
	h.writeUint64(o.oid)
}

func (o *portObj) writeObject(buf *writer, display bool) {
	kind := "output"
	if o.input != nil {
		kind = "input"
	}
	fmt.Fprintf(buf, "#<%s-port %s>", kind, o.name)
}

// readChar returns the next rune.  The second result is false at EOF.
func (o *portObj) readChar() (rune, bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || o.input == nil {
		return 0, false, fmt.Errorf("port %s is not open for input", o.name)
	}
	r, _, err := o.input.ReadRune()
	if err == io.EOF {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return r, true, nil
}

// peekChar returns the next rune without consuming it.
func (o *portObj) peekChar() (rune, bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || o.input == nil {
		return 0, false, fmt.Errorf("port %s is not open for input", o.name)
	}
	r, _, err := o.input.ReadRune()
	if err == io.EOF {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if err := o.input.UnreadRune(); err != nil {
		return 0, false, err
	}
	return r, true, nil
}

// readLine returns the next line without its terminator.  The second
// result is false at EOF with no pending text.
func (o *portObj) readLine() (string, bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || o.input == nil {
		return "", false, fmt.Errorf("port %s is not open for input", o.name)
	}
	line, err := o.input.ReadString('\n')
	if err == io.EOF {
		if line == "" {
			return "", false, nil
		}
		return line, true, nil
	}
	if err != nil {
		return "", false, err
	}
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	return line, true, nil
}

func (o *portObj) writeText(s string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || o.output == nil {
		return fmt.Errorf("port %s is not open for output", o.name)
	}
	_, err := io.WriteString(o.output, s)
	return err
}

func (o *portObj) close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	if o.closer != nil {
		return o.closer.Close()
	}
	return nil
}
