// Copyright © 2025 The Lambdust authors

package scheme

import (
	"fmt"
	"io"
	"strings"

	"github.com/akasaka-miraina/lambdust-sub006/parser/token"
)

// errObj backs error values.  An error carries a condition symbol naming
// the class of failure, the irritants passed when it was raised, the name
// of the raising procedure, and a copy of the call stack taken at raise
// time.  Errors are unshared: copies own their irritants and stack.
type errObj struct {
	condition string
	args      []Value
	fun       string
	stack     *CallStack
}

func newErrObj(condition string, args []Value) *errObj {
	countAlloc()
	return &errObj{condition: condition, args: args}
}

// Error returns an error value with the default "error" condition.
func Error(args ...Value) Value {
	return ErrorCondition("error", args...)
}

// Errorf returns an error value whose single irritant is the formatted
// message.
func Errorf(format string, v ...interface{}) Value {
	return Error(String(fmt.Sprintf(format, v...)))
}

// ErrorCondition returns an error value with an explicit condition.
func ErrorCondition(condition string, args ...Value) Value {
	return Value{tag: TError, obj: newErrObj(condition, args)}
}

// ErrorConditionf returns a formatted error value with an explicit
// condition.
func ErrorConditionf(condition string, format string, v ...interface{}) Value {
	return ErrorCondition(condition, String(fmt.Sprintf(format, v...)))
}

// ErrorFromGo wraps a Go error as an error value.
func ErrorFromGo(err error) Value {
	if e, ok := err.(*ErrorVal); ok {
		return e.Value()
	}
	return Error(String(err.Error()))
}

func (o *errObj) objTag() Tag { return TError }

func (o *errObj) cloneObject() heapObject {
	countAlloc()
	args := make([]Value, len(o.args))
	for i, a := range o.args {
		args[i] = a.Copy()
	}
	q := &errObj{condition: o.condition, args: args, fun: o.fun}
	if o.stack != nil {
		q.stack = o.stack.Copy()
	}
	return q
}

func (o *errObj) equalObject(other heapObject) bool {
	q, ok := other.(*errObj)
	if !ok || o.condition != q.condition || len(o.args) != len(q.args) {
		return false
	}
	for i := range o.args {
		if !o.args[i].Equal(q.args[i]) {
			return false
		}
	}
	return true
}

func (o *errObj) hashObject(h *hasher) {
	h.writeString(o.condition)
	for _, a := range o.args {
		a.hashInto(h)
	}
}

func (o *errObj) writeObject(buf *writer, display bool) {
	fmt.Fprintf(buf, "#<error %s", o.condition)
	for _, a := range o.args {
		buf.WriteByte(' ')
		a.write(buf, display)
	}
	buf.WriteByte('>')
}

// message renders the irritants the way the error condition system
// reports them: string irritants appear raw, everything else in write
// form.
func (o *errObj) message() string {
	parts := make([]string, len(o.args))
	for i, a := range o.args {
		if s, ok := a.AsString(); ok {
			parts[i] = s
			continue
		}
		parts[i] = a.String()
	}
	return strings.Join(parts, " ")
}

// Error returns an error value raised from the current call: the runtime
// stack is captured and the raising procedure's name is attached.
func (e *Env) Error(args ...Value) Value {
	return e.ErrorCondition("error", args...)
}

// Errorf returns a formatted error value raised from the current call.
func (e *Env) Errorf(format string, v ...interface{}) Value {
	return e.ErrorCondition("error", String(fmt.Sprintf(format, v...)))
}

// ErrorCondition returns an error value with an explicit condition raised
// from the current call.
func (e *Env) ErrorCondition(condition string, args ...Value) Value {
	o := newErrObj(condition, args)
	if rt := e.Runtime(); rt != nil && rt.Stack != nil {
		o.fun = rt.Stack.Top().FunName()
		o.stack = rt.Stack.Copy()
	}
	return Value{tag: TError, obj: o}
}

// ErrorConditionf returns a formatted error value with an explicit
// condition raised from the current call.
func (e *Env) ErrorConditionf(condition string, format string, v ...interface{}) Value {
	return e.ErrorCondition(condition, String(fmt.Sprintf(format, v...)))
}

// ErrorFromGo wraps a Go error as an error value raised from the current
// call.  Error values round-trip: unwrapping an ErrorVal recovers the
// original value with its stack.
func (e *Env) ErrorFromGo(err error) Value {
	if ev, ok := err.(*ErrorVal); ok {
		return ev.Value()
	}
	return e.Error(String(err.Error()))
}

// ErrorVal adapts an error value to Go's error interface.
type ErrorVal struct {
	obj *errObj
	src *token.Location
}

// GoError converts v to a Go error.  Non-error values convert to nil.
func GoError(v Value) error {
	if v.tag != TError {
		return nil
	}
	return &ErrorVal{obj: v.obj.(*errObj), src: v.src}
}

// Value returns the underlying error value.
func (e *ErrorVal) Value() Value {
	return Value{tag: TError, obj: e.obj, src: e.src}
}

// Condition returns the error's condition name.
func (e *ErrorVal) Condition() string {
	return e.obj.condition
}

// FunName returns the name of the procedure that raised the error, or "".
func (e *ErrorVal) FunName() string {
	return e.obj.fun
}

// ErrorMessage returns the rendered irritants without the condition or
// procedure prefix.
func (e *ErrorVal) ErrorMessage() string {
	return e.obj.message()
}

// SourceLocation returns the location the error was raised from, or nil
// when no source information was attached.
func (e *ErrorVal) SourceLocation() *token.Location {
	return e.src
}

// CallStack returns the call stack captured when the error was raised, or
// nil.  The returned stack is the error's own copy and may be inspected
// freely.
func (e *ErrorVal) CallStack() *CallStack {
	return e.obj.stack
}

// Error implements the error interface.  When the error condition is not
// "error" it is printed preceding the error message.  Otherwise, the name
// of the procedure that raised the error is printed preceding the message,
// if the procedure can be determined.
func (e *ErrorVal) Error() string {
	if e.src != nil {
		return fmt.Sprintf("%s: %s", e.src, e.baseMessage())
	}
	return e.baseMessage()
}

func (e *ErrorVal) baseMessage() string {
	msg := e.obj.message()
	if e.obj.condition != "error" {
		return fmt.Sprintf("%s: %s", e.obj.condition, msg)
	}
	if e.obj.fun != "" {
		return fmt.Sprintf("%s: %s", e.obj.fun, msg)
	}
	return msg
}

// WriteTrace writes the error message followed by the call stack captured
// when the error was raised.
func (e *ErrorVal) WriteTrace(w io.Writer) (int, error) {
	n, err := fmt.Fprintln(w, e.Error())
	if err != nil {
		return n, err
	}
	if e.obj.stack != nil && e.obj.stack.Len() > 0 {
		m, err := e.obj.stack.WriteTrace(w)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
