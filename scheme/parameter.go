// Copyright © 2025 The Lambdust authors

package scheme

import (
	"fmt"
	"sync"
)

// paramObj backs parameter objects made by make-parameter.  A parameter is
// applied with no arguments to read its current binding; parameterize
// pushes a new binding for a dynamic extent.  The binding stack is guarded
// by the mutex and shared between copies.
type paramObj struct {
	mu     sync.Mutex
	oid    uint64
	name   string
	filter Value // procedure applied to incoming values, or nil value
	stack  []Value
}

// MakeParameter returns a parameter object with the given initial value.
// filter, when a procedure, converts every value bound to the parameter;
// pass Nil() for no conversion.
func MakeParameter(name string, initial, filter Value) Value {
	countAlloc()
	return Value{tag: TParam, obj: &paramObj{
		oid:    nextObjectID(),
		name:   name,
		filter: filter,
		stack:  []Value{initial},
	}}
}

func (o *paramObj) objTag() Tag { return TParam }

func (o *paramObj) cloneObject() heapObject { return o }

func (o *paramObj) equalObject(other heapObject) bool {
	q, ok := other.(*paramObj)
	return ok && o.oid == q.oid
}

func (o *paramObj) hashObject(h *hasher) {
	h.writeUint64(o.oid)
}

func (o *paramObj) writeObject(buf *writer, display bool) {
	if o.name != "" {
		fmt.Fprintf(buf, "#<parameter %s>", o.name)
		return
	}
	buf.WriteString("#<parameter>")
}

func (o *paramObj) current() Value {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stack[len(o.stack)-1]
}

func (o *paramObj) push(v Value) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stack = append(o.stack, v)
}

func (o *paramObj) pop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.stack) > 1 {
		o.stack = o.stack[:len(o.stack)-1]
	}
}
