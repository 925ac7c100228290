// Copyright © 2025 The Lambdust authors

package scheme

import (
	"fmt"
	"sync/atomic"
)

// contObj backs escape continuations captured by call/cc.  Continuations
// here are one-shot and upward-only: applying one unwinds the Go stack to
// the call/cc frame that created it, and applying it after that frame has
// returned is an error.
type contObj struct {
	oid   uint64
	name  string
	fired uint32
}

func newContObj(name string) *contObj {
	countAlloc()
	return &contObj{oid: nextObjectID(), name: name}
}

func (o *contObj) objTag() Tag { return TCont }

func (o *contObj) cloneObject() heapObject { return o }

func (o *contObj) equalObject(other heapObject) bool {
	q, ok := other.(*contObj)
	return ok && o.oid == q.oid
}

func (o *contObj) hashObject(h *hasher) {
	h.writeUint64(o.oid)
}

func (o *contObj) writeObject(buf *writer, display bool) {
	fmt.Fprintf(buf, "#<continuation %s>", o.name)
}

// expired reports whether the capturing call/cc frame has returned.
func (o *contObj) expired() bool {
	return atomic.LoadUint32(&o.fired) != 0
}

func (o *contObj) expire() {
	atomic.StoreUint32(&o.fired, 1)
}

// contSignal carries a continuation invocation up the Go stack.  The
// call/cc frame that owns the continuation recovers it; anything else
// re-panics so outer captures can catch their own.
type contSignal struct {
	obj *contObj
	val Value
}
