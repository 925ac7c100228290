// Copyright © 2025 The Lambdust authors

package scheme

import (
	"fmt"
	"sync"
)

// promiseObj backs promises created by delay.  Forcing is memoized: the
// body runs at most once and the result is shared by every copy of the
// promise.
type promiseObj struct {
	mu     sync.Mutex
	oid    uint64
	forced bool
	result Value
	body   []Value
	env    *Env
}

func newPromiseObj(body []Value, env *Env) *promiseObj {
	countAlloc()
	return &promiseObj{oid: nextObjectID(), body: body, env: env}
}

// MakePromise returns a forced promise holding v, as make-promise does.
func MakePromise(v Value) Value {
	countAlloc()
	return Value{tag: TPromise, obj: &promiseObj{oid: nextObjectID(), forced: true, result: v}}
}

func (o *promiseObj) objTag() Tag { return TPromise }

func (o *promiseObj) cloneObject() heapObject { return o }

func (o *promiseObj) equalObject(other heapObject) bool {
	q, ok := other.(*promiseObj)
	return ok && o.oid == q.oid
}

func (o *promiseObj) hashObject(h *hasher) {
	h.writeUint64(o.oid)
}

func (o *promiseObj) writeObject(buf *writer, display bool) {
	o.mu.Lock()
	forced := o.forced
	o.mu.Unlock()
	if forced {
		fmt.Fprintf(buf, "#<promise forced>")
		return
	}
	fmt.Fprintf(buf, "#<promise>")
}

// force evaluates the promise body once and caches the result.  The lock
// is not held during evaluation so a promise body may force other
// promises.
func (o *promiseObj) force(eval func(body []Value, env *Env) Value) Value {
	o.mu.Lock()
	if o.forced {
		v := o.result
		o.mu.Unlock()
		return v
	}
	body, env := o.body, o.env
	o.mu.Unlock()

	v := eval(body, env)
	if v.IsError() {
		return v
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.forced {
		o.forced = true
		o.result = v
		o.body, o.env = nil, nil
	}
	return o.result
}
