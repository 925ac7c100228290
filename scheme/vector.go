// Copyright © 2025 The Lambdust authors

package scheme

import "sync"

// vectorObj backs vector values.  Vectors are the one aggregate that is
// shared between copies, so every element access takes the lock.  Equality,
// hashing, and printing work on a locked snapshot and never hold the lock
// while visiting elements, which keeps nested vectors deadlock-free.
type vectorObj struct {
	mu    sync.RWMutex
	oid   uint64
	items []Value
}

func newVectorObj(items []Value) *vectorObj {
	countAlloc()
	own := make([]Value, len(items))
	copy(own, items)
	return &vectorObj{oid: nextObjectID(), items: own}
}

func (o *vectorObj) objTag() Tag { return TVector }

// cloneObject shares the backing object: copies of a vector alias the same
// elements.
func (o *vectorObj) cloneObject() heapObject {
	return o
}

func (o *vectorObj) snapshot() []Value {
	o.mu.RLock()
	defer o.mu.RUnlock()
	items := make([]Value, len(o.items))
	copy(items, o.items)
	return items
}

func (o *vectorObj) length() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.items)
}

func (o *vectorObj) ref(i int) (Value, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if i < 0 || i >= len(o.items) {
		return Value{}, false
	}
	return o.items[i], true
}

func (o *vectorObj) set(i int, v Value) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if i < 0 || i >= len(o.items) {
		return false
	}
	o.items[i] = v
	return true
}

func (o *vectorObj) fill(v Value) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := range o.items {
		o.items[i] = v
	}
}

func (o *vectorObj) equalObject(other heapObject) bool {
	q, ok := other.(*vectorObj)
	if !ok {
		return false
	}
	if o == q {
		return true
	}
	a, b := o.snapshot(), q.snapshot()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func (o *vectorObj) hashObject(h *hasher) {
	items := o.snapshot()
	h.writeUint64(uint64(len(items)))
	for _, item := range items {
		item.hashInto(h)
	}
}

func (o *vectorObj) writeObject(buf *writer, display bool) {
	items := o.snapshot()
	buf.WriteString("#(")
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(' ')
		}
		item.write(buf, display)
	}
	buf.WriteByte(')')
}
