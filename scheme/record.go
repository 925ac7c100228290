// Copyright © 2025 The Lambdust authors

package scheme

import (
	"fmt"
	"sync"
)

// recordTypeObj backs record type descriptors made by define-record-type.
// The descriptor itself is immutable.
type recordTypeObj struct {
	oid    uint64
	name   string
	fields []string
}

func newRecordType(name string, fields []string) Value {
	countAlloc()
	return Value{tag: TRecordType, obj: &recordTypeObj{
		oid:    nextObjectID(),
		name:   name,
		fields: fields,
	}}
}

func (o *recordTypeObj) objTag() Tag { return TRecordType }

func (o *recordTypeObj) cloneObject() heapObject { return o }

func (o *recordTypeObj) equalObject(other heapObject) bool {
	q, ok := other.(*recordTypeObj)
	return ok && o.oid == q.oid
}

func (o *recordTypeObj) hashObject(h *hasher) {
	h.writeUint64(o.oid)
}

func (o *recordTypeObj) writeObject(buf *writer, display bool) {
	fmt.Fprintf(buf, "#<record-type %s>", o.name)
}

func (o *recordTypeObj) fieldIndex(name string) int {
	for i, f := range o.fields {
		if f == name {
			return i
		}
	}
	return -1
}

// recordObj backs record instances.  Instances are shared between copies;
// field mutation takes the lock.
type recordObj struct {
	mu    sync.RWMutex
	oid   uint64
	rtype *recordTypeObj
	vals  []Value
}

func newRecord(rtype *recordTypeObj, vals []Value) Value {
	countAlloc()
	own := make([]Value, len(rtype.fields))
	copy(own, vals)
	for i := len(vals); i < len(own); i++ {
		own[i] = Unspecified()
	}
	return Value{tag: TRecord, obj: &recordObj{
		oid:   nextObjectID(),
		rtype: rtype,
		vals:  own,
	}}
}

func (o *recordObj) objTag() Tag { return TRecord }

func (o *recordObj) cloneObject() heapObject { return o }

func (o *recordObj) equalObject(other heapObject) bool {
	q, ok := other.(*recordObj)
	return ok && o.oid == q.oid
}

func (o *recordObj) hashObject(h *hasher) {
	h.writeUint64(o.oid)
}

func (o *recordObj) writeObject(buf *writer, display bool) {
	o.mu.RLock()
	vals := make([]Value, len(o.vals))
	copy(vals, o.vals)
	o.mu.RUnlock()
	fmt.Fprintf(buf, "#<%s", o.rtype.name)
	for i, f := range o.rtype.fields {
		buf.WriteByte(' ')
		buf.WriteString(f)
		buf.WriteByte(':')
		vals[i].write(buf, display)
	}
	buf.WriteByte('>')
}

func (o *recordObj) fieldRef(i int) (Value, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if i < 0 || i >= len(o.vals) {
		return Value{}, false
	}
	return o.vals[i], true
}

func (o *recordObj) fieldSet(i int, v Value) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if i < 0 || i >= len(o.vals) {
		return false
	}
	o.vals[i] = v
	return true
}
