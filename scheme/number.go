// Copyright © 2025 The Lambdust authors

package scheme

import "math"

// numberObj backs numeric values outside the fixnum range.  Equality and
// hashing use the float's bit pattern, so identical NaNs compare equal to
// themselves and +0.0 is distinct from -0.0; numeric comparison operators
// still apply IEEE semantics.
type numberObj struct {
	f float64
}

func newNumber(f float64) Value {
	countAlloc()
	return Value{tag: TNumber, obj: &numberObj{f: f}}
}

func (o *numberObj) objTag() Tag { return TNumber }

func (o *numberObj) cloneObject() heapObject {
	countAlloc()
	return &numberObj{f: o.f}
}

func (o *numberObj) equalObject(other heapObject) bool {
	q, ok := other.(*numberObj)
	return ok && math.Float64bits(o.f) == math.Float64bits(q.f)
}

func (o *numberObj) hashObject(h *hasher) {
	hashFloat(h, o.f)
}

func (o *numberObj) writeObject(buf *writer, display bool) {
	buf.WriteString(formatFloat(o.f))
}
