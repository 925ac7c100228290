// Copyright © 2025 The Lambdust authors

package scheme

// stringObj backs string values.  The text is immutable after
// construction; copies still get their own object so every string value
// owns its state.
type stringObj struct {
	s string
}

func newStringObj(s string) *stringObj {
	countAlloc()
	return &stringObj{s: s}
}

func (o *stringObj) objTag() Tag { return TString }

func (o *stringObj) cloneObject() heapObject {
	return newStringObj(o.s)
}

func (o *stringObj) equalObject(other heapObject) bool {
	q, ok := other.(*stringObj)
	return ok && o.s == q.s
}

func (o *stringObj) hashObject(h *hasher) {
	h.writeString(o.s)
}

func (o *stringObj) writeObject(buf *writer, display bool) {
	if display {
		buf.WriteString(o.s)
		return
	}
	writeString(buf, o.s)
}
