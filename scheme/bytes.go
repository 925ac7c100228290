// Copyright © 2025 The Lambdust authors

package scheme

import "fmt"

// bytesObj backs bytevector values.  Bytevectors are unshared: copies get
// an independent byte slice.
type bytesObj struct {
	b []byte
}

func newBytesObj(b []byte) *bytesObj {
	countAlloc()
	own := make([]byte, len(b))
	copy(own, b)
	return &bytesObj{b: own}
}

func (o *bytesObj) objTag() Tag { return TBytes }

func (o *bytesObj) cloneObject() heapObject {
	return newBytesObj(o.b)
}

func (o *bytesObj) snapshot() []byte {
	b := make([]byte, len(o.b))
	copy(b, o.b)
	return b
}

func (o *bytesObj) equalObject(other heapObject) bool {
	q, ok := other.(*bytesObj)
	if !ok || len(o.b) != len(q.b) {
		return false
	}
	for i := range o.b {
		if o.b[i] != q.b[i] {
			return false
		}
	}
	return true
}

func (o *bytesObj) hashObject(h *hasher) {
	h.writeUint64(uint64(len(o.b)))
	for _, c := range o.b {
		h.writeByte(c)
	}
}

func (o *bytesObj) writeObject(buf *writer, display bool) {
	buf.WriteString("#u8(")
	for i, c := range o.b {
		if i > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(buf, "%d", c)
	}
	buf.WriteByte(')')
}
