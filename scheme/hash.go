// Copyright © 2025 The Lambdust authors

package scheme

import "math"

// FNV-1a accumulation.  Content hashes must be stable for the life of the
// process so hash tables built over values stay consistent; beyond that the
// exact function is unimportant.
const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

type hasher struct {
	sum uint64
}

func newHasher() hasher {
	return hasher{sum: fnvOffset64}
}

func (h *hasher) writeByte(b byte) {
	h.sum = (h.sum ^ uint64(b)) * fnvPrime64
}

func (h *hasher) writeUint64(x uint64) {
	for i := 0; i < 8; i++ {
		h.writeByte(byte(x))
		x >>= 8
	}
}

func (h *hasher) writeString(s string) {
	for i := 0; i < len(s); i++ {
		h.writeByte(s[i])
	}
}

// Hash returns a content hash consistent with Equal: values that compare
// equal hash identically.  Floats hash over their bit pattern, not their
// arithmetic value, so NaN payloads and signed zeros stay consistent with
// the equality policy.
func (v Value) Hash() uint64 {
	h := newHasher()
	v.hashInto(&h)
	return h.sum
}

func (v Value) hashInto(h *hasher) {
	h.writeByte(byte(v.tag))
	switch v.tag {
	case TNil, TUnspecified, TEOF:
	case TBool, TInt, TChar:
		h.writeUint64(v.word)
	case TSymbol:
		h.writeUint64(uint64(v.symbolID()))
	default:
		v.obj.hashObject(h)
	}
}

func hashFloat(h *hasher, f float64) {
	h.writeUint64(math.Float64bits(f))
}
