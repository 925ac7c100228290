// Copyright © 2025 The Lambdust authors

package scheme

import "sync/atomic"

// heapObject is the capability set shared by every heap-allocated value
// kind.  The interface is unexported so the kind enumeration stays closed:
// dispatch happens over Value tags and each case may assume the concrete
// object type the tag implies.
type heapObject interface {
	// objTag reports the tag of the kind backed by this object.
	objTag() Tag
	// cloneObject produces the copy mandated by the kind's ownership
	// strategy: an independent deep copy for unshared kinds, the receiver
	// itself for kinds designed to be aliased.
	cloneObject() heapObject
	// equalObject tests structural equality against another object which
	// the caller has verified carries the same tag.
	equalObject(other heapObject) bool
	// hashObject mixes the object's content into h.  Objects that compare
	// equal must produce identical sums.
	hashObject(h *hasher)
	// writeObject renders the object.  When display is true strings and
	// characters render raw, per the display procedure; otherwise the
	// written form is produced.
	writeObject(buf *writer, display bool)
}

// atomicCounter is a monotone counter shared across goroutines.
type atomicCounter uint64

func (c *atomicCounter) Add(n uint64) uint64 {
	return atomic.AddUint64((*uint64)(c), n)
}

func (c *atomicCounter) Load() uint64 {
	return atomic.LoadUint64((*uint64)(c))
}

var (
	// heapObjectCount counts every heap object construction in the
	// process.  Immediate constructors never touch it, which is what the
	// allocation tests assert.
	heapObjectCount atomicCounter

	// objectIDs issues identities for kinds whose equality is by
	// reference (procedures, ports, records, ...).
	objectIDs atomicCounter
)

func countAlloc() {
	heapObjectCount.Add(1)
}

func nextObjectID() uint64 {
	return objectIDs.Add(1)
}

// HeapObjectCount reports the total number of heap objects constructed by
// the process so far.  The counter only grows; callers interested in the
// cost of an operation measure a delta around it.
func HeapObjectCount() uint64 {
	return heapObjectCount.Load()
}
