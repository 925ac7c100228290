// Copyright © 2025 The Lambdust authors

package scheme

import (
	"fmt"

	"github.com/akasaka-miraina/lambdust-sub006/intern"
)

// symbolObj backs symbol values whose interned identifier does not fit the
// inline word.  It renders, compares, and hashes exactly like the inline
// form.
type symbolObj struct {
	id intern.Symbol
}

func newSymbolObj(id intern.Symbol) *symbolObj {
	countAlloc()
	return &symbolObj{id: id}
}

func (o *symbolObj) objTag() Tag { return TSymbol }

func (o *symbolObj) cloneObject() heapObject {
	return newSymbolObj(o.id)
}

func (o *symbolObj) equalObject(other heapObject) bool {
	q, ok := other.(*symbolObj)
	return ok && o.id == q.id
}

func (o *symbolObj) hashObject(h *hasher) {
	h.writeUint64(uint64(o.id))
}

func (o *symbolObj) writeObject(buf *writer, display bool) {
	name, ok := intern.Name(o.id)
	if !ok {
		fmt.Fprintf(buf, "#<symbol %d>", o.id)
		return
	}
	buf.WriteString(name)
}

// keywordObj backs keyword values.  Keywords are self-evaluating named
// constants used for option arguments.
type keywordObj struct {
	id intern.Symbol
}

func newKeywordObj(id intern.Symbol) *keywordObj {
	countAlloc()
	return &keywordObj{id: id}
}

func (o *keywordObj) objTag() Tag { return TKeyword }

func (o *keywordObj) cloneObject() heapObject {
	return newKeywordObj(o.id)
}

func (o *keywordObj) equalObject(other heapObject) bool {
	q, ok := other.(*keywordObj)
	return ok && o.id == q.id
}

func (o *keywordObj) hashObject(h *hasher) {
	h.writeUint64(uint64(o.id))
}

func (o *keywordObj) writeObject(buf *writer, display bool) {
	name, ok := intern.Name(o.id)
	if !ok {
		fmt.Fprintf(buf, "#<keyword %d>", o.id)
		return
	}
	buf.WriteString("#:")
	buf.WriteString(name)
}
