// Copyright © 2025 The Lambdust authors

package scheme

// pairObj is the cons cell.  Pairs are unshared: cloneObject rebuilds the
// whole spine and recursively copies every element, so a copied list never
// aliases the original.
type pairObj struct {
	car Value
	cdr Value
}

func newPairObj(car, cdr Value) *pairObj {
	countAlloc()
	return &pairObj{car: car, cdr: cdr}
}

func (p *pairObj) objTag() Tag { return TPair }

func (p *pairObj) cloneObject() heapObject {
	// Iterate down the cdr spine so long lists do not recurse one frame
	// per element.
	head := newPairObj(p.car.Copy(), Nil())
	tail := head
	for cur := p.cdr; ; {
		if cur.tag != TPair {
			tail.cdr = cur.Copy()
			return head
		}
		next := cur.obj.(*pairObj)
		link := newPairObj(next.car.Copy(), Nil())
		tail.cdr = Value{tag: TPair, obj: link}
		tail = link
		cur = next.cdr
	}
}

func (p *pairObj) equalObject(other heapObject) bool {
	q, ok := other.(*pairObj)
	if !ok {
		return false
	}
	// Compare cars recursively but walk cdrs iteratively for the same
	// reason cloneObject does.
	for {
		if !p.car.Equal(q.car) {
			return false
		}
		if p.cdr.tag == TPair && q.cdr.tag == TPair {
			p = p.cdr.obj.(*pairObj)
			q = q.cdr.obj.(*pairObj)
			continue
		}
		return p.cdr.Equal(q.cdr)
	}
}

func (p *pairObj) hashObject(h *hasher) {
	for {
		p.car.hashInto(h)
		if p.cdr.tag != TPair {
			p.cdr.hashInto(h)
			return
		}
		p = p.cdr.obj.(*pairObj)
	}
}

func (p *pairObj) writeObject(buf *writer, display bool) {
	// Quote family sugar.
	if sugar, ok := quoteAbbrev(p); ok {
		buf.WriteString(sugar)
		p.cdr.obj.(*pairObj).car.write(buf, display)
		return
	}
	buf.WriteByte('(')
	p.car.write(buf, display)
	for cur := p.cdr; ; {
		switch cur.tag {
		case TNil:
			buf.WriteByte(')')
			return
		case TPair:
			next := cur.obj.(*pairObj)
			buf.WriteByte(' ')
			next.car.write(buf, display)
			cur = next.cdr
		default:
			buf.WriteString(" . ")
			cur.write(buf, display)
			buf.WriteByte(')')
			return
		}
	}
}

// quoteAbbrev reports the reader abbreviation for two-element lists headed
// by a quoting symbol.
func quoteAbbrev(p *pairObj) (string, bool) {
	if p.car.tag != TSymbol {
		return "", false
	}
	rest, ok := p.cdr.obj.(*pairObj)
	if p.cdr.tag != TPair || !ok || rest.cdr.tag != TNil {
		return "", false
	}
	name, _ := p.car.SymbolName()
	switch name {
	case "quote":
		return "'", true
	case "quasiquote":
		return "`", true
	case "unquote":
		return ",", true
	case "unquote-splicing":
		return ",@", true
	}
	return "", false
}
