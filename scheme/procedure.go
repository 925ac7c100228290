// Copyright © 2025 The Lambdust authors

package scheme

import "fmt"

// Builtin is the signature of procedures implemented in Go.  Builtins
// receive evaluated arguments and must return exactly one value, using an
// error value to signal failure.
type Builtin func(rt *Runtime, env *Env, args []Value) Value

// paramSpec is a lambda's formal parameter list: the required names plus
// an optional rest parameter that collects extra arguments as a list.
type paramSpec struct {
	required []string
	rest     string
}

func (p paramSpec) accepts(n int) bool {
	if p.rest != "" {
		return n >= len(p.required)
	}
	return n == len(p.required)
}

func (p paramSpec) String() string {
	if p.rest == "" {
		return fmt.Sprintf("%d", len(p.required))
	}
	return fmt.Sprintf("at least %d", len(p.required))
}

var fidCounter atomicCounter

// nextFID returns a process-unique function identifier.  FIDs name
// anonymous procedures in traces and profiles.
func nextFID() string {
	return fmt.Sprintf("fun%08d", fidCounter.Add(1))
}

// funObj backs closures.  The captured environment is shared between
// copies; its own lock guards concurrent access.
type funObj struct {
	oid    uint64
	fid    string
	name   string
	doc    string
	params paramSpec
	body   []Value
	env    *Env
}

func newFunObj(params paramSpec, body []Value, env *Env, doc string) *funObj {
	countAlloc()
	return &funObj{
		oid:    nextObjectID(),
		fid:    nextFID(),
		params: params,
		body:   body,
		env:    env,
		doc:    doc,
	}
}

// Lambda constructs a closure value over env.  Names are attached later by
// define.
func Lambda(required []string, rest string, body []Value, env *Env, doc string) Value {
	params := paramSpec{required: required, rest: rest}
	return Value{tag: TFun, obj: newFunObj(params, body, env, doc)}
}

func (o *funObj) objTag() Tag { return TFun }

func (o *funObj) cloneObject() heapObject { return o }

func (o *funObj) equalObject(other heapObject) bool {
	q, ok := other.(*funObj)
	return ok && o.oid == q.oid
}

func (o *funObj) hashObject(h *hasher) {
	h.writeUint64(o.oid)
}

func (o *funObj) writeObject(buf *writer, display bool) {
	if o.name != "" {
		fmt.Fprintf(buf, "#<procedure %s>", o.name)
		return
	}
	fmt.Fprintf(buf, "#<procedure %s>", o.fid)
}

// label returns the name shown in stack traces and profiles.
func (o *funObj) label() string {
	if o.name != "" {
		return o.name
	}
	return o.fid
}

// caseClause is one (formals body...) alternative of a case-lambda.
type caseClause struct {
	params paramSpec
	body   []Value
}

// caseFunObj backs case-lambda procedures: the first clause accepting the
// argument count is applied.
type caseFunObj struct {
	oid     uint64
	fid     string
	name    string
	doc     string
	clauses []caseClause
	env     *Env
}

func newCaseFunObj(clauses []caseClause, env *Env, doc string) *caseFunObj {
	countAlloc()
	return &caseFunObj{
		oid:     nextObjectID(),
		fid:     nextFID(),
		clauses: clauses,
		env:     env,
		doc:     doc,
	}
}

func (o *caseFunObj) objTag() Tag { return TCaseFun }

func (o *caseFunObj) cloneObject() heapObject { return o }

func (o *caseFunObj) equalObject(other heapObject) bool {
	q, ok := other.(*caseFunObj)
	return ok && o.oid == q.oid
}

func (o *caseFunObj) hashObject(h *hasher) {
	h.writeUint64(o.oid)
}

func (o *caseFunObj) writeObject(buf *writer, display bool) {
	if o.name != "" {
		fmt.Fprintf(buf, "#<case-lambda %s>", o.name)
		return
	}
	fmt.Fprintf(buf, "#<case-lambda %s>", o.fid)
}

func (o *caseFunObj) label() string {
	if o.name != "" {
		return o.name
	}
	return o.fid
}

// selectClause returns the first clause accepting n arguments.
func (o *caseFunObj) selectClause(n int) (caseClause, bool) {
	for _, c := range o.clauses {
		if c.params.accepts(n) {
			return c, true
		}
	}
	return caseClause{}, false
}

// primObj backs builtin procedures.
type primObj struct {
	oid     uint64
	fid     string
	name    string
	doc     string
	formals string
	min     int
	max     int // negative means variadic
	fn      Builtin
}

func newPrimObj(name string, min, max int, doc string, fn Builtin) *primObj {
	countAlloc()
	return &primObj{
		oid:  nextObjectID(),
		fid:  nextFID(),
		name: name,
		doc:  doc,
		min:  min,
		max:  max,
		fn:   fn,
	}
}

// Primitive constructs a builtin procedure value.  min and max bound the
// accepted argument count; a negative max accepts any number of extra
// arguments.
func Primitive(name string, min, max int, doc string, fn Builtin) Value {
	return Value{tag: TPrimitive, obj: newPrimObj(name, min, max, doc, fn)}
}

func (o *primObj) objTag() Tag { return TPrimitive }

func (o *primObj) cloneObject() heapObject { return o }

func (o *primObj) equalObject(other heapObject) bool {
	q, ok := other.(*primObj)
	return ok && o.oid == q.oid
}

func (o *primObj) hashObject(h *hasher) {
	h.writeUint64(o.oid)
}

func (o *primObj) writeObject(buf *writer, display bool) {
	fmt.Fprintf(buf, "#<builtin %s>", o.name)
}

func (o *primObj) accepts(n int) bool {
	if n < o.min {
		return false
	}
	return o.max < 0 || n <= o.max
}
