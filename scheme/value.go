// Copyright © 2025 The Lambdust authors

// Package scheme implements the lambdust runtime: the tagged value
// representation, the lexical environment chain, and the evaluator built on
// top of them.
package scheme

import (
	"math"

	"github.com/akasaka-miraina/lambdust-sub006/intern"
	"github.com/akasaka-miraina/lambdust-sub006/parser/token"
)

// Version is the lambdust release version.
const Version = "0.2.0"

// Value is the single runtime value type.  A Value is a tag plus either an
// inline scalar payload or an owning reference to a heap object; the tag
// alone determines which.  Values are passed by value: copying a Value never
// allocates, and immediate kinds never reference the heap at all.
//
// Heap objects follow a per-kind ownership strategy.  Unshared kinds
// (pairs, strings, numbers, large symbols, keywords, bytevectors, errors)
// are deep-copied by Copy so no two independent Values ever share their
// state.  Shared kinds (vectors, procedures and their captured
// environments, ports, promises, parameters, records, continuations) copy
// the handle and guard any mutable state with a lock.
type Value struct {
	tag  Tag
	word uint64
	obj  heapObject
	src  *token.Location
}

// symbolInlineMax is the largest symbol identifier stored inline.  Larger
// identifiers are backed by a heap object; both forms compare and hash
// identically.
const symbolInlineMax = math.MaxUint32

// Tag reports the kind of data v holds.
func (v Value) Tag() Tag {
	return v.tag
}

// Source returns the location of the source text v was read from, if any.
func (v Value) Source() *token.Location {
	return v.src
}

// WithSource returns v carrying the given source location.
func (v Value) WithSource(loc *token.Location) Value {
	v.src = loc
	return v
}

// Nil returns the empty list ().
func Nil() Value {
	return Value{tag: TNil}
}

// Unspecified returns the unspecified value produced by expressions
// evaluated for effect.
func Unspecified() Value {
	return Value{tag: TUnspecified}
}

// EOFObject returns the end-of-file object.
func EOFObject() Value {
	return Value{tag: TEOF}
}

// Bool returns the boolean value for b.
func Bool(b bool) Value {
	if b {
		return Value{tag: TBool, word: 1}
	}
	return Value{tag: TBool}
}

// True returns the canonical true value #t.
func True() Value {
	return Bool(true)
}

// False returns the canonical false value #f, the only falsy value.
func False() Value {
	return Bool(false)
}

// Int returns an integer value.  Integers within the signed 32-bit range
// are stored inline as fixnums; anything larger transparently becomes a
// heap number.  Promotion is a normal control path, not an error.
func Int(n int64) Value {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return newNumber(float64(n))
	}
	return Value{tag: TInt, word: uint64(uint32(int32(n)))}
}

// Float returns a numeric value for f.  Floats that are integral and fit
// the fixnum range fold back to inline fixnums so arithmetic that happens
// to produce whole numbers keeps its compact representation; everything
// else is a heap number.
func Float(f float64) Value {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && f >= math.MinInt32 && f <= math.MaxInt32 {
		return Value{tag: TInt, word: uint64(uint32(int32(f)))}
	}
	return newNumber(f)
}

// Char returns a character value for the Unicode scalar r.
func Char(r rune) Value {
	return Value{tag: TChar, word: uint64(uint32(r))}
}

// SymbolID returns the symbol value for an interned identifier.  Small
// identifiers are stored inline; larger ones are backed by a heap object
// purely as a size matter.
func SymbolID(id intern.Symbol) Value {
	if id <= symbolInlineMax {
		return Value{tag: TSymbol, word: uint64(id)}
	}
	return Value{tag: TSymbol, obj: newSymbolObj(id)}
}

// Symbol interns name in the process-wide table and returns its symbol
// value.
func Symbol(name string) Value {
	return SymbolID(intern.Intern(name))
}

// Keyword interns name and returns a keyword value (#:name).
func Keyword(name string) Value {
	return Value{tag: TKeyword, obj: newKeywordObj(intern.Intern(name))}
}

// String returns a string value holding s.
func String(s string) Value {
	return Value{tag: TString, obj: newStringObj(s)}
}

// Cons returns a pair of car and cdr.
func Cons(car, cdr Value) Value {
	return Value{tag: TPair, obj: newPairObj(car, cdr)}
}

// List builds a proper list from items by a right fold of pairs
// terminating in nil.
func List(items ...Value) Value {
	v := Nil()
	for i := len(items) - 1; i >= 0; i-- {
		v = Cons(items[i], v)
	}
	return v
}

// Vector returns a vector holding items.  The backing sequence is shared
// between copies of the returned value.
func Vector(items ...Value) Value {
	return Value{tag: TVector, obj: newVectorObj(items)}
}

// Bytes returns a bytevector holding b.  The bytes are copied.
func Bytes(b []byte) Value {
	return Value{tag: TBytes, obj: newBytesObj(b)}
}

// IsNil reports whether v is the empty list.
func (v Value) IsNil() bool {
	return v.tag == TNil
}

// IsTruthy reports the conditional interpretation of v: every value is
// truthy except #f.
func (v Value) IsTruthy() bool {
	return !(v.tag == TBool && v.word == 0)
}

// IsFalsy reports whether v is #f.
func (v Value) IsFalsy() bool {
	return v.tag == TBool && v.word == 0
}

// IsNumber reports whether v is a fixnum or heap number.
func (v Value) IsNumber() bool {
	return v.tag == TInt || v.tag == TNumber
}

// IsProcedure reports whether v can be applied.
func (v Value) IsProcedure() bool {
	switch v.tag {
	case TFun, TCaseFun, TPrimitive, TCont, TParam:
		return true
	}
	return false
}

// IsError reports whether v is an error value.
func (v Value) IsError() bool {
	return v.tag == TError
}

// fixnum returns the inline integer payload.  The caller must have checked
// the tag.
func (v Value) fixnum() int32 {
	return int32(uint32(v.word))
}

// char returns the inline character payload.  The caller must have checked
// the tag.
func (v Value) char() rune {
	return rune(uint32(v.word))
}

// symbolID returns the interned identifier for a symbol in either storage
// form.  The caller must have checked the tag.
func (v Value) symbolID() intern.Symbol {
	if v.obj != nil {
		return v.obj.(*symbolObj).id
	}
	return intern.Symbol(v.word)
}

// AsInteger narrows v to an integer.  Fixnums always succeed.  Heap
// numbers succeed when they have no fractional part and fit an int64.
// Absence means "not an integer", never an error.
func (v Value) AsInteger() (int64, bool) {
	switch v.tag {
	case TInt:
		return int64(v.fixnum()), true
	case TNumber:
		f := v.obj.(*numberObj).f
		if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
			return 0, false
		}
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

// AsNumber narrows v to a float.  Fixnums widen; heap numbers return their
// payload.
func (v Value) AsNumber() (float64, bool) {
	switch v.tag {
	case TInt:
		return float64(v.fixnum()), true
	case TNumber:
		return v.obj.(*numberObj).f, true
	}
	return 0, false
}

// AsString narrows v to its text when v is a string.
func (v Value) AsString() (string, bool) {
	if v.tag != TString {
		return "", false
	}
	return v.obj.(*stringObj).s, true
}

// AsSymbol narrows v to its interned identifier when v is a symbol.
func (v Value) AsSymbol() (intern.Symbol, bool) {
	if v.tag != TSymbol {
		return 0, false
	}
	return v.symbolID(), true
}

// SymbolName narrows v to its symbol name.
func (v Value) SymbolName() (string, bool) {
	id, ok := v.AsSymbol()
	if !ok {
		return "", false
	}
	return intern.Name(id)
}

// KeywordName narrows v to its keyword name.
func (v Value) KeywordName() (string, bool) {
	if v.tag != TKeyword {
		return "", false
	}
	return intern.Name(v.obj.(*keywordObj).id)
}

// AsPair narrows v to its two fields when v is a pair.
func (v Value) AsPair() (car, cdr Value, ok bool) {
	if v.tag != TPair {
		return Value{}, Value{}, false
	}
	p := v.obj.(*pairObj)
	return p.car, p.cdr, true
}

// AsList walks v as a chain of pairs and returns the elements.  Only
// proper lists are present: any chain whose final cdr is not nil yields
// absent, signalling an improper list.
func (v Value) AsList() ([]Value, bool) {
	var items []Value
	for cur := v; ; {
		switch cur.tag {
		case TNil:
			return items, true
		case TPair:
			p := cur.obj.(*pairObj)
			items = append(items, p.car)
			cur = p.cdr
		default:
			return nil, false
		}
	}
}

// AsVectorSlice returns a snapshot of a vector's elements taken under its
// read lock.
func (v Value) AsVectorSlice() ([]Value, bool) {
	if v.tag != TVector {
		return nil, false
	}
	return v.obj.(*vectorObj).snapshot(), true
}

// AsBytesSlice returns a copy of a bytevector's bytes.
func (v Value) AsBytesSlice() ([]byte, bool) {
	if v.tag != TBytes {
		return nil, false
	}
	return v.obj.(*bytesObj).snapshot(), true
}

// FunName returns the name a procedure value was defined with, or "" for
// anonymous procedures and non-procedures.
func (v Value) FunName() string {
	switch v.tag {
	case TFun:
		return v.obj.(*funObj).name
	case TCaseFun:
		return v.obj.(*caseFunObj).name
	case TPrimitive:
		return v.obj.(*primObj).name
	case TCont:
		return v.obj.(*contObj).name
	}
	return ""
}

// FID returns the unique function identifier of a procedure value, or ""
// for non-procedures.
func (v Value) FID() string {
	switch v.tag {
	case TFun:
		return v.obj.(*funObj).fid
	case TCaseFun:
		return v.obj.(*caseFunObj).fid
	case TPrimitive:
		return v.obj.(*primObj).fid
	}
	return ""
}

// Docstring returns the documentation attached to a procedure value.
func (v Value) Docstring() string {
	switch v.tag {
	case TFun:
		return v.obj.(*funObj).doc
	case TCaseFun:
		return v.obj.(*caseFunObj).doc
	case TPrimitive:
		return v.obj.(*primObj).doc
	}
	return ""
}

// Env returns the environment captured by a closure, or nil.
func (v Value) Env() *Env {
	switch v.tag {
	case TFun:
		return v.obj.(*funObj).env
	case TCaseFun:
		return v.obj.(*caseFunObj).env
	}
	return nil
}

// Copy duplicates v under the ownership contract.  Immediates copy by
// value.  Unshared heap kinds get a real, independent copy of their state
// (deep for pairs) so mutation through one copy can never be observed
// through another.  Shared kinds return a second handle to the same
// lock-guarded object.
func (v Value) Copy() Value {
	if v.obj == nil {
		return v
	}
	w := v
	w.obj = v.obj.cloneObject()
	return w
}

// Equal tests structural equality.  Two values are equal only when their
// tags match and their kind-specific comparison holds: pairs recurse on
// both fields, vectors compare element-wise against read-locked snapshots,
// numbers compare by float bit pattern, and reference kinds (procedures,
// ports, records, ...) compare by identity.
func (v Value) Equal(u Value) bool {
	if v.tag != u.tag {
		return false
	}
	switch v.tag {
	case TNil, TUnspecified, TEOF:
		return true
	case TBool, TInt, TChar:
		return v.word == u.word
	case TSymbol:
		return v.symbolID() == u.symbolID()
	default:
		return v.obj.equalObject(u.obj)
	}
}

// Eqv tests operational equivalence: like Equal for immediates, numbers,
// symbols, and keywords, but reference identity for compound heap kinds.
func (v Value) Eqv(u Value) bool {
	if v.tag != u.tag {
		return false
	}
	switch v.tag {
	case TNumber, TString:
		return v.obj.equalObject(u.obj)
	case TKeyword:
		return v.obj.(*keywordObj).id == u.obj.(*keywordObj).id
	case TPair, TVector, TBytes, TError:
		return v.obj == u.obj
	default:
		return v.Equal(u)
	}
}
