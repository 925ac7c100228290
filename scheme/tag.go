// Copyright © 2025 The Lambdust authors

package scheme

// Tag identifies the kind of data a Value holds and therefore how its
// payload must be interpreted.  The enumeration is closed: every operation
// on values dispatches over an exhaustive tag switch, and adding a kind
// means extending this list, not subclassing.
type Tag uint8

const (
	// TNil is the empty list ().  TNil is the zero value of Tag so that the
	// zero Value is nil.
	TNil Tag = iota
	// TBool is a boolean.  Booleans are the only falsy kind.
	TBool
	// TInt is a fixnum, an integer within the signed 32-bit range stored
	// inline.  Integers outside the range are promoted to TNumber.
	TInt
	// TChar is a Unicode scalar value.
	TChar
	// TUnspecified marks the result of expressions evaluated for effect.
	TUnspecified
	// TEOF is the end-of-file object returned by port reads.
	TEOF
	// TSymbol is an interned symbol.  Identifiers that fit 32 bits are
	// stored inline; larger identifiers fall back to a heap object.  The
	// two forms compare and hash identically.
	TSymbol

	// Heap kinds.  Values with these tags own a reference to an allocated
	// object.  TSymbol may appear in either group.

	// TString is immutable text.
	TString
	// TNumber is a heap floating point number, also backing integers that
	// do not fit the fixnum range.
	TNumber
	// TKeyword is an interned keyword (#:name).
	TKeyword
	// TPair is an ordered pair of two values.
	TPair
	// TVector is a mutable, shareable sequence of values.
	TVector
	// TBytes is a mutable byte sequence (bytevector).
	TBytes
	// TFun is a closure: formal parameters, body, and captured environment.
	TFun
	// TCaseFun is a case-lambda procedure selecting a clause by arity.
	TCaseFun
	// TPrimitive is a native function descriptor.
	TPrimitive
	// TCont is a one-shot escape continuation captured by call/cc.
	TCont
	// TPort is an input or output port.
	TPort
	// TPromise is a delayed computation created by delay and run by force.
	TPromise
	// TParam is a parameter object with dynamically scoped values.
	TParam
	// TRecordType is a record type descriptor.
	TRecordType
	// TRecord is a record instance.
	TRecord
	// TError is an error object carrying a condition, message data, and a
	// copy of the call stack.
	TError

	numTags
)

var tagStrings = [numTags]string{
	TNil:         "null",
	TBool:        "boolean",
	TInt:         "fixnum",
	TChar:        "character",
	TUnspecified: "unspecified",
	TEOF:         "eof-object",
	TSymbol:      "symbol",
	TString:      "string",
	TNumber:      "number",
	TKeyword:     "keyword",
	TPair:        "pair",
	TVector:      "vector",
	TBytes:       "bytevector",
	TFun:         "procedure",
	TCaseFun:     "case-lambda",
	TPrimitive:   "primitive",
	TCont:        "continuation",
	TPort:        "port",
	TPromise:     "promise",
	TParam:       "parameter",
	TRecordType:  "record-type",
	TRecord:      "record",
	TError:       "error",
}

func (t Tag) String() string {
	if t >= numTags {
		return "invalid-tag"
	}
	return tagStrings[t]
}

// Immediate returns true for kinds stored entirely inline in a Value.
// Constructing an immediate value never allocates.  Symbols are immediate
// only when their identifier fits 32 bits; the tag alone reports true and
// Value accounting distinguishes the two storage forms.
func (t Tag) Immediate() bool {
	return t <= TSymbol
}
