// Copyright © 2025 The Lambdust authors

package scheme_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/akasaka-miraina/lambdust-sub006/parser/token"
	"github.com/akasaka-miraina/lambdust-sub006/scheme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImmediatesDoNotAllocate(t *testing.T) {
	scheme.Symbol("warmup")
	before := scheme.HeapObjectCount()
	allocs := testing.AllocsPerRun(100, func() {
		_ = scheme.Nil()
		_ = scheme.Bool(true)
		_ = scheme.Int(42)
		_ = scheme.Char('x')
		_ = scheme.Unspecified()
		_ = scheme.EOFObject()
		_ = scheme.Symbol("warmup")
	})
	assert.Equal(t, float64(0), allocs)
	assert.Equal(t, before, scheme.HeapObjectCount())
}

func TestIntPromotion(t *testing.T) {
	for _, n := range []int64{0, 1, -1, math.MaxInt32, math.MinInt32} {
		v := scheme.Int(n)
		assert.Equal(t, scheme.TInt, v.Tag(), "Int(%d)", n)
		got, ok := v.AsInteger()
		require.True(t, ok)
		assert.Equal(t, n, got)
	}
	for _, n := range []int64{math.MaxInt32 + 1, math.MinInt32 - 1, 1 << 40} {
		v := scheme.Int(n)
		assert.Equal(t, scheme.TNumber, v.Tag(), "Int(%d)", n)
		got, ok := v.AsInteger()
		require.True(t, ok)
		assert.Equal(t, n, got)
	}
	// Promoted integers render as heap numbers.
	assert.Equal(t, "2.147483648e+09", scheme.Int(math.MaxInt32+1).String())
	assert.Equal(t, "-2.147483649e+09", scheme.Int(math.MinInt32-1).String())
}

func TestFloatFoldsIntegralValues(t *testing.T) {
	assert.Equal(t, scheme.TInt, scheme.Float(42).Tag())
	assert.Equal(t, "42", scheme.Float(42).String())
	assert.Equal(t, scheme.TInt, scheme.Float(1.5e3).Tag())
	assert.Equal(t, scheme.TInt, scheme.Float(math.MinInt32).Tag())

	// Negative zero truncates to itself and lands on the fixnum zero.
	negZero := math.Copysign(0, -1)
	assert.Equal(t, scheme.TInt, scheme.Float(negZero).Tag())
	assert.Equal(t, "0", scheme.Float(negZero).String())

	assert.Equal(t, scheme.TNumber, scheme.Float(2.5).Tag())
	assert.Equal(t, scheme.TNumber, scheme.Float(1.2e13).Tag())
	assert.Equal(t, scheme.TNumber, scheme.Float(math.Inf(1)).Tag())
	assert.Equal(t, scheme.TNumber, scheme.Float(math.Inf(-1)).Tag())
	assert.Equal(t, scheme.TNumber, scheme.Float(math.NaN()).Tag())
}

func TestAccessors(t *testing.T) {
	n, ok := scheme.Int(7).AsNumber()
	require.True(t, ok)
	assert.Equal(t, 7.0, n)
	n, ok = scheme.Float(2.5).AsNumber()
	require.True(t, ok)
	assert.Equal(t, 2.5, n)
	_, ok = scheme.String("7").AsNumber()
	assert.False(t, ok)

	_, ok = scheme.Float(2.5).AsInteger()
	assert.False(t, ok)
	_, ok = scheme.Float(math.NaN()).AsInteger()
	assert.False(t, ok)

	s, ok := scheme.String("hi").AsString()
	require.True(t, ok)
	assert.Equal(t, "hi", s)
	_, ok = scheme.Symbol("hi").AsString()
	assert.False(t, ok)

	name, ok := scheme.Symbol("cons").SymbolName()
	require.True(t, ok)
	assert.Equal(t, "cons", name)
	name, ok = scheme.Keyword("rest").KeywordName()
	require.True(t, ok)
	assert.Equal(t, "rest", name)

	car, cdr, ok := scheme.Cons(scheme.Int(1), scheme.Int(2)).AsPair()
	require.True(t, ok)
	assert.Equal(t, "1", car.String())
	assert.Equal(t, "2", cdr.String())

	items, ok := scheme.List(scheme.Int(1), scheme.Int(2)).AsList()
	require.True(t, ok)
	require.Len(t, items, 2)
	items, ok = scheme.Nil().AsList()
	require.True(t, ok)
	assert.Len(t, items, 0)
	_, ok = scheme.Cons(scheme.Int(1), scheme.Int(2)).AsList()
	assert.False(t, ok)
}

func TestBytesCopiesInput(t *testing.T) {
	raw := []byte{1, 2}
	v := scheme.Bytes(raw)
	raw[0] = 9
	assert.Equal(t, "#u8(1 2)", v.String())
}

func TestVectorSliceIsSnapshot(t *testing.T) {
	v := scheme.Vector(scheme.Int(1), scheme.Int(2))
	items, ok := v.AsVectorSlice()
	require.True(t, ok)
	items[0] = scheme.Int(9)
	assert.Equal(t, "#(1 2)", v.String())
}

func TestCopyOwnership(t *testing.T) {
	// Immediates copy by value.
	five := scheme.Int(5)
	assert.True(t, five.Eqv(five.Copy()))

	// Pairs are unshared: a copy is structurally equal but not the same
	// object.
	pair := scheme.List(scheme.Int(1), scheme.Int(2))
	dup := pair.Copy()
	assert.True(t, pair.Equal(dup))
	assert.False(t, pair.Eqv(dup))
	assert.True(t, pair.Eqv(pair))

	// Bytevectors are unshared too.
	bv := scheme.Bytes([]byte{1})
	assert.True(t, bv.Equal(bv.Copy()))
	assert.False(t, bv.Eqv(bv.Copy()))

	// Vectors are shared: both handles reach the same backing object.
	vec := scheme.Vector(scheme.Int(1))
	assert.True(t, vec.Eqv(vec.Copy()))

	// Strings copy their content, and eqv? compares content, so copies
	// stay equivalent.
	str := scheme.String("a")
	assert.True(t, str.Eqv(str.Copy()))
}

func TestEqualAndEqv(t *testing.T) {
	assert.True(t, scheme.Nil().Equal(scheme.Nil()))
	assert.True(t, scheme.Symbol("a").Eqv(scheme.Symbol("a")))
	assert.False(t, scheme.Symbol("a").Eqv(scheme.Symbol("b")))
	assert.False(t, scheme.Symbol("a").Equal(scheme.String("a")))

	// Fixnums and heap numbers are distinct kinds, like exact and
	// inexact numbers.
	heapFive := scheme.Float(5.5)
	assert.False(t, scheme.Int(5).Equal(heapFive))

	// Heap numbers compare by bit pattern, which makes NaN equal to
	// itself and keeps hashing coherent.
	nan := scheme.Float(math.NaN())
	assert.True(t, nan.Equal(nan.Copy()))
	assert.True(t, nan.Eqv(nan.Copy()))

	list := func() scheme.Value {
		return scheme.List(scheme.Int(1), scheme.List(scheme.Int(2)))
	}
	assert.True(t, list().Equal(list()))
	assert.False(t, list().Eqv(list()))

	vec := func() scheme.Value { return scheme.Vector(scheme.String("x")) }
	assert.True(t, vec().Equal(vec()))
	assert.False(t, vec().Eqv(vec()))

	assert.True(t, scheme.Keyword("k").Eqv(scheme.Keyword("k")))
	assert.False(t, scheme.Keyword("k").Eqv(scheme.Keyword("j")))
}

func TestHashAgreesWithEqual(t *testing.T) {
	pairs := [][2]scheme.Value{
		{scheme.Int(5), scheme.Int(5)},
		{scheme.Float(2.5), scheme.Float(2.5)},
		{scheme.Float(math.NaN()), scheme.Float(math.NaN())},
		{scheme.String("abc"), scheme.String("abc")},
		{scheme.Symbol("abc"), scheme.Symbol("abc")},
		{scheme.List(scheme.Int(1), scheme.Int(2)), scheme.List(scheme.Int(1), scheme.Int(2))},
		{scheme.Bytes([]byte{1, 2}), scheme.Bytes([]byte{1, 2})},
	}
	for _, p := range pairs {
		require.True(t, p[0].Equal(p[1]), "%s", p[0])
		assert.Equal(t, p[0].Hash(), p[1].Hash(), "%s", p[0])
	}

	// Same text under different tags must not collide by construction.
	assert.NotEqual(t, scheme.String("abc").Hash(), scheme.Symbol("abc").Hash())
	assert.NotEqual(t, scheme.Int(0).Hash(), scheme.Bool(false).Hash())
}

func TestValueFormat(t *testing.T) {
	assert.Equal(t, "5", fmt.Sprintf("%v", scheme.Int(5)))
	assert.Equal(t, `"hi"`, fmt.Sprintf("%v", scheme.String("hi")))
	assert.Equal(t, "(1 2)", fmt.Sprintf("%s", scheme.List(scheme.Int(1), scheme.Int(2))))
}

func TestWithSource(t *testing.T) {
	v := scheme.Int(1)
	assert.Nil(t, v.Source())
	loc := &token.Location{File: "t", Line: 1, Col: 2}
	w := v.WithSource(loc)
	require.NotNil(t, w.Source())
	assert.Equal(t, "t:1:2", w.Source().String())
	// The receiver is unchanged.
	assert.Nil(t, v.Source())
}
