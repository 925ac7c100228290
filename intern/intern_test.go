// Copyright © 2025 The Lambdust authors

package intern

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternStable(t *testing.T) {
	tab := NewTable()
	a := tab.Intern("lambda")
	b := tab.Intern("define")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, tab.Intern("lambda"))
	assert.Equal(t, b, tab.Intern("define"))
	assert.Equal(t, 2, tab.Len())
}

func TestName(t *testing.T) {
	tab := NewTable()
	sym := tab.Intern("call/cc")
	name, ok := tab.Name(sym)
	assert.True(t, ok)
	assert.Equal(t, "call/cc", name)

	_, ok = tab.Name(Symbol(999))
	assert.False(t, ok)
}

func TestDefaultTable(t *testing.T) {
	sym := Intern("intern-test-default")
	name, ok := Name(sym)
	assert.True(t, ok)
	assert.Equal(t, "intern-test-default", name)
	assert.Equal(t, sym, Intern("intern-test-default"))
}

func TestInternConcurrent(t *testing.T) {
	tab := NewTable()
	const goroutines = 8
	const names = 64
	var wg sync.WaitGroup
	ids := make([][]Symbol, goroutines)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			ids[g] = make([]Symbol, names)
			for i := 0; i < names; i++ {
				ids[g][i] = tab.Intern(fmt.Sprintf("sym%02d", i))
			}
		}(g)
	}
	wg.Wait()
	assert.Equal(t, names, tab.Len())
	for g := 1; g < goroutines; g++ {
		assert.Equal(t, ids[0], ids[g], "goroutine %d disagrees", g)
	}
}
