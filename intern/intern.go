// Copyright © 2025 The Lambdust authors

// Package intern maintains the process-wide symbol table mapping symbol
// names to small stable integer identifiers.  The table only grows; an
// identifier, once issued, names the same string for the life of the
// process.
package intern

import "sync"

// Symbol identifies an interned symbol name.
type Symbol uint64

// Table maps symbol names to identifiers and back.  The zero value is not
// usable; call NewTable.  A Table may be used from concurrent goroutines.
type Table struct {
	mu    sync.RWMutex
	ids   map[string]Symbol
	names []string
}

// NewTable returns an empty symbol table.
func NewTable() *Table {
	return &Table{ids: make(map[string]Symbol)}
}

// Intern returns the identifier for name, issuing a new one if name has
// not been seen before.
func (t *Table) Intern(name string) Symbol {
	t.mu.RLock()
	sym, ok := t.ids[name]
	t.mu.RUnlock()
	if ok {
		return sym
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	// Re-check: another goroutine may have interned name while the read
	// lock was released.
	if sym, ok := t.ids[name]; ok {
		return sym
	}
	sym = Symbol(len(t.names))
	t.ids[name] = sym
	t.names = append(t.names, name)
	return sym
}

// Name returns the string interned under sym.  The second result is false
// if sym was never issued by this table.
func (t *Table) Name(sym Symbol) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if sym >= Symbol(len(t.names)) {
		return "", false
	}
	return t.names[sym], true
}

// Len reports the number of interned symbols.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.names)
}

// defaultTable backs the package-level functions.  Interpreter values store
// bare Symbol ids, so all runtimes in a process share this table.
var defaultTable = NewTable()

// Intern returns the process-wide identifier for name.
func Intern(name string) Symbol {
	return defaultTable.Intern(name)
}

// Name returns the string interned under sym in the process-wide table.
func Name(sym Symbol) (string, bool) {
	return defaultTable.Name(sym)
}

// Len reports the number of symbols in the process-wide table.
func Len() int {
	return defaultTable.Len()
}
