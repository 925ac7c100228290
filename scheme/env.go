// Copyright © 2025 The Lambdust authors

package scheme

import "sync"

// binding is one name in an environment frame.  Frames keep bindings in
// definition order and look them up by linear scan; frames are small and
// scanning beats hashing at the sizes closures actually capture.
type binding struct {
	name string
	val  Value
}

// Env is one frame of the lexical environment chain.  Each frame has its
// own lock, taken only for operations on that frame's bindings and never
// held while the chain is traversed, so concurrent evaluators sharing a
// captured environment cannot deadlock across frames.
type Env struct {
	mu       sync.RWMutex
	parent   *Env
	gen      uint64
	bindings []binding
	rt       *Runtime
}

// NewEnv returns a frame below parent.  A nil parent makes a root frame
// with generation zero and a standard runtime; children are one
// generation deeper than their parent and share its runtime.
func NewEnv(parent *Env) *Env {
	if parent == nil {
		return NewEnvRuntime(nil)
	}
	return &Env{
		parent: parent,
		gen:    parent.gen + 1,
		rt:     parent.rt,
	}
}

// NewEnvRuntime returns a root frame evaluating under rt.  A nil rt gets
// a standard runtime.  Sharing one runtime between unrelated environment
// trees has unspecified results.
func NewEnvRuntime(rt *Runtime) *Env {
	if rt == nil {
		rt = StandardRuntime()
	}
	return &Env{rt: rt}
}

// Extend returns a fresh child frame, as entering a lambda body or let
// scope does.
func (e *Env) Extend() *Env {
	return NewEnv(e)
}

// Parent returns the enclosing frame, or nil at the root.
func (e *Env) Parent() *Env {
	return e.parent
}

// Generation returns the frame's depth in the chain.  The root is zero.
func (e *Env) Generation() uint64 {
	return e.gen
}

// Runtime returns the runtime this environment evaluates under.
func (e *Env) Runtime() *Runtime {
	return e.rt
}

// Root returns the global frame at the top of the chain.
func (e *Env) Root() *Env {
	for e.parent != nil {
		e = e.parent
	}
	return e
}

// Len returns the number of bindings in this frame alone.
func (e *Env) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.bindings)
}

// Names returns this frame's binding names in definition order.
func (e *Env) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, len(e.bindings))
	for i, b := range e.bindings {
		names[i] = b.name
	}
	return names
}

// Define binds name in this frame.  An existing local binding is
// overwritten in place, keeping its position in definition order; parent
// frames are never consulted.  Defining an anonymous procedure attaches
// name to it for traces and error reports.
func (e *Env) Define(name string, v Value) {
	nameProcedure(name, v)
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.bindings {
		if e.bindings[i].name == name {
			e.bindings[i].val = v
			return
		}
	}
	e.bindings = append(e.bindings, binding{name: name, val: v})
}

// nameProcedure gives an anonymous procedure the name it is being bound
// to.  Already-named procedures keep their first name.
func nameProcedure(name string, v Value) {
	switch v.tag {
	case TFun:
		o := v.obj.(*funObj)
		if o.name == "" {
			o.name = name
		}
	case TCaseFun:
		o := v.obj.(*caseFunObj)
		if o.name == "" {
			o.name = name
		}
	}
}

// lookupLocal scans only this frame.
func (e *Env) lookupLocal(name string) (Value, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for i := range e.bindings {
		if e.bindings[i].name == name {
			return e.bindings[i].val, true
		}
	}
	return Value{}, false
}

// Lookup resolves name against this frame and then each enclosing frame.
// Each frame's lock is released before the parent is consulted.
func (e *Env) Lookup(name string) (Value, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if v, ok := cur.lookupLocal(name); ok {
			return v, true
		}
	}
	return Value{}, false
}

// setLocal updates an existing binding in this frame only.
func (e *Env) setLocal(name string, v Value) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.bindings {
		if e.bindings[i].name == name {
			e.bindings[i].val = v
			return true
		}
	}
	return false
}

// Set assigns to an existing binding, updating the innermost frame that
// holds name.  It reports false when no frame in the chain binds name;
// assignment never creates bindings.
func (e *Env) Set(name string, v Value) bool {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.setLocal(name, v) {
			return true
		}
	}
	return false
}
