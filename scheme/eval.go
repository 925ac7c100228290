// Copyright © 2025 The Lambdust authors

package scheme

import (
	"fmt"

	"github.com/akasaka-miraina/lambdust-sub006/parser/token"
)

// Eval evaluates expr in the environment.  Symbols resolve through the
// frame chain, pairs are special forms or applications, and everything
// else evaluates to itself.  Errors are returned as error values, never
// panics.
func (e *Env) Eval(expr Value) Value {
	return e.eval(expr)
}

// Apply calls an already evaluated procedure with evaluated arguments.  It
// is the entry point for Go code holding a procedure value, for example a
// callback registered by a script.  Arguments are passed as given, without
// copying or further evaluation.
func (e *Env) Apply(fun Value, args []Value) Value {
	return e.applyProc(fun, args)
}

// eval is the evaluator core.  Calls in tail position update expr and env
// and continue the loop, so iterative programs written with tail recursion
// run in constant Go stack and constant physical interpreter stack.  The
// single frame the loop pushes is popped on the way out, including when a
// continuation unwinds through it.
func (env *Env) eval(expr Value) (res Value) {
	rt := env.Runtime()
	pushed := false
	defer func() {
		if pushed {
			rt.Stack.Pop()
		}
	}()

	for {
		switch expr.tag {
		case TSymbol:
			name, ok := expr.SymbolName()
			if !ok {
				return env.Errorf("symbol has no interned name").WithSource(expr.src)
			}
			v, ok := env.Lookup(name)
			if !ok {
				return env.ErrorConditionf("unbound-symbol", "unbound symbol: %s", name).WithSource(expr.src)
			}
			return v
		case TPair:
		default:
			// Everything else is self-evaluating.
			return expr
		}

		p := expr.obj.(*pairObj)
		if p.car.tag == TSymbol {
			name, _ := p.car.SymbolName()
			if next, nextEnv, done := env.evalSpecial(name, expr); done {
				return next.withSourceIfError(expr.src)
			} else if nextEnv != nil {
				// A tail expression from a special form continues the
				// loop.
				expr, env = next, nextEnv
				continue
			}
		}

		// Procedure application: evaluate the head and then each operand
		// left to right.
		fun := env.eval(p.car)
		if fun.IsError() {
			return fun.withSourceIfError(expr.src)
		}
		args, argErr := env.evalArgs(p.cdr)
		if argErr.IsError() {
			return argErr.withSourceIfError(expr.src)
		}

		if err := rt.countStep(); err != nil {
			return env.ErrorConditionf("interrupted", "%v", err).WithSource(expr.src)
		}

		switch fun.tag {
		case TFun:
			o := fun.obj.(*funObj)
			if rt.profiling() {
				// The profiler needs balanced start and end marks for
				// every application, so tail calls are not collapsed
				// while it is attached.
				return env.applyProc(fun, args).withSourceIfError(expr.src)
			}
			if !o.params.accepts(len(args)) {
				return env.arityError(o.label(), o.params, len(args)).WithSource(expr.src)
			}
			var err error
			if pushed {
				err = rt.Stack.PushTail(expr.src, o.fid, o.name)
			} else {
				err = rt.Stack.Push(expr.src, o.fid, o.name)
				pushed = err == nil
			}
			if err != nil {
				return env.ErrorFromGo(err).WithSource(expr.src)
			}
			next, bodyEnv, berr := enterBody(o.params, o.body, o.env, args)
			if berr.IsError() {
				return berr.WithSource(expr.src)
			}
			expr, env = next, bodyEnv
		case TCaseFun:
			o := fun.obj.(*caseFunObj)
			if rt.profiling() {
				return env.applyProc(fun, args).withSourceIfError(expr.src)
			}
			clause, ok := o.selectClause(len(args))
			if !ok {
				return env.ErrorConditionf("wrong-number-of-arguments",
					"%s: no clause accepts %d arguments", o.label(), len(args)).WithSource(expr.src)
			}
			var err error
			if pushed {
				err = rt.Stack.PushTail(expr.src, o.fid, o.name)
			} else {
				err = rt.Stack.Push(expr.src, o.fid, o.name)
				pushed = err == nil
			}
			if err != nil {
				return env.ErrorFromGo(err).WithSource(expr.src)
			}
			next, bodyEnv, berr := enterBody(clause.params, clause.body, o.env, args)
			if berr.IsError() {
				return berr.WithSource(expr.src)
			}
			expr, env = next, bodyEnv
		case TPrimitive, TCont, TParam:
			return env.applyTerminal(fun, args, expr.src).withSourceIfError(expr.src)
		default:
			return env.Errorf("cannot apply %s value: %s", fun.tag, fun).WithSource(expr.src)
		}
	}
}

// withSourceIfError attaches loc to error values that do not already have
// a source location.
func (v Value) withSourceIfError(loc *token.Location) Value {
	if v.tag == TError && v.src == nil && loc != nil {
		return v.WithSource(loc)
	}
	return v
}

// evalArgs evaluates an operand list.  The error result is nil-valued
// unless an operand fails.
func (env *Env) evalArgs(rest Value) ([]Value, Value) {
	var args []Value
	for cur := rest; ; {
		switch cur.tag {
		case TNil:
			return args, Nil()
		case TPair:
			p := cur.obj.(*pairObj)
			v := env.eval(p.car)
			if v.IsError() {
				return nil, v
			}
			args = append(args, v)
			cur = p.cdr
		default:
			return nil, env.Errorf("improper argument list")
		}
	}
}

// enterBody binds args for a procedure body and returns the body's tail
// expression along with the environment to evaluate it in.  Leading body
// expressions are evaluated here.
func enterBody(params paramSpec, body []Value, closure *Env, args []Value) (Value, *Env, Value) {
	env := bindArgs(params, closure, args)
	for i := 0; i < len(body)-1; i++ {
		if v := env.eval(body[i]); v.IsError() {
			return Value{}, nil, v
		}
	}
	return body[len(body)-1], env, Nil()
}

func bindArgs(params paramSpec, closure *Env, args []Value) *Env {
	env := closure.Extend()
	for i, name := range params.required {
		env.Define(name, args[i])
	}
	if params.rest != "" {
		env.Define(params.rest, List(args[len(params.required):]...))
	}
	return env
}

func (env *Env) arityError(label string, params paramSpec, got int) Value {
	return env.ErrorConditionf("wrong-number-of-arguments",
		"%s: expected %s arguments, got %d", label, params.String(), got)
}

func (rt *Runtime) profiling() bool {
	return rt.Profiler != nil && rt.Profiler.IsEnabled()
}

// applyProc applies an already-evaluated procedure to evaluated arguments.
// Builtins use it for callbacks (apply, map, force, call/cc); the
// evaluator uses it whenever tail-call collapsing is off.  Applications
// here grow the physical stack, so deep recursion through applyProc is
// bounded by the physical height limit.
func (env *Env) applyProc(fun Value, args []Value) Value {
	rt := env.Runtime()
	if err := rt.countStep(); err != nil {
		return env.ErrorConditionf("interrupted", "%v", err)
	}
	switch fun.tag {
	case TFun:
		o := fun.obj.(*funObj)
		if !o.params.accepts(len(args)) {
			return env.arityError(o.label(), o.params, len(args))
		}
		if err := rt.Stack.Push(fun.src, o.fid, o.name); err != nil {
			return env.ErrorFromGo(err)
		}
		defer rt.Stack.Pop()
		if rt.profiling() {
			end := rt.Profiler.Start(fun)
			defer end()
		}
		bodyEnv := bindArgs(o.params, o.env, args)
		return bodyEnv.evalBody(o.body)
	case TCaseFun:
		o := fun.obj.(*caseFunObj)
		clause, ok := o.selectClause(len(args))
		if !ok {
			return env.ErrorConditionf("wrong-number-of-arguments",
				"%s: no clause accepts %d arguments", o.label(), len(args))
		}
		if err := rt.Stack.Push(fun.src, o.fid, o.name); err != nil {
			return env.ErrorFromGo(err)
		}
		defer rt.Stack.Pop()
		if rt.profiling() {
			end := rt.Profiler.Start(fun)
			defer end()
		}
		bodyEnv := bindArgs(clause.params, o.env, args)
		return bodyEnv.evalBody(clause.body)
	case TPrimitive, TCont, TParam:
		return env.applyTerminal(fun, args, fun.src)
	default:
		return env.Errorf("cannot apply %s value: %s", fun.tag, fun)
	}
}

// applyTerminal applies procedure kinds that never produce a tail call:
// builtins, continuations, and parameters.
func (env *Env) applyTerminal(fun Value, args []Value, src *token.Location) Value {
	rt := env.Runtime()
	switch fun.tag {
	case TPrimitive:
		o := fun.obj.(*primObj)
		if !o.accepts(len(args)) {
			min := fmt.Sprintf("%d", o.min)
			if o.max < 0 {
				min = fmt.Sprintf("at least %d", o.min)
			} else if o.max != o.min {
				min = fmt.Sprintf("between %d and %d", o.min, o.max)
			}
			return env.ErrorConditionf("wrong-number-of-arguments",
				"%s: expected %s arguments, got %d", o.name, min, len(args))
		}
		if err := rt.Stack.Push(src, o.fid, o.name); err != nil {
			return env.ErrorFromGo(err)
		}
		defer rt.Stack.Pop()
		if rt.profiling() {
			end := rt.Profiler.Start(fun)
			defer end()
		}
		return o.fn(rt, env, args)
	case TCont:
		o := fun.obj.(*contObj)
		if o.expired() {
			return env.ErrorConditionf("expired-continuation",
				"continuation %s called outside its dynamic extent", o.name)
		}
		val := Unspecified()
		switch len(args) {
		case 0:
		case 1:
			val = args[0]
		default:
			return env.ErrorConditionf("wrong-number-of-arguments",
				"continuation %s: expected at most 1 argument, got %d", o.name, len(args))
		}
		panic(contSignal{obj: o, val: val})
	case TParam:
		o := fun.obj.(*paramObj)
		if len(args) != 0 {
			return env.ErrorConditionf("wrong-number-of-arguments",
				"parameter %s: expected 0 arguments, got %d", o.name, len(args))
		}
		return o.current()
	}
	return env.Errorf("cannot apply %s value: %s", fun.tag, fun)
}

// evalBody evaluates a procedure body, returning the last expression's
// value.
func (env *Env) evalBody(body []Value) Value {
	last := Unspecified()
	for _, expr := range body {
		last = env.eval(expr)
		if last.IsError() {
			return last
		}
	}
	return last
}

// callCC applies fun to a fresh escape continuation.  The continuation is
// valid until callCC returns; applying it afterwards raises an
// expired-continuation error.
func (env *Env) callCC(fun Value) (res Value) {
	o := newContObj(fun.FunName())
	if o.name == "" {
		o.name = env.Runtime().GenSym()
	}
	defer func() {
		o.expire()
		if r := recover(); r != nil {
			sig, ok := r.(contSignal)
			if !ok || sig.obj != o {
				// Some outer capture owns this unwind.
				panic(r)
			}
			res = sig.val
		}
	}()
	return env.applyProc(fun, []Value{{tag: TCont, obj: o}})
}
