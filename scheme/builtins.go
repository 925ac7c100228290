// Copyright © 2025 The Lambdust authors

package scheme

// builtinDef describes one primitive: its name, a formals string for help
// output, the accepted argument count (max < 0 is variadic), a docstring,
// and the implementation.
type builtinDef struct {
	name    string
	formals string
	min     int
	max     int
	doc     string
	fn      Builtin
}

var langBuiltins = []*builtinDef{
	// Control.
	{"apply", "(fun arg ... args)", 2, -1, "Apply fun to the given arguments, spreading the final list.", builtinApply},
	{"call-with-current-continuation", "(fun)", 1, 1, "Call fun with an escape continuation for the current call.", builtinCallCC},
	{"call/cc", "(fun)", 1, 1, "Call fun with an escape continuation for the current call.", builtinCallCC},
	{"force", "(promise)", 1, 1, "Force a promise, evaluating its body the first time.", builtinForce},
	{"make-promise", "(value)", 1, 1, "Return a promise already forced to value.", builtinMakePromise},
	{"make-parameter", "(init [converter])", 1, 2, "Return a parameter object with the given initial value.", builtinMakeParameter},
	{"eval", "(expr)", 1, 1, "Evaluate expr in the current environment.", builtinEval},
	{"load", "(location)", 1, 1, "Read and evaluate the source file at location.", builtinLoad},
	{"procedure?", "(value)", 1, 1, "Return #t if value can be applied.", builtinIsProcedure},

	// Errors.
	{"error", "(message irritant ...)", 1, -1, "Raise an error carrying message and irritants.", builtinError},
	{"error-object?", "(value)", 1, 1, "Return #t if value is an error object.", builtinIsError},
	{"error-object-message", "(err)", 1, 1, "Return the message an error was raised with.", builtinErrorMessage},
	{"error-object-irritants", "(err)", 1, 1, "Return the list of irritants an error was raised with.", builtinErrorIrritants},

	// Equivalence.
	{"eq?", "(a b)", 2, 2, "Return #t if a and b are operationally identical.", builtinIsEqv},
	{"eqv?", "(a b)", 2, 2, "Return #t if a and b are operationally equivalent.", builtinIsEqv},
	{"equal?", "(a b)", 2, 2, "Return #t if a and b are structurally equal.", builtinIsEqual},
	{"not", "(value)", 1, 1, "Return #t if value is #f and #f otherwise.", builtinNot},

	// Type predicates.
	{"boolean?", "(value)", 1, 1, "Return #t if value is a boolean.", builtinTagPredicate(TBool)},
	{"symbol?", "(value)", 1, 1, "Return #t if value is a symbol.", builtinTagPredicate(TSymbol)},
	{"keyword?", "(value)", 1, 1, "Return #t if value is a keyword.", builtinTagPredicate(TKeyword)},
	{"string?", "(value)", 1, 1, "Return #t if value is a string.", builtinTagPredicate(TString)},
	{"char?", "(value)", 1, 1, "Return #t if value is a character.", builtinTagPredicate(TChar)},
	{"vector?", "(value)", 1, 1, "Return #t if value is a vector.", builtinTagPredicate(TVector)},
	{"bytevector?", "(value)", 1, 1, "Return #t if value is a bytevector.", builtinTagPredicate(TBytes)},
	{"pair?", "(value)", 1, 1, "Return #t if value is a pair.", builtinTagPredicate(TPair)},
	{"null?", "(value)", 1, 1, "Return #t if value is the empty list.", builtinTagPredicate(TNil)},
	{"promise?", "(value)", 1, 1, "Return #t if value is a promise.", builtinTagPredicate(TPromise)},
	{"eof-object?", "(value)", 1, 1, "Return #t if value is the end-of-file object.", builtinTagPredicate(TEOF)},
	{"eof-object", "()", 0, 0, "Return the end-of-file object.", builtinEOFObject},
	{"list?", "(value)", 1, 1, "Return #t if value is a proper list.", builtinIsList},

	// Misc.
	{"gensym", "()", 0, 0, "Return a symbol that cannot collide with read symbols.", builtinGensym},
	{"version", "()", 0, 0, "Return the interpreter version string.", builtinVersion},
	{"help", "([value])", 0, 1, "Print documentation for a procedure or list bound symbols.", builtinHelp},
	{"debug-stack", "()", 0, 0, "Write the call stack to the debug stream.", builtinDebugStack},
}

// InitializeUserEnv installs the language builtins into env's root frame
// and defines the standard parameters.  Configuration functions run after
// the builtins are installed.
func InitializeUserEnv(env *Env, config ...Config) Value {
	root := env.Root()
	for _, group := range [][]*builtinDef{
		langBuiltins, seqBuiltins, textBuiltins, mathBuiltins, ioBuiltins,
	} {
		for _, def := range group {
			v := Primitive(def.name, def.min, def.max, def.doc, def.fn)
			v.obj.(*primObj).formals = def.formals
			root.Define(def.name, v)
		}
	}
	// The standard ports read the runtime's streams on every operation so
	// that WithStdout and friends work no matter where they appear in
	// config.
	rt := root.Runtime()
	root.Define("current-output-port", MakeParameter("current-output-port", NewOutputPort("stdout", runtimeWriter{rt}), Nil()))
	root.Define("current-input-port", MakeParameter("current-input-port", NewInputPort("stdin", runtimeReader{rt}), Nil()))
	for _, fn := range config {
		if lerr := fn(root); lerr.IsError() {
			return lerr
		}
	}
	return Nil()
}

func builtinApply(rt *Runtime, env *Env, args []Value) Value {
	fun := args[0]
	tail, ok := args[len(args)-1].AsList()
	if !ok {
		return env.Errorf("last argument is not a list: %s", args[len(args)-1])
	}
	spread := append(append([]Value{}, args[1:len(args)-1]...), tail...)
	return env.applyProc(fun, spread)
}

func builtinCallCC(rt *Runtime, env *Env, args []Value) Value {
	if !args[0].IsProcedure() {
		return env.Errorf("not a procedure: %s", args[0])
	}
	return env.callCC(args[0])
}

func builtinForce(rt *Runtime, env *Env, args []Value) Value {
	if args[0].tag != TPromise {
		// Forcing a non-promise returns it unchanged.
		return args[0]
	}
	o := args[0].obj.(*promiseObj)
	return o.force(func(body []Value, penv *Env) Value {
		return penv.evalBody(body)
	})
}

func builtinMakePromise(rt *Runtime, env *Env, args []Value) Value {
	if args[0].tag == TPromise {
		return args[0]
	}
	return MakePromise(args[0])
}

func builtinMakeParameter(rt *Runtime, env *Env, args []Value) Value {
	filter := Nil()
	init := args[0]
	if len(args) == 2 {
		if !args[1].IsProcedure() {
			return env.Errorf("converter is not a procedure: %s", args[1])
		}
		filter = args[1]
		init = env.applyProc(filter, []Value{init})
		if init.IsError() {
			return init
		}
	}
	return MakeParameter("", init, filter)
}

func builtinEval(rt *Runtime, env *Env, args []Value) Value {
	return env.eval(args[0])
}

func builtinLoad(rt *Runtime, env *Env, args []Value) Value {
	loc, ok := args[0].AsString()
	if !ok {
		return env.Errorf("not a string: %s", args[0])
	}
	return env.LoadFile(loc)
}

func builtinIsProcedure(rt *Runtime, env *Env, args []Value) Value {
	return Bool(args[0].IsProcedure())
}

func builtinError(rt *Runtime, env *Env, args []Value) Value {
	return env.ErrorCondition("error", args...)
}

func builtinIsError(rt *Runtime, env *Env, args []Value) Value {
	return Bool(args[0].IsError())
}

func builtinErrorMessage(rt *Runtime, env *Env, args []Value) Value {
	if args[0].tag != TError {
		return env.ErrorConditionf("wrong-type", "error-object-message: not an error object: %s", args[0])
	}
	o := args[0].obj.(*errObj)
	if len(o.args) > 0 {
		if _, ok := o.args[0].AsString(); ok {
			return o.args[0]
		}
	}
	return String(o.message())
}

func builtinErrorIrritants(rt *Runtime, env *Env, args []Value) Value {
	if args[0].tag != TError {
		return env.ErrorConditionf("wrong-type", "error-object-irritants: not an error object: %s", args[0])
	}
	o := args[0].obj.(*errObj)
	if len(o.args) > 1 {
		return List(o.args[1:]...)
	}
	return Nil()
}

func builtinIsEqv(rt *Runtime, env *Env, args []Value) Value {
	return Bool(args[0].Eqv(args[1]))
}

func builtinIsEqual(rt *Runtime, env *Env, args []Value) Value {
	return Bool(args[0].Equal(args[1]))
}

func builtinNot(rt *Runtime, env *Env, args []Value) Value {
	return Bool(!args[0].IsTruthy())
}

// builtinTagPredicate returns a predicate testing the value's tag.
func builtinTagPredicate(tag Tag) Builtin {
	return func(rt *Runtime, env *Env, args []Value) Value {
		return Bool(args[0].tag == tag)
	}
}

func builtinEOFObject(rt *Runtime, env *Env, args []Value) Value {
	return EOFObject()
}

func builtinIsList(rt *Runtime, env *Env, args []Value) Value {
	_, ok := args[0].AsList()
	return Bool(ok)
}

func builtinGensym(rt *Runtime, env *Env, args []Value) Value {
	return Symbol(rt.GenSym())
}

func builtinVersion(rt *Runtime, env *Env, args []Value) Value {
	return String(Version)
}

func builtinDebugStack(rt *Runtime, env *Env, args []Value) Value {
	rt.Stack.WriteTrace(rt.stderr())
	return Unspecified()
}

// currentOutputPort resolves the current-output-port parameter, falling
// back to the runtime stream when the binding is missing or rebound to a
// non-port.
func currentOutputPort(rt *Runtime, env *Env) *portObj {
	if v, ok := env.Lookup("current-output-port"); ok && v.tag == TParam {
		cur := v.obj.(*paramObj).current()
		if cur.tag == TPort {
			return cur.obj.(*portObj)
		}
	}
	o := NewOutputPort("stdout", runtimeWriter{rt})
	return o.obj.(*portObj)
}

func currentInputPort(rt *Runtime, env *Env) (*portObj, bool) {
	if v, ok := env.Lookup("current-input-port"); ok && v.tag == TParam {
		cur := v.obj.(*paramObj).current()
		if cur.tag == TPort {
			return cur.obj.(*portObj), true
		}
	}
	return nil, false
}

func fmtPortError(env *Env, fname string, err error) Value {
	return env.ErrorConditionf("port-error", "%s: %v", fname, err)
}
