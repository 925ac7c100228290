// Copyright © 2025 The Lambdust authors

package scheme

// evalSpecial dispatches syntactic forms.  It returns done=true with the
// form's result, or done=false with a non-nil environment and the form's
// tail expression for the eval loop to continue with.  Names that are not
// special forms return done=false and a nil environment so the caller
// falls through to procedure application.
func (env *Env) evalSpecial(name string, expr Value) (Value, *Env, bool) {
	switch name {
	case "quote", "quasiquote", "if", "define", "set!", "lambda",
		"case-lambda", "let", "let*", "letrec", "begin", "and", "or",
		"when", "unless", "cond", "case", "delay", "parameterize",
		"define-record-type":
	default:
		return Value{}, nil, false
	}

	args, ok := expr.obj.(*pairObj).cdr.AsList()
	if !ok {
		return env.Errorf("%s: improper form", name), nil, true
	}

	switch name {
	case "quote":
		if len(args) != 1 {
			return env.Errorf("quote: expected 1 form, got %d", len(args)), nil, true
		}
		return args[0].Copy(), nil, true
	case "quasiquote":
		if len(args) != 1 {
			return env.Errorf("quasiquote: expected 1 form, got %d", len(args)), nil, true
		}
		return env.quasiquote(args[0], 1), nil, true
	case "if":
		return env.evalIf(args)
	case "define":
		return env.evalDefine(args), nil, true
	case "set!":
		return env.evalSet(args), nil, true
	case "lambda":
		return env.evalLambda(args), nil, true
	case "case-lambda":
		return env.evalCaseLambda(args), nil, true
	case "let":
		return env.evalLet(args)
	case "let*":
		return env.evalLetSeq(args)
	case "letrec":
		return env.evalLetrec(args)
	case "begin":
		return env.tailBody(env, args)
	case "and":
		return env.evalAnd(args)
	case "or":
		return env.evalOr(args)
	case "when":
		return env.evalWhen("when", args, true)
	case "unless":
		return env.evalWhen("unless", args, false)
	case "cond":
		return env.evalCond(args)
	case "case":
		return env.evalCase(args)
	case "delay":
		if len(args) != 1 {
			return env.Errorf("delay: expected 1 form, got %d", len(args)), nil, true
		}
		return Value{tag: TPromise, obj: newPromiseObj(args, env)}, nil, true
	case "parameterize":
		return env.evalParameterize(args), nil, true
	case "define-record-type":
		return env.evalDefineRecordType(args), nil, true
	}
	return Value{}, nil, false
}

// tailBody evaluates all but the last expression of a body and hands the
// last back as the tail expression.  An empty body is unspecified.
func (env *Env) tailBody(bodyEnv *Env, body []Value) (Value, *Env, bool) {
	if len(body) == 0 {
		return Unspecified(), nil, true
	}
	for _, expr := range body[:len(body)-1] {
		if v := bodyEnv.eval(expr); v.IsError() {
			return v, nil, true
		}
	}
	return body[len(body)-1], bodyEnv, false
}

func (env *Env) evalIf(args []Value) (Value, *Env, bool) {
	if len(args) != 2 && len(args) != 3 {
		return env.Errorf("if: expected 2 or 3 forms, got %d", len(args)), nil, true
	}
	test := env.eval(args[0])
	if test.IsError() {
		return test, nil, true
	}
	if test.IsTruthy() {
		return args[1], env, false
	}
	if len(args) == 3 {
		return args[2], env, false
	}
	return Unspecified(), nil, true
}

func (env *Env) evalDefine(args []Value) Value {
	if len(args) < 2 {
		return env.Errorf("define: expected a name and a value")
	}
	switch args[0].tag {
	case TSymbol:
		if len(args) != 2 {
			return env.Errorf("define: expected 1 value form, got %d", len(args)-1)
		}
		name, _ := args[0].SymbolName()
		v := env.eval(args[1])
		if v.IsError() {
			return v
		}
		env.Define(name, v)
		return Unspecified()
	case TPair:
		// (define (name . formals) body...) sugar.
		sig := args[0].obj.(*pairObj)
		if sig.car.tag != TSymbol {
			return env.Errorf("define: procedure name is not a symbol: %s", sig.car)
		}
		name, _ := sig.car.SymbolName()
		fun := env.makeLambda(sig.cdr, args[1:])
		if fun.IsError() {
			return fun
		}
		env.Define(name, fun)
		return Unspecified()
	}
	return env.Errorf("define: first form is not a symbol: %s", args[0])
}

func (env *Env) evalSet(args []Value) Value {
	if len(args) != 2 {
		return env.Errorf("set!: expected a name and a value")
	}
	name, ok := args[0].SymbolName()
	if !ok {
		return env.Errorf("set!: first form is not a symbol: %s", args[0])
	}
	v := env.eval(args[1])
	if v.IsError() {
		return v
	}
	if !env.Set(name, v) {
		return env.ErrorConditionf("unbound-symbol", "set!: unbound symbol: %s", name)
	}
	return Unspecified()
}

func (env *Env) evalLambda(args []Value) Value {
	if len(args) < 2 {
		return env.Errorf("lambda: expected formals and a body")
	}
	return env.makeLambda(args[0], args[1:])
}

// makeLambda builds a closure from a formals designator and body forms.  A
// leading string before other body forms is taken as the docstring.
func (env *Env) makeLambda(formals Value, body []Value) Value {
	params, errv := env.parseFormals(formals)
	if errv.IsError() {
		return errv
	}
	doc := ""
	if len(body) > 1 {
		if s, ok := body[0].AsString(); ok {
			doc = s
			body = body[1:]
		}
	}
	if len(body) == 0 {
		return env.Errorf("lambda: empty body")
	}
	return Lambda(params.required, params.rest, body, env, doc)
}

func (env *Env) evalCaseLambda(args []Value) Value {
	if len(args) == 0 {
		return env.Errorf("case-lambda: expected at least one clause")
	}
	doc := ""
	if s, ok := args[0].AsString(); ok && len(args) > 1 {
		doc = s
		args = args[1:]
	}
	clauses := make([]caseClause, 0, len(args))
	for _, clause := range args {
		parts, ok := clause.AsList()
		if !ok || len(parts) < 2 {
			return env.Errorf("case-lambda: malformed clause: %s", clause)
		}
		params, errv := env.parseFormals(parts[0])
		if errv.IsError() {
			return errv
		}
		clauses = append(clauses, caseClause{params: params, body: parts[1:]})
	}
	return Value{tag: TCaseFun, obj: newCaseFunObj(clauses, env, doc)}
}

// parseFormals accepts a symbol (rest-only), a proper list of symbols, or
// a dotted list of symbols ending in a rest symbol.
func (env *Env) parseFormals(formals Value) (paramSpec, Value) {
	var params paramSpec
	if name, ok := formals.SymbolName(); ok {
		params.rest = name
		return params, Nil()
	}
	for cur := formals; ; {
		switch cur.tag {
		case TNil:
			return params, Nil()
		case TPair:
			p := cur.obj.(*pairObj)
			name, ok := p.car.SymbolName()
			if !ok {
				return params, env.Errorf("formal parameter is not a symbol: %s", p.car)
			}
			params.required = append(params.required, name)
			cur = p.cdr
		case TSymbol:
			name, _ := cur.SymbolName()
			params.rest = name
			return params, Nil()
		default:
			return params, env.Errorf("malformed formal parameters: %s", formals)
		}
	}
}

// letBinding is one (name init) pair from a let family form.
type letBinding struct {
	name string
	init Value
}

func (env *Env) parseBindings(v Value) ([]letBinding, Value) {
	forms, ok := v.AsList()
	if !ok {
		return nil, env.Errorf("malformed binding list: %s", v)
	}
	out := make([]letBinding, 0, len(forms))
	for _, form := range forms {
		parts, ok := form.AsList()
		if !ok || len(parts) != 2 {
			return nil, env.Errorf("malformed binding: %s", form)
		}
		name, ok := parts[0].SymbolName()
		if !ok {
			return nil, env.Errorf("binding name is not a symbol: %s", parts[0])
		}
		out = append(out, letBinding{name: name, init: parts[1]})
	}
	return out, Nil()
}

func (env *Env) evalLet(args []Value) (Value, *Env, bool) {
	if len(args) < 2 {
		return env.Errorf("let: expected bindings and a body"), nil, true
	}
	if _, ok := args[0].SymbolName(); ok {
		return env.evalNamedLet(args), nil, true
	}
	bindings, errv := env.parseBindings(args[0])
	if errv.IsError() {
		return errv, nil, true
	}
	vals := make([]Value, len(bindings))
	for i, b := range bindings {
		v := env.eval(b.init)
		if v.IsError() {
			return v, nil, true
		}
		vals[i] = v
	}
	child := env.Extend()
	for i, b := range bindings {
		child.Define(b.name, vals[i])
	}
	return env.tailBody(child, args[1:])
}

// evalNamedLet binds a procedure over the loop variables and applies it to
// the initial values.  Recursive calls in the body's tail positions
// collapse like any other tail call.
func (env *Env) evalNamedLet(args []Value) Value {
	name, _ := args[0].SymbolName()
	if len(args) < 3 {
		return env.Errorf("let %s: expected bindings and a body", name)
	}
	bindings, errv := env.parseBindings(args[1])
	if errv.IsError() {
		return errv
	}
	vals := make([]Value, len(bindings))
	required := make([]string, len(bindings))
	for i, b := range bindings {
		v := env.eval(b.init)
		if v.IsError() {
			return v
		}
		vals[i] = v
		required[i] = b.name
	}
	loopEnv := env.Extend()
	fun := Lambda(required, "", args[2:], loopEnv, "")
	loopEnv.Define(name, fun)
	return env.applyProc(fun, vals)
}

func (env *Env) evalLetSeq(args []Value) (Value, *Env, bool) {
	if len(args) < 2 {
		return env.Errorf("let*: expected bindings and a body"), nil, true
	}
	bindings, errv := env.parseBindings(args[0])
	if errv.IsError() {
		return errv, nil, true
	}
	cur := env
	for _, b := range bindings {
		v := cur.eval(b.init)
		if v.IsError() {
			return v, nil, true
		}
		child := cur.Extend()
		child.Define(b.name, v)
		cur = child
	}
	return env.tailBody(cur, args[1:])
}

func (env *Env) evalLetrec(args []Value) (Value, *Env, bool) {
	if len(args) < 2 {
		return env.Errorf("letrec: expected bindings and a body"), nil, true
	}
	bindings, errv := env.parseBindings(args[0])
	if errv.IsError() {
		return errv, nil, true
	}
	child := env.Extend()
	for _, b := range bindings {
		child.Define(b.name, Unspecified())
	}
	for _, b := range bindings {
		v := child.eval(b.init)
		if v.IsError() {
			return v, nil, true
		}
		child.Define(b.name, v)
	}
	return env.tailBody(child, args[1:])
}

func (env *Env) evalAnd(args []Value) (Value, *Env, bool) {
	if len(args) == 0 {
		return True(), nil, true
	}
	for _, expr := range args[:len(args)-1] {
		v := env.eval(expr)
		if v.IsError() || !v.IsTruthy() {
			return v, nil, true
		}
	}
	return args[len(args)-1], env, false
}

func (env *Env) evalOr(args []Value) (Value, *Env, bool) {
	if len(args) == 0 {
		return False(), nil, true
	}
	for _, expr := range args[:len(args)-1] {
		v := env.eval(expr)
		if v.IsError() || v.IsTruthy() {
			return v, nil, true
		}
	}
	return args[len(args)-1], env, false
}

func (env *Env) evalWhen(name string, args []Value, wantTruthy bool) (Value, *Env, bool) {
	if len(args) < 1 {
		return env.Errorf("%s: expected a test and a body", name), nil, true
	}
	test := env.eval(args[0])
	if test.IsError() {
		return test, nil, true
	}
	if test.IsTruthy() != wantTruthy {
		return Unspecified(), nil, true
	}
	return env.tailBody(env, args[1:])
}

func (env *Env) evalCond(args []Value) (Value, *Env, bool) {
	for _, clause := range args {
		parts, ok := clause.AsList()
		if !ok || len(parts) == 0 {
			return env.Errorf("cond: malformed clause: %s", clause), nil, true
		}
		if name, ok := parts[0].SymbolName(); ok && name == "else" {
			return env.tailBody(env, parts[1:])
		}
		test := env.eval(parts[0])
		if test.IsError() {
			return test, nil, true
		}
		if !test.IsTruthy() {
			continue
		}
		if len(parts) == 1 {
			return test, nil, true
		}
		if name, ok := parts[1].SymbolName(); ok && name == "=>" {
			if len(parts) != 3 {
				return env.Errorf("cond: malformed => clause: %s", clause), nil, true
			}
			fun := env.eval(parts[2])
			if fun.IsError() {
				return fun, nil, true
			}
			return env.applyProc(fun, []Value{test}), nil, true
		}
		return env.tailBody(env, parts[1:])
	}
	return Unspecified(), nil, true
}

func (env *Env) evalCase(args []Value) (Value, *Env, bool) {
	if len(args) < 1 {
		return env.Errorf("case: expected a key and clauses"), nil, true
	}
	key := env.eval(args[0])
	if key.IsError() {
		return key, nil, true
	}
	for _, clause := range args[1:] {
		parts, ok := clause.AsList()
		if !ok || len(parts) < 2 {
			return env.Errorf("case: malformed clause: %s", clause), nil, true
		}
		if name, ok := parts[0].SymbolName(); ok && name == "else" {
			return env.tailBody(env, parts[1:])
		}
		datums, ok := parts[0].AsList()
		if !ok {
			return env.Errorf("case: malformed datum list: %s", parts[0]), nil, true
		}
		for _, d := range datums {
			if key.Eqv(d) {
				return env.tailBody(env, parts[1:])
			}
		}
	}
	return Unspecified(), nil, true
}

func (env *Env) evalParameterize(args []Value) Value {
	if len(args) < 1 {
		return env.Errorf("parameterize: expected bindings and a body")
	}
	forms, ok := args[0].AsList()
	if !ok {
		return env.Errorf("parameterize: malformed binding list: %s", args[0])
	}
	var bound []*paramObj
	defer func() {
		for _, o := range bound {
			o.pop()
		}
	}()
	for _, form := range forms {
		parts, ok := form.AsList()
		if !ok || len(parts) != 2 {
			return env.Errorf("parameterize: malformed binding: %s", form)
		}
		pv := env.eval(parts[0])
		if pv.IsError() {
			return pv
		}
		if pv.tag != TParam {
			return env.Errorf("parameterize: not a parameter: %s", pv)
		}
		v := env.eval(parts[1])
		if v.IsError() {
			return v
		}
		o := pv.obj.(*paramObj)
		if o.filter.IsProcedure() {
			v = env.applyProc(o.filter, []Value{v})
			if v.IsError() {
				return v
			}
		}
		o.push(v)
		bound = append(bound, o)
	}
	return env.evalBody(args[1:])
}

// evalDefineRecordType defines the type descriptor, constructor,
// predicate, and per-field accessors and modifiers of a new record type.
func (env *Env) evalDefineRecordType(args []Value) Value {
	if len(args) < 3 {
		return env.Errorf("define-record-type: expected a name, constructor, predicate, and fields")
	}
	typeName, ok := args[0].SymbolName()
	if !ok {
		return env.Errorf("define-record-type: type name is not a symbol: %s", args[0])
	}
	ctorParts, ok := args[1].AsList()
	if !ok || len(ctorParts) == 0 {
		return env.Errorf("define-record-type: malformed constructor: %s", args[1])
	}
	ctorName, ok := ctorParts[0].SymbolName()
	if !ok {
		return env.Errorf("define-record-type: constructor name is not a symbol: %s", ctorParts[0])
	}
	predName, ok := args[2].SymbolName()
	if !ok {
		return env.Errorf("define-record-type: predicate name is not a symbol: %s", args[2])
	}

	fieldSpecs := args[3:]
	fields := make([]string, len(fieldSpecs))
	for i, spec := range fieldSpecs {
		parts, ok := spec.AsList()
		if !ok || len(parts) < 2 || len(parts) > 3 {
			return env.Errorf("define-record-type: malformed field: %s", spec)
		}
		name, ok := parts[0].SymbolName()
		if !ok {
			return env.Errorf("define-record-type: field name is not a symbol: %s", parts[0])
		}
		fields[i] = name
	}

	tv := newRecordType(typeName, fields)
	rtype := tv.obj.(*recordTypeObj)
	env.Define(typeName, tv)

	// Constructor arguments may be any subset of the fields, in any
	// order; unmentioned fields start unspecified.
	ctorIdx := make([]int, len(ctorParts)-1)
	for i, arg := range ctorParts[1:] {
		name, ok := arg.SymbolName()
		if !ok {
			return env.Errorf("define-record-type: constructor field is not a symbol: %s", arg)
		}
		idx := rtype.fieldIndex(name)
		if idx < 0 {
			return env.Errorf("define-record-type: constructor names unknown field: %s", name)
		}
		ctorIdx[i] = idx
	}
	nctor := len(ctorIdx)
	env.Define(ctorName, Primitive(ctorName, nctor, nctor, "",
		func(rt *Runtime, env *Env, args []Value) Value {
			vals := make([]Value, len(rtype.fields))
			for i := range vals {
				vals[i] = Unspecified()
			}
			for i, idx := range ctorIdx {
				vals[idx] = args[i]
			}
			return newRecord(rtype, vals)
		}))

	env.Define(predName, Primitive(predName, 1, 1, "",
		func(rt *Runtime, env *Env, args []Value) Value {
			if args[0].tag != TRecord {
				return False()
			}
			return Bool(args[0].obj.(*recordObj).rtype == rtype)
		}))

	for i, spec := range fieldSpecs {
		parts, _ := spec.AsList()
		idx := i
		accName, ok := parts[1].SymbolName()
		if !ok {
			return env.Errorf("define-record-type: accessor name is not a symbol: %s", parts[1])
		}
		env.Define(accName, Primitive(accName, 1, 1, "",
			func(rt *Runtime, env *Env, args []Value) Value {
				rec, errv := checkRecord(env, accName, args[0], rtype)
				if errv.IsError() {
					return errv
				}
				v, _ := rec.fieldRef(idx)
				return v
			}))
		if len(parts) == 3 {
			modName, ok := parts[2].SymbolName()
			if !ok {
				return env.Errorf("define-record-type: modifier name is not a symbol: %s", parts[2])
			}
			env.Define(modName, Primitive(modName, 2, 2, "",
				func(rt *Runtime, env *Env, args []Value) Value {
					rec, errv := checkRecord(env, modName, args[0], rtype)
					if errv.IsError() {
						return errv
					}
					rec.fieldSet(idx, args[1])
					return Unspecified()
				}))
		}
	}
	return Unspecified()
}

func checkRecord(env *Env, fname string, v Value, rtype *recordTypeObj) (*recordObj, Value) {
	if v.tag != TRecord {
		return nil, env.ErrorConditionf("wrong-type", "%s: not a record: %s", fname, v)
	}
	rec := v.obj.(*recordObj)
	if rec.rtype != rtype {
		return nil, env.ErrorConditionf("wrong-type", "%s: not a %s record: %s", fname, rtype.name, v)
	}
	return rec, Nil()
}

// quasiquote rebuilds a template, evaluating unquote forms at depth one
// and tracking nesting through inner quasiquotes.
func (env *Env) quasiquote(t Value, depth int) Value {
	switch t.tag {
	case TVector:
		items, _ := t.AsVectorSlice()
		out := make([]Value, 0, len(items))
		for _, item := range items {
			if inner, ok := taggedForm(item, "unquote-splicing"); ok && depth == 1 {
				v := env.eval(inner)
				if v.IsError() {
					return v
				}
				spliced, ok := v.AsList()
				if !ok {
					return env.Errorf("unquote-splicing: not a list: %s", v)
				}
				out = append(out, spliced...)
				continue
			}
			v := env.quasiquote(item, depth)
			if v.IsError() {
				return v
			}
			out = append(out, v)
		}
		return Vector(out...)
	case TPair:
	default:
		return t.Copy()
	}

	if inner, ok := taggedForm(t, "unquote"); ok {
		if depth == 1 {
			return env.eval(inner)
		}
		v := env.quasiquote(inner, depth-1)
		if v.IsError() {
			return v
		}
		return List(Symbol("unquote"), v)
	}
	if inner, ok := taggedForm(t, "quasiquote"); ok {
		v := env.quasiquote(inner, depth+1)
		if v.IsError() {
			return v
		}
		return List(Symbol("quasiquote"), v)
	}
	if inner, ok := taggedForm(t, "unquote-splicing"); ok && depth > 1 {
		v := env.quasiquote(inner, depth-1)
		if v.IsError() {
			return v
		}
		return List(Symbol("unquote-splicing"), v)
	}

	p := t.obj.(*pairObj)
	if inner, ok := taggedForm(p.car, "unquote-splicing"); ok && depth == 1 {
		v := env.eval(inner)
		if v.IsError() {
			return v
		}
		spliced, ok := v.AsList()
		if !ok {
			return env.Errorf("unquote-splicing: not a list: %s", v)
		}
		rest := env.quasiquote(p.cdr, depth)
		if rest.IsError() {
			return rest
		}
		out := rest
		for i := len(spliced) - 1; i >= 0; i-- {
			out = Cons(spliced[i], out)
		}
		return out
	}
	car := env.quasiquote(p.car, depth)
	if car.IsError() {
		return car
	}
	cdr := env.quasiquote(p.cdr, depth)
	if cdr.IsError() {
		return cdr
	}
	return Cons(car, cdr)
}

// taggedForm matches a two-element list (tag form) and returns the form.
func taggedForm(v Value, tag string) (Value, bool) {
	if v.tag != TPair {
		return Value{}, false
	}
	p := v.obj.(*pairObj)
	name, ok := p.car.SymbolName()
	if !ok || name != tag {
		return Value{}, false
	}
	rest, ok := p.cdr.obj.(*pairObj)
	if p.cdr.tag != TPair || !ok || rest.cdr.tag != TNil {
		return Value{}, false
	}
	return rest.car, true
}
