// Copyright © 2025 The Lambdust authors

package scheme

var seqBuiltins = []*builtinDef{
	// Pairs and lists.
	{"cons", "(head tail)", 2, 2, "Return a pair of head and tail.", builtinCons},
	{"car", "(pair)", 1, 1, "Return the first field of a pair.", builtinCar},
	{"cdr", "(pair)", 1, 1, "Return the second field of a pair.", builtinCdr},
	{"set-car!", "(pair value)", 2, 2, "Replace the first field of a pair.", builtinSetCar},
	{"set-cdr!", "(pair value)", 2, 2, "Replace the second field of a pair.", builtinSetCdr},
	{"list", "(value ...)", 0, -1, "Return a list of the arguments.", builtinList},
	{"length", "(list)", 1, 1, "Return the number of elements in a proper list.", builtinLength},
	{"append", "(list ... [tail])", 0, -1, "Concatenate lists; the last argument becomes the tail.", builtinAppend},
	{"reverse", "(list)", 1, 1, "Return the elements of a proper list in reverse order.", builtinReverse},

	// Vectors.
	{"vector", "(value ...)", 0, -1, "Return a vector of the arguments.", builtinVector},
	{"make-vector", "(n [fill])", 1, 2, "Return a vector of n elements, filled with fill.", builtinMakeVector},
	{"vector-ref", "(vec i)", 2, 2, "Return element i of a vector.", builtinVectorRef},
	{"vector-set!", "(vec i value)", 3, 3, "Replace element i of a vector.", builtinVectorSet},
	{"vector-length", "(vec)", 1, 1, "Return the number of elements in a vector.", builtinVectorLength},
	{"vector->list", "(vec)", 1, 1, "Return a list of a vector's elements.", builtinVectorToList},
	{"list->vector", "(list)", 1, 1, "Return a vector of a proper list's elements.", builtinListToVector},
	{"vector-fill!", "(vec value)", 2, 2, "Replace every element of a vector with value.", builtinVectorFill},

	// Bytevectors.
	{"bytevector", "(byte ...)", 0, -1, "Return a bytevector of the argument bytes.", builtinBytevector},
	{"make-bytevector", "(n [fill])", 1, 2, "Return a bytevector of n bytes, filled with fill.", builtinMakeBytevector},
	{"bytevector-u8-ref", "(bytes i)", 2, 2, "Return byte i of a bytevector.", builtinBytevectorRef},
	{"bytevector-u8-set!", "(bytes i byte)", 3, 3, "Replace byte i of a bytevector.", builtinBytevectorSet},
	{"bytevector-length", "(bytes)", 1, 1, "Return the number of bytes in a bytevector.", builtinBytevectorLength},

	// Higher-order iteration and searching.
	{"map", "(fun list ...)", 2, -1, "Apply fun elementwise across the lists, collecting the results.", builtinMap},
	{"for-each", "(fun list ...)", 2, -1, "Apply fun elementwise across the lists for effect.", builtinForEach},
	{"memq", "(value list)", 2, 2, "Return the sublist whose head is value under eq?, or #f.", builtinMemq},
	{"memv", "(value list)", 2, 2, "Return the sublist whose head is value under eqv?, or #f.", builtinMemq},
	{"member", "(value list)", 2, 2, "Return the sublist whose head is value under equal?, or #f.", builtinMember},
	{"assq", "(key alist)", 2, 2, "Return the entry of alist whose car is key under eq?, or #f.", builtinAssq},
	{"assv", "(key alist)", 2, 2, "Return the entry of alist whose car is key under eqv?, or #f.", builtinAssq},
	{"assoc", "(key alist)", 2, 2, "Return the entry of alist whose car is key under equal?, or #f.", builtinAssoc},
	{"list-tail", "(list k)", 2, 2, "Return list after dropping its first k elements.", builtinListTail},
	{"list-ref", "(list k)", 2, 2, "Return element k of a list.", builtinListRef},
}

func builtinCons(rt *Runtime, env *Env, args []Value) Value {
	return Cons(args[0], args[1])
}

func builtinCar(rt *Runtime, env *Env, args []Value) Value {
	car, _, ok := args[0].AsPair()
	if !ok {
		return env.ErrorConditionf("wrong-type", "car: not a pair: %s", args[0])
	}
	return car
}

func builtinCdr(rt *Runtime, env *Env, args []Value) Value {
	_, cdr, ok := args[0].AsPair()
	if !ok {
		return env.ErrorConditionf("wrong-type", "cdr: not a pair: %s", args[0])
	}
	return cdr
}

func builtinSetCar(rt *Runtime, env *Env, args []Value) Value {
	if args[0].tag != TPair {
		return env.ErrorConditionf("wrong-type", "set-car!: not a pair: %s", args[0])
	}
	args[0].obj.(*pairObj).car = args[1]
	return Unspecified()
}

func builtinSetCdr(rt *Runtime, env *Env, args []Value) Value {
	if args[0].tag != TPair {
		return env.ErrorConditionf("wrong-type", "set-cdr!: not a pair: %s", args[0])
	}
	args[0].obj.(*pairObj).cdr = args[1]
	return Unspecified()
}

func builtinList(rt *Runtime, env *Env, args []Value) Value {
	return List(args...)
}

func builtinLength(rt *Runtime, env *Env, args []Value) Value {
	n := 0
	for cur := args[0]; ; {
		switch cur.tag {
		case TNil:
			return Int(int64(n))
		case TPair:
			n++
			cur = cur.obj.(*pairObj).cdr
		default:
			return env.ErrorConditionf("wrong-type", "length: not a proper list: %s", args[0])
		}
	}
}

func builtinAppend(rt *Runtime, env *Env, args []Value) Value {
	if len(args) == 0 {
		return Nil()
	}
	out := args[len(args)-1]
	for i := len(args) - 2; i >= 0; i-- {
		items, ok := args[i].AsList()
		if !ok {
			return env.ErrorConditionf("wrong-type", "append: not a proper list: %s", args[i])
		}
		for j := len(items) - 1; j >= 0; j-- {
			out = Cons(items[j], out)
		}
	}
	return out
}

func builtinReverse(rt *Runtime, env *Env, args []Value) Value {
	items, ok := args[0].AsList()
	if !ok {
		return env.ErrorConditionf("wrong-type", "reverse: not a proper list: %s", args[0])
	}
	out := Nil()
	for _, item := range items {
		out = Cons(item, out)
	}
	return out
}

func builtinVector(rt *Runtime, env *Env, args []Value) Value {
	return Vector(args...)
}

func builtinMakeVector(rt *Runtime, env *Env, args []Value) Value {
	n, errv := indexArg(env, "make-vector", args[0])
	if errv.IsError() {
		return errv
	}
	fill := Unspecified()
	if len(args) == 2 {
		fill = args[1]
	}
	items := make([]Value, n)
	for i := range items {
		items[i] = fill
	}
	return Vector(items...)
}

func builtinVectorRef(rt *Runtime, env *Env, args []Value) Value {
	o, errv := vectorArg(env, "vector-ref", args[0])
	if errv.IsError() {
		return errv
	}
	i, errv := indexArg(env, "vector-ref", args[1])
	if errv.IsError() {
		return errv
	}
	v, ok := o.ref(i)
	if !ok {
		return env.ErrorConditionf("out-of-range", "vector-ref: index %d out of range", i)
	}
	return v
}

func builtinVectorSet(rt *Runtime, env *Env, args []Value) Value {
	o, errv := vectorArg(env, "vector-set!", args[0])
	if errv.IsError() {
		return errv
	}
	i, errv := indexArg(env, "vector-set!", args[1])
	if errv.IsError() {
		return errv
	}
	if !o.set(i, args[2]) {
		return env.ErrorConditionf("out-of-range", "vector-set!: index %d out of range", i)
	}
	return Unspecified()
}

func builtinVectorLength(rt *Runtime, env *Env, args []Value) Value {
	o, errv := vectorArg(env, "vector-length", args[0])
	if errv.IsError() {
		return errv
	}
	return Int(int64(o.length()))
}

func builtinVectorToList(rt *Runtime, env *Env, args []Value) Value {
	items, ok := args[0].AsVectorSlice()
	if !ok {
		return env.ErrorConditionf("wrong-type", "vector->list: not a vector: %s", args[0])
	}
	return List(items...)
}

func builtinListToVector(rt *Runtime, env *Env, args []Value) Value {
	items, ok := args[0].AsList()
	if !ok {
		return env.ErrorConditionf("wrong-type", "list->vector: not a proper list: %s", args[0])
	}
	return Vector(items...)
}

func builtinVectorFill(rt *Runtime, env *Env, args []Value) Value {
	o, errv := vectorArg(env, "vector-fill!", args[0])
	if errv.IsError() {
		return errv
	}
	o.fill(args[1])
	return Unspecified()
}

func builtinBytevector(rt *Runtime, env *Env, args []Value) Value {
	b := make([]byte, len(args))
	for i, a := range args {
		c, errv := byteArg(env, "bytevector", a)
		if errv.IsError() {
			return errv
		}
		b[i] = c
	}
	return Bytes(b)
}

func builtinMakeBytevector(rt *Runtime, env *Env, args []Value) Value {
	n, errv := indexArg(env, "make-bytevector", args[0])
	if errv.IsError() {
		return errv
	}
	var fill byte
	if len(args) == 2 {
		c, errv := byteArg(env, "make-bytevector", args[1])
		if errv.IsError() {
			return errv
		}
		fill = c
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = fill
	}
	return Bytes(b)
}

func builtinBytevectorRef(rt *Runtime, env *Env, args []Value) Value {
	o, errv := bytesArg(env, "bytevector-u8-ref", args[0])
	if errv.IsError() {
		return errv
	}
	i, errv := indexArg(env, "bytevector-u8-ref", args[1])
	if errv.IsError() {
		return errv
	}
	if i < 0 || i >= len(o.b) {
		return env.ErrorConditionf("out-of-range", "bytevector-u8-ref: index %d out of range", i)
	}
	return Int(int64(o.b[i]))
}

func builtinBytevectorSet(rt *Runtime, env *Env, args []Value) Value {
	o, errv := bytesArg(env, "bytevector-u8-set!", args[0])
	if errv.IsError() {
		return errv
	}
	i, errv := indexArg(env, "bytevector-u8-set!", args[1])
	if errv.IsError() {
		return errv
	}
	c, errv := byteArg(env, "bytevector-u8-set!", args[2])
	if errv.IsError() {
		return errv
	}
	if i < 0 || i >= len(o.b) {
		return env.ErrorConditionf("out-of-range", "bytevector-u8-set!: index %d out of range", i)
	}
	o.b[i] = c
	return Unspecified()
}

func builtinBytevectorLength(rt *Runtime, env *Env, args []Value) Value {
	o, errv := bytesArg(env, "bytevector-length", args[0])
	if errv.IsError() {
		return errv
	}
	return Int(int64(len(o.b)))
}

func builtinMap(rt *Runtime, env *Env, args []Value) Value {
	fun := args[0]
	if !fun.IsProcedure() {
		return env.ErrorConditionf("wrong-type", "map: not a procedure: %s", fun)
	}
	lists, n, errv := listArgs(env, "map", args[1:])
	if errv.IsError() {
		return errv
	}
	out := make([]Value, n)
	for i := 0; i < n; i++ {
		row := make([]Value, len(lists))
		for j := range lists {
			row[j] = lists[j][i]
		}
		v := env.applyProc(fun, row)
		if v.IsError() {
			return v
		}
		out[i] = v
	}
	return List(out...)
}

func builtinForEach(rt *Runtime, env *Env, args []Value) Value {
	fun := args[0]
	if !fun.IsProcedure() {
		return env.ErrorConditionf("wrong-type", "for-each: not a procedure: %s", fun)
	}
	lists, n, errv := listArgs(env, "for-each", args[1:])
	if errv.IsError() {
		return errv
	}
	for i := 0; i < n; i++ {
		row := make([]Value, len(lists))
		for j := range lists {
			row[j] = lists[j][i]
		}
		if v := env.applyProc(fun, row); v.IsError() {
			return v
		}
	}
	return Unspecified()
}

// listArgs converts the arguments to element slices and returns the
// shortest length, which bounds elementwise iteration.
func listArgs(env *Env, fname string, args []Value) ([][]Value, int, Value) {
	lists := make([][]Value, len(args))
	n := -1
	for i, a := range args {
		items, ok := a.AsList()
		if !ok {
			return nil, 0, env.ErrorConditionf("wrong-type", "%s: not a proper list: %s", fname, a)
		}
		lists[i] = items
		if n < 0 || len(items) < n {
			n = len(items)
		}
	}
	return lists, n, Nil()
}

func builtinMemq(rt *Runtime, env *Env, args []Value) Value {
	return memberSearch(env, "memq", args[0], args[1], Value.Eqv)
}

func builtinMember(rt *Runtime, env *Env, args []Value) Value {
	return memberSearch(env, "member", args[0], args[1], Value.Equal)
}

func memberSearch(env *Env, fname string, key, lis Value, same func(Value, Value) bool) Value {
	for cur := lis; ; {
		switch cur.tag {
		case TNil:
			return False()
		case TPair:
			o := cur.obj.(*pairObj)
			if same(key, o.car) {
				return cur
			}
			cur = o.cdr
		default:
			return env.ErrorConditionf("wrong-type", "%s: not a proper list: %s", fname, lis)
		}
	}
}

func builtinAssq(rt *Runtime, env *Env, args []Value) Value {
	return assocSearch(env, "assq", args[0], args[1], Value.Eqv)
}

func builtinAssoc(rt *Runtime, env *Env, args []Value) Value {
	return assocSearch(env, "assoc", args[0], args[1], Value.Equal)
}

func assocSearch(env *Env, fname string, key, alist Value, same func(Value, Value) bool) Value {
	for cur := alist; ; {
		switch cur.tag {
		case TNil:
			return False()
		case TPair:
			o := cur.obj.(*pairObj)
			entry := o.car
			if entry.tag != TPair {
				return env.ErrorConditionf("wrong-type", "%s: entry is not a pair: %s", fname, entry)
			}
			if same(key, entry.obj.(*pairObj).car) {
				return entry
			}
			cur = o.cdr
		default:
			return env.ErrorConditionf("wrong-type", "%s: not a proper list: %s", fname, alist)
		}
	}
}

func builtinListTail(rt *Runtime, env *Env, args []Value) Value {
	k, errv := indexArg(env, "list-tail", args[1])
	if errv.IsError() {
		return errv
	}
	cur := args[0]
	for i := 0; i < k; i++ {
		if cur.tag != TPair {
			return env.ErrorConditionf("out-of-range", "list-tail: list too short for index %d", k)
		}
		cur = cur.obj.(*pairObj).cdr
	}
	return cur
}

func builtinListRef(rt *Runtime, env *Env, args []Value) Value {
	tail := builtinListTail(rt, env, args)
	if tail.IsError() {
		return tail
	}
	car, _, ok := tail.AsPair()
	if !ok {
		return env.ErrorConditionf("out-of-range", "list-ref: list too short for index %s", args[1])
	}
	return car
}

func vectorArg(env *Env, fname string, v Value) (*vectorObj, Value) {
	if v.tag != TVector {
		return nil, env.ErrorConditionf("wrong-type", "%s: not a vector: %s", fname, v)
	}
	return v.obj.(*vectorObj), Nil()
}

func bytesArg(env *Env, fname string, v Value) (*bytesObj, Value) {
	if v.tag != TBytes {
		return nil, env.ErrorConditionf("wrong-type", "%s: not a bytevector: %s", fname, v)
	}
	return v.obj.(*bytesObj), Nil()
}

func indexArg(env *Env, fname string, v Value) (int, Value) {
	n, ok := v.AsInteger()
	if !ok || n < 0 {
		return 0, env.ErrorConditionf("wrong-type", "%s: not a valid index: %s", fname, v)
	}
	return int(n), Nil()
}

func byteArg(env *Env, fname string, v Value) (byte, Value) {
	n, ok := v.AsInteger()
	if !ok || n < 0 || n > 255 {
		return 0, env.ErrorConditionf("wrong-type", "%s: not a byte: %s", fname, v)
	}
	return byte(n), Nil()
}
