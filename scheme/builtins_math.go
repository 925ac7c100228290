// Copyright © 2025 The Lambdust authors

package scheme

import "math"

var mathBuiltins = []*builtinDef{
	{"+", "(n ...)", 0, -1, "Return the sum of the arguments.", builtinAdd},
	{"-", "(n ...)", 1, -1, "Subtract the remaining arguments from the first, or negate it.", builtinSub},
	{"*", "(n ...)", 0, -1, "Return the product of the arguments.", builtinMul},
	{"/", "(n ...)", 1, -1, "Divide the first argument by the rest, or invert it.", builtinDiv},
	{"=", "(a b ...)", 2, -1, "Return #t if the arguments are numerically equal.", builtinNumEq},
	{"<", "(a b ...)", 2, -1, "Return #t if the arguments increase strictly.", builtinNumLT},
	{"<=", "(a b ...)", 2, -1, "Return #t if the arguments never decrease.", builtinNumLE},
	{">", "(a b ...)", 2, -1, "Return #t if the arguments decrease strictly.", builtinNumGT},
	{">=", "(a b ...)", 2, -1, "Return #t if the arguments never increase.", builtinNumGE},
	{"abs", "(n)", 1, 1, "Return the magnitude of a number.", builtinAbs},
	{"min", "(n ...)", 1, -1, "Return the smallest argument.", builtinMin},
	{"max", "(n ...)", 1, -1, "Return the largest argument.", builtinMax},
	{"quotient", "(a b)", 2, 2, "Return the integer quotient of a divided by b.", builtinQuotient},
	{"remainder", "(a b)", 2, 2, "Return the remainder of a divided by b, signed like a.", builtinRemainder},
	{"modulo", "(a b)", 2, 2, "Return a modulo b, signed like b.", builtinModulo},
	{"number?", "(value)", 1, 1, "Return #t if value is a number.", builtinIsNumber},
	{"integer?", "(value)", 1, 1, "Return #t if value is an integer.", builtinIsInteger},
	{"zero?", "(n)", 1, 1, "Return #t if n is zero.", builtinIsZero},
	{"exact->inexact", "(n)", 1, 1, "Return n as an inexact number.", builtinExactToInexact},
	{"inexact->exact", "(n)", 1, 1, "Return n as an exact integer.", builtinInexactToExact},
}

func numberArg(env *Env, fname string, v Value) (float64, Value) {
	f, ok := v.AsNumber()
	if !ok {
		return 0, env.ErrorConditionf("wrong-type", "%s: not a number: %s", fname, v)
	}
	return f, Nil()
}

func integerArg(env *Env, fname string, v Value) (int64, Value) {
	n, ok := v.AsInteger()
	if !ok {
		return 0, env.ErrorConditionf("wrong-type", "%s: not an integer: %s", fname, v)
	}
	return n, Nil()
}

func builtinAdd(rt *Runtime, env *Env, args []Value) Value {
	sum := 0.0
	for _, a := range args {
		f, errv := numberArg(env, "+", a)
		if errv.IsError() {
			return errv
		}
		sum += f
	}
	return Float(sum)
}

func builtinSub(rt *Runtime, env *Env, args []Value) Value {
	first, errv := numberArg(env, "-", args[0])
	if errv.IsError() {
		return errv
	}
	if len(args) == 1 {
		return Float(-first)
	}
	for _, a := range args[1:] {
		f, errv := numberArg(env, "-", a)
		if errv.IsError() {
			return errv
		}
		first -= f
	}
	return Float(first)
}

func builtinMul(rt *Runtime, env *Env, args []Value) Value {
	prod := 1.0
	for _, a := range args {
		f, errv := numberArg(env, "*", a)
		if errv.IsError() {
			return errv
		}
		prod *= f
	}
	return Float(prod)
}

func builtinDiv(rt *Runtime, env *Env, args []Value) Value {
	first, errv := numberArg(env, "/", args[0])
	if errv.IsError() {
		return errv
	}
	if len(args) == 1 {
		if first == 0 {
			return env.ErrorConditionf("divide-by-zero", "/: division by zero")
		}
		return Float(1 / first)
	}
	for _, a := range args[1:] {
		f, errv := numberArg(env, "/", a)
		if errv.IsError() {
			return errv
		}
		if f == 0 {
			return env.ErrorConditionf("divide-by-zero", "/: division by zero")
		}
		first /= f
	}
	return Float(first)
}

// builtinCompare builds the chained numeric comparison builtins.
func builtinCompare(fname string, ok func(a, b float64) bool) Builtin {
	return func(rt *Runtime, env *Env, args []Value) Value {
		prev, errv := numberArg(env, fname, args[0])
		if errv.IsError() {
			return errv
		}
		for _, a := range args[1:] {
			f, errv := numberArg(env, fname, a)
			if errv.IsError() {
				return errv
			}
			if !ok(prev, f) {
				return False()
			}
			prev = f
		}
		return True()
	}
}

var (
	builtinNumEq = builtinCompare("=", func(a, b float64) bool { return a == b })
	builtinNumLT = builtinCompare("<", func(a, b float64) bool { return a < b })
	builtinNumLE = builtinCompare("<=", func(a, b float64) bool { return a <= b })
	builtinNumGT = builtinCompare(">", func(a, b float64) bool { return a > b })
	builtinNumGE = builtinCompare(">=", func(a, b float64) bool { return a >= b })
)

func builtinAbs(rt *Runtime, env *Env, args []Value) Value {
	f, errv := numberArg(env, "abs", args[0])
	if errv.IsError() {
		return errv
	}
	return Float(math.Abs(f))
}

func builtinMin(rt *Runtime, env *Env, args []Value) Value {
	best, errv := numberArg(env, "min", args[0])
	if errv.IsError() {
		return errv
	}
	for _, a := range args[1:] {
		f, errv := numberArg(env, "min", a)
		if errv.IsError() {
			return errv
		}
		best = math.Min(best, f)
	}
	return Float(best)
}

func builtinMax(rt *Runtime, env *Env, args []Value) Value {
	best, errv := numberArg(env, "max", args[0])
	if errv.IsError() {
		return errv
	}
	for _, a := range args[1:] {
		f, errv := numberArg(env, "max", a)
		if errv.IsError() {
			return errv
		}
		best = math.Max(best, f)
	}
	return Float(best)
}

func builtinQuotient(rt *Runtime, env *Env, args []Value) Value {
	a, errv := integerArg(env, "quotient", args[0])
	if errv.IsError() {
		return errv
	}
	b, errv := integerArg(env, "quotient", args[1])
	if errv.IsError() {
		return errv
	}
	if b == 0 {
		return env.ErrorConditionf("divide-by-zero", "quotient: division by zero")
	}
	return Int(a / b)
}

func builtinRemainder(rt *Runtime, env *Env, args []Value) Value {
	a, errv := integerArg(env, "remainder", args[0])
	if errv.IsError() {
		return errv
	}
	b, errv := integerArg(env, "remainder", args[1])
	if errv.IsError() {
		return errv
	}
	if b == 0 {
		return env.ErrorConditionf("divide-by-zero", "remainder: division by zero")
	}
	return Int(a % b)
}

func builtinModulo(rt *Runtime, env *Env, args []Value) Value {
	a, errv := integerArg(env, "modulo", args[0])
	if errv.IsError() {
		return errv
	}
	b, errv := integerArg(env, "modulo", args[1])
	if errv.IsError() {
		return errv
	}
	if b == 0 {
		return env.ErrorConditionf("divide-by-zero", "modulo: division by zero")
	}
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return Int(m)
}

func builtinIsNumber(rt *Runtime, env *Env, args []Value) Value {
	return Bool(args[0].IsNumber())
}

func builtinIsInteger(rt *Runtime, env *Env, args []Value) Value {
	_, ok := args[0].AsInteger()
	return Bool(ok)
}

func builtinIsZero(rt *Runtime, env *Env, args []Value) Value {
	f, errv := numberArg(env, "zero?", args[0])
	if errv.IsError() {
		return errv
	}
	return Bool(f == 0)
}

func builtinExactToInexact(rt *Runtime, env *Env, args []Value) Value {
	f, errv := numberArg(env, "exact->inexact", args[0])
	if errv.IsError() {
		return errv
	}
	// The result must stay inexact, so the fixnum fold does not apply.
	return newNumber(f)
}

func builtinInexactToExact(rt *Runtime, env *Env, args []Value) Value {
	n, ok := args[0].AsInteger()
	if !ok {
		return env.ErrorConditionf("wrong-type", "inexact->exact: no exact representation: %s", args[0])
	}
	return Int(n)
}
