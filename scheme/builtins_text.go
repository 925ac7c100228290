// Copyright © 2025 The Lambdust authors

package scheme

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

var textBuiltins = []*builtinDef{
	{"symbol->string", "(sym)", 1, 1, "Return the name of a symbol as a string.", builtinSymbolToString},
	{"string->symbol", "(str)", 1, 1, "Return the symbol whose name is str.", builtinStringToSymbol},
	{"string-length", "(str)", 1, 1, "Return the number of characters in a string.", builtinStringLength},
	{"string-ref", "(str i)", 2, 2, "Return character i of a string.", builtinStringRef},
	{"string-append", "(str ...)", 0, -1, "Concatenate strings.", builtinStringAppend},
	{"substring", "(str start end)", 3, 3, "Return the characters of str from start to end.", builtinSubstring},
	{"string=?", "(a b ...)", 2, -1, "Return #t if all strings have the same characters.", builtinStringEq},
	{"string->list", "(str)", 1, 1, "Return the characters of a string as a list.", builtinStringToList},
	{"number->string", "(n [radix])", 1, 2, "Return the written form of a number.", builtinNumberToString},
	{"string->number", "(str [radix])", 1, 2, "Parse a number from a string, or #f.", builtinStringToNumber},
	{"char->integer", "(ch)", 1, 1, "Return the Unicode scalar value of a character.", builtinCharToInteger},
	{"integer->char", "(n)", 1, 1, "Return the character with Unicode scalar value n.", builtinIntegerToChar},
}

func builtinSymbolToString(rt *Runtime, env *Env, args []Value) Value {
	name, ok := args[0].SymbolName()
	if !ok {
		return env.ErrorConditionf("wrong-type", "symbol->string: not a symbol: %s", args[0])
	}
	return String(name)
}

func builtinStringToSymbol(rt *Runtime, env *Env, args []Value) Value {
	s, ok := args[0].AsString()
	if !ok {
		return env.ErrorConditionf("wrong-type", "string->symbol: not a string: %s", args[0])
	}
	return Symbol(s)
}

func builtinStringLength(rt *Runtime, env *Env, args []Value) Value {
	s, ok := args[0].AsString()
	if !ok {
		return env.ErrorConditionf("wrong-type", "string-length: not a string: %s", args[0])
	}
	return Int(int64(utf8.RuneCountInString(s)))
}

func builtinStringRef(rt *Runtime, env *Env, args []Value) Value {
	s, ok := args[0].AsString()
	if !ok {
		return env.ErrorConditionf("wrong-type", "string-ref: not a string: %s", args[0])
	}
	i, errv := indexArg(env, "string-ref", args[1])
	if errv.IsError() {
		return errv
	}
	for _, r := range s {
		if i == 0 {
			return Char(r)
		}
		i--
	}
	return env.ErrorConditionf("out-of-range", "string-ref: index %s out of range", args[1])
}

func builtinStringAppend(rt *Runtime, env *Env, args []Value) Value {
	var b strings.Builder
	for _, a := range args {
		s, ok := a.AsString()
		if !ok {
			return env.ErrorConditionf("wrong-type", "string-append: not a string: %s", a)
		}
		b.WriteString(s)
	}
	return String(b.String())
}

func builtinSubstring(rt *Runtime, env *Env, args []Value) Value {
	s, ok := args[0].AsString()
	if !ok {
		return env.ErrorConditionf("wrong-type", "substring: not a string: %s", args[0])
	}
	start, errv := indexArg(env, "substring", args[1])
	if errv.IsError() {
		return errv
	}
	end, errv := indexArg(env, "substring", args[2])
	if errv.IsError() {
		return errv
	}
	runes := []rune(s)
	if start > end || end > len(runes) {
		return env.ErrorConditionf("out-of-range", "substring: bounds %d..%d out of range", start, end)
	}
	return String(string(runes[start:end]))
}

func builtinStringEq(rt *Runtime, env *Env, args []Value) Value {
	first, ok := args[0].AsString()
	if !ok {
		return env.ErrorConditionf("wrong-type", "string=?: not a string: %s", args[0])
	}
	for _, a := range args[1:] {
		s, ok := a.AsString()
		if !ok {
			return env.ErrorConditionf("wrong-type", "string=?: not a string: %s", a)
		}
		if s != first {
			return False()
		}
	}
	return True()
}

func builtinStringToList(rt *Runtime, env *Env, args []Value) Value {
	s, ok := args[0].AsString()
	if !ok {
		return env.ErrorConditionf("wrong-type", "string->list: not a string: %s", args[0])
	}
	var items []Value
	for _, r := range s {
		items = append(items, Char(r))
	}
	return List(items...)
}

func builtinNumberToString(rt *Runtime, env *Env, args []Value) Value {
	if !args[0].IsNumber() {
		return env.ErrorConditionf("wrong-type", "number->string: not a number: %s", args[0])
	}
	radix := 10
	if len(args) == 2 {
		r, ok := args[1].AsInteger()
		if !ok || (r != 2 && r != 8 && r != 10 && r != 16) {
			return env.Errorf("unsupported radix: %s", args[1])
		}
		radix = int(r)
	}
	if radix == 10 {
		return String(args[0].String())
	}
	n, ok := args[0].AsInteger()
	if !ok {
		return env.Errorf("radix %d requires an integer", radix)
	}
	return String(strconv.FormatInt(n, radix))
}

func builtinStringToNumber(rt *Runtime, env *Env, args []Value) Value {
	s, ok := args[0].AsString()
	if !ok {
		return env.ErrorConditionf("wrong-type", "string->number: not a string: %s", args[0])
	}
	radix := 10
	if len(args) == 2 {
		r, ok := args[1].AsInteger()
		if !ok || (r != 2 && r != 8 && r != 10 && r != 16) {
			return env.Errorf("unsupported radix: %s", args[1])
		}
		radix = int(r)
	}
	if radix != 10 {
		n, err := strconv.ParseInt(s, radix, 64)
		if err != nil {
			return False()
		}
		return Int(n)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return False()
	}
	return Float(f)
}

func builtinCharToInteger(rt *Runtime, env *Env, args []Value) Value {
	if args[0].tag != TChar {
		return env.ErrorConditionf("wrong-type", "char->integer: not a character: %s", args[0])
	}
	return Int(int64(args[0].char()))
}

func builtinIntegerToChar(rt *Runtime, env *Env, args []Value) Value {
	n, ok := args[0].AsInteger()
	if !ok || n < 0 || n > math.MaxInt32 || !utf8.ValidRune(rune(n)) {
		return env.ErrorConditionf("wrong-type", "integer->char: not a Unicode scalar value: %s", args[0])
	}
	return Char(rune(n))
}
