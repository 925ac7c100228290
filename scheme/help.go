// Copyright © 2025 The Lambdust authors

package scheme

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// RenderHelp writes the documentation of v, bound as name, to w:
// a signature line followed by the wrapped docstring.
func RenderHelp(w io.Writer, name string, v Value) error {
	var err error
	switch v.tag {
	case TFun:
		o := v.obj.(*funObj)
		_, err = fmt.Fprintf(w, "procedure (%s%s)\n", name, o.params.formals())
	case TCaseFun:
		o := v.obj.(*caseFunObj)
		for _, clause := range o.clauses {
			if _, err = fmt.Fprintf(w, "procedure (%s%s)\n", name, clause.params.formals()); err != nil {
				return err
			}
		}
	case TPrimitive:
		o := v.obj.(*primObj)
		sig := o.formals
		if sig == "" {
			sig = "(...)"
		}
		_, err = fmt.Fprintf(w, "builtin (%s %s)\n", name, strings.Trim(sig, "()"))
	default:
		_, err = fmt.Fprintf(w, "%s %s %s\n", v.tag, name, v)
	}
	if err != nil {
		return err
	}
	if doc := cleanDocstring(v.Docstring()); doc != "" {
		_, err = fmt.Fprintln(w, doc)
	}
	return err
}

// RenderBoundSymbols writes the sorted names bound anywhere in env's
// chain.
func RenderBoundSymbols(w io.Writer, env *Env) error {
	seen := make(map[string]bool)
	var names []string
	for cur := env; cur != nil; cur = cur.Parent() {
		for _, name := range cur.Names() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	_, err := fmt.Fprintln(w, wordwrap.String(strings.Join(names, " "), 72))
	return err
}

// formals renders a parameter spec the way it was written, without the
// parentheses.
func (p paramSpec) formals() string {
	var b strings.Builder
	for _, name := range p.required {
		b.WriteByte(' ')
		b.WriteString(name)
	}
	if p.rest != "" {
		b.WriteString(" . ")
		b.WriteString(p.rest)
	}
	return b.String()
}

// cleanDocstring normalizes and wraps a docstring for terminal output.
func cleanDocstring(doc string) string {
	if doc == "" {
		return ""
	}
	doc = strings.TrimPrefix(doc, "\n")
	doc = indent.String(wordwrap.String(dedentDoc(doc), 72), 2)
	return strings.TrimSuffix(doc, "\n")
}

// dedentDoc removes the common leading whitespace of all non-empty lines
// after the first, which inherit source indentation when docstrings are
// written as multi-line literals.
func dedentDoc(s string) string {
	s = strings.ReplaceAll(s, "\t", "    ")
	lines := strings.Split(s, "\n")
	minWS := -1
	start := 0
	if len(lines) > 1 {
		start = 1
	}
	for _, line := range lines[start:] {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		ws := len(line) - len(trimmed)
		if minWS < 0 || ws < minWS {
			minWS = ws
		}
	}
	lines[0] = strings.TrimLeft(lines[0], " ")
	if minWS <= 0 {
		return strings.Join(lines, "\n")
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			lines[i] = ""
		} else if len(lines[i]) >= minWS {
			lines[i] = lines[i][minWS:]
		}
	}
	return strings.Join(lines, "\n")
}

func builtinHelp(rt *Runtime, env *Env, args []Value) Value {
	port := currentOutputPort(rt, env)
	var buf strings.Builder
	if len(args) == 0 {
		if err := RenderBoundSymbols(&buf, env); err != nil {
			return env.ErrorFromGo(err)
		}
		if err := port.writeText(buf.String()); err != nil {
			return fmtPortError(env, "help", err)
		}
		return Unspecified()
	}

	v := args[0]
	name := ""
	if sym, ok := v.SymbolName(); ok {
		name = sym
		bound, ok := env.Lookup(sym)
		if !ok {
			return env.ErrorConditionf("unbound-symbol", "help: unbound symbol: %s", sym)
		}
		v = bound
	} else if v.IsProcedure() {
		name = v.FunName()
	}
	if err := RenderHelp(&buf, name, v); err != nil {
		return env.ErrorFromGo(err)
	}
	if err := port.writeText(buf.String()); err != nil {
		return fmtPortError(env, "help", err)
	}
	return Unspecified()
}
