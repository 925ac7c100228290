// Copyright © 2025 The Lambdust authors

package scheme

import "strings"

var ioBuiltins = []*builtinDef{
	{"display", "(value [port])", 1, 2, "Write value to the port in display form.", builtinDisplay},
	{"write", "(value [port])", 1, 2, "Write value to the port in write form.", builtinWrite},
	{"newline", "([port])", 0, 1, "Write a newline to the port.", builtinNewline},
	{"write-string", "(str [port])", 1, 2, "Write the characters of str to the port.", builtinWriteString},
	{"open-input-string", "(str)", 1, 1, "Return an input port reading the characters of str.", builtinOpenInputString},
	{"open-output-string", "()", 0, 0, "Return an output port accumulating text in memory.", builtinOpenOutputString},
	{"get-output-string", "(port)", 1, 1, "Return the text accumulated by a string output port.", builtinGetOutputString},
	{"read-char", "([port])", 0, 1, "Read one character, or the end-of-file object.", builtinReadChar},
	{"peek-char", "([port])", 0, 1, "Return the next character without consuming it.", builtinPeekChar},
	{"read-line", "([port])", 0, 1, "Read one line without its terminator.", builtinReadLine},
	{"close-port", "(port)", 1, 1, "Close a port, releasing its stream.", builtinClosePort},
}

// outPortArg resolves the optional trailing port argument of an output
// builtin, defaulting to the current-output-port parameter.
func outPortArg(rt *Runtime, env *Env, fname string, args []Value, idx int) (*portObj, Value) {
	if len(args) > idx {
		if args[idx].tag != TPort {
			return nil, env.ErrorConditionf("wrong-type", "%s: not a port: %s", fname, args[idx])
		}
		return args[idx].obj.(*portObj), Nil()
	}
	return currentOutputPort(rt, env), Nil()
}

func inPortArg(rt *Runtime, env *Env, fname string, args []Value) (*portObj, Value) {
	if len(args) > 0 {
		if args[0].tag != TPort {
			return nil, env.ErrorConditionf("wrong-type", "%s: not a port: %s", fname, args[0])
		}
		return args[0].obj.(*portObj), Nil()
	}
	if o, ok := currentInputPort(rt, env); ok {
		return o, Nil()
	}
	return nil, env.Errorf("no current input port")
}

func builtinDisplay(rt *Runtime, env *Env, args []Value) Value {
	o, errv := outPortArg(rt, env, "display", args, 1)
	if errv.IsError() {
		return errv
	}
	if err := o.writeText(args[0].DisplayString()); err != nil {
		return fmtPortError(env, "display", err)
	}
	return Unspecified()
}

func builtinWrite(rt *Runtime, env *Env, args []Value) Value {
	o, errv := outPortArg(rt, env, "write", args, 1)
	if errv.IsError() {
		return errv
	}
	if err := o.writeText(args[0].String()); err != nil {
		return fmtPortError(env, "write", err)
	}
	return Unspecified()
}

func builtinNewline(rt *Runtime, env *Env, args []Value) Value {
	o, errv := outPortArg(rt, env, "newline", args, 0)
	if errv.IsError() {
		return errv
	}
	if err := o.writeText("\n"); err != nil {
		return fmtPortError(env, "newline", err)
	}
	return Unspecified()
}

func builtinWriteString(rt *Runtime, env *Env, args []Value) Value {
	s, ok := args[0].AsString()
	if !ok {
		return env.ErrorConditionf("wrong-type", "write-string: not a string: %s", args[0])
	}
	o, errv := outPortArg(rt, env, "write-string", args, 1)
	if errv.IsError() {
		return errv
	}
	if err := o.writeText(s); err != nil {
		return fmtPortError(env, "write-string", err)
	}
	return Unspecified()
}

func builtinOpenInputString(rt *Runtime, env *Env, args []Value) Value {
	s, ok := args[0].AsString()
	if !ok {
		return env.ErrorConditionf("wrong-type", "open-input-string: not a string: %s", args[0])
	}
	return NewInputPort("string", strings.NewReader(s))
}

func builtinOpenOutputString(rt *Runtime, env *Env, args []Value) Value {
	return newStringOutputPort()
}

func builtinGetOutputString(rt *Runtime, env *Env, args []Value) Value {
	if args[0].tag != TPort {
		return env.ErrorConditionf("wrong-type", "get-output-string: not a port: %s", args[0])
	}
	s, ok := args[0].obj.(*portObj).outputString()
	if !ok {
		return env.Errorf("not a string output port: %s", args[0])
	}
	return String(s)
}

func builtinReadChar(rt *Runtime, env *Env, args []Value) Value {
	o, errv := inPortArg(rt, env, "read-char", args)
	if errv.IsError() {
		return errv
	}
	r, ok, err := o.readChar()
	if err != nil {
		return fmtPortError(env, "read-char", err)
	}
	if !ok {
		return EOFObject()
	}
	return Char(r)
}

func builtinPeekChar(rt *Runtime, env *Env, args []Value) Value {
	o, errv := inPortArg(rt, env, "peek-char", args)
	if errv.IsError() {
		return errv
	}
	r, ok, err := o.peekChar()
	if err != nil {
		return fmtPortError(env, "peek-char", err)
	}
	if !ok {
		return EOFObject()
	}
	return Char(r)
}

func builtinReadLine(rt *Runtime, env *Env, args []Value) Value {
	o, errv := inPortArg(rt, env, "read-line", args)
	if errv.IsError() {
		return errv
	}
	line, ok, err := o.readLine()
	if err != nil {
		return fmtPortError(env, "read-line", err)
	}
	if !ok {
		return EOFObject()
	}
	return String(line)
}

func builtinClosePort(rt *Runtime, env *Env, args []Value) Value {
	if args[0].tag != TPort {
		return env.ErrorConditionf("wrong-type", "close-port: not a port: %s", args[0])
	}
	if err := args[0].obj.(*portObj).close(); err != nil {
		return fmtPortError(env, "close-port", err)
	}
	return Unspecified()
}
