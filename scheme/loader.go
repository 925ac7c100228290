// Copyright © 2025 The Lambdust authors

package scheme

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Loader evaluates a pre-parsed program against an environment.
type Loader func(*Env) Value

// Reader abstracts a parser implementation so that it may be implemented
// in a separate package as a swappable component.
type Reader interface {
	// Read the contents of r and return the sequence of values it
	// contains.  The returned values are evaluated as if inside a begin.
	Read(name string, r io.Reader) ([]Value, error)
}

// LocationReader is like Reader but assigns physical locations to the
// tokens from r.
type LocationReader interface {
	ReadLocation(name string, loc string, r io.Reader) ([]Value, error)
}

// SourceContext describes the file being evaluated when a load was
// requested, letting libraries resolve relative locations against it.
type SourceContext interface {
	// Name is the display name of the loading file.
	Name() string
	// Location is the loading file's physical location.
	Location() string
}

type sourceContext struct {
	name string
	loc  string
}

func (c *sourceContext) Name() string     { return c.name }
func (c *sourceContext) Location() string { return c.loc }

// SourceLibrary resolves load locations to source text.
type SourceLibrary interface {
	// LoadSource resolves loc, possibly relative to ctx, and returns the
	// display name, physical location, and contents of the source.
	LoadSource(ctx SourceContext, loc string) (name string, location string, src []byte, err error)
}

// RelativeFileSystemLibrary loads sources from the host filesystem,
// resolving relative locations against the loading file.  A non-empty
// RootDir confines every load to that directory tree.
type RelativeFileSystemLibrary struct {
	RootDir string
}

var _ SourceLibrary = (*RelativeFileSystemLibrary)(nil)

func (l *RelativeFileSystemLibrary) LoadSource(ctx SourceContext, loc string) (string, string, []byte, error) {
	p := loc
	if !filepath.IsAbs(p) && ctx != nil && ctx.Location() != "" {
		p = filepath.Join(filepath.Dir(ctx.Location()), p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", "", nil, err
	}
	if l.RootDir != "" {
		root, err := filepath.Abs(l.RootDir)
		if err != nil {
			return "", "", nil, err
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", "", nil, fmt.Errorf("source location outside library root: %s", loc)
		}
	}
	src, err := os.ReadFile(abs)
	if err != nil {
		return "", "", nil, err
	}
	return filepath.Base(abs), abs, src, nil
}

// FSLibrary loads sources from an fs.FS.  The fs path rules apply: no
// absolute locations and no parent traversal.
type FSLibrary struct {
	FS fs.FS
}

var _ SourceLibrary = (*FSLibrary)(nil)

func (l *FSLibrary) LoadSource(ctx SourceContext, loc string) (string, string, []byte, error) {
	if !fs.ValidPath(loc) {
		return "", "", nil, fmt.Errorf("invalid source location: %s", loc)
	}
	src, err := fs.ReadFile(l.FS, loc)
	if err != nil {
		return "", "", nil, err
	}
	return path.Base(loc), loc, src, nil
}

// LoaderMust returns fn when err is nil and panics otherwise.  It wraps
// TextLoader calls for sources embedded in the binary, which cannot fail
// at runtime.
func LoaderMust(fn Loader, err error) Loader {
	if err != nil {
		panic(err)
	}
	return fn
}

// TextLoader parses a text stream once and returns a Loader that evaluates
// the parsed program each time it is called.  Because the parsed
// expressions are copied per call, sources containing values whose copies
// alias shared state cannot be cached.
func TextLoader(r Reader, name string, stream io.Reader) (Loader, error) {
	exprs, err := r.Read(name, stream)
	if err != nil {
		return nil, err
	}
	for _, expr := range exprs {
		if err := checkLoaderExpr(expr); err != nil {
			return nil, err
		}
	}
	return func(env *Env) Value {
		last := Nil()
		for _, expr := range exprs {
			last = env.Eval(expr.Copy())
			if last.IsError() {
				return last
			}
		}
		return last
	}, nil
}

func checkLoaderExpr(v Value) error {
	switch v.tag {
	case TVector, TFun, TCaseFun, TPrimitive, TCont, TPort, TPromise, TParam, TRecordType, TRecord:
		return fmt.Errorf("cannot cache shared reference expression: %v", v.tag)
	case TPair:
		car, cdr, _ := v.AsPair()
		if err := checkLoaderExpr(car); err != nil {
			return err
		}
		return checkLoaderExpr(cdr)
	}
	return nil
}

// LoadFile uses the runtime's Library to read a source file and evaluates
// the expressions it contains.  Relative locations resolve against the
// file containing the load call currently being evaluated.
func (e *Env) LoadFile(loc string) Value {
	rt := e.Runtime()
	if rt.Library == nil {
		return e.Errorf("no source library in environment runtime")
	}
	ctx := rt.sourceContext()
	name, loc, src, err := rt.Library.LoadSource(ctx, loc)
	if err != nil {
		return e.Errorf("library error: %v", err)
	}
	return e.LoadLocation(name, loc, bytes.NewReader(src))
}

// LoadString reads and evaluates the expressions in exprs.
func (e *Env) LoadString(name, exprs string) Value {
	return e.Load(name, strings.NewReader(exprs))
}

// Load reads values from r and evaluates them as if in a begin, returning
// the last result.
func (e *Env) Load(name string, r io.Reader) Value {
	rt := e.Runtime()
	if rt.Reader == nil {
		return e.Errorf("no reader for environment runtime")
	}
	exprs, err := rt.Reader.Read(name, r)
	if err != nil {
		return e.ErrorFromGo(err)
	}
	return e.evalProgram(exprs)
}

// LoadLocation is like Load but records loc as the physical location of
// the stream when the runtime's Reader supports locations.
func (e *Env) LoadLocation(name string, loc string, r io.Reader) Value {
	rt := e.Runtime()
	if rt.Reader == nil {
		return e.Errorf("no reader for environment runtime")
	}
	reader, ok := rt.Reader.(LocationReader)
	if !ok {
		return e.Load(name, r)
	}
	exprs, err := reader.ReadLocation(name, loc, r)
	if err != nil {
		return e.ErrorFromGo(err)
	}
	return e.evalProgram(exprs)
}

func (e *Env) evalProgram(exprs []Value) Value {
	last := Unspecified()
	for _, expr := range exprs {
		last = e.Eval(expr)
		if last.IsError() {
			return last
		}
	}
	return last
}
