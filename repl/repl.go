// Copyright © 2025 The Lambdust authors

package repl

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"

	"github.com/akasaka-miraina/lambdust-sub006/parser"
	"github.com/akasaka-miraina/lambdust-sub006/parser/lexer"
	"github.com/akasaka-miraina/lambdust-sub006/parser/rdparser"
	"github.com/akasaka-miraina/lambdust-sub006/parser/token"
	"github.com/akasaka-miraina/lambdust-sub006/scheme"
)

type config struct {
	stdin  io.ReadCloser
	stderr io.WriteCloser
	reader scheme.Reader
}

func newConfig(opts ...Option) *config {
	config := &config{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithReader overrides the reader used by load inside the session.
func WithReader(reader scheme.Reader) Option {
	return func(c *config) {
		c.reader = reader
	}
}

// RunRepl runs a simple repl in a vanilla lambdust environment.
func RunRepl(prompt string, opts ...Option) {
	env := scheme.NewEnv(nil)

	cfg := newConfig(opts...)
	reader := cfg.reader
	if reader == nil {
		reader = parser.NewReader()
	}

	envOpts := []scheme.Config{
		scheme.WithReader(reader),
		scheme.WithLibrary(&scheme.RelativeFileSystemLibrary{}),
	}
	if cfg.stderr != nil {
		envOpts = append(envOpts, scheme.WithStderr(cfg.stderr))
	}

	rc := scheme.InitializeUserEnv(env, envOpts...)
	if rc.IsError() {
		errlnf("Language initialization failure: %v", scheme.GoError(rc))
		os.Exit(1)
	}

	RunEnv(env, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunEnv runs a simple repl with env as a root environment.
func RunEnv(env *scheme.Env, prompt, cont string, opts ...Option) {
	if env.Parent() != nil {
		errlnf("REPL environment is not a root environment.")
		os.Exit(1)
	}

	p := rdparser.NewInteractive(nil)
	p.SetPrompts(prompt, cont)

	cfg := newConfig(opts...)
	rt := env.Runtime()
	if cfg.stderr != nil {
		rt.Stderr = cfg.stderr
	}

	histFile := historyPath()
	ensureHistoryFilePermissions(histFile)

	rlCfg := &readline.Config{
		Stdout:            rt.Stderr,
		Stderr:            rt.Stderr,
		Prompt:            p.Prompt(),
		HistoryFile:       histFile,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{env: env},
	}

	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		panic(err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	p.Read = func() []*token.Token {
		rl.SetPrompt(p.Prompt())
		for {
			var line []byte
			line, err = rl.ReadSlice()
			if err != nil && err != readline.ErrInterrupt {
				return []*token.Token{{
					Type: token.EOF,
					Text: "",
				}}
			}
			if err == readline.ErrInterrupt {
				line = nil
				continue
			}
			line = bytes.TrimSpace(line)
			if len(line) == 0 {
				continue
			}
			var tokens []*token.Token
			scanner := token.NewScanner("stdin", bytes.NewReader(line))
			lex := lexer.New(scanner)
			for {
				tok := lex.ReadToken()
				if len(tok) != 1 {
					panic("bad tokens")
				}
				if tok[0].Type == token.EOF {
					return tokens
				}
				tokens = append(tokens, tok...)
				if tok[0].Type == token.ERROR {
					// This will work itself out eventually...
					return tokens
				}
			}
		}
	}

	for {
		expr, err := p.Parse()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintln(rt.Stderr, err) //nolint:errcheck // best-effort error display
			continue
		}
		val := env.Eval(expr)
		switch {
		case val.IsError():
			renderError(rt.Stderr, val)
		case val.Tag() == scheme.TUnspecified:
			// Expressions evaluated for effect print nothing.
		default:
			fmt.Fprintln(rt.Stderr, val) //nolint:errcheck // best-effort REPL output
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lambdust_history")
}

// ensureHistoryFilePermissions keeps the readline history file owner-only.
// Session input can contain sensitive data.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0600)
	if err != nil {
		return
	}
	f.Close() //nolint:errcheck,gosec // no writes to flush
	_ = os.Chmod(path, 0600)
}

func errlnf(format string, v ...interface{}) {
	if strings.HasSuffix(format, "\n") {
		errf(format, v...)
		return
	}
	errf(format+"\n", v...)
}

func errf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
}
