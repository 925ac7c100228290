// Copyright © 2025 The Lambdust authors

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/akasaka-miraina/lambdust-sub006/parser"
	"github.com/akasaka-miraina/lambdust-sub006/scheme"
)

var (
	runExpression bool
	runPrint      bool
	runProfile    string
	runProfileOut string
	runExcludes   []string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] [files...]",
	Short: "Run Scheme code",
	Long: `Run Scheme code supplied via the command line or source files.

Each file argument is loaded and evaluated in order in a single
environment. An argument ending in /... expands to every .scm file
found recursively under the directory. With -e the arguments are
interpreted as expressions instead of paths.

A profiler can be attached for the duration of the run:

  lambdust run --profile=callgrind --profile-output=out.callgrind main.scm
  lambdust run --profile=pprof main.scm
  lambdust run --profile=otel --profile-output=trace.json main.scm

Examples:
  lambdust run main.scm                  Run a source file
  lambdust run lib.scm main.scm          Load a library, then the program
  lambdust run src/...                   Run every .scm file under src
  lambdust run --exclude=scratch src/... Skip matching files
  lambdust run -e '(display "hi")'       Evaluate an expression
  lambdust run -p -e '(+ 1 2)'           Evaluate and print the result`,
	Run: func(cmd *cobra.Command, args []string) {
		if !runExpression {
			var err error
			args, err = expandArgs(args, runExcludes)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
		}
		env := newRunEnv()
		finish, err := enableProfiler(env)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		for i := range args {
			var res scheme.Value
			if runExpression {
				res = env.LoadString(fmt.Sprintf("expr#%d", i+1), args[i])
			} else {
				slog.Debug("loading file", "path", args[i])
				res = env.LoadFile(args[i])
			}
			if res.IsError() {
				src := ""
				if !runExpression {
					src = args[i]
				}
				renderSchemeError(res, src)
				_ = finish()
				os.Exit(1)
			}
			if runPrint {
				fmt.Println(res)
			}
		}
		if err := finish(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

// newReader builds the source reader selected by the --reader flag.
func newReader() (scheme.Reader, error) {
	name := viper.GetString("reader")
	switch name {
	case "", "recursive":
		return parser.NewReader(), nil
	case "combinator":
		return parser.NewReader(parser.WithCombinator()), nil
	default:
		return nil, fmt.Errorf("unknown reader: %s", name)
	}
}

// newRunEnv builds a root environment with the configured reader and
// stack limits.
func newRunEnv() *scheme.Env {
	reader, err := newReader()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	env := scheme.NewEnv(nil)
	rc := scheme.InitializeUserEnv(env,
		scheme.WithReader(reader),
		scheme.WithLibrary(&scheme.RelativeFileSystemLibrary{}),
		scheme.WithMaximumLogicalStackHeight(viper.GetInt("stack.logical-limit")),
		scheme.WithMaximumPhysicalStackHeight(viper.GetInt("stack.physical-limit")),
	)
	if rc.IsError() {
		renderSchemeError(rc, "")
		os.Exit(1)
	}
	return env
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
	runCmd.Flags().StringVar(&runProfile, "profile", "",
		`Attach a profiler: "callgrind", "pprof", "otel", or "opencensus".`)
	runCmd.Flags().StringVar(&runProfileOut, "profile-output", "",
		"Profiler output file (default depends on the profiler).")
	runCmd.Flags().StringArrayVar(&runExcludes, "exclude", nil,
		"Glob pattern for files to exclude from /... expansion (may be repeated).")
}
