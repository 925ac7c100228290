// Copyright © 2025 The Lambdust authors

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/akasaka-miraina/lambdust-sub006/scheme"
)

var (
	cfgFile    string
	colorFlag  string
	logFile    string
	readerFlag string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lambdust",
	Short: "Lambdust — a Scheme interpreter",
	Long: `Lambdust is a Scheme interpreter implemented in Go. It provides a
standalone CLI for running and exploring Scheme code and an embeddable
runtime for Go programs.

Getting started:
  lambdust                      Start an interactive REPL
  lambdust run file.scm         Run a Scheme source file
  lambdust run -e '(+ 1 2)'     Evaluate an expression
  lambdust run dir/...          Run every .scm file under a directory
  lambdust version              Print the interpreter version

Language overview:
  Lambdust is a Scheme-family Lisp-1 (one namespace for procedures and
  values). Booleans are #t and #f, and only #f is falsey. Procedures
  are defined with (define (name args) body) and applied as (name args).
  Tail calls run in constant stack space. Continuations are first class
  via call/cc, and raised errors carry a condition type plus the call
  stack, inspectable with (debug-stack).

Documentation is built in: use (help 'symbol) in the REPL to read the
docstring for any bound procedure, or (help) to list every binding.

Running lambdust with no arguments starts the REPL.`,
	Run: func(cmd *cobra.Command, args []string) {
		startRepl()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.lambdust.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"Append structured JSON logs to a file.")
	rootCmd.PersistentFlags().StringVar(&readerFlag, "reader", "recursive",
		`Source reader: "recursive" or "combinator".`)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging.")

	mustBindPFlag("color", "color")
	mustBindPFlag("log-file", "log-file")
	mustBindPFlag("reader", "reader")
	mustBindPFlag("verbose", "verbose")
	viper.SetDefault("stack.logical-limit", scheme.DefaultMaxLogicalStackHeight)
	viper.SetDefault("stack.physical-limit", scheme.DefaultMaxPhysicalStackHeight)
}

func mustBindPFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".lambdust" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".lambdust")
	}

	viper.SetEnvPrefix("LAMBDUST")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// A missing config file is not an error.
	_ = viper.ReadInConfig()
}

// initLogging routes structured logs to stderr and, when log-file is set,
// fans them out to a JSON log file as well.
func initLogging() {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}
	if path := viper.GetString("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644) //nolint:gosec // CLI log file
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	slog.SetDefault(slog.New(slogmulti.Fanout(handlers...)))
	if used := viper.ConfigFileUsed(); used != "" {
		slog.Debug("using config file", "path", used)
	}
}
