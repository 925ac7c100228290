// Copyright © 2025 The Lambdust authors

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/akasaka-miraina/lambdust-sub006/repl"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive Scheme REPL",
	Long: `Start an interactive read-eval-print loop.

Line editing, symbol completion, and in-session command history are
supported via readline. History persists in ~/.lambdust_history. Use
Ctrl-D to exit.

Example REPL session:
  lambdust> (+ 1 2)
  3
  lambdust> (define (square x) (* x x))
  lambdust> (square 5)
  25
  lambdust> (let loop ((i 0) (acc '())) (if (< i 3) (loop (+ i 1) (cons i acc)) acc))
  (2 1 0)
  lambdust> (help 'map)
  ...`,
	Run: func(cmd *cobra.Command, args []string) {
		startRepl()
	},
}

func startRepl() {
	reader, err := newReader()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	slog.Debug("starting repl", "reader", readerFlag)
	repl.RunRepl(filepath.Base(os.Args[0])+"> ", repl.WithReader(reader))
}

func init() {
	rootCmd.AddCommand(replCmd)
}
