// Copyright © 2025 The Lambdust authors

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/akasaka-miraina/lambdust-sub006/scheme"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the interpreter version",
	Long: `Print the lambdust interpreter version.

The same string is available inside the language via (version).`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lambdust %s %s/%s\n", scheme.Version, runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
