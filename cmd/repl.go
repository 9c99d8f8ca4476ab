// Copyright © 2025 The slip authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/habedi/slip/repl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive slip REPL",
	Long: `Start an interactive read-eval-print loop for slip.

The standard prelude is loaded automatically. Line editing and in-session
command history are supported via readline. Use Ctrl-D, Ctrl-C, or (quit)
to exit.

Example REPL session:
  slip> (+ 1 2)
  3
  slip> (define (square x) (* x x))
  #[lambda square]
  slip> (square 5)
  25
  slip> (try (/ 1 0) (catch e e))
  "divide-by-zero: division by zero"`,
	Run: func(cmd *cobra.Command, args []string) {
		repl.RunRepl(filepath.Base(os.Args[0])+"> ",
			repl.WithFuel(viper.GetInt64("fuel")))
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
