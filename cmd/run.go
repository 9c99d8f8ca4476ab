// Copyright © 2025 The slip authors

package cmd

import (
	"fmt"
	"os"

	"github.com/habedi/slip/lisp"
	"github.com/habedi/slip/parser"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	runExpression bool
	runPrint      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run slip code",
	Long:  `Run slip code supplied via the command line or a file.`,
	Run: func(cmd *cobra.Command, args []string) {
		interp, err := lisp.NewInterp(lisp.WithReader(parser.NewReader()))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fuel := viper.GetInt64("fuel")
		for i := range args {
			var res *lisp.LVal
			if runExpression {
				res = interp.Env().LoadString(fmt.Sprintf("<argv[%d]>", i), args[i], fuel)
			} else {
				res = interp.Env().LoadFile(args[i], fuel)
			}
			if res.Type == lisp.LError {
				fmt.Fprintln(os.Stderr, lisp.GoError(res))
				os.Exit(1)
			}
			if runPrint && res.Type != lisp.LUnspec {
				fmt.Println(res)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
}
