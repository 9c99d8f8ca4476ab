// Copyright © 2025 The slip authors

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/habedi/slip/repl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// defaultFuel bounds each top-level evaluation.  Scripts that exceed it fail
// with an execution-budget-exceeded error instead of hanging the process.
const defaultFuel = int64(50000000)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "slip",
	Short: "slip — Embedded Scheme-family Lisp interpreter",
	Long: `slip is an embeddable Scheme-family Lisp interpreter implemented in Go.
It provides a standalone CLI for running and exploring slip code.

Getting started:
  slip run file.lisp           Run a slip source file
  slip run -e '(+ 1 2)'        Evaluate an expression
  slip repl                    Start an interactive REPL

Language overview:
  slip is a small Scheme dialect.  All numbers are double-precision floats.
  Booleans are #t and #f; only #f is false.  Functions are defined with
  (define (name args) body) and closures with (lambda (args) body).  Error
  handling uses (try body ... (catch e handler)).  Every evaluation runs
  under a fuel budget so runaway scripts terminate deterministically; set
  the budget with --fuel or the SLIP_FUEL environment variable.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Bare invocation drops into the REPL.
		repl.RunRepl(filepath.Base(os.Args[0])+"> ",
			repl.WithFuel(viper.GetInt64("fuel")))
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
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.slip.yaml)")
	rootCmd.PersistentFlags().Int64("fuel", defaultFuel,
		"Evaluation step budget per top-level form (negative for unbounded)")
	if err := viper.BindPFlag("fuel", rootCmd.PersistentFlags().Lookup("fuel")); err != nil {
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

		// Search config in home directory with name ".slip" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".slip")
	}

	viper.SetEnvPrefix("slip")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
