package main

import (
	"context"
	"os"

	"github.com/viswa-prakash/estatebot/cmd/estatebot/runtime"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive prompt",
	Long:  `Reads one question per line. Every line starts a new run; nothing carries over between questions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeWithRuntime(cmd, func(ctx context.Context, r *runtime.Runtime) error {
			repl := runtime.NewREPL(r, os.Stdin, os.Stdout, isTerminal())
			return repl.Start(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
