package main

import (
	"context"
	"fmt"
	"os"

	"github.com/viswa-prakash/estatebot/cmd/estatebot/runtime"

	"github.com/spf13/cobra"
)

// executeWithRuntime builds the agent and runs fn with a context cancelled
// on SIGINT or SIGTERM.
func executeWithRuntime(cmd *cobra.Command, fn func(ctx context.Context, r *runtime.Runtime) error) error {
	loadedCfg, err := loadConfigForCommand(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	signals := NewSignalHandler(context.Background())
	signals.Start()
	defer signals.Stop()

	rt, err := runtime.NewRuntimeBuilder().
		WithContext(signals.Context()).
		WithConfig(loadedCfg).
		Build()
	if err != nil {
		return fmt.Errorf("failed to initialize runtime: %w", err)
	}

	return fn(signals.Context(), rt)
}

// isTerminal reports whether stdout is an interactive terminal.
func isTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
