package main

import (
	"context"
	"fmt"
	"time"

	"github.com/viswa-prakash/estatebot/cmd/estatebot/runtime"
	"github.com/viswa-prakash/estatebot/internal/frontend"

	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools available to the agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		loadedCfg, err := loadConfigForCommand(cmd)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		timeouts, err := loadedCfg.Timeouts()
		if err != nil {
			return err
		}
		registry, err := runtime.NewToolRegistry(loadedCfg, timeouts)
		if err != nil {
			return err
		}

		fmt.Println(frontend.NewRenderer().RenderTools(registry.GetDescriptors()))

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		version, err := runtime.PythonVersion(ctx, loadedCfg)
		if err != nil {
			fmt.Printf("python_repl interpreter: unavailable (%v)\n", err)
			return nil
		}
		fmt.Printf("python_repl interpreter: %s\n", version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
