package main

import (
	"fmt"
	"os"

	"github.com/viswa-prakash/estatebot/internal/config"
	"github.com/viswa-prakash/estatebot/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "estatebot",
	Short: "Real estate and mortgage agent",
	Long: `estatebot answers real estate and mortgage questions with an LLM that
can search the web, look up exchange rates, run Python and compute loan payments.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd)
		if err != nil {
			return err
		}

		logger.Setup(cfg.Server.LogLevel)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.estatebot/config.yaml)")
	rootCmd.PersistentFlags().String("server.log_level", config.DefaultServerLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("model.provider", config.DefaultModelProvider, "model provider (openai, anthropic, gemini)")
	rootCmd.PersistentFlags().String("model.name", config.DefaultModelName, "model name")
	rootCmd.PersistentFlags().Int("agent.max_messages", config.DefaultAgentMaxMessages, "message cap per run")
}
