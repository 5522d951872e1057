package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/viswa-prakash/estatebot/cmd/estatebot/runtime"
	"github.com/viswa-prakash/estatebot/internal/frontend"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Answer one question and exit",
	Example: `  estatebot ask "What is the monthly payment on a $480,000 loan at 6.5% for 30 years?"
  estatebot ask --json --transcript run.json "Convert 250000 EUR to USD"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(strings.Join(args, " "))
		transcriptPath, _ := cmd.Flags().GetString("transcript")
		asJSON, _ := cmd.Flags().GetBool("json")

		return executeWithRuntime(cmd, func(ctx context.Context, r *runtime.Runtime) error {
			answer, err := r.Ask(ctx, query, transcriptPath)
			if err != nil {
				return err
			}

			switch {
			case asJSON:
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(answer)
			case isTerminal():
				fmt.Print(frontend.NewRenderer().RenderAnswer(answer))
			default:
				fmt.Print(frontend.PlainAnswer(answer))
			}
			return nil
		})
	},
}

func init() {
	askCmd.Flags().String("transcript", "", "write the run as JSON to this path")
	askCmd.Flags().Bool("json", false, "print the answer as JSON")
	rootCmd.AddCommand(askCmd)
}
