package main

import (
	"context"
	"log/slog"

	"github.com/viswa-prakash/estatebot/cmd/estatebot/runtime"
	"github.com/viswa-prakash/estatebot/internal/config"
	"github.com/viswa-prakash/estatebot/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question form over HTTP",
	Long:  `Serves a web form at / and a JSON endpoint at POST /ask. Each request is an independent run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeWithRuntime(cmd, func(ctx context.Context, r *runtime.Runtime) error {
			handler := server.NewHandler(r.Engine, r.Config.Agent.TerminalMarker)
			srv := server.NewHTTPServer(r.Config.Server, handler)

			slog.Info("Starting web front end", "port", r.Config.Server.Port, "model", r.Config.Model.Name)
			return srv.Serve(ctx)
		})
	},
}

func init() {
	serveCmd.Flags().Int("server.port", config.DefaultServerPort, "listen port")
	rootCmd.AddCommand(serveCmd)
}
