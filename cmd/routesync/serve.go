package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/routesync"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the debug server",
		Long: `Start the debug server.

Open the root page in a browser: its address bar is routed by the route
file over a websocket, and every signal is logged.

Endpoints:
  GET /match?url=...
  GET /signal-url?signal=...&key=value
  GET /routes
  GET /metrics
  GET /ws

Examples:
  routesync serve
  routesync serve --port=8080 -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := prometheus.NewRegistry()
			registry.MustRegister(collectors.NewGoCollector())

			app, err := loadApp(cmd.Context(), flags, func(cfg *routesync.Config) {
				cfg.Registry = registry
				cfg.TracerName = "routesync"
				cfg.Logger = slog.Default()
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			addr := fmt.Sprintf("%s:%d", host, port)
			printCheck(app)
			info("Listening on http://%s", addr)
			return app.Run(ctx, addr)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "Port to run on")
	cmd.Flags().StringVarP(&host, "host", "H", "localhost", "Host to bind to")

	return cmd
}
