package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/panelmap/internal/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram API over HTTP",
		Long: `Serve the diagram API over HTTP.

  POST /v1/diagram   lay out a tree, returns diagram JSON
  POST /v1/export    export a tree or diagram (?format=pdf|svg|png|json)
  GET  /healthz      liveness and build information
  GET  /metrics      Prometheus metrics

The server stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := server.Config{
				Addr:         c.Config.Server.Addr,
				MaxBodyBytes: c.Config.Server.MaxBodyBytes,
				Runner:       c.newRunner(ctx, noCache),
				Defaults:     c.pipelineOptions(),
				Logger:       loggerFromContext(ctx),
			}
			defer cfg.Runner.Close()
			if addr != "" {
				cfg.Addr = addr
			}
			if !noMetrics {
				cfg.Metrics = server.NewMetrics()
			}

			c.out.info("Listening on %s", cfg.Addr)
			return server.New(cfg).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not serve /metrics")

	return cmd
}
