package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/homcount/pkg/cache"
	"github.com/matzehuels/homcount/pkg/errors"
	"github.com/matzehuels/homcount/pkg/observability"
	"github.com/matzehuels/homcount/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		cfg     server.Config
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the counting pipeline over HTTP",
		Long: `Serve the counting pipeline over HTTP.

Endpoints:
  POST /v1/count     count one pattern (METIS or edge list) into a target
  POST /v1/classes   count every class of a decomposition
  GET  /healthz      liveness
  GET  /metrics      Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				cfg.Addr = c.Config.Server.Addr
			}
			if !cmd.Flags().Changed("workers") {
				cfg.Workers = c.Config.Workers
			}
			if err := errors.ValidateWorkers(cfg.Workers); err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics := observability.NewMetrics(reg)
			observability.SetPipelineHooks(metrics)
			observability.SetEngineHooks(metrics)
			observability.SetCacheHooks(metrics)
			observability.SetHTTPHooks(metrics)
			defer observability.Reset()
			cfg.Gatherer = reg

			// API results live under their own prefix in a shared backend.
			runner, err := c.newRunner(cmd.Context(), noCache, cache.NewScopedKeyer(nil, "api:"))
			if err != nil {
				return err
			}
			defer runner.Close()

			return server.New(runner, cfg, c.Logger).ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().IntVarP(&cfg.Workers, "workers", "w", 0, "parallel workers per request (default GOMAXPROCS)")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", server.DefaultTimeout, "maximum time for one request")
	cmd.Flags().Int64Var(&cfg.MaxBodyBytes, "max-body", server.DefaultMaxBodyBytes, "maximum request body in bytes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}
