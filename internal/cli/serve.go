package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/promiscuity/internal/api"
	"github.com/matzehuels/promiscuity/pkg/pipeline"
)

// shutdownTimeout bounds how long in-flight requests may finish after a signal.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		maxTimeout time.Duration
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Long: `Start an HTTP server exposing the analysis pipeline.

Endpoints:
  GET  /health
  POST /v1/analyze   {"annotation": {...}, "options": {...}}
  POST /v1/bound     {"annotation": {...}}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			a := c.cfg.Analysis
			cfg := api.DefaultConfig()
			cfg.MaxTimeout = maxTimeout
			cfg.Defaults = pipeline.Options{
				Strategy: a.Strategy,
				Budget:   a.Budget(),
				MaxBound: a.MaxBound,
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           api.NewServer(runner, c.Logger, cfg),
				ReadHeaderTimeout: 5 * time.Second,
				BaseContext:       func(net.Listener) context.Context { return ctx },
			}
			return c.serve(ctx, srv)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8090", "listen address")
	cmd.Flags().DurationVar(&maxTimeout, "max-timeout", api.DefaultConfig().MaxTimeout, "cap on the per-request search timeout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}

// serve runs srv until ctx is canceled, then shuts it down gracefully.
func (c *CLI) serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
