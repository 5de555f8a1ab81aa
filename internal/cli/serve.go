package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/leymap/internal/server"
	"github.com/matzehuels/leymap/pkg/pipeline"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		noCache     bool
		withArchive bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts and routes over HTTP",
		Long: `Serve layouts and routes over HTTP.

Endpoints:
  GET /healthz
  GET /api/planets, /api/leylines
  GET /api/layout, /api/layout.svg   ?focus=&timeframe=&theater=&multigate=&inscribed=&dedupe=
  GET /api/path, /api/path.svg       ?planetA=&planetB=&timeframe=
  GET /api/archive, /api/archive/{id}

With [cache] redis_url set in the config, results are cached in Redis so that
several instances can share them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts, addr, noCache, withArchive)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: :8080)")
	cmd.Flags().StringVarP(&opts.Data, "data", "d", "", "dataset directory or http(s) base URL (default: data)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&withArchive, "archive", false, "enable the layout archive")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts pipeline.Options, addr string, noCache, withArchive bool) error {
	if err := c.baseOptions(&opts); err != nil {
		return err
	}
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	runner, err := c.newRunner(ctx, noCache, withArchive)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := server.New(runner, opts, c.Logger)
	c.Logger.Debug("serving", "addr", addr, "data", opts.Data, "archive", runner.Archive != nil)
	return srv.ListenAndServe(ctx, addr)
}
