package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/leymap/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. It empties the
// local directory and, when a Redis URL is configured, the leymap keys on
// that server.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var localOnly bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached datasets, layouts, routes and renders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			n, err := fc.Clear()
			if err != nil {
				return err
			}
			reportCleared("local", n, dir)

			cfg, err := c.config()
			if err != nil || localOnly || cfg.Cache.RedisURL == "" {
				return err
			}
			return c.clearRedis(cmd.Context(), cfg.Cache.RedisURL)
		},
	}
	cmd.Flags().BoolVar(&localOnly, "local", false, "leave the configured Redis cache untouched")
	return cmd
}

func (c *CLI) clearRedis(ctx context.Context, url string) error {
	rc, err := cache.NewRedisCache(ctx, url)
	if err != nil {
		return err
	}
	defer rc.Close()
	n, err := rc.Clear(ctx, redisPrefix)
	if err != nil {
		return fmt.Errorf("clear redis: %w", err)
	}
	reportCleared("redis", n, redisPrefix+"*")
	return nil
}

func reportCleared(where string, n int, location string) {
	if n == 0 {
		printInfo("%s cache is empty", where)
		return
	}
	printSuccess("Cleared %s from the %s cache", plural(n, "item"), where)
	printDetail("%s", location)
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(c.Out, dir)
			return nil
		},
	}
}

// cacheDir returns the configured cache directory or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	cfg, err := c.config()
	if err != nil {
		return "", err
	}
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cacheDir()
}
