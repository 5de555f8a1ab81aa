// Package cli implements the leymap command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/leymap/internal/config"
	"github.com/matzehuels/leymap/pkg/archive"
	"github.com/matzehuels/leymap/pkg/cache"
	"github.com/matzehuels/leymap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "leymap"

	// redisPrefix scopes keys when several deployments share one Redis.
	redisPrefix = "leymap:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded lazily from ConfigPath on first use.
	Config     *config.Config
	ConfigPath string

	// Out receives command output. Defaults to os.Stdout.
	Out io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// config returns the loaded configuration, reading it on first call.
func (c *CLI) config() (*config.Config, error) {
	if c.Config != nil {
		return c.Config, nil
	}
	path := c.ConfigPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", path)
	c.Config = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The archive is attached
// when withArchive is set or the config enables it.
func (c *CLI) newRunner(ctx context.Context, noCache, withArchive bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	cc, keyer, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cc, keyer, c.Logger)
	if withArchive || cfg.Archive.Enabled {
		store, err := openArchive(ctx, cfg)
		if err != nil {
			runner.Close()
			return nil, err
		}
		runner.WithArchive(store)
	}
	return runner, nil
}

// newCache picks the cache backend: none, Redis when configured, or files.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, cache.Keyer, error) {
	if noCache || !cfg.Cache.Enabled {
		return cache.NewNullCache(), nil, nil
	}
	if cfg.Cache.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		c.Logger.Debug("using redis cache")
		return rc, cache.NewScopedKeyer(nil, redisPrefix), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil, nil
	}
	fc, err := cache.NewFileCache(dir)
	return fc, nil, err
}

func openArchive(ctx context.Context, cfg *config.Config) (archive.Store, error) {
	dsn := cfg.Archive.DSN
	if !strings.Contains(dsn, "://") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, err
		}
	}
	store, err := archive.Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return store, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/leymap/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions layers config values under the flags already set in opts.
func (c *CLI) baseOptions(opts *pipeline.Options) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	cfg.Apply(opts)
	opts.Logger = c.Logger
	return nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if f := pipeline.ParseFormats(s); len(f) > 0 {
		return f
	}
	return []string{pipeline.FormatSVG}
}

// parseHidden splits the --hide flag into leyline ids.
func parseHidden(s string) []string {
	var out []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
