// Package config reads and writes the leymap config file.
//
// The file lives at $XDG_CONFIG_HOME/leymap/config.toml (or
// ~/.config/leymap/config.toml). Command-line flags override its values;
// its values override the built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/leymap/pkg/layout"
	"github.com/matzehuels/leymap/pkg/pipeline"
)

// Config holds leymap configuration.
type Config struct {
	Data    DataConfig    `toml:"data"`
	Layout  LayoutConfig  `toml:"layout"`
	Cache   CacheConfig   `toml:"cache"`
	Archive ArchiveConfig `toml:"archive"`
	Server  ServerConfig  `toml:"server"`
}

// DataConfig selects the dataset.
type DataConfig struct {
	Source    string `toml:"source"` // directory or http(s) base URL
	Timeframe string `toml:"timeframe"`
}

// LayoutConfig holds default layout and render settings.
type LayoutConfig struct {
	Focus          string  `toml:"focus"`
	Padding        float64 `toml:"padding"`
	Inscribed      bool    `toml:"inscribed"`
	Dedupe         bool    `toml:"dedupe"`
	SamePlanetArcs bool    `toml:"same_planet_arcs"`
	Style          string  `toml:"style"`
	Labels         bool    `toml:"labels"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Enabled  bool   `toml:"enabled"`
	Dir      string `toml:"dir"`       // file cache directory, empty for the default
	RedisURL string `toml:"redis_url"` // when set, serve uses Redis instead of files
}

// ArchiveConfig selects the layout archive.
type ArchiveConfig struct {
	Enabled bool   `toml:"enabled"`
	DSN     string `toml:"dsn"` // SQLite path or mongodb:// URI
}

// ServerConfig configures `leymap serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Data:    DataConfig{Source: pipeline.DefaultData},
		Layout:  LayoutConfig{Padding: layout.DefaultPadding, Inscribed: true, Style: pipeline.DefaultStyle},
		Cache:   CacheConfig{Enabled: true},
		Archive: ArchiveConfig{Enabled: false, DSN: filepath.Join(Dir(), "archive.db")},
		Server:  ServerConfig{Addr: ":8080"},
	}
}

// Dir returns the leymap config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "leymap")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at path over the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Apply copies config values into opts where opts leaves them unset.
func (c *Config) Apply(opts *pipeline.Options) {
	if opts.Data == "" {
		opts.Data = c.Data.Source
	}
	if opts.Timeframe == "" {
		opts.Timeframe = c.Data.Timeframe
	}
	if opts.Focus == "" {
		opts.Focus = c.Layout.Focus
	}
	if opts.Padding == 0 {
		opts.Padding = c.Layout.Padding
	}
	if !c.Layout.Inscribed {
		opts.SkipInscribed = true
	}
	opts.NoDuplicates = opts.NoDuplicates || c.Layout.Dedupe
	opts.SamePlanetArcs = opts.SamePlanetArcs || c.Layout.SamePlanetArcs
	opts.DistanceLabels = opts.DistanceLabels || c.Layout.Labels
	if opts.Style == "" {
		opts.Style = c.Layout.Style
	}
}
