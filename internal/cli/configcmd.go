package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/leymap/internal/config"
)

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the leymap config file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(c.Out, c.configPath())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			showConfig(c, cfg)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath()
			if _, err := os.Stat(path); err == nil {
				printWarning("%s already exists", path)
				return nil
			}
			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			printSuccess("Wrote default config")
			printFile(path)
			return nil
		},
	})

	return cmd
}

func (c *CLI) configPath() string {
	if c.ConfigPath != "" {
		return c.ConfigPath
	}
	return config.Path()
}

func showConfig(c *CLI, cfg *config.Config) {
	w := c.Out
	fmt.Fprintln(w, StyleTitle.Render("data"))
	printKeyValue(w, "source", cfg.Data.Source)
	printKeyValue(w, "timeframe", orDash(cfg.Data.Timeframe))

	fmt.Fprintln(w, StyleTitle.Render("layout"))
	printKeyValue(w, "focus", orDash(cfg.Layout.Focus))
	printKeyValue(w, "padding", strconv.FormatFloat(cfg.Layout.Padding, 'g', -1, 64))
	printKeyValue(w, "inscribed", strconv.FormatBool(cfg.Layout.Inscribed))
	printKeyValue(w, "dedupe", strconv.FormatBool(cfg.Layout.Dedupe))
	printKeyValue(w, "style", cfg.Layout.Style)
	printKeyValue(w, "labels", strconv.FormatBool(cfg.Layout.Labels))

	fmt.Fprintln(w, StyleTitle.Render("cache"))
	printKeyValue(w, "enabled", strconv.FormatBool(cfg.Cache.Enabled))
	printKeyValue(w, "dir", orDash(cfg.Cache.Dir))
	printKeyValue(w, "redis_url", orDash(cfg.Cache.RedisURL))

	fmt.Fprintln(w, StyleTitle.Render("archive"))
	printKeyValue(w, "enabled", strconv.FormatBool(cfg.Archive.Enabled))
	printKeyValue(w, "dsn", cfg.Archive.DSN)

	fmt.Fprintln(w, StyleTitle.Render("server"))
	printKeyValue(w, "addr", cfg.Server.Addr)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
