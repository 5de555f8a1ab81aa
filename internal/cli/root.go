package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/leymap/pkg/buildinfo"
	"github.com/matzehuels/leymap/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands
// registered. The --config flag and the logger are resolved before any
// subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "leymap lays out leyline maps as nested circles",
		Long: `leymap draws a map of planets joined by leylines. Every leyline is a loop
drawn as a circle; circles are placed around a focus planet, pushed apart until
they clear each other and nested where a small loop fits inside a larger one.

It also answers shortest-route questions between any two planets.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if c.Logger.GetLevel() <= LogDebug {
				h := observability.NewLogHooks(c.Logger)
				observability.SetPipelineHooks(h)
				observability.SetCacheHooks(h)
				observability.SetHTTPHooks(h)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: $XDG_CONFIG_HOME/leymap/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.pathCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.planetsCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.archiveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
