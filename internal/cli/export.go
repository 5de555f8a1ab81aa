package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	leyio "github.com/matzehuels/leymap/pkg/io"
	"github.com/matzehuels/leymap/pkg/pipeline"
)

// exportCommand creates the export command, which writes the filtered
// dataset back out as JSON or YAML files.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		flags  commonFlags
		format string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Write the (filtered) dataset to a directory as JSON or YAML",
		Long: `Write the (filtered) dataset to a directory as JSON or YAML.

The output directory holds planets, leylines and powers files that leymap can
read back with --data. Filters such as --theater are applied first, so export
also snapshots remote datasets or converts between formats.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(&opts)
			f, err := leyio.ParseFormat(format)
			if err != nil {
				return err
			}
			return c.runExport(cmd.Context(), opts, args[0], f, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "file format: json, yaml")
	addDataFlags(cmd, &opts, &flags)

	return cmd
}

func (c *CLI) runExport(ctx context.Context, opts pipeline.Options, dir string, f leyio.Format, noCache bool) error {
	if err := c.baseOptions(&opts); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	a, _, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	if err := leyio.WriteAtlas(dir, a, f); err != nil {
		return err
	}
	printSuccess("Exported %s and %s", plural(len(a.Planets), "planet"), plural(len(a.Leylines), "leyline"))
	printFile(dir)
	return nil
}
