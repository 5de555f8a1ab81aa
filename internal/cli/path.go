package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/leymap/pkg/atlas"
	"github.com/matzehuels/leymap/pkg/pipeline"
)

// formatTable prints the route as a terminal table instead of an artifact.
const formatTable = "table"

// pathCommand creates the path command for shortest-route queries.
func (c *CLI) pathCommand() *cobra.Command {
	var (
		flags       commonFlags
		output      string
		format      string
		interactive bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "path <from> [to]",
		Short: "Find the shortest leyline route between two planets",
		Long: `Find the shortest leyline route between two planets.

Distances are summed along leyline legs; legs of unknown length are not
travelled. Without a destination the command only checks the source planet.
An unreachable destination is reported, not treated as an error.

Output is a table by default; -f json|svg|dot|png|pdf writes an artifact.`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.From = args[0]
			}
			if len(args) > 1 {
				opts.To = args[1]
			}
			flags.apply(&opts)
			if format != formatTable {
				opts.Formats = []string{format}
				if err := pipeline.ValidateFormat(format); err != nil {
					return err
				}
			}
			return c.runPath(cmd.Context(), opts, format, output, flags.noCache, interactive)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json, svg, dot, png, pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick missing planets interactively")
	addDataFlags(cmd, &opts, &flags)
	addRenderFlags(cmd, &opts)

	return cmd
}

func (c *CLI) runPath(ctx context.Context, opts pipeline.Options, format, output string, noCache, interactive bool) error {
	if err := c.baseOptions(&opts); err != nil {
		return err
	}
	// A route query never lays out circles, even with a configured focus.
	opts.Focus = ""

	runner, err := c.newRunner(ctx, noCache, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if interactive {
		if err := c.pickRoute(ctx, runner, &opts); err != nil {
			return err
		}
	}
	if format == formatTable {
		opts.Formats = []string{pipeline.FormatJSON}
	}

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	rt := result.Route

	if format != formatTable {
		return writeOutput(c.Out, output, result.RouteArtifacts[format])
	}

	fmt.Fprintln(c.Out, routeTable(*rt))
	switch {
	case !rt.Reachable:
		printWarning("No known route from %s to %s", rt.From, rt.To)
	case rt.To == "":
		printInfo("%s is on %s", label(*rt, 0), plural(len(result.Atlas.LeylinesOf(rt.From)), "leyline"))
	default:
		printSuccess("%s in %s", plural(len(rt.Legs), "hop"), atlas.Miles(rt.Distance).Label())
	}
	return nil
}

// pickRoute fills the missing route ends from the planet picker.
func (c *CLI) pickRoute(ctx context.Context, runner *pipeline.Runner, opts *pipeline.Options) error {
	a, _, err := runner.Load(ctx, *opts)
	if err != nil {
		return err
	}
	if opts.From == "" {
		if opts.From, err = pickPlanet(ctx, "Route from", a, ""); err != nil {
			return err
		}
	}
	if opts.To == "" {
		if opts.To, err = pickPlanet(ctx, "Route from "+opts.From+" to", a, opts.From); err != nil {
			return err
		}
	}
	return nil
}
