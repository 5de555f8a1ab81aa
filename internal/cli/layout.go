package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/leymap/pkg/errors"
	"github.com/matzehuels/leymap/pkg/pipeline"
)

// layoutCommand creates the layout command for computing a circle layout.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags       commonFlags
		output      string
		interactive bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [focus]",
		Short: "Compute the circle layout around a focus planet",
		Long: `Compute the circle layout around a focus planet.

The focus planet's leyline is placed first at the origin; every other leyline
reachable from it is placed around it. The result is a layout JSON file that
'render --layout' turns into SVG, PNG or PDF.

The focus comes from the argument, --interactive, or [layout] focus in the
config file. Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Focus = args[0]
			}
			flags.apply(&opts)
			return c.runLayout(cmd.Context(), opts, output, flags.noCache, interactive)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.Archive, "archive", false, "store the layout in the archive")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick the focus planet interactively")
	addDataFlags(cmd, &opts, &flags)
	addLayoutFlags(cmd, &opts)

	return cmd
}

// runLayout computes the layout and writes it as JSON.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache, interactive bool) error {
	if err := c.baseOptions(&opts); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache, opts.Archive)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if interactive {
		a, _, err := runner.Load(ctx, opts)
		if err != nil {
			return err
		}
		if opts.Focus, err = pickPlanet(ctx, "Select focus planet", a, ""); err != nil {
			return err
		}
	}
	if opts.Focus == "" {
		return errors.New(errors.ErrCodeInvalidInput, "a focus planet is required (argument, --interactive or [layout] focus in the config)")
	}
	opts.Formats = []string{pipeline.FormatJSON}

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinner(ctx, fmt.Sprintf("Placing leylines around %s...", opts.Focus))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	l := result.Layout
	prog.step("layout ready", "cached", result.CacheInfo.LayoutHit, "unplaced", len(l.Unplaced))
	prog.done(fmt.Sprintf("Placed %d leylines", len(l.Circles)), "focus", opts.Focus)
	for _, w := range l.Warnings {
		printWarning("%s", w)
	}
	printStats(len(l.Circles), len(l.Planets), len(l.Unplaced), result.CacheInfo.LayoutHit)
	if result.ArchiveID != "" {
		printSuccess("Archived as %s", StyleHighlight.Render(result.ArchiveID))
	}

	if err := writeOutput(c.Out, output, result.Artifacts[pipeline.FormatJSON]); err != nil {
		return err
	}
	if output != "" && output != "-" {
		printNextStep("Render it", fmt.Sprintf("%s render --layout %s", appName, output))
	}
	return nil
}
