package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/leymap/pkg/atlas"
	"github.com/matzehuels/leymap/pkg/errors"
	"github.com/matzehuels/leymap/pkg/graph"
	"github.com/matzehuels/leymap/pkg/pipeline"
)

// renderCommand creates the render command for producing images.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      commonFlags
		output     string
		formatsStr string
		layoutFile string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [focus]",
		Short: "Render a layout to SVG, PNG, PDF, JSON or DOT",
		Long: `Render a layout to SVG, PNG, PDF, JSON or DOT.

With a focus planet the full pipeline runs: load, layout and render. With
--layout an existing layout file (from 'leymap layout') is rendered without
touching the dataset; DOT output still needs the dataset and loads it.

PNG and PDF are converted from SVG with rsvg-convert, which must be on PATH.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Focus = args[0]
			}
			flags.apply(&opts)
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if layoutFile != "" {
				return c.runRenderFile(cmd.Context(), layoutFile, opts, output, flags.noCache)
			}
			return c.runRender(cmd.Context(), opts, output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple); - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVarP(&layoutFile, "layout", "l", "", "render this layout file instead of computing one")
	cmd.Flags().BoolVar(&opts.Archive, "archive", false, "store the computed layout in the archive")
	addDataFlags(cmd, &opts, &flags)
	addLayoutFlags(cmd, &opts)
	addRenderFlags(cmd, &opts)

	return cmd
}

// runRender runs the full pipeline and writes every requested format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	if err := c.baseOptions(&opts); err != nil {
		return err
	}
	if opts.Focus == "" {
		return errors.New(errors.ErrCodeInvalidInput, "a focus planet or --layout file is required")
	}

	runner, err := c.newRunner(ctx, noCache, opts.Archive)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %s", plural(len(result.Artifacts), "artifact")))

	l := result.Layout
	for _, w := range l.Warnings {
		printWarning("%s", w)
	}
	printSuccess("Rendered %s", StyleHighlight.Render(opts.Focus))
	printStats(len(l.Circles), len(l.Planets), len(l.Unplaced), result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)

	return writeArtifacts(c.Out, result.Artifacts, opts.Formats, output, outputStem(opts.Focus, opts.Timeframe))
}

// runRenderFile renders a layout file.
func (c *CLI) runRenderFile(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}
	if err := c.baseOptions(&opts); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var a *atlas.Atlas
	if slices.Contains(opts.Formats, pipeline.FormatDOT) {
		if a, _, err = runner.Load(ctx, opts); err != nil {
			return err
		}
	}

	artifacts, hit, err := runner.RenderLayoutWithCacheInfo(ctx, l, a, opts)
	if err != nil {
		return err
	}
	printSuccess("Rendered %s", StyleHighlight.Render(input))
	printStats(len(l.Circles), len(l.Planets), len(l.Unplaced), hit)

	stem := strings.TrimSuffix(input, filepath.Ext(input))
	return writeArtifacts(c.Out, artifacts, opts.Formats, output, stem)
}

// outputStem names default output files after the focus and timeframe.
func outputStem(focus, timeframe string) string {
	stem := strings.ToLower(strings.Join(strings.Fields(focus), "-"))
	if timeframe != "" {
		stem += "-" + timeframe
	}
	return stem
}
