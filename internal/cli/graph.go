package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/leymap/pkg/graph"
	"github.com/matzehuels/leymap/pkg/pipeline"
	"github.com/matzehuels/leymap/pkg/render/nodelink"
)

// graphCommand creates the graph command, which draws the planet adjacency
// graph with Graphviz instead of the circle layout.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags      commonFlags
		output     string
		formatsStr string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "graph [from to]",
		Short: "Draw the planet adjacency graph with Graphviz",
		Long: `Draw the planet adjacency graph with Graphviz.

Every planet becomes a node and every leyline leg an edge. Given two planets,
the shortest route between them is highlighted. The --engine flag picks the
Graphviz layout engine.`,
		Args: cobra.MatchAll(cobra.MaximumNArgs(2), func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return fmt.Errorf("graph takes no planets or both route ends")
			}
			return nil
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				opts.From, opts.To = args[0], args[1]
			}
			flags.apply(&opts)
			return c.runGraph(cmd.Context(), opts, parseFormats(formatsStr), output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple); - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot (comma-separated)")
	addDataFlags(cmd, &opts, &flags)
	cmd.Flags().StringVar(&opts.Engine, "engine", "", "graphviz engine: neato (default), fdp, sfdp, circo, dot")
	cmd.Flags().BoolVar(&opts.DistanceLabels, "labels", false, "label edges with their distance")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, opts pipeline.Options, formats []string, output string, noCache bool) error {
	if err := c.baseOptions(&opts); err != nil {
		return err
	}
	opts.SetRenderDefaults()
	if err := pipeline.ValidateEngine(opts.Engine); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	a, hash, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}

	var highlight []string
	if opts.From != "" {
		rt, err := runner.Route(ctx, a, hash, opts)
		if err != nil {
			return err
		}
		if rt.Reachable {
			highlight = rt.Planets
		} else {
			printWarning("No known route from %s to %s", rt.From, rt.To)
		}
	}

	dot := nodelink.ToDOT(graph.FromAtlas(a), nodelink.Options{
		Distances: opts.DistanceLabels,
		Highlight: highlight,
		Engine:    opts.Engine,
	})
	artifacts, err := renderDOT(dot, formats)
	if err != nil {
		return err
	}
	printSuccess("Drew %s and %s", plural(len(a.Planets), "planet"), plural(len(a.Leylines), "leyline"))
	return writeArtifacts(c.Out, artifacts, formats, output, "graph")
}

// renderDOT converts a DOT source into each requested format.
func renderDOT(dot string, formats []string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	for _, f := range formats {
		var (
			data []byte
			err  error
		)
		switch f {
		case pipeline.FormatDOT:
			data = []byte(dot)
		case pipeline.FormatSVG:
			data, err = nodelink.RenderSVG(dot)
		case pipeline.FormatPNG:
			data, err = nodelink.RenderPNG(dot, pipeline.DefaultPNGScale)
		case pipeline.FormatPDF:
			data, err = nodelink.RenderPDF(dot)
		default:
			return nil, fmt.Errorf("graph does not support format %q", f)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		artifacts[f] = data
	}
	return artifacts, nil
}
