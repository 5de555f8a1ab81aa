package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/leymap/pkg/pipeline"
)

// commonFlags are the flags shared by commands that load a dataset.
type commonFlags struct {
	hide    string
	noCache bool
}

// addDataFlags registers dataset and filter flags. Unset values fall back
// to the config file.
func addDataFlags(cmd *cobra.Command, opts *pipeline.Options, f *commonFlags) {
	cmd.Flags().StringVarP(&opts.Data, "data", "d", "", "dataset directory or http(s) base URL (default: data)")
	cmd.Flags().StringVarP(&opts.Timeframe, "timeframe", "t", "", "dataset timeframe, e.g. 3e112")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "refetch remote datasets instead of using the cache")
	cmd.Flags().BoolVar(&opts.TheaterOnly, "theater", false, "keep only theater planets, folding distances")
	cmd.Flags().BoolVar(&opts.MultigateOnly, "multigate", false, "keep only planets on more than one leyline")
	cmd.Flags().StringVar(&f.hide, "hide", "", "leyline ids to hide (comma-separated)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// addLayoutFlags registers the layout tuning flags.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().Float64Var(&opts.Padding, "padding", 0, "minimum gap between circles (default: 30)")
	cmd.Flags().BoolVar(&opts.NoDuplicates, "dedupe", false, "draw each planet once, at its first position")
	cmd.Flags().BoolVar(&opts.SamePlanetArcs, "same-planet-arcs", false, "link repeated planet positions with dashed arcs")
	cmd.Flags().BoolVar(&opts.SkipInscribed, "no-inscribed", false, "do not nest small leylines inside larger ones")
}

// addRenderFlags registers the output styling flags.
func addRenderFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVar(&opts.Style, "style", "", "colour theme: light (default), dark")
	cmd.Flags().BoolVar(&opts.DistanceLabels, "labels", false, "label arcs with their distance")
	cmd.Flags().StringVar(&opts.Engine, "engine", "", "graphviz engine for dot output: neato (default), fdp, sfdp, circo, dot")
	cmd.Flags().StringVar(&opts.Title, "title", "", "title drawn at the top of the image")
}

// apply copies the parsed string flags into opts.
func (f *commonFlags) apply(opts *pipeline.Options) {
	opts.Hidden = parseHidden(f.hide)
}
