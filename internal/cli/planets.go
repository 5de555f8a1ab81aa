package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/leymap/pkg/atlas"
	"github.com/matzehuels/leymap/pkg/pipeline"
)

// planetsCommand creates the planets command for listing the dataset.
func (c *CLI) planetsCommand() *cobra.Command {
	var (
		flags  commonFlags
		asJSON bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "planets",
		Short: "List the planets of a dataset with their leylines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(&opts)
			return c.runPlanets(cmd.Context(), opts, flags.noCache, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	addDataFlags(cmd, &opts, &flags)

	return cmd
}

// planetEntry is the JSON form of one planet listing.
type planetEntry struct {
	*atlas.Planet
	Leylines []string `json:"leylines"`
}

func (c *CLI) runPlanets(ctx context.Context, opts pipeline.Options, noCache, asJSON bool) error {
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

	if asJSON {
		entries := make([]planetEntry, 0, len(a.Planets))
		for _, name := range a.PlanetNames() {
			lines := a.LeylinesOf(name)
			if lines == nil {
				lines = []string{}
			}
			entries = append(entries, planetEntry{Planet: a.Planets[name], Leylines: lines})
		}
		enc := json.NewEncoder(c.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	fmt.Fprintln(c.Out, planetTable(a))
	printInfo("%s on %s", plural(len(a.Planets), "planet"), plural(len(a.Leylines), "leyline"))
	return nil
}
