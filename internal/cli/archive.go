package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/leymap/pkg/archive"
	"github.com/matzehuels/leymap/pkg/graph"
)

// archiveCommand creates the archive management command.
func (c *CLI) archiveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Browse layouts stored with --archive",
		Long: `Browse layouts stored with --archive.

The archive lives in SQLite at [archive] dsn, or in MongoDB when the DSN is a
mongodb:// URI.`,
	}

	cmd.AddCommand(c.archiveListCommand())
	cmd.AddCommand(c.archiveShowCommand())
	cmd.AddCommand(c.archiveRemoveCommand())

	return cmd
}

func (c *CLI) archiveListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived layouts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withArchive(cmd.Context(), func(ctx context.Context, s archive.Store) error {
				items, err := s.List(ctx, limit)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					printInfo("Archive is empty")
					return nil
				}
				fmt.Fprintln(c.Out, archiveTable(items))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", archive.DefaultListLimit, "maximum number of layouts to list")
	return cmd
}

func (c *CLI) archiveShowCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print an archived layout as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withArchive(cmd.Context(), func(ctx context.Context, s archive.Store) error {
				rec, err := s.Get(ctx, args[0])
				if err != nil {
					return err
				}
				l := rec.Layout
				l.ID = rec.ID
				data, err := graph.MarshalLayout(l)
				if err != nil {
					return err
				}
				return writeOutput(c.Out, output, append(data, '\n'))
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (c *CLI) archiveRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove"},
		Short:   "Delete archived layouts",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withArchive(cmd.Context(), func(ctx context.Context, s archive.Store) error {
				for _, id := range args {
					if err := s.Delete(ctx, id); err != nil {
						return err
					}
					printSuccess("Deleted %s", id)
				}
				return nil
			})
		},
	}
}

// withArchive opens the configured archive for the duration of fn.
func (c *CLI) withArchive(ctx context.Context, fn func(context.Context, archive.Store) error) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	store, err := openArchive(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, store)
}
