package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/categorycloud/pkg/membership"
)

// loadOpts holds the command-line flags for the load command.
type loadOpts struct {
	dryRun bool // validate only
}

func (c *CLI) loadCommand() *cobra.Command {
	var opts loadOpts

	cmd := &cobra.Command{
		Use:   "load <dataset>",
		Short: "Seed the configured store from a TOML or JSON dataset",
		Long: `Load pages and category links from a dataset file into the configured store.

The format follows the file extension (.toml or .json). Records are added to
what the store already holds.`,
		Example: `  categorycloud load wiki.toml --store sqlite:wiki.db
  categorycloud load wiki.json --store redis://localhost:6379/0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLoad(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "validate the dataset without loading it")

	return cmd
}

func (c *CLI) runLoad(ctx context.Context, path string, opts *loadOpts) error {
	ds, err := membership.ReadDataset(path)
	if err != nil {
		return err
	}
	if err := ds.Validate(); err != nil {
		return err
	}

	categories := 0
	for _, p := range ds.Pages {
		if p.IsCategory() {
			categories++
		}
	}
	printKeyValue("Pages", fmt.Sprintf("%d (%d categories)", len(ds.Pages), categories))
	printKeyValue("Links", fmt.Sprintf("%d", len(ds.Links)))

	if opts.dryRun {
		printInfo("Dataset is valid; nothing loaded")
		return nil
	}

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Connecting to store...")
	spinner.Start()

	store, err := c.openStore(ctx)
	if err != nil {
		spinner.StopWithError("Could not open store")
		return err
	}
	defer store.Close()

	spinner.SetMessage(fmt.Sprintf("Loading into %s...", store.Backend))
	if err := store.Load(ctx, ds); err != nil {
		spinner.StopWithError("Load failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Loaded %d pages and %d links into %s", len(ds.Pages), len(ds.Links), store.Backend))
	prog.done("Load complete")
	return nil
}
