package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waffleviz/waffle/pkg/io"
	"github.com/waffleviz/waffle/pkg/pipeline"
)

// allocateCommand creates the allocate command for computing tile
// allocations without rendering.
func (c *CLI) allocateCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "allocate [dataset]",
		Short: "Compute a tile allocation and export it as JSON",
		Long: `Compute a tile allocation and export it as JSON.

The allocate command loads a dataset and distributes grid tiles
proportional to each category's share of the total, without rendering
anything. The output is an allocation document that can be rendered
later with the 'visualize' command or consumed by other tools.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Source = args[0]
			return c.runAllocate(cmd.Context(), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <dataset>.alloc.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")

	addLayoutFlags(cmd, &opts)

	return cmd
}

// runAllocate loads the dataset, computes the allocation, and writes
// the allocation document.
func (c *CLI) runAllocate(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Allocating tiles...")
	spinner.Start()

	ds, datasetHash, _, err := runner.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return err
	}

	alloc, cacheHit, err := runner.AllocateWithCacheInfo(ctx, ds, datasetHash, opts)
	if err != nil {
		spinner.StopWithError("Allocation failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", opts.Source) + ".alloc.json"
	}

	doc := &io.Document{Title: ds.Title, Allocation: alloc}
	if err := io.ExportJSON(doc, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Allocation complete")
	printFile(outputPath)
	printStats(len(alloc.Categories), alloc.Grid.Width, alloc.Grid.Height, cacheHit)
	printNewline()
	printNextStep("Render", "waffle visualize "+outputPath)

	return nil
}
