package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waffleviz/waffle/pkg/pipeline"
)

// chartCommand creates the chart command for the full dataset-to-image
// pipeline.
func (c *CLI) chartCommand() *cobra.Command {
	var (
		formatsStr string
		colorsStr  string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "chart [dataset]",
		Short: "Render a waffle chart from a dataset",
		Long: `Render a waffle chart from a dataset.

The chart command loads a dataset (TOML, JSON, or CSV) from a file or
an HTTP(S) URL, allocates grid tiles proportional to each category's
share of the total, and renders the result to one or more output
formats.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			opts.Colors = parseColors(colorsStr)
			opts.Source = args[0]
			return c.runChart(cmd.Context(), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")

	addLayoutFlags(cmd, &opts)
	addStyleFlags(cmd, &opts, &colorsStr)

	return cmd
}

// runChart executes the full pipeline and writes the artifacts.
func (c *CLI) runChart(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering waffle chart...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Chart failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, output, opts.Source)
	if err != nil {
		return err
	}

	printSuccess("Chart complete")
	for _, p := range paths {
		printFile(p)
	}
	alloc := result.Allocation
	printStats(len(alloc.Categories), alloc.Grid.Width, alloc.Grid.Height, result.CacheInfo.RenderHit)
	if alloc.Visible < alloc.NonZero {
		printWarning("%d categories did not fit on the grid; enlarge it with --width/--height or let autoscale run",
			alloc.NonZero-alloc.Visible)
	}
	return nil
}
