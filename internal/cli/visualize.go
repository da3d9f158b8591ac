package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waffleviz/waffle/pkg/io"
	"github.com/waffleviz/waffle/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering an
// exported allocation.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr string
		colorsStr  string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "visualize [allocation.json]",
		Short: "Render a chart from an exported allocation",
		Long: `Render a chart from an exported allocation.

The visualize command takes an allocation document (produced by
'allocate') and renders it to SVG, PNG, PDF, or JSON. The document
already contains the full tile layout, so this step is purely about
styling and output.

Use 'chart' as a shortcut to go directly from a dataset to visual
output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			opts.Colors = parseColors(colorsStr)
			return c.runVisualize(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	addStyleFlags(cmd, &opts, &colorsStr)

	return cmd
}

// runVisualize loads the allocation document and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	doc, err := io.ImportJSON(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	if opts.Title == "" {
		opts.Title = doc.Title
	}

	spinner := newSpinnerWithContext(ctx, "Rendering waffle chart...")
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, doc.Allocation, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifacts, opts.Formats, output, input)
	if err != nil {
		return err
	}

	printSuccess("Chart complete")
	for _, p := range paths {
		printFile(p)
	}
	alloc := doc.Allocation
	printStats(len(alloc.Categories), alloc.Grid.Width, alloc.Grid.Height, cacheHit)

	return nil
}
