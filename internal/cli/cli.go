// Package cli implements the waffle command-line interface.
//
// This package provides commands for rendering proportional waffle
// charts from datasets, exporting and re-rendering tile allocations,
// previewing charts in the terminal, serving the HTTP API, and
// managing the local artifact cache. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - chart: Render a dataset straight to SVG, PNG, PDF, or JSON
//   - allocate: Compute a tile allocation and export it as JSON
//   - visualize: Render a previously exported allocation
//   - preview: Explore a dataset interactively in the terminal
//   - serve: Run the waffle HTTP API
//   - cache: Manage the local artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/waffleviz/waffle/pkg/buildinfo"
	"github.com/waffleviz/waffle/pkg/cache"
	"github.com/waffleviz/waffle/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "waffle"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "waffle",
		Short:        "Waffle renders proportional tile-grid charts",
		Long:         `Waffle turns labeled values into waffle charts: tile grids where each category fills a number of cells proportional to its share of the total.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.chartCommand())
	root.AddCommand(c.allocateCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/waffle/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Shared Flags
// =============================================================================

// addLayoutFlags registers the grid layout flags shared by chart,
// allocate, and preview.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().IntVar(&opts.Width, "width", opts.Width, "grid width in tiles (default 10)")
	cmd.Flags().IntVar(&opts.Height, "height", opts.Height, "grid height in tiles (default 10)")
	cmd.Flags().BoolVar(&opts.Vertical, "vertical", opts.Vertical, "fill columns top to bottom instead of rows")
	cmd.Flags().BoolVar(&opts.NoAutoscale, "no-autoscale", opts.NoAutoscale, "keep the grid fixed instead of growing it until every category is visible")
	cmd.Flags().IntVar(&opts.MaxScaleSteps, "max-scale-steps", opts.MaxScaleSteps, "autoscale growth step limit (default 1000)")
}

// addStyleFlags registers the styling flags shared by chart and
// visualize. The colors flag is collected as a comma-separated string
// and split by the command.
func addStyleFlags(cmd *cobra.Command, opts *pipeline.Options, colors *string) {
	cmd.Flags().StringVar(&opts.Palette, "palette", opts.Palette, "palette name: viridis (default), cividis, plasma, tab10, tol")
	cmd.Flags().StringVar(colors, "colors", "", "comma-separated hex tile colors, padded from --palette when short")
	cmd.Flags().StringVar(&opts.Background, "background", opts.Background, "background color as hex (default light gray)")
	cmd.Flags().BoolVar(&opts.OverRepresent, "over-represent", opts.OverRepresent, "give categories under half a tile a full tile anyway")
	cmd.Flags().BoolVar(&opts.NoLegend, "no-legend", opts.NoLegend, "render without a legend")
	cmd.Flags().BoolVar(&opts.ShowValues, "show-values", opts.ShowValues, "append raw values to legend labels")
	cmd.Flags().BoolVar(&opts.ShowPercents, "show-percents", opts.ShowPercents, "append percentages to legend labels")
	cmd.Flags().StringVar(&opts.ValueSign, "value-sign", opts.ValueSign, "sign for legend values, e.g. % or $")
	cmd.Flags().StringVar(&opts.Title, "title", opts.Title, "chart title (default: dataset title)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "raster scale factor for PNG output (default 2)")
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return parts
}

// parseColors splits a comma-separated color list, dropping empty
// entries so a trailing comma does not turn into a parse error.
func parseColors(s string) []string {
	if s == "" {
		return nil
	}
	var colors []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			colors = append(colors, c)
		}
	}
	return colors
}
