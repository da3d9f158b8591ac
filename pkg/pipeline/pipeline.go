// Package pipeline provides the core chart pipeline for Waffle.
//
// This package implements the complete load → allocate → render pipeline
// that can be used by CLI and API components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read and parse a dataset from a TOML, JSON or CSV source
//  2. Allocate: Distribute grid tiles proportionally across categories
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  "browsers.toml",
//	    Width:   10,
//	    Height:  10,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Load only
//	ds, err := runner.Load(ctx, opts)
//
//	// Allocate with an existing dataset
//	alloc, err := runner.Allocate(ctx, ds, "", opts)
//
//	// Render with an existing allocation
//	artifacts, err := runner.Render(ctx, alloc, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/waffleviz/waffle/pkg/cache"
	"github.com/waffleviz/waffle/pkg/dataset"
	"github.com/waffleviz/waffle/pkg/errors"
	"github.com/waffleviz/waffle/pkg/render"
	"github.com/waffleviz/waffle/pkg/waffle"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultFormat is the output format used when none are requested.
	DefaultFormat = render.FormatSVG

	// DefaultScale is the raster scale factor for PNG output.
	DefaultScale = 2.0
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the chart pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Source  string `json:"source,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	// Allocation options
	Width         int  `json:"width,omitempty"`
	Height        int  `json:"height,omitempty"`
	Vertical      bool `json:"vertical,omitempty"`
	NoAutoscale   bool `json:"no_autoscale,omitempty"` // Autoscaling is on by default
	MaxScaleSteps int  `json:"max_scale_steps,omitempty"`

	// Render options
	Formats       []string `json:"formats,omitempty"`
	Palette       string   `json:"palette,omitempty"`
	Colors        []string `json:"colors,omitempty"`
	Background    string   `json:"background,omitempty"`
	OverRepresent bool     `json:"over_represent,omitempty"`
	NoLegend      bool     `json:"no_legend,omitempty"` // The legend is drawn by default
	ShowValues    bool     `json:"show_values,omitempty"`
	ShowPercents  bool     `json:"show_percents,omitempty"`
	ValueSign     string   `json:"value_sign,omitempty"`
	Title         string   `json:"title,omitempty"`
	Scale         float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger  *log.Logger      `json:"-"`
	Dataset *dataset.Dataset `json:"-"` // In-memory dataset, skips the file read

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dataset is the loaded input data.
	Dataset *dataset.Dataset

	// DatasetHash is the content hash of the raw dataset source.
	DatasetHash string

	// Allocation is the computed tile distribution.
	Allocation *waffle.Allocation

	// AllocationHash is the content hash of the allocation.
	AllocationHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	CategoryCount int
	GridWidth     int
	GridHeight    int
	ScaleSteps    int
	LoadTime      time.Duration
	AllocateTime  time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit     bool // Whether the parsed dataset came from cache
	AllocateHit bool // Whether the allocation came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !render.ValidFormat(format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForAllocate(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.Source == "" && o.Dataset == nil {
		return errors.New(errors.ErrCodeInvalidInput, "source is required")
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetAllocateDefaults sets default values for tile allocation.
func (o *Options) SetAllocateDefaults() {
	if o.Width == 0 {
		o.Width = waffle.DefaultWidth
	}
	if o.Height == 0 {
		o.Height = waffle.DefaultHeight
	}
	if o.MaxScaleSteps == 0 {
		o.MaxScaleSteps = waffle.DefaultMaxScaleSteps
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForAllocate validates and sets defaults for tile allocation.
func (o *Options) ValidateForAllocate() error {
	o.SetAllocateDefaults()
	return errors.ValidateDimensions(o.Width, o.Height)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// ShouldAutoscale returns whether the grid should grow until every nonzero
// category is visible.
func (o *Options) ShouldAutoscale() bool {
	return !o.NoAutoscale
}

// ShowLegend returns whether the rendered chart includes a legend.
func (o *Options) ShowLegend() bool {
	return !o.NoLegend
}

// AllocOptions returns the allocator options for these pipeline options.
func (o *Options) AllocOptions() waffle.Options {
	return waffle.Options{
		Width:         o.Width,
		Height:        o.Height,
		Vertical:      o.Vertical,
		Autoscale:     o.ShouldAutoscale(),
		MaxScaleSteps: o.MaxScaleSteps,
	}
}

// RenderStyle returns the scene style for these pipeline options.
func (o *Options) RenderStyle() render.Style {
	return render.Style{
		Palette:       o.Palette,
		Colors:        o.Colors,
		Background:    o.Background,
		OverRepresent: o.OverRepresent,
		Legend:        o.ShowLegend(),
		ShowValues:    o.ShowValues,
		ShowPercents:  o.ShowPercents,
		ValueSign:     o.ValueSign,
		Title:         o.Title,
	}
}

// SinkOptions returns the sink options for these pipeline options.
func (o *Options) SinkOptions() []render.Option {
	if o.Scale > 0 {
		return []render.Option{render.WithScale(o.Scale)}
	}
	return nil
}

// AllocationKeyOpts returns cache key options for tile allocation.
func (o *Options) AllocationKeyOpts() cache.AllocationKeyOpts {
	return cache.AllocationKeyOpts{
		Width:         o.Width,
		Height:        o.Height,
		Vertical:      o.Vertical,
		Autoscale:     o.ShouldAutoscale(),
		MaxScaleSteps: o.MaxScaleSteps,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:        format,
		Palette:       o.Palette,
		Colors:        o.Colors,
		Background:    o.Background,
		OverRepresent: o.OverRepresent,
		Legend:        o.ShowLegend(),
		ShowValues:    o.ShowValues,
		ShowPercents:  o.ShowPercents,
		ValueSign:     o.ValueSign,
		Title:         o.Title,
		Scale:         o.Scale,
	}
}
