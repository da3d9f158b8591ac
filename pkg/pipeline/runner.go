package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/waffleviz/waffle/pkg/cache"
	"github.com/waffleviz/waffle/pkg/dataset"
	"github.com/waffleviz/waffle/pkg/errors"
	"github.com/waffleviz/waffle/pkg/observability"
	"github.com/waffleviz/waffle/pkg/render"
	"github.com/waffleviz/waffle/pkg/waffle"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → allocate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Source)
	ds, datasetHash, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	observability.Pipeline().OnLoadComplete(ctx, opts.Source, categoryCount(ds), time.Since(loadStart), err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Dataset = ds
	result.DatasetHash = datasetHash
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.CategoryCount = len(ds.Categories)
	result.CacheInfo.LoadHit = loadHit

	// The dataset title feeds the chart title unless one was given.
	if opts.Title == "" {
		opts.Title = ds.Title
	}

	r.Logger.Info("loaded dataset",
		"categories", len(ds.Categories),
		"duration", result.Stats.LoadTime)

	// Stage 2: Allocate
	allocStart := time.Now()
	observability.Pipeline().OnAllocateStart(ctx, len(ds.Categories), opts.Width, opts.Height)
	alloc, allocHit, err := r.AllocateWithCacheInfo(ctx, ds, datasetHash, opts)
	if err != nil {
		observability.Pipeline().OnAllocateComplete(ctx, opts.Width, opts.Height, time.Since(allocStart), err)
		return nil, fmt.Errorf("allocate: %w", err)
	}
	observability.Pipeline().OnAllocateComplete(ctx, alloc.Grid.Width, alloc.Grid.Height, time.Since(allocStart), nil)
	result.Allocation = alloc
	result.Stats.AllocateTime = time.Since(allocStart)
	result.Stats.GridWidth = alloc.Grid.Width
	result.Stats.GridHeight = alloc.Grid.Height
	result.Stats.ScaleSteps = alloc.ScaleSteps
	result.CacheInfo.AllocateHit = allocHit

	// Compute allocation hash for cache keys and API responses
	if allocData, err := json.Marshal(alloc); err == nil {
		result.AllocationHash = cache.Hash(allocData)
	}

	r.Logger.Info("allocated tiles",
		"grid", fmt.Sprintf("%dx%d", alloc.Grid.Width, alloc.Grid.Height),
		"visible", alloc.Visible,
		"steps", alloc.ScaleSteps,
		"duration", result.Stats.AllocateTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, alloc, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads a dataset with caching and returns the source
// hash and cache hit info. In-memory datasets bypass the cache but still
// get a content hash so later stages can key on it.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*dataset.Dataset, string, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, "", false, err
	}
	r.applyLogger(&opts)

	if opts.Dataset != nil {
		if err := opts.Dataset.Validate(); err != nil {
			return nil, "", false, err
		}
		data, err := json.Marshal(opts.Dataset)
		if err != nil {
			return nil, "", false, errors.Wrap(errors.ErrCodeInternal, err, "hash dataset")
		}
		return opts.Dataset, cache.Hash(data), false, nil
	}

	raw, format, err := dataset.ReadSource(ctx, opts.Source)
	if err != nil {
		return nil, "", false, err
	}
	sourceHash := cache.Hash(raw)
	cacheKey := r.Keyer.DatasetKey(sourceHash)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var d dataset.Dataset
			if err := json.Unmarshal(data, &d); err == nil && d.Validate() == nil {
				observability.Cache().OnCacheHit(ctx, "dataset")
				return &d, sourceHash, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "dataset")
	}

	// Parse
	d, err := dataset.Parse(raw, format)
	if err != nil {
		return nil, "", false, err
	}

	// Cache the result
	if !opts.Refresh {
		if data, err := json.Marshal(d); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLDataset)
			observability.Cache().OnCacheSet(ctx, "dataset", len(data))
		}
	}

	return d, sourceHash, false, nil // Cache miss
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*dataset.Dataset, error) {
	ds, _, _, err := r.LoadWithCacheInfo(ctx, opts)
	return ds, err
}

// AllocateWithCacheInfo computes a tile allocation with caching and returns cache hit info.
// The datasetHash keys the cache entry; pass "" to have it computed from the dataset.
func (r *Runner) AllocateWithCacheInfo(ctx context.Context, ds *dataset.Dataset, datasetHash string, opts Options) (*waffle.Allocation, bool, error) {
	if err := opts.ValidateForAllocate(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key
	if datasetHash == "" {
		if data, err := json.Marshal(ds); err == nil {
			datasetHash = cache.Hash(data)
		}
	}
	cacheKey := r.Keyer.AllocationKey(datasetHash, opts.AllocationKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh && datasetHash != "" {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached waffle.Allocation
			if err := json.Unmarshal(data, &cached); err == nil && cached.Grid != nil {
				observability.Cache().OnCacheHit(ctx, "allocation")
				return &cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "allocation")
	}

	// Allocate
	alloc, err := waffle.Allocate(ds.Categories, opts.AllocOptions())
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if !opts.Refresh && datasetHash != "" {
		if data, err := json.Marshal(alloc); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLAllocation)
			observability.Cache().OnCacheSet(ctx, "allocation", len(data))
		}
	}

	return alloc, false, nil // Cache miss
}

// Allocate is a convenience wrapper that calls AllocateWithCacheInfo and discards the cache hit info.
func (r *Runner) Allocate(ctx context.Context, ds *dataset.Dataset, datasetHash string, opts Options) (*waffle.Allocation, error) {
	alloc, _, err := r.AllocateWithCacheInfo(ctx, ds, datasetHash, opts)
	return alloc, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, alloc *waffle.Allocation, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from allocation data
	allocData, err := json.Marshal(alloc)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize allocation for cache key")
	}
	allocationHash := cache.Hash(allocData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(allocationHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Compose the scene once and render all formats
	scene, err := render.Compose(alloc, opts.RenderStyle())
	if err != nil {
		return nil, false, err
	}

	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := render.Render(scene, format, opts.SinkOptions()...)
		if err != nil {
			return nil, false, err
		}
		rendered[format] = data
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(allocationHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, alloc *waffle.Allocation, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, alloc, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func categoryCount(ds *dataset.Dataset) int {
	if ds == nil {
		return 0
	}
	return len(ds.Categories)
}
