// Package pkg provides the core libraries for waffle chart generation.
//
// # Overview
//
// Waffle turns a list of weighted categories into a proportional tile
// grid ("waffle" chart): each category claims a number of grid cells
// matching its share of the total, and the grid grows automatically
// until every category with a positive value is visible. The pkg
// directory is organized into three main areas:
//
//  1. Domain - allocation, colors, legends, rendering
//  2. Input/output - dataset ingestion and allocation round-trips
//  3. Infrastructure - caching, storage, pipeline, observability
//
// # Architecture
//
// The typical data flow:
//
//	Dataset file or URL (TOML/JSON/CSV)
//	         ↓
//	    [dataset] package (parse + validate)
//	         ↓
//	    [waffle] package (sort, round, fill, autoscale)
//	         ↓
//	    [palette] + [legend] packages (colors, labels)
//	         ↓
//	    [render] package (scene → SVG/PNG/PDF/JSON)
//
// The [pipeline] package orchestrates the full flow with per-stage
// caching and is shared by the CLI and the HTTP server.
//
// # Quick Start
//
// Allocate and render a chart:
//
//	import (
//	    "github.com/waffleviz/waffle/pkg/render"
//	    "github.com/waffleviz/waffle/pkg/waffle"
//	)
//
//	// 1. Allocate tiles on a 10x10 grid
//	alloc, _ := waffle.AllocateValues(
//	    []string{"Chrome", "Safari", "Other"},
//	    []float64{65, 20, 15},
//	    waffle.Options{Width: 10, Height: 10},
//	)
//
//	// 2. Compose a scene and render it
//	scene, _ := render.Compose(alloc, render.Style{Legend: true})
//	svg, _ := render.SVG(scene)
//
// # Main Packages
//
// [waffle] - The tile allocator. Stable-sorts categories by value,
// rounds each share to whole tiles (round-half-to-even), fills the grid
// row- or column-major, and grows the grid one step at a time until all
// positive categories are present.
//
// [palette] - Built-in colormaps (viridis, cividis, plasma, tab10, tol)
// with resampling, hex color parsing, and reconciliation of custom
// color lists against a colormap.
//
// [legend] - Legend label construction with optional values, percents,
// and a configurable value sign.
//
// [render] - Scene composition and output sinks: SVG, PNG, PDF (via
// rsvg-convert), and a JSON scene export.
//
// [dataset] - Dataset parsing from TOML, JSON, and CSV, loaded from
// local files or HTTP(S) URLs.
//
// [io] - Versioned JSON round-trip for allocations, connecting the
// allocate and visualize commands.
//
// # Infrastructure
//
// [pipeline] - The load → allocate → render pipeline with per-stage
// cache keys and cache-hit reporting.
//
// [cache] - Artifact cache backends: file-based, Redis, and null.
//
// [store] - Dataset storage for the HTTP server: in-memory and MongoDB.
//
// [errors] - Structured errors with machine-readable codes shared by
// the CLI and the HTTP API.
//
// [observability] - Optional hooks around pipeline stages, cache
// operations, and HTTP requests.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/waffle/...             # Specific package
//	go test -tags integration ./pkg/...  # Include Redis/Mongo tests
//
// [waffle]: https://pkg.go.dev/github.com/waffleviz/waffle/pkg/waffle
// [palette]: https://pkg.go.dev/github.com/waffleviz/waffle/pkg/palette
// [legend]: https://pkg.go.dev/github.com/waffleviz/waffle/pkg/legend
// [render]: https://pkg.go.dev/github.com/waffleviz/waffle/pkg/render
// [dataset]: https://pkg.go.dev/github.com/waffleviz/waffle/pkg/dataset
// [io]: https://pkg.go.dev/github.com/waffleviz/waffle/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/waffleviz/waffle/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/waffleviz/waffle/pkg/cache
// [store]: https://pkg.go.dev/github.com/waffleviz/waffle/pkg/store
// [errors]: https://pkg.go.dev/github.com/waffleviz/waffle/pkg/errors
// [observability]: https://pkg.go.dev/github.com/waffleviz/waffle/pkg/observability
package pkg
