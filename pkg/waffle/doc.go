// Package waffle allocates proportional tile grids for waffle charts.
//
// # Overview
//
// A waffle chart represents part-to-whole relationships as a rectangular
// grid of tiles, where each category occupies a contiguous run of tiles
// proportional to its share of the total. This package implements the
// allocation step: turning labeled values into a filled [Grid].
//
// The allocator guarantees that every category with a positive value is
// visible in the output. Rounding a small share to tiles can produce zero
// tiles; in that case the category borrows a single tile from its larger
// neighbors so it still appears. When even borrowing cannot fit all
// categories, the grid grows one row and one column at a time until they
// fit (see [Options.Autoscale]).
//
// # Basic Usage
//
// Build categories, pick options, and allocate:
//
//	alloc, err := waffle.Allocate([]waffle.Category{
//	    {Label: "Chrome", Value: 65},
//	    {Label: "Safari", Value: 19},
//	    {Label: "Other", Value: 16},
//	}, waffle.DefaultOptions())
//
// The result's [Allocation.Categories] are sorted by value in descending
// order, and every cell in [Allocation.Grid] holds an index into that
// sorted slice, or [Background] for an unoccupied cell.
//
// # Fill Order
//
// Tiles are assigned in scan order: column-major when [Options.Vertical]
// is set (columns fill top to bottom, left to right), row-major otherwise.
// Category boundaries are cumulative tile counts adjusted so that each
// category ends at least one tile after its predecessor, which is what
// makes borrowing work.
//
// # Degenerate Inputs
//
// Values that are zero or negative never receive tiles but remain in the
// category list so legends can still show them. When no value is positive
// the grid is returned at the requested size with every cell set to
// [Background], and proportions fall back to a uniform placeholder.
package waffle
