package waffle

import (
	"cmp"
	"math"
	"slices"

	"github.com/waffleviz/waffle/pkg/errors"
)

// Allocation is the result of distributing categories over a tile grid.
type Allocation struct {
	// Categories is the input sorted by value in descending order. The
	// sort is stable, so equal values keep their input order. Grid cells
	// index into this slice.
	Categories []Category `json:"categories"`

	// Grid holds the final cell assignments at the final dimensions.
	Grid *Grid `json:"grid"`

	// Proportions holds each sorted category's share of the positive
	// value sum. When no value is positive every entry is 1, a uniform
	// placeholder that downstream consumers can still render.
	Proportions []float64 `json:"proportions"`

	// NonZero counts categories with a positive value.
	NonZero int `json:"non_zero"`

	// Visible counts categories that actually occupy at least one tile.
	// After a successful autoscale this equals NonZero; with autoscaling
	// off it may be smaller, and color mapping consumes it.
	Visible int `json:"visible"`

	// ScaleSteps records how many times autoscaling grew the grid.
	ScaleSteps int `json:"scale_steps"`

	// Vertical records the fill orientation the grid was built with.
	Vertical bool `json:"vertical"`
}

// Allocate distributes categories over a tile grid.
//
// Categories are stable-sorted by value descending. Each category with a
// positive value gets round-to-even(proportion * cells) tiles; a category
// rounded to zero tiles borrows one from its successors so it stays
// visible. If borrowing pushes the last categories past the end of the
// grid and autoscaling is on, the grid grows one row and one column at a
// time until everything fits.
//
// The input slice is not modified. Errors use INVALID_INPUT for bad
// arguments and SCALE_LIMIT_EXCEEDED when growth hits Options.MaxScaleSteps.
func Allocate(categories []Category, opts Options) (*Allocation, error) {
	opts.setDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no categories to allocate")
	}
	for _, c := range categories {
		if math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "category %q has non-finite value", c.Label)
		}
	}

	cats := make([]Category, len(categories))
	copy(cats, categories)
	slices.SortStableFunc(cats, func(a, b Category) int {
		return cmp.Compare(b.Value, a.Value)
	})

	// Sorted descending, so the positive values form a prefix.
	sum := 0.0
	nonZero := 0
	for _, c := range cats {
		if c.Value > 0 {
			sum += c.Value
			nonZero++
		}
	}

	proportions := make([]float64, len(cats))
	if sum > 0 {
		for i, c := range cats {
			proportions[i] = c.Value / sum
		}
	} else {
		for i := range proportions {
			proportions[i] = 1
		}
	}
	positive := proportions[:nonZero]

	width, height := opts.Width, opts.Height
	steps := 0
	for {
		bounds := boundaries(tileCounts(positive, width*height))
		present := presentCount(bounds, width*height)

		if present >= nonZero || !opts.Autoscale {
			return &Allocation{
				Categories:  cats,
				Grid:        fill(bounds, width, height, opts.Vertical),
				Proportions: proportions,
				NonZero:     nonZero,
				Visible:     present,
				ScaleSteps:  steps,
				Vertical:    opts.Vertical,
			}, nil
		}

		steps++
		if steps > opts.MaxScaleSteps {
			return nil, errors.New(errors.ErrCodeScaleLimitExceeded,
				"grid grew %d times without fitting %d categories (reached %dx%d)",
				steps-1, nonZero, width, height)
		}
		width++
		height++
	}
}

// AllocateValues is a convenience wrapper over [Allocate] for parallel
// label and value slices. Mismatched lengths are INVALID_INPUT.
func AllocateValues(labels []string, values []float64, opts Options) (*Allocation, error) {
	if len(labels) != len(values) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"mismatched input lengths: %d labels, %d values", len(labels), len(values))
	}
	cats := make([]Category, len(labels))
	for i := range labels {
		cats[i] = Category{Label: labels[i], Value: values[i]}
	}
	return Allocate(cats, opts)
}

// tileCounts converts proportions to whole tiles using round-half-to-even,
// so .5 shares do not all round up and systematically overfill the grid.
func tileCounts(proportions []float64, total int) []int {
	tiles := make([]int, len(proportions))
	for i, p := range proportions {
		tiles[i] = int(math.RoundToEven(p * float64(total)))
	}
	return tiles
}

// boundaries turns per-category tile counts into cumulative end ordinals.
// Each boundary is forced at least one past its predecessor, which is what
// lets a zero-tile category borrow a single tile from the next one.
func boundaries(tiles []int) []int {
	b := make([]int, len(tiles))
	cum, prev := 0, 0
	for i, n := range tiles {
		cum += n
		end := cum
		if end < prev+1 {
			end = prev + 1
		}
		b[i] = end
		prev = end
	}
	return b
}

// presentCount reports how many categories own at least one tile ordinal
// within the grid. Borrowing can push trailing boundaries past the grid
// end; those categories are not present.
func presentCount(bounds []int, total int) int {
	present := 0
	prev := 0
	for _, end := range bounds {
		if end > total {
			end = total
		}
		if prev < end {
			present++
		}
		prev = end
	}
	return present
}

// fill assigns tile ordinals 1..width*height to categories in scan order.
// Vertical fills column-major, otherwise row-major. Ordinals past the last
// boundary stay Background.
func fill(bounds []int, width, height int, vertical bool) *Grid {
	g := NewGrid(width, height)
	t, idx := 0, 0
	assign := func(row, col int) {
		t++
		for idx < len(bounds) && t > bounds[idx] {
			idx++
		}
		if idx < len(bounds) {
			g.Cells[row][col] = idx
		}
	}
	if vertical {
		for col := 0; col < width; col++ {
			for row := 0; row < height; row++ {
				assign(row, col)
			}
		}
	} else {
		for row := 0; row < height; row++ {
			for col := 0; col < width; col++ {
				assign(row, col)
			}
		}
	}
	return g
}
