package waffle

import (
	"math"
	"testing"

	"github.com/waffleviz/waffle/pkg/errors"
)

func TestAllocate(t *testing.T) {
	tests := []struct {
		name        string
		categories  []Category
		opts        Options
		wantWidth   int
		wantHeight  int
		wantCounts  []int // tiles per sorted category index
		wantVisible int
	}{
		{
			name: "exact proportions",
			categories: []Category{
				{Label: "a", Value: 50},
				{Label: "b", Value: 30},
				{Label: "c", Value: 20},
			},
			opts:        Options{Width: 10, Height: 10, Autoscale: true},
			wantWidth:   10,
			wantHeight:  10,
			wantCounts:  []int{50, 30, 20},
			wantVisible: 3,
		},
		{
			name: "small category borrows a tile",
			categories: []Category{
				{Label: "big", Value: 41},
				{Label: "mid", Value: 20},
				{Label: "tiny", Value: 3},
			},
			opts:        Options{Width: 4, Height: 2, Autoscale: true},
			wantWidth:   4,
			wantHeight:  2,
			wantCounts:  []int{5, 2, 1},
			wantVisible: 3,
		},
		{
			name: "single category fills grid",
			categories: []Category{
				{Label: "only", Value: 42},
			},
			opts:        Options{Width: 6, Height: 5, Autoscale: true},
			wantWidth:   6,
			wantHeight:  5,
			wantCounts:  []int{30},
			wantVisible: 1,
		},
		{
			name: "vertical ninety ten split",
			categories: []Category{
				{Label: "x", Value: 90},
				{Label: "y", Value: 10},
			},
			opts:        Options{Width: 10, Height: 10, Vertical: true, Autoscale: true},
			wantWidth:   10,
			wantHeight:  10,
			wantCounts:  []int{90, 10},
			wantVisible: 2,
		},
		{
			name: "zero value kept but not tiled",
			categories: []Category{
				{Label: "none", Value: 0},
				{Label: "all", Value: 5},
			},
			opts:        Options{Width: 4, Height: 2, Autoscale: true},
			wantWidth:   4,
			wantHeight:  2,
			wantCounts:  []int{8, 0},
			wantVisible: 1,
		},
		{
			name: "negative value excluded",
			categories: []Category{
				{Label: "a", Value: 50},
				{Label: "debt", Value: -10},
				{Label: "b", Value: 50},
			},
			opts:        Options{Width: 10, Height: 10, Autoscale: true},
			wantWidth:   10,
			wantHeight:  10,
			wantCounts:  []int{50, 50, 0},
			wantVisible: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc, err := Allocate(tt.categories, tt.opts)
			if err != nil {
				t.Fatalf("Allocate() error: %v", err)
			}

			if alloc.Grid.Width != tt.wantWidth || alloc.Grid.Height != tt.wantHeight {
				t.Errorf("dimensions = %dx%d, want %dx%d",
					alloc.Grid.Width, alloc.Grid.Height, tt.wantWidth, tt.wantHeight)
			}
			if alloc.Visible != tt.wantVisible {
				t.Errorf("Visible = %d, want %d", alloc.Visible, tt.wantVisible)
			}
			for idx, want := range tt.wantCounts {
				if got := alloc.Grid.Count(idx); got != want {
					t.Errorf("Count(%d) = %d, want %d", idx, got, want)
				}
			}
		})
	}
}

func TestAllocateSortsDescending(t *testing.T) {
	input := []Category{
		{Label: "small", Value: 5},
		{Label: "large", Value: 80},
		{Label: "medium", Value: 15},
	}

	alloc, err := Allocate(input, DefaultOptions())
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}

	wantOrder := []string{"large", "medium", "small"}
	for i, want := range wantOrder {
		if alloc.Categories[i].Label != want {
			t.Errorf("Categories[%d] = %q, want %q", i, alloc.Categories[i].Label, want)
		}
	}

	// The input slice must keep its original order.
	if input[0].Label != "small" || input[1].Label != "large" {
		t.Errorf("input slice was reordered: %v", input)
	}
}

func TestAllocateStableForTies(t *testing.T) {
	alloc, err := Allocate([]Category{
		{Label: "first", Value: 10},
		{Label: "second", Value: 10},
		{Label: "third", Value: 10},
	}, DefaultOptions())
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}

	wantOrder := []string{"first", "second", "third"}
	for i, want := range wantOrder {
		if alloc.Categories[i].Label != want {
			t.Errorf("Categories[%d] = %q, want %q (ties must keep input order)", i, alloc.Categories[i].Label, want)
		}
	}
}

func TestAllocateFillOrder(t *testing.T) {
	categories := []Category{
		{Label: "big", Value: 41},
		{Label: "mid", Value: 20},
		{Label: "tiny", Value: 3},
	}

	t.Run("horizontal is row-major", func(t *testing.T) {
		alloc, err := Allocate(categories, Options{Width: 4, Height: 2})
		if err != nil {
			t.Fatalf("Allocate() error: %v", err)
		}
		want := [][]int{
			{0, 0, 0, 0},
			{0, 1, 1, 2},
		}
		assertCells(t, alloc.Grid, want)
	})

	t.Run("vertical is column-major", func(t *testing.T) {
		alloc, err := Allocate(categories, Options{Width: 4, Height: 2, Vertical: true})
		if err != nil {
			t.Fatalf("Allocate() error: %v", err)
		}
		want := [][]int{
			{0, 0, 0, 1},
			{0, 0, 1, 2},
		}
		assertCells(t, alloc.Grid, want)
	})
}

func TestAllocateOrientationSymmetry(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		height int
	}{
		{"uneven split", []float64{5, 3, 2}, 4, 3},
		{"with borrowing", []float64{41, 20, 3}, 4, 2},
		{"single", []float64{7}, 3, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labels := make([]string, len(tt.values))
			for i := range labels {
				labels[i] = string(rune('a' + i))
			}

			vert, err := AllocateValues(labels, tt.values, Options{Width: tt.width, Height: tt.height, Vertical: true})
			if err != nil {
				t.Fatalf("vertical Allocate() error: %v", err)
			}
			horiz, err := AllocateValues(labels, tt.values, Options{Width: tt.height, Height: tt.width})
			if err != nil {
				t.Fatalf("horizontal Allocate() error: %v", err)
			}

			assertCells(t, vert.Grid, horiz.Grid.Transposed().Cells)
		})
	}
}

func TestAllocateAutoscale(t *testing.T) {
	// Two tiny categories round to zero tiles on a 5x5 grid and borrowing
	// alone cannot keep them inside it, so the grid must grow.
	alloc, err := Allocate([]Category{
		{Label: "a", Value: 1},
		{Label: "b", Value: 1},
		{Label: "c", Value: 98},
	}, Options{Width: 5, Height: 5, Autoscale: true})
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}

	if alloc.Grid.Width <= 5 || alloc.Grid.Height <= 5 {
		t.Errorf("grid did not grow: %dx%d", alloc.Grid.Width, alloc.Grid.Height)
	}
	if alloc.Grid.Width-5 != alloc.ScaleSteps || alloc.Grid.Height-5 != alloc.ScaleSteps {
		t.Errorf("dimensions %dx%d do not match %d growth steps",
			alloc.Grid.Width, alloc.Grid.Height, alloc.ScaleSteps)
	}
	if got := len(alloc.Grid.Present()); got != 3 {
		t.Errorf("present categories = %d, want 3", got)
	}
	for idx := 0; idx < 3; idx++ {
		if alloc.Grid.Count(idx) == 0 {
			t.Errorf("category %d has no tiles after autoscale", idx)
		}
	}
}

func TestAllocateAutoscaleOffReducesVisible(t *testing.T) {
	alloc, err := Allocate([]Category{
		{Label: "a", Value: 9000},
		{Label: "b", Value: 960},
		{Label: "c", Value: 40},
	}, Options{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}

	if alloc.Grid.Width != 10 || alloc.Grid.Height != 10 {
		t.Errorf("dimensions = %dx%d, want unchanged 10x10", alloc.Grid.Width, alloc.Grid.Height)
	}
	if alloc.NonZero != 3 {
		t.Errorf("NonZero = %d, want 3", alloc.NonZero)
	}
	if alloc.Visible != 2 {
		t.Errorf("Visible = %d, want 2 (smallest category dropped without autoscale)", alloc.Visible)
	}
}

func TestAllocateCoverage(t *testing.T) {
	// Every positive category must own at least one tile once autoscaling
	// settles, regardless of how skewed the distribution is.
	tests := [][]float64{
		{1, 1, 98},
		{0.1, 0.2, 99.7},
		{5, 5, 5, 5, 80},
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	}

	for _, values := range tests {
		labels := make([]string, len(values))
		for i := range labels {
			labels[i] = string(rune('a' + i))
		}

		alloc, err := AllocateValues(labels, values, DefaultOptions())
		if err != nil {
			t.Fatalf("AllocateValues(%v) error: %v", values, err)
		}
		if got := len(alloc.Grid.Present()); got != alloc.NonZero {
			t.Errorf("values %v: %d categories present, want %d", values, got, alloc.NonZero)
		}
	}
}

func TestAllocateProportions(t *testing.T) {
	alloc, err := Allocate([]Category{
		{Label: "a", Value: 2},
		{Label: "b", Value: 3},
		{Label: "c", Value: 5},
	}, DefaultOptions())
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}

	sum := 0.0
	for _, p := range alloc.Proportions {
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("proportions sum = %v, want 1", sum)
	}

	want := []float64{0.5, 0.3, 0.2}
	for i, p := range alloc.Proportions {
		if math.Abs(p-want[i]) > 1e-9 {
			t.Errorf("Proportions[%d] = %v, want %v", i, p, want[i])
		}
	}
}

func TestAllocateAllZero(t *testing.T) {
	alloc, err := Allocate([]Category{
		{Label: "a", Value: 0},
		{Label: "b", Value: 0},
	}, Options{Width: 10, Height: 10, Autoscale: true})
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}

	if alloc.Grid.Width != 10 || alloc.Grid.Height != 10 {
		t.Errorf("dimensions = %dx%d, want 10x10", alloc.Grid.Width, alloc.Grid.Height)
	}
	if got := alloc.Grid.Count(Background); got != 100 {
		t.Errorf("background cells = %d, want all 100", got)
	}
	if alloc.NonZero != 0 || alloc.Visible != 0 {
		t.Errorf("NonZero/Visible = %d/%d, want 0/0", alloc.NonZero, alloc.Visible)
	}
	for i, p := range alloc.Proportions {
		if p != 1 {
			t.Errorf("Proportions[%d] = %v, want placeholder 1", i, p)
		}
	}
}

func TestAllocateRoundHalfToEven(t *testing.T) {
	// 9/16 and 7/16 of 8 tiles are exactly 4.5 and 3.5. Half-to-even
	// rounds both to 4, so the grid is not overfilled.
	alloc, err := Allocate([]Category{
		{Label: "a", Value: 9},
		{Label: "b", Value: 7},
	}, Options{Width: 4, Height: 2})
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}

	if got := alloc.Grid.Count(0); got != 4 {
		t.Errorf("Count(0) = %d, want 4 (4.5 rounds down to even)", got)
	}
	if got := alloc.Grid.Count(1); got != 4 {
		t.Errorf("Count(1) = %d, want 4 (3.5 rounds up to even)", got)
	}
}

func TestAllocateErrors(t *testing.T) {
	tests := []struct {
		name       string
		categories []Category
		opts       Options
		wantCode   errors.Code
	}{
		{
			name:       "empty categories",
			categories: nil,
			opts:       DefaultOptions(),
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "negative width",
			categories: []Category{{Label: "a", Value: 1}},
			opts:       Options{Width: -1, Height: 10},
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "non-finite value",
			categories: []Category{{Label: "a", Value: math.NaN()}},
			opts:       DefaultOptions(),
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name: "scale limit exceeded",
			categories: []Category{
				{Label: "giant", Value: 1e9},
				{Label: "a", Value: 1},
				{Label: "b", Value: 1},
			},
			opts:     Options{Width: 10, Height: 10, Autoscale: true, MaxScaleSteps: 2},
			wantCode: errors.ErrCodeScaleLimitExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Allocate(tt.categories, tt.opts)
			if err == nil {
				t.Fatal("Allocate() succeeded, want error")
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestAllocateValuesMismatchedLengths(t *testing.T) {
	_, err := AllocateValues([]string{"a", "b"}, []float64{1}, DefaultOptions())
	if err == nil {
		t.Fatal("AllocateValues() succeeded, want error")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestAllocateDefaults(t *testing.T) {
	alloc, err := Allocate([]Category{{Label: "a", Value: 1}}, Options{})
	if err != nil {
		t.Fatalf("Allocate() error: %v", err)
	}
	if alloc.Grid.Width != DefaultWidth || alloc.Grid.Height != DefaultHeight {
		t.Errorf("dimensions = %dx%d, want defaults %dx%d",
			alloc.Grid.Width, alloc.Grid.Height, DefaultWidth, DefaultHeight)
	}
}

func TestBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		tiles []int
		want  []int
	}{
		{"plain cumulative", []int{50, 30, 20}, []int{50, 80, 100}},
		{"zero tile borrows", []int{95, 0, 3}, []int{95, 96, 98}},
		{"consecutive zeros", []int{24, 0, 0}, []int{24, 25, 26}},
		{"leading zero", []int{0, 5}, []int{1, 5}},
		{"empty", nil, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := boundaries(tt.tiles)
			if len(got) != len(tt.want) {
				t.Fatalf("boundaries(%v) = %v, want %v", tt.tiles, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("boundaries(%v)[%d] = %d, want %d", tt.tiles, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPresentCount(t *testing.T) {
	tests := []struct {
		name   string
		bounds []int
		total  int
		want   int
	}{
		{"all inside", []int{50, 80, 100}, 100, 3},
		{"last pushed out", []int{95, 100, 101}, 100, 2},
		{"borrow chain past end", []int{24, 25, 26}, 25, 2},
		{"empty", nil, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := presentCount(tt.bounds, tt.total); got != tt.want {
				t.Errorf("presentCount(%v, %d) = %d, want %d", tt.bounds, tt.total, got, tt.want)
			}
		})
	}
}

func assertCells(t *testing.T, g *Grid, want [][]int) {
	t.Helper()
	if len(g.Cells) != len(want) {
		t.Fatalf("grid has %d rows, want %d", len(g.Cells), len(want))
	}
	for row := range want {
		for col := range want[row] {
			if g.Cells[row][col] != want[row][col] {
				t.Errorf("cell[%d][%d] = %d, want %d", row, col, g.Cells[row][col], want[row][col])
			}
		}
	}
}
