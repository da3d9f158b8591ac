package waffle

import "slices"

// Grid is a filled tile matrix. Cells[row][col] holds the index of the
// category occupying that tile (an index into the sorted category slice
// of the owning [Allocation]), or [Background].
type Grid struct {
	Cells  [][]int `json:"cells"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

// NewGrid returns a width x height grid with every cell set to Background.
func NewGrid(width, height int) *Grid {
	cells := make([][]int, height)
	for row := range cells {
		cells[row] = make([]int, width)
		for col := range cells[row] {
			cells[row][col] = Background
		}
	}
	return &Grid{Cells: cells, Width: width, Height: height}
}

// Present returns the distinct category indices that occupy at least one
// cell, in ascending order. Background cells are ignored.
func (g *Grid) Present() []int {
	seen := map[int]bool{}
	for _, row := range g.Cells {
		for _, idx := range row {
			if idx != Background {
				seen[idx] = true
			}
		}
	}
	present := make([]int, 0, len(seen))
	for idx := range seen {
		present = append(present, idx)
	}
	slices.Sort(present)
	return present
}

// Count returns how many cells the given category index occupies.
// Counting Background reports the number of unoccupied cells.
func (g *Grid) Count(index int) int {
	n := 0
	for _, row := range g.Cells {
		for _, idx := range row {
			if idx == index {
				n++
			}
		}
	}
	return n
}

// Transposed returns a new grid with rows and columns swapped.
func (g *Grid) Transposed() *Grid {
	t := NewGrid(g.Height, g.Width)
	for row := range g.Cells {
		for col, idx := range g.Cells[row] {
			t.Cells[col][row] = idx
		}
	}
	return t
}
