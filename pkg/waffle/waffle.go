package waffle

// Background marks a grid cell that no category occupies. Cells keep this
// value when rounding drift leaves the tail of the scan order unassigned,
// and when no category has a positive value at all.
const Background = -1

// Category is a single labeled value in a waffle chart.
type Category struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}
