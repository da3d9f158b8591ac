// Package palette provides colormaps and color assignment for waffle charts.
//
// Categories get their colors in sorted order, either from an explicit list
// or by resampling a built-in colormap. [Reconcile] pads or truncates a
// partial list so there is always exactly one color per visible category.
package palette

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/waffleviz/waffle/pkg/errors"
	"github.com/waffleviz/waffle/pkg/waffle"
)

// DefaultBackground is the fill for unoccupied cells and gridlines,
// a light grey that recedes behind any colormap.
var DefaultBackground = rgb(211, 211, 211)

// ParseHex parses a "#rrggbb" or "#rgb" color string.
func ParseHex(s string) (colorful.Color, error) {
	if err := errors.ValidateHexColor(s); err != nil {
		return colorful.Color{}, err
	}

	// Expand the short form so the parser only deals with six digits.
	if len(s) == 4 {
		var b strings.Builder
		b.WriteByte('#')
		for _, r := range s[1:] {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		s = b.String()
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "parse color %q", s)
	}
	return c, nil
}

// ParseHexList parses a list of hex color strings, reporting the offending
// entry on failure.
func ParseHexList(hexes []string) ([]colorful.Color, error) {
	colors := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := ParseHex(h)
		if err != nil {
			return nil, err
		}
		colors[i] = c
	}
	return colors, nil
}

// Reconcile returns exactly n colors. Extra custom colors are dropped,
// missing ones are filled from the resampled colormap at their own
// positions, so a partial custom list keeps the map's tail colors.
func Reconcile(custom []colorful.Color, n int, m Colormap) []colorful.Color {
	if n <= 0 {
		return nil
	}
	if len(custom) >= n {
		return append([]colorful.Color(nil), custom[:n]...)
	}

	out := make([]colorful.Color, n)
	copy(out, custom)
	sampled := m.Resample(n)
	for i := len(custom); i < n; i++ {
		out[i] = sampled[i]
	}
	return out
}

// ApplyUnderHalfTile hides over-representation of tiny categories. A value
// whose exact share of the grid is less than half a tile still occupies a
// whole tile; unless overRepresent allows that, the last (smallest) visible
// category is painted in the background color instead.
//
// The check uses the final grid dimensions, after any autoscaling. Only
// fires when every positive category is visible, so a grid that already
// dropped categories keeps its colors. Returns a copy; the input is not
// modified.
func ApplyUnderHalfTile(colors []colorful.Color, alloc *waffle.Allocation, background colorful.Color, overRepresent bool) []colorful.Color {
	out := append([]colorful.Color(nil), colors...)
	if overRepresent || alloc.Visible == 0 || alloc.Visible != alloc.NonZero || alloc.Visible > len(out) {
		return out
	}

	threshold := 0.5 / float64(alloc.Grid.Width*alloc.Grid.Height)
	for _, p := range alloc.Proportions[:alloc.NonZero] {
		if p < threshold {
			out[alloc.Visible-1] = background
		}
	}
	return out
}
