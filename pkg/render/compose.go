package render

import (
	"github.com/waffleviz/waffle/pkg/errors"
	"github.com/waffleviz/waffle/pkg/legend"
	"github.com/waffleviz/waffle/pkg/palette"
	"github.com/waffleviz/waffle/pkg/waffle"
)

// Style selects colors and decorations for a composed scene. The zero
// value renders with the default palette, no legend and no title.
type Style struct {
	// Palette names a built-in colormap. Empty means the default.
	Palette string

	// Colors are explicit hex tile colors. When fewer are given than
	// there are categories, the palette fills the remainder.
	Colors []string

	// Background is the hex color for unoccupied cells. Empty means the
	// standard light gray.
	Background string

	// OverRepresent keeps the true color on a category whose exact share
	// of the grid is under half a tile.
	OverRepresent bool

	// Legend adds a legend; ShowValues, ShowPercents and ValueSign shape
	// its labels.
	Legend       bool
	ShowValues   bool
	ShowPercents bool
	ValueSign    string

	// Title is drawn above the grid when non-empty.
	Title string
}

// Compose resolves an allocation and a style into a drawable scene.
// Tile colors cover the visible categories only; legend swatches keep the
// full reconciled list so hidden categories still show their color.
func Compose(alloc *waffle.Allocation, style Style) (*Scene, error) {
	m, err := palette.ByName(style.Palette)
	if err != nil {
		return nil, err
	}

	n := len(alloc.Categories)
	colors := m.Resample(n)
	if len(style.Colors) > 0 {
		custom, err := palette.ParseHexList(style.Colors)
		if err != nil {
			return nil, err
		}
		colors = palette.Reconcile(custom, n, m)
	}

	background := palette.DefaultBackground
	if style.Background != "" {
		background, err = palette.ParseHex(style.Background)
		if err != nil {
			return nil, err
		}
	}

	tiles := palette.ApplyUnderHalfTile(colors, alloc, background, style.OverRepresent)

	s := &Scene{
		Grid:         alloc.Grid,
		Categories:   alloc.Categories,
		TileColors:   tiles[:alloc.Visible],
		LegendColors: colors,
		Background:   background,
		Title:        style.Title,
	}
	if style.Legend {
		s.Legend = legend.Build(alloc.Categories, alloc.Proportions, legend.Options{
			ShowValues:   style.ShowValues,
			ShowPercents: style.ShowPercents,
			ValueSign:    style.ValueSign,
		})
	}
	return s, nil
}

// Render draws the scene in the named format.
func Render(s *Scene, format string, opts ...Option) ([]byte, error) {
	switch format {
	case FormatSVG:
		return SVG(s, opts...)
	case FormatPNG:
		return PNG(s, opts...)
	case FormatPDF:
		return PDF(s, opts...)
	case FormatJSON:
		return JSON(s)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
}
