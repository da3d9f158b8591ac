// Package render draws composed waffle scenes to SVG, PNG, PDF and JSON.
//
// A [Scene] bundles everything a sink needs: the filled grid, per-category
// colors, the legend, and an optional title. Sinks share one geometry
// calculation, so the same scene renders identically across formats.
package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/waffleviz/waffle/pkg/errors"
	"github.com/waffleviz/waffle/pkg/legend"
	"github.com/waffleviz/waffle/pkg/waffle"
)

// Output formats supported by this package.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Formats returns the supported output formats in the order they are
// usually produced.
func Formats() []string {
	return []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON}
}

// ValidFormat reports whether f names a supported output format.
func ValidFormat(f string) bool {
	switch f {
	case FormatSVG, FormatPNG, FormatPDF, FormatJSON:
		return true
	}
	return false
}

// Scene is a fully resolved chart, ready for any sink.
type Scene struct {
	// Grid holds the cell assignments at final dimensions.
	Grid *waffle.Grid

	// Categories in sorted order; cell values index into this slice.
	Categories []waffle.Category

	// TileColors color the grid, one per visible category. The
	// over-representation rule may have replaced the last entry with the
	// background color.
	TileColors []colorful.Color

	// LegendColors color the legend swatches, one per category. These
	// keep their original colors even when TileColors were adjusted.
	LegendColors []colorful.Color

	// Background fills unoccupied cells and the gaps between tiles.
	Background colorful.Color

	// Legend entries in sorted category order. Empty hides the legend.
	Legend []legend.Entry

	// Title is drawn above the grid when non-empty.
	Title string
}

// Validate checks that the scene is internally consistent enough to draw.
func (s *Scene) Validate() error {
	if s.Grid == nil {
		return errors.New(errors.ErrCodeInvalidInput, "scene has no grid")
	}
	if s.Grid.Width < 1 || s.Grid.Height < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "scene grid is %dx%d", s.Grid.Width, s.Grid.Height)
	}
	for _, row := range s.Grid.Cells {
		for _, idx := range row {
			if idx == waffle.Background {
				continue
			}
			if idx < 0 || idx >= len(s.Categories) {
				return errors.New(errors.ErrCodeInvalidInput, "cell references unknown category %d", idx)
			}
			if idx >= len(s.TileColors) {
				return errors.New(errors.ErrCodeInvalidInput, "no tile color for category %d", idx)
			}
		}
	}
	for _, e := range s.Legend {
		if e.Index < 0 || e.Index >= len(s.Categories) {
			return errors.New(errors.ErrCodeInvalidInput, "legend entry references unknown category %d", e.Index)
		}
	}
	return nil
}

// tileColor resolves the fill for a cell value, falling back to the
// background for unoccupied cells.
func (s *Scene) tileColor(idx int) colorful.Color {
	if idx == waffle.Background || idx >= len(s.TileColors) {
		return s.Background
	}
	return s.TileColors[idx]
}

// swatchColor resolves the legend swatch fill for a category index.
func (s *Scene) swatchColor(idx int) colorful.Color {
	if idx < 0 || idx >= len(s.LegendColors) {
		return s.Background
	}
	return s.LegendColors[idx]
}
