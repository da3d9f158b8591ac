package render

import "github.com/waffleviz/waffle/pkg/fonts"

// Theme controls chart geometry and typography. The zero value is not
// usable; start from [DefaultTheme].
type Theme struct {
	// CanvasWidth and CanvasHeight are the logical canvas size in pixels.
	// Raster sinks multiply by their scale factor.
	CanvasWidth  int
	CanvasHeight int

	// Margin is the padding between the canvas edge and the content.
	Margin float64

	// LegendWidth is the horizontal space reserved for the legend column
	// when the scene has legend entries.
	LegendWidth float64

	// FontFamily is used by the SVG sink. The PNG sink always embeds its
	// bundled face.
	FontFamily string

	TitleSize  float64
	LegendSize float64

	// SwatchSize is the side length of legend color squares.
	SwatchSize float64

	// LegendSpacing is the vertical distance between legend entries.
	LegendSpacing float64
}

// DefaultTheme returns the standard 640x480 chart theme.
func DefaultTheme() Theme {
	return Theme{
		CanvasWidth:   640,
		CanvasHeight:  480,
		Margin:        24,
		LegendWidth:   180,
		FontFamily:    fonts.Family,
		TitleSize:     16,
		LegendSize:    12,
		SwatchSize:    12,
		LegendSpacing: 22,
	}
}

// lineWidth is the tile gridline stroke. Small grids get a heavier line;
// past 25 tiles per side it thins out so the lines do not swallow cells.
func (t Theme) lineWidth(gridW, gridH int) float64 {
	if gridW < 25 && gridH < 25 {
		return 1.0
	}
	return 0.5
}

// frame is the resolved geometry for one scene: where the grid sits, how
// big a tile is, and where the title and legend go. All sinks draw from
// the same frame so formats agree with each other.
type frame struct {
	width, height int

	cell           float64
	gridX, gridY   float64
	gridW, gridH   float64
	line           float64
	titleX, titleY float64
	legendX        float64
	legendY        float64
}

// computeFrame lays out a scene on the theme's canvas. Tiles are always
// square: the cell size is the largest that fits both dimensions of the
// final grid inside the available plot area.
func computeFrame(s *Scene, t Theme) frame {
	f := frame{width: t.CanvasWidth, height: t.CanvasHeight}

	plotX := t.Margin
	plotY := t.Margin
	if s.Title != "" {
		plotY += t.TitleSize + t.Margin/2
	}

	availW := float64(t.CanvasWidth) - plotX - t.Margin
	if len(s.Legend) > 0 {
		availW -= t.LegendWidth
	}
	availH := float64(t.CanvasHeight) - plotY - t.Margin

	gw, gh := float64(s.Grid.Width), float64(s.Grid.Height)
	f.cell = availW / gw
	if h := availH / gh; h < f.cell {
		f.cell = h
	}

	f.gridW = f.cell * gw
	f.gridH = f.cell * gh
	f.gridX = plotX
	f.gridY = plotY + (availH-f.gridH)/2
	f.line = t.lineWidth(s.Grid.Width, s.Grid.Height)

	f.titleX = plotX
	f.titleY = t.Margin + t.TitleSize*0.75

	f.legendX = f.gridX + f.gridW + t.Margin
	f.legendY = f.gridY + t.LegendSize
	return f
}
