package render

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/waffleviz/waffle/pkg/waffle"
)

const inkColor = "#1a1a1a"

// SVG renders the scene as an SVG document.
func SVG(s *Scene, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts...)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	f := computeFrame(s, cfg.theme)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(f.width, f.height)
	if s.Title != "" {
		canvas.Title(s.Title)
	}
	canvas.Rect(0, 0, f.width, f.height, "fill:white")

	drawTilesSVG(canvas, s, f)

	if s.Title != "" {
		canvas.Text(px(f.titleX), px(f.titleY), s.Title,
			fmt.Sprintf("font-family:%s;font-size:%.0fpx;font-weight:bold;fill:%s",
				cfg.theme.FontFamily, cfg.theme.TitleSize, inkColor))
	}
	drawLegendSVG(canvas, s, f, cfg.theme)

	canvas.End()
	return buf.Bytes(), nil
}

func drawTilesSVG(canvas *svg.SVG, s *Scene, f frame) {
	// The plot background shows through as gridlines between tiles and
	// fills any cells the allocation left unoccupied.
	canvas.Rect(px(f.gridX), px(f.gridY), px(f.gridW), px(f.gridH),
		fmt.Sprintf("fill:%s", s.Background.Hex()))

	for row := 0; row < s.Grid.Height; row++ {
		for col := 0; col < s.Grid.Width; col++ {
			idx := s.Grid.Cells[row][col]
			if idx == waffle.Background {
				continue
			}

			// Telescoping pixel edges keep rounding drift out of the
			// tile seams.
			x0 := px(f.gridX + float64(col)*f.cell)
			x1 := px(f.gridX + float64(col+1)*f.cell)
			y0 := px(f.gridY + float64(row)*f.cell)
			y1 := px(f.gridY + float64(row+1)*f.cell)

			canvas.Rect(x0, y0, x1-x0, y1-y0,
				fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%.1f",
					s.tileColor(idx).Hex(), s.Background.Hex(), f.line))
		}
	}
}

func drawLegendSVG(canvas *svg.SVG, s *Scene, f frame, t Theme) {
	textStyle := fmt.Sprintf("font-family:%s;font-size:%.0fpx;fill:%s",
		t.FontFamily, t.LegendSize, inkColor)

	for i, e := range s.Legend {
		y := f.legendY + float64(i)*t.LegendSpacing
		swatchTop := y - t.SwatchSize + 2

		canvas.Rect(px(f.legendX), px(swatchTop), px(t.SwatchSize), px(t.SwatchSize),
			fmt.Sprintf("fill:%s", s.swatchColor(e.Index).Hex()))
		canvas.Text(px(f.legendX+t.SwatchSize+8), px(y), e.Label, textStyle)
	}
}

// px rounds a logical coordinate to a whole SVG pixel.
func px(v float64) int {
	return int(math.Round(v))
}
