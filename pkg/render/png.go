package render

import (
	"bytes"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/waffleviz/waffle/pkg/errors"
	"github.com/waffleviz/waffle/pkg/fonts"
	"github.com/waffleviz/waffle/pkg/waffle"
)

var ink = color.RGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}

// PNG renders the scene as a PNG image. The raster is scaled by the
// configured scale factor (default 2x) while keeping the theme's logical
// geometry, so PNG output lines up with the SVG sink.
func PNG(s *Scene, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts...)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	f := computeFrame(s, cfg.theme)

	dc := gg.NewContext(int(float64(f.width)*cfg.scale), int(float64(f.height)*cfg.scale))
	dc.Scale(cfg.scale, cfg.scale)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	drawTilesPNG(dc, s, f)

	if s.Title != "" {
		face, err := fonts.Face(cfg.theme.TitleSize)
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(face)
		dc.SetColor(ink)
		dc.DrawString(s.Title, f.titleX, f.titleY)
	}

	if len(s.Legend) > 0 {
		if err := drawLegendPNG(dc, s, f, cfg.theme); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode PNG")
	}
	return buf.Bytes(), nil
}

func drawTilesPNG(dc *gg.Context, s *Scene, f frame) {
	dc.SetColor(s.Background)
	dc.DrawRectangle(f.gridX, f.gridY, f.gridW, f.gridH)
	dc.Fill()

	for row := 0; row < s.Grid.Height; row++ {
		for col := 0; col < s.Grid.Width; col++ {
			idx := s.Grid.Cells[row][col]
			if idx == waffle.Background {
				continue
			}

			x := f.gridX + float64(col)*f.cell
			y := f.gridY + float64(row)*f.cell
			dc.DrawRectangle(x, y, f.cell, f.cell)
			dc.SetColor(s.tileColor(idx))
			dc.FillPreserve()
			dc.SetColor(s.Background)
			dc.SetLineWidth(f.line)
			dc.Stroke()
		}
	}
}

func drawLegendPNG(dc *gg.Context, s *Scene, f frame, t Theme) error {
	face, err := fonts.Face(t.LegendSize)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)

	for i, e := range s.Legend {
		y := f.legendY + float64(i)*t.LegendSpacing
		swatchTop := y - t.SwatchSize + 2

		dc.SetColor(s.swatchColor(e.Index))
		dc.DrawRectangle(f.legendX, swatchTop, t.SwatchSize, t.SwatchSize)
		dc.Fill()

		dc.SetColor(ink)
		dc.DrawString(e.Label, f.legendX+t.SwatchSize+8, y)
	}
	return nil
}
