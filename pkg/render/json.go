package render

import (
	"encoding/json"

	"github.com/waffleviz/waffle/pkg/errors"
)

type jsonScene struct {
	Title      string         `json:"title,omitempty"`
	Background string         `json:"background"`
	Grid       jsonGrid       `json:"grid"`
	Categories []jsonCategory `json:"categories"`
}

type jsonGrid struct {
	Cells  [][]int `json:"cells"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

type jsonCategory struct {
	Label       string  `json:"label"`
	Value       float64 `json:"value"`
	TileColor   string  `json:"tile_color,omitempty"`
	SwatchColor string  `json:"swatch_color"`
	LegendLabel string  `json:"legend_label,omitempty"`
}

// JSON renders the resolved scene as a machine-readable document: cells,
// hex colors and legend labels, with no drawing geometry. External tools
// can restyle or re-render it without this package.
func JSON(s *Scene) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	legendLabels := make(map[int]string, len(s.Legend))
	for _, e := range s.Legend {
		legendLabels[e.Index] = e.Label
	}

	out := jsonScene{
		Title:      s.Title,
		Background: s.Background.Hex(),
		Grid: jsonGrid{
			Cells:  s.Grid.Cells,
			Width:  s.Grid.Width,
			Height: s.Grid.Height,
		},
		Categories: make([]jsonCategory, len(s.Categories)),
	}
	for i, c := range s.Categories {
		jc := jsonCategory{
			Label:       c.Label,
			Value:       c.Value,
			SwatchColor: s.swatchColor(i).Hex(),
			LegendLabel: legendLabels[i],
		}
		if i < len(s.TileColors) {
			jc.TileColor = s.TileColors[i].Hex()
		}
		out.Categories[i] = jc
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
	}
	return data, nil
}
