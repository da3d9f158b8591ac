package palette

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/waffleviz/waffle/pkg/errors"
)

// Colormap maps positions in [0, 1] to colors. Continuous maps interpolate
// linearly between their stops; qualitative maps treat the stops as a fixed
// series and never blend.
type Colormap struct {
	Name        string
	Stops       []colorful.Color
	Qualitative bool
}

// At returns the color at position t. Values outside [0, 1] are clamped.
// Qualitative maps return the nearest stop.
func (m Colormap) At(t float64) colorful.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	if len(m.Stops) == 1 {
		return m.Stops[0]
	}

	pos := t * float64(len(m.Stops)-1)
	i := int(pos)
	if i >= len(m.Stops)-1 {
		return m.Stops[len(m.Stops)-1]
	}
	if m.Qualitative {
		if pos-float64(i) >= 0.5 {
			return m.Stops[i+1]
		}
		return m.Stops[i]
	}
	return m.Stops[i].BlendRgb(m.Stops[i+1], pos-float64(i))
}

// Resample returns n colors drawn from the map. Continuous maps sample at
// evenly spaced positions including both ends. Qualitative maps hand out
// their stops in order and cycle when n exceeds the series length.
func (m Colormap) Resample(n int) []colorful.Color {
	if n <= 0 {
		return nil
	}

	out := make([]colorful.Color, n)
	if m.Qualitative {
		for i := range out {
			out[i] = m.Stops[i%len(m.Stops)]
		}
		return out
	}
	if n == 1 {
		out[0] = m.At(0)
		return out
	}
	for i := range out {
		out[i] = m.At(float64(i) / float64(n-1))
	}
	return out
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Perceptually uniform sequential maps, sampled at eleven evenly spaced
// stops of the reference tables.
var (
	// Viridis is the default colormap.
	Viridis = Colormap{
		Name: "viridis",
		Stops: []colorful.Color{
			rgb(68, 1, 84),
			rgb(72, 35, 116),
			rgb(64, 67, 135),
			rgb(52, 94, 141),
			rgb(41, 120, 142),
			rgb(32, 144, 140),
			rgb(34, 167, 132),
			rgb(68, 190, 112),
			rgb(121, 209, 81),
			rgb(189, 222, 38),
			rgb(253, 231, 37),
		},
	}

	Plasma = Colormap{
		Name: "plasma",
		Stops: []colorful.Color{
			rgb(13, 8, 135),
			rgb(70, 3, 159),
			rgb(114, 1, 168),
			rgb(156, 23, 158),
			rgb(189, 55, 134),
			rgb(216, 87, 107),
			rgb(237, 121, 83),
			rgb(250, 159, 58),
			rgb(253, 201, 38),
			rgb(240, 249, 33),
		},
	}

	Cividis = Colormap{
		Name: "cividis",
		Stops: []colorful.Color{
			rgb(0, 34, 78),
			rgb(18, 53, 112),
			rgb(59, 73, 108),
			rgb(87, 93, 109),
			rgb(112, 113, 115),
			rgb(138, 134, 120),
			rgb(165, 156, 116),
			rgb(195, 179, 105),
			rgb(225, 204, 85),
			rgb(254, 232, 56),
		},
	}
)

// Qualitative series for categorical data.
var (
	Tab10 = Colormap{
		Name:        "tab10",
		Qualitative: true,
		Stops: []colorful.Color{
			rgb(31, 119, 180),
			rgb(255, 127, 14),
			rgb(44, 160, 44),
			rgb(214, 39, 40),
			rgb(148, 103, 189),
			rgb(140, 86, 75),
			rgb(227, 119, 194),
			rgb(127, 127, 127),
			rgb(188, 189, 34),
			rgb(23, 190, 207),
		},
	}

	// Tol is Paul Tol's bright qualitative scheme, safe for most kinds of
	// color vision deficiency.
	Tol = Colormap{
		Name:        "tol",
		Qualitative: true,
		Stops: []colorful.Color{
			rgb(68, 119, 170),
			rgb(238, 102, 119),
			rgb(34, 136, 51),
			rgb(204, 187, 68),
			rgb(102, 204, 238),
			rgb(170, 51, 119),
			rgb(187, 187, 187),
		},
	}
)

// Default is the colormap used when nothing else is configured.
var Default = Viridis

var byName = map[string]Colormap{
	"viridis": Viridis,
	"plasma":  Plasma,
	"cividis": Cividis,
	"tab10":   Tab10,
	"tol":     Tol,
}

// ByName looks up a built-in colormap. Unknown names are INVALID_PALETTE.
func ByName(name string) (Colormap, error) {
	if name == "" {
		return Default, nil
	}
	m, ok := byName[name]
	if !ok {
		return Colormap{}, errors.New(errors.ErrCodeInvalidPalette, "unknown palette: %q (have %s)", name, Names())
	}
	return m, nil
}

// Names returns the built-in colormap names in alphabetical order.
func Names() []string {
	return []string{"cividis", "plasma", "tab10", "tol", "viridis"}
}
