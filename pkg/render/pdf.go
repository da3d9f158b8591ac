package render

// PDF renders the scene as a PDF by converting the SVG output.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func PDF(s *Scene, opts ...Option) ([]byte, error) {
	svg, err := SVG(s, opts...)
	if err != nil {
		return nil, err
	}
	return ToPDF(svg)
}
