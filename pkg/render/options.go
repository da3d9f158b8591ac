package render

// Option configures a sink.
type Option func(*config)

type config struct {
	theme Theme
	scale float64
}

func newConfig(opts ...Option) config {
	c := config{theme: DefaultTheme(), scale: 2.0}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithTheme overrides the default theme.
func WithTheme(t Theme) Option {
	return func(c *config) { c.theme = t }
}

// WithScale sets the raster scale factor for PNG output (default 2.0 for
// 2x resolution). Vector sinks ignore it.
func WithScale(s float64) Option {
	return func(c *config) {
		if s > 0 {
			c.scale = s
		}
	}
}
