package waffle

import "github.com/waffleviz/waffle/pkg/errors"

// Default allocation parameters.
const (
	// DefaultWidth is the grid width used when Options.Width is zero.
	DefaultWidth = 10

	// DefaultHeight is the grid height used when Options.Height is zero.
	DefaultHeight = 10

	// DefaultMaxScaleSteps caps how many times an allocation may grow the
	// grid before giving up with SCALE_LIMIT_EXCEEDED. Each step adds one
	// row and one column, so the cap also bounds memory for the cell matrix.
	DefaultMaxScaleSteps = 1000
)

// Options controls how a grid is allocated.
type Options struct {
	// Width and Height are the starting grid dimensions. Zero means the
	// package default (10x10). Autoscaling may grow both beyond these.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Vertical fills the grid column by column instead of row by row.
	Vertical bool `json:"vertical"`

	// Autoscale grows the grid by one row and one column at a time until
	// every category with a positive value occupies at least one tile.
	Autoscale bool `json:"autoscale"`

	// MaxScaleSteps bounds autoscale growth. Zero means DefaultMaxScaleSteps.
	MaxScaleSteps int `json:"max_scale_steps,omitempty"`
}

// DefaultOptions returns the recommended allocation options: a 10x10
// horizontal grid with autoscaling enabled.
func DefaultOptions() Options {
	return Options{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		Autoscale:     true,
		MaxScaleSteps: DefaultMaxScaleSteps,
	}
}

// setDefaults fills zero-value fields with package defaults.
func (o *Options) setDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.MaxScaleSteps == 0 {
		o.MaxScaleSteps = DefaultMaxScaleSteps
	}
}

// validate checks the options after defaults have been applied.
func (o *Options) validate() error {
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	if o.MaxScaleSteps < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max scale steps cannot be negative, got %d", o.MaxScaleSteps)
	}
	return nil
}
