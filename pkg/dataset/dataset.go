// Package dataset loads category data for waffle charts from TOML, JSON,
// and CSV sources, local or remote.
package dataset

import (
	"context"
	"math"
	"strings"

	"github.com/waffleviz/waffle/pkg/errors"
	"github.com/waffleviz/waffle/pkg/waffle"
)

// Dataset is a titled collection of categories, the input to an allocation.
type Dataset struct {
	Title      string            `json:"title,omitempty"`
	Categories []waffle.Category `json:"categories"`
}

// Validate checks the dataset for structural problems. Negative values are
// allowed; the allocator excludes them from tiling but keeps them in the
// legend.
func (d *Dataset) Validate() error {
	if len(d.Categories) == 0 {
		return errors.New(errors.ErrCodeInvalidDataset, "dataset has no categories")
	}
	for i, c := range d.Categories {
		if err := errors.ValidateLabel(c.Label); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDataset, err, "category %d", i)
		}
		if math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
			return errors.New(errors.ErrCodeInvalidDataset, "category %q has non-finite value", c.Label)
		}
	}
	return nil
}

// Labels returns the category labels in dataset order.
func (d *Dataset) Labels() []string {
	labels := make([]string, len(d.Categories))
	for i, c := range d.Categories {
		labels[i] = c.Label
	}
	return labels
}

// Parse decodes and validates raw dataset bytes. The format can be given
// with or without the leading dot ("toml" or ".toml").
func Parse(data []byte, format string) (*Dataset, error) {
	var d *Dataset
	var err error
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "toml":
		d, err = ParseTOML(data)
	case "json":
		d, err = ParseJSON(data)
	case "csv":
		d, err = ParseCSV(data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported dataset format %q (use .toml, .json or .csv)", format)
	}
	if err != nil {
		return nil, err
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Load reads and validates a dataset from a file path or HTTP(S) URL,
// detecting the format from the extension (.toml, .json, .csv). Remote
// fetches run with a background context; prefer [LoadSource] when a
// context is available.
func Load(path string) (*Dataset, error) {
	return LoadSource(context.Background(), path)
}
