package dataset

import (
	"github.com/BurntSushi/toml"

	"github.com/waffleviz/waffle/pkg/errors"
	"github.com/waffleviz/waffle/pkg/waffle"
)

type tomlDataset struct {
	Title      string         `toml:"title"`
	Categories []tomlCategory `toml:"category"`
}

type tomlCategory struct {
	Label string  `toml:"label"`
	Value float64 `toml:"value"`
}

// ParseTOML parses a TOML dataset:
//
//	title = "Browser market share"
//
//	[[category]]
//	label = "Chrome"
//	value = 65.1
//
//	[[category]]
//	label = "Safari"
//	value = 18.6
func ParseTOML(data []byte) (*Dataset, error) {
	var raw tomlDataset
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "parse TOML dataset")
	}

	d := &Dataset{
		Title:      raw.Title,
		Categories: make([]waffle.Category, len(raw.Categories)),
	}
	for i, c := range raw.Categories {
		d.Categories[i] = waffle.Category{Label: c.Label, Value: c.Value}
	}
	return d, nil
}
