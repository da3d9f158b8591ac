package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/waffleviz/waffle/pkg/errors"
	"github.com/waffleviz/waffle/pkg/waffle"
)

// ReadJSON decodes an allocation document from r.
//
// ReadJSON returns an error if:
//   - The JSON is malformed
//   - The document version is unsupported
//   - The grid dimensions do not match the cell matrix
//   - A cell holds anything other than a category index or background
//
// The returned document is independent of r and can be modified safely
// after ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var data allocationFile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode allocation document")
	}

	if data.Version != FormatVersion {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"unsupported allocation document version %d (expected %d)", data.Version, FormatVersion)
	}

	if err := validate(&data); err != nil {
		return nil, err
	}

	return &Document{
		Title: data.Title,
		Allocation: &waffle.Allocation{
			Categories:  data.Categories,
			Proportions: data.Proportions,
			NonZero:     data.NonZero,
			Visible:     data.Visible,
			ScaleSteps:  data.ScaleSteps,
			Vertical:    data.Vertical,
			Grid: &waffle.Grid{
				Cells:  data.Grid.Cells,
				Width:  data.Grid.Width,
				Height: data.Grid.Height,
			},
		},
	}, nil
}

// ImportJSON reads an allocation document from a JSON file at path.
// This is a convenience wrapper around [ReadJSON] for file-based input.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "allocation document %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func validate(data *allocationFile) error {
	g := data.Grid
	if g.Height != len(g.Cells) {
		return errors.New(errors.ErrCodeInvalidInput,
			"grid height %d does not match %d cell rows", g.Height, len(g.Cells))
	}
	for row, cells := range g.Cells {
		if g.Width != len(cells) {
			return errors.New(errors.ErrCodeInvalidInput,
				"grid width %d does not match %d cells in row %d", g.Width, len(cells), row)
		}
		for col, idx := range cells {
			if idx != waffle.Background && (idx < 0 || idx >= len(data.Categories)) {
				return errors.New(errors.ErrCodeInvalidInput,
					"cell[%d][%d] holds invalid category index %d", row, col, idx)
			}
		}
	}
	if len(data.Proportions) != len(data.Categories) {
		return errors.New(errors.ErrCodeInvalidInput,
			"%d proportions for %d categories", len(data.Proportions), len(data.Categories))
	}
	return nil
}
