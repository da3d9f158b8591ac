package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/waffleviz/waffle/pkg/waffle"
)

// FormatVersion is the current allocation document version.
const FormatVersion = 1

// Document bundles an allocation with the presentation metadata that
// travels alongside it between the allocate and render stages.
type Document struct {
	Title      string
	Allocation *waffle.Allocation
}

type allocationFile struct {
	Version     int               `json:"version"`
	Title       string            `json:"title,omitempty"`
	Categories  []waffle.Category `json:"categories"`
	Proportions []float64         `json:"proportions"`
	NonZero     int               `json:"non_zero"`
	Visible     int               `json:"visible"`
	ScaleSteps  int               `json:"scale_steps"`
	Vertical    bool              `json:"vertical"`
	Grid        gridFile          `json:"grid"`
}

type gridFile struct {
	Cells  [][]int `json:"cells"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

// WriteJSON encodes an allocation document and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(doc *Document, w io.Writer) error {
	a := doc.Allocation
	out := allocationFile{
		Version:     FormatVersion,
		Title:       doc.Title,
		Categories:  a.Categories,
		Proportions: a.Proportions,
		NonZero:     a.NonZero,
		Visible:     a.Visible,
		ScaleSteps:  a.ScaleSteps,
		Vertical:    a.Vertical,
		Grid: gridFile{
			Cells:  a.Grid.Cells,
			Width:  a.Grid.Width,
			Height: a.Grid.Height,
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes an allocation document to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(doc, f)
}
