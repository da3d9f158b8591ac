package dataset

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/waffleviz/waffle/pkg/errors"
	"github.com/waffleviz/waffle/pkg/waffle"
)

// ParseCSV parses a two-column CSV dataset of label,value rows. An
// optional "label,value" header row is skipped. CSV carries no title.
//
//	label,value
//	Chrome,65.1
//	Safari,18.6
func ParseCSV(data []byte) (*Dataset, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = 2
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "parse CSV dataset")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDataset, "empty CSV dataset")
	}

	if isHeader(records[0]) {
		records = records[1:]
	}

	d := &Dataset{Categories: make([]waffle.Category, len(records))}
	for i, rec := range records {
		value, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "row %d: invalid value %q", i+1, rec[1])
		}
		d.Categories[i] = waffle.Category{Label: strings.TrimSpace(rec[0]), Value: value}
	}
	return d, nil
}

func isHeader(rec []string) bool {
	return strings.EqualFold(strings.TrimSpace(rec[0]), "label") &&
		strings.EqualFold(strings.TrimSpace(rec[1]), "value")
}
