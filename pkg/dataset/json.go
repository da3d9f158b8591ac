package dataset

import (
	"encoding/json"

	"github.com/waffleviz/waffle/pkg/errors"
)

// ParseJSON parses a JSON dataset:
//
//	{
//	  "title": "Browser market share",
//	  "categories": [
//	    {"label": "Chrome", "value": 65.1},
//	    {"label": "Safari", "value": 18.6}
//	  ]
//	}
func ParseJSON(data []byte) (*Dataset, error) {
	var d Dataset
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "parse JSON dataset")
	}
	return &d, nil
}
