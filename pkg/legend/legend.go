// Package legend builds legend entries for waffle charts.
package legend

import (
	"fmt"
	"strconv"

	"github.com/waffleviz/waffle/pkg/waffle"
)

// Options controls how entry labels are decorated.
type Options struct {
	// ShowValues appends the raw value to each label.
	ShowValues bool `json:"show_values"`

	// ShowPercents appends the category's share of the total, to two
	// decimal places.
	ShowPercents bool `json:"show_percents"`

	// ValueSign decorates the raw value, e.g. "%" or "$". A percent sign
	// follows the value, anything else precedes it.
	ValueSign string `json:"value_sign,omitempty"`
}

// Entry is one legend line. Index points into the allocation's sorted
// category slice so renderers can look up the matching swatch color.
type Entry struct {
	Label string `json:"label"`
	Index int    `json:"index"`
}

// Build renders one entry per category, in sorted order. Categories and
// proportions come from an allocation and must be aligned.
//
// Label shapes, depending on which options are set:
//
//	neither          Espresso
//	values           Espresso (4500%) or Espresso ($4500)
//	percents         Espresso (45.00%)
//	values+percents  Espresso: 4500% (45.00%) or Espresso: $4500 (45.00%)
func Build(categories []waffle.Category, proportions []float64, opts Options) []Entry {
	entries := make([]Entry, len(categories))
	for i, c := range categories {
		p := 0.0
		if i < len(proportions) {
			p = proportions[i]
		}
		entries[i] = Entry{Label: format(c, p, opts), Index: i}
	}
	return entries
}

func format(c waffle.Category, proportion float64, opts Options) string {
	value := strconv.FormatFloat(c.Value, 'f', -1, 64)
	percent := fmt.Sprintf("%.2f%%", proportion*100)

	switch {
	case opts.ShowValues && opts.ShowPercents:
		if opts.ValueSign == "%" {
			return fmt.Sprintf("%s: %s%% (%s)", c.Label, value, percent)
		}
		return fmt.Sprintf("%s: %s%s (%s)", c.Label, opts.ValueSign, value, percent)
	case opts.ShowValues:
		if opts.ValueSign == "%" {
			return fmt.Sprintf("%s (%s%%)", c.Label, value)
		}
		return fmt.Sprintf("%s (%s%s)", c.Label, opts.ValueSign, value)
	case opts.ShowPercents:
		return fmt.Sprintf("%s (%s)", c.Label, percent)
	default:
		return c.Label
	}
}
