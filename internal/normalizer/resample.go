package normalizer

import (
	"fmt"
	"math"
	"sort"

	"MacroSentinel/internal/model"
)

// ResampleDaily converts a series of any native frequency into one value per
// calendar day between its first and last observation. Each observation is
// carried forward until the next one; nothing is filled before the first.
func ResampleDaily(ts model.TimeSeries) (model.DailySeries, error) {
	obs := ts.Observations
	if len(obs) == 0 {
		return model.DailySeries{}, &EmptyInputError{Series: ts.Name}
	}

	first := model.Day(obs[0].Date)
	prev := first
	for _, o := range obs[1:] {
		d := model.Day(o.Date)
		if !d.After(prev) {
			return model.DailySeries{}, fmt.Errorf("%w: %s at %s", ErrUnordered, ts.Name, d.Format(model.DateLayout))
		}
		prev = d
	}

	n := model.DaysBetween(first, prev) + 1
	values := make([]float64, n)
	for i, o := range obs {
		from := model.DaysBetween(first, model.Day(o.Date))
		to := n
		if i+1 < len(obs) {
			to = model.DaysBetween(first, model.Day(obs[i+1].Date))
		}
		for j := from; j < to; j++ {
			values[j] = o.Value
		}
	}

	return model.DailySeries{Name: ts.Name, Start: first, Values: values}, nil
}

// ResampleFrame selects one column of a multi-column input and resamples it.
// The selector may be empty only when the frame has exactly one column.
// NaN cells are treated as missing observations.
func ResampleFrame(f model.Frame, column string) (model.DailySeries, error) {
	names := make([]string, 0, len(f.Columns))
	for name := range f.Columns {
		names = append(names, name)
	}
	sort.Strings(names)

	if column == "" {
		if len(names) != 1 {
			return model.DailySeries{}, &UnsupportedShapeError{Input: f.Name, Columns: names}
		}
		column = names[0]
	}
	values, ok := f.Columns[column]
	if !ok {
		return model.DailySeries{}, &UnsupportedShapeError{Input: f.Name, Column: column, Columns: names}
	}
	if len(values) != len(f.Dates) {
		return model.DailySeries{}, fmt.Errorf("frame %q column %q: %d values for %d dates",
			f.Name, column, len(values), len(f.Dates))
	}

	ts := model.TimeSeries{Name: column, Frequency: model.FrequencyIrregular}
	for i, d := range f.Dates {
		if math.IsNaN(values[i]) {
			continue
		}
		ts.Observations = append(ts.Observations, model.Observation{Date: d, Value: values[i]})
	}
	return ResampleDaily(ts)
}
