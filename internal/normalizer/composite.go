package normalizer

import (
	"fmt"

	"github.com/guregu/null/v6"

	"MacroSentinel/internal/model"
)

// BuildComposite outer-joins daily series onto the requested date axis.
//
// The rows are exactly the days of the axis, in order, even where no series
// has data; values outside the axis are dropped. A cell with no value from its
// series is left unknown. Columns follow the input order.
func BuildComposite(series []model.DailySeries, axis model.DateAxis) (model.CompositeTable, error) {
	start, end := model.Day(axis.Start), model.Day(axis.End)
	if end.Before(start) {
		return model.CompositeTable{}, fmt.Errorf("%w: %s > %s", ErrInvalidAxis,
			start.Format(model.DateLayout), end.Format(model.DateLayout))
	}

	seen := make(map[string]struct{}, len(series))
	columns := make([]string, len(series))
	for i, s := range series {
		if _, dup := seen[s.Name]; dup {
			return model.CompositeTable{}, &DuplicateIndicatorError{Name: s.Name}
		}
		seen[s.Name] = struct{}{}
		columns[i] = s.Name
	}

	n := model.DaysBetween(start, end) + 1
	rows := make([]model.Row, n)
	cells := make([]null.Float, n*len(series))
	for i := range rows {
		rows[i] = model.Row{
			Date:   start.AddDate(0, 0, i),
			Values: cells[i*len(series) : (i+1)*len(series) : (i+1)*len(series)],
		}
	}

	for col, s := range series {
		if s.Len() == 0 {
			continue
		}
		offset := model.DaysBetween(start, s.Start)
		for k, v := range s.Values {
			i := offset + k
			if i < 0 {
				continue
			}
			if i >= n {
				break
			}
			rows[i].Values[col] = null.FloatFrom(v)
		}
	}

	return model.CompositeTable{Columns: columns, Rows: rows}, nil
}
