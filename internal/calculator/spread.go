package calculator

import (
	"MacroSentinel/internal/model"
	"MacroSentinel/internal/normalizer"
)

// Difference returns a - b for every day both series cover, e.g. the
// unemployment gap as the unemployment rate minus its natural rate.
func Difference(name string, a, b model.DailySeries) (model.DailySeries, error) {
	if a.Len() == 0 || b.Len() == 0 {
		return model.DailySeries{}, &normalizer.EmptyInputError{Series: name}
	}
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End()
	if b.End().Before(end) {
		end = b.End()
	}
	if end.Before(start) {
		return model.DailySeries{}, &normalizer.EmptyInputError{Series: name}
	}

	n := model.DaysBetween(start, end) + 1
	offA := model.DaysBetween(a.Start, start)
	offB := model.DaysBetween(b.Start, start)
	out := model.DailySeries{Name: name, Start: start, Values: make([]float64, n)}
	for i := 0; i < n; i++ {
		out.Values[i] = a.Values[offA+i] - b.Values[offB+i]
	}
	return out, nil
}
