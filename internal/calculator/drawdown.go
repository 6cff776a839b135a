package calculator

import (
	"errors"
	"fmt"
	"time"

	"MacroSentinel/internal/model"
)

// DrawdownFromPeak returns, for every day of s, how far the value sits below
// the highest value seen over the trailing window of the given months
// (0 at a new high, -0.2 at 20% below it).
func DrawdownFromPeak(name string, s model.DailySeries, months int) (model.DailySeries, error) {
	if months <= 0 {
		return model.DailySeries{}, errors.New("months must be positive")
	}
	if s.Len() == 0 {
		return model.DailySeries{}, fmt.Errorf("drawdown of %q: no data", s.Name)
	}

	out := model.DailySeries{Name: name, Start: s.Start, Values: make([]float64, s.Len())}

	// Indices into s.Values with strictly decreasing values; the front is the window high.
	var deque []int
	for i, v := range s.Values {
		day := s.Start.AddDate(0, 0, i)
		from := model.DaysBetween(s.Start, monthsBefore(day, months))

		for len(deque) > 0 && s.Values[deque[len(deque)-1]] <= v {
			deque = deque[:len(deque)-1]
		}
		deque = append(deque, i)
		for deque[0] < from {
			deque = deque[1:]
		}

		high := s.Values[deque[0]]
		if high <= 0 {
			return model.DailySeries{}, fmt.Errorf("drawdown of %q: non-positive high %.4f on %s",
				s.Name, high, day.Format(model.DateLayout))
		}
		out.Values[i] = v/high - 1
	}
	return out, nil
}

// monthsBefore steps back whole calendar months, clamping to the end of a
// shorter target month (2021-03-31 minus one month is 2021-02-28). The result
// never decreases as d advances.
func monthsBefore(d time.Time, months int) time.Time {
	y, m, dd := d.Date()
	first := time.Date(y, m-time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := first.AddDate(0, 1, -1).Day(); dd > last {
		dd = last
	}
	return first.AddDate(0, 0, dd-1)
}
