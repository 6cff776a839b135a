package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// DateLayout is the canonical calendar-day format used in logs and reports.
const DateLayout = "2006-01-02"

// Frequency is the native reporting cadence of a raw indicator.
type Frequency string

const (
	FrequencyDaily     Frequency = "D"
	FrequencyWeekly    Frequency = "W"
	FrequencyMonthly   Frequency = "M"
	FrequencyQuarterly Frequency = "Q"
	FrequencyAnnual    Frequency = "A"
	FrequencyIrregular Frequency = "IRR"
)

// ParseFrequency maps a provider short code ("D", "W", "BW", "M", "Q", "A") to a Frequency.
func ParseFrequency(code string) Frequency {
	switch code {
	case "D":
		return FrequencyDaily
	case "W", "BW":
		return FrequencyWeekly
	case "M":
		return FrequencyMonthly
	case "Q":
		return FrequencyQuarterly
	case "A":
		return FrequencyAnnual
	default:
		return FrequencyIrregular
	}
}

// Observation is a single dated value.
type Observation struct {
	Date  time.Time
	Value float64
}

// TimeSeries holds one named numeric series at its native frequency.
// Dates are strictly increasing and unique.
type TimeSeries struct {
	Name         string
	Frequency    Frequency
	Observations []Observation
}

// Frame is a multi-column tabular input sharing one date column.
type Frame struct {
	Name    string
	Dates   []time.Time
	Columns map[string][]float64
}

// DailySeries holds exactly one value per calendar day, starting at Start.
type DailySeries struct {
	Name   string
	Start  time.Time
	Values []float64
}

// Len returns the number of days covered.
func (s DailySeries) Len() int { return len(s.Values) }

// End returns the last covered day, or the zero time for an empty series.
func (s DailySeries) End() time.Time {
	if len(s.Values) == 0 {
		return time.Time{}
	}
	return s.Start.AddDate(0, 0, len(s.Values)-1)
}

// At returns the value on the given day.
func (s DailySeries) At(d time.Time) (float64, bool) {
	if len(s.Values) == 0 {
		return 0, false
	}
	i := DaysBetween(s.Start, Day(d))
	if i < 0 || i >= len(s.Values) {
		return 0, false
	}
	return s.Values[i], true
}

// TimeSeries expands the series back into daily observations.
func (s DailySeries) TimeSeries() TimeSeries {
	obs := make([]Observation, len(s.Values))
	for i, v := range s.Values {
		obs[i] = Observation{Date: s.Start.AddDate(0, 0, i), Value: v}
	}
	return TimeSeries{Name: s.Name, Frequency: FrequencyDaily, Observations: obs}
}

// SourceSegment binds a daily series to the window [Start, End) during which
// its source is authoritative. A zero Start or End leaves that side open.
type SourceSegment struct {
	Source string
	Start  time.Time
	End    time.Time
	Series DailySeries
}

// DateAxis is an inclusive range of calendar days.
type DateAxis struct {
	Start time.Time
	End   time.Time
}

// Row is one date of a CompositeTable. Values line up with the table's Columns;
// an invalid null.Float means the indicator is unknown on that date.
type Row struct {
	Date   time.Time
	Values []null.Float
}

// CompositeTable is a wide, strictly chronological table of daily indicators.
type CompositeTable struct {
	Columns []string
	Rows    []Row
}

// Value returns the cell for a date and column. The bool is false when the
// date or column is outside the table.
func (t CompositeTable) Value(date time.Time, column string) (null.Float, bool) {
	col := -1
	for i, c := range t.Columns {
		if c == column {
			col = i
			break
		}
	}
	if col < 0 || len(t.Rows) == 0 {
		return null.Float{}, false
	}
	i := DaysBetween(t.Rows[0].Date, Day(date))
	if i < 0 || i >= len(t.Rows) {
		return null.Float{}, false
	}
	return t.Rows[i].Values[col], true
}

// Day truncates t to its calendar day, expressed at UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b. Both must be UTC midnights.
func DaysBetween(a, b time.Time) int {
	return int((b.Unix() - a.Unix()) / 86400)
}
