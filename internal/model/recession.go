package model

import "time"

// BusinessCycle is one NBER turning-point pair. Durations are in months.
type BusinessCycle struct {
	Peak              time.Time // zero when the chronology starts at a trough
	Trough            time.Time
	PeakMonthNumber   int
	TroughMonthNumber int
	Contraction       int // peak to trough
	Expansion         int // previous trough to this peak
	TroughToTrough    int
	PeakToPeak        int
}

// RecessionChronology is the ordered list of business-cycle turning points.
type RecessionChronology struct {
	Cycles []BusinessCycle
}

// InRecession reports whether d falls between a peak and its trough.
func (c RecessionChronology) InRecession(d time.Time) bool {
	d = Day(d)
	for _, bc := range c.Cycles {
		if bc.Peak.IsZero() || bc.Trough.IsZero() {
			continue
		}
		if !d.Before(bc.Peak) && !d.After(bc.Trough) {
			return true
		}
	}
	return false
}
