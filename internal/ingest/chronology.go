package ingest

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"MacroSentinel/internal/model"
)

// NBER chronology headers.
const (
	colPeak              = "Peak month"
	colTrough            = "Trough month"
	colPeakNumber        = "Peak month number"
	colTroughNumber      = "Trough month number"
	colContraction       = "Duration, peak to trough"
	colExpansion         = "Duration, trough to peak"
	colTroughToTrough    = "Duration, trough to trough"
	colPeakToPeak        = "Duration, peak to peak"
	monthLabelLayout     = "January 2006"
	monthLabelTrimCutset = "*†  "
)

// ReadChronology loads the NBER business-cycle workbook. The header row is
// found by its "Peak month" and "Trough month" headers; rows are read until
// the first one with neither label. Month labels such as "November 1948" are
// read as the first of that month; labels that do not parse are left unknown.
func ReadChronology(path string) (model.RecessionChronology, error) {
	sheet, rows, err := readSheet(path, "", false)
	if err != nil {
		return model.RecessionChronology{}, err
	}
	header, cols, ok := findHeader(rows, colPeak, colTrough)
	if !ok {
		return model.RecessionChronology{}, fmt.Errorf("sheet %q: no %q/%q header row", sheet, colPeak, colTrough)
	}

	var chron model.RecessionChronology
	for i := header + 1; i < len(rows); i++ {
		row := rows[i]
		peakLabel := cell(row, column(cols, colPeak))
		troughLabel := cell(row, column(cols, colTrough))
		if peakLabel == "" && troughLabel == "" {
			break
		}

		bc := model.BusinessCycle{
			Peak:   parseMonthLabel(peakLabel),
			Trough: parseMonthLabel(troughLabel),
		}
		ints := []struct {
			header string
			dst    *int
		}{
			{colPeakNumber, &bc.PeakMonthNumber},
			{colTroughNumber, &bc.TroughMonthNumber},
			{colContraction, &bc.Contraction},
			{colExpansion, &bc.Expansion},
			{colTroughToTrough, &bc.TroughToTrough},
			{colPeakToPeak, &bc.PeakToPeak},
		}
		for _, f := range ints {
			n, err := parseCount(cell(row, column(cols, f.header)))
			if err != nil {
				return model.RecessionChronology{}, fmt.Errorf("sheet %q row %d %q: %w", sheet, i+1, f.header, err)
			}
			*f.dst = n
		}
		chron.Cycles = append(chron.Cycles, bc)
	}

	log.Printf("[INFO] loaded %d business cycles from %s", len(chron.Cycles), path)
	return chron, nil
}

func column(cols map[string]int, header string) int {
	if i, ok := cols[normalizeHeader(header)]; ok {
		return i
	}
	return -1
}

func parseMonthLabel(label string) time.Time {
	label = strings.Trim(label, monthLabelTrimCutset)
	if label == "" {
		return time.Time{}
	}
	t, err := time.Parse(monthLabelLayout, strings.Join(strings.Fields(label), " "))
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseCount(s string) (int, error) {
	s = strings.Trim(s, monthLabelTrimCutset)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return int(f), nil
}
