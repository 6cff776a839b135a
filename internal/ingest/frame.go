package ingest

import (
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"MacroSentinel/internal/model"
)

// DateFormatShiller reads Shiller-style decimal months: 1871.01 is January,
// 1871.1 is October.
const DateFormatShiller = "shiller"

// defaultDateLayouts are tried in order when a FrameSpec names no format.
var defaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"1/2/2006",
	"2006/01/02",
}

// FrameSpec describes a dated table in a workbook.
type FrameSpec struct {
	Name       string // frame name used in errors and logs
	Sheet      string // empty means the first sheet
	DateColumn string // header text of the date column
	DateFormat string // Go layout, DateFormatShiller, or empty for the defaults
}

// ReadFrame loads every headed column next to the date column of an xlsx
// sheet. The header row is the first row containing the date header. Cells
// that are not numeric (blank, NA, #N/A) become NaN; rows with a blank date
// are skipped and a date that cannot be read fails the load. Rows are sorted
// by date.
func ReadFrame(path string, spec FrameSpec) (model.Frame, error) {
	sheet, rows, err := readSheet(path, spec.Sheet, true)
	if err != nil {
		return model.Frame{}, err
	}
	header, _, ok := findHeader(rows, spec.DateColumn)
	if !ok {
		return model.Frame{}, fmt.Errorf("sheet %q: no header row with %q", sheet, spec.DateColumn)
	}

	type field struct {
		index int
		name  string
	}
	dateCol := -1
	var columns []field
	for j, h := range rows[header] {
		h = strings.TrimSpace(h)
		switch {
		case h == "":
		case dateCol < 0 && normalizeHeader(h) == normalizeHeader(spec.DateColumn):
			dateCol = j
		default:
			columns = append(columns, field{index: j, name: h})
		}
	}

	type record struct {
		date   time.Time
		values []float64
	}
	var records []record
	for i := header + 1; i < len(rows); i++ {
		raw := cell(rows[i], dateCol)
		if raw == "" {
			continue
		}
		d, err := parseDate(raw, spec.DateFormat)
		if err != nil {
			return model.Frame{}, fmt.Errorf("sheet %q row %d: %w", sheet, i+1, err)
		}
		rec := record{date: d, values: make([]float64, len(columns))}
		for k, c := range columns {
			rec.values[k] = parseNumber(cell(rows[i], c.index))
		}
		records = append(records, rec)
	}
	sort.SliceStable(records, func(a, b int) bool { return records[a].date.Before(records[b].date) })

	frame := model.Frame{
		Name:    spec.Name,
		Dates:   make([]time.Time, len(records)),
		Columns: make(map[string][]float64, len(columns)),
	}
	for k, c := range columns {
		if _, dup := frame.Columns[c.name]; dup {
			continue
		}
		values := make([]float64, len(records))
		for i, rec := range records {
			values[i] = rec.values[k]
		}
		frame.Columns[c.name] = values
	}
	for i, rec := range records {
		frame.Dates[i] = rec.date
	}

	log.Printf("[INFO] loaded %d rows x %d columns of %s from %s", len(records), len(frame.Columns), spec.Name, path)
	return frame, nil
}

func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parseDate(raw, format string) (time.Time, error) {
	switch format {
	case DateFormatShiller:
		return parseShillerDate(raw)
	case "":
		for _, layout := range defaultDateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return model.Day(t), nil
			}
		}
		if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 {
			t, err := excelize.ExcelDateToTime(serial, false)
			if err != nil {
				return time.Time{}, fmt.Errorf("date %q: %w", raw, err)
			}
			// Serials are floats; a midnight can come back a hair early.
			return model.Day(t.Round(time.Second)), nil
		}
		return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
	default:
		t, err := time.Parse(format, raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("date %q: %w", raw, err)
		}
		return model.Day(t), nil
	}
}

func parseShillerDate(raw string) (time.Time, error) {
	yearPart, monthPart, ok := strings.Cut(raw, ".")
	if !ok {
		return time.Time{}, fmt.Errorf("shiller date %q: missing month", raw)
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return time.Time{}, fmt.Errorf("shiller date %q: %w", raw, err)
	}
	if len(monthPart) == 1 {
		monthPart += "0"
	}
	month, err := strconv.Atoi(monthPart)
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("shiller date %q: bad month", raw)
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}
