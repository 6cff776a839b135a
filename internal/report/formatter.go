package report

import (
	"fmt"
	"strings"
	"time"

	"MacroSentinel/internal/model"
)

const unknownCell = "-"

// FormatTail renders the last n rows of the table as aligned plain text.
// Unknown cells are shown as "-".
func FormatTail(table model.CompositeTable, n int) string {
	rows := table.Rows
	if n >= 0 && n < len(rows) {
		rows = rows[len(rows)-n:]
	}

	header := append([]string{"date"}, table.Columns...)
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := make([]string, 0, len(header))
		line = append(line, r.Date.Format(model.DateLayout))
		for _, v := range r.Values {
			if !v.Valid {
				line = append(line, unknownCell)
				continue
			}
			line = append(line, fmt.Sprintf("%.4g", v.Float64))
		}
		cells = append(cells, line)
	}
	return align(header, cells)
}

// FormatCoverage lists, per column, the first and last dates with a known
// value and how many days are known.
func FormatCoverage(table model.CompositeTable) string {
	header := []string{"column", "first", "last", "known", "of"}
	cells := make([][]string, 0, len(table.Columns))
	for j, name := range table.Columns {
		first, last := unknownCell, unknownCell
		known := 0
		for _, r := range table.Rows {
			if !r.Values[j].Valid {
				continue
			}
			if known == 0 {
				first = r.Date.Format(model.DateLayout)
			}
			last = r.Date.Format(model.DateLayout)
			known++
		}
		cells = append(cells, []string{name, first, last, fmt.Sprint(known), fmt.Sprint(len(table.Rows))})
	}
	return align(header, cells)
}

// FormatChronology renders the business cycles, one per line.
func FormatChronology(chron model.RecessionChronology) string {
	header := []string{"peak", "trough", "contraction", "expansion"}
	cells := make([][]string, 0, len(chron.Cycles))
	for _, bc := range chron.Cycles {
		cells = append(cells, []string{
			monthLabel(bc.Peak),
			monthLabel(bc.Trough),
			fmt.Sprint(bc.Contraction),
			fmt.Sprint(bc.Expansion),
		})
	}
	return align(header, cells)
}

func monthLabel(d time.Time) string {
	if d.IsZero() {
		return unknownCell
	}
	return d.Format("2006-01")
}

// align pads every column to its widest cell, left-aligning the first
// column and right-aligning the rest.
func align(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for _, line := range append([][]string{header}, rows...) {
		for i, c := range line {
			if i < len(widths) && len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}

	var b strings.Builder
	for _, line := range append([][]string{header}, rows...) {
		for i, c := range line {
			if i >= len(widths) {
				break
			}
			if i > 0 {
				b.WriteString("  ")
				b.WriteString(strings.Repeat(" ", widths[i]-len(c)))
				b.WriteString(c)
				continue
			}
			b.WriteString(c)
			if len(line) > 1 {
				b.WriteString(strings.Repeat(" ", widths[i]-len(c)))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
