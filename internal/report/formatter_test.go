package report

import (
	"strings"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroSentinel/internal/model"
)

func sampleTable() model.CompositeTable {
	d := func(day int) time.Time { return time.Date(2020, 1, day, 0, 0, 0, 0, time.UTC) }
	return model.CompositeTable{
		Columns: []string{"SP500", "VIX"},
		Rows: []model.Row{
			{Date: d(1), Values: []null.Float{null.FloatFrom(100), {}}},
			{Date: d(2), Values: []null.Float{null.FloatFrom(100), null.FloatFrom(20)}},
			{Date: d(3), Values: []null.Float{null.FloatFrom(102.5), null.FloatFrom(20)}},
		},
	}
}

func fields(out string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		rows = append(rows, strings.Fields(line))
	}
	return rows
}

func TestFormatTail(t *testing.T) {
	got := FormatTail(sampleTable(), 2)
	assert.Equal(t, ""+
		"date        SP500  VIX\n"+
		"2020-01-02    100   20\n"+
		"2020-01-03  102.5   20\n", got)
}

func TestFormatTail_UnknownCellsAndShortTables(t *testing.T) {
	got := fields(FormatTail(sampleTable(), 10))
	require.Len(t, got, 4)
	assert.Equal(t, []string{"2020-01-01", "100", "-"}, got[1])

	assert.Equal(t, "date  SP500  VIX\n", FormatTail(sampleTable(), 0))
}

func TestFormatCoverage(t *testing.T) {
	got := fields(FormatCoverage(sampleTable()))
	assert.Equal(t, [][]string{
		{"column", "first", "last", "known", "of"},
		{"SP500", "2020-01-01", "2020-01-03", "3", "3"},
		{"VIX", "2020-01-02", "2020-01-03", "2", "3"},
	}, got)
}

func TestFormatChronology(t *testing.T) {
	got := fields(FormatChronology(model.RecessionChronology{Cycles: []model.BusinessCycle{
		{Trough: time.Date(1854, 12, 1, 0, 0, 0, 0, time.UTC)},
		{
			Peak:        time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC),
			Trough:      time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC),
			Contraction: 2,
			Expansion:   128,
		},
	}}))
	assert.Equal(t, [][]string{
		{"peak", "trough", "contraction", "expansion"},
		{"-", "1854-12", "0", "0"},
		{"2020-02", "2020-04", "2", "128"},
	}, got)
}
