package normalizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroSentinel/internal/model"
)

// constant returns a daily series holding v on every day of [from, to].
func constant(name, from, to string, v float64) model.DailySeries {
	start := day(from)
	n := model.DaysBetween(start, day(to)) + 1
	values := make([]float64, n)
	for i := range values {
		values[i] = v
	}
	return model.DailySeries{Name: name, Start: start, Values: values}
}

func segment(source, start, end string, s model.DailySeries) model.SourceSegment {
	seg := model.SourceSegment{Source: source, Series: s}
	if start != "" {
		seg.Start = day(start)
	}
	if end != "" {
		seg.End = day(end)
	}
	return seg
}

func TestStitch_DisjointWindows(t *testing.T) {
	// Every source has data well past its window; the windows decide.
	segs := []model.SourceSegment{
		segment("shiller", "", "1927-12-30", constant("SP500", "1927-01-01", "1930-01-01", 1)),
		segment("macrotrends", "1927-12-30", "2008-01-01", constant("SP500", "1927-12-30", "2010-01-01", 2)),
		segment("fred", "2008-01-01", "", constant("SP500", "2005-01-01", "2010-06-30", 3)),
	}

	ds, err := Stitch(segs)
	require.NoError(t, err)

	assert.Equal(t, "SP500", ds.Name)
	assert.Equal(t, day("1927-01-01"), ds.Start)
	assert.Equal(t, day("2010-06-30"), ds.End())

	checks := map[string]float64{
		"1927-01-01": 1,
		"1927-12-29": 1,
		"1927-12-30": 2,
		"2007-12-31": 2,
		"2008-01-01": 3,
		"2010-06-30": 3,
	}
	for d, want := range checks {
		got, ok := ds.At(day(d))
		require.True(t, ok, d)
		assert.Equal(t, want, got, d)
	}
}

func TestStitch_OverlapLaterSegmentWins(t *testing.T) {
	early := constant("SP500", "2000-01-01", "2000-01-31", 1)
	late := constant("SP500", "2000-01-20", "2000-02-10", 2)

	ds, err := Stitch([]model.SourceSegment{
		segment("macrotrends", "", "", early),
		segment("fred", "", "", late),
	})
	require.NoError(t, err)

	assert.Equal(t, day("2000-01-01"), ds.Start)
	assert.Equal(t, day("2000-02-10"), ds.End())
	for d := day("2000-01-01"); !d.After(ds.End()); d = d.AddDate(0, 0, 1) {
		got, _ := ds.At(d)
		if d.Before(day("2000-01-20")) {
			assert.Equal(t, 1.0, got, d.Format(model.DateLayout))
		} else {
			assert.Equal(t, 2.0, got, "earlier segment leaked into overlap on %s", d.Format(model.DateLayout))
		}
	}
}

func TestStitch_EarlierSegmentCutAtOverlap(t *testing.T) {
	// The later segment sits inside the earlier one; the earlier one stops
	// where the overlap starts and does not resume after it.
	outer := constant("T10Y2Y", "2000-01-01", "2000-12-31", 1)
	inner := constant("T10Y2Y", "2000-03-01", "2000-03-31", 2)

	ds, err := Stitch([]model.SourceSegment{
		segment("a", "", "", outer),
		segment("b", "", "", inner),
	})
	require.NoError(t, err)

	assert.Equal(t, day("2000-01-01"), ds.Start)
	assert.Equal(t, day("2000-03-31"), ds.End())
	v, _ := ds.At(day("2000-02-29"))
	assert.Equal(t, 1.0, v)
	v, _ = ds.At(day("2000-03-01"))
	assert.Equal(t, 2.0, v)
	_, ok := ds.At(day("2000-04-01"))
	assert.False(t, ok)
}

func TestStitch_LaterSegmentStartingEarlierReplacesOverlap(t *testing.T) {
	first := constant("VIXCLS", "2000-02-01", "2000-02-29", 1)
	second := constant("VIXCLS", "2000-01-01", "2000-02-15", 2)

	ds, err := Stitch([]model.SourceSegment{
		segment("a", "", "", first),
		segment("b", "", "", second),
	})
	require.NoError(t, err)

	// first overlaps second from its very first day, so nothing of it survives.
	assert.Equal(t, second, ds)
}

func TestStitch_CoverageGap(t *testing.T) {
	segs := []model.SourceSegment{
		segment("shiller", "", "", constant("SP500", "1920-01-01", "1927-12-01", 1)),
		segment("macrotrends", "", "", constant("SP500", "1927-12-30", "1930-01-01", 2)),
	}

	_, err := Stitch(segs)

	var gap *CoverageGapError
	require.ErrorAs(t, err, &gap)
	assert.Equal(t, day("1927-12-02"), gap.From)
	assert.Equal(t, day("1927-12-29"), gap.To)
}

func TestStitch_WindowOutsideData(t *testing.T) {
	segs := []model.SourceSegment{
		segment("fred", "2008-01-01", "", constant("SP500", "2010-01-01", "2010-01-10", 3)),
		segment("macrotrends", "", "2000-01-01", constant("SP500", "2005-01-01", "2006-01-01", 2)),
	}

	ds, err := Stitch(segs)
	require.NoError(t, err)
	assert.Equal(t, day("2010-01-01"), ds.Start)
	assert.Equal(t, 10, ds.Len())
}

func TestStitch_Errors(t *testing.T) {
	t.Run("no segments", func(t *testing.T) {
		_, err := Stitch(nil)
		var empty *EmptyInputError
		assert.ErrorAs(t, err, &empty)
	})

	t.Run("no coverage", func(t *testing.T) {
		_, err := Stitch([]model.SourceSegment{
			segment("fred", "2020-01-01", "2021-01-01", constant("SP500", "2010-01-01", "2010-01-10", 1)),
		})
		var empty *EmptyInputError
		require.ErrorAs(t, err, &empty)
		assert.Equal(t, "SP500", empty.Series)
	})

	t.Run("mixed indicators", func(t *testing.T) {
		_, err := Stitch([]model.SourceSegment{
			segment("fred", "", "", constant("SP500", "2010-01-01", "2010-01-10", 1)),
			segment("fred", "", "", constant("VIXCLS", "2010-01-11", "2010-01-20", 1)),
		})
		assert.ErrorIs(t, err, ErrIndicatorMismatch)
	})
}

func TestStitch_SingleSegmentClipped(t *testing.T) {
	s := model.DailySeries{Name: "DFF", Start: day("2020-01-01"), Values: []float64{1, 2, 3, 4, 5}}

	ds, err := Stitch([]model.SourceSegment{{
		Source: "fred",
		Start:  time.Date(2020, 1, 2, 9, 0, 0, 0, time.UTC),
		End:    day("2020-01-05"),
		Series: s,
	}})
	require.NoError(t, err)
	assert.Equal(t, day("2020-01-02"), ds.Start)
	assert.Equal(t, []float64{2, 3, 4}, ds.Values)
}
