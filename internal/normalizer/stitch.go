package normalizer

import (
	"fmt"
	"sort"
	"time"

	"MacroSentinel/internal/model"
)

// window is a half-open range of days [start, end) taken from one segment.
type window struct {
	seg        int
	start, end time.Time
}

func (w window) empty() bool { return !w.end.After(w.start) }

// Stitch merges segments of the same indicator into one continuous daily series.
//
// Each segment contributes the days where its declared coverage window and its
// data overlap. When two segments overlap, the one listed later wins and the
// earlier one is cut off at the first overlapping day, so every output value
// comes from exactly one segment. A day between the first and last covered
// day that no segment reaches fails with CoverageGapError.
func Stitch(segments []model.SourceSegment) (model.DailySeries, error) {
	if len(segments) == 0 {
		return model.DailySeries{}, &EmptyInputError{}
	}
	name := segments[0].Series.Name
	for _, s := range segments[1:] {
		if s.Series.Name != name {
			return model.DailySeries{}, fmt.Errorf("%w: %q and %q", ErrIndicatorMismatch, name, s.Series.Name)
		}
	}

	windows := make([]window, len(segments))
	for i, s := range segments {
		windows[i] = effectiveWindow(i, s)
	}

	for i := range windows {
		if windows[i].empty() {
			continue
		}
		for j := i + 1; j < len(windows); j++ {
			if windows[j].empty() || !overlaps(windows[i], windows[j]) {
				continue
			}
			cut := laterOf(windows[i].start, windows[j].start)
			if cut.Before(windows[i].end) {
				windows[i].end = cut
			}
		}
	}

	kept := windows[:0:0]
	for _, w := range windows {
		if !w.empty() {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		return model.DailySeries{}, &EmptyInputError{Series: name}
	}
	sort.Slice(kept, func(a, b int) bool { return kept[a].start.Before(kept[b].start) })

	for k := 1; k < len(kept); k++ {
		if kept[k].start.After(kept[k-1].end) {
			return model.DailySeries{}, &CoverageGapError{
				Indicator: name,
				From:      kept[k-1].end,
				To:        kept[k].start.AddDate(0, 0, -1),
			}
		}
	}

	start := kept[0].start
	out := model.DailySeries{
		Name:   name,
		Start:  start,
		Values: make([]float64, 0, model.DaysBetween(start, kept[len(kept)-1].end)),
	}
	for _, w := range kept {
		src := segments[w.seg].Series
		from := model.DaysBetween(src.Start, w.start)
		to := model.DaysBetween(src.Start, w.end)
		out.Values = append(out.Values, src.Values[from:to]...)
	}
	return out, nil
}

// effectiveWindow intersects a segment's declared window with its data range.
func effectiveWindow(i int, s model.SourceSegment) window {
	if s.Series.Len() == 0 {
		return window{seg: i}
	}
	w := window{seg: i, start: s.Series.Start, end: s.Series.End().AddDate(0, 0, 1)}
	if !s.Start.IsZero() {
		w.start = laterOf(w.start, model.Day(s.Start))
	}
	if !s.End.IsZero() {
		if end := model.Day(s.End); end.Before(w.end) {
			w.end = end
		}
	}
	if w.empty() {
		return window{seg: i}
	}
	return w
}

func overlaps(a, b window) bool {
	return a.start.Before(b.end) && b.start.Before(a.end)
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
