package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"MacroSentinel/internal/calculator"
	"MacroSentinel/internal/config"
	"MacroSentinel/internal/ingest"
	"MacroSentinel/internal/model"
	"MacroSentinel/internal/normalizer"
)

// SourceFile marks a segment read from a local workbook.
const SourceFile = config.SourceFile

// UnemploymentGapColumn names the unemployment rate minus its natural rate.
const UnemploymentGapColumn = "UNEMPLOYMENT_GAP"

// MockFetcher serves fixed in-memory series for development and testing.
type MockFetcher struct {
	Source string // defaults to "mock"
	Series map[string]model.TimeSeries
	Calls  []string
}

func (m *MockFetcher) Name() string {
	if m.Source == "" {
		return "mock"
	}
	return m.Source
}

func (m *MockFetcher) Fetch(_ context.Context, seriesID string) (*model.TimeSeries, error) {
	m.Calls = append(m.Calls, seriesID)
	ts, ok := m.Series[seriesID]
	if !ok {
		return nil, &NotFoundError{Provider: m.Name(), SeriesID: seriesID}
	}
	ts.Observations = append([]model.Observation(nil), ts.Observations...)
	return &ts, nil
}

// Segment is one source of an indicator. Provider segments name a Source
// matching a Fetcher and a SeriesID; file segments read Column of a workbook
// frame. Start and End bound the half-open window the source is trusted for;
// zero leaves that side open.
type Segment struct {
	Source   string
	SeriesID string
	File     string
	Frame    ingest.FrameSpec
	Column   string
	Start    time.Time
	End      time.Time
}

// Indicator is one column of the composite table, built from its segments.
type Indicator struct {
	Name     string
	Segments []Segment
}

// Features selects the derived columns added after collection.
type Features struct {
	DrawdownIndicator string
	DrawdownMonths    []int
	UnemploymentRate  string
	NaturalRate       string
}

// Collector fetches, normalizes and joins every configured indicator.
type Collector struct {
	Fetchers       map[string]Fetcher
	Indicators     []Indicator
	Features       Features
	Anchor         time.Time
	ChronologyPath string
	Now            func() time.Time
}

// NewCollector creates a Collector, keying fetchers by their Name.
func NewCollector(fetchers []Fetcher, indicators []Indicator, anchor time.Time) *Collector {
	byName := make(map[string]Fetcher, len(fetchers))
	for _, f := range fetchers {
		byName[f.Name()] = f
	}
	return &Collector{
		Fetchers:   byName,
		Indicators: indicators,
		Anchor:     anchor,
		Now:        time.Now,
	}
}

// Collect builds the composite table over [Anchor, today]. The first failing
// indicator aborts the whole build.
func (c *Collector) Collect(ctx context.Context) (*model.Dataset, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	builtAt := now()

	series := make([]model.DailySeries, 0, len(c.Indicators))
	byName := make(map[string]model.DailySeries, len(c.Indicators))
	for _, ind := range c.Indicators {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := c.collectIndicator(ctx, ind)
		if err != nil {
			return nil, fmt.Errorf("indicator %s: %w", ind.Name, err)
		}
		log.Printf("[INFO] %s: %d days, %s to %s", s.Name, s.Len(),
			s.Start.Format(model.DateLayout), s.End().Format(model.DateLayout))
		series = append(series, s)
		byName[ind.Name] = s
	}

	derived, err := c.deriveFeatures(byName)
	if err != nil {
		return nil, err
	}
	series = append(series, derived...)

	axis := model.DateAxis{Start: model.Day(c.Anchor), End: model.Day(builtAt)}
	table, err := normalizer.BuildComposite(series, axis)
	if err != nil {
		return nil, fmt.Errorf("build composite: %w", err)
	}

	ds := &model.Dataset{Table: table, BuiltAt: builtAt}
	if c.ChronologyPath == "" {
		log.Printf("[WARN] no recession chronology configured")
		return ds, nil
	}
	ds.Chronology, err = ingest.ReadChronology(c.ChronologyPath)
	if err != nil {
		return nil, fmt.Errorf("read chronology: %w", err)
	}
	return ds, nil
}

func (c *Collector) collectIndicator(ctx context.Context, ind Indicator) (model.DailySeries, error) {
	if len(ind.Segments) == 0 {
		return model.DailySeries{}, &normalizer.EmptyInputError{Series: ind.Name}
	}
	segments := make([]model.SourceSegment, 0, len(ind.Segments))
	for _, seg := range ind.Segments {
		s, err := c.loadSegment(ctx, seg)
		if err != nil {
			return model.DailySeries{}, err
		}
		s.Name = ind.Name
		segments = append(segments, model.SourceSegment{
			Source: seg.Source,
			Start:  seg.Start,
			End:    seg.End,
			Series: s,
		})
	}
	return normalizer.Stitch(segments)
}

func (c *Collector) loadSegment(ctx context.Context, seg Segment) (model.DailySeries, error) {
	if seg.Source == SourceFile {
		frame, err := ingest.ReadFrame(seg.File, seg.Frame)
		if err != nil {
			return model.DailySeries{}, fmt.Errorf("read %s: %w", seg.File, err)
		}
		return normalizer.ResampleFrame(frame, seg.Column)
	}

	f, ok := c.Fetchers[seg.Source]
	if !ok {
		return model.DailySeries{}, fmt.Errorf("no fetcher for source %q", seg.Source)
	}
	ts, err := f.Fetch(ctx, seg.SeriesID)
	if err != nil {
		return model.DailySeries{}, err
	}
	return normalizer.ResampleDaily(*ts)
}

func (c *Collector) deriveFeatures(byName map[string]model.DailySeries) ([]model.DailySeries, error) {
	var out []model.DailySeries
	f := c.Features

	if f.DrawdownIndicator != "" {
		base, ok := byName[f.DrawdownIndicator]
		if !ok {
			return nil, fmt.Errorf("drawdown: indicator %q not collected", f.DrawdownIndicator)
		}
		for _, months := range f.DrawdownMonths {
			dd, err := calculator.DrawdownFromPeak(fmt.Sprintf("%s_DD_%dM", base.Name, months), base, months)
			if err != nil {
				return nil, fmt.Errorf("drawdown %dM: %w", months, err)
			}
			out = append(out, dd)
		}
	}

	if f.UnemploymentRate != "" && f.NaturalRate != "" {
		rate, ok := byName[f.UnemploymentRate]
		if !ok {
			return nil, fmt.Errorf("unemployment gap: indicator %q not collected", f.UnemploymentRate)
		}
		natural, ok := byName[f.NaturalRate]
		if !ok {
			return nil, fmt.Errorf("unemployment gap: indicator %q not collected", f.NaturalRate)
		}
		gap, err := calculator.Difference(UnemploymentGapColumn, rate, natural)
		if err != nil {
			return nil, fmt.Errorf("unemployment gap: %w", err)
		}
		out = append(out, gap)
	}
	return out, nil
}
