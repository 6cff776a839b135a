package collector

import (
	"fmt"
	"time"

	"MacroSentinel/internal/config"
	"MacroSentinel/internal/ingest"
)

// IndicatorsFromConfig converts configured indicators, parsing segment windows.
func IndicatorsFromConfig(indicators []config.Indicator) ([]Indicator, error) {
	out := make([]Indicator, 0, len(indicators))
	for _, ci := range indicators {
		ind := Indicator{Name: ci.Name, Segments: make([]Segment, 0, len(ci.Segments))}
		for i, cs := range ci.Segments {
			start, err := parseOptionalDate(cs.Start)
			if err != nil {
				return nil, fmt.Errorf("indicator %s segment %d start: %w", ci.Name, i, err)
			}
			end, err := parseOptionalDate(cs.End)
			if err != nil {
				return nil, fmt.Errorf("indicator %s segment %d end: %w", ci.Name, i, err)
			}
			seg := Segment{
				Source:   cs.Source,
				SeriesID: cs.SeriesID,
				Start:    start,
				End:      end,
			}
			if cs.Source == SourceFile {
				seg.File = cs.File
				seg.Column = cs.Column
				seg.Frame = ingest.FrameSpec{
					Name:       fmt.Sprintf("%s[%d]", ci.Name, i),
					Sheet:      cs.Sheet,
					DateColumn: cs.DateColumn,
					DateFormat: cs.DateFormat,
				}
			}
			ind.Segments = append(ind.Segments, seg)
		}
		out = append(out, ind)
	}
	return out, nil
}

// FeaturesFromConfig copies the derived-column settings.
func FeaturesFromConfig(cfg *config.Config) Features {
	return Features{
		DrawdownIndicator: cfg.Features.DrawdownIndicator,
		DrawdownMonths:    cfg.Features.DrawdownMonths,
		UnemploymentRate:  cfg.Features.UnemploymentRate,
		NaturalRate:       cfg.Features.NaturalRate,
	}
}

func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(config.DateLayout, s)
}
