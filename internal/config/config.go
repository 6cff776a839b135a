package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DateLayout is the format of every date in the config file.
const DateLayout = "2006-01-02"

// SourceFile marks a segment read from a local workbook instead of a provider.
const SourceFile = "file"

// Config holds all application configuration.
type Config struct {
	FRED struct {
		BaseURL string `yaml:"base_url" validate:"omitempty,url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"fred"`
	Yahoo struct {
		BaseURL string `yaml:"base_url" validate:"omitempty,url"`
	} `yaml:"yahoo"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy          string `yaml:"proxy" validate:"omitempty,url"`
	AnchorDate     string `yaml:"anchor_date" validate:"required,datetime=2006-01-02"`
	ChronologyPath string `yaml:"chronology_path"`
	Report         struct {
		TailRows int `yaml:"tail_rows" validate:"gte=0"`
	} `yaml:"report"`
	Features struct {
		DrawdownIndicator string `yaml:"drawdown_indicator"`
		DrawdownMonths    []int  `yaml:"drawdown_months" validate:"dive,gt=0"`
		UnemploymentRate  string `yaml:"unemployment_rate"`
		NaturalRate       string `yaml:"natural_rate"`
	} `yaml:"features"`
	Indicators []Indicator `yaml:"indicators" validate:"required,min=1,dive"`
}

// Indicator is one column of the composite table.
type Indicator struct {
	Name     string    `yaml:"name" validate:"required"`
	Segments []Segment `yaml:"segments" validate:"required,min=1,dive"`
}

// Segment is one source of an indicator and the dates it is authoritative for.
// Source is a provider name ("fred", "yahoo") or "file" for a local workbook.
type Segment struct {
	Source     string `yaml:"source" validate:"required,oneof=fred yahoo file"`
	SeriesID   string `yaml:"series_id" validate:"required_unless=Source file"`
	File       string `yaml:"file" validate:"required_if=Source file"`
	Sheet      string `yaml:"sheet"`
	DateColumn string `yaml:"date_column" validate:"required_if=Source file"`
	DateFormat string `yaml:"date_format"`
	Column     string `yaml:"column"`
	Start      string `yaml:"start" validate:"omitempty,datetime=2006-01-02"`
	End        string `yaml:"end" validate:"omitempty,datetime=2006-01-02"`
}

// overrides are the settings that may come from the environment.
type overrides struct {
	FREDAPIKey     string `env:"FRED_API_KEY"`
	Proxy          string `env:"HTTPS_PROXY"`
	SQLitePath     string `env:"SQLITE_PATH"`
	AnchorDate     string `env:"ANCHOR_DATE"`
	ChronologyPath string `env:"NBER_CHRONOLOGY_PATH"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// Preset so an explicit tail_rows: 0 survives decoding.
	cfg.Report.TailRows = 10

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	var ov overrides
	if err := env.Parse(&ov); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if ov.FREDAPIKey != "" {
		cfg.FRED.APIKey = ov.FREDAPIKey
	}
	if ov.Proxy != "" {
		cfg.Proxy = ov.Proxy
	}
	if ov.SQLitePath != "" {
		cfg.Database.SQLitePath = ov.SQLitePath
	}
	if ov.AnchorDate != "" {
		cfg.AnchorDate = ov.AnchorDate
	}
	if ov.ChronologyPath != "" {
		cfg.ChronologyPath = ov.ChronologyPath
	}

	// Defaults
	if cfg.AnchorDate == "" {
		cfg.AnchorDate = "1854-12-01"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stego.db"
	}
	if len(cfg.Indicators) == 0 {
		cfg.Indicators = DefaultIndicators()
		if cfg.Features.DrawdownIndicator == "" {
			cfg.Features.DrawdownIndicator = "SP500"
			cfg.Features.DrawdownMonths = []int{6, 12}
		}
		if cfg.Features.UnemploymentRate == "" && cfg.Features.NaturalRate == "" {
			cfg.Features.UnemploymentRate = "UNRATE"
			cfg.Features.NaturalRate = "NROU"
		}
	}

	return cfg, nil
}

// DefaultIndicators is the FRED series set collected when none are configured.
func DefaultIndicators() []Indicator {
	ids := []string{
		"SP500", "VIXCLS", "UMCSENT", "STLFSI", "NPPTTL", "PERMIT", "DGORDER",
		"NROU", "NROUST", "T10Y2Y", "HOHWMN02USM065S", "RETAILSMSA", "UNRATE",
	}
	out := make([]Indicator, len(ids))
	for i, id := range ids {
		out[i] = Indicator{Name: id, Segments: []Segment{{Source: "fred", SeriesID: id}}}
	}
	return out
}

// Validate checks struct tags, then the rules that span fields.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	seen := make(map[string]bool, len(c.Indicators))
	usesFRED := false
	for _, ind := range c.Indicators {
		if seen[ind.Name] {
			return fmt.Errorf("indicator %q is listed twice", ind.Name)
		}
		seen[ind.Name] = true
		for _, seg := range ind.Segments {
			if seg.Source == SourceFile && seg.SeriesID != "" {
				return fmt.Errorf("indicator %q: file segments take no series_id", ind.Name)
			}
			if seg.Source == "fred" {
				usesFRED = true
			}
			if seg.Start != "" && seg.End != "" {
				start, _ := time.Parse(DateLayout, seg.Start)
				end, _ := time.Parse(DateLayout, seg.End)
				if !end.After(start) {
					return fmt.Errorf("indicator %q: segment %s ends on or before its start", ind.Name, seg.Source)
				}
			}
		}
	}
	if usesFRED && c.FRED.APIKey == "" {
		return fmt.Errorf("fred.api_key (or FRED_API_KEY) is required for fred segments")
	}

	f := c.Features
	if f.DrawdownIndicator != "" && !seen[f.DrawdownIndicator] {
		return fmt.Errorf("features.drawdown_indicator %q is not a configured indicator", f.DrawdownIndicator)
	}
	if len(f.DrawdownMonths) > 0 && f.DrawdownIndicator == "" {
		return fmt.Errorf("features.drawdown_months needs features.drawdown_indicator")
	}
	if (f.UnemploymentRate == "") != (f.NaturalRate == "") {
		return fmt.Errorf("features.unemployment_rate and features.natural_rate must be set together")
	}
	for _, name := range []string{f.UnemploymentRate, f.NaturalRate} {
		if name != "" && !seen[name] {
			return fmt.Errorf("features: %q is not a configured indicator", name)
		}
	}
	return nil
}

// Anchor returns the parsed anchor date.
func (c *Config) Anchor() (time.Time, error) {
	t, err := time.Parse(DateLayout, c.AnchorDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("anchor_date: %w", err)
	}
	return t, nil
}
