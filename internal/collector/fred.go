package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"

	"MacroSentinel/internal/model"
)

const (
	// DefaultFREDBaseURL is the St. Louis Fed API root.
	DefaultFREDBaseURL = "https://api.stlouisfed.org"
	// FRED allows 120 requests per minute per key.
	fredRequestInterval = 500 * time.Millisecond
	fredMissingValue    = "."
)

// FREDFetcher implements Fetcher using the FRED REST API.
type FREDFetcher struct {
	BaseURL  string
	APIKey   string
	Client   *http.Client
	Limiter  *rate.Limiter
	MaxTries uint
	// NewBackOff returns the delay policy between retries of transient failures.
	NewBackOff func() backoff.BackOff
}

// NewFREDFetcher creates a rate-limited FRED fetcher with optional proxy support.
func NewFREDFetcher(apiKey, proxyURL string) *FREDFetcher {
	return &FREDFetcher{
		BaseURL:  DefaultFREDBaseURL,
		APIKey:   apiKey,
		Client:   newHTTPClient(proxyURL),
		Limiter:  rate.NewLimiter(rate.Every(fredRequestInterval), 1),
		MaxTries: 4,
		NewBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

func (f *FREDFetcher) Name() string { return "fred" }

// fredSeries is the /fred/series response.
type fredSeries struct {
	Seriess []struct {
		ID             string `json:"id"`
		Title          string `json:"title"`
		FrequencyShort string `json:"frequency_short"`
	} `json:"seriess"`
}

// fredObservations is the /fred/series/observations response.
type fredObservations struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// fredError is the body FRED sends with 4xx responses.
type fredError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_message"`
}

// Fetch returns every observation of the series, dropping FRED's "." placeholders.
func (f *FREDFetcher) Fetch(ctx context.Context, seriesID string) (*model.TimeSeries, error) {
	var meta fredSeries
	if err := f.get(ctx, seriesID, "/fred/series", &meta); err != nil {
		return nil, err
	}
	if len(meta.Seriess) == 0 {
		return nil, &NotFoundError{Provider: f.Name(), SeriesID: seriesID}
	}

	var obs fredObservations
	if err := f.get(ctx, seriesID, "/fred/series/observations", &obs); err != nil {
		return nil, err
	}

	ts := &model.TimeSeries{
		Name:      seriesID,
		Frequency: model.ParseFrequency(meta.Seriess[0].FrequencyShort),
	}
	for _, o := range obs.Observations {
		if o.Value == fredMissingValue {
			continue
		}
		d, err := time.Parse(model.DateLayout, o.Date)
		if err != nil {
			return nil, &ProviderError{Provider: f.Name(), SeriesID: seriesID, Err: fmt.Errorf("bad date %q: %w", o.Date, err)}
		}
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			return nil, &ProviderError{Provider: f.Name(), SeriesID: seriesID, Err: fmt.Errorf("bad value %q on %s: %w", o.Value, o.Date, err)}
		}
		ts.Observations = append(ts.Observations, model.Observation{Date: d, Value: v})
	}
	log.Printf("[INFO] fred %s (%s): %d observations", seriesID, meta.Seriess[0].Title, len(ts.Observations))
	return ts, nil
}

// get calls one FRED endpoint for a series, retrying transient failures.
func (f *FREDFetcher) get(ctx context.Context, seriesID, path string, out any) error {
	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("api_key", f.APIKey)
	q.Set("file_type", "json")
	endpoint := f.BaseURL + path + "?" + q.Encode()

	attempt := 0
	op := func() (struct{}, error) {
		attempt++
		if err := f.Limiter.Wait(ctx); err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		err := f.do(ctx, seriesID, endpoint, out)
		if err == nil {
			return struct{}{}, nil
		}
		if isPermanent(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		log.Printf("[WARN] fred %s attempt %d/%d failed: %v", seriesID, attempt, f.MaxTries, err)
		return struct{}{}, err
	}

	var policy backoff.BackOff = backoff.NewExponentialBackOff()
	if f.NewBackOff != nil {
		policy = f.NewBackOff()
	}
	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(f.MaxTries),
	)
	return err
}

func (f *FREDFetcher) do(ctx context.Context, seriesID, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &ProviderError{Provider: f.Name(), SeriesID: seriesID, Err: err}
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return &ProviderError{Provider: f.Name(), SeriesID: seriesID, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ProviderError{Provider: f.Name(), SeriesID: seriesID, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		var fe fredError
		_ = json.Unmarshal(body, &fe)
		if resp.StatusCode == http.StatusNotFound ||
			(resp.StatusCode == http.StatusBadRequest && strings.Contains(fe.Message, "does not exist")) {
			return &NotFoundError{Provider: f.Name(), SeriesID: seriesID}
		}
		msg := fe.Message
		if msg == "" {
			msg = string(body)
		}
		return &ProviderError{Provider: f.Name(), SeriesID: seriesID, StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ProviderError{Provider: f.Name(), SeriesID: seriesID, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// isPermanent reports whether retrying cannot help: unknown series, bad
// requests, bad keys and undecodable bodies.
func isPermanent(err error) bool {
	switch e := err.(type) {
	case *NotFoundError:
		return true
	case *ProviderError:
		if e.StatusCode == 0 {
			return false
		}
		return e.StatusCode != http.StatusTooManyRequests && e.StatusCode < 500
	}
	return false
}
