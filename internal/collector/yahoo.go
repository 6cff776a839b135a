package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"time"

	"MacroSentinel/internal/model"
)

// DefaultYahooBaseURL is the Yahoo Finance chart API root.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance public chart API.
// It returns daily closes over the full available range.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps indicator names to Yahoo tickers
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: DefaultYahooBaseURL,
		Client:  newHTTPClient(proxyURL),
		SymbolMap: map[string]string{
			"SP500":  "^GSPC",
			"VIXCLS": "^VIX",
			"DJIA":   "^DJI",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch returns the daily closing levels of the mapped ticker. Null closes
// (holidays, halted sessions) are skipped.
func (f *YahooFetcher) Fetch(ctx context.Context, seriesID string) (*model.TimeSeries, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=max",
		f.BaseURL, url.PathEscape(f.yahooSymbol(seriesID)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &ProviderError{Provider: f.Name(), SeriesID: seriesID, Err: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: f.Name(), SeriesID: seriesID, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: f.Name(), SeriesID: seriesID, StatusCode: resp.StatusCode, Err: err}
	}

	var chart yahooChart
	decodeErr := json.Unmarshal(body, &chart)
	if resp.StatusCode == http.StatusNotFound ||
		(decodeErr == nil && chart.Chart.Error != nil && chart.Chart.Error.Code == "Not Found") {
		return nil, &NotFoundError{Provider: f.Name(), SeriesID: seriesID}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Provider: f.Name(), SeriesID: seriesID, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("body: %s", string(body))}
	}
	if decodeErr != nil {
		return nil, &ProviderError{Provider: f.Name(), SeriesID: seriesID, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("decode: %w", decodeErr)}
	}
	if chart.Chart.Error != nil {
		return nil, &ProviderError{Provider: f.Name(), SeriesID: seriesID, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("api error: %s", chart.Chart.Error.Description)}
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, &ProviderError{Provider: f.Name(), SeriesID: seriesID, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("no data returned")}
	}

	result := chart.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close
	ts := &model.TimeSeries{Name: seriesID, Frequency: model.FrequencyDaily}
	for i, stamp := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		ts.Observations = append(ts.Observations, model.Observation{
			Date:  model.Day(time.Unix(stamp, 0).UTC()),
			Value: *closes[i],
		})
	}

	ts.Observations = lastPerDay(ts.Observations)
	log.Printf("[INFO] yahoo %s (%s): %d observations", seriesID, f.yahooSymbol(seriesID), len(ts.Observations))
	return ts, nil
}

// lastPerDay sorts observations by day and keeps the latest one for each day.
// Yahoo can append a live bar on the same day as the last daily bar.
func lastPerDay(obs []model.Observation) []model.Observation {
	sort.SliceStable(obs, func(i, j int) bool { return obs[i].Date.Before(obs[j].Date) })
	out := obs[:0]
	for _, o := range obs {
		if n := len(out); n > 0 && out[n-1].Date.Equal(o.Date) {
			out[n-1] = o
			continue
		}
		out = append(out, o)
	}
	return out
}
