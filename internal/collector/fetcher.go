package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"MacroSentinel/internal/model"
)

// Fetcher retrieves the full available history of a named series.
// Unknown series fail with *NotFoundError, everything else with *ProviderError.
type Fetcher interface {
	Fetch(ctx context.Context, seriesID string) (*model.TimeSeries, error)
	Name() string
}

// newHTTPClient builds a client with a 30s timeout and optional proxy.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
