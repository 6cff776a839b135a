package collector

import "fmt"

// NotFoundError reports a series the provider does not know.
type NotFoundError struct {
	Provider string
	SeriesID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: series %q not found", e.Provider, e.SeriesID)
}

// ProviderError reports any other failure to retrieve a series.
type ProviderError struct {
	Provider   string
	SeriesID   string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: series %q: status %d: %v", e.Provider, e.SeriesID, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: series %q: %v", e.Provider, e.SeriesID, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
