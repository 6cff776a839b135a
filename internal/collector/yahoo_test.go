package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroSentinel/internal/model"
	"MacroSentinel/internal/normalizer"
)

func TestYahooFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/^GSPC", r.URL.Path)
		assert.Equal(t, "max", r.URL.Query().Get("range"))
		w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[1577975400,1578061800,1578321000],
			"indicators":{"quote":[{"close":[3257.85,null,3246.28]}]}
		}],"error":null}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	f.Client = srv.Client()

	ts, err := f.Fetch(context.Background(), "SP500")
	require.NoError(t, err)

	assert.Equal(t, "SP500", ts.Name)
	assert.Equal(t, model.FrequencyDaily, ts.Frequency)
	assert.Equal(t, []model.Observation{
		{Date: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), Value: 3257.85},
		{Date: time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC), Value: 3246.28},
	}, ts.Observations)
}

func TestYahooFetcher_LiveBarSameDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Daily bar at the open, then a live bar later the same session.
		w.Write([]byte(`{"chart":{"result":[{
			"timestamp":[1577975400,1578061800,1578075000],
			"indicators":{"quote":[{"close":[3257.85,3234.85,3236.10]}]}
		}],"error":null}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	f.Client = srv.Client()

	ts, err := f.Fetch(context.Background(), "SP500")
	require.NoError(t, err)
	assert.Equal(t, []model.Observation{
		{Date: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), Value: 3257.85},
		{Date: time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC), Value: 3236.10},
	}, ts.Observations)

	_, err = normalizer.ResampleDaily(*ts)
	assert.NoError(t, err)
}

func TestYahooFetcher_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	f.Client = srv.Client()

	_, err := f.Fetch(context.Background(), "XYZ123")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf), "got %v", err)
	assert.Equal(t, "yahoo", nf.Provider)
}
