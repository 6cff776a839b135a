package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroSentinel/internal/model"
)

func TestSQLiteRecorder_Schema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "stego.db")

	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)

	var columns []string
	rows, err := r.db.Query(`SELECT name FROM pragma_table_info('daily_trades') ORDER BY cid`)
	require.NoError(t, err)
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		columns = append(columns, name)
	}
	require.NoError(t, rows.Err())
	rows.Close()
	assert.Equal(t, []string{
		"index", "asset", "exchange", "time_start", "time_end", "trades_count",
		"volume_traded", "price_open", "price_high", "price_low", "price_close",
	}, columns)

	var idx int
	require.NoError(t, r.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_daily_trades_time'`).Scan(&idx))
	assert.Equal(t, 1, idx)
	require.NoError(t, r.Close())

	// Migrations are idempotent.
	r, err = NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.Close())
}

func TestSQLiteRecorder_RecordDailyTrade(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "stego.db"))
	require.NoError(t, err)
	defer r.Close()

	start := time.Date(2020, 1, 2, 14, 30, 0, 0, time.UTC)
	trade := &model.DailyTrade{
		Index:        1,
		Asset:        "SPY",
		Exchange:     "NYSE Arca",
		TimeStart:    start,
		TimeEnd:      start.Add(390 * time.Minute),
		TradesCount:  412,
		VolumeTraded: 59151200,
		PriceOpen:    323.54,
		PriceHigh:    324.89,
		PriceLow:     322.53,
		PriceClose:   324.87,
	}
	require.NoError(t, r.RecordDailyTrade(trade))

	var (
		asset     string
		timeStart string
		closePx   float64
	)
	require.NoError(t, r.db.QueryRow(
		`SELECT asset, CAST(time_start AS TEXT), price_close FROM daily_trades WHERE [index] = 1`).Scan(&asset, &timeStart, &closePx))
	assert.Equal(t, "SPY", asset)
	assert.Equal(t, "2020-01-02 14:30:00", timeStart)
	assert.Equal(t, 324.87, closePx)

	bad := *trade
	bad.Asset = "TOOLONG"
	assert.ErrorContains(t, r.RecordDailyTrade(&bad), "longer than 5")

	bad = *trade
	bad.TimeEnd = start.Add(-time.Minute)
	assert.ErrorContains(t, r.RecordDailyTrade(&bad), "ends before it starts")
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordDailyTrade(&model.DailyTrade{}))
	assert.NoError(t, r.Close())
}
