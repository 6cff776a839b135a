package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"MacroSentinel/internal/model"
)

// SQLiteRecorder persists the bookkeeping table to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS daily_trades (
			[index]       BIGINT,
			asset         VARCHAR(5),
			exchange      VARCHAR(100),
			time_start    DATETIME,
			time_end      DATETIME,
			trades_count  BIGINT,
			volume_traded DECIMAL(20,10),
			price_open    DECIMAL(20,10),
			price_high    DECIMAL(20,10),
			price_low     DECIMAL(20,10),
			price_close   DECIMAL(20,10)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_daily_trades_time ON daily_trades(time_start, time_end)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordDailyTrade(t *model.DailyTrade) error {
	if len(t.Asset) > 5 {
		return fmt.Errorf("asset %q longer than 5 characters", t.Asset)
	}
	if t.TimeEnd.Before(t.TimeStart) {
		return fmt.Errorf("trade %d ends before it starts", t.Index)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO daily_trades
		([index], asset, exchange, time_start, time_end, trades_count, volume_traded,
		 price_open, price_high, price_low, price_close)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		t.Index, t.Asset, t.Exchange,
		t.TimeStart.UTC().Format(timeLayout), t.TimeEnd.UTC().Format(timeLayout),
		t.TradesCount, t.VolumeTraded,
		t.PriceOpen, t.PriceHigh, t.PriceLow, t.PriceClose,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

// timeLayout is how DATETIME columns are stored.
const timeLayout = "2006-01-02 15:04:05"
