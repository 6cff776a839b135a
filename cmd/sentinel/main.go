package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"MacroSentinel/internal/collector"
	"MacroSentinel/internal/config"
	"MacroSentinel/internal/recorder"
	"MacroSentinel/internal/report"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] MacroSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Shutdown on Ctrl+C aborts in-flight provider calls.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Printf("[ERROR] %v", err)
		stop()
		os.Exit(1)
	}
	log.Println("[INFO] MacroSentinel finished")
}

func run(ctx context.Context, cfg *config.Config) error {
	// Init recorder; only the schema is created.
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	// Init fetchers
	fred := collector.NewFREDFetcher(cfg.FRED.APIKey, cfg.Proxy)
	if cfg.FRED.BaseURL != "" {
		fred.BaseURL = cfg.FRED.BaseURL
	}
	yahoo := collector.NewYahooFetcher(cfg.Proxy)
	if cfg.Yahoo.BaseURL != "" {
		yahoo.BaseURL = cfg.Yahoo.BaseURL
	}

	// Init collector
	indicators, err := collector.IndicatorsFromConfig(cfg.Indicators)
	if err != nil {
		return err
	}
	anchor, err := cfg.Anchor()
	if err != nil {
		return err
	}
	col := collector.NewCollector([]collector.Fetcher{fred, yahoo}, indicators, anchor)
	col.Features = collector.FeaturesFromConfig(cfg)
	col.ChronologyPath = cfg.ChronologyPath
	log.Printf("[INFO] collecting %d indicators from %s", len(indicators), anchor.Format(config.DateLayout))

	ds, err := col.Collect(ctx)
	if err != nil {
		return err
	}

	if len(ds.Chronology.Cycles) > 0 {
		log.Printf("[INFO] business cycles:\n%s", report.FormatChronology(ds.Chronology))
	}
	log.Printf("[INFO] coverage:\n%s", report.FormatCoverage(ds.Table))
	log.Printf("[INFO] last %d days:\n%s", cfg.Report.TailRows, report.FormatTail(ds.Table, cfg.Report.TailRows))
	return nil
}
