package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"quotesentinel/internal/chart"
	"quotesentinel/internal/config"
	"quotesentinel/internal/logger"
	"quotesentinel/internal/model"
	"quotesentinel/internal/recorder"
)

func main() {
	csvPath := flag.String("csv", "price_log.csv", "price log to chart")
	dbPath := flag.String("db", "", "read ticks from this SQLite database instead of the CSV log")
	runID := flag.String("run", "", "run id to chart from -db (default: latest run)")
	outDir := flag.String("out", "charts", "output directory")
	withValue := flag.Bool("value", false, "also write the value/return chart")
	flag.Parse()

	log, err := logger.New(config.LogConfig{Level: "info", Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	var records []model.Record
	if *dbPath != "" {
		records, err = loadFromDB(*dbPath, *runID)
	} else {
		records, err = recorder.ReadCSV(*csvPath)
	}
	if err != nil {
		log.Fatal("load records", zap.Error(err))
	}
	if len(records) == 0 {
		log.Warn("no records to chart")
	}

	now := time.Now()
	path, err := chart.Save(*outDir, "trade_visualization", chart.PriceAndValue(records), now)
	if err != nil {
		log.Fatal("save chart", zap.Error(err))
	}
	log.Info("chart saved", zap.String("path", path), zap.Int("records", len(records)))

	if *withValue {
		path, err := chart.Save(*outDir, "portfolio_value", chart.ValueAndReturn(records), now)
		if err != nil {
			log.Fatal("save chart", zap.Error(err))
		}
		log.Info("chart saved", zap.String("path", path))
	}
}

func loadFromDB(path, runID string) ([]model.Record, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if runID == "" {
		if runID, err = recorder.LatestRunID(db); err != nil {
			return nil, fmt.Errorf("find latest run: %w", err)
		}
	}
	return recorder.LoadTicks(db, runID)
}
