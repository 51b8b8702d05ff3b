package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"quotesentinel/internal/model"
)

// SQLiteRecorder persists runs and their ticks to a SQLite database.
type SQLiteRecorder struct {
	db    *sql.DB
	runID string
	log   *zap.Logger
	mu    sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database, runs migrations and
// registers a new run.
func NewSQLiteRecorder(dbPath, runID string, log *zap.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets external dashboards read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, runID: runID, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if _, err := db.Exec(`INSERT INTO runs (run_id, started_at) VALUES (?, ?)`,
		runID, time.Now().UnixNano()); err != nil {
		db.Close()
		return nil, fmt.Errorf("register run: %w", err)
	}

	log.Info("sqlite recorder opened", zap.String("path", dbPath), zap.String("run_id", runID))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id          TEXT PRIMARY KEY,
			started_at      INTEGER NOT NULL,
			stopped_at      INTEGER,
			final_stable    REAL,
			final_volatile  REAL,
			last_price      REAL,
			final_value     REAL,
			ticks           INTEGER,
			trades          INTEGER
		)`,

		`CREATE TABLE IF NOT EXISTS ticks (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id            TEXT NOT NULL,
			seq               INTEGER NOT NULL,
			timestamp         INTEGER NOT NULL,
			amount_in         REAL,
			price             REAL,
			pct_change        REAL,
			action            TEXT,
			balance_stable    REAL,
			balance_volatile  REAL,
			estimated_value   REAL,
			cumulative_return REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ticks_run_seq ON ticks(run_id, seq)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:30], err)
		}
	}
	return nil
}

// RunID returns the identifier stamped on every row of this run.
func (r *SQLiteRecorder) RunID() string { return r.runID }

func (r *SQLiteRecorder) RecordTick(rec *model.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO ticks
		(run_id, seq, timestamp, amount_in, price, pct_change, action,
		 balance_stable, balance_volatile, estimated_value, cumulative_return)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		r.runID, rec.Seq, rec.Timestamp.UnixNano(), rec.AmountIn, rec.Price, rec.PctChange,
		string(rec.Action), rec.Stable, rec.Volatile, rec.EstimatedValue, rec.CumulativeReturn,
	)
	return err
}

func (r *SQLiteRecorder) RecordFinal(rep *model.FinalReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`UPDATE runs SET
		stopped_at = ?, final_stable = ?, final_volatile = ?, last_price = ?,
		final_value = ?, ticks = ?, trades = ?
		WHERE run_id = ?`,
		rep.StoppedAt.UnixNano(), rep.Stable, rep.Volatile, rep.LastPrice,
		rep.EstimatedValue, rep.Ticks, rep.Trades, r.runID,
	)
	return err
}

// Ticks loads the recorded ticks of a run in sequence order.
func (r *SQLiteRecorder) Ticks(runID string) ([]model.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return LoadTicks(r.db, runID)
}

// LoadTicks reads the ticks of runID from an open database.
func LoadTicks(db *sql.DB, runID string) ([]model.Record, error) {
	rows, err := db.Query(`SELECT seq, timestamp, amount_in, price, pct_change, action,
		balance_stable, balance_volatile, estimated_value, cumulative_return
		FROM ticks WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Record
	for rows.Next() {
		var (
			rec    model.Record
			ts     int64
			action string
		)
		if err := rows.Scan(&rec.Seq, &ts, &rec.AmountIn, &rec.Price, &rec.PctChange, &action,
			&rec.Stable, &rec.Volatile, &rec.EstimatedValue, &rec.CumulativeReturn); err != nil {
			return nil, err
		}
		rec.Timestamp = time.Unix(0, ts)
		rec.Action = model.ParseAction(action)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// LatestRunID returns the most recently started run in the database.
func LatestRunID(db *sql.DB) (string, error) {
	var id string
	err := db.QueryRow(`SELECT run_id FROM runs ORDER BY started_at DESC LIMIT 1`).Scan(&id)
	return id, err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
