package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"quotesentinel/internal/model"
)

func TestSQLiteRecorder_TicksAndFinal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "bot.db")
	r, err := NewSQLiteRecorder(path, "run-1", zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	records := simulate(t, []float64{100, 98, 99, 101})
	for i := range records {
		if err := r.RecordTick(&records[i]); err != nil {
			t.Fatalf("record tick: %v", err)
		}
	}

	got, err := r.Ticks("run-1")
	if err != nil {
		t.Fatalf("load ticks: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("expected %d ticks, got %d", len(records), len(got))
	}
	for i := range records {
		if got[i].Seq != records[i].Seq || got[i].Action != records[i].Action ||
			got[i].EstimatedValue != records[i].EstimatedValue ||
			got[i].CumulativeReturn != records[i].CumulativeReturn ||
			!got[i].Timestamp.Equal(records[i].Timestamp) {
			t.Errorf("tick %d mismatch: got %+v, want %+v", i, got[i], records[i])
		}
	}

	final := &model.FinalReport{RunID: "run-1", StoppedAt: time.Now(), Stable: 1, Volatile: 2, LastPrice: 101, EstimatedValue: 3, Ticks: 4, Trades: 1}
	if err := r.RecordFinal(final); err != nil {
		t.Fatalf("record final: %v", err)
	}
	var value float64
	var trades int
	if err := r.db.QueryRow(`SELECT final_value, trades FROM runs WHERE run_id = ?`, "run-1").Scan(&value, &trades); err != nil {
		t.Fatalf("query run: %v", err)
	}
	if value != 3 || trades != 1 {
		t.Errorf("unexpected run row: value=%v trades=%d", value, trades)
	}

	latest, err := LatestRunID(r.db)
	if err != nil || latest != "run-1" {
		t.Errorf("expected latest run run-1, got %q (%v)", latest, err)
	}
}

func TestSQLiteRecorder_SeparatesRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.db")
	r1, err := NewSQLiteRecorder(path, "a", zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	rec := model.Record{Seq: 1, Timestamp: time.Now(), Price: 1, Action: model.ActionNone}
	if err := r1.RecordTick(&rec); err != nil {
		t.Fatal(err)
	}
	r1.Close()

	r2, err := NewSQLiteRecorder(path, "b", zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer r2.Close()
	got, err := r2.Ticks("b")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("new run must start empty, got %d ticks", len(got))
	}
}
