package recorder

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"quotesentinel/internal/model"
	"quotesentinel/internal/portfolio"
	"quotesentinel/internal/strategy"
)

func simulate(t *testing.T, prices []float64) []model.Record {
	t.Helper()
	base := time.Date(2025, 6, 1, 12, 0, 0, 123456789, time.Local)
	m := portfolio.NewManager(1000, 100)
	r := strategy.Rule{ThresholdPercent: 1}
	var out []model.Record
	for i, p := range prices {
		s := model.PriceSample{Timestamp: base.Add(time.Duration(i) * 10 * time.Second), Price: p, AmountIn: 1}
		state := m.State()
		d := r.Decide(m.LastSample(), s, r.CooldownElapsed(state, s.Timestamp), state)
		out = append(out, m.Append(s, d))
	}
	return out
}

func TestCSVRecorder_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "price_log.csv")
	rec, err := NewCSVRecorder(path)
	if err != nil {
		t.Fatalf("new csv recorder: %v", err)
	}

	records := simulate(t, []float64{0.000412, 0.000401, 0.000399, 0.000415, 0.000433, 0.00043})
	for i := range records {
		if err := rec.RecordTick(&records[i]); err != nil {
			t.Fatalf("record tick %d: %v", i, err)
		}
	}

	loaded, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(loaded) != len(records) {
		t.Fatalf("expected %d rows, got %d", len(records), len(loaded))
	}
	for i, want := range records {
		got := loaded[i]
		if !got.Timestamp.Equal(want.Timestamp) {
			t.Errorf("row %d: timestamp %v != %v", i, got.Timestamp, want.Timestamp)
		}
		if got.Price != want.Price || got.PctChange != want.PctChange || got.Action != want.Action ||
			got.Stable != want.Stable || got.Volatile != want.Volatile ||
			got.EstimatedValue != want.EstimatedValue || got.AmountIn != want.AmountIn {
			t.Errorf("row %d: got %+v, want %+v", i, got, want)
		}
		if got.CumulativeReturn != want.CumulativeReturn {
			t.Errorf("row %d: cumulative return %v != %v", i, got.CumulativeReturn, want.CumulativeReturn)
		}
		if got.Seq != want.Seq {
			t.Errorf("row %d: seq %d != %d", i, got.Seq, want.Seq)
		}
	}
	if loaded[0].CumulativeReturn != 0 {
		t.Errorf("first cumulative return must be 0, got %v", loaded[0].CumulativeReturn)
	}
}

func TestCSVRecorder_TruncatesOnOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "price_log.csv")
	if err := os.WriteFile(path, []byte("stale,data\n1,2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCSVRecorder(path); err != nil {
		t.Fatalf("new csv recorder: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join(CSVHeader, ",") + "\n"
	if string(data) != want {
		t.Errorf("expected only header, got %q", string(data))
	}
	loaded, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("expected no rows, got %d", len(loaded))
	}
}

func TestCSVRecorder_AppendsInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	rec, err := NewCSVRecorder(path)
	if err != nil {
		t.Fatal(err)
	}
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		r := model.Record{Timestamp: ts.Add(time.Duration(i) * time.Second), Price: float64(i), Action: model.ActionNone, EstimatedValue: 10}
		if err := rec.RecordTick(&r); err != nil {
			t.Fatal(err)
		}
	}
	loaded, err := ReadCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range loaded {
		if r.Price != float64(i+1) {
			t.Errorf("row %d out of order: price %v", i, r.Price)
		}
	}
}

func TestReadCSV_BadRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	body := strings.Join(CSVHeader, ",") + "\nnot-a-time,1,1,0,NONE,1,0,1\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadCSV(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEncodeRow_FullPrecision(t *testing.T) {
	r := model.Record{Timestamp: time.Unix(0, 0).UTC(), EstimatedValue: 1000.0 / 3}
	row := encodeRow(&r)
	back, err := decodeRow(row)
	if err != nil {
		t.Fatal(err)
	}
	if math.Float64bits(back.EstimatedValue) != math.Float64bits(r.EstimatedValue) {
		t.Errorf("value lost precision: %v vs %v", back.EstimatedValue, r.EstimatedValue)
	}
}
