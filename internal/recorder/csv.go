package recorder

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"quotesentinel/internal/calculator"
	"quotesentinel/internal/model"
)

// CSVHeader is the price log column layout.
var CSVHeader = []string{
	"timestamp", "input_amount", "price", "pct_change", "action",
	"balance_stable", "balance_volatile", "estimated_value",
}

// CSVRecorder appends one row per successful tick to the price log.
// The file is truncated when the recorder is created and never rewritten.
type CSVRecorder struct {
	path string
	mu   sync.Mutex
}

// NewCSVRecorder truncates path and writes the header row.
func NewCSVRecorder(path string) (*CSVRecorder, error) {
	if path == "" {
		return nil, errors.New("empty price log path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create price log: %w", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(CSVHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush header: %w", err)
	}
	return &CSVRecorder{path: path}, nil
}

// Path returns the price log location.
func (c *CSVRecorder) Path() string { return c.path }

func (c *CSVRecorder) RecordTick(rec *model.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open price log: %w", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(encodeRow(rec)); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	w.Flush()
	return w.Error()
}

// RecordFinal is a no-op; the summary goes to the report file.
func (c *CSVRecorder) RecordFinal(_ *model.FinalReport) error { return nil }

func (c *CSVRecorder) Close() error { return nil }

// ReadCSV loads a price log. Seq and CumulativeReturn are rebuilt from row
// order and the first row's estimated value.
func ReadCSV(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = len(CSVHeader)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read price log: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("price log has no header")
	}

	out := make([]model.Record, 0, len(rows)-1)
	var first float64
	for i, row := range rows[1:] {
		rec, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if i == 0 {
			first = rec.EstimatedValue
		}
		rec.Seq = uint64(i + 1)
		rec.CumulativeReturn = calculator.CumulativeReturn(first, rec.EstimatedValue)
		out = append(out, rec)
	}
	return out, nil
}

func encodeRow(r *model.Record) []string {
	return []string{
		r.Timestamp.Format(time.RFC3339Nano),
		formatF(r.AmountIn),
		formatF(r.Price),
		formatF(r.PctChange),
		string(r.Action),
		formatF(r.Stable),
		formatF(r.Volatile),
		formatF(r.EstimatedValue),
	}
}

func decodeRow(row []string) (model.Record, error) {
	ts, err := time.Parse(time.RFC3339Nano, row[0])
	if err != nil {
		return model.Record{}, fmt.Errorf("timestamp: %w", err)
	}
	nums := make([]float64, 0, 6)
	for _, idx := range []int{1, 2, 3, 5, 6, 7} {
		v, err := strconv.ParseFloat(row[idx], 64)
		if err != nil {
			return model.Record{}, fmt.Errorf("%s: %w", CSVHeader[idx], err)
		}
		nums = append(nums, v)
	}
	return model.Record{
		Timestamp:      ts,
		AmountIn:       nums[0],
		Price:          nums[1],
		PctChange:      nums[2],
		Action:         model.ParseAction(row[4]),
		Stable:         nums[3],
		Volatile:       nums[4],
		EstimatedValue: nums[5],
	}, nil
}

// formatF writes the shortest representation that parses back to the same float.
func formatF(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
