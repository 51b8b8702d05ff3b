package chart

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileName(t *testing.T) {
	at := time.Date(2025, 3, 9, 7, 5, 1, 0, time.UTC)
	if got := FileName("trade_visualization", at); got != "trade_visualization_2025-03-09_07-05-01.svg" {
		t.Errorf("unexpected name %q", got)
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	at := time.Date(2025, 3, 9, 7, 5, 1, 0, time.UTC)
	path, err := Save(dir, "trade_visualization", PriceAndValue(records()), at)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("expected file in %s, got %s", dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) == 0 || string(data[:4]) != "<svg" {
		t.Errorf("expected svg document, got %.20q", data)
	}
}
