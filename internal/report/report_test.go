package report

import (
	"os"
	"path/filepath"
	"testing"

	"quotesentinel/internal/model"
)

var assets = Assets{Stable: "USDC", Volatile: "WETH"}

func TestFormat(t *testing.T) {
	rep := &model.FinalReport{Stable: 1000.005, Volatile: 0.1234567, EstimatedValue: 1234.5678}
	got := Format(rep, assets)
	want := "Final USDC Balance: 1000.01\n" +
		"Final WETH Balance: 0.123457\n" +
		"Final Estimated USD Value: $1234.57\n"
	if got != want {
		t.Errorf("unexpected report:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormat_NoSamples(t *testing.T) {
	rep := &model.FinalReport{Stable: 1000, EstimatedValue: 1000}
	got := Format(rep, assets)
	want := "Final USDC Balance: 1000.00\n" +
		"Final WETH Balance: 0.000000\n" +
		"Final Estimated USD Value: $1000.00\n"
	if got != want {
		t.Errorf("unexpected report:\n%s", got)
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "final_report.txt")
	rep := &model.FinalReport{Stable: 1, EstimatedValue: 1}
	if err := Write(path, rep, assets); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != Format(rep, assets) {
		t.Errorf("file content mismatch: %q", string(data))
	}
}
