package calculator

import (
	"math"
	"testing"
)

func TestPercentChange(t *testing.T) {
	tests := []struct {
		prev, cur float64
		want      float64
	}{
		{100, 102, 2},
		{100, 98, -2},
		{100, 100, 0},
		{50, 75, 50},
	}
	for _, tt := range tests {
		got, err := PercentChange(tt.prev, tt.cur)
		if err != nil {
			t.Fatalf("PercentChange(%v, %v): %v", tt.prev, tt.cur, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("PercentChange(%v, %v) = %v, want %v", tt.prev, tt.cur, got, tt.want)
		}
	}
}

func TestPercentChange_NonPositivePrev(t *testing.T) {
	if _, err := PercentChange(0, 10); err == nil {
		t.Error("expected error for zero previous price")
	}
	if _, err := PercentChange(-1, 10); err == nil {
		t.Error("expected error for negative previous price")
	}
}

func TestCumulativeReturn(t *testing.T) {
	if got := CumulativeReturn(1000, 1000); got != 0 {
		t.Errorf("expected 0 at first value, got %v", got)
	}
	if got := CumulativeReturn(1000, 1100); math.Abs(got-10) > 1e-9 {
		t.Errorf("expected 10, got %v", got)
	}
	if got := CumulativeReturn(0, 50); got != 0 {
		t.Errorf("expected 0 for zero base, got %v", got)
	}
}
