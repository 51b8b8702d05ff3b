package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"quotesentinel/internal/model"
	"quotesentinel/internal/report"
)

var assets = report.Assets{Stable: "USDC", Volatile: "WETH"}

func TestFormatTradeAlert(t *testing.T) {
	rec := &model.Record{
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Price:     98, PctChange: -2, Action: model.ActionBuy,
		Volatile: 98000, EstimatedValue: 1000,
	}
	msg := FormatTradeAlert(rec, assets)
	for _, want := range []string{"SIMULATED BUY", "2025-06-01 12:00:00", "-2.0000%", "WETH: 98000.000000", "$1000.00"} {
		if !strings.Contains(msg, want) {
			t.Errorf("alert missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatStatus_NoSample(t *testing.T) {
	msg := FormatStatus(&model.Snapshot{Portfolio: model.Portfolio{Stable: 1000}}, assets)
	if !strings.Contains(msg, "No price sample yet") || !strings.Contains(msg, "USDC: 1000.00") {
		t.Errorf("unexpected status:\n%s", msg)
	}
}

func TestFormatStatus_Latest(t *testing.T) {
	rec := model.Record{Timestamp: time.Now(), Price: 0.0004, EstimatedValue: 1010, CumulativeReturn: 1}
	msg := FormatStatus(&model.Snapshot{Seq: 7, Latest: &rec, Portfolio: model.Portfolio{Stable: 1010}}, assets)
	for _, want := range []string{"Price: 0.000400 WETH", "Value: $1010.00", "+1.00%", "Ticks: 7"} {
		if !strings.Contains(msg, want) {
			t.Errorf("status missing %q:\n%s", want, msg)
		}
	}
}

func TestTelegramNotifier_SendWithRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/bottoken/sendMessage") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload["chat_id"] != "42" {
			t.Errorf("unexpected chat id %q", payload["chat_id"])
		}
		if n == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token", "42", "", zap.NewNop())
	n.APIBase = srv.URL
	if err := n.SendWithRetry(context.Background(), "hello", 1); err != nil {
		t.Fatalf("send with retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestTelegramNotifier_SendWithRetryExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token", "42", "", zap.NewNop())
	n.APIBase = srv.URL
	if err := n.SendWithRetry(context.Background(), "hello", 0); err == nil {
		t.Fatal("expected error")
	}
}
