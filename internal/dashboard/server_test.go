package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"quotesentinel/internal/model"
	"quotesentinel/internal/report"
)

type staticSource struct {
	snap atomic.Pointer[model.Snapshot]
}

func (s *staticSource) Snapshot() *model.Snapshot { return s.snap.Load() }

var assets = report.Assets{Stable: "USDC", Volatile: "WETH"}

func newSource() *staticSource {
	rec := model.Record{
		Seq: 2, Timestamp: time.Date(2025, 6, 1, 12, 0, 10, 0, time.UTC),
		Price: 98, PctChange: -2, Action: model.ActionBuy,
		Volatile: 98000, EstimatedValue: 1000,
	}
	src := &staticSource{}
	src.snap.Store(&model.Snapshot{
		Seq:       2,
		Portfolio: model.Portfolio{Volatile: 98000},
		Latest:    &rec,
		History: []model.Record{
			{Seq: 1, Timestamp: rec.Timestamp.Add(-10 * time.Second), Price: 100, EstimatedValue: 1000},
			rec,
		},
	})
	return src
}

func get(t *testing.T, h http.Handler, path string) *http.Response {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr.Result()
}

func TestServer_Snapshot(t *testing.T) {
	s := NewServer(":0", newSource(), assets, time.Second, zap.NewNop())
	resp := get(t, s.Handler(), "/api/snapshot")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var v struct {
		Seq    uint64        `json:"seq"`
		Latest *model.Record `json:"latest"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Seq != 2 || v.Latest == nil || v.Latest.Action != model.ActionBuy {
		t.Errorf("unexpected snapshot view %+v", v)
	}
}

func TestServer_History(t *testing.T) {
	s := NewServer(":0", newSource(), assets, time.Second, zap.NewNop())
	resp := get(t, s.Handler(), "/api/history")
	var h []model.Record
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(h) != 2 || h[0].Seq != 1 {
		t.Errorf("unexpected history %+v", h)
	}
}

func TestServer_StatusAndChart(t *testing.T) {
	s := NewServer(":0", newSource(), assets, time.Second, zap.NewNop())
	body, _ := io.ReadAll(get(t, s.Handler(), "/").Body)
	for _, want := range []string{"Last Updated: 2025-06-01 12:00:10", "Price: 98.000000 WETH", "USDC: 0.00", "WETH: 98000.000000", "Value: $1000.00"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("status missing %q:\n%s", want, body)
		}
	}

	resp := get(t, s.Handler(), "/chart.svg")
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("unexpected content type %q", ct)
	}
	svg, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(svg), "<polyline") {
		t.Error("chart has no line")
	}

	if resp := get(t, s.Handler(), "/nope"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestStatusText_NoSample(t *testing.T) {
	if got := StatusText(&model.Snapshot{}, assets); !strings.Contains(got, "Waiting") {
		t.Errorf("unexpected status %q", got)
	}
}

func TestServer_WebsocketPush(t *testing.T) {
	src := newSource()
	s := NewServer(":0", src, assets, 20*time.Millisecond, zap.NewNop())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.refreshLoop(ctx)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first view
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if first.Seq != 2 {
		t.Errorf("expected initial seq 2, got %d", first.Seq)
	}

	next := *src.Snapshot()
	next.Seq = 3
	src.snap.Store(&next)

	for {
		var v view
		if err := conn.ReadJSON(&v); err != nil {
			t.Fatalf("read push: %v", err)
		}
		if v.Seq == 3 {
			break
		}
	}
}
