package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"quotesentinel/internal/chart"
	"quotesentinel/internal/model"
	"quotesentinel/internal/report"
)

// SnapshotSource is the read-only view the dashboard renders.
type SnapshotSource interface {
	Snapshot() *model.Snapshot
}

// Server is the live display. It never writes to the portfolio; it only
// dereferences the latest published snapshot.
type Server struct {
	addr    string
	src     SnapshotSource
	assets  report.Assets
	refresh time.Duration
	log     *zap.Logger
	hub     *Broadcaster
}

// NewServer creates a new Server.
func NewServer(addr string, src SnapshotSource, assets report.Assets, refresh time.Duration, log *zap.Logger) *Server {
	if refresh <= 0 {
		refresh = time.Second
	}
	return &Server{
		addr:    addr,
		src:     src,
		assets:  assets,
		refresh: refresh,
		log:     log,
		hub:     NewBroadcaster(log),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleStatus)
	mux.HandleFunc("GET /api/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /chart.svg", s.handleChart)
	mux.HandleFunc("GET /ws", s.hub.Handler(s.current))
	return mux
}

// Run serves HTTP and pushes snapshots to websocket clients until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.refreshLoop(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		s.hub.CloseAll()
	}()

	s.log.Info("dashboard listening", zap.String("addr", s.addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("dashboard serve: %w", err)
	}
	return nil
}

func (s *Server) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.refresh)
	defer ticker.Stop()
	var lastSeq uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := s.src.Snapshot()
			if snap == nil || snap.Seq == lastSeq {
				continue
			}
			lastSeq = snap.Seq
			s.hub.Broadcast(s.current())
		}
	}
}

// view is the snapshot without its history window.
type view struct {
	Seq       uint64          `json:"seq"`
	Portfolio model.Portfolio `json:"portfolio"`
	Latest    *model.Record   `json:"latest,omitempty"`
}

func (s *Server) current() any {
	snap := s.src.Snapshot()
	if snap == nil {
		return view{}
	}
	return view{Seq: snap.Seq, Portfolio: snap.Portfolio, Latest: snap.Latest}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, StatusText(s.src.Snapshot(), s.assets))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.current())
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	var history []model.Record
	if snap := s.src.Snapshot(); snap != nil {
		history = snap.History
	}
	if history == nil {
		history = []model.Record{}
	}
	writeJSON(w, history)
}

func (s *Server) handleChart(w http.ResponseWriter, _ *http.Request) {
	var history []model.Record
	if snap := s.src.Snapshot(); snap != nil {
		history = snap.History
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(chart.ValueAndReturn(history))
}

// StatusText renders the latest snapshot as the dashboard's plain-text panel.
func StatusText(snap *model.Snapshot, a report.Assets) string {
	if snap == nil || snap.Latest == nil {
		return "Waiting for first price sample...\n"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Last Updated: %s\n", snap.Latest.Timestamp.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Price: %.6f %s\n", snap.Latest.Price, a.Volatile))
	b.WriteString(fmt.Sprintf("%s: %s\n", a.Stable, report.Fixed(snap.Portfolio.Stable, 2)))
	b.WriteString(fmt.Sprintf("%s: %s\n", a.Volatile, report.Fixed(snap.Portfolio.Volatile, 6)))
	b.WriteString(fmt.Sprintf("Value: $%s\n", report.Fixed(snap.Latest.EstimatedValue, 2)))
	return b.String()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
