package portfolio

import (
	"sync"
	"sync/atomic"
	"time"

	"quotesentinel/internal/calculator"
	"quotesentinel/internal/model"
	"quotesentinel/internal/strategy"
)

// DefaultRetention is the number of records kept in memory for display.
const DefaultRetention = 1000

// Manager owns the simulated balances and the record history. Only the
// polling scheduler writes to it; readers go through Snapshot.
type Manager struct {
	mu       sync.Mutex
	state    model.Portfolio
	last     model.PriceSample
	first    float64
	hasFirst bool
	history  *History
	seq      uint64
	trades   uint64

	snap atomic.Pointer[model.Snapshot]
}

// NewManager creates a Manager holding initialStable and no volatile balance.
func NewManager(initialStable float64, retention int) *Manager {
	if retention <= 0 {
		retention = DefaultRetention
	}
	m := &Manager{
		state:   model.Portfolio{Stable: initialStable},
		history: NewHistory(retention),
	}
	m.snap.Store(&model.Snapshot{Portfolio: m.state})
	return m
}

// State returns a copy of the current balances.
func (m *Manager) State() model.Portfolio {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LastSample returns the most recent recorded sample, or an absent sample.
func (m *Manager) LastSample() model.PriceSample {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Append applies a decision for sample, appends the resulting record and
// publishes a new snapshot. Value is computed from the post-decision
// balances at the sample price; cumulative return is measured against the
// first recorded value and is 0 for the first record.
func (m *Manager) Append(sample model.PriceSample, d strategy.Decision) model.Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = d.Portfolio
	m.last = sample
	m.seq++
	if d.Action.IsTrade() {
		m.trades++
	}

	value := m.state.EstimatedValue(sample.Price)
	if !m.hasFirst {
		m.first = value
		m.hasFirst = true
	}

	rec := model.Record{
		Seq:              m.seq,
		Timestamp:        sample.Timestamp,
		AmountIn:         sample.AmountIn,
		Price:            sample.Price,
		PctChange:        d.PctChange,
		Action:           d.Action,
		Stable:           m.state.Stable,
		Volatile:         m.state.Volatile,
		EstimatedValue:   value,
		CumulativeReturn: calculator.CumulativeReturn(m.first, value),
	}
	m.history.Add(rec)

	latest := rec
	m.snap.Store(&model.Snapshot{
		Seq:       m.seq,
		Portfolio: m.state,
		Latest:    &latest,
		History:   m.history.Values(),
	})
	return rec
}

// Snapshot returns the latest published snapshot. Safe for concurrent readers.
func (m *Manager) Snapshot() *model.Snapshot {
	return m.snap.Load()
}

// Final builds the shutdown summary from the current balances and the last
// available price.
func (m *Manager) Final(runID string, at time.Time) model.FinalReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.FinalReport{
		RunID:          runID,
		StoppedAt:      at,
		Stable:         m.state.Stable,
		Volatile:       m.state.Volatile,
		LastPrice:      m.last.Price,
		EstimatedValue: m.state.EstimatedValue(m.last.Price),
		Ticks:          m.seq,
		Trades:         m.trades,
	}
}
