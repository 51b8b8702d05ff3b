package model

import "time"

// Record is one appended history entry. Records are never mutated after append.
type Record struct {
	Seq              uint64    `json:"seq"`
	Timestamp        time.Time `json:"timestamp"`
	AmountIn         float64   `json:"amount_in"`
	Price            float64   `json:"price"`
	PctChange        float64   `json:"pct_change"`
	Action           Action    `json:"action"`
	Stable           float64   `json:"stable"`
	Volatile         float64   `json:"volatile"`
	EstimatedValue   float64   `json:"estimated_value"`
	CumulativeReturn float64   `json:"cumulative_return"`
}

// Snapshot is an immutable read-only view published after each successful tick.
// Readers must not modify History.
type Snapshot struct {
	Seq       uint64    `json:"seq"`
	Portfolio Portfolio `json:"portfolio"`
	Latest    *Record   `json:"latest,omitempty"`
	History   []Record  `json:"history,omitempty"`
}

// FinalReport is the shutdown summary, valued in stable units.
type FinalReport struct {
	RunID          string    `json:"run_id"`
	StoppedAt      time.Time `json:"stopped_at"`
	Stable         float64   `json:"stable"`
	Volatile       float64   `json:"volatile"`
	LastPrice      float64   `json:"last_price"` // 0 when no sample was ever obtained
	EstimatedValue float64   `json:"estimated_value"`
	Ticks          uint64    `json:"ticks"`
	Trades         uint64    `json:"trades"`
}
