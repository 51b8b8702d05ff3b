package model

import "time"

// PriceSample is a single quote observation. A sample with a non-positive
// price is absent (no quote was obtained).
type PriceSample struct {
	Timestamp time.Time
	AmountIn  float64 // human-unit input amount the quote was requested for
	Price     float64
}

// Present reports whether the sample carries a usable price.
func (s PriceSample) Present() bool {
	return s.Price > 0
}
