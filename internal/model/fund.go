package model

import "time"

// Portfolio holds the simulated two-asset balances.
type Portfolio struct {
	Stable        float64   `json:"stable"`
	Volatile      float64   `json:"volatile"`
	LastTradeTime time.Time `json:"last_trade_time"` // zero until the first trade
}

// HasTraded reports whether any trade has fired yet.
func (p Portfolio) HasTraded() bool {
	return !p.LastTradeTime.IsZero()
}

// EstimatedValue returns the portfolio value in stable units.
//
// The volatile leg is converted by dividing by price, not multiplying. The
// quote is "volatile received per stable unit", so this is the inherited
// valuation convention of the bot and is kept as-is for comparability with
// existing logs. It is not a general currency-conversion rule.
func (p Portfolio) EstimatedValue(price float64) float64 {
	if price <= 0 {
		return p.Stable
	}
	return p.Stable + p.Volatile/price
}
