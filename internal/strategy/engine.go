package strategy

import (
	"time"

	"quotesentinel/internal/calculator"
	"quotesentinel/internal/model"
)

// Rule is the cooldown-gated threshold trading rule.
type Rule struct {
	ThresholdPercent float64       // trigger magnitude, in percent units of pctChange
	Cooldown         time.Duration // minimum gap between trades
}

// Decision is the output of the engine for one tick.
type Decision struct {
	Action    model.Action
	PctChange float64
	Portfolio model.Portfolio
}

// CooldownElapsed reports whether a trade is eligible at now.
func (r Rule) CooldownElapsed(p model.Portfolio, now time.Time) bool {
	if !p.HasTraded() {
		return true
	}
	return now.Sub(p.LastTradeTime) > r.Cooldown
}

// Decide evaluates one tick. The input portfolio is not modified; the
// returned Decision carries the updated copy. LastTradeTime advances to the
// current sample's timestamp only when a trade fires.
//
// Swaps are all-in/all-out: a SELL moves the whole volatile balance into
// stable at stable += volatile / price, a BUY moves the whole stable balance
// into volatile at volatile += stable * price.
func (r Rule) Decide(prev, cur model.PriceSample, cooldownElapsed bool, p model.Portfolio) Decision {
	d := Decision{Action: model.ActionNone, Portfolio: p}
	if !prev.Present() || !cur.Present() {
		return d
	}

	pct, err := calculator.PercentChange(prev.Price, cur.Price)
	if err != nil {
		return d
	}
	d.PctChange = pct

	if !cooldownElapsed {
		return d
	}

	switch {
	case pct >= r.ThresholdPercent && p.Volatile > 0:
		d.Action = model.ActionSell
		d.Portfolio.Stable += p.Volatile / cur.Price
		d.Portfolio.Volatile = 0
		d.Portfolio.LastTradeTime = cur.Timestamp
	case pct <= -r.ThresholdPercent && p.Stable > 0:
		d.Action = model.ActionBuy
		d.Portfolio.Volatile += p.Stable * cur.Price
		d.Portfolio.Stable = 0
		d.Portfolio.LastTradeTime = cur.Timestamp
	}
	return d
}
