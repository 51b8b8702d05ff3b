package model

// Action is the outcome of one decision on a price tick.
type Action string

const (
	ActionNone Action = "NONE"
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// IsTrade reports whether the action moved balances.
func (a Action) IsTrade() bool {
	return a == ActionBuy || a == ActionSell
}

// ParseAction maps a persisted action string back to an Action.
// Empty and unknown values decode as ActionNone.
func ParseAction(s string) Action {
	switch Action(s) {
	case ActionBuy:
		return ActionBuy
	case ActionSell:
		return ActionSell
	default:
		return ActionNone
	}
}
