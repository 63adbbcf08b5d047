package scheduler

import (
	"fenrir/internal/engine"
	"fenrir/internal/script"
)

// intent pairs one agent's decision with the canonical agent id it came
// from, the unit collected in Phase 2 and reordered in Phase 3.
type intent struct {
	agentID  uint32
	decision script.Decision
}

func actionToSide(a script.Action) engine.Side {
	if a == script.Sell {
		return engine.Ask
	}
	return engine.Bid
}

func orderTypeToKind(t script.OrderType) engine.Kind {
	if t == script.Market {
		return engine.Market
	}
	return engine.Limit
}
