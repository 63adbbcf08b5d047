// Package account implements C8: per-agent cash/position/PnL bookkeeping
// driven by the match-event stream, under a configurable fee policy.
package account

import (
	"fenrir/internal/engine"
	"fenrir/internal/fixedpoint"
)

// OrderStatus mirrors the scripting boundary's last_order_status field.
type OrderStatus uint8

const (
	StatusNone OrderStatus = iota
	StatusFilled
	StatusPartial
	StatusRejected
)

func (s OrderStatus) String() string {
	switch s {
	case StatusFilled:
		return "Filled"
	case StatusPartial:
		return "Partial"
	case StatusRejected:
		return "Rejected"
	default:
		return "None"
	}
}

// Account is an agent's private book-keeping state. It is exclusively
// owned by its agent between ticks (Phase 2) and mutated only by
// settlement on the scheduler thread (Phase 4).
type Account struct {
	AgentID uint32

	Cash  engine.Price
	Stock int64 // signed: negative is a short position

	AvgCost  engine.Price
	Realized engine.Price

	LastStatus OrderStatus

	// Memory is the agent's persistent key/value scratch space, carried
	// across ticks and exposed at the scripting boundary.
	Memory map[string]string
}

// New creates an account with the given starting cash and stock.
func New(agentID uint32, initialCash engine.Price, initialStock int64) *Account {
	return &Account{
		AgentID: agentID,
		Cash:    initialCash,
		Stock:   initialStock,
		Memory:  make(map[string]string),
	}
}

func abs64(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

// applyFill adjusts Stock by delta (positive for a buy fill, negative for
// a sell fill) at tradePrice, updating AvgCost by weighted average when
// extending a position and realizing PnL proportionally when reducing or
// flipping one.
func (a *Account) applyFill(delta int64, tradePrice engine.Price) {
	oldStock := a.Stock
	newStock := oldStock + delta

	extending := oldStock == 0 || (oldStock > 0 && delta > 0) || (oldStock < 0 && delta < 0)
	if extending {
		totalOld := fixedpoint.Cost(a.AvgCost, abs64(oldStock))
		totalNew := fixedpoint.Cost(tradePrice, abs64(delta))
		absNew := abs64(newStock)
		if absNew > 0 {
			a.AvgCost = engine.Price((int64(totalOld) + int64(totalNew)) * fixedpoint.Scale / int64(absNew))
		}
		a.Stock = newStock
		return
	}

	reduceQty := abs64(delta)
	posQty := abs64(oldStock)
	if reduceQty > posQty {
		reduceQty = posQty
	}

	var pnlPerUnit int64
	if oldStock > 0 {
		pnlPerUnit = int64(tradePrice) - int64(a.AvgCost) // long: gains when price rises
	} else {
		pnlPerUnit = int64(a.AvgCost) - int64(tradePrice) // short: gains when price falls
	}
	a.Realized += fixedpoint.Cost(engine.Price(pnlPerUnit), reduceQty)
	a.Stock = newStock

	switch {
	case newStock == 0:
		a.AvgCost = 0
	case (oldStock > 0 && newStock < 0) || (oldStock < 0 && newStock > 0):
		a.AvgCost = tradePrice // flipped through flat: remainder opened fresh
	}
}

// UnrealizedPnL is (last_price - avg_cost) * stock for nonzero stock, zero
// otherwise. Sign falls out naturally: a short position with stock < 0
// loses when price rises, per the spec formula.
func (a *Account) UnrealizedPnL(lastPrice engine.Price) engine.Price {
	if a.Stock == 0 {
		return 0
	}
	diff := engine.Price(int64(lastPrice) - int64(a.AvgCost))
	mag := fixedpoint.Cost(diff, abs64(a.Stock))
	if a.Stock < 0 {
		return -mag
	}
	return mag
}

// Equity is cash + stock*last_price, conservatively reduced by the fee
// that would be paid to fully exit the position at last_price.
func (a *Account) Equity(lastPrice engine.Price, feePPM uint32) engine.Price {
	if a.Stock == 0 {
		return a.Cash
	}
	marketValue := fixedpoint.Cost(lastPrice, abs64(a.Stock))
	if a.Stock < 0 {
		marketValue = -marketValue
	}
	exitNotional := marketValue
	if exitNotional < 0 {
		exitNotional = -exitNotional
	}
	exitFee := fixedpoint.Fee(exitNotional, feePPM)
	return a.Cash + marketValue - exitFee
}
