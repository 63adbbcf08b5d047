package script

import (
	"fenrir/internal/account"
	"fenrir/internal/engine"
	"fenrir/internal/fixedpoint"
)

// AccountView is the mutable per-agent state a script may read each tick.
// Memory is the only field a script is meant to mutate directly; cash and
// stock only ever change through settlement.
type AccountView struct {
	Cash            float64
	Stock           int64
	AvgCost         float64
	RealizedPnL     float64
	UnrealizedPnL   float64
	Equity          float64
	LastOrderStatus string
	Memory          map[string]string
}

// NewAccountView converts an account.Account plus the last known trade
// price and session fee rate into the scripting boundary's decimal view.
//
// Cash, RealizedPnL, UnrealizedPnL, and Equity live in fixedpoint.Cost's
// output space (whole currency units, not price-micros — see
// fixedpoint.Cost's doc comment), so they are cast directly rather than
// passed through FromMicros. AvgCost is a genuine price, in the same
// micros space as LastPrice, so it does go through FromMicros.
func NewAccountView(a *account.Account, lastPrice engine.Price, feePPM uint32) AccountView {
	return AccountView{
		Cash:            float64(a.Cash),
		Stock:           a.Stock,
		AvgCost:         fixedpoint.FromMicros(a.AvgCost),
		RealizedPnL:     float64(a.Realized),
		UnrealizedPnL:   float64(a.UnrealizedPnL(lastPrice)),
		Equity:          float64(a.Equity(lastPrice, feePPM)),
		LastOrderStatus: a.LastStatus.String(),
		Memory:          a.Memory,
	}
}
