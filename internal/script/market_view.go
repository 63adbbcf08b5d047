// Package script defines the Go-side data contract and native math
// helpers exposed at the agent scripting boundary (spec §6). The agent
// language runtime itself is out of scope; this package only carries the
// read-only market view, the mutable account view, the decision shape a
// script returns, and a trivial built-in agent used by tests.
package script

import (
	"fenrir/internal/aggregator"
	"fenrir/internal/fixedpoint"
)

// LevelView is one (price, volume) pair on a book side, in user-friendly
// decimal form.
type LevelView struct {
	Price  float64
	Volume uint64
}

// MarketView is the read-only snapshot a script observes each tick.
// Every field is a human-friendly decimal or plain Go value; conversion
// from the engine's fixed-point representation happens only here, at the
// scripting boundary, per spec §6.
type MarketView struct {
	Tick, TotalTicks uint64
	TradingEnabled   bool
	FeeRate          float64

	LastPrice                       float64
	TickVolume                      uint64
	TakerBuyVolume, TakerSellVolume uint64

	BidLevels, AskLevels []LevelView

	OrderImbalance float64

	MA5, MA20, MA60                float64
	MA5Ready, MA20Ready, MA60Ready bool
	High20, Low20                  float64
	VWAP                           float64
	StdDev20                       float64
	ATR14                          float64
	RSI14                          float64

	HistoryPrices  []float64
	HistoryVolumes []uint64
}

// NewMarketView converts an aggregator.Snapshot plus the session fee rate
// into the scripting boundary's decimal view.
func NewMarketView(snap aggregator.Snapshot, feePPM uint32) MarketView {
	bids := make([]LevelView, len(snap.Bids))
	for i, l := range snap.Bids {
		bids[i] = LevelView{Price: fixedpoint.FromMicros(l.Price), Volume: uint64(l.Volume)}
	}
	asks := make([]LevelView, len(snap.Asks))
	for i, l := range snap.Asks {
		asks[i] = LevelView{Price: fixedpoint.FromMicros(l.Price), Volume: uint64(l.Volume)}
	}

	prices := make([]float64, len(snap.HistoryPrices))
	for i, p := range snap.HistoryPrices {
		prices[i] = fixedpoint.FromMicros(p)
	}
	volumes := make([]uint64, len(snap.HistoryVolumes))
	for i, v := range snap.HistoryVolumes {
		volumes[i] = uint64(v)
	}

	ind := snap.Indicators
	return MarketView{
		Tick:            snap.Tick,
		TotalTicks:      snap.TotalTicks,
		TradingEnabled:  snap.TradingEnabled,
		FeeRate:         float64(feePPM) / float64(fixedpoint.Scale),
		LastPrice:       fixedpoint.FromMicros(snap.LastPrice),
		TickVolume:      uint64(snap.TickVolume),
		TakerBuyVolume:  uint64(snap.TakerBuyVolume),
		TakerSellVolume: uint64(snap.TakerSellVolume),
		BidLevels:       bids,
		AskLevels:       asks,
		OrderImbalance:  float64(ind.OrderImbalance) / float64(fixedpoint.Scale),
		MA5:             fixedpoint.FromMicros(ind.MA5),
		MA20:            fixedpoint.FromMicros(ind.MA20),
		MA60:            fixedpoint.FromMicros(ind.MA60),
		MA5Ready:        ind.MA5Ready,
		MA20Ready:       ind.MA20Ready,
		MA60Ready:       ind.MA60Ready,
		High20:          fixedpoint.FromMicros(ind.High20),
		Low20:           fixedpoint.FromMicros(ind.Low20),
		VWAP:            fixedpoint.FromMicros(ind.VWAP),
		StdDev20:        fixedpoint.FromMicros(ind.StdDev20),
		ATR14:           fixedpoint.FromMicros(ind.ATR14),
		RSI14:           fixedpoint.FromMicros(ind.RSI14),
		HistoryPrices:   prices,
		HistoryVolumes:  volumes,
	}
}
