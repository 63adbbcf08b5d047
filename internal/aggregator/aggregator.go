// Package aggregator implements C6: rolling trade/volume history and the
// indicator set published in each tick's MarketSnapshot.
package aggregator

import (
	"fenrir/internal/engine"
	"fenrir/internal/fixedpoint"
)

// Indicators holds every rolling statistic computed from the price/volume
// history, as described in spec §4.5. A *Ready flag of false means the
// window has not yet filled and the paired value is the neutral sentinel.
type Indicators struct {
	MA5, MA20, MA60                engine.Price
	MA5Ready, MA20Ready, MA60Ready bool
	High20, Low20                  engine.Price
	VWAP                           engine.Price
	StdDev20                       engine.Price
	ATR14                          engine.Price
	RSI14                          engine.Price // micros-scaled percentage, 0..100_000_000
	OrderImbalance                 int64        // micros-scaled, clamped to [-Scale, Scale]
}

// Snapshot is the immutable, once-per-tick read-only view published by the
// aggregator and consumed by every decision worker in Phase 2.
type Snapshot struct {
	Tick, TotalTicks uint64
	TradingEnabled   bool
	FeePPM           uint32

	LastPrice                          engine.Price
	TickVolume                         engine.Volume
	TakerBuyVolume, TakerSellVolume    engine.Volume

	Bids, Asks []engine.LevelView

	Indicators Indicators

	HistoryPrices  []engine.Price
	HistoryVolumes []engine.Volume
}

// Aggregator owns the bounded history rings and the Wilder-smoothed ATR/RSI
// state that must persist across ticks.
type Aggregator struct {
	capacity int
	topK     int

	prices  *ring[engine.Price]
	volumes *ring[engine.Volume]

	havePrev bool
	prevClose engine.Price
	prevVWAP  engine.Price

	atrWarm    []engine.Price
	atr        engine.Price
	atrReady   bool

	rsiGainWarm []engine.Price
	rsiLossWarm []engine.Price
	avgGain     engine.Price
	avgLoss     engine.Price
	rsiReady    bool
}

// TopKDepth returns the configured book-depth this aggregator was built
// with, so the scheduler knows how deep an L2 snapshot to request.
func (a *Aggregator) TopKDepth() int { return a.topK }

// New constructs an aggregator with the given history ring capacity
// (spec default 256) and top-K book depth (spec default 5).
func New(capacity, topK int) *Aggregator {
	return &Aggregator{
		capacity: capacity,
		topK:     topK,
		prices:   newRing[engine.Price](capacity),
		volumes:  newRing[engine.Volume](capacity),
	}
}

// Ingest records one tick's closing trade price and total volume,
// advancing the ATR/RSI smoothers. Called once per tick after execution,
// even on ticks with zero trade volume (lastPrice carried forward by the
// caller in that case). Taker-buy/sell volumes are pure pass-through data
// for Snapshot and do not feed any indicator, so they are supplied directly
// to Snapshot rather than threaded through here.
func (a *Aggregator) Ingest(lastPrice engine.Price, tickVolume engine.Volume) {
	a.prices.push(lastPrice)
	a.volumes.push(tickVolume)

	if !a.havePrev {
		a.prevClose = lastPrice
		a.havePrev = true
		return
	}

	tr := trueRange(lastPrice, a.prevClose)
	a.advanceATR(tr)

	diff := int64(lastPrice) - int64(a.prevClose)
	var gain, loss engine.Price
	if diff > 0 {
		gain = engine.Price(diff)
	} else {
		loss = engine.Price(-diff)
	}
	a.advanceRSI(gain, loss)

	a.prevClose = lastPrice
}

func (a *Aggregator) advanceATR(tr engine.Price) {
	if !a.atrReady {
		a.atrWarm = append(a.atrWarm, tr)
		if len(a.atrWarm) < atrLen {
			return
		}
		var sum int64
		for _, v := range a.atrWarm {
			sum += int64(v)
		}
		a.atr = engine.Price(sum / atrLen)
		a.atrReady = true
		a.atrWarm = nil
		return
	}
	a.atr = wilderSmooth(a.atr, tr, atrLen)
}

func (a *Aggregator) advanceRSI(gain, loss engine.Price) {
	if !a.rsiReady {
		a.rsiGainWarm = append(a.rsiGainWarm, gain)
		a.rsiLossWarm = append(a.rsiLossWarm, loss)
		if len(a.rsiGainWarm) < rsiLen {
			return
		}
		var sumG, sumL int64
		for i := range a.rsiGainWarm {
			sumG += int64(a.rsiGainWarm[i])
			sumL += int64(a.rsiLossWarm[i])
		}
		a.avgGain = engine.Price(sumG / rsiLen)
		a.avgLoss = engine.Price(sumL / rsiLen)
		a.rsiReady = true
		a.rsiGainWarm, a.rsiLossWarm = nil, nil
		return
	}
	a.avgGain = wilderSmooth(a.avgGain, gain, rsiLen)
	a.avgLoss = wilderSmooth(a.avgLoss, loss, rsiLen)
}

func (a *Aggregator) rsi() engine.Price {
	if !a.rsiReady {
		return engine.Price(50 * fixedpoint.Scale)
	}
	denom := int64(a.avgGain) + int64(a.avgLoss)
	if denom == 0 {
		return engine.Price(50 * fixedpoint.Scale)
	}
	return engine.Price(divWidenSigned(int64(a.avgGain), uint64(denom), 100*fixedpoint.Scale))
}

// Snapshot computes the full indicator set from current history plus the
// top-K book levels supplied by the caller, and returns the immutable
// per-tick view. The caller (the scheduler) is responsible for publishing
// it by reference and never mutating it afterward.
func (a *Aggregator) Snapshot(tick, totalTicks uint64, tradingEnabled bool, feePPM uint32, tickVolume, takerBuy, takerSell engine.Volume, bids, asks []engine.LevelView) Snapshot {
	priceHistory := a.prices.snapshot()
	volumeHistory := a.volumes.snapshot()

	ma5, ma5Ready := movingAverage(priceHistory, maShort)
	ma20, ma20Ready := movingAverage(priceHistory, maMid)
	ma60, ma60Ready := movingAverage(priceHistory, maLong)
	high20, low20 := highLow(priceHistory, hlWindow)
	a.prevVWAP = vwap(priceHistory, volumeHistory, vwapWin, a.prevVWAP)
	sd := populationStdDev(priceHistory, sdWindow)

	var lastPrice engine.Price
	if n := len(priceHistory); n > 0 {
		lastPrice = priceHistory[n-1]
	}

	return Snapshot{
		Tick:             tick,
		TotalTicks:       totalTicks,
		TradingEnabled:   tradingEnabled,
		FeePPM:           feePPM,
		LastPrice:        lastPrice,
		TickVolume:       tickVolume,
		TakerBuyVolume:   takerBuy,
		TakerSellVolume:  takerSell,
		Bids:             bids,
		Asks:             asks,
		HistoryPrices:    priceHistory,
		HistoryVolumes:   volumeHistory,
		Indicators: Indicators{
			MA5: ma5, MA5Ready: ma5Ready,
			MA20: ma20, MA20Ready: ma20Ready,
			MA60: ma60, MA60Ready: ma60Ready,
			High20: high20, Low20: low20,
			VWAP:            a.prevVWAP,
			StdDev20:        sd,
			ATR14:           a.atr,
			RSI14:           a.rsi(),
			OrderImbalance:  orderImbalance(bids, asks),
		},
	}
}
