package aggregator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir/internal/aggregator"
	"fenrir/internal/engine"
	"fenrir/internal/fixedpoint"
)

func mp(d float64) engine.Price { return fixedpoint.ToMicros(d) }

func TestMovingAverageNotReadyUntilWindowFull(t *testing.T) {
	agg := aggregator.New(256, 5)
	for i := 0; i < 4; i++ {
		agg.Ingest(mp(100.0), 1)
	}
	snap := agg.Snapshot(0, 100, true, 0, 1, 1, 0, nil, nil)
	assert.False(t, snap.Indicators.MA5Ready)

	agg.Ingest(mp(100.0), 1)
	snap = agg.Snapshot(0, 100, true, 0, 1, 1, 0, nil, nil)
	assert.True(t, snap.Indicators.MA5Ready)
	assert.Equal(t, mp(100.0), snap.Indicators.MA5)
}

func TestHighLow20(t *testing.T) {
	agg := aggregator.New(256, 5)
	prices := []float64{100, 102, 98, 105, 95}
	for _, p := range prices {
		agg.Ingest(mp(p), 1)
	}
	snap := agg.Snapshot(0, 100, true, 0, 1, 1, 0, nil, nil)
	assert.Equal(t, mp(105), snap.Indicators.High20)
	assert.Equal(t, mp(95), snap.Indicators.Low20)
}

func TestVWAPZeroVolumeKeepsPrevious(t *testing.T) {
	agg := aggregator.New(256, 5)
	agg.Ingest(mp(100.0), 10)
	first := agg.Snapshot(0, 100, true, 0, 10, 10, 0, nil, nil)
	require.NotZero(t, first.Indicators.VWAP)

	agg.Ingest(mp(200.0), 0)
	second := agg.Snapshot(1, 100, true, 0, 0, 0, 0, nil, nil)
	assert.Equal(t, first.Indicators.VWAP, second.Indicators.VWAP)
}

func TestStdDevZeroForConstantPrices(t *testing.T) {
	agg := aggregator.New(256, 5)
	for i := 0; i < 25; i++ {
		agg.Ingest(mp(50.0), 1)
	}
	snap := agg.Snapshot(0, 100, true, 0, 1, 1, 0, nil, nil)
	assert.Equal(t, engine.Price(0), snap.Indicators.StdDev20)
}

func TestOrderImbalanceBounds(t *testing.T) {
	agg := aggregator.New(256, 5)
	bids := []engine.LevelView{{Price: mp(99), Volume: 100}}
	asks := []engine.LevelView{{Price: mp(101), Volume: 0}}
	snap := agg.Snapshot(0, 100, true, 0, 0, 0, 0, bids, asks)
	assert.Equal(t, int64(fixedpoint.Scale), snap.Indicators.OrderImbalance)

	empty := agg.Snapshot(0, 100, true, 0, 0, 0, 0, nil, nil)
	assert.Equal(t, int64(0), empty.Indicators.OrderImbalance)
}

func TestRSINeutralBeforeWarmup(t *testing.T) {
	agg := aggregator.New(256, 5)
	agg.Ingest(mp(100.0), 1)
	snap := agg.Snapshot(0, 100, true, 0, 1, 1, 0, nil, nil)
	assert.Equal(t, engine.Price(50*fixedpoint.Scale), snap.Indicators.RSI14)
}

func TestRSIAllGainsReachesCeiling(t *testing.T) {
	agg := aggregator.New(256, 5)
	price := 100.0
	for i := 0; i < 20; i++ {
		agg.Ingest(mp(price), 1)
		price++
	}
	snap := agg.Snapshot(0, 100, true, 0, 1, 1, 0, nil, nil)
	assert.Equal(t, engine.Price(100*fixedpoint.Scale), snap.Indicators.RSI14)
}

func TestHistoryRingBoundedAtCapacity(t *testing.T) {
	agg := aggregator.New(4, 5)
	for i := 0; i < 10; i++ {
		agg.Ingest(mp(float64(i)), 1)
	}
	snap := agg.Snapshot(0, 100, true, 0, 1, 1, 0, nil, nil)
	assert.Len(t, snap.HistoryPrices, 4)
	assert.Equal(t, mp(9), snap.HistoryPrices[3])
}
