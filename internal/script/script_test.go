package script_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fenrir/internal/account"
	"fenrir/internal/aggregator"
	"fenrir/internal/fixedpoint"
	"fenrir/internal/script"
)

func TestScriptedAgentFuncDelegates(t *testing.T) {
	called := false
	agent := script.ScriptedAgentFunc(func(m script.MarketView, a script.AccountView) []script.Decision {
		called = true
		return []script.Decision{{Action: script.Buy, OrderType: script.Limit, Price: m.LastPrice, Amount: 1}}
	})

	decisions := agent.Decide(script.MarketView{LastPrice: 100.0}, script.AccountView{})
	assert.True(t, called)
	assert.Len(t, decisions, 1)
	assert.Equal(t, script.Buy, decisions[0].Action)
}

func TestDecisionIsNoOp(t *testing.T) {
	assert.True(t, script.Decision{}.IsNoOp())
	assert.False(t, script.Decision{Action: script.Buy}.IsNoOp())
	id := uint64(5)
	assert.False(t, script.Decision{Cancel: &id}.IsNoOp())
}

func TestNewMarketViewConvertsMicrosToDecimal(t *testing.T) {
	agg := aggregator.New(256, 5)
	agg.Ingest(fixedpoint.ToMicros(100.0), 10)
	snap := agg.Snapshot(0, 1000, true, 300, 10, 6, 4, nil, nil)

	mv := script.NewMarketView(snap, 300)
	assert.Equal(t, 100.0, mv.LastPrice)
	assert.InDelta(t, 0.0003, mv.FeeRate, 1e-9)
	assert.Equal(t, uint64(6), mv.TakerBuyVolume)
}

func TestNewAccountViewConvertsMicrosToDecimal(t *testing.T) {
	// Cash lives in fixedpoint.Cost's whole-currency-unit space, not
	// price-micros: pass the raw amount, not ToMicros(1000.0).
	a := account.New(1, 1000, 10)
	a.AvgCost = fixedpoint.ToMicros(10.0)

	av := script.NewAccountView(a, fixedpoint.ToMicros(12.0), 300)
	assert.Equal(t, 1000.0, av.Cash)
	assert.Equal(t, int64(10), av.Stock)
	assert.Equal(t, 10.0, av.AvgCost)
	assert.InDelta(t, 20.0, av.UnrealizedPnL, 1e-9)
	assert.Equal(t, "None", av.LastOrderStatus)
}
