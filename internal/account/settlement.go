package account

import (
	"fenrir/internal/engine"
	"fenrir/internal/fixedpoint"
)

// ApplyTrade settles one Trade event against the taker and maker accounts.
// takerSide is the side of the aggressing order; the maker is always on
// the opposite side. Fee is charged to both legs and always rounds up
// (fixedpoint.Fee), per the spec's anti-dust-trade rounding rule.
func ApplyTrade(taker, maker *Account, takerSide engine.Side, price engine.Price, amount engine.Volume, feePPM uint32) {
	notional := fixedpoint.Cost(price, uint64(amount))
	fee := fixedpoint.Fee(notional, feePPM)

	if takerSide == engine.Bid {
		taker.Cash -= notional + fee
		taker.applyFill(int64(amount), price)

		maker.Cash += notional - fee
		maker.applyFill(-int64(amount), price)
		return
	}

	taker.Cash += notional - fee
	taker.applyFill(-int64(amount), price)

	maker.Cash -= notional + fee
	maker.applyFill(int64(amount), price)
}
