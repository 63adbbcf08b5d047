package aggregator

import (
	"fenrir/internal/engine"
	"fenrir/internal/fixedpoint"
)

const (
	maShort  = 5
	maMid    = 20
	maLong   = 60
	hlWindow = 20
	sdWindow = 20
	vwapWin  = 20
	atrLen   = 14
	rsiLen   = 14
)

// movingAverage returns the arithmetic mean of the last `window` values and
// whether the window was full (ready). An empty or partial window publishes the
// neutral sentinel 0 with ready=false, per the spec's "undefined until the
// window is full" rule.
func movingAverage(values []engine.Price, window int) (engine.Price, bool) {
	if len(values) < window {
		return 0, false
	}
	recent := values[len(values)-window:]
	var sum int64
	for _, v := range recent {
		sum += int64(v)
	}
	return engine.Price(sum / int64(window)), true
}

// highLow returns the max and min of the last `window` values; zero/zero if
// the ring holds nothing yet.
func highLow(values []engine.Price, window int) (high, low engine.Price) {
	if len(values) == 0 {
		return 0, 0
	}
	recent := values
	if len(recent) > window {
		recent = recent[len(recent)-window:]
	}
	high, low = recent[0], recent[0]
	for _, v := range recent[1:] {
		if v > high {
			high = v
		}
		if v < low {
			low = v
		}
	}
	return high, low
}

// vwap computes Σ(price·volume)/Σ(volume) over the last `window` ticks,
// widened to 128 bits. prevVWAP is published unchanged when the volume
// denominator is zero.
func vwap(prices []engine.Price, volumes []engine.Volume, window int, prevVWAP engine.Price) engine.Price {
	n := len(prices)
	if n == 0 {
		return prevVWAP
	}
	if n > window {
		prices = prices[n-window:]
		volumes = volumes[n-window:]
	}

	var sumVol uint64
	var accHi, accLo uint64
	for i, p := range prices {
		v := uint64(volumes[i])
		sumVol += v
		h, l := mulWiden(int64(p), v)
		var carry uint64
		accLo, carry = addCarry(accLo, l)
		accHi += h + carry
	}
	if sumVol == 0 {
		return prevVWAP
	}
	q := divWiden(accHi, accLo, sumVol)
	return engine.Price(q)
}

// populationStdDev computes the population standard deviation of the last
// `window` values using integer Newton-iteration sqrt (fixedpoint.ISqrt),
// never touching float64.
func populationStdDev(values []engine.Price, window int) engine.Price {
	n := len(values)
	if n == 0 {
		return 0
	}
	if n > window {
		values = values[n-window:]
		n = window
	}
	var sum int64
	for _, v := range values {
		sum += int64(v)
	}
	mean := fixedpoint.Micros(sum / int64(n))

	micrValues := make([]fixedpoint.Micros, n)
	for i, v := range values {
		micrValues[i] = fixedpoint.Micros(v)
	}
	hi, lo := fixedpoint.SumSquares(micrValues, mean)
	variance := divWiden(hi, lo, uint64(n))
	return engine.Price(fixedpoint.ISqrt(variance))
}

// trueRange computes Wilder's true range for a tick where only a closing
// price is observed (no distinct intra-tick high/low): TR degenerates to
// the absolute move from the previous close.
func trueRange(price, prevClose engine.Price) engine.Price {
	diff := int64(price) - int64(prevClose)
	if diff < 0 {
		diff = -diff
	}
	return engine.Price(diff)
}

// wilderSmooth applies Wilder's smoothing: new = prev + (value-prev)/n.
func wilderSmooth(prev, value engine.Price, n int64) engine.Price {
	return prev + engine.Price((int64(value)-int64(prev))/n)
}

// orderImbalance computes (Σbid - Σask)/(Σbid + Σask) over the top-K
// levels, in fixed-point, clamped to [-1, 1] and 0 when both sides are empty.
func orderImbalance(bids, asks []engine.LevelView) int64 {
	var sumBid, sumAsk uint64
	for _, l := range bids {
		sumBid += uint64(l.Volume)
	}
	for _, l := range asks {
		sumAsk += uint64(l.Volume)
	}
	denom := sumBid + sumAsk
	if denom == 0 {
		return 0
	}
	num := int64(sumBid) - int64(sumAsk)
	q := divWidenSigned(num, denom, fixedpoint.Scale)
	if q > fixedpoint.Scale {
		q = fixedpoint.Scale
	}
	if q < -fixedpoint.Scale {
		q = -fixedpoint.Scale
	}
	return q
}
