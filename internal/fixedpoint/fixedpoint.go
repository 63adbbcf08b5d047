// Package fixedpoint implements the integer-micros numeric substrate used
// by the matching engine and settlement. No float32/float64 crosses this
// package's API except at the to_micros/from_micros boundary functions.
package fixedpoint

import (
	"math"
	"math/bits"
)

// Scale is the number of micros in one decimal unit (S in the spec).
const Scale int64 = 1_000_000

// Micros is a signed fixed-point value in units of 1e-6. It backs both
// Price and any notional/fee/cash quantity derived from a Price.
type Micros int64

// ToMicros converts a decimal value to its micros representation, rounding
// to the nearest integer micro. Boundary-only: never called below the
// matching engine or settlement layer.
func ToMicros(d float64) Micros {
	return Micros(math.Round(d * float64(Scale)))
}

// FromMicros converts a micros value back to a decimal float64. Boundary-only.
func FromMicros(m Micros) float64 {
	return float64(m) / float64(Scale)
}

// Decimal is a convenience method equivalent to FromMicros(m).
func (m Micros) Decimal() float64 {
	return FromMicros(m)
}

// mulDivTrunc computes trunc((a*b)/d) widened to 128 bits, where a may be
// negative, b and d are non-negative. Division truncates toward zero.
func mulDivTrunc(a int64, b uint64, d int64) int64 {
	neg := a < 0
	ua := uint64(a)
	if neg {
		ua = uint64(-a)
	}
	hi, lo := bits.Mul64(ua, b)
	q, _ := bits.Div64(hi, lo, uint64(d))
	if neg {
		return -int64(q)
	}
	return int64(q)
}

// Cost computes the notional cost of a trade of price p (micros) and
// volume v: trunc((p*v)/Scale). Widened to 128 bits before the divide, per
// the Cost-safety property (P3): exact rational (p*v)/Scale, truncated
// toward zero. The bound on representable notional follows directly from
// bits.Div64's requirement that the widened high word be smaller than the
// divisor; callers must respect the P/V ranges documented in the spec.
//
// Note the division by Scale already cancels p's micros scaling, so the
// result is a plain whole-currency-unit count, not a further micros value:
// Cost(price=100_000_000 /* 100.0 */, v=10) == 1000. Every quantity derived
// from Cost (settlement cash deltas, realized/unrealized PnL, equity)
// therefore lives in this same whole-unit space, not in price-micros — do
// not pass those values through FromMicros a second time.
func Cost(p Micros, v uint64) Micros {
	return Micros(mulDivTrunc(int64(p), v, Scale))
}

// Fee computes the fee on a notional cost at feePPM parts-per-million,
// always rounding up (ceil) to avoid systematic under-charging: add
// (Scale-1) to the widened numerator before dividing.
func Fee(cost Micros, feePPM uint32) Micros {
	c := int64(cost)
	neg := c < 0
	uc := uint64(c)
	if neg {
		uc = uint64(-c)
	}
	hi, lo := bits.Mul64(uc, uint64(feePPM))
	lo2, carry := bits.Add64(lo, uint64(Scale-1), 0)
	hi2 := hi + carry
	q, _ := bits.Div64(hi2, lo2, uint64(Scale))
	if neg {
		return Micros(-int64(q))
	}
	return Micros(q)
}

// ISqrt returns floor(sqrt(n)) via Newton's method on integers, used by the
// aggregator for population standard deviation without touching float64.
func ISqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}

// SumSquares widens each (value-mean) before squaring so large price swings
// cannot overflow int64, accumulating into a 128-bit (hi, lo) pair.
func SumSquares(values []Micros, mean Micros) (hi, lo uint64) {
	for _, v := range values {
		diff := int64(v) - int64(mean)
		ud := uint64(diff)
		if diff < 0 {
			ud = uint64(-diff)
		}
		h, l := bits.Mul64(ud, ud)
		var carry uint64
		lo, carry = bits.Add64(lo, l, 0)
		hi += h + carry
	}
	return hi, lo
}
