package aggregator

import "math/bits"

// mulWiden widens a*b to 128 bits. Both a (a non-negative Price) and b are
// non-negative; VWAP never sees a negative price.
func mulWiden(a int64, b uint64) (hi, lo uint64) {
	return bits.Mul64(uint64(a), b)
}

func addCarry(a, b uint64) (sum, carry uint64) {
	return bits.Add64(a, b, 0)
}

// divWiden computes floor((hi,lo)/d) for a non-negative 128-bit numerator.
func divWiden(hi, lo, d uint64) uint64 {
	q, _ := bits.Div64(hi, lo, d)
	return q
}

// divWidenSigned computes trunc(num*scale/denom) for a possibly-negative
// numerator and non-negative denom/scale, widened to 128 bits.
func divWidenSigned(num int64, denom uint64, scale int64) int64 {
	neg := num < 0
	un := uint64(num)
	if neg {
		un = uint64(-num)
	}
	hi, lo := bits.Mul64(un, uint64(scale))
	q, _ := bits.Div64(hi, lo, denom)
	if neg {
		return -int64(q)
	}
	return int64(q)
}
