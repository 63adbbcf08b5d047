package fixedpoint_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"fenrir/internal/fixedpoint"
)

// TestRoundTrip exercises P2: from_micros(to_micros(d)) == d for decimals
// with up to 6 fractional digits.
func TestRoundTrip(t *testing.T) {
	cases := []float64{0, 1, -1, 100.5, 100.123456, -42.000001, 999999.999999}
	for _, d := range cases {
		got := fixedpoint.FromMicros(fixedpoint.ToMicros(d))
		assert.InDelta(t, d, got, 1e-9, "round trip for %v", d)
	}
}

func TestCostExactRational(t *testing.T) {
	cases := []struct {
		p    fixedpoint.Micros
		v    uint64
		want fixedpoint.Micros
	}{
		{100_000_000, 10, 1000},
		{0, 1000, 0},
		{1, 1, 0},
		{1_999_999, 1, 1},
		{100_000_000, 0, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, fixedpoint.Cost(c.p, c.v))
	}
}

func TestCostMatchesBigRational(t *testing.T) {
	p := fixedpoint.Micros(9_000_000_000_000)
	v := uint64(900_000)
	got := fixedpoint.Cost(p, v)
	want := int64(math.Trunc(float64(p) * float64(v) / float64(fixedpoint.Scale)))
	assert.InDelta(t, want, int64(got), float64(want)*1e-9+1)
}

func TestFeeRoundsUp(t *testing.T) {
	// notional=1000, ppm=10000 (1%) -> fee=10 exactly.
	assert.Equal(t, fixedpoint.Micros(10), fixedpoint.Fee(1000, 10_000))
	// Dust case: notional=1, ppm=1 -> fee must round up to 1, not truncate to 0.
	assert.Equal(t, fixedpoint.Micros(1), fixedpoint.Fee(1, 1))
	// Zero fee policy never charges.
	assert.Equal(t, fixedpoint.Micros(0), fixedpoint.Fee(1000, 0))
}

func TestISqrt(t *testing.T) {
	cases := []struct {
		n    uint64
		want uint64
	}{
		{0, 0}, {1, 1}, {4, 2}, {15, 3}, {16, 4}, {1_000_000, 1000},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, fixedpoint.ISqrt(c.n))
	}
}

func TestSumSquares(t *testing.T) {
	values := []fixedpoint.Micros{1, 2, 3, 4, 5}
	hi, lo := fixedpoint.SumSquares(values, 3)
	assert.Equal(t, uint64(0), hi)
	// (1-3)^2+(2-3)^2+(3-3)^2+(4-3)^2+(5-3)^2 = 4+1+0+1+4 = 10
	assert.Equal(t, uint64(10), lo)
}
