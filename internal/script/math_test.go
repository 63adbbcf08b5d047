package script_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fenrir/internal/script"
)

func TestMeanAndSum(t *testing.T) {
	v := []float64{1, 2, 3, 4}
	assert.Equal(t, 10.0, script.Sum(v))
	assert.Equal(t, 2.5, script.Mean(v))
}

func TestMinMax(t *testing.T) {
	v := []float64{3, 1, 4, 1, 5}
	assert.Equal(t, 1.0, script.Min(v))
	assert.Equal(t, 5.0, script.Max(v))
}

func TestStdDevSampleCorrection(t *testing.T) {
	// {2,4,4,4,5,5,7,9}: population variance differs from sample; this is
	// the textbook sample-stddev example (result ~2.138).
	v := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.1378, script.StdDev(v), 1e-3)
}

func TestSlopeOfLinearSeries(t *testing.T) {
	v := []float64{1, 3, 5, 7, 9}
	assert.InDelta(t, 2.0, script.Slope(v), 1e-9)
}

func TestDotAndVectorOps(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 5, 6}
	assert.Equal(t, 32.0, script.Dot(a, b))
	assert.Equal(t, []float64{5, 7, 9}, script.VAdd(a, b))
	assert.Equal(t, []float64{-3, -3, -3}, script.VSub(a, b))
}
