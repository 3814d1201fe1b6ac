package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
}

func TestStdDev_FewerThanTwoObservations(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{5}))
}

func TestStdDev_UsesSampleDeviation(t *testing.T) {
	// Sample (n-1) deviation of {2, 4}: sqrt(((2-3)^2 + (4-3)^2) / 1)
	assert.InDelta(t, 1.4142, StdDev([]float64{2, 4}), 0.001)
}

func TestVariance(t *testing.T) {
	assert.Equal(t, 0.0, Variance(nil))
	assert.Equal(t, 0.0, Variance([]float64{5}))
	// Sample (n-1) variance of {2, 4}: ((2-3)^2 + (4-3)^2) / 1
	assert.InDelta(t, 2.0, Variance([]float64{2, 4}), 1e-9)
}

func TestPercentChange(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, PercentChange(nil))
	})

	t.Run("first observation is zero", func(t *testing.T) {
		changes := PercentChange([]float64{100, 110, 99})
		assert.Len(t, changes, 3)
		assert.Equal(t, 0.0, changes[0])
		assert.InDelta(t, 0.10, changes[1], 1e-9)
		assert.InDelta(t, -0.10, changes[2], 1e-9)
	})

	t.Run("zero prior value yields zero", func(t *testing.T) {
		changes := PercentChange([]float64{0, 50})
		assert.Equal(t, 0.0, changes[1])
	})
}

func TestCumulativeReturns(t *testing.T) {
	cum := CumulativeReturns([]float64{0.10, -0.05})
	assert.Len(t, cum, 2)
	assert.InDelta(t, 0.10, cum[0], 1e-9)
	assert.InDelta(t, 0.045, cum[1], 1e-9)
}

func TestAnnualizedReturn(t *testing.T) {
	t.Run("empty series", func(t *testing.T) {
		assert.Equal(t, 0.0, AnnualizedReturn(nil, TradingDaysPerYear))
	})

	t.Run("full year of flat returns compounds exactly", func(t *testing.T) {
		returns := make([]float64, TradingDaysPerYear)
		for i := range returns {
			returns[i] = 0.001
		}
		// (1.001)^252 - 1, exponent is exactly 1
		expected := CompoundGrowth(returns) - 1
		assert.InDelta(t, expected, AnnualizedReturn(returns, TradingDaysPerYear), 1e-9)
	})
}

func TestAnnualizedVolatility_ConstantSeries(t *testing.T) {
	assert.Equal(t, 0.0, AnnualizedVolatility([]float64{0.01, 0.01, 0.01}))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.23, Round(1.2345, 2))
	assert.Equal(t, -5.68, Round(-5.675, 2))
	assert.Equal(t, 0.0, Round(math.NaN(), 2))
	assert.Equal(t, 0.0, Round(math.Inf(1), 2))
}
