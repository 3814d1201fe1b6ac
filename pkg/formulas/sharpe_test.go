package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSharpeRatio(t *testing.T) {
	t.Run("too few observations", func(t *testing.T) {
		assert.Equal(t, 0.0, SharpeRatio([]float64{0.01}, 0.03, TradingDaysPerYear))
	})

	t.Run("constant returns have zero deviation", func(t *testing.T) {
		returns := []float64{0.01, 0.01, 0.01, 0.01}
		assert.Equal(t, 0.0, SharpeRatio(returns, 0.03, TradingDaysPerYear))
	})

	t.Run("steady positive returns give positive ratio", func(t *testing.T) {
		returns := make([]float64, 60)
		for i := range returns {
			returns[i] = 0.01
		}
		returns[30] = 0.011 // tiny wiggle so deviation is nonzero

		assert.Greater(t, SharpeRatio(returns, 0.03, TradingDaysPerYear), 0.0)
	})

	t.Run("losses give negative ratio", func(t *testing.T) {
		returns := []float64{-0.01, -0.02, -0.015, -0.005, -0.01}
		assert.Less(t, SharpeRatio(returns, 0.03, TradingDaysPerYear), 0.0)
	})
}

func TestSortinoRatio(t *testing.T) {
	t.Run("no downside days saturates to sentinel", func(t *testing.T) {
		returns := make([]float64, 60)
		for i := range returns {
			returns[i] = 0.01
		}

		assert.Equal(t, NoDownsideSentinel, SortinoRatio(returns, 0.03, TradingDaysPerYear))
	})

	t.Run("single downside day has zero downside deviation", func(t *testing.T) {
		returns := []float64{0.01, 0.02, -0.01, 0.01, 0.02}
		assert.Equal(t, 0.0, SortinoRatio(returns, 0.03, TradingDaysPerYear))
	})

	t.Run("identical downside days have zero downside deviation", func(t *testing.T) {
		returns := []float64{0.02, -0.01, 0.02, -0.01, 0.02}
		assert.Equal(t, 0.0, SortinoRatio(returns, 0.03, TradingDaysPerYear))
	})

	t.Run("mixed returns give finite ratio", func(t *testing.T) {
		returns := []float64{0.02, -0.01, 0.015, -0.02, 0.01, -0.005, 0.02}
		ratio := SortinoRatio(returns, 0.03, TradingDaysPerYear)
		assert.NotEqual(t, NoDownsideSentinel, ratio)
		assert.NotEqual(t, 0.0, ratio)
	})
}
