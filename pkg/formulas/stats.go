// Package formulas implements the financial math used by the analytics engine.
// All functions are pure and operate on plain float64 slices.
package formulas

import (
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualization base for daily return series.
const TradingDaysPerYear = 252

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of float64 values.
// Fewer than two observations have no defined sample deviation; 0 is returned.
func StdDev(data []float64) float64 {
	return math.Sqrt(Variance(data))
}

// Variance calculates the sample variance of a slice of float64 values
func Variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.Variance(data, nil)
}

// AnnualizedVolatility calculates annualized volatility from daily returns.
// Formula: Std Dev of Daily Returns × sqrt(252 trading days)
func AnnualizedVolatility(dailyReturns []float64) float64 {
	return StdDev(dailyReturns) * math.Sqrt(TradingDaysPerYear)
}

// PercentChange converts a value series into a same-length series of
// fractional day-over-day changes. The first element is always 0 (no prior
// observation) and a zero prior value yields 0 rather than a division error.
func PercentChange(values []float64) []float64 {
	if len(values) == 0 {
		return []float64{}
	}

	changes := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		if values[i-1] != 0 {
			changes[i] = (values[i] - values[i-1]) / values[i-1]
		}
	}

	return changes
}

// CompoundGrowth returns the cumulative growth factor of a return series,
// i.e. the product of (1 + r) over all observations.
func CompoundGrowth(returns []float64) float64 {
	growth := 1.0
	for _, r := range returns {
		growth *= 1 + r
	}
	return growth
}

// CumulativeReturns converts a daily return series into a cumulative
// compounded return series: cum[i] = prod(1 + r[0..i]) - 1.
func CumulativeReturns(returns []float64) []float64 {
	cumulative := make([]float64, len(returns))
	growth := 1.0
	for i, r := range returns {
		growth *= 1 + r
		cumulative[i] = growth - 1
	}
	return cumulative
}

// AnnualizedReturn compounds a periodic return series to an annual rate:
// (1 + total)^(periodsPerYear / n) - 1.
func AnnualizedReturn(returns []float64, periodsPerYear int) float64 {
	if len(returns) == 0 {
		return 0
	}

	total := CompoundGrowth(returns) - 1
	exponent := float64(periodsPerYear) / float64(len(returns))
	return math.Pow(1+total, exponent) - 1
}

// Round rounds a value to the given number of decimal places using decimal
// arithmetic, so reported percentages don't carry float artifacts.
// Non-finite values collapse to 0, matching the engine's division-by-zero
// defaults.
func Round(value float64, places int32) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return decimal.NewFromFloat(value).Round(places).InexactFloat64()
}
