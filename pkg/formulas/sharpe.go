package formulas

import (
	"math"
)

// NoDownsideSentinel is reported as the Sortino ratio when a return series
// contains no negative observations at all. A downside deviation of zero has
// no meaningful ratio, so the value saturates instead.
const NoDownsideSentinel = 999.99

// SharpeRatio calculates the annualized Sharpe ratio of a periodic return
// series.
//
// Sharpe = mean(excess returns) / stddev(excess returns) × sqrt(periodsPerYear)
//
// where excess return is the periodic return minus the periodic risk-free
// rate (annual rate / periodsPerYear). A series with zero excess-return
// deviation yields 0.
func SharpeRatio(returns []float64, riskFreeRate float64, periodsPerYear int) float64 {
	if len(returns) < 2 {
		return 0
	}

	periodicRiskFree := riskFreeRate / float64(periodsPerYear)
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - periodicRiskFree
	}

	stdDev := StdDev(excess)
	if stdDev == 0 {
		return 0
	}

	return Mean(excess) / stdDev * math.Sqrt(float64(periodsPerYear))
}

// SortinoRatio calculates the Sortino ratio of a periodic return series.
//
// Sortino = (annualized mean return - risk-free rate) / downside deviation
//
// where downside deviation is the sample standard deviation of the negative
// returns only, annualized by sqrt(periodsPerYear). A series with no negative
// returns saturates to NoDownsideSentinel; a downside deviation of zero
// (including a single negative observation) yields 0.
func SortinoRatio(returns []float64, riskFreeRate float64, periodsPerYear int) float64 {
	if len(returns) < 2 {
		return 0
	}

	annualMean := Mean(returns) * float64(periodsPerYear)

	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}

	if len(downside) == 0 {
		return NoDownsideSentinel
	}

	downsideDeviation := StdDev(downside) * math.Sqrt(float64(periodsPerYear))
	if downsideDeviation == 0 {
		return 0
	}

	return (annualMean - riskFreeRate) / downsideDeviation
}
