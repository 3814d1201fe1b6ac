package analytics

import (
	"math"
	"time"

	"github.com/aristath/stockfolio/internal/modules/prices"
	"github.com/aristath/stockfolio/internal/modules/trading"
	"github.com/aristath/stockfolio/pkg/formulas"
)

// Config carries the analytics parameters. There are no ambient defaults in
// the engine; callers thread an explicit Config into every computation.
type Config struct {
	RiskFreeRate    float64 // Annual risk-free rate as a decimal (0.03 = 3%)
	LookbackDays    int     // Return observations used for risk metrics
	MinObservations int     // Floor below which metrics degrade to defaults
}

// DefaultConfig returns the standard parameters: 3% risk-free rate, one
// trading year of history, 50-observation floor.
func DefaultConfig() Config {
	return Config{
		RiskFreeRate:    0.03,
		LookbackDays:    formulas.TradingDaysPerYear,
		MinObservations: 50,
	}
}

// MetricStatus tags how a metric value came to be.
type MetricStatus string

const (
	// MetricComputed - the value is a genuine estimate from the data
	MetricComputed MetricStatus = "computed"
	// MetricInsufficientData - too few observations, the documented default is reported
	MetricInsufficientData MetricStatus = "insufficient_data"
	// MetricDegenerate - the data is valid but the formula's denominator vanishes
	MetricDegenerate MetricStatus = "degenerate"
)

// MetricValue is a single metric outcome with its provenance. Every status
// carries a reportable Value, so callers can always emit the fixed-shape
// report without re-deriving defaults.
type MetricValue struct {
	Status MetricStatus
	Value  float64
	Reason string
}

func computed(value float64) MetricValue {
	return MetricValue{Status: MetricComputed, Value: value}
}

func degenerate(value float64, reason string) MetricValue {
	return MetricValue{Status: MetricDegenerate, Value: value, Reason: reason}
}

// insufficientSample is the single guard applied before every metric:
// fewer than MinObservations return observations make any estimate
// statistically meaningless, so the metric's default is reported instead.
func (cfg Config) insufficientSample(n int) (MetricValue, bool) {
	if n < cfg.MinObservations {
		return MetricValue{Status: MetricInsufficientData, Reason: "fewer observations than the configured minimum"}, true
	}
	return MetricValue{}, false
}

// SharpeMetric computes the annualized Sharpe ratio of a daily return series.
func SharpeMetric(returns []float64, cfg Config) MetricValue {
	if mv, short := cfg.insufficientSample(len(returns)); short {
		return mv
	}

	periodicRiskFree := cfg.RiskFreeRate / formulas.TradingDaysPerYear
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - periodicRiskFree
	}
	if formulas.StdDev(excess) == 0 {
		return degenerate(0, "zero excess-return deviation")
	}

	return computed(formulas.Round(formulas.SharpeRatio(returns, cfg.RiskFreeRate, formulas.TradingDaysPerYear), 2))
}

// SortinoMetric computes the Sortino ratio of a daily return series. A
// series without any negative day saturates to the sentinel; downside
// deviation of exactly zero (including a lone negative day) reports 0.
func SortinoMetric(returns []float64, cfg Config) MetricValue {
	if mv, short := cfg.insufficientSample(len(returns)); short {
		return mv
	}

	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if len(downside) == 0 {
		return degenerate(formulas.NoDownsideSentinel, "no downside days")
	}
	if formulas.StdDev(downside) == 0 {
		return degenerate(0, "zero downside deviation")
	}

	return computed(formulas.Round(formulas.SortinoRatio(returns, cfg.RiskFreeRate, formulas.TradingDaysPerYear), 2))
}

// VolatilityMetric computes annualized volatility as a percentage.
func VolatilityMetric(returns []float64, cfg Config) MetricValue {
	if mv, short := cfg.insufficientSample(len(returns)); short {
		return mv
	}
	return computed(formulas.Round(formulas.AnnualizedVolatility(returns)*100, 2))
}

// AnnualizedReturnMetric computes the geometrically compounded annual return
// as a percentage.
func AnnualizedReturnMetric(returns []float64, cfg Config) MetricValue {
	if mv, short := cfg.insufficientSample(len(returns)); short {
		return mv
	}
	return computed(formulas.Round(formulas.AnnualizedReturn(returns, formulas.TradingDaysPerYear)*100, 2))
}

// DrawdownReport locates the maximum drawdown of a return series on its
// date axis.
type DrawdownReport struct {
	Status       MetricStatus
	MaxDrawdown  float64 // percentage, always <= 0
	StartDate    *string
	EndDate      *string
	RecoveryDate *string // nil when the series never regains the peak
	DurationDays int
}

// MaxDrawdownMetric computes the maximum drawdown of a dated daily return
// series. Duration runs from the pre-drawdown peak to the recovery date, or
// to the end of the series when the drawdown never recovers.
func MaxDrawdownMetric(dates []string, returns []float64, cfg Config) DrawdownReport {
	if mv, short := cfg.insufficientSample(len(returns)); short {
		return DrawdownReport{Status: mv.Status}
	}

	points := formulas.MaxDrawdown(returns)

	startDate := dates[points.PeakIndex]
	endDate := dates[points.TroughIndex]

	report := DrawdownReport{
		Status:      MetricComputed,
		MaxDrawdown: formulas.Round(points.MaxDrawdown*100, 2),
		StartDate:   &startDate,
		EndDate:     &endDate,
	}

	if points.RecoveryIndex >= 0 {
		recoveryDate := dates[points.RecoveryIndex]
		report.RecoveryDate = &recoveryDate
		report.DurationDays = daysBetween(startDate, recoveryDate)
	} else {
		report.DurationDays = daysBetween(startDate, dates[len(dates)-1])
	}

	return report
}

// ComputeRiskMetrics derives the full fixed-shape risk report from a trade
// ledger and price history: positions are reconstructed, folded into the
// portfolio's daily return series (trailing LookbackDays observations), and
// each metric is computed behind the shared insufficient-sample guard.
func ComputeRiskMetrics(trades []trading.Trade, bars []prices.PriceBar, cfg Config) RiskMetrics {
	table := BuildDailyPositions(trades, bars)
	dates, returns := DailyPortfolioReturns(table, cfg.LookbackDays)

	drawdown := MaxDrawdownMetric(dates, returns, cfg)

	return RiskMetrics{
		SharpeRatio:       SharpeMetric(returns, cfg).Value,
		SortinoRatio:      SortinoMetric(returns, cfg).Value,
		MaxDrawdown:       drawdown.MaxDrawdown,
		DrawdownStartDate: drawdown.StartDate,
		DrawdownEndDate:   drawdown.EndDate,
		RecoveryDate:      drawdown.RecoveryDate,
		DurationDays:      drawdown.DurationDays,
		Volatility:        VolatilityMetric(returns, cfg).Value,
		AnnualizedReturn:  AnnualizedReturnMetric(returns, cfg).Value,
	}
}

func daysBetween(a, b string) int {
	start, err := time.Parse(dateLayout, a)
	if err != nil {
		return 0
	}
	end, err := time.Parse(dateLayout, b)
	if err != nil {
		return 0
	}
	return int(math.Round(end.Sub(start).Hours() / 24))
}
