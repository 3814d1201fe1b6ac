// Package analytics implements the portfolio performance analytics engine.
//
// The engine is a pure computation library: it consumes an already-loaded
// trade ledger and price history, and derives daily positions, period
// returns and risk-adjusted performance metrics. It performs no I/O, keeps
// no state between invocations and never logs; degenerate-but-valid inputs
// (thin history, zero prices, no downside days) produce documented defaults
// instead of errors.
package analytics

// DailyPosition is one row of the reconstructed daily holdings table:
// the cumulative quantity held of a symbol on a calendar day, valued at the
// most recent close at or before that day.
type DailyPosition struct {
	Date        string  `json:"date"`
	Symbol      string  `json:"symbol"`
	Quantity    float64 `json:"quantity"`
	Close       float64 `json:"close"`
	MarketValue float64 `json:"market_value"`
	Weight      float64 `json:"weight"`
}

// RiskMetrics is the fixed-shape risk report for a portfolio return series.
// Percentages carry two decimal places; date fields are nil when the series
// is too thin to locate a drawdown.
type RiskMetrics struct {
	SharpeRatio       float64 `json:"sharpe_ratio"`
	SortinoRatio      float64 `json:"sortino_ratio"`
	MaxDrawdown       float64 `json:"max_drawdown"` // always <= 0
	DrawdownStartDate *string `json:"drawdown_start_date"`
	DrawdownEndDate   *string `json:"drawdown_end_date"`
	RecoveryDate      *string `json:"recovery_date"`
	DurationDays      int     `json:"duration_days"`
	Volatility        float64 `json:"volatility"` // always >= 0
	AnnualizedReturn  float64 `json:"annualized_return"`
}

// TradePnL is the per-trade unrealized profit view of a single buy,
// marked against the latest known price of its symbol.
type TradePnL struct {
	ID               int64   `json:"id"`
	Side             string  `json:"type"`
	Date             string  `json:"date"`
	Price            float64 `json:"price"`
	Quantity         float64 `json:"quantity"`
	Notional         float64 `json:"notional"`
	UnrealizedProfit float64 `json:"unrealized_profit"`
	ProfitPercent    float64 `json:"profit_percent"`
}

// Periods is the full set of supported lookback period labels.
var Periods = []string{"1D", "1W", "2W", "1M", "3M", "6M", "1Y", "MTD", "YTD"}
