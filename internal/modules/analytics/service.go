package analytics

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/stockfolio/internal/modules/prices"
	"github.com/aristath/stockfolio/internal/modules/trading"
)

// Service wires the pure analytics engine to the trade ledger and price
// history repositories.
type Service struct {
	trades *trading.TradeRepository
	prices *prices.Repository
	cfg    Config
	log    zerolog.Logger
}

// NewService creates a new analytics service
func NewService(trades *trading.TradeRepository, priceRepo *prices.Repository, cfg Config, log zerolog.Logger) *Service {
	return &Service{
		trades: trades,
		prices: priceRepo,
		cfg:    cfg,
		log:    log.With().Str("service", "analytics").Logger(),
	}
}

// PeriodReturns computes per-symbol percentage returns over the requested
// period labels. A nil symbol list means every symbol in the ledger; a nil
// period list means all supported periods.
func (s *Service) PeriodReturns(symbols []string, periods []string) (map[string]map[string]float64, error) {
	if len(periods) == 0 {
		periods = Periods
	}

	if len(symbols) == 0 {
		var err error
		symbols, err = s.ledgerSymbols()
		if err != nil {
			return nil, err
		}
	}
	if len(symbols) == 0 {
		return map[string]map[string]float64{}, nil
	}

	bars, err := s.prices.GetBySymbols(symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}

	return PeriodReturns(bars, symbols, periods), nil
}

// RiskMetrics computes the portfolio's risk report. Non-positive overrides
// fall back to the configured defaults.
func (s *Service) RiskMetrics(lookbackDays int, riskFreeRate float64) (RiskMetrics, error) {
	cfg := s.cfg
	if lookbackDays > 0 {
		cfg.LookbackDays = lookbackDays
	}
	if riskFreeRate > 0 {
		cfg.RiskFreeRate = riskFreeRate
	}

	trades, bars, err := s.loadLedgerAndPrices()
	if err != nil {
		return RiskMetrics{}, err
	}

	return ComputeRiskMetrics(trades, bars, cfg), nil
}

// DailyPositions reconstructs the daily holdings table, truncated to the
// configured lookback window.
func (s *Service) DailyPositions() ([]DailyPosition, error) {
	trades, bars, err := s.loadLedgerAndPrices()
	if err != nil {
		return nil, err
	}

	table := BuildDailyPositions(trades, bars)
	return TruncatePositions(table, s.cfg.LookbackDays), nil
}

// DailyReturn is one observation of the portfolio's daily return series.
type DailyReturn struct {
	Date   string  `json:"date"`
	Return float64 `json:"return"`
}

// DailyReturns computes the portfolio's daily fractional return series over
// the configured lookback window.
func (s *Service) DailyReturns() ([]DailyReturn, error) {
	trades, bars, err := s.loadLedgerAndPrices()
	if err != nil {
		return nil, err
	}

	table := BuildDailyPositions(trades, bars)
	dates, returns := DailyPortfolioReturns(table, s.cfg.LookbackDays)

	series := make([]DailyReturn, len(dates))
	for i := range dates {
		series[i] = DailyReturn{Date: dates[i], Return: returns[i]}
	}
	return series, nil
}

// PnL marks every buy against its symbol's latest close, grouped per symbol.
func (s *Service) PnL() (map[string][]TradePnL, error) {
	trades, err := s.trades.GetAllOrdered()
	if err != nil {
		return nil, fmt.Errorf("failed to load trade ledger: %w", err)
	}

	latest, err := s.prices.GetLatestCloses()
	if err != nil {
		return nil, fmt.Errorf("failed to load latest closes: %w", err)
	}

	return BuyTradePnL(trades, latest), nil
}

func (s *Service) loadLedgerAndPrices() ([]trading.Trade, []prices.PriceBar, error) {
	trades, err := s.trades.GetAllOrdered()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load trade ledger: %w", err)
	}

	bars, err := s.prices.GetAllOrdered()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load price history: %w", err)
	}

	return trades, bars, nil
}

func (s *Service) ledgerSymbols() ([]string, error) {
	trades, err := s.trades.GetAllOrdered()
	if err != nil {
		return nil, fmt.Errorf("failed to load trade ledger: %w", err)
	}

	seen := make(map[string]struct{})
	var symbols []string
	for _, trade := range trades {
		if _, ok := seen[trade.Symbol]; ok {
			continue
		}
		seen[trade.Symbol] = struct{}{}
		symbols = append(symbols, trade.Symbol)
	}
	return symbols, nil
}
