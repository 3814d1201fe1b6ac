package portfolio

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/aristath/stockfolio/internal/modules/cashflows"
	"github.com/aristath/stockfolio/internal/modules/prices"
	"github.com/aristath/stockfolio/internal/modules/trading"
	"github.com/aristath/stockfolio/pkg/formulas"
)

// Service assembles the account-level portfolio view from holdings, prices,
// the trade ledger and cash flows.
type Service struct {
	holdings *HoldingRepository
	prices   *prices.Repository
	trades   *trading.TradeRepository
	flows    *cashflows.Repository
	log      zerolog.Logger
}

// NewService creates a new portfolio service
func NewService(
	holdings *HoldingRepository,
	priceRepo *prices.Repository,
	trades *trading.TradeRepository,
	flows *cashflows.Repository,
	log zerolog.Logger,
) *Service {
	return &Service{
		holdings: holdings,
		prices:   priceRepo,
		trades:   trades,
		flows:    flows,
		log:      log.With().Str("service", "portfolio").Logger(),
	}
}

// RecordTrade appends the trade to the ledger and folds it into the current
// holdings. Sells are checked against the held quantity before anything is
// written, so a rejected sell leaves no ledger row behind. A duplicate
// order_id submission is skipped entirely and the position stays untouched.
// Dividend entries touch only the ledger, not the position.
func (s *Service) RecordTrade(trade trading.Trade) error {
	if trade.Side == trading.SideSell {
		held, err := s.heldQuantity(trade.Symbol)
		if err != nil {
			return err
		}
		if held < trade.Quantity {
			return fmt.Errorf("cannot sell %f of %s, only %f held", trade.Quantity, trade.Symbol, held)
		}
	}

	created, err := s.trades.Create(trade)
	if err != nil {
		return err
	}
	if !created || trade.SignedQuantity() == 0 {
		return nil
	}

	if err := s.holdings.ApplyFill(trade.Symbol, trade.Quantity, trade.Price, trade.Side == trading.SideBuy); err != nil {
		return fmt.Errorf("failed to update holdings: %w", err)
	}
	return nil
}

func (s *Service) heldQuantity(symbol string) (float64, error) {
	holding, err := s.holdings.Get(symbol)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read holding: %w", err)
	}
	return holding.Quantity, nil
}

// Summary computes the account-level snapshot. Holdings without a known
// latest close contribute their cost basis as value, so a missing quote
// never makes the portfolio look liquidated.
func (s *Service) Summary() (Summary, error) {
	holdings, err := s.holdings.GetAll()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load holdings: %w", err)
	}

	latest, err := s.prices.GetLatestCloses()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load latest closes: %w", err)
	}

	tradesCount, err := s.trades.CountAll()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to count trades: %w", err)
	}

	sums, err := s.flows.SumByType()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to sum cash flows: %w", err)
	}

	var totalValue, totalInvestment float64
	for _, holding := range holdings {
		cost := holding.Quantity * holding.AvgCost
		totalInvestment += cost

		if close, ok := latest[holding.Symbol]; ok {
			totalValue += holding.Quantity * close
		} else {
			totalValue += cost
		}
	}

	profit := totalValue - totalInvestment
	var profitPercent float64
	if totalInvestment > 0 {
		profitPercent = decimal.NewFromFloat(profit).
			Div(decimal.NewFromFloat(totalInvestment)).
			Mul(decimal.NewFromInt(100)).
			Round(4).
			InexactFloat64()
	}

	return Summary{
		TotalValue:        formulas.Round(totalValue, 2),
		TotalInvestment:   formulas.Round(totalInvestment, 2),
		UnrealizedProfit:  formulas.Round(profit, 2),
		UnrealizedPercent: profitPercent,
		HoldingsCount:     len(holdings),
		TradesCount:       tradesCount,
		NetInvestedCash:   formulas.Round(sums[cashflows.FlowDeposit]-sums[cashflows.FlowWithdraw], 2),
		IncomeReceived:    formulas.Round(sums[cashflows.FlowDividend]+sums[cashflows.FlowInterest], 2),
		FeesPaid:          formulas.Round(sums[cashflows.FlowFinancingFee], 2),
	}, nil
}
