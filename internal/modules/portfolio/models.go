// Package portfolio manages current holdings and the account-level summary.
package portfolio

import (
	"fmt"
	"strings"
	"time"
)

// Holding is the current position in one symbol with its average cost basis
type Holding struct {
	Symbol    string     `json:"symbol"`
	Quantity  float64    `json:"quantity"`
	AvgCost   float64    `json:"avg_cost"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Validate checks the holding for data-integrity problems before insertion
func (h Holding) Validate() error {
	if strings.TrimSpace(h.Symbol) == "" {
		return fmt.Errorf("holding symbol is required")
	}
	if h.Quantity < 0 {
		return fmt.Errorf("holding quantity must not be negative, got %f", h.Quantity)
	}
	if h.AvgCost < 0 {
		return fmt.Errorf("holding average cost must not be negative, got %f", h.AvgCost)
	}
	return nil
}

// Summary is the account-level snapshot of the portfolio
type Summary struct {
	TotalValue        float64 `json:"total_value"`
	TotalInvestment   float64 `json:"total_investment"`
	UnrealizedProfit  float64 `json:"unrealized_profit"`
	UnrealizedPercent float64 `json:"unrealized_percent"`
	HoldingsCount     int     `json:"holdings_count"`
	TradesCount       int     `json:"trades_count"`
	NetInvestedCash   float64 `json:"net_invested_cash"`
	IncomeReceived    float64 `json:"income_received"`
	FeesPaid          float64 `json:"fees_paid"`
}
