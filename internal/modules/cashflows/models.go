// Package cashflows tracks the cash movements of the portfolio account.
package cashflows

import (
	"fmt"
	"strings"
	"time"
)

// FlowType classifies a cash movement
type FlowType string

const (
	FlowDeposit      FlowType = "deposit"
	FlowWithdraw     FlowType = "withdraw"
	FlowDividend     FlowType = "dividend"
	FlowInterest     FlowType = "interest"
	FlowTradeIn      FlowType = "trade_in"
	FlowTradeOut     FlowType = "trade_out"
	FlowFinancingFee FlowType = "financing_fee"
)

var knownFlowTypes = map[FlowType]struct{}{
	FlowDeposit:      {},
	FlowWithdraw:     {},
	FlowDividend:     {},
	FlowInterest:     {},
	FlowTradeIn:      {},
	FlowTradeOut:     {},
	FlowFinancingFee: {},
}

// CashFlow is one cash movement on the account. Amount is always positive;
// the flow type carries the direction.
type CashFlow struct {
	ID         int64      `json:"id"`
	Type       FlowType   `json:"type"`
	Amount     float64    `json:"amount"`
	Symbol     string     `json:"symbol,omitempty"`
	Note       string     `json:"note,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// Validate checks the cash flow for data-integrity problems before insertion
func (c CashFlow) Validate() error {
	if _, ok := knownFlowTypes[c.Type]; !ok {
		return fmt.Errorf("invalid cash flow type %q", c.Type)
	}
	if c.Amount <= 0 {
		return fmt.Errorf("cash flow amount must be positive, got %f", c.Amount)
	}
	if c.OccurredAt.IsZero() {
		return fmt.Errorf("cash flow occurrence time is required")
	}
	if (c.Type == FlowDividend || c.Type == FlowTradeIn || c.Type == FlowTradeOut) &&
		strings.TrimSpace(c.Symbol) == "" {
		return fmt.Errorf("cash flow type %q requires a symbol", c.Type)
	}
	return nil
}
