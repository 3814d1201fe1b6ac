package trading

import (
	"fmt"
	"strings"
	"time"
)

// Side identifies the kind of ledger entry
type Side string

const (
	SideBuy      Side = "BUY"
	SideSell     Side = "SELL"
	SideDividend Side = "DIVIDEND"
)

// Trade represents one immutable entry in the trade ledger
type Trade struct {
	ID         int64      `json:"id"`
	Symbol     string     `json:"symbol"`
	Side       Side       `json:"side"`
	Quantity   float64    `json:"quantity"`
	Price      float64    `json:"price"`
	ExecutedAt time.Time  `json:"executed_at"`
	OrderID    string     `json:"order_id,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// Validate checks the trade for data-integrity problems before insertion.
// Malformed numeric input is a caller bug and fails fast.
func (t Trade) Validate() error {
	if strings.TrimSpace(t.Symbol) == "" {
		return fmt.Errorf("trade symbol is required")
	}
	switch t.Side {
	case SideBuy, SideSell, SideDividend:
	default:
		return fmt.Errorf("invalid trade side %q", t.Side)
	}
	if t.Quantity <= 0 {
		return fmt.Errorf("trade quantity must be positive, got %f", t.Quantity)
	}
	if t.Price <= 0 {
		return fmt.Errorf("trade price must be positive, got %f", t.Price)
	}
	if t.ExecutedAt.IsZero() {
		return fmt.Errorf("trade execution time is required")
	}
	return nil
}

// SignedQuantity returns the position delta of the trade: positive for buys,
// negative for sells. Dividends carry no position change.
func (t Trade) SignedQuantity() float64 {
	switch t.Side {
	case SideBuy:
		return t.Quantity
	case SideSell:
		return -t.Quantity
	default:
		return 0
	}
}

// Date returns the trade's execution calendar day (YYYY-MM-DD, UTC)
func (t Trade) Date() string {
	return t.ExecutedAt.UTC().Format("2006-01-02")
}
