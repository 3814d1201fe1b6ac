package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/stockfolio/internal/modules/trading"
)

func TestBuyTradePnL(t *testing.T) {
	trades := []trading.Trade{
		tradeAt("AAA", trading.SideBuy, 10, 100, "2024-01-02"),
		tradeAt("AAA", trading.SideSell, 5, 105, "2024-01-03"),
		tradeAt("AAA", trading.SideBuy, 2, 110, "2024-01-04"),
		tradeAt("BBB", trading.SideBuy, 4, 50, "2024-01-02"),
	}
	latest := map[string]float64{"AAA": 120}

	pnl := BuyTradePnL(trades, latest)

	t.Run("sells are skipped", func(t *testing.T) {
		assert.Len(t, pnl["AAA"], 2)
	})

	t.Run("profit marks against latest close", func(t *testing.T) {
		first := pnl["AAA"][0]
		assert.Equal(t, 1000.0, first.Notional)
		assert.Equal(t, 200.0, first.UnrealizedProfit)
		assert.Equal(t, 20.0, first.ProfitPercent)

		second := pnl["AAA"][1]
		assert.Equal(t, 20.0, second.UnrealizedProfit)
		assert.InDelta(t, 9.09, second.ProfitPercent, 0.001)
	})

	t.Run("missing latest close reports zero profit", func(t *testing.T) {
		assert.Len(t, pnl["BBB"], 1)
		assert.Equal(t, 0.0, pnl["BBB"][0].UnrealizedProfit)
		assert.Equal(t, 0.0, pnl["BBB"][0].ProfitPercent)
		assert.Equal(t, 200.0, pnl["BBB"][0].Notional)
	})

	t.Run("ledger order is preserved", func(t *testing.T) {
		assert.Equal(t, "2024-01-02", pnl["AAA"][0].Date)
		assert.Equal(t, "2024-01-04", pnl["AAA"][1].Date)
	})
}

func TestBuyTradePnL_EmptyLedger(t *testing.T) {
	pnl := BuyTradePnL(nil, map[string]float64{"AAA": 100})
	assert.Empty(t, pnl)
}
