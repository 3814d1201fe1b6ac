package analytics

import (
	"github.com/aristath/stockfolio/internal/modules/trading"
	"github.com/aristath/stockfolio/pkg/formulas"
)

// BuyTradePnL marks every buy in the ledger against the latest known close of
// its symbol and groups the results per symbol, preserving ledger order.
// Buys whose symbol has no latest close report zero profit rather than being
// dropped; sells and dividends are not position lots and are skipped.
func BuyTradePnL(trades []trading.Trade, latestCloses map[string]float64) map[string][]TradePnL {
	result := make(map[string][]TradePnL)

	for _, trade := range trades {
		if trade.Side != trading.SideBuy {
			continue
		}

		entry := TradePnL{
			ID:       trade.ID,
			Side:     string(trade.Side),
			Date:     trade.Date(),
			Price:    trade.Price,
			Quantity: trade.Quantity,
			Notional: formulas.Round(trade.Price*trade.Quantity, 2),
		}

		if latest, ok := latestCloses[trade.Symbol]; ok && trade.Price > 0 {
			entry.UnrealizedProfit = formulas.Round((latest-trade.Price)*trade.Quantity, 2)
			entry.ProfitPercent = formulas.Round((latest-trade.Price)/trade.Price*100, 2)
		}

		result[trade.Symbol] = append(result[trade.Symbol], entry)
	}

	return result
}
