package portfolio

import (
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/aristath/stockfolio/internal/modules/cashflows"
	"github.com/aristath/stockfolio/internal/modules/prices"
	"github.com/aristath/stockfolio/internal/modules/trading"
)

type testEnv struct {
	service  *Service
	holdings *HoldingRepository
	trades   *trading.TradeRepository
	prices   *prices.Repository
	flows    *cashflows.Repository
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	log := zerolog.New(nil).Level(zerolog.Disabled)

	ledgerDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { ledgerDB.Close() })

	marketDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { marketDB.Close() })

	for _, schema := range []string{trading.Schema, cashflows.Schema} {
		_, err = ledgerDB.Exec(schema)
		require.NoError(t, err)
	}
	for _, schema := range []string{prices.Schema, Schema} {
		_, err = marketDB.Exec(schema)
		require.NoError(t, err)
	}

	holdingRepo := NewHoldingRepository(marketDB, log)
	tradeRepo := trading.NewTradeRepository(ledgerDB, log)
	priceRepo := prices.NewRepository(marketDB, log)
	flowRepo := cashflows.NewRepository(ledgerDB, log)

	return testEnv{
		service:  NewService(holdingRepo, priceRepo, tradeRepo, flowRepo, log),
		holdings: holdingRepo,
		trades:   tradeRepo,
		prices:   priceRepo,
		flows:    flowRepo,
	}
}

func testTrade(symbol string, side trading.Side, qty, price float64) trading.Trade {
	return trading.Trade{
		Symbol:     symbol,
		Side:       side,
		Quantity:   qty,
		Price:      price,
		ExecutedAt: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestRecordTrade_BuyBlendsAverageCost(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.service.RecordTrade(testTrade("AAPL", trading.SideBuy, 10, 100)))
	require.NoError(t, env.service.RecordTrade(testTrade("AAPL", trading.SideBuy, 10, 120)))

	holding, err := env.holdings.Get("AAPL")
	require.NoError(t, err)
	assert.Equal(t, 20.0, holding.Quantity)
	assert.InDelta(t, 110.0, holding.AvgCost, 1e-9)
}

func TestRecordTrade_SellKeepsCostBasis(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.service.RecordTrade(testTrade("AAPL", trading.SideBuy, 10, 100)))
	require.NoError(t, env.service.RecordTrade(testTrade("AAPL", trading.SideSell, 4, 130)))

	holding, err := env.holdings.Get("AAPL")
	require.NoError(t, err)
	assert.Equal(t, 6.0, holding.Quantity)
	assert.Equal(t, 100.0, holding.AvgCost)
}

func TestRecordTrade_SellToZeroRemovesHolding(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.service.RecordTrade(testTrade("AAPL", trading.SideBuy, 10, 100)))
	require.NoError(t, env.service.RecordTrade(testTrade("AAPL", trading.SideSell, 10, 130)))

	_, err := env.holdings.Get("AAPL")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRecordTrade_OversellRejected(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.service.RecordTrade(testTrade("AAPL", trading.SideBuy, 10, 100)))
	assert.Error(t, env.service.RecordTrade(testTrade("AAPL", trading.SideSell, 11, 130)))

	// The rejected sell never reaches the ledger.
	count, err := env.trades.CountAll()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecordTrade_SellWithoutHoldingRejected(t *testing.T) {
	env := newTestEnv(t)

	assert.Error(t, env.service.RecordTrade(testTrade("AAPL", trading.SideSell, 5, 130)))

	count, err := env.trades.CountAll()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRecordTrade_DuplicateOrderIDAppliedOnce(t *testing.T) {
	env := newTestEnv(t)

	trade := testTrade("AAPL", trading.SideBuy, 10, 100)
	trade.OrderID = "order-1"
	require.NoError(t, env.service.RecordTrade(trade))
	require.NoError(t, env.service.RecordTrade(trade))

	count, err := env.trades.CountAll()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	holding, err := env.holdings.Get("AAPL")
	require.NoError(t, err)
	assert.Equal(t, 10.0, holding.Quantity)
}

func TestRecordTrade_DividendTouchesOnlyLedger(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.service.RecordTrade(testTrade("AAPL", trading.SideDividend, 5, 1)))

	_, err := env.holdings.Get("AAPL")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	count, err := env.trades.CountAll()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSummary(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.service.RecordTrade(testTrade("AAPL", trading.SideBuy, 10, 100)))
	require.NoError(t, env.service.RecordTrade(testTrade("MSFT", trading.SideBuy, 2, 400)))

	require.NoError(t, env.prices.UpsertBars("AAPL", []prices.PriceBar{{Date: "2024-01-03", Close: 120}}))

	for _, flow := range []cashflows.CashFlow{
		{Type: cashflows.FlowDeposit, Amount: 5000, OccurredAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Type: cashflows.FlowWithdraw, Amount: 500, OccurredAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{Type: cashflows.FlowDividend, Amount: 25, Symbol: "AAPL", OccurredAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
		{Type: cashflows.FlowInterest, Amount: 5, OccurredAt: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)},
		{Type: cashflows.FlowFinancingFee, Amount: 12, OccurredAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
	} {
		_, err := env.flows.Create(flow)
		require.NoError(t, err)
	}

	summary, err := env.service.Summary()
	require.NoError(t, err)

	// AAPL valued at the latest close, MSFT falls back to cost basis.
	assert.Equal(t, 2000.0, summary.TotalValue)
	assert.Equal(t, 1800.0, summary.TotalInvestment)
	assert.Equal(t, 200.0, summary.UnrealizedProfit)
	assert.InDelta(t, 11.1111, summary.UnrealizedPercent, 0.0001)
	assert.Equal(t, 2, summary.HoldingsCount)
	assert.Equal(t, 2, summary.TradesCount)
	assert.Equal(t, 4500.0, summary.NetInvestedCash)
	assert.Equal(t, 30.0, summary.IncomeReceived)
	assert.Equal(t, 12.0, summary.FeesPaid)
}

func TestSummary_EmptyAccount(t *testing.T) {
	env := newTestEnv(t)

	summary, err := env.service.Summary()
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.TotalValue)
	assert.Equal(t, 0.0, summary.UnrealizedPercent)
	assert.Equal(t, 0, summary.HoldingsCount)
}
