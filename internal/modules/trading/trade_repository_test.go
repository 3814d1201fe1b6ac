package trading

import (
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestRepo(t *testing.T) *TradeRepository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(Schema)
	require.NoError(t, err)

	return NewTradeRepository(db, zerolog.New(nil).Level(zerolog.Disabled))
}

func validTrade() Trade {
	return Trade{
		Symbol:     "AAPL",
		Side:       SideBuy,
		Quantity:   10,
		Price:      150,
		ExecutedAt: time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC),
	}
}

func TestCreate_Validation(t *testing.T) {
	repo := newTestRepo(t)

	cases := []struct {
		name   string
		mutate func(*Trade)
	}{
		{"empty symbol", func(tr *Trade) { tr.Symbol = " " }},
		{"unknown side", func(tr *Trade) { tr.Side = "SHORT" }},
		{"zero quantity", func(tr *Trade) { tr.Quantity = 0 }},
		{"negative price", func(tr *Trade) { tr.Price = -1 }},
		{"missing execution time", func(tr *Trade) { tr.ExecutedAt = time.Time{} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trade := validTrade()
			tc.mutate(&trade)
			created, err := repo.Create(trade)
			assert.Error(t, err)
			assert.False(t, created)
		})
	}

	count, err := repo.CountAll()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCreate_GeneratesOrderID(t *testing.T) {
	repo := newTestRepo(t)
	created, err := repo.Create(validTrade())
	require.NoError(t, err)
	assert.True(t, created)

	trades, err := repo.GetAllOrdered()
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.NotEmpty(t, trades[0].OrderID)
}

func TestCreate_SkipsDuplicateOrderID(t *testing.T) {
	repo := newTestRepo(t)

	trade := validTrade()
	trade.OrderID = "order-1"
	created, err := repo.Create(trade)
	require.NoError(t, err)
	assert.True(t, created)

	// Second submission with the same order_id is skipped and reported as such.
	trade.Quantity = 99
	created, err = repo.Create(trade)
	require.NoError(t, err)
	assert.False(t, created)

	count, err := repo.CountAll()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	trades, err := repo.GetAllOrdered()
	require.NoError(t, err)
	assert.Equal(t, 10.0, trades[0].Quantity)
}

func TestCreate_NormalizesSymbol(t *testing.T) {
	repo := newTestRepo(t)

	trade := validTrade()
	trade.Symbol = " aapl "
	_, err := repo.Create(trade)
	require.NoError(t, err)

	trades, err := repo.GetAllOrdered()
	require.NoError(t, err)
	assert.Equal(t, "AAPL", trades[0].Symbol)
}

func TestGetHistory_PagesMostRecentFirst(t *testing.T) {
	repo := newTestRepo(t)

	for i := 0; i < 5; i++ {
		trade := validTrade()
		trade.ExecutedAt = trade.ExecutedAt.Add(time.Duration(i) * time.Hour)
		_, err := repo.Create(trade)
		require.NoError(t, err)
	}

	page, err := repo.GetHistory(1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, page[0].ExecutedAt.After(page[1].ExecutedAt))

	page3, err := repo.GetHistory(3, 2)
	require.NoError(t, err)
	assert.Len(t, page3, 1)
}

func TestGetBuysOrdered(t *testing.T) {
	repo := newTestRepo(t)

	buy := validTrade()
	_, err := repo.Create(buy)
	require.NoError(t, err)

	sell := validTrade()
	sell.Side = SideSell
	sell.ExecutedAt = sell.ExecutedAt.Add(time.Hour)
	_, err = repo.Create(sell)
	require.NoError(t, err)

	buys, err := repo.GetBuysOrdered()
	require.NoError(t, err)
	require.Len(t, buys, 1)
	assert.Equal(t, SideBuy, buys[0].Side)
}

func TestGetBySymbol(t *testing.T) {
	repo := newTestRepo(t)

	for i, symbol := range []string{"AAPL", "MSFT", "AAPL"} {
		trade := validTrade()
		trade.Symbol = symbol
		trade.ExecutedAt = trade.ExecutedAt.Add(time.Duration(i) * time.Hour)
		_, err := repo.Create(trade)
		require.NoError(t, err)
	}

	trades, err := repo.GetBySymbol(" aapl ", 10)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.True(t, trades[0].ExecutedAt.After(trades[1].ExecutedAt))

	limited, err := repo.GetBySymbol("AAPL", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSignedQuantity(t *testing.T) {
	assert.Equal(t, 10.0, Trade{Side: SideBuy, Quantity: 10}.SignedQuantity())
	assert.Equal(t, -10.0, Trade{Side: SideSell, Quantity: 10}.SignedQuantity())
	assert.Equal(t, 0.0, Trade{Side: SideDividend, Quantity: 10}.SignedQuantity())
}
