package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/aristath/stockfolio/internal/modules/analytics"
	"github.com/aristath/stockfolio/internal/modules/prices"
	"github.com/aristath/stockfolio/internal/modules/trading"
)

func newTestRouter(t *testing.T) (chi.Router, *trading.TradeRepository, *prices.Repository) {
	t.Helper()
	log := zerolog.New(nil).Level(zerolog.Disabled)

	ledgerDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { ledgerDB.Close() })

	marketDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { marketDB.Close() })

	_, err = ledgerDB.Exec(trading.Schema)
	require.NoError(t, err)
	_, err = marketDB.Exec(prices.Schema)
	require.NoError(t, err)

	tradeRepo := trading.NewTradeRepository(ledgerDB, log)
	priceRepo := prices.NewRepository(marketDB, log)

	service := analytics.NewService(tradeRepo, priceRepo, analytics.DefaultConfig(), log)
	handler := NewHandler(service, log)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})

	return router, tradeRepo, priceRepo
}

func TestHandleGetReturns(t *testing.T) {
	router, tradeRepo, priceRepo := newTestRouter(t)

	_, err := tradeRepo.Create(trading.Trade{
		Symbol:     "AAPL",
		Side:       trading.SideBuy,
		Quantity:   10,
		Price:      100,
		ExecutedAt: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, priceRepo.UpsertBars("AAPL", []prices.PriceBar{
		{Date: "2024-01-02", Close: 100},
		{Date: "2024-01-03", Close: 110},
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/returns?periods=1d", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data map[string]map[string]float64 `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 10.0, body.Data["AAPL"]["1D"])
}

func TestHandleGetReturns_UnknownPeriod(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/returns?periods=7Q", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetRiskMetrics_EmptyLedger(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/risk", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data analytics.RiskMetrics `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 0.0, body.Data.SharpeRatio)
	assert.Nil(t, body.Data.DrawdownStartDate)
}

func TestHandleGetDailyPositions_Empty(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/positions/daily", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
