// Package handlers provides HTTP handlers for portfolio analytics.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/stockfolio/internal/modules/analytics"
	"github.com/rs/zerolog"
)

// Handler handles analytics HTTP requests
type Handler struct {
	service *analytics.Service
	log     zerolog.Logger
}

// NewHandler creates a new analytics handler
func NewHandler(service *analytics.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "analytics").Logger(),
	}
}

// HandleGetReturns handles GET /api/analytics/returns?symbols=AAPL,MSFT&periods=1D,1M
// Both query parameters are optional: symbols defaults to every traded
// symbol, periods to the full supported set.
func (h *Handler) HandleGetReturns(w http.ResponseWriter, r *http.Request) {
	symbols := splitParam(r.URL.Query().Get("symbols"))
	periods := splitParam(r.URL.Query().Get("periods"))

	for i, period := range periods {
		periods[i] = strings.ToUpper(period)
		if !validPeriod(periods[i]) {
			http.Error(w, "unknown period: "+period, http.StatusBadRequest)
			return
		}
	}

	returns, err := h.service.PeriodReturns(symbols, periods)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute period returns")
		http.Error(w, "Failed to compute returns", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, returns)
}

// HandleGetRiskMetrics handles GET /api/analytics/risk?lookback=252&risk_free_rate=0.03
func (h *Handler) HandleGetRiskMetrics(w http.ResponseWriter, r *http.Request) {
	lookback := queryInt(r, "lookback", 0)
	riskFree := queryFloat(r, "risk_free_rate", 0)

	metrics, err := h.service.RiskMetrics(lookback, riskFree)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute risk metrics")
		http.Error(w, "Failed to compute risk metrics", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, metrics)
}

// HandleGetDailyPositions handles GET /api/analytics/positions/daily
func (h *Handler) HandleGetDailyPositions(w http.ResponseWriter, r *http.Request) {
	table, err := h.service.DailyPositions()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build daily positions")
		http.Error(w, "Failed to build daily positions", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, table)
}

// HandleGetDailyReturns handles GET /api/analytics/returns/daily
func (h *Handler) HandleGetDailyReturns(w http.ResponseWriter, r *http.Request) {
	series, err := h.service.DailyReturns()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute daily returns")
		http.Error(w, "Failed to compute daily returns", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, series)
}

// HandleGetPnL handles GET /api/analytics/pnl
func (h *Handler) HandleGetPnL(w http.ResponseWriter, r *http.Request) {
	pnl, err := h.service.PnL()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute trade P&L")
		http.Error(w, "Failed to compute P&L", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, pnl)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	payload := map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func splitParam(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func validPeriod(period string) bool {
	for _, known := range analytics.Periods {
		if strings.EqualFold(period, known) {
			return true
		}
	}
	return false
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func queryFloat(r *http.Request, key string, fallback float64) float64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}
