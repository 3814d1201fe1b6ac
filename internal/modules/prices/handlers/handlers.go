// Package handlers provides HTTP handlers for price history operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/aristath/stockfolio/internal/modules/prices"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles price history HTTP requests
type Handler struct {
	repo *prices.Repository
	log  zerolog.Logger
}

// NewHandler creates a new price history handler
func NewHandler(repo *prices.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "prices").Logger(),
	}
}

// HandleUpsertBars handles PUT /api/prices/{symbol}
// Body: [{"date": "2024-01-02", "close": 150.0, "volume": 1000000}, ...]
func (h *Handler) HandleUpsertBars(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	var bars []prices.PriceBar
	if err := json.NewDecoder(r.Body).Decode(&bars); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.repo.UpsertBars(symbol, bars); err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to store price bars")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"symbol": strings.ToUpper(strings.TrimSpace(symbol)),
			"stored": len(bars),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetQuotes handles GET /api/prices/quotes?symbols=AAPL,MSFT
func (h *Handler) HandleGetQuotes(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("symbols")
	if raw == "" {
		http.Error(w, "symbols query parameter is required", http.StatusBadRequest)
		return
	}

	quotes, err := h.repo.GetLatestQuotes(strings.Split(raw, ","))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get quotes")
		http.Error(w, "Failed to get quotes", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": quotes,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}
