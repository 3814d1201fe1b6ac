// Package handlers provides HTTP handlers for holdings and the portfolio summary.
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aristath/stockfolio/internal/modules/portfolio"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles portfolio HTTP requests
type Handler struct {
	holdings *portfolio.HoldingRepository
	service  *portfolio.Service
	log      zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(holdings *portfolio.HoldingRepository, service *portfolio.Service, log zerolog.Logger) *Handler {
	return &Handler{
		holdings: holdings,
		service:  service,
		log:      log.With().Str("handler", "portfolio").Logger(),
	}
}

// HandleGetHoldings handles GET /api/portfolio/holdings
func (h *Handler) HandleGetHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.holdings.GetAll()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get holdings")
		http.Error(w, "Failed to get holdings", http.StatusInternalServerError)
		return
	}

	if holdings == nil {
		holdings = []portfolio.Holding{}
	}
	h.writeJSON(w, http.StatusOK, holdings)
}

// HandleGetHolding handles GET /api/portfolio/holdings/{symbol}
func (h *Handler) HandleGetHolding(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	holding, err := h.holdings.Get(symbol)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Holding not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to get holding")
		http.Error(w, "Failed to get holding", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, holding)
}

// HandleUpsertHolding handles PUT /api/portfolio/holdings/{symbol}
func (h *Handler) HandleUpsertHolding(w http.ResponseWriter, r *http.Request) {
	var holding portfolio.Holding
	if err := json.NewDecoder(r.Body).Decode(&holding); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	holding.Symbol = chi.URLParam(r, "symbol")

	if err := h.holdings.Upsert(holding); err != nil {
		h.log.Error().Err(err).Str("symbol", holding.Symbol).Msg("Failed to upsert holding")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, holding)
}

// HandleDeleteHolding handles DELETE /api/portfolio/holdings/{symbol}
func (h *Handler) HandleDeleteHolding(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	if err := h.holdings.Delete(symbol); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Holding not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to delete holding")
		http.Error(w, "Failed to delete holding", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": symbol})
}

// HandleGetSummary handles GET /api/portfolio/summary
func (h *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute portfolio summary")
		http.Error(w, "Failed to compute summary", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
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
