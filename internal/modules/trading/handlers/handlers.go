// Package handlers provides HTTP handlers for trade ledger operations.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/stockfolio/internal/modules/trading"
	"github.com/rs/zerolog"
)

// TradeRecorder persists an executed trade and its downstream effects
type TradeRecorder interface {
	RecordTrade(trade trading.Trade) error
}

// Handler handles trade ledger HTTP requests
type Handler struct {
	repo     *trading.TradeRepository
	recorder TradeRecorder
	log      zerolog.Logger
}

// NewHandler creates a new trade ledger handler
func NewHandler(repo *trading.TradeRepository, recorder TradeRecorder, log zerolog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		recorder: recorder,
		log:      log.With().Str("handler", "trading").Logger(),
	}
}

// createTradeRequest is the POST /api/trades payload
type createTradeRequest struct {
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"`
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price"`
	ExecutedAt string  `json:"executed_at"` // RFC3339
	OrderID    string  `json:"order_id,omitempty"`
}

// HandleCreateTrade handles POST /api/trades
func (h *Handler) HandleCreateTrade(w http.ResponseWriter, r *http.Request) {
	var req createTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	executedAt, err := time.Parse(time.RFC3339, req.ExecutedAt)
	if err != nil {
		http.Error(w, "Invalid executed_at (expected RFC3339)", http.StatusBadRequest)
		return
	}

	trade := trading.Trade{
		Symbol:     req.Symbol,
		Side:       trading.Side(req.Side),
		Quantity:   req.Quantity,
		Price:      req.Price,
		ExecutedAt: executedAt,
		OrderID:    req.OrderID,
	}

	if err := h.recorder.RecordTrade(trade); err != nil {
		h.log.Error().Err(err).Str("symbol", req.Symbol).Msg("Failed to create trade")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"data": map[string]interface{}{
			"status": "recorded",
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetTrades handles GET /api/trades?page=1&page_size=20&symbol=AAPL.
// A symbol filter returns that symbol's most recent trades up to page_size.
func (h *Handler) HandleGetTrades(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 20)

	if symbol := r.URL.Query().Get("symbol"); symbol != "" {
		trades, err := h.repo.GetBySymbol(symbol, pageSize)
		if err != nil {
			h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to get trades for symbol")
			http.Error(w, "Failed to get trade history", http.StatusInternalServerError)
			return
		}

		h.writeJSON(w, http.StatusOK, map[string]interface{}{
			"data": trades,
			"metadata": map[string]interface{}{
				"symbol":    symbol,
				"limit":     pageSize,
				"timestamp": time.Now().Format(time.RFC3339),
			},
		})
		return
	}

	trades, err := h.repo.GetHistory(page, pageSize)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get trade history")
		http.Error(w, "Failed to get trade history", http.StatusInternalServerError)
		return
	}

	total, err := h.repo.CountAll()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to count trades")
		http.Error(w, "Failed to count trades", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": trades,
		"metadata": map[string]interface{}{
			"page":      page,
			"page_size": pageSize,
			"total":     total,
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

func queryInt(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}
