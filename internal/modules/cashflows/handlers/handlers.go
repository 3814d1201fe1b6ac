// Package handlers provides HTTP handlers for cash flow operations.
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/stockfolio/internal/modules/cashflows"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles cash flow HTTP requests
type Handler struct {
	repo *cashflows.Repository
	log  zerolog.Logger
}

// NewHandler creates a new cash flow handler
func NewHandler(repo *cashflows.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "cashflows").Logger(),
	}
}

type createFlowRequest struct {
	Type       string  `json:"type"`
	Amount     float64 `json:"amount"`
	Symbol     string  `json:"symbol"`
	Note       string  `json:"note"`
	OccurredAt string  `json:"occurred_at"`
}

// HandleCreateFlow handles POST /api/cashflows
func (h *Handler) HandleCreateFlow(w http.ResponseWriter, r *http.Request) {
	var req createFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	occurredAt, err := time.Parse(time.RFC3339, req.OccurredAt)
	if err != nil {
		http.Error(w, "occurred_at must be RFC3339", http.StatusBadRequest)
		return
	}

	flow := cashflows.CashFlow{
		Type:       cashflows.FlowType(req.Type),
		Amount:     req.Amount,
		Symbol:     req.Symbol,
		Note:       req.Note,
		OccurredAt: occurredAt,
	}

	id, err := h.repo.Create(flow)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create cash flow")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{"id": id})
}

// HandleGetFlows handles GET /api/cashflows?type=deposit
func (h *Handler) HandleGetFlows(w http.ResponseWriter, r *http.Request) {
	flowType := r.URL.Query().Get("type")

	var flows []cashflows.CashFlow
	var err error
	if flowType == "" {
		flows, err = h.repo.GetAllOrdered()
	} else {
		flows, err = h.repo.GetByType(cashflows.FlowType(flowType))
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get cash flows")
		http.Error(w, "Failed to get cash flows", http.StatusInternalServerError)
		return
	}

	if flows == nil {
		flows = []cashflows.CashFlow{}
	}
	h.writeJSON(w, http.StatusOK, flows)
}

// HandleDeleteFlow handles DELETE /api/cashflows/{id}
func (h *Handler) HandleDeleteFlow(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid cash flow id", http.StatusBadRequest)
		return
	}

	if err := h.repo.Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Cash flow not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Int64("id", id).Msg("Failed to delete cash flow")
		http.Error(w, "Failed to delete cash flow", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": id})
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
