// Package handlers provides HTTP handlers for chart rendering.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/stockfolio/internal/modules/charts"
)

// Handler handles chart HTTP requests
type Handler struct {
	service *charts.Service
	log     zerolog.Logger
}

// NewHandler creates a new chart handler
func NewHandler(service *charts.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "charts").Logger(),
	}
}

// HandleGetPortfolioChart handles GET /api/charts/portfolio.png
func (h *Handler) HandleGetPortfolioChart(w http.ResponseWriter, r *http.Request) {
	png, err := h.service.PortfolioChart()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to render portfolio chart")
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.log.Error().Err(err).Msg("Failed to write chart response")
	}
}

// RegisterRoutes registers all chart routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/charts", func(r chi.Router) {
		r.Get("/portfolio.png", h.HandleGetPortfolioChart)
	})
}
