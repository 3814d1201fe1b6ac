package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/portfolio", func(r chi.Router) {
		r.Get("/summary", h.HandleGetSummary)
		r.Get("/holdings", h.HandleGetHoldings)
		r.Get("/holdings/{symbol}", h.HandleGetHolding)
		r.Put("/holdings/{symbol}", h.HandleUpsertHolding)
		r.Delete("/holdings/{symbol}", h.HandleDeleteHolding)
	})
}
