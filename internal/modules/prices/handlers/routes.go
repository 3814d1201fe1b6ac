package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all price history routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/prices", func(r chi.Router) {
		r.Put("/{symbol}", h.HandleUpsertBars)
		r.Get("/quotes", h.HandleGetQuotes)
	})
}
