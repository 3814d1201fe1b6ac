package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all trade ledger routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/trades", func(r chi.Router) {
		r.Post("/", h.HandleCreateTrade)
		r.Get("/", h.HandleGetTrades)
	})
}
