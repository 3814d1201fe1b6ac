package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all cash flow routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/cashflows", func(r chi.Router) {
		r.Post("/", h.HandleCreateFlow)
		r.Get("/", h.HandleGetFlows)
		r.Delete("/{id}", h.HandleDeleteFlow)
	})
}
