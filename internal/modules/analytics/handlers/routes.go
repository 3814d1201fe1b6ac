package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all analytics routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		r.Get("/returns", h.HandleGetReturns)
		r.Get("/returns/daily", h.HandleGetDailyReturns)
		r.Get("/risk", h.HandleGetRiskMetrics)
		r.Get("/positions/daily", h.HandleGetDailyPositions)
		r.Get("/pnl", h.HandleGetPnL)
	})
}
