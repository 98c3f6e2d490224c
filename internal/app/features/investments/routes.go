// internal/app/features/investments/routes.go
package investments

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /investments.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/validate-group", h.ValidateGroup)
	r.Get("/group/{id}", h.Overview)
	r.Get("/group/{id}/calendar", h.Calendar)
	r.Get("/group/{id}/stats", h.Stats)
	r.Get("/group/{id}/wallet/history", h.WalletHistory)
	r.Post("/group/{id}/contribute", h.Contribute)
	r.Put("/group/{id}/day/{dayIndex}", h.SetDayStatus)
	return r
}
