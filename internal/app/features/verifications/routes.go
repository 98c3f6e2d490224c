// internal/app/features/verifications/routes.go
package verifications

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /verifications.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/request", h.Request)
	r.Post("/confirm", h.Confirm)
	return r
}
