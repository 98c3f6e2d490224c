// internal/app/features/groups/routes.go
package groups

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /groups.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Register)
	r.Get("/", h.List)
	r.Get("/{id}", h.Detail)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/validate", h.Validate)
	return r
}
