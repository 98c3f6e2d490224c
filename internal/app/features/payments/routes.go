// internal/app/features/payments/routes.go
package payments

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /payments.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Initiate)
	r.Get("/{reference}/status", h.Status)
	r.Post("/{reference}/settle", h.Settle)
	r.Post("/webhook/wave", h.WaveWebhook)
	return r
}
