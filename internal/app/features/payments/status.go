// internal/app/features/payments/status.go
package payments

import (
	"context"
	"errors"
	"net/http"
	"time"

	paymentstore "github.com/mbayedione/giehub/internal/app/store/payments"
	"github.com/mbayedione/giehub/internal/app/system/apiutil"
	"github.com/mbayedione/giehub/internal/app/system/timeouts"
	"github.com/mbayedione/giehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Status handles GET /payments/{reference}/status: the client-initiated
// poll. For a still-open wave checkout it asks the provider for the
// session's current state and reconciles before answering, so the
// response is never staler than the provider.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	p, err := h.Payments.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, paymentstore.ErrNotFound) {
			apiutil.Error(w, http.StatusNotFound, "PAYMENT_NOT_FOUND", "No payment with this reference.")
			return
		}
		h.Log.Error("payment fetch failed", zap.Error(err))
		apiutil.Internal(w)
		return
	}

	if p.Method == models.MethodWave && p.ProviderSessionID != "" && openForSettlement(p.Status) {
		sess, err := h.Wave.GetCheckout(ctx, p.ProviderSessionID)
		if err != nil {
			// A failed poll degrades to the stored state; the
			// webhook or the next poll catches up.
			h.Log.Warn("checkout poll failed",
				zap.String("reference", reference),
				zap.Error(err))
		} else {
			p, err = h.reconcile(ctx, p, sess)
			if err != nil {
				h.Log.Error("payment reconcile failed", zap.Error(err))
				apiutil.Internal(w)
				return
			}
		}
	}

	// Lazy expiry: a stale checkout the sweep has not reached yet
	// still reads as cancelled.
	if p.Expired(time.Now()) {
		p.Transition(models.PaymentCancelled, "checkout expired", nil, time.Now())
		if err := h.Payments.Save(ctx, p); err != nil {
			h.Log.Error("payment save failed", zap.Error(err))
			apiutil.Internal(w)
			return
		}
	}

	view := statusView{
		Reference: p.Reference,
		Status:    p.Status,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Purpose:   p.Purpose,
		Method:    p.Method,
		PaidAt:    p.PaidAt,
		ExpiresAt: p.ExpiresAt,
		History:   p.History,
	}
	if p.ErrorCode != "" || p.ErrorMessage != "" {
		view.Error = map[string]string{"code": p.ErrorCode, "message": p.ErrorMessage}
	}
	apiutil.OK(w, http.StatusOK, "Payment status.", view)
}

// openForSettlement reports whether a stored status can still move.
func openForSettlement(status string) bool {
	return status == models.PaymentPending || status == models.PaymentInProgress
}
