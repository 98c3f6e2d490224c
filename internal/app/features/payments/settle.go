// internal/app/features/payments/settle.go
package payments

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	paymentstore "github.com/mbayedione/giehub/internal/app/store/payments"
	"github.com/mbayedione/giehub/internal/app/system/apiutil"
	"github.com/mbayedione/giehub/internal/app/system/sanitize"
	"github.com/mbayedione/giehub/internal/app/system/timeouts"
	"github.com/mbayedione/giehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Settle handles POST /payments/{reference}/settle: the staff
// confirmation for methods without a hosted checkout. Orange Money and
// cash collections are verified out of band; this marks the transaction
// succeeded and fires the same purpose side effect a provider event
// would. Replaying a settle is a no-op answered with the settled state.
func (h *Handler) Settle(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if err := apiutil.Decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		apiutil.Error(w, http.StatusBadRequest, "MALFORMED_BODY", "Request body is not valid JSON.")
		return
	}
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

	if p.Method == models.MethodWave {
		apiutil.Error(w, http.StatusBadRequest, "PROVIDER_SETTLED",
			"Wave payments settle through the provider webhook or status poll.")
		return
	}
	if p.Status == models.PaymentSucceeded {
		// Replayed settle: re-run the idempotent side effect in case
		// it failed after the original settlement, then answer with
		// the settled state.
		if err := h.completePurpose(ctx, p, time.Now()); err != nil {
			h.Log.Error("payment completion side effect failed",
				zap.String("reference", p.Reference),
				zap.String("purpose", p.Purpose),
				zap.Error(err))
		}
		apiutil.OK(w, http.StatusOK, "Payment already settled.", settledView(p))
		return
	}
	if !openForSettlement(p.Status) {
		apiutil.ErrorDetails(w, http.StatusBadRequest, "PAYMENT_NOT_SETTLEABLE",
			"Only a pending or in-progress payment can be settled.",
			map[string]string{"status": p.Status})
		return
	}

	now := time.Now()
	paidAt := now.UTC()
	p.PaidAt = &paidAt
	var data bson.M
	if note := sanitize.Text(req.Remark); note != "" {
		data = bson.M{"remark": note}
	}
	p.Transition(models.PaymentSucceeded, "payment settled manually", data, now)
	if err := h.Payments.Save(ctx, p); err != nil {
		h.Log.Error("payment save failed", zap.Error(err))
		apiutil.Internal(w)
		return
	}

	if err := h.completePurpose(ctx, p, now); err != nil {
		// Same contract as the provider path: the transaction is
		// settled, the side effect is retried on the next settle call.
		h.Log.Error("payment completion side effect failed",
			zap.String("reference", p.Reference),
			zap.String("purpose", p.Purpose),
			zap.Error(err))
	}

	apiutil.OK(w, http.StatusOK, "Payment settled.", settledView(p))
}

func settledView(p models.PaymentTransaction) statusView {
	return statusView{
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
}
