// internal/app/features/payments/webhook.go
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mbayedione/giehub/internal/app/gateway/wave"
	paymentstore "github.com/mbayedione/giehub/internal/app/store/payments"
	"github.com/mbayedione/giehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// maxWebhookBody bounds the raw payload read for signature checking.
const maxWebhookBody = 1 << 20

// WaveWebhook handles POST /payments/webhook/wave. The provider only
// cares that we answer 200; anything we cannot process is logged and
// acknowledged anyway so the provider stops retrying a payload that
// will never parse. A bad signature is the one rejection.
func (h *Handler) WaveWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.Log.Warn("webhook body read failed", zap.Error(err))
		w.WriteHeader(http.StatusOK)
		return
	}

	if !h.Wave.VerifySignature(r.Header.Get("Wave-Signature"), body) {
		h.Log.Warn("webhook signature rejected")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var event wave.Event
	if err := json.Unmarshal(body, &event); err != nil {
		h.Log.Warn("webhook payload undecodable", zap.Error(err))
		w.WriteHeader(http.StatusOK)
		return
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.payment_failed":
	default:
		h.Log.Info("ignoring webhook event", zap.String("type", event.Type))
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	p, err := h.Payments.GetByReference(ctx, event.Data.ClientReference)
	if err != nil {
		if errors.Is(err, paymentstore.ErrNotFound) {
			h.Log.Warn("webhook for unknown reference",
				zap.String("reference", event.Data.ClientReference),
				zap.String("event_id", event.ID))
		} else {
			h.Log.Error("payment fetch failed", zap.Error(err))
		}
		w.WriteHeader(http.StatusOK)
		return
	}

	if _, err := h.reconcile(ctx, p, event.Data); err != nil {
		h.Log.Error("webhook reconcile failed",
			zap.String("reference", p.Reference),
			zap.String("event_id", event.ID),
			zap.Error(err))
	}
	w.WriteHeader(http.StatusOK)
}
