// internal/app/features/payments/create.go
package payments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mbayedione/giehub/internal/app/gateway/wave"
	"github.com/mbayedione/giehub/internal/app/system/apiutil"
	"github.com/mbayedione/giehub/internal/app/system/timeouts"
	"github.com/mbayedione/giehub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Initiate handles POST /payments: creates the transaction and, for the
// wave method, opens a hosted checkout session synchronously. A failed
// checkout attempt is kept as a failed transaction, not deleted.
func (h *Handler) Initiate(w http.ResponseWriter, r *http.Request) {
	var req initiateRequest
	if err := apiutil.Decode(r, &req); err != nil {
		apiutil.Error(w, http.StatusBadRequest, "MALFORMED_BODY", "Request body is not valid JSON.")
		return
	}
	if errs := req.validate(); errs != nil {
		apiutil.ErrorDetails(w, http.StatusBadRequest, "VALIDATION_FAILED",
			"Some fields are missing or invalid.", errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	now := time.Now()
	p := req.toTransaction(now)
	p.ID = primitive.NewObjectID()
	p.Reference = "PAY-" + uuid.NewString()
	p.Transition(models.PaymentPending, "payment initiated", nil, now)

	if err := h.Payments.Create(ctx, &p); err != nil {
		h.Log.Error("payment create failed", zap.Error(err))
		apiutil.Internal(w)
		return
	}

	view := initiateView{
		Reference: p.Reference,
		Status:    p.Status,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Method:    p.Method,
		Purpose:   p.Purpose,
		ExpiresAt: p.ExpiresAt,
	}

	if p.Method != models.MethodWave {
		// Orange Money and cash have no hosted checkout; the
		// transaction waits for the status poll or a manual settle.
		apiutil.OK(w, http.StatusCreated, "Payment created.", view)
		return
	}

	sess, err := h.Wave.CreateCheckout(ctx, wave.CheckoutRequest{
		Amount:          p.Amount,
		Currency:        p.Currency,
		ClientReference: p.Reference,
		SuccessURL:      fmt.Sprintf("%s/payments/%s/status?outcome=success", h.PublicBaseURL, p.Reference),
		ErrorURL:        fmt.Sprintf("%s/payments/%s/status?outcome=error", h.PublicBaseURL, p.Reference),
	})
	if err != nil {
		var apiErr *wave.APIError
		if !errors.As(err, &apiErr) {
			apiErr = &wave.APIError{Code: "provider_error", Message: err.Error()}
		}
		p.ErrorCode = apiErr.Code
		p.ErrorMessage = apiErr.Message
		p.Transition(models.PaymentFailed, "checkout creation failed", bson.M{"code": apiErr.Code}, time.Now())
		if saveErr := h.Payments.Save(ctx, p); saveErr != nil {
			h.Log.Error("payment save failed", zap.Error(saveErr))
		}
		apiutil.ErrorDetails(w, http.StatusBadGateway, "CHECKOUT_FAILED",
			"The payment provider rejected the checkout.",
			map[string]string{"reference": p.Reference, "provider_code": apiErr.Code})
		return
	}

	p.ProviderSessionID = sess.ID
	p.ProviderPayload = bson.M{
		"id":              sess.ID,
		"checkout_status": sess.CheckoutStatus,
		"payment_status":  sess.PaymentStatus,
	}
	p.Transition(models.PaymentInProgress, "checkout session opened", bson.M{"session_id": sess.ID}, time.Now())
	if err := h.Payments.Save(ctx, p); err != nil {
		h.Log.Error("payment save failed", zap.Error(err))
		apiutil.Internal(w)
		return
	}

	view.Status = p.Status
	view.CheckoutURL = sess.LaunchURL
	apiutil.OK(w, http.StatusCreated, "Checkout session created.", view)
}
