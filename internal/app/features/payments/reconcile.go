// internal/app/features/payments/reconcile.go
package payments

import (
	"context"
	"errors"
	"time"

	"github.com/mbayedione/giehub/internal/app/gateway/wave"
	membershipstore "github.com/mbayedione/giehub/internal/app/store/memberships"
	"github.com/mbayedione/giehub/internal/app/store/queries/activation"
	"github.com/mbayedione/giehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// reconcile folds one provider session snapshot into the transaction and
// fires the purpose side effect when the payment completes. It is the
// idempotency boundary: the "already succeeded" and "already cancelled"
// guards make webhook replays and poll races no-ops, so the side effect
// runs exactly once per transaction.
func (h *Handler) reconcile(ctx context.Context, p models.PaymentTransaction, sess wave.CheckoutSession) (models.PaymentTransaction, error) {
	now := time.Now()

	switch {
	case sess.CheckoutStatus == wave.CheckoutComplete && sess.PaymentStatus == wave.PaymentSucceeded:
		if p.Status == models.PaymentSucceeded {
			// Replay after settlement: re-run the side effect in case
			// it failed the first time. It is idempotent, so against
			// an already-flipped membership it changes nothing.
			if err := h.completePurpose(ctx, p, now); err != nil {
				h.Log.Error("payment completion side effect failed",
					zap.String("reference", p.Reference),
					zap.String("purpose", p.Purpose),
					zap.Error(err))
			}
			return p, nil
		}
		paidAt := now.UTC()
		p.PaidAt = &paidAt
		p.ProviderTxnID = sess.TransactionID
		p.Transition(models.PaymentSucceeded, "payment confirmed by provider",
			bson.M{"session_id": sess.ID, "transaction_id": sess.TransactionID}, now)
		if err := h.Payments.Save(ctx, p); err != nil {
			return p, err
		}
		if err := h.completePurpose(ctx, p, now); err != nil {
			// The transaction is already succeeded; the side effect
			// is retried on the next poll or webhook replay because
			// it is idempotent on its own.
			h.Log.Error("payment completion side effect failed",
				zap.String("reference", p.Reference),
				zap.String("purpose", p.Purpose),
				zap.Error(err))
		}
		return p, nil

	case sess.CheckoutStatus == wave.CheckoutExpired || sess.PaymentStatus == wave.PaymentCancelled:
		switch p.Status {
		case models.PaymentSucceeded, models.PaymentFailed, models.PaymentRefunded, models.PaymentCancelled:
			// A late expiry event must not undo a terminal state.
			return p, nil
		}
		p.Transition(models.PaymentCancelled, "checkout expired or cancelled",
			bson.M{"session_id": sess.ID}, now)
		return p, h.Payments.Save(ctx, p)

	case sess.PaymentStatus == wave.PaymentProcessing:
		// Only a still-pending transaction moves forward; a stale
		// processing event arriving after settlement is ignored.
		if p.Status != models.PaymentPending {
			return p, nil
		}
		p.Transition(models.PaymentInProgress, "payment processing",
			bson.M{"session_id": sess.ID}, now)
		return p, h.Payments.Save(ctx, p)
	}

	// Unknown shapes are logged and ignored so a new provider event
	// type can never break the webhook.
	h.Log.Info("ignoring unrecognized session state",
		zap.String("reference", p.Reference),
		zap.String("checkout_status", sess.CheckoutStatus),
		zap.String("payment_status", sess.PaymentStatus))
	return p, nil
}

// completePurpose fires the side effect a succeeded payment funds.
//
// membership-fee is the one path where a payment activates a group
// without the admin review step: the membership's payment sub-object is
// settled and the group goes straight to validated, which also creates
// its investment cycle.
func (h *Handler) completePurpose(ctx context.Context, p models.PaymentTransaction, now time.Time) error {
	switch p.Purpose {
	case models.PurposeMembershipFee:
		m, err := h.Memberships.GetByGroup(ctx, p.Entity.ID)
		if err != nil {
			if errors.Is(err, membershipstore.ErrNotFound) {
				h.Log.Warn("membership-fee payment has no membership",
					zap.String("reference", p.Reference))
				return nil
			}
			return err
		}
		// Re-runs keep the original settlement timestamps; only a
		// membership that has not been settled yet is written.
		if m.Payment.Status != models.MembershipPaymentComplete {
			paidAt := now.UTC()
			m.Payment = models.MembershipPayment{
				Status:      models.MembershipPaymentComplete,
				Method:      p.Method,
				ExternalRef: p.Reference,
				AmountPaid:  p.Amount,
				PaidAt:      &paidAt,
			}
			m.CompleteStep(models.StepPayment, now)
			if err := h.Memberships.Save(ctx, m); err != nil {
				return err
			}
		}
		return activation.Activate(ctx, h.DB, p.Entity.ID, "payment:"+p.Reference, now)

	case models.PurposeInvestment:
		// Wallet credits go exclusively through the cycle's own
		// contribution operation, which the president records against
		// a specific calendar slot. The settled transaction itself is
		// the funding record here.
		h.Log.Info("investment payment settled",
			zap.String("reference", p.Reference),
			zap.String("entity_id", p.Entity.ID.Hex()))
		return nil
	}

	// dues, service, other: no dependent entity to flip yet.
	return nil
}
