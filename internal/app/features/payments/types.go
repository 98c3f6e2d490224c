// internal/app/features/payments/types.go
package payments

import (
	"strings"
	"time"

	"github.com/mbayedione/giehub/internal/app/system/sanitize"
	"github.com/mbayedione/giehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// initiateRequest is the POST /payments body.
type initiateRequest struct {
	Amount     int64  `json:"amount"`
	Purpose    string `json:"purpose"`
	Method     string `json:"method"`
	EntityID   string `json:"entity_id"`
	EntityType string `json:"entity_type"`
	Payer      struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Email string `json:"email,omitempty"`
	} `json:"payer"`
}

func (r *initiateRequest) validate() map[string]string {
	errs := map[string]string{}
	if r.Amount <= 0 {
		errs["amount"] = "amount must be a positive integer"
	}
	switch r.Purpose {
	case models.PurposeMembershipFee, models.PurposeInvestment, models.PurposeDues,
		models.PurposeService, models.PurposeOther:
	default:
		errs["purpose"] = "unknown payment purpose"
	}
	switch r.Method {
	case models.MethodWave, models.MethodOrangeMoney, models.MethodCash:
	default:
		errs["method"] = "unknown payment method"
	}
	if _, err := primitive.ObjectIDFromHex(r.EntityID); err != nil {
		errs["entity_id"] = "entity_id is not a valid object id"
	}
	switch r.EntityType {
	case "membership", "investment-cycle":
	default:
		errs["entity_type"] = `entity_type must be "membership" or "investment-cycle"`
	}
	if strings.TrimSpace(r.Payer.Name) == "" {
		errs["payer.name"] = "payer name is required"
	}
	if strings.TrimSpace(r.Payer.Phone) == "" {
		errs["payer.phone"] = "payer phone is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// toTransaction builds the pending transaction. The reference and
// timestamps are filled in by the handler.
func (r *initiateRequest) toTransaction(now time.Time) models.PaymentTransaction {
	entityID, _ := primitive.ObjectIDFromHex(r.EntityID)
	return models.PaymentTransaction{
		Amount:   r.Amount,
		Currency: models.DefaultCurrency,
		Status:   models.PaymentPending,
		Purpose:  r.Purpose,
		Method:   r.Method,
		Entity:   models.EntityRef{ID: entityID, Type: r.EntityType},
		Payer: models.PayerInfo{
			Name:  sanitize.Text(r.Payer.Name),
			Phone: strings.TrimSpace(r.Payer.Phone),
			Email: strings.TrimSpace(r.Payer.Email),
		},
		ExpiresAt: now.Add(models.PaymentExpiry).UTC(),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

// settleRequest is the POST /payments/{reference}/settle body. The
// body is optional; Remark records where the money was received.
type settleRequest struct {
	Remark string `json:"remark,omitempty"`
}

// initiateView is the POST /payments response. CheckoutURL is present
// only for methods with a hosted checkout page.
type initiateView struct {
	Reference   string    `json:"reference"`
	Status      string    `json:"status"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Method      string    `json:"method"`
	Purpose     string    `json:"purpose"`
	CheckoutURL string    `json:"checkout_url,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// statusView is the GET /payments/{reference}/status response.
type statusView struct {
	Reference string                `json:"reference"`
	Status    string                `json:"status"`
	Amount    int64                 `json:"amount"`
	Currency  string                `json:"currency"`
	Purpose   string                `json:"purpose"`
	Method    string                `json:"method"`
	PaidAt    *time.Time            `json:"paid_at,omitempty"`
	ExpiresAt time.Time             `json:"expires_at"`
	History   []models.StatusChange `json:"history"`
	Error     map[string]string     `json:"error,omitempty"`
}
