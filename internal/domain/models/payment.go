// internal/domain/models/payment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment transaction statuses.
const (
	PaymentPending    = "pending"
	PaymentInProgress = "in-progress"
	PaymentSucceeded  = "succeeded"
	PaymentFailed     = "failed"
	PaymentCancelled  = "cancelled"
	PaymentRefunded   = "refunded"
)

// Payment purposes. The purpose selects the completion side effect that
// fires when a transaction reaches "succeeded".
const (
	PurposeMembershipFee = "membership-fee"
	PurposeInvestment    = "investment"
	PurposeDues          = "dues"
	PurposeService       = "service"
	PurposeOther         = "other"
)

// Payment methods.
const (
	MethodWave        = "wave"
	MethodOrangeMoney = "orange-money"
	MethodCash        = "cash"
)

// DefaultCurrency is the regional currency every transaction settles in.
const DefaultCurrency = "XOF"

// PaymentExpiry is how long a checkout stays payable.
const PaymentExpiry = 30 * time.Minute

// EntityRef is the polymorphic reference to whatever the payment funds.
type EntityRef struct {
	ID   primitive.ObjectID `bson:"id" json:"id"`
	Type string             `bson:"type" json:"type"` // "membership" | "investment-cycle"
}

// PayerInfo is a contact snapshot taken when the payment was initiated,
// kept even if the underlying group record changes later.
type PayerInfo struct {
	Name  string `bson:"name" json:"name"`
	Phone string `bson:"phone" json:"phone"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
}

// StatusChange is one entry of the append-only status history.
type StatusChange struct {
	Status string    `bson:"status" json:"status"`
	At     time.Time `bson:"at" json:"at"`
	Remark string    `bson:"remark,omitempty" json:"remark,omitempty"`
	Data   bson.M    `bson:"data,omitempty" json:"data,omitempty"`
}

// PaymentTransaction is one externally-processed payment. Rows are never
// deleted; a failed checkout attempt stays as an audit trail.
type PaymentTransaction struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Reference string             `bson:"reference" json:"reference"`

	ProviderTxnID     string `bson:"provider_txn_id,omitempty" json:"provider_txn_id,omitempty"`
	ProviderSessionID string `bson:"provider_session_id,omitempty" json:"provider_session_id,omitempty"`

	Amount   int64  `bson:"amount" json:"amount"`
	Currency string `bson:"currency" json:"currency"`
	Status   string `bson:"status" json:"status"`
	Purpose  string `bson:"purpose" json:"purpose"`
	Method   string `bson:"method" json:"method"`

	Entity EntityRef `bson:"entity" json:"entity"`
	Payer  PayerInfo `bson:"payer" json:"payer"`

	ProviderPayload bson.M         `bson:"provider_payload,omitempty" json:"-"`
	History         []StatusChange `bson:"history" json:"history"`

	ErrorMessage string `bson:"error_message,omitempty" json:"error_message,omitempty"`
	ErrorCode    string `bson:"error_code,omitempty" json:"error_code,omitempty"`

	ExpiresAt time.Time  `bson:"expires_at" json:"expires_at"`
	PaidAt    *time.Time `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// Transition moves the transaction to a new status and appends the
// matching history entry. The caller decides whether the transition is
// legal; Transition only keeps status and history in lockstep.
func (p *PaymentTransaction) Transition(status, remark string, data bson.M, now time.Time) {
	p.Status = status
	p.UpdatedAt = now.UTC()
	p.History = append(p.History, StatusChange{
		Status: status,
		At:     now.UTC(),
		Remark: remark,
		Data:   data,
	})
}

// Expired reports whether a still-payable transaction has passed its
// expiration timestamp.
func (p *PaymentTransaction) Expired(now time.Time) bool {
	switch p.Status {
	case PaymentPending, PaymentInProgress:
		return now.After(p.ExpiresAt)
	}
	return false
}
