// internal/domain/models/membership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership types. Type drives the fee amount and the included-benefit
// flags; both are derived at save time, never set independently.
const (
	MembershipStandard = "standard"
	MembershipPremium  = "premium"
)

// Membership fee amounts in XOF.
const (
	StandardFee int64 = 10000
	PremiumFee  int64 = 25000
)

// Validation statuses for the membership approval workflow.
const (
	ValidationPending    = "pending"
	ValidationInProgress = "in-progress"
	ValidationValidated  = "validated"
	ValidationRejected   = "rejected"
)

// Payment statuses tracked on the membership's payment sub-object.
const (
	MembershipPaymentPending    = "pending"
	MembershipPaymentInProgress = "in-progress"
	MembershipPaymentComplete   = "complete"
	MembershipPaymentFailed     = "failed"
	MembershipPaymentRefunded   = "refunded"
)

// Process step names, in workflow order.
const (
	StepSubmission   = "submission"
	StepVerification = "verification"
	StepPayment      = "payment"
	StepValidation   = "validation"
	StepActivation   = "activation"
)

// ProcessStepCount is the fixed number of workflow steps.
const ProcessStepCount = 5

// Validation is the approval sub-object of a membership.
type Validation struct {
	Status    string          `bson:"status" json:"status"`
	At        *time.Time      `bson:"at,omitempty" json:"at,omitempty"`
	Validator string          `bson:"validator,omitempty" json:"validator,omitempty"`
	Remarks   string          `bson:"remarks,omitempty" json:"remarks,omitempty"`
	Documents map[string]bool `bson:"documents,omitempty" json:"documents,omitempty"`
}

// MembershipPayment is the payment sub-object of a membership.
type MembershipPayment struct {
	Status      string     `bson:"status" json:"status"`
	Method      string     `bson:"method,omitempty" json:"method,omitempty"`
	ExternalRef string     `bson:"external_ref,omitempty" json:"external_ref,omitempty"`
	AmountPaid  int64      `bson:"amount_paid,omitempty" json:"amount_paid,omitempty"`
	PaidAt      *time.Time `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
}

// ProcessStep records completion of one named workflow step.
type ProcessStep struct {
	Name        string     `bson:"name" json:"name"`
	Done        bool       `bson:"done" json:"done"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// Benefits are the included-benefit flags derived from the membership type.
type Benefits struct {
	Training         bool `bson:"training" json:"training"`
	Microcredit      bool `bson:"microcredit" json:"microcredit"`
	PrioritySupport  bool `bson:"priority_support" json:"priority_support"`
	EquipmentSharing bool `bson:"equipment_sharing" json:"equipment_sharing"`
}

// Membership tracks one group's application to join the program.
// Exactly one membership exists per group; it is created atomically with
// the group at registration.
type Membership struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	GroupID primitive.ObjectID `bson:"group_id" json:"group_id"`

	Type      string   `bson:"type" json:"type"`
	FeeAmount int64    `bson:"fee_amount" json:"fee_amount"`
	Benefits  Benefits `bson:"benefits" json:"benefits"`

	Validation Validation        `bson:"validation" json:"validation"`
	Payment    MembershipPayment `bson:"payment" json:"payment"`
	Steps      []ProcessStep     `bson:"steps" json:"steps"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ApplyType derives the fee amount and benefit flags from the membership
// type. Called on every save so the derived fields can never drift.
func (m *Membership) ApplyType() {
	switch m.Type {
	case MembershipPremium:
		m.FeeAmount = PremiumFee
		m.Benefits = Benefits{Training: true, Microcredit: true, PrioritySupport: true, EquipmentSharing: true}
	default:
		m.Type = MembershipStandard
		m.FeeAmount = StandardFee
		m.Benefits = Benefits{Training: true, Microcredit: true}
	}
}

// NewSteps returns the five workflow steps with submission already
// completed, which is the state of a freshly created membership.
func NewSteps(now time.Time) []ProcessStep {
	steps := []ProcessStep{
		{Name: StepSubmission, Done: true, CompletedAt: &now},
		{Name: StepVerification},
		{Name: StepPayment},
		{Name: StepValidation},
		{Name: StepActivation},
	}
	return steps
}

// CompleteStep marks the named step done at the given time. Completing a
// step twice is a no-op so workflow actions can be replayed safely.
func (m *Membership) CompleteStep(name string, at time.Time) {
	for i := range m.Steps {
		if m.Steps[i].Name == name && !m.Steps[i].Done {
			m.Steps[i].Done = true
			t := at
			m.Steps[i].CompletedAt = &t
			return
		}
	}
}

// Progress returns the workflow completion percentage (0–100).
func (m *Membership) Progress() float64 {
	done := 0
	for _, s := range m.Steps {
		if s.Done {
			done++
		}
	}
	return float64(done) / ProcessStepCount * 100
}
