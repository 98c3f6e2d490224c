// Package activation flips a group into the validated state: group
// status, membership workflow steps, and the one-per-group investment
// cycle, in that order.
//
// It is invoked from two places: the admin validation action and the
// membership-fee payment side effect. Webhooks can retry, so every step
// is idempotent; replaying Activate on an already-validated group is a
// no-op.
package activation

import (
	"context"
	"errors"
	"time"

	cyclestore "github.com/mbayedione/giehub/internal/app/store/cycles"
	groupstore "github.com/mbayedione/giehub/internal/app/store/groups"
	membershipstore "github.com/mbayedione/giehub/internal/app/store/memberships"
	"github.com/mbayedione/giehub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Activate validates the group, completes the membership validation and
// activation steps, and ensures the investment cycle exists with its
// schedule starting today.
func Activate(ctx context.Context, db *mongo.Database, groupID primitive.ObjectID, validator string, now time.Time) error {
	groups := groupstore.New(db)
	memberships := membershipstore.New(db)
	cycles := cyclestore.New(db)

	if err := groups.SetStatus(ctx, groupID, models.GroupStatusValidated); err != nil {
		return err
	}

	m, err := memberships.GetByGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if m.Validation.Status != models.ValidationValidated {
		t := now.UTC()
		m.Validation.Status = models.ValidationValidated
		m.Validation.At = &t
		if validator != "" {
			m.Validation.Validator = validator
		}
	}
	m.CompleteStep(models.StepVerification, now)
	m.CompleteStep(models.StepValidation, now)
	m.CompleteStep(models.StepActivation, now)
	if err := memberships.Save(ctx, m); err != nil {
		return err
	}

	cycle := models.NewInvestmentCycle(groupID, now, now)
	if err := cycles.Create(ctx, cycle); err != nil && !errors.Is(err, cyclestore.ErrDuplicate) {
		return err
	}
	return nil
}
