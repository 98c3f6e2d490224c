// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/mbayedione/giehub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound  = errors.New("membership not found")
	ErrDuplicate = errors.New("group already has a membership")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("memberships")}
}

// Create inserts the membership for a group. Fee amount, benefit flags
// and the step list are derived here so callers cannot set them
// inconsistently.
func (s *Store) Create(ctx context.Context, m models.Membership) (models.Membership, error) {
	now := time.Now().UTC()
	m.ID = primitive.NewObjectID()
	m.ApplyType()
	if m.Validation.Status == "" {
		m.Validation.Status = models.ValidationPending
	}
	if m.Payment.Status == "" {
		m.Payment.Status = models.MembershipPaymentPending
	}
	if len(m.Steps) == 0 {
		m.Steps = models.NewSteps(now)
	}
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Membership{}, ErrDuplicate
		}
		return models.Membership{}, err
	}
	return m, nil
}

func (s *Store) GetByGroup(ctx context.Context, groupID primitive.ObjectID) (models.Membership, error) {
	var m models.Membership
	if err := s.c.FindOne(ctx, bson.M{"group_id": groupID}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Membership{}, ErrNotFound
		}
		return models.Membership{}, err
	}
	return m, nil
}

// Save writes back a mutated membership, re-deriving the type-dependent
// fields first.
func (s *Store) Save(ctx context.Context, m models.Membership) error {
	m.ApplyType()
	m.UpdatedAt = time.Now().UTC()
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByGroup removes the membership of a group (admin cascade).
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
