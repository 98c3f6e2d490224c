// internal/app/store/payments/paymentstore.go
package paymentstore

import (
	"context"
	"errors"
	"time"

	"github.com/mbayedione/giehub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("payment transaction not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("payment_transactions")}
}

func (s *Store) Create(ctx context.Context, p *models.PaymentTransaction) error {
	_, err := s.c.InsertOne(ctx, p)
	return err
}

func (s *Store) GetByReference(ctx context.Context, reference string) (models.PaymentTransaction, error) {
	var p models.PaymentTransaction
	if err := s.c.FindOne(ctx, bson.M{"reference": reference}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.PaymentTransaction{}, ErrNotFound
		}
		return models.PaymentTransaction{}, err
	}
	return p, nil
}

// Save writes back a mutated transaction. The status history is
// append-only; nothing here rewrites past entries.
func (s *Store) Save(ctx context.Context, p models.PaymentTransaction) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByEntity returns the transactions that fund a given entity, newest
// first.
func (s *Store) ListByEntity(ctx context.Context, entityID primitive.ObjectID) ([]models.PaymentTransaction, error) {
	cur, err := s.c.Find(ctx, bson.M{"entity.id": entityID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.PaymentTransaction
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExpireStale cancels pending and in-progress transactions whose
// expiration timestamp has passed, appending the matching history entry.
// Called by the payment-expiry sweep.
func (s *Store) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	now = now.UTC()
	res, err := s.c.UpdateMany(ctx,
		bson.M{
			"status":     bson.M{"$in": bson.A{models.PaymentPending, models.PaymentInProgress}},
			"expires_at": bson.M{"$lt": now},
		},
		bson.M{
			"$set": bson.M{"status": models.PaymentCancelled, "updated_at": now},
			"$push": bson.M{"history": models.StatusChange{
				Status: models.PaymentCancelled,
				At:     now,
				Remark: "checkout expired",
			}},
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
