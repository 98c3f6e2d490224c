// internal/app/store/cycles/cyclestore.go
package cyclestore

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
	ErrNotFound = errors.New("investment cycle not found")
	// ErrDuplicate means the group already has its one cycle. Callers
	// creating a cycle on activation treat this as "already done".
	ErrDuplicate = errors.New("group already has an investment cycle")
	// ErrVersionConflict means a concurrent writer saved the document
	// between our read and write. The caller should reload and retry.
	ErrVersionConflict = errors.New("investment cycle was modified concurrently")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("investment_cycles")}
}

func (s *Store) Create(ctx context.Context, c *models.InvestmentCycle) error {
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *Store) GetByGroup(ctx context.Context, groupID primitive.ObjectID) (models.InvestmentCycle, error) {
	var c models.InvestmentCycle
	if err := s.c.FindOne(ctx, bson.M{"group_id": groupID}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.InvestmentCycle{}, ErrNotFound
		}
		return models.InvestmentCycle{}, err
	}
	return c, nil
}

// Save writes back a mutated cycle using a version-checked conditional
// replace. Two concurrent contribution recordings both read version N;
// only the first replace matches {_id, version:N}, the second gets
// ErrVersionConflict instead of silently double-crediting the wallet.
func (s *Store) Save(ctx context.Context, c models.InvestmentCycle) error {
	loaded := c.Version
	c.Version++
	c.UpdatedAt = time.Now().UTC()
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": c.ID, "version": loaded}, c)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the document vanished or the version moved under us.
		if err := s.c.FindOne(ctx, bson.M{"_id": c.ID}).Err(); errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

// SetStatus is the admin suspend/cancel/reactivate path. It goes through
// a plain conditional update because it does not touch the schedule or
// wallet.
func (s *Store) SetStatus(ctx context.Context, groupID primitive.ObjectID, status string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"group_id": groupID}, bson.M{
		"$set": bson.M{"status": status, "updated_at": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CompleteFullyContributed is the nightly sweep: any active cycle whose
// contributed count reached its duration is marked complete. The normal
// write path already does this lazily; the sweep catches documents
// mutated outside it.
func (s *Store) CompleteFullyContributed(ctx context.Context) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{
			"status": models.CycleActive,
			"$expr":  bson.M{"$gte": bson.A{"$contributed_days", "$duration_days"}},
		},
		bson.M{
			"$set": bson.M{"status": models.CycleComplete, "updated_at": time.Now().UTC()},
			"$inc": bson.M{"version": 1},
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// DeleteByGroup removes the cycle of a group (admin cascade).
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
