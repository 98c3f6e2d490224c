// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/mbayedione/giehub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateCode     = errors.New("a group with this code already exists")
	ErrDuplicateProtocol = errors.New("a group with this protocol number already exists")
	ErrInvalidCode       = errors.New("group code must be five hyphen-separated numeric segments")
	ErrNotFound          = errors.New("group not found")
)

// codeRe matches the region-department-district-commune-sequence format.
var codeRe = regexp.MustCompile(`^\d{1,3}-\d{1,3}-\d{1,3}-\d{1,3}-\d{1,6}$`)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

// ValidCode reports whether code has the expected five numeric segments.
func ValidCode(code string) bool {
	return codeRe.MatchString(code)
}

func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	if !ValidCode(g.Code) {
		return models.Group{}, ErrInvalidCode
	}
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	if g.Status == "" {
		g.Status = models.GroupStatusPending
	}
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			// Both code and protocol_number carry unique indexes; the
			// duplicate-key message names the offending index.
			if strings.Contains(err.Error(), "protocol_number") {
				return models.Group{}, ErrDuplicateProtocol
			}
			return models.Group{}, ErrDuplicateCode
		}
		return models.Group{}, err
	}
	return g, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Group{}, ErrNotFound
		}
		return models.Group{}, err
	}
	return g, nil
}

func (s *Store) GetByCode(ctx context.Context, code string) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"code": code}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Group{}, ErrNotFound
		}
		return models.Group{}, err
	}
	return g, nil
}

// SetStatus updates the authoritative group status. The president and
// composition fields are immutable after creation; this is deliberately
// the only group mutation the store exposes.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns a page of groups, optionally filtered by status, newest
// first, along with the total matching count.
func (s *Store) List(ctx context.Context, status string, skip, limit int64) ([]models.Group, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	var out []models.Group
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Delete removes a group by ID. Returns the number of documents deleted
// (0 or 1). Cascading removal of the membership and cycle is the
// caller's job.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
