// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail
fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}
	if err := ensureMemberships(ctx, db); err != nil {
		problems = append(problems, "memberships: "+err.Error())
	}
	if err := ensureCycles(ctx, db); err != nil {
		problems = append(problems, "investment_cycles: "+err.Error())
	}
	if err := ensurePayments(ctx, db); err != nil {
		problems = append(problems, "payment_transactions: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensure(ctx context.Context, db *mongo.Database, coll string, idx []mongo.IndexModel) error {
	_, err := db.Collection(coll).Indexes().CreateMany(ctx, idx)
	return err
}

func unique() *options.IndexOptions {
	return options.Index().SetUnique(true)
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db, "groups", []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: unique()},
		{Keys: bson.D{{Key: "protocol_number", Value: 1}}, Options: unique()},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "name_ci", Value: 1}}},
	})
}

func ensureMemberships(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db, "memberships", []mongo.IndexModel{
		// One membership per group.
		{Keys: bson.D{{Key: "group_id", Value: 1}}, Options: unique()},
		{Keys: bson.D{{Key: "validation.status", Value: 1}}},
	})
}

func ensureCycles(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db, "investment_cycles", []mongo.IndexModel{
		// One cycle per group.
		{Keys: bson.D{{Key: "group_id", Value: 1}}, Options: unique()},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
}

func ensurePayments(ctx context.Context, db *mongo.Database) error {
	return ensure(ctx, db, "payment_transactions", []mongo.IndexModel{
		{Keys: bson.D{{Key: "reference", Value: 1}}, Options: unique()},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "expires_at", Value: 1}}},
		{Keys: bson.D{{Key: "entity.id", Value: 1}}},
	})
}
