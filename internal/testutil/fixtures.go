// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/mbayedione/giehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// Roster builds a minimal compliant roster: a secretary and a treasurer,
// both women, plus extra plain members of the given categories.
func Roster(extra ...string) []models.RosterMember {
	roster := []models.RosterMember{
		{Person: models.Person{FirstName: "Awa", LastName: "Diop", Phone: "+221770000001"}, Role: models.RoleSecretary, Category: models.CategoryWoman},
		{Person: models.Person{FirstName: "Fatou", LastName: "Ndiaye", Phone: "+221770000002"}, Role: models.RoleTreasurer, Category: models.CategoryWoman},
	}
	for i, cat := range extra {
		roster = append(roster, models.RosterMember{
			Person:   models.Person{FirstName: fmt.Sprintf("Member%d", i), LastName: "Fall", Phone: fmt.Sprintf("+2217700001%02d", i)},
			Role:     models.RoleMember,
			Category: cat,
		})
	}
	return roster
}

// CreateGroup inserts a group with a compliant three-person composition
// and the given status.
func (f *Fixtures) CreateGroup(ctx context.Context, name, code, status string) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Group{
		ID:                primitive.NewObjectID(),
		Code:              code,
		Name:              name,
		NameCI:            text.Fold(name),
		ProtocolNumber:    "PROT-" + code,
		President:         models.Person{FirstName: "Mariama", LastName: "Sow", Phone: "+221770000000"},
		PresidentCategory: models.CategoryWoman,
		Roster:            Roster(),
		Status:            status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}

// CreateMembership inserts a standard membership for the group.
func (f *Fixtures) CreateMembership(ctx context.Context, groupID primitive.ObjectID) models.Membership {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Membership{
		ID:      primitive.NewObjectID(),
		GroupID: groupID,
		Type:    models.MembershipStandard,
		Validation: models.Validation{
			Status: models.ValidationPending,
		},
		Payment: models.MembershipPayment{
			Status: models.MembershipPaymentPending,
		},
		Steps:     models.NewSteps(now),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.ApplyType()
	if _, err := f.db.Collection("memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// CreateCycle inserts a fresh investment cycle starting on the given
// date.
func (f *Fixtures) CreateCycle(ctx context.Context, groupID primitive.ObjectID, start time.Time) models.InvestmentCycle {
	f.t.Helper()

	c := models.NewInvestmentCycle(groupID, start, time.Now())
	if _, err := f.db.Collection("investment_cycles").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test cycle: %v", err)
	}
	return *c
}
