package paymentstore_test

import (
	"errors"
	"testing"
	"time"

	paymentstore "github.com/mbayedione/giehub/internal/app/store/payments"
	"github.com/mbayedione/giehub/internal/domain/models"
	"github.com/mbayedione/giehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTransaction(reference string, expiresAt time.Time) models.PaymentTransaction {
	now := time.Now().UTC()
	p := models.PaymentTransaction{
		ID:        primitive.NewObjectID(),
		Reference: reference,
		Amount:    10000,
		Currency:  models.DefaultCurrency,
		Status:    models.PaymentPending,
		Purpose:   models.PurposeMembershipFee,
		Method:    models.MethodWave,
		Entity:    models.EntityRef{ID: primitive.NewObjectID(), Type: "membership"},
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.Transition(models.PaymentPending, "payment initiated", nil, now)
	return p
}

func TestCreateAndGetByReference(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := paymentstore.New(db)
	p := newTransaction("PAY-abc", time.Now().Add(models.PaymentExpiry))
	if err := store.Create(ctx, &p); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByReference(ctx, "PAY-abc")
	if err != nil {
		t.Fatalf("GetByReference failed: %v", err)
	}
	if got.Amount != 10000 || got.Purpose != models.PurposeMembershipFee {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if len(got.History) != 1 {
		t.Errorf("history length: got %d, want 1", len(got.History))
	}

	if _, err := store.GetByReference(ctx, "PAY-missing"); !errors.Is(err, paymentstore.ErrNotFound) {
		t.Errorf("missing reference: got %v, want ErrNotFound", err)
	}
}

func TestListByEntity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := paymentstore.New(db)
	entityID := primitive.NewObjectID()

	for _, ref := range []string{"PAY-1", "PAY-2"} {
		p := newTransaction(ref, time.Now().Add(models.PaymentExpiry))
		p.Entity.ID = entityID
		if err := store.Create(ctx, &p); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	other := newTransaction("PAY-3", time.Now().Add(models.PaymentExpiry))
	if err := store.Create(ctx, &other); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rows, err := store.ListByEntity(ctx, entityID)
	if err != nil {
		t.Fatalf("ListByEntity failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("rows: got %d, want 2", len(rows))
	}
}

func TestExpireStale(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := paymentstore.New(db)
	now := time.Now()

	stale := newTransaction("PAY-stale", now.Add(-time.Minute))
	fresh := newTransaction("PAY-fresh", now.Add(models.PaymentExpiry))
	done := newTransaction("PAY-done", now.Add(-time.Minute))
	done.Status = models.PaymentSucceeded

	for _, p := range []*models.PaymentTransaction{&stale, &fresh, &done} {
		if err := store.Create(ctx, p); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	count, err := store.ExpireStale(ctx, now)
	if err != nil {
		t.Fatalf("ExpireStale failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expired count: got %d, want 1", count)
	}

	got, err := store.GetByReference(ctx, "PAY-stale")
	if err != nil {
		t.Fatalf("GetByReference failed: %v", err)
	}
	if got.Status != models.PaymentCancelled {
		t.Errorf("stale status: got %q, want %q", got.Status, models.PaymentCancelled)
	}
	last := got.History[len(got.History)-1]
	if last.Status != models.PaymentCancelled || last.Remark != "checkout expired" {
		t.Errorf("expiry history entry: %+v", last)
	}

	for _, ref := range []string{"PAY-fresh", "PAY-done"} {
		got, err := store.GetByReference(ctx, ref)
		if err != nil {
			t.Fatalf("GetByReference failed: %v", err)
		}
		if got.Status == models.PaymentCancelled {
			t.Errorf("%s cancelled by sweep", ref)
		}
	}
}
