package payments_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mbayedione/giehub/internal/app/features/payments"
	"github.com/mbayedione/giehub/internal/app/gateway/wave"
	cyclestore "github.com/mbayedione/giehub/internal/app/store/cycles"
	groupstore "github.com/mbayedione/giehub/internal/app/store/groups"
	membershipstore "github.com/mbayedione/giehub/internal/app/store/memberships"
	paymentstore "github.com/mbayedione/giehub/internal/app/store/payments"
	"github.com/mbayedione/giehub/internal/app/system/apiutil"
	"github.com/mbayedione/giehub/internal/domain/models"
	"github.com/mbayedione/giehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const webhookSecret = "whsec_test"

func newTestHandler(db *mongo.Database, waveBaseURL string) *payments.Handler {
	client := wave.New("sk_test", webhookSecret, waveBaseURL, zap.NewNop())
	return payments.NewHandler(db, client, "https://app.test", zap.NewNop())
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) apiutil.Envelope {
	t.Helper()
	var env apiutil.Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response envelope: %v", err)
	}
	return env
}

// seedPayment inserts a pending transaction the way Initiate would.
func seedPayment(t *testing.T, db *mongo.Database, entityID primitive.ObjectID, purpose, method string) models.PaymentTransaction {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now()
	p := models.PaymentTransaction{
		ID:        primitive.NewObjectID(),
		Reference: "PAY-" + primitive.NewObjectID().Hex(),
		Amount:    15000,
		Currency:  models.DefaultCurrency,
		Purpose:   purpose,
		Method:    method,
		Entity:    models.EntityRef{ID: entityID, Type: "membership"},
		Payer:     models.PayerInfo{Name: "Mariama Sow", Phone: "+221770000000"},
		ExpiresAt: now.Add(models.PaymentExpiry).UTC(),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	p.Transition(models.PaymentPending, "payment initiated", nil, now)
	if err := paymentstore.New(db).Create(ctx, &p); err != nil {
		t.Fatalf("failed to seed payment: %v", err)
	}
	return p
}

// signWebhook produces a Wave-Signature header over the raw body.
func signWebhook(body []byte) string {
	ts := fmt.Sprint(time.Now().Unix())
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write([]byte(ts))
	mac.Write(body)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func completedEvent(t *testing.T, reference string) []byte {
	t.Helper()
	body, err := json.Marshal(wave.Event{
		ID:   "EV-1",
		Type: "checkout.session.completed",
		Data: wave.CheckoutSession{
			ID:              "cos-1",
			CheckoutStatus:  wave.CheckoutComplete,
			PaymentStatus:   wave.PaymentSucceeded,
			TransactionID:   "TX-1",
			ClientReference: reference,
			Amount:          "15000",
			Currency:        models.DefaultCurrency,
		},
	})
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}
	return body
}

func initiateBody(entityID primitive.ObjectID, method string) map[string]any {
	return map[string]any{
		"amount":      15000,
		"purpose":     models.PurposeMembershipFee,
		"method":      method,
		"entity_id":   entityID.Hex(),
		"entity_type": "membership",
		"payer":       map[string]string{"name": "Mariama Sow", "phone": "+221770000000"},
	}
}

func TestInitiate_WaveOpensCheckout(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("unexpected provider path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(wave.CheckoutSession{
			ID:             "cos-1",
			LaunchURL:      "https://pay.wave.com/c/cos-1",
			CheckoutStatus: wave.CheckoutOpen,
			PaymentStatus:  wave.PaymentProcessing,
		})
	}))
	defer provider.Close()

	h := newTestHandler(db, provider.URL)

	buf, _ := json.Marshal(initiateBody(primitive.NewObjectID(), models.MethodWave))
	req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewBuffer(buf))
	rec := httptest.NewRecorder()
	h.Initiate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	data := env.Data.(map[string]any)
	if data["checkout_url"] != "https://pay.wave.com/c/cos-1" {
		t.Errorf("checkout_url = %v", data["checkout_url"])
	}
	if data["status"] != models.PaymentInProgress {
		t.Errorf("status = %v, want in-progress", data["status"])
	}

	p, err := paymentstore.New(db).GetByReference(ctx, data["reference"].(string))
	if err != nil {
		t.Fatalf("transaction not persisted: %v", err)
	}
	if p.ProviderSessionID != "cos-1" {
		t.Errorf("provider session id = %q, want cos-1", p.ProviderSessionID)
	}
}

func TestInitiate_CashHasNoCheckout(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(db, "http://127.0.0.1:1")

	buf, _ := json.Marshal(initiateBody(primitive.NewObjectID(), models.MethodCash))
	req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewBuffer(buf))
	rec := httptest.NewRecorder()
	h.Initiate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	data := env.Data.(map[string]any)
	if _, present := data["checkout_url"]; present {
		t.Error("cash payment should not carry a checkout_url")
	}
	if data["status"] != models.PaymentPending {
		t.Errorf("status = %v, want pending", data["status"])
	}
}

func TestInitiate_ProviderErrorKeepsFailedTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"code": "invalid-amount", "message": "amount too small"})
	}))
	defer provider.Close()

	h := newTestHandler(db, provider.URL)

	buf, _ := json.Marshal(initiateBody(primitive.NewObjectID(), models.MethodWave))
	req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewBuffer(buf))
	rec := httptest.NewRecorder()
	h.Initiate(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Code != "CHECKOUT_FAILED" {
		t.Fatalf("code = %q, want CHECKOUT_FAILED", env.Code)
	}
	details := env.Details.(map[string]any)
	if details["provider_code"] != "invalid-amount" {
		t.Errorf("provider_code = %v, want invalid-amount", details["provider_code"])
	}

	// The failed attempt stays as an audit record.
	p, err := paymentstore.New(db).GetByReference(ctx, details["reference"].(string))
	if err != nil {
		t.Fatalf("failed transaction not persisted: %v", err)
	}
	if p.Status != models.PaymentFailed || p.ErrorCode != "invalid-amount" {
		t.Errorf("status = %q, error code = %q", p.Status, p.ErrorCode)
	}
}

func TestInitiate_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(db, "http://127.0.0.1:1")

	body := initiateBody(primitive.NewObjectID(), models.MethodWave)
	body["purpose"] = "donation"
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewBuffer(buf))
	rec := httptest.NewRecorder()
	h.Initiate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Code != "VALIDATION_FAILED" {
		t.Fatalf("code = %q, want VALIDATION_FAILED", env.Code)
	}
	details := env.Details.(map[string]any)
	if details["purpose"] == nil {
		t.Errorf("details = %v, want a purpose entry", details)
	}
}

func TestWaveWebhook_MembershipFeeSettlesOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(db, "http://127.0.0.1:1")

	g := fx.CreateGroup(ctx, "GIE Ndimbal", "01-02-03-04-0001", models.GroupStatusPending)
	fx.CreateMembership(ctx, g.ID)
	seeded := seedPayment(t, db, g.ID, models.PurposeMembershipFee, models.MethodWave)

	body := completedEvent(t, seeded.Reference)

	// Deliver the same event twice; the replay must be a no-op.
	for attempt := 0; attempt < 2; attempt++ {
		req := httptest.NewRequest(http.MethodPost, "/payments/webhook/wave", bytes.NewReader(body))
		req.Header.Set("Wave-Signature", signWebhook(body))
		rec := httptest.NewRecorder()
		h.WaveWebhook(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("delivery %d: expected 200, got %d", attempt, rec.Code)
		}
	}

	p, err := paymentstore.New(db).GetByReference(ctx, seeded.Reference)
	if err != nil {
		t.Fatalf("failed to reload payment: %v", err)
	}
	if p.Status != models.PaymentSucceeded {
		t.Fatalf("payment status = %q, want succeeded", p.Status)
	}
	if p.ProviderTxnID != "TX-1" {
		t.Errorf("provider txn id = %q, want TX-1", p.ProviderTxnID)
	}
	succeeded := 0
	for _, change := range p.History {
		if change.Status == models.PaymentSucceeded {
			succeeded++
		}
	}
	if succeeded != 1 {
		t.Errorf("history has %d succeeded entries, want exactly 1", succeeded)
	}

	m, err := membershipstore.New(db).GetByGroup(ctx, g.ID)
	if err != nil {
		t.Fatalf("failed to reload membership: %v", err)
	}
	if m.Payment.Status != models.MembershipPaymentComplete {
		t.Errorf("membership payment status = %q, want complete", m.Payment.Status)
	}
	if m.Payment.ExternalRef != seeded.Reference {
		t.Errorf("external ref = %q, want %q", m.Payment.ExternalRef, seeded.Reference)
	}
	if m.Validation.Status != models.ValidationValidated {
		t.Errorf("validation status = %q, want validated", m.Validation.Status)
	}
	if m.Validation.Validator != "payment:"+seeded.Reference {
		t.Errorf("validator = %q", m.Validation.Validator)
	}

	got, err := groupstore.New(db).GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("failed to reload group: %v", err)
	}
	if got.Status != models.GroupStatusValidated {
		t.Errorf("group status = %q, want validated", got.Status)
	}

	c, err := cyclestore.New(db).GetByGroup(ctx, g.ID)
	if err != nil {
		t.Fatalf("settlement did not create a cycle: %v", err)
	}
	if len(c.Schedule) != 1826 {
		t.Errorf("cycle schedule has %d slots, want 1826", len(c.Schedule))
	}
}

func TestWaveWebhook_ReplayRetriesSideEffect(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(db, "http://127.0.0.1:1")

	g := fx.CreateGroup(ctx, "GIE Ndimbal", "01-02-03-04-0001", models.GroupStatusPending)
	fx.CreateMembership(ctx, g.ID)
	seeded := seedPayment(t, db, g.ID, models.PurposeMembershipFee, models.MethodWave)

	// The transaction settled but its side effect never ran, the state
	// a crash between the save and the activation leaves behind.
	seeded.Transition(models.PaymentSucceeded, "payment confirmed by provider", nil, time.Now())
	if err := paymentstore.New(db).Save(ctx, seeded); err != nil {
		t.Fatalf("failed to mark payment succeeded: %v", err)
	}

	body := completedEvent(t, seeded.Reference)
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook/wave", bytes.NewReader(body))
	req.Header.Set("Wave-Signature", signWebhook(body))
	rec := httptest.NewRecorder()
	h.WaveWebhook(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	m, err := membershipstore.New(db).GetByGroup(ctx, g.ID)
	if err != nil {
		t.Fatalf("failed to reload membership: %v", err)
	}
	if m.Validation.Status != models.ValidationValidated {
		t.Errorf("validation status = %q, replay must re-run the side effect", m.Validation.Status)
	}
	if m.Payment.Status != models.MembershipPaymentComplete {
		t.Errorf("membership payment status = %q, want complete", m.Payment.Status)
	}
	if _, err := cyclestore.New(db).GetByGroup(ctx, g.ID); err != nil {
		t.Errorf("replay did not create the cycle: %v", err)
	}

	// The replay must not append a second succeeded history entry.
	p, err := paymentstore.New(db).GetByReference(ctx, seeded.Reference)
	if err != nil {
		t.Fatalf("failed to reload payment: %v", err)
	}
	succeeded := 0
	for _, change := range p.History {
		if change.Status == models.PaymentSucceeded {
			succeeded++
		}
	}
	if succeeded != 1 {
		t.Errorf("history has %d succeeded entries, want exactly 1", succeeded)
	}
}

func TestWaveWebhook_LateExpiryKeepsSucceeded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(db, "http://127.0.0.1:1")

	g := fx.CreateGroup(ctx, "GIE Ndimbal", "01-02-03-04-0001", models.GroupStatusPending)
	fx.CreateMembership(ctx, g.ID)
	seeded := seedPayment(t, db, g.ID, models.PurposeMembershipFee, models.MethodWave)

	completed := completedEvent(t, seeded.Reference)
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook/wave", bytes.NewReader(completed))
	req.Header.Set("Wave-Signature", signWebhook(completed))
	rec := httptest.NewRecorder()
	h.WaveWebhook(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("completion delivery failed: %d", rec.Code)
	}

	// A stale expiry event delivered after settlement.
	expired, err := json.Marshal(wave.Event{
		ID:   "EV-2",
		Type: "checkout.session.payment_failed",
		Data: wave.CheckoutSession{
			ID:              "cos-1",
			CheckoutStatus:  wave.CheckoutExpired,
			ClientReference: seeded.Reference,
		},
	})
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/payments/webhook/wave", bytes.NewReader(expired))
	req.Header.Set("Wave-Signature", signWebhook(expired))
	rec = httptest.NewRecorder()
	h.WaveWebhook(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expiry delivery failed: %d", rec.Code)
	}

	p, err := paymentstore.New(db).GetByReference(ctx, seeded.Reference)
	if err != nil {
		t.Fatalf("failed to reload payment: %v", err)
	}
	if p.Status != models.PaymentSucceeded {
		t.Errorf("status = %q, late expiry must not undo a settled payment", p.Status)
	}
	for _, change := range p.History {
		if change.Status == models.PaymentCancelled {
			t.Errorf("history carries a cancelled entry after settlement")
		}
	}
}

func TestSettle_CashMembershipFee(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(db, "http://127.0.0.1:1")

	g := fx.CreateGroup(ctx, "GIE Ndimbal", "01-02-03-04-0001", models.GroupStatusPending)
	fx.CreateMembership(ctx, g.ID)
	seeded := seedPayment(t, db, g.ID, models.PurposeMembershipFee, models.MethodCash)

	// Settle twice; the replay answers with the settled state and
	// leaves exactly one succeeded history entry.
	for attempt := 0; attempt < 2; attempt++ {
		buf, _ := json.Marshal(map[string]string{"remark": "received at the local office"})
		req := httptest.NewRequest(http.MethodPost, "/payments/"+seeded.Reference+"/settle", bytes.NewBuffer(buf))
		req = testutil.WithChiURLParam(req, "reference", seeded.Reference)
		rec := httptest.NewRecorder()
		h.Settle(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("settle %d: expected 200, got %d: %s", attempt, rec.Code, rec.Body.String())
		}
		env := decodeEnvelope(t, rec)
		if data := env.Data.(map[string]any); data["status"] != models.PaymentSucceeded {
			t.Fatalf("settle %d: status = %v, want succeeded", attempt, data["status"])
		}
	}

	p, err := paymentstore.New(db).GetByReference(ctx, seeded.Reference)
	if err != nil {
		t.Fatalf("failed to reload payment: %v", err)
	}
	if p.Status != models.PaymentSucceeded || p.PaidAt == nil {
		t.Fatalf("payment status = %q, paid at %v", p.Status, p.PaidAt)
	}
	succeeded := 0
	for _, change := range p.History {
		if change.Status == models.PaymentSucceeded {
			succeeded++
		}
	}
	if succeeded != 1 {
		t.Errorf("history has %d succeeded entries, want exactly 1", succeeded)
	}

	m, err := membershipstore.New(db).GetByGroup(ctx, g.ID)
	if err != nil {
		t.Fatalf("failed to reload membership: %v", err)
	}
	if m.Payment.Status != models.MembershipPaymentComplete {
		t.Errorf("membership payment status = %q, want complete", m.Payment.Status)
	}
	if m.Payment.Method != models.MethodCash {
		t.Errorf("membership payment method = %q, want cash", m.Payment.Method)
	}
	if m.Validation.Status != models.ValidationValidated {
		t.Errorf("validation status = %q, want validated", m.Validation.Status)
	}

	got, err := groupstore.New(db).GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("failed to reload group: %v", err)
	}
	if got.Status != models.GroupStatusValidated {
		t.Errorf("group status = %q, want validated", got.Status)
	}
	if _, err := cyclestore.New(db).GetByGroup(ctx, g.ID); err != nil {
		t.Errorf("settlement did not create a cycle: %v", err)
	}
}

func TestSettle_RejectsWaveMethod(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(db, "http://127.0.0.1:1")

	seeded := seedPayment(t, db, primitive.NewObjectID(), models.PurposeMembershipFee, models.MethodWave)

	req := httptest.NewRequest(http.MethodPost, "/payments/"+seeded.Reference+"/settle", nil)
	req = testutil.WithChiURLParam(req, "reference", seeded.Reference)
	rec := httptest.NewRecorder()
	h.Settle(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != "PROVIDER_SETTLED" {
		t.Errorf("code = %q, want PROVIDER_SETTLED", env.Code)
	}
}

func TestSettle_CancelledNotSettleable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	h := newTestHandler(db, "http://127.0.0.1:1")

	seeded := seedPayment(t, db, primitive.NewObjectID(), models.PurposeDues, models.MethodOrangeMoney)
	seeded.Transition(models.PaymentCancelled, "checkout expired", nil, time.Now())
	if err := paymentstore.New(db).Save(ctx, seeded); err != nil {
		t.Fatalf("failed to cancel payment: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/payments/"+seeded.Reference+"/settle", nil)
	req = testutil.WithChiURLParam(req, "reference", seeded.Reference)
	rec := httptest.NewRecorder()
	h.Settle(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Code != "PAYMENT_NOT_SETTLEABLE" {
		t.Fatalf("code = %q, want PAYMENT_NOT_SETTLEABLE", env.Code)
	}
	details := env.Details.(map[string]any)
	if details["status"] != models.PaymentCancelled {
		t.Errorf("details status = %v, want cancelled", details["status"])
	}
}

func TestWaveWebhook_BadSignature(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	h := newTestHandler(db, "http://127.0.0.1:1")

	seeded := seedPayment(t, db, primitive.NewObjectID(), models.PurposeMembershipFee, models.MethodWave)
	body := completedEvent(t, seeded.Reference)

	req := httptest.NewRequest(http.MethodPost, "/payments/webhook/wave", bytes.NewReader(body))
	req.Header.Set("Wave-Signature", "t=1,v1=deadbeef")
	rec := httptest.NewRecorder()
	h.WaveWebhook(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	p, err := paymentstore.New(db).GetByReference(ctx, seeded.Reference)
	if err != nil {
		t.Fatalf("failed to reload payment: %v", err)
	}
	if p.Status != models.PaymentPending {
		t.Errorf("payment status = %q, rejected delivery must not settle", p.Status)
	}
}

func TestWaveWebhook_UnknownReferenceAcknowledged(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(db, "http://127.0.0.1:1")

	body := completedEvent(t, "PAY-unknown")
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook/wave", bytes.NewReader(body))
	req.Header.Set("Wave-Signature", signWebhook(body))
	rec := httptest.NewRecorder()
	h.WaveWebhook(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for unknown reference, got %d", rec.Code)
	}
}

func TestStatus_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(db, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodGet, "/payments/PAY-missing/status", nil)
	req = testutil.WithChiURLParam(req, "reference", "PAY-missing")
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != "PAYMENT_NOT_FOUND" {
		t.Errorf("code = %q, want PAYMENT_NOT_FOUND", env.Code)
	}
}

func TestStatus_LazyExpiry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	h := newTestHandler(db, "http://127.0.0.1:1")

	seeded := seedPayment(t, db, primitive.NewObjectID(), models.PurposeDues, models.MethodCash)
	seeded.ExpiresAt = time.Now().Add(-time.Hour).UTC()
	if err := paymentstore.New(db).Save(ctx, seeded); err != nil {
		t.Fatalf("failed to backdate payment: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/payments/"+seeded.Reference+"/status", nil)
	req = testutil.WithChiURLParam(req, "reference", seeded.Reference)
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	data := env.Data.(map[string]any)
	if data["status"] != models.PaymentCancelled {
		t.Errorf("status = %v, want cancelled", data["status"])
	}

	// The expiry is persisted, not just rendered.
	p, err := paymentstore.New(db).GetByReference(ctx, seeded.Reference)
	if err != nil {
		t.Fatalf("failed to reload payment: %v", err)
	}
	if p.Status != models.PaymentCancelled {
		t.Errorf("stored status = %q, want cancelled", p.Status)
	}
}
