package wave_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mbayedione/giehub/internal/app/gateway/wave"
	"go.uber.org/zap"
)

func TestCreateCheckout(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":              "cos-1",
			"wave_launch_url": "https://pay.wave.com/c/cos-1",
			"checkout_status": wave.CheckoutOpen,
			"payment_status":  wave.PaymentProcessing,
		})
	}))
	defer srv.Close()

	c := wave.New("sk_test", "whsec", srv.URL, zap.NewNop())
	sess, err := c.CreateCheckout(context.Background(), wave.CheckoutRequest{
		Amount:          10000,
		Currency:        "XOF",
		ClientReference: "PAY-1",
		SuccessURL:      "https://example.com/ok",
		ErrorURL:        "https://example.com/err",
	})
	if err != nil {
		t.Fatalf("CreateCheckout failed: %v", err)
	}

	if gotAuth != "Bearer sk_test" {
		t.Errorf("auth: got %q", gotAuth)
	}
	// Wave expects the amount as a string.
	if gotBody["amount"] != "10000" {
		t.Errorf("amount: got %q, want \"10000\"", gotBody["amount"])
	}
	if sess.ID != "cos-1" || sess.LaunchURL != "https://pay.wave.com/c/cos-1" {
		t.Errorf("session: %+v", sess)
	}
}

func TestCreateCheckout_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "invalid-amount",
			"message": "amount below minimum",
		})
	}))
	defer srv.Close()

	c := wave.New("sk_test", "whsec", srv.URL, zap.NewNop())
	_, err := c.CreateCheckout(context.Background(), wave.CheckoutRequest{Amount: 1})

	var apiErr *wave.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnprocessableEntity || apiErr.Code != "invalid-amount" {
		t.Errorf("APIError: %+v", apiErr)
	}
}

func TestCreateCheckout_NetworkError(t *testing.T) {
	c := wave.New("sk_test", "whsec", "http://127.0.0.1:1", zap.NewNop())
	_, err := c.CreateCheckout(context.Background(), wave.CheckoutRequest{Amount: 10000})

	var apiErr *wave.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %v, want *APIError", err)
	}
	if apiErr.Code != "network_error" {
		t.Errorf("code: got %q, want network_error", apiErr.Code)
	}
}

func TestGetCheckout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions/cos-1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":              "cos-1",
			"checkout_status": wave.CheckoutComplete,
			"payment_status":  wave.PaymentSucceeded,
			"transaction_id":  "txn-9",
		})
	}))
	defer srv.Close()

	c := wave.New("sk_test", "whsec", srv.URL, zap.NewNop())
	sess, err := c.GetCheckout(context.Background(), "cos-1")
	if err != nil {
		t.Fatalf("GetCheckout failed: %v", err)
	}
	if sess.PaymentStatus != wave.PaymentSucceeded || sess.TransactionID != "txn-9" {
		t.Errorf("session: %+v", sess)
	}
}

func signature(secret, ts string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write(body)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifySignature(t *testing.T) {
	c := wave.New("sk_test", "whsec", "https://api.wave.com", zap.NewNop())
	body := []byte(`{"id":"evt-1"}`)

	if !c.VerifySignature(signature("whsec", "1700000000", body), body) {
		t.Error("valid signature rejected")
	}
	if c.VerifySignature(signature("wrong-secret", "1700000000", body), body) {
		t.Error("signature with wrong secret accepted")
	}
	if c.VerifySignature(signature("whsec", "1700000000", body), []byte(`{"id":"evt-2"}`)) {
		t.Error("signature over different body accepted")
	}
	if c.VerifySignature("", body) {
		t.Error("empty header accepted")
	}
	if c.VerifySignature("t=1700000000", body) {
		t.Error("header without v1 accepted")
	}
}
