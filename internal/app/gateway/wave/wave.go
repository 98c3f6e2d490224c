// Package wave wraps the Wave checkout API: hosted-session creation,
// session lookup for client-initiated polls, and webhook signature
// verification.
//
// Network and HTTP errors come back as *APIError so the payments flow
// can fold them into a failed transaction instead of surfacing a 500.
package wave

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Checkout session statuses as Wave reports them.
const (
	CheckoutOpen     = "open"
	CheckoutComplete = "complete"
	CheckoutExpired  = "expired"
)

// Payment statuses within a session.
const (
	PaymentProcessing = "processing"
	PaymentCancelled  = "cancelled"
	PaymentSucceeded  = "succeeded"
)

// requestTimeout bounds every outbound call to Wave.
const requestTimeout = 30 * time.Second

// Client talks to the Wave API.
type Client struct {
	apiKey        string
	webhookSecret string
	baseURL       string
	http          *http.Client
	log           *zap.Logger
}

// CheckoutRequest describes the session to create.
type CheckoutRequest struct {
	Amount          int64  `json:"amount,string"`
	Currency        string `json:"currency"`
	ClientReference string `json:"client_reference"`
	SuccessURL      string `json:"success_url"`
	ErrorURL        string `json:"error_url"`
}

// CheckoutSession is Wave's session representation, returned by create
// and lookup and embedded in webhook events.
type CheckoutSession struct {
	ID              string `json:"id"`
	LaunchURL       string `json:"wave_launch_url"`
	CheckoutStatus  string `json:"checkout_status"`
	PaymentStatus   string `json:"payment_status"`
	TransactionID   string `json:"transaction_id"`
	ClientReference string `json:"client_reference"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
}

// Event is one webhook delivery.
type Event struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data CheckoutSession `json:"data"`
}

// APIError is a failed provider call: an HTTP error status, a transport
// failure, or an undecodable body.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wave: %s (%s, http %d)", e.Message, e.Code, e.Status)
}

// New builds a Client. baseURL is overridable for tests and sandboxes.
func New(apiKey, webhookSecret, baseURL string, logger *zap.Logger) *Client {
	return &Client{
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          &http.Client{Timeout: requestTimeout},
		log:           logger,
	}
}

// CreateCheckout opens a hosted checkout session.
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (CheckoutSession, error) {
	var sess CheckoutSession
	err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", req, &sess)
	return sess, err
}

// GetCheckout fetches the current state of a session; used by the
// client-initiated status poll.
func (c *Client) GetCheckout(ctx context.Context, sessionID string) (CheckoutSession, error) {
	var sess CheckoutSession
	err := c.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+sessionID, nil, &sess)
	return sess, err
}

// VerifySignature checks the Wave-Signature header ("t=<ts>,v1=<hmac>")
// against the raw webhook body.
func (c *Client) VerifySignature(header string, body []byte) bool {
	var ts, sig string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			sig = v
		}
	}
	if ts == "" || sig == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(ts))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sig))
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &APIError{Code: "encode_failed", Message: err.Error()}
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return &APIError{Code: "request_failed", Message: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Code: "network_error", Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &APIError{Status: resp.StatusCode, Code: "read_failed", Message: err.Error()}
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &apiErr)
		if apiErr.Code == "" {
			apiErr.Code = "provider_error"
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		c.log.Warn("wave call failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("code", apiErr.Code))
		return &APIError{Status: resp.StatusCode, Code: apiErr.Code, Message: apiErr.Message}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &APIError{Status: resp.StatusCode, Code: "decode_failed", Message: err.Error()}
		}
	}
	return nil
}
