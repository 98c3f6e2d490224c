// Package notify delivers verification codes and workflow notifications
// over WhatsApp with SMS fallback. Delivery is best effort: a failed
// notification must never fail the operation that triggered it, so
// callers log the returned error and move on.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const requestTimeout = 15 * time.Second

// Channel sends one message over one provider.
type Channel interface {
	Name() string
	Send(ctx context.Context, to, message string) error
}

// Gateway tries each channel in order and stops at the first success.
type Gateway struct {
	channels []Channel
	log      *zap.Logger
}

func New(logger *zap.Logger, channels ...Channel) *Gateway {
	return &Gateway{channels: channels, log: logger}
}

// Send attempts delivery over each configured channel in order. It
// returns the last error only when every channel failed.
func (g *Gateway) Send(ctx context.Context, to, message string) error {
	var last error
	for _, ch := range g.channels {
		if err := ch.Send(ctx, to, message); err != nil {
			g.log.Warn("notification channel failed, trying next",
				zap.String("channel", ch.Name()),
				zap.String("to", to),
				zap.Error(err))
			last = err
			continue
		}
		return nil
	}
	if last == nil {
		last = fmt.Errorf("no notification channels configured")
	}
	return last
}

// WhatsApp is a thin client for the WhatsApp Cloud messages endpoint.
type WhatsApp struct {
	token   string
	phoneID string
	baseURL string
	http    *http.Client
}

func NewWhatsApp(token, phoneID, baseURL string) *WhatsApp {
	return &WhatsApp{
		token:   token,
		phoneID: phoneID,
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

func (w *WhatsApp) Name() string { return "whatsapp" }

func (w *WhatsApp) Send(ctx context.Context, to, message string) error {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": message},
	}
	return postJSON(ctx, w.http, w.baseURL+"/"+w.phoneID+"/messages", "Bearer "+w.token, payload)
}

// SMS is a thin client for an HTTP SMS relay.
type SMS struct {
	apiKey string
	sender string
	apiURL string
	http   *http.Client
}

func NewSMS(apiKey, sender, apiURL string) *SMS {
	return &SMS{
		apiKey: apiKey,
		sender: sender,
		apiURL: apiURL,
		http:   &http.Client{Timeout: requestTimeout},
	}
}

func (s *SMS) Name() string { return "sms" }

func (s *SMS) Send(ctx context.Context, to, message string) error {
	payload := map[string]string{
		"from":    s.sender,
		"to":      to,
		"message": message,
	}
	return postJSON(ctx, s.http, s.apiURL, "Bearer "+s.apiKey, payload)
}

func postJSON(ctx context.Context, client *http.Client, url, auth string, payload interface{}) error {
	buf, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("provider returned http %d", resp.StatusCode)
	}
	return nil
}
