// Package verify holds pending verification codes in valkey with a TTL,
// keyed by group code. Codes survive process restarts and are shared
// across instances, which an in-process map could not do.
package verify

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/valkey-io/valkey-go"
)

// Errors returned by Confirm.
var (
	ErrCodeNotFound = errors.New("no pending verification code for this group")
	ErrCodeMismatch = errors.New("verification code does not match")
)

// Store is the TTL-bounded code store.
type Store struct {
	client valkey.Client
	ttl    time.Duration
}

// pending is the stored value: the code plus the contact it was sent to.
type pending struct {
	Code    string `json:"code"`
	Contact string `json:"contact"`
}

// New builds a Store on an existing valkey client. ttl bounds how long a
// code stays confirmable.
func New(client valkey.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// NewCode generates a 6-digit numeric code.
func NewCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Put stores a code for a group, replacing any pending one and resetting
// the TTL.
func (s *Store) Put(ctx context.Context, groupCode, code, contact string) error {
	val, err := json.Marshal(pending{Code: code, Contact: contact})
	if err != nil {
		return err
	}
	cmd := s.client.B().Set().Key(key(groupCode)).Value(string(val)).Ex(s.ttl).Build()
	return s.client.Do(ctx, cmd).Error()
}

// Confirm checks the submitted code against the pending one and deletes
// it on success, so a code can be used at most once.
func (s *Store) Confirm(ctx context.Context, groupCode, code string) (contact string, err error) {
	raw, err := s.client.Do(ctx, s.client.B().Get().Key(key(groupCode)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return "", ErrCodeNotFound
		}
		return "", err
	}
	var p pending
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return "", err
	}
	if p.Code != code {
		return "", ErrCodeMismatch
	}
	if err := s.client.Do(ctx, s.client.B().Del().Key(key(groupCode)).Build()).Error(); err != nil {
		return "", err
	}
	return p.Contact, nil
}

func key(groupCode string) string {
	return "verify:" + groupCode
}
