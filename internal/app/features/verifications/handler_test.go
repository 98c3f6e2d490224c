package verifications_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mbayedione/giehub/internal/app/features/verifications"
	"github.com/mbayedione/giehub/internal/app/gateway/notify"
	"github.com/mbayedione/giehub/internal/app/system/apiutil"
	"github.com/mbayedione/giehub/internal/testutil"
	"go.uber.org/zap"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) apiutil.Envelope {
	t.Helper()
	var env apiutil.Envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response envelope: %v", err)
	}
	return env
}

// The code store is only reached after the group lookup succeeds, so
// these paths run without a valkey instance.
func TestRequest_RejectsBeforeStore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := verifications.NewHandler(db, nil, notify.New(zap.NewNop()), zap.NewNop())

	cases := []struct {
		name       string
		body       map[string]string
		wantStatus int
		wantCode   string
	}{
		{"malformed group code", map[string]string{"code": "abc"}, http.StatusBadRequest, "INVALID_CODE"},
		{"unknown group", map[string]string{"code": "99-99-99-99-9999"}, http.StatusNotFound, "GROUP_NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf, _ := json.Marshal(tc.body)
			req := httptest.NewRequest(http.MethodPost, "/verifications/request", bytes.NewBuffer(buf))
			rec := httptest.NewRecorder()
			h.Request(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if env := decodeEnvelope(t, rec); env.Code != tc.wantCode {
				t.Errorf("code = %q, want %q", env.Code, tc.wantCode)
			}
		})
	}
}

func TestConfirm_RequiresBothCodes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := verifications.NewHandler(db, nil, notify.New(zap.NewNop()), zap.NewNop())

	buf, _ := json.Marshal(map[string]string{"code": "01-02-03-04-0001", "verification_code": "  "})
	req := httptest.NewRequest(http.MethodPost, "/verifications/confirm", bytes.NewBuffer(buf))
	rec := httptest.NewRecorder()
	h.Confirm(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != "INVALID_CODE" {
		t.Errorf("code = %q, want INVALID_CODE", env.Code)
	}
}
