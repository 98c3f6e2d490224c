// internal/app/features/verifications/verifications.go
package verifications

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	groupstore "github.com/mbayedione/giehub/internal/app/store/groups"
	"github.com/mbayedione/giehub/internal/app/system/apiutil"
	"github.com/mbayedione/giehub/internal/app/system/timeouts"
	"github.com/mbayedione/giehub/internal/app/system/verify"
	"go.uber.org/zap"
)

type requestBody struct {
	Code  string `json:"code"`
	Phone string `json:"phone,omitempty"`
}

type confirmBody struct {
	Code             string `json:"code"`
	VerificationCode string `json:"verification_code"`
}

// Request handles POST /verifications/request: generates a 6-digit code
// for the group and sends it to the president's phone (or an explicit
// override). The code replaces any pending one and restarts its TTL.
func (h *Handler) Request(w http.ResponseWriter, r *http.Request) {
	var req requestBody
	if err := apiutil.Decode(r, &req); err != nil {
		apiutil.Error(w, http.StatusBadRequest, "MALFORMED_BODY", "Request body is not valid JSON.")
		return
	}
	groupCode := strings.TrimSpace(req.Code)
	if !groupstore.ValidCode(groupCode) {
		apiutil.Error(w, http.StatusBadRequest, "INVALID_CODE", "Group code must look like 1-22-3-01-000123.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, err := h.Groups.GetByCode(ctx, groupCode)
	if err != nil {
		if errors.Is(err, groupstore.ErrNotFound) {
			apiutil.Error(w, http.StatusNotFound, "GROUP_NOT_FOUND", "No group with this code.")
			return
		}
		h.Log.Error("group lookup failed", zap.Error(err))
		apiutil.Internal(w)
		return
	}

	contact := strings.TrimSpace(req.Phone)
	if contact == "" {
		contact = g.President.Phone
	}
	if contact == "" {
		apiutil.Error(w, http.StatusBadRequest, "NO_CONTACT", "The group has no phone number on record.")
		return
	}

	code, err := verify.NewCode()
	if err != nil {
		h.Log.Error("code generation failed", zap.Error(err))
		apiutil.Internal(w)
		return
	}
	if err := h.Codes.Put(ctx, groupCode, code, contact); err != nil {
		h.Log.Error("code store failed", zap.Error(err))
		apiutil.Internal(w)
		return
	}

	msg := fmt.Sprintf("Votre code de vérification GIE est %s. Il expire dans quelques minutes.", code)
	if err := h.Notifier.Send(ctx, contact, msg); err != nil {
		// The code is stored; the caller can retry the send without
		// invalidating it, so this is a delivery error, not a 500.
		h.Log.Warn("verification send failed",
			zap.String("group_code", groupCode),
			zap.Error(err))
		apiutil.Error(w, http.StatusBadGateway, "DELIVERY_FAILED",
			"The verification code could not be delivered.")
		return
	}

	apiutil.OK(w, http.StatusOK, "Verification code sent.", map[string]string{
		"code":    groupCode,
		"sent_to": maskPhone(contact),
	})
}

// Confirm handles POST /verifications/confirm: compares the submitted
// code against the pending one and consumes it on success.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmBody
	if err := apiutil.Decode(r, &req); err != nil {
		apiutil.Error(w, http.StatusBadRequest, "MALFORMED_BODY", "Request body is not valid JSON.")
		return
	}
	groupCode := strings.TrimSpace(req.Code)
	submitted := strings.TrimSpace(req.VerificationCode)
	if !groupstore.ValidCode(groupCode) || submitted == "" {
		apiutil.Error(w, http.StatusBadRequest, "INVALID_CODE", "Both the group code and the verification code are required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	contact, err := h.Codes.Confirm(ctx, groupCode, submitted)
	switch {
	case errors.Is(err, verify.ErrCodeNotFound):
		apiutil.Error(w, http.StatusNotFound, "CODE_NOT_FOUND", "No pending code for this group; it may have expired.")
		return
	case errors.Is(err, verify.ErrCodeMismatch):
		apiutil.Error(w, http.StatusBadRequest, "CODE_MISMATCH", "The verification code does not match.")
		return
	case err != nil:
		h.Log.Error("code confirm failed", zap.Error(err))
		apiutil.Internal(w)
		return
	}

	apiutil.OK(w, http.StatusOK, "Verification confirmed.", map[string]string{
		"code":     groupCode,
		"verified": maskPhone(contact),
	})
}

// maskPhone hides all but the last two digits of a phone number.
func maskPhone(phone string) string {
	if len(phone) <= 2 {
		return phone
	}
	return strings.Repeat("*", len(phone)-2) + phone[len(phone)-2:]
}
