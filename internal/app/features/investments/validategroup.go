// internal/app/features/investments/validategroup.go
package investments

import (
	"context"
	"errors"
	"net/http"
	"strings"

	groupstore "github.com/mbayedione/giehub/internal/app/store/groups"
	"github.com/mbayedione/giehub/internal/app/system/apiutil"
	"github.com/mbayedione/giehub/internal/app/system/timeouts"
	"github.com/mbayedione/giehub/internal/domain/models"
	"go.uber.org/zap"
)

// ValidateGroup handles POST /investments/validate-group: a public
// lookup a member uses to confirm their code points at a validated
// group before sending money.
func (h *Handler) ValidateGroup(w http.ResponseWriter, r *http.Request) {
	var req validateGroupRequest
	if err := apiutil.Decode(r, &req); err != nil {
		apiutil.Error(w, http.StatusBadRequest, "MALFORMED_BODY", "Request body is not valid JSON.")
		return
	}
	code := strings.TrimSpace(req.Code)
	if !groupstore.ValidCode(code) {
		apiutil.Error(w, http.StatusBadRequest, "INVALID_CODE", "Group code must look like 1-22-3-01-000123.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Groups.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, groupstore.ErrNotFound) {
			apiutil.Error(w, http.StatusNotFound, "GROUP_NOT_FOUND", "No group with this code.")
			return
		}
		h.Log.Error("group lookup failed", zap.Error(err))
		apiutil.Internal(w)
		return
	}
	if g.Status != models.GroupStatusValidated {
		apiutil.ErrorDetails(w, http.StatusBadRequest, "GROUP_NOT_VALIDATED",
			"The group exists but has not been validated.",
			map[string]string{"status": g.Status})
		return
	}

	apiutil.OK(w, http.StatusOK, "Group is validated.", groupSummary{
		ID:                 g.ID,
		Code:               g.Code,
		Name:               g.Name,
		Status:             g.Status,
		RegistrationStatus: g.RegistrationStatus(),
	})
}
