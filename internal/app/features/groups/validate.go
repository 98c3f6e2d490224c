// internal/app/features/groups/validate.go
package groups

import (
	"context"
	"errors"
	"net/http"
	"time"

	groupstore "github.com/mbayedione/giehub/internal/app/store/groups"
	membershipstore "github.com/mbayedione/giehub/internal/app/store/memberships"
	"github.com/mbayedione/giehub/internal/app/store/queries/activation"
	"github.com/mbayedione/giehub/internal/app/system/apiutil"
	"github.com/mbayedione/giehub/internal/app/system/sanitize"
	"github.com/mbayedione/giehub/internal/app/system/timeouts"
	"github.com/mbayedione/giehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Validate handles POST /groups/{id}/validate, the admin review action.
// "validate" activates the group (and creates its investment cycle);
// "reject" closes the application with the reviewer's remarks.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apiutil.Error(w, http.StatusBadRequest, "INVALID_ID", "Group id is not a valid object id.")
		return
	}

	var req validateRequest
	if err := apiutil.Decode(r, &req); err != nil {
		apiutil.Error(w, http.StatusBadRequest, "MALFORMED_BODY", "Request body is not valid JSON.")
		return
	}
	if req.Action != "validate" && req.Action != "reject" {
		apiutil.Error(w, http.StatusBadRequest, "INVALID_ACTION", `Action must be "validate" or "reject".`)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, groupstore.ErrNotFound) {
			apiutil.Error(w, http.StatusNotFound, "GROUP_NOT_FOUND", "No group with this id.")
			return
		}
		h.Log.Error("group fetch failed", zap.Error(err))
		apiutil.Internal(w)
		return
	}

	now := time.Now()

	m, err := h.Memberships.GetByGroup(ctx, id)
	if err != nil {
		if errors.Is(err, membershipstore.ErrNotFound) {
			apiutil.Error(w, http.StatusNotFound, "MEMBERSHIP_NOT_FOUND", "The group has no membership record.")
			return
		}
		h.Log.Error("membership fetch failed", zap.Error(err))
		apiutil.Internal(w)
		return
	}
	if req.Remarks != "" {
		m.Validation.Remarks = sanitize.Text(req.Remarks)
	}
	if len(req.Documents) > 0 {
		if m.Validation.Documents == nil {
			m.Validation.Documents = map[string]bool{}
		}
		for k, v := range req.Documents {
			m.Validation.Documents[k] = v
		}
	}

	if req.Action == "reject" {
		if err := h.Groups.SetStatus(ctx, id, models.GroupStatusRejected); err != nil {
			h.Log.Error("group reject failed", zap.Error(err))
			apiutil.Internal(w)
			return
		}
		t := now.UTC()
		m.Validation.Status = models.ValidationRejected
		m.Validation.At = &t
		m.Validation.Validator = req.Validator
		if err := h.Memberships.Save(ctx, m); err != nil {
			h.Log.Error("membership reject save failed", zap.Error(err))
			apiutil.Internal(w)
			return
		}
		apiutil.OK(w, http.StatusOK, "Group rejected.", nil)
		return
	}

	// Persist remarks/documents before activation; activation re-reads
	// the membership to flip its workflow state.
	if err := h.Memberships.Save(ctx, m); err != nil {
		h.Log.Error("membership save failed", zap.Error(err))
		apiutil.Internal(w)
		return
	}
	if err := activation.Activate(ctx, h.DB, id, req.Validator, now); err != nil {
		h.Log.Error("group activation failed", zap.String("group", g.Code), zap.Error(err))
		apiutil.Internal(w)
		return
	}

	apiutil.OK(w, http.StatusOK, "Group validated and activated.", nil)
}
