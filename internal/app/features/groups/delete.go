// internal/app/features/groups/delete.go
package groups

import (
	"context"
	"net/http"

	"github.com/mbayedione/giehub/internal/app/system/apiutil"
	"github.com/mbayedione/giehub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Delete handles DELETE /groups/{id}, the explicit admin removal.
// It cascades to the group's membership and investment cycle; payment
// transactions are audit records and stay.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apiutil.Error(w, http.StatusBadRequest, "INVALID_ID", "Group id is not a valid object id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	deleted, err := h.Groups.Delete(ctx, id)
	if err != nil {
		h.Log.Error("group delete failed", zap.Error(err))
		apiutil.Internal(w)
		return
	}
	if deleted == 0 {
		apiutil.Error(w, http.StatusNotFound, "GROUP_NOT_FOUND", "No group with this id.")
		return
	}

	if _, err := h.Memberships.DeleteByGroup(ctx, id); err != nil {
		h.Log.Error("membership cascade delete failed", zap.Error(err))
	}
	if _, err := h.Cycles.DeleteByGroup(ctx, id); err != nil {
		h.Log.Error("cycle cascade delete failed", zap.Error(err))
	}

	apiutil.OK(w, http.StatusOK, "Group deleted.", nil)
}
