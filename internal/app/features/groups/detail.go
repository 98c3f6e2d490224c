// internal/app/features/groups/detail.go
package groups

import (
	"context"
	"errors"
	"net/http"

	cyclestore "github.com/mbayedione/giehub/internal/app/store/cycles"
	groupstore "github.com/mbayedione/giehub/internal/app/store/groups"
	membershipstore "github.com/mbayedione/giehub/internal/app/store/memberships"
	"github.com/mbayedione/giehub/internal/app/system/apiutil"
	"github.com/mbayedione/giehub/internal/app/system/paging"
	"github.com/mbayedione/giehub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Detail handles GET /groups/{id}: the group with its membership and,
// once activated, its investment cycle.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apiutil.Error(w, http.StatusBadRequest, "INVALID_ID", "Group id is not a valid object id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
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

	view := detailView{Group: viewGroup(g)}

	if m, err := h.Memberships.GetByGroup(ctx, id); err == nil {
		view.Membership = viewMembership(m)
	} else if !errors.Is(err, membershipstore.ErrNotFound) {
		h.Log.Error("membership fetch failed", zap.Error(err))
		apiutil.Internal(w)
		return
	}

	if c, err := h.Cycles.GetByGroup(ctx, id); err == nil {
		view.Cycle = &c
	} else if !errors.Is(err, cyclestore.ErrNotFound) {
		h.Log.Error("cycle fetch failed", zap.Error(err))
		apiutil.Internal(w)
		return
	}

	apiutil.OK(w, http.StatusOK, "Group found.", view)
}

// List handles GET /groups with optional ?status= filtering.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)
	status := r.URL.Query().Get("status")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, total, err := h.Groups.List(ctx, status, page.Skip(), page.Limit())
	if err != nil {
		h.Log.Error("group list failed", zap.Error(err))
		apiutil.Internal(w)
		return
	}

	views := make([]groupView, 0, len(rows))
	for _, g := range rows {
		views = append(views, viewGroup(g))
	}
	apiutil.OKList(w, "Groups listed.", views, page.Meta(total))
}
