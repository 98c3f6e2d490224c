// internal/app/features/investments/handler.go
package investments

import (
	"context"
	"errors"
	"net/http"

	cyclestore "github.com/mbayedione/giehub/internal/app/store/cycles"
	groupstore "github.com/mbayedione/giehub/internal/app/store/groups"
	"github.com/mbayedione/giehub/internal/app/system/apiutil"
	"github.com/mbayedione/giehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the investment-cycle views and mutations.
type Handler struct {
	DB     *mongo.Database
	Groups *groupstore.Store
	Cycles *cyclestore.Store
	Log    *zap.Logger
}

// NewHandler constructs an investments Handler with its stores.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Groups: groupstore.New(db),
		Cycles: cyclestore.New(db),
		Log:    logger,
	}
}

// loadValidated resolves the {id} URL param to a validated group and its
// cycle. Every cycle view requires the group to have passed validation;
// anything else is answered with a structured 403 carrying the group's
// current status.
func (h *Handler) loadValidated(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Group, models.InvestmentCycle, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apiutil.Error(w, http.StatusBadRequest, "INVALID_ID", "Group id is not a valid object id.")
		return models.Group{}, models.InvestmentCycle{}, false
	}

	g, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, groupstore.ErrNotFound) {
			apiutil.Error(w, http.StatusNotFound, "GROUP_NOT_FOUND", "No group with this id.")
			return models.Group{}, models.InvestmentCycle{}, false
		}
		h.Log.Error("group fetch failed", zap.Error(err))
		apiutil.Internal(w)
		return models.Group{}, models.InvestmentCycle{}, false
	}
	if g.Status != models.GroupStatusValidated {
		apiutil.ErrorDetails(w, http.StatusForbidden, "GROUP_NOT_VALIDATED",
			"The group has not been validated yet.",
			map[string]string{"status": g.Status})
		return models.Group{}, models.InvestmentCycle{}, false
	}

	c, err := h.Cycles.GetByGroup(ctx, id)
	if err != nil {
		if errors.Is(err, cyclestore.ErrNotFound) {
			apiutil.Error(w, http.StatusNotFound, "CYCLE_NOT_FOUND", "The group has no investment cycle.")
			return models.Group{}, models.InvestmentCycle{}, false
		}
		h.Log.Error("cycle fetch failed", zap.Error(err))
		apiutil.Internal(w)
		return models.Group{}, models.InvestmentCycle{}, false
	}
	return g, c, true
}
