// internal/app/features/groups/register.go
package groups

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	groupstore "github.com/mbayedione/giehub/internal/app/store/groups"
	"github.com/mbayedione/giehub/internal/app/system/apiutil"
	"github.com/mbayedione/giehub/internal/app/system/timeouts"
	"github.com/mbayedione/giehub/internal/domain/models"
	"go.uber.org/zap"
)

// Register handles POST /groups: creates the group and its membership
// atomically, after the composition rules pass.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := apiutil.Decode(r, &req); err != nil {
		apiutil.Error(w, http.StatusBadRequest, "MALFORMED_BODY", "Request body is not valid JSON.")
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		apiutil.ErrorDetails(w, http.StatusBadRequest, "VALIDATION_FAILED", "Some fields are missing or invalid.", errs)
		return
	}

	g := req.toGroup()
	if err := models.CheckComposition(g.PresidentCategory, g.Roster); err != nil {
		apiutil.Error(w, http.StatusBadRequest, compositionCode(err), err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	created, err := h.Groups.Create(ctx, g)
	if err != nil {
		switch {
		case errors.Is(err, groupstore.ErrInvalidCode):
			apiutil.Error(w, http.StatusBadRequest, "INVALID_GROUP_CODE", err.Error())
		case errors.Is(err, groupstore.ErrDuplicateCode):
			apiutil.Error(w, http.StatusBadRequest, "DUPLICATE_GROUP_CODE", err.Error())
		case errors.Is(err, groupstore.ErrDuplicateProtocol):
			apiutil.Error(w, http.StatusBadRequest, "DUPLICATE_PROTOCOL_NUMBER", err.Error())
		default:
			h.Log.Error("group create failed", zap.Error(err))
			apiutil.Internal(w)
		}
		return
	}

	membership, err := h.Memberships.Create(ctx, models.Membership{
		GroupID: created.ID,
		Type:    req.MembershipType,
	})
	if err != nil {
		// Compensate so a half-registered group never lingers.
		if _, delErr := h.Groups.Delete(ctx, created.ID); delErr != nil {
			h.Log.Error("orphan group cleanup failed", zap.String("group", created.Code), zap.Error(delErr))
		}
		h.Log.Error("membership create failed", zap.Error(err))
		apiutil.Internal(w)
		return
	}

	// Welcome notification is best effort: registration already
	// succeeded by the time we get here.
	go h.sendWelcome(created)

	apiutil.OK(w, http.StatusCreated, "Group registered.", detailView{
		Group:      viewGroup(created),
		Membership: viewMembership(membership),
	})
}

func (h *Handler) sendWelcome(g models.Group) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
	defer cancel()
	msg := fmt.Sprintf("Welcome to the program, %s. Your group code is %s. Your application is under review.", g.Name, g.Code)
	if err := h.Notifier.Send(ctx, g.President.Phone, msg); err != nil {
		h.Log.Warn("welcome notification failed",
			zap.String("group", g.Code),
			zap.Error(err))
	}
}

func compositionCode(err error) string {
	switch {
	case errors.Is(err, models.ErrTooFewParticipants):
		return "COMPOSITION_TOO_FEW"
	case errors.Is(err, models.ErrMissingSecretary):
		return "COMPOSITION_NO_SECRETARY"
	case errors.Is(err, models.ErrMissingTreasurer):
		return "COMPOSITION_NO_TREASURER"
	default:
		return "COMPOSITION_QUOTA"
	}
}
