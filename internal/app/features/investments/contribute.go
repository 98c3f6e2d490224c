// internal/app/features/investments/contribute.go
package investments

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	cyclestore "github.com/mbayedione/giehub/internal/app/store/cycles"
	"github.com/mbayedione/giehub/internal/app/system/apiutil"
	"github.com/mbayedione/giehub/internal/app/system/sanitize"
	"github.com/mbayedione/giehub/internal/app/system/timeouts"
	"github.com/mbayedione/giehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Contribute handles POST /investments/group/{id}/contribute: records
// the fixed daily contribution against one calendar slot.
//
// The read-mutate-save sequence uses the cycle's version field; on a
// lost race the whole sequence is retried once against the fresh
// document, so two concurrent calls for the same date end with exactly
// one credit and one DUPLICATE_CONTRIBUTION rejection.
func (h *Handler) Contribute(w http.ResponseWriter, r *http.Request) {
	var req contributeRequest
	if err := apiutil.Decode(r, &req); err != nil {
		apiutil.Error(w, http.StatusBadRequest, "MALFORMED_BODY", "Request body is not valid JSON.")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		apiutil.Error(w, http.StatusBadRequest, "INVALID_DATE", "Date must look like 2025-04-01.")
		return
	}
	note := sanitize.Text(req.Note)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	for attempt := 0; ; attempt++ {
		_, c, ok := h.loadValidated(ctx, w, r)
		if !ok {
			return
		}

		if err := c.RecordContribution(date, req.Amount, note, time.Now()); err != nil {
			h.writeCycleError(w, &c, err)
			return
		}

		err := h.Cycles.Save(ctx, c)
		if err == nil {
			apiutil.OK(w, http.StatusOK, "Contribution recorded.", contributionResult(&c, date))
			return
		}
		if errors.Is(err, cyclestore.ErrVersionConflict) && attempt == 0 {
			continue
		}
		h.Log.Error("cycle save failed", zap.Error(err))
		apiutil.Internal(w)
		return
	}
}

// SetDayStatus handles PUT /investments/group/{id}/day/{dayIndex}, the
// staff override of one slot's status.
func (h *Handler) SetDayStatus(w http.ResponseWriter, r *http.Request) {
	var req setDayRequest
	if err := apiutil.Decode(r, &req); err != nil {
		apiutil.Error(w, http.StatusBadRequest, "MALFORMED_BODY", "Request body is not valid JSON.")
		return
	}
	dayIndex, err := dayIndexParam(r)
	if err != nil {
		apiutil.Error(w, http.StatusBadRequest, "INVALID_DAY_INDEX", "Day index must be a positive integer.")
		return
	}
	note := sanitize.Text(req.Note)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	for attempt := 0; ; attempt++ {
		_, c, ok := h.loadValidated(ctx, w, r)
		if !ok {
			return
		}

		if err := c.SetSlotStatus(dayIndex, req.Status, note, time.Now()); err != nil {
			h.writeCycleError(w, &c, err)
			return
		}

		err := h.Cycles.Save(ctx, c)
		if err == nil {
			apiutil.OK(w, http.StatusOK, "Day status updated.", c.Schedule[dayIndex-1])
			return
		}
		if errors.Is(err, cyclestore.ErrVersionConflict) && attempt == 0 {
			continue
		}
		h.Log.Error("cycle save failed", zap.Error(err))
		apiutil.Internal(w)
		return
	}
}

// dayIndexParam parses the 1-based {dayIndex} URL param.
func dayIndexParam(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "dayIndex"))
}

// contributionResult is the payload returned after a successful
// contribution: the funded slot plus the updated rollups a caller
// would otherwise need a second request for.
func contributionResult(c *models.InvestmentCycle, date time.Time) map[string]any {
	var slot models.DaySlot
	for _, s := range c.Schedule {
		if s.Date.Year() == date.Year() && s.Date.YearDay() == date.YearDay() {
			slot = s
			break
		}
	}
	return map[string]any{
		"slot":              slot,
		"contributed_days":  c.ContributedDays,
		"total_contributed": c.TotalContributed,
		"percentage":        c.Percentage,
		"wallet_balance":    c.Wallet.Balance,
		"current_streak":    c.CurrentStreak,
		"status":            c.Status,
	}
}

// writeCycleError maps the domain's cycle errors onto the API codes.
func (h *Handler) writeCycleError(w http.ResponseWriter, c *models.InvestmentCycle, err error) {
	switch {
	case errors.Is(err, models.ErrCycleNotActive):
		apiutil.ErrorDetails(w, http.StatusBadRequest, "CYCLE_NOT_ACTIVE",
			err.Error(), map[string]string{"status": c.Status})
	case errors.Is(err, models.ErrInvalidInvestmentDate):
		apiutil.Error(w, http.StatusBadRequest, "INVALID_INVESTMENT_DATE", err.Error())
	case errors.Is(err, models.ErrDuplicateContribution):
		apiutil.Error(w, http.StatusBadRequest, "DUPLICATE_CONTRIBUTION", err.Error())
	case errors.Is(err, models.ErrInvalidAmount):
		apiutil.ErrorDetails(w, http.StatusBadRequest, "INVALID_AMOUNT",
			err.Error(), map[string]int64{"expected": c.DailyAmount})
	case errors.Is(err, models.ErrInvalidSlotStatus):
		apiutil.Error(w, http.StatusBadRequest, "INVALID_SLOT_STATUS", err.Error())
	case errors.Is(err, models.ErrSlotIndexOutOfRange):
		apiutil.Error(w, http.StatusBadRequest, "INVALID_DAY_INDEX", err.Error())
	case errors.Is(err, models.ErrInsufficientBalance):
		apiutil.ErrorDetails(w, http.StatusBadRequest, "INSUFFICIENT_BALANCE",
			err.Error(), map[string]int64{"balance": c.Wallet.Balance})
	default:
		h.Log.Error("cycle operation failed", zap.Error(err))
		apiutil.Internal(w)
	}
}
