// internal/app/features/investments/views.go
package investments

import (
	"context"
	"net/http"
	"time"

	"github.com/mbayedione/giehub/internal/app/system/apiutil"
	"github.com/mbayedione/giehub/internal/app/system/paging"
	"github.com/mbayedione/giehub/internal/app/system/timeouts"
	"github.com/mbayedione/giehub/internal/domain/models"
)

// Overview handles GET /investments/group/{id}: the cycle without its
// full schedule, which the calendar endpoint serves month by month.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, c, ok := h.loadValidated(ctx, w, r)
	if !ok {
		return
	}

	now := time.Now()
	view := overviewView{
		ID:                 c.ID,
		GroupID:            c.GroupID,
		StartDate:          c.StartDate,
		EndDate:            c.EndDate,
		DurationDays:       c.DurationDays,
		DailyAmount:        c.DailyAmount,
		Status:             c.Status,
		ContributedDays:    c.ContributedDays,
		RemainingDays:      c.RemainingDays,
		TotalContributed:   c.TotalContributed,
		TotalPlanned:       c.TotalPlanned(),
		Percentage:         c.Percentage,
		WalletBalance:      c.Wallet.Balance,
		CurrentDayIndex:    c.CurrentDayIndex(now),
		NextPendingDate:    c.NextPendingDate(now),
		LastContributionAt: c.LastContributionAt,
	}
	apiutil.OK(w, http.StatusOK, "Investment cycle.", view)
}

// Calendar handles GET /investments/group/{id}/calendar?month=YYYY-MM.
// Without a month it returns the current month's slots.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, c, ok := h.loadValidated(ctx, w, r)
	if !ok {
		return
	}

	monthParam := r.URL.Query().Get("month")
	var month time.Time
	if monthParam == "" {
		now := time.Now().UTC()
		month = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	} else {
		var err error
		month, err = time.Parse("2006-01", monthParam)
		if err != nil {
			apiutil.Error(w, http.StatusBadRequest, "INVALID_MONTH", "Month must look like 2025-04.")
			return
		}
	}
	next := month.AddDate(0, 1, 0)

	slots := make([]models.DaySlot, 0, 31)
	for _, s := range c.Schedule {
		if !s.Date.Before(month) && s.Date.Before(next) {
			slots = append(slots, s)
		}
	}
	apiutil.OK(w, http.StatusOK, "Calendar slots.", calendarView{
		Month: month.Format("2006-01"),
		Slots: slots,
	})
}

// Stats handles GET /investments/group/{id}/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, c, ok := h.loadValidated(ctx, w, r)
	if !ok {
		return
	}

	apiutil.OK(w, http.StatusOK, "Cycle statistics.", statsView{
		ContributedDays:  c.ContributedDays,
		RemainingDays:    c.RemainingDays,
		MissedDays:       c.MissedDays,
		TotalContributed: c.TotalContributed,
		Percentage:       c.Percentage,
		CurrentStreak:    c.CurrentStreak,
		BestStreak:       c.BestStreak,
		WalletBalance:    c.Wallet.Balance,
		SimulatedReturns: c.SimulatedReturns(),
	})
}

// WalletHistory handles GET /investments/group/{id}/wallet/history,
// newest entries first.
func (h *Handler) WalletHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, c, ok := h.loadValidated(ctx, w, r)
	if !ok {
		return
	}

	page := paging.Parse(r)
	entries := c.Wallet.Entries
	// Reverse-chronological window over the embedded ledger.
	total := int64(len(entries))
	start := len(entries) - int(page.Skip()) - page.PerPage
	end := len(entries) - int(page.Skip())
	if end < 0 {
		end = 0
	}
	if start < 0 {
		start = 0
	}
	window := make([]models.LedgerEntry, 0, end-start)
	for i := end - 1; i >= start; i-- {
		window = append(window, entries[i])
	}

	apiutil.OKList(w, "Wallet history.", walletView{
		Balance: c.Wallet.Balance,
		Entries: window,
	}, page.Meta(total))
}
