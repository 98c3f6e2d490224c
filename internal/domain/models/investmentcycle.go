// internal/domain/models/investmentcycle.go
package models

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cycle schedule parameters. Every cycle runs the same program: 1826
// daily contributions of 6000 XOF.
const (
	CycleDurationDays       = 1826
	DailyAmount       int64 = 6000
)

// Cycle statuses.
const (
	CycleActive    = "active"
	CycleSuspended = "suspended"
	CycleComplete  = "complete"
	CycleCancelled = "cancelled"
)

// Day-slot statuses.
const (
	SlotScheduled   = "scheduled"
	SlotContributed = "contributed"
	SlotMissed      = "missed"
	SlotDeferred    = "deferred"
)

// Wallet ledger entry kinds.
const (
	LedgerContribution = "contribution"
	LedgerWithdrawal   = "withdrawal"
	LedgerBonus        = "bonus"
	LedgerPenalty      = "penalty"
)

// Cycle operation errors. Handlers map these to stable API codes.
var (
	ErrCycleNotActive        = errors.New("investment cycle is not active")
	ErrInvalidInvestmentDate = errors.New("no schedule slot matches the given date")
	ErrDuplicateContribution = errors.New("a contribution is already recorded for this date")
	ErrInvalidAmount         = errors.New("amount must equal the cycle's daily contribution")
	ErrInvalidSlotStatus     = errors.New("unknown slot status")
	ErrSlotIndexOutOfRange   = errors.New("day index is outside the schedule")
	ErrInsufficientBalance   = errors.New("reversal would overdraw the wallet")
)

// DaySlot is one day of the contribution schedule.
type DaySlot struct {
	DayIndex int       `bson:"day_index" json:"day_index"`
	Date     time.Time `bson:"date" json:"date"`
	Amount   int64     `bson:"amount" json:"amount"`
	Status   string    `bson:"status" json:"status"`
	Note     string    `bson:"note,omitempty" json:"note,omitempty"`
}

// LedgerEntry is one append-only wallet movement. Amount is always
// positive; Kind determines the sign (see Signed). Balance is the wallet
// balance after this entry was applied.
type LedgerEntry struct {
	At          time.Time `bson:"at" json:"at"`
	Kind        string    `bson:"kind" json:"kind"`
	Amount      int64     `bson:"amount" json:"amount"`
	Description string    `bson:"description" json:"description"`
	Balance     int64     `bson:"balance" json:"balance"`
}

// Signed returns the entry amount with its kind-determined sign.
func (e LedgerEntry) Signed() int64 {
	switch e.Kind {
	case LedgerWithdrawal, LedgerPenalty:
		return -e.Amount
	}
	return e.Amount
}

// Wallet is the running balance plus the full movement history. Balance
// is a cache equal to the sum of signed entries; the two are only ever
// mutated together.
type Wallet struct {
	Balance int64         `bson:"balance" json:"balance"`
	Entries []LedgerEntry `bson:"entries" json:"entries"`
}

// InvestmentCycle owns one group's 1826-day contribution schedule and
// the wallet derived from it. Exactly one cycle exists per group.
//
// All mutations go through RecordContribution and SetSlotStatus; no
// other code path may write the schedule, wallet, or rollup fields.
// Version backs the store's conditional write so two concurrent
// mutations cannot both apply.
type InvestmentCycle struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	GroupID primitive.ObjectID `bson:"group_id" json:"group_id"`

	StartDate    time.Time `bson:"start_date" json:"start_date"`
	DurationDays int       `bson:"duration_days" json:"duration_days"`
	DailyAmount  int64     `bson:"daily_amount" json:"daily_amount"`
	EndDate      time.Time `bson:"end_date" json:"end_date"`

	Status   string    `bson:"status" json:"status"`
	Schedule []DaySlot `bson:"schedule" json:"schedule"`
	Wallet   Wallet    `bson:"wallet" json:"wallet"`

	// Rollups, recomputed after every schedule mutation.
	ContributedDays  int     `bson:"contributed_days" json:"contributed_days"`
	RemainingDays    int     `bson:"remaining_days" json:"remaining_days"`
	TotalContributed int64   `bson:"total_contributed" json:"total_contributed"`
	Percentage       float64 `bson:"percentage" json:"percentage"`

	// Streak statistics.
	CurrentStreak      int        `bson:"current_streak" json:"current_streak"`
	BestStreak         int        `bson:"best_streak" json:"best_streak"`
	MissedDays         int        `bson:"missed_days" json:"missed_days"`
	LastContributionAt *time.Time `bson:"last_contribution_at,omitempty" json:"last_contribution_at,omitempty"`

	Version   int64     `bson:"version" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// dateOnly strips the time-of-day component; all schedule comparisons
// are calendar-date comparisons in UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GenerateSchedule produces exactly `days` slots, one per calendar day
// starting at `start`, each expecting the daily amount. Pure and
// deterministic; called once per cycle at creation. It is deliberately
// not reachable from any endpoint afterwards, since regenerating would
// silently erase recorded progress.
func GenerateSchedule(start time.Time, days int, daily int64) []DaySlot {
	start = dateOnly(start)
	schedule := make([]DaySlot, days)
	for i := 0; i < days; i++ {
		schedule[i] = DaySlot{
			DayIndex: i + 1,
			Date:     start.AddDate(0, 0, i),
			Amount:   daily,
			Status:   SlotScheduled,
		}
	}
	return schedule
}

// NewInvestmentCycle builds an active cycle for a group with the full
// schedule generated from the start date.
func NewInvestmentCycle(groupID primitive.ObjectID, start, now time.Time) *InvestmentCycle {
	start = dateOnly(start)
	c := &InvestmentCycle{
		ID:           primitive.NewObjectID(),
		GroupID:      groupID,
		StartDate:    start,
		DurationDays: CycleDurationDays,
		DailyAmount:  DailyAmount,
		EndDate:      start.AddDate(0, 0, CycleDurationDays-1),
		Status:       CycleActive,
		Schedule:     GenerateSchedule(start, CycleDurationDays, DailyAmount),
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}
	c.recomputeRollups(now)
	return c
}

// RecordContribution records the daily contribution for one calendar
// date. The amount must equal the cycle's fixed daily amount exactly;
// partial and over-payments are rejected.
func (c *InvestmentCycle) RecordContribution(date time.Time, amount int64, note string, now time.Time) error {
	if c.Status != CycleActive {
		return ErrCycleNotActive
	}
	slot := c.slotByDate(date)
	if slot == nil {
		return ErrInvalidInvestmentDate
	}
	if slot.Status == SlotContributed {
		return ErrDuplicateContribution
	}
	if amount != c.DailyAmount {
		return ErrInvalidAmount
	}

	slot.Status = SlotContributed
	slot.Amount = amount
	if note != "" {
		slot.Note = note
	}

	c.credit(LedgerContribution, amount,
		fmt.Sprintf("Daily contribution for %s (day %d)", slot.Date.Format("2006-01-02"), slot.DayIndex), now)

	t := now.UTC()
	c.LastContributionAt = &t
	c.recomputeRollups(now)
	return nil
}

// SetSlotStatus is the administrative override for one slot. Moving a
// slot into "contributed" credits the wallet; moving it out debits the
// slot's recorded amount as a reversal. A reversal that would overdraw
// the wallet is rejected before anything is mutated.
func (c *InvestmentCycle) SetSlotStatus(dayIndex int, status, note string, now time.Time) error {
	switch status {
	case SlotScheduled, SlotContributed, SlotMissed, SlotDeferred:
	default:
		return ErrInvalidSlotStatus
	}
	if dayIndex < 1 || dayIndex > len(c.Schedule) {
		return ErrSlotIndexOutOfRange
	}
	slot := &c.Schedule[dayIndex-1]

	wasContributed := slot.Status == SlotContributed
	willBeContributed := status == SlotContributed

	if wasContributed && !willBeContributed && c.Wallet.Balance < slot.Amount {
		return ErrInsufficientBalance
	}

	if !wasContributed && willBeContributed {
		if slot.Amount == 0 {
			slot.Amount = c.DailyAmount
		}
		c.credit(LedgerContribution, slot.Amount,
			fmt.Sprintf("Adjustment: day %d marked contributed", slot.DayIndex), now)
		t := now.UTC()
		c.LastContributionAt = &t
	}
	if wasContributed && !willBeContributed {
		c.debit(LedgerWithdrawal, slot.Amount,
			fmt.Sprintf("Reversal: day %d moved to %s", slot.DayIndex, status), now)
	}

	slot.Status = status
	if note != "" {
		slot.Note = note
	}
	c.recomputeRollups(now)
	return nil
}

// CurrentDayIndex returns the number of days elapsed since the start
// date, clamped to [0, duration].
func (c *InvestmentCycle) CurrentDayIndex(now time.Time) int {
	elapsed := int(dateOnly(now).Sub(c.StartDate).Hours() / 24)
	if elapsed < 0 {
		return 0
	}
	if elapsed > c.DurationDays {
		return c.DurationDays
	}
	return elapsed
}

// NextPendingDate returns the date of the next slot to fund, or nil if
// the cycle's calendar is exhausted.
func (c *InvestmentCycle) NextPendingDate(now time.Time) *time.Time {
	idx := c.CurrentDayIndex(now)
	if idx >= c.DurationDays {
		return nil
	}
	d := c.StartDate.AddDate(0, 0, idx)
	return &d
}

// TotalPlanned is the full amount the cycle expects over its lifetime.
func (c *InvestmentCycle) TotalPlanned() int64 {
	return int64(c.DurationDays) * c.DailyAmount
}

// SimulatedReturns is the placeholder 7% yield on the total contributed.
// Not a real accrual model; it exists so the mobile app has a figure to
// show until the program settles on one.
func (c *InvestmentCycle) SimulatedReturns() int64 {
	return c.TotalContributed * 7 / 100
}

func (c *InvestmentCycle) slotByDate(date time.Time) *DaySlot {
	d := dateOnly(date)
	elapsed := int(d.Sub(c.StartDate).Hours() / 24)
	if elapsed < 0 || elapsed >= len(c.Schedule) {
		return nil
	}
	slot := &c.Schedule[elapsed]
	if !slot.Date.Equal(d) {
		return nil
	}
	return slot
}

func (c *InvestmentCycle) credit(kind string, amount int64, desc string, now time.Time) {
	c.Wallet.Balance += amount
	c.Wallet.Entries = append(c.Wallet.Entries, LedgerEntry{
		At:          now.UTC(),
		Kind:        kind,
		Amount:      amount,
		Description: desc,
		Balance:     c.Wallet.Balance,
	})
}

func (c *InvestmentCycle) debit(kind string, amount int64, desc string, now time.Time) {
	c.Wallet.Balance -= amount
	c.Wallet.Entries = append(c.Wallet.Entries, LedgerEntry{
		At:          now.UTC(),
		Kind:        kind,
		Amount:      amount,
		Description: desc,
		Balance:     c.Wallet.Balance,
	})
}

// recomputeRollups refreshes the derived counters after any schedule
// mutation. When every day has been contributed an active cycle flips to
// complete; nothing ever flips it back automatically.
func (c *InvestmentCycle) recomputeRollups(now time.Time) {
	contributed, missed := 0, 0
	for i := range c.Schedule {
		switch c.Schedule[i].Status {
		case SlotContributed:
			contributed++
		case SlotMissed:
			missed++
		}
	}
	c.ContributedDays = contributed
	c.RemainingDays = c.DurationDays - contributed
	c.TotalContributed = int64(contributed) * c.DailyAmount
	c.Percentage = float64(contributed) / float64(c.DurationDays) * 100
	c.MissedDays = missed

	c.CurrentStreak = c.streakFrom(now)
	if c.CurrentStreak > c.BestStreak {
		c.BestStreak = c.CurrentStreak
	}

	if c.Status == CycleActive && contributed == c.DurationDays {
		c.Status = CycleComplete
	}
	c.UpdatedAt = now.UTC()
}

// streakFrom counts consecutive contributed days walking backward from
// "today". A contribution recorded for a past date does not extend the
// current streak if a gap remains between it and today.
func (c *InvestmentCycle) streakFrom(now time.Time) int {
	pos := c.CurrentDayIndex(now)
	if pos >= len(c.Schedule) {
		pos = len(c.Schedule) - 1
	}
	if pos < 0 {
		return 0
	}
	// Today's own slot may legitimately still be pending.
	if c.Schedule[pos].Status != SlotContributed {
		pos--
	}
	streak := 0
	for pos >= 0 && c.Schedule[pos].Status == SlotContributed {
		streak++
		pos--
	}
	return streak
}
