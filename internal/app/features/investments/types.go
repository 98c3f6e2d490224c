// internal/app/features/investments/types.go
package investments

import (
	"time"

	"github.com/mbayedione/giehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// contributeRequest is the POST .../contribute body. Date is the
// calendar day being funded, not the moment of the request.
type contributeRequest struct {
	Date   string `json:"date"` // 2006-01-02
	Amount int64  `json:"amount"`
	Note   string `json:"note,omitempty"`
}

// setDayRequest is the PUT .../day/{dayIndex} body.
type setDayRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// validateGroupRequest is the POST /investments/validate-group body.
type validateGroupRequest struct {
	Code string `json:"code"`
}

// overviewView is the cycle summary without the embedded schedule.
type overviewView struct {
	ID                 primitive.ObjectID `json:"id"`
	GroupID            primitive.ObjectID `json:"group_id"`
	StartDate          time.Time          `json:"start_date"`
	EndDate            time.Time          `json:"end_date"`
	DurationDays       int                `json:"duration_days"`
	DailyAmount        int64              `json:"daily_amount"`
	Status             string             `json:"status"`
	ContributedDays    int                `json:"contributed_days"`
	RemainingDays      int                `json:"remaining_days"`
	TotalContributed   int64              `json:"total_contributed"`
	TotalPlanned       int64              `json:"total_planned"`
	Percentage         float64            `json:"percentage"`
	WalletBalance      int64              `json:"wallet_balance"`
	CurrentDayIndex    int                `json:"current_day_index"`
	NextPendingDate    *time.Time         `json:"next_pending_date,omitempty"`
	LastContributionAt *time.Time         `json:"last_contribution_at,omitempty"`
}

type calendarView struct {
	Month string           `json:"month"`
	Slots []models.DaySlot `json:"slots"`
}

type statsView struct {
	ContributedDays  int     `json:"contributed_days"`
	RemainingDays    int     `json:"remaining_days"`
	MissedDays       int     `json:"missed_days"`
	TotalContributed int64   `json:"total_contributed"`
	Percentage       float64 `json:"percentage"`
	CurrentStreak    int     `json:"current_streak"`
	BestStreak       int     `json:"best_streak"`
	WalletBalance    int64   `json:"wallet_balance"`
	SimulatedReturns int64   `json:"simulated_returns"`
}

type walletView struct {
	Balance int64                `json:"balance"`
	Entries []models.LedgerEntry `json:"entries"`
}

// groupSummary is the public validate-group response.
type groupSummary struct {
	ID                 primitive.ObjectID `json:"id"`
	Code               string             `json:"code"`
	Name               string             `json:"name"`
	Status             string             `json:"status"`
	RegistrationStatus string             `json:"registration_status"`
}
