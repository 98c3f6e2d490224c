// internal/domain/models/composition.go
package models

import (
	"errors"
	"math"
)

// Composition rule errors, returned by CheckComposition and surfaced to
// the API as COMPOSITION_* validation codes.
var (
	ErrTooFewParticipants = errors.New("a group needs at least 3 participants including the president")
	ErrMissingSecretary   = errors.New("the roster must include a secretary")
	ErrMissingTreasurer   = errors.New("the roster must include a treasurer")
	ErrCompositionQuota   = errors.New("group composition does not meet the demographic quotas")
)

// Composition thresholds for groups larger than the 3-person minimum.
// A larger group must be either entirely women, or satisfy all three
// quotas at once. Percentages apply to the total participant count
// (roster + president); minimums round up, the maximum rounds down.
//
// A second, stricter legacy rule (exactly 40 participants) exists in
// older registration paperwork; the thresholds below are the ones the
// program currently enforces. Keeping them in one place so a ruling the
// other way is a one-line change.
const (
	womenMinPct = 62.5
	youthMinPct = 30.0
	menMaxPct   = 7.5
)

// CheckComposition validates the demographic composition of a group at
// creation time. It is enforced once, at the registration boundary, and
// never re-checked afterwards.
func CheckComposition(presidentCategory string, roster []RosterMember) error {
	total := len(roster) + 1
	if total < 3 {
		return ErrTooFewParticipants
	}

	var hasSecretary, hasTreasurer bool
	counts := map[string]int{presidentCategory: 1}
	for _, m := range roster {
		switch m.Role {
		case RoleSecretary:
			hasSecretary = true
		case RoleTreasurer:
			hasTreasurer = true
		}
		counts[m.Category]++
	}
	if !hasSecretary {
		return ErrMissingSecretary
	}
	if !hasTreasurer {
		return ErrMissingTreasurer
	}

	// At the 3-person minimum any demographic mix is accepted.
	if total == 3 {
		return nil
	}

	women := counts[CategoryWoman]
	youth := counts[CategoryYouth]
	men := counts[CategoryMan]

	if women == total {
		return nil
	}

	womenMin := int(math.Ceil(float64(total) * womenMinPct / 100))
	youthMin := int(math.Ceil(float64(total) * youthMinPct / 100))
	menMax := int(math.Floor(float64(total) * menMaxPct / 100))

	if women >= womenMin && youth >= youthMin && men <= menMax {
		return nil
	}
	return ErrCompositionQuota
}
