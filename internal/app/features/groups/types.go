// internal/app/features/groups/types.go
package groups

import (
	"strconv"
	"strings"

	"github.com/mbayedione/giehub/internal/app/system/sanitize"
	"github.com/mbayedione/giehub/internal/domain/models"
)

// personPayload carries identity and contact fields on the wire.
type personPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
	Address   string `json:"address,omitempty"`
}

// memberPayload is one roster member in a registration request.
type memberPayload struct {
	personPayload
	Role     string `json:"role"`
	Category string `json:"category"`
}

// registerRequest is the POST /groups body.
type registerRequest struct {
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	ProtocolNumber    string          `json:"protocol_number"`
	President         personPayload   `json:"president"`
	PresidentCategory string          `json:"president_category"`
	Roster            []memberPayload `json:"roster"`
	MembershipType    string          `json:"membership_type,omitempty"`
}

// fieldErrors collects per-field validation problems for the 400 body.
type fieldErrors map[string]string

func (p personPayload) check(prefix string, errs fieldErrors) {
	if strings.TrimSpace(p.FirstName) == "" {
		errs[prefix+".first_name"] = "required"
	}
	if strings.TrimSpace(p.LastName) == "" {
		errs[prefix+".last_name"] = "required"
	}
	if strings.TrimSpace(p.Phone) == "" {
		errs[prefix+".phone"] = "required"
	}
}

func validCategory(c string) bool {
	switch c {
	case models.CategoryWoman, models.CategoryYouth, models.CategoryMan:
		return true
	}
	return false
}

func validRole(r string) bool {
	switch r {
	case models.RoleViceLead, models.RoleSecretary, models.RoleTreasurer, models.RoleMember:
		return true
	}
	return false
}

// validate checks presence and enum shape. The composition rules run
// separately, after the shape is known to be sound.
func (req *registerRequest) validate() fieldErrors {
	errs := fieldErrors{}
	if strings.TrimSpace(req.Code) == "" {
		errs["code"] = "required"
	}
	if strings.TrimSpace(req.Name) == "" {
		errs["name"] = "required"
	}
	if strings.TrimSpace(req.ProtocolNumber) == "" {
		errs["protocol_number"] = "required"
	}
	req.President.check("president", errs)
	if !validCategory(req.PresidentCategory) {
		errs["president_category"] = "must be woman, youth, or man"
	}
	for i, m := range req.Roster {
		prefix := "roster." + strconv.Itoa(i)
		m.check(prefix, errs)
		if !validRole(m.Role) {
			errs[prefix+".role"] = "unknown role"
		}
		if !validCategory(m.Category) {
			errs[prefix+".category"] = "must be woman, youth, or man"
		}
	}
	if req.MembershipType != "" &&
		req.MembershipType != models.MembershipStandard &&
		req.MembershipType != models.MembershipPremium {
		errs["membership_type"] = "must be standard or premium"
	}
	return errs
}

func (p personPayload) toModel() models.Person {
	return models.Person{
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		Phone:     strings.TrimSpace(p.Phone),
		Email:     strings.TrimSpace(p.Email),
		Address:   sanitize.Text(p.Address),
	}
}

func (req *registerRequest) toGroup() models.Group {
	roster := make([]models.RosterMember, 0, len(req.Roster))
	for _, m := range req.Roster {
		roster = append(roster, models.RosterMember{
			Person:   m.toModel(),
			Role:     m.Role,
			Category: m.Category,
		})
	}
	return models.Group{
		Code:              strings.TrimSpace(req.Code),
		Name:              strings.TrimSpace(req.Name),
		ProtocolNumber:    strings.TrimSpace(req.ProtocolNumber),
		President:         req.President.toModel(),
		PresidentCategory: req.PresidentCategory,
		Roster:            roster,
	}
}

// groupView is a group plus its derived registration status.
type groupView struct {
	models.Group
	RegistrationStatus string `json:"registration_status"`
}

// detailView is the GET /groups/{id} payload.
type detailView struct {
	Group      groupView               `json:"group"`
	Membership *membershipView         `json:"membership,omitempty"`
	Cycle      *models.InvestmentCycle `json:"cycle,omitempty"`
}

// membershipView is a membership plus its derived progress percentage.
type membershipView struct {
	models.Membership
	Progress float64 `json:"progress"`
}

func viewGroup(g models.Group) groupView {
	return groupView{Group: g, RegistrationStatus: g.RegistrationStatus()}
}

func viewMembership(m models.Membership) *membershipView {
	return &membershipView{Membership: m, Progress: m.Progress()}
}

// validateRequest is the POST /groups/{id}/validate body.
type validateRequest struct {
	Action    string          `json:"action"` // "validate" | "reject"
	Validator string          `json:"validator,omitempty"`
	Remarks   string          `json:"remarks,omitempty"`
	Documents map[string]bool `json:"documents,omitempty"`
}
