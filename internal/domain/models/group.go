// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group statuses. Status is the single authoritative lifecycle field;
// the registration view used by the public flow is derived from it
// (see RegistrationStatus).
const (
	GroupStatusPending   = "pending"
	GroupStatusValidated = "validated"
	GroupStatusRejected  = "rejected"
	GroupStatusSuspended = "suspended"
)

// Registration statuses derived from Group.Status.
const (
	RegistrationPendingPayment = "pending-payment"
	RegistrationValid          = "valid"
)

// Member roles within a group roster. The president is not part of the
// roster; they are stored separately on the group document.
const (
	RoleViceLead  = "vice-lead"
	RoleSecretary = "secretary"
	RoleTreasurer = "treasurer"
	RoleMember    = "member"
)

// Demographic categories used by the composition rules.
const (
	CategoryWoman = "woman"
	CategoryYouth = "youth"
	CategoryMan   = "man"
)

// Person holds identity and contact fields shared by the president and
// roster members.
type Person struct {
	FirstName string `bson:"first_name" json:"first_name"`
	LastName  string `bson:"last_name" json:"last_name"`
	Phone     string `bson:"phone" json:"phone"`
	Email     string `bson:"email,omitempty" json:"email,omitempty"`
	Address   string `bson:"address,omitempty" json:"address,omitempty"`
}

// RosterMember is one member of a group's roster.
type RosterMember struct {
	Person   `bson:",inline" json:",inline"`
	Role     string `bson:"role" json:"role"`
	Category string `bson:"category" json:"category"`
}

// Group represents a registered community economic-interest group (GIE).
//
// Code is the human-readable identifier: five hyphen-separated numeric
// segments encoding region, department, district, commune and a sequence
// number. Code and ProtocolNumber are unique across the collection.
//
// President fields are immutable after creation; the update boundary in
// the groups store refuses to touch them.
type Group struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Code           string             `bson:"code" json:"code"`
	Name           string             `bson:"name" json:"name"`
	NameCI         string             `bson:"name_ci" json:"name_ci"`
	ProtocolNumber string             `bson:"protocol_number" json:"protocol_number"`

	President         Person         `bson:"president" json:"president"`
	PresidentCategory string         `bson:"president_category" json:"president_category"`
	Roster            []RosterMember `bson:"roster" json:"roster"`

	Status string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// RegistrationStatus is the public-flow view of the group lifecycle.
// Only a validated group reads as "valid"; everything else is still
// waiting on payment or review.
func (g *Group) RegistrationStatus() string {
	if g.Status == GroupStatusValidated {
		return RegistrationValid
	}
	return RegistrationPendingPayment
}

// TotalParticipants counts the roster plus the president.
func (g *Group) TotalParticipants() int {
	return len(g.Roster) + 1
}
