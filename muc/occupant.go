// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package muc

import (
	"github.com/xose/emite/jid"
	"github.com/xose/emite/stanza"
)

// Affiliation indicates a user's long-lived affiliation with a room.
type Affiliation uint8

// A list of room affiliations.
const (
	AffiliationNone Affiliation = iota

	// Support for the owner affiliation is required.
	AffiliationOwner

	// Support for these affiliations is recommended, but optional.
	AffiliationAdmin
	AffiliationMember
	AffiliationOutcast
)

// ParseAffiliation maps a wire value to an affiliation. Unrecognized values
// map to AffiliationNone.
func ParseAffiliation(s string) Affiliation {
	switch s {
	case "owner":
		return AffiliationOwner
	case "admin":
		return AffiliationAdmin
	case "member":
		return AffiliationMember
	case "outcast":
		return AffiliationOutcast
	}
	return AffiliationNone
}

// String returns the wire representation of the affiliation.
func (a Affiliation) String() string {
	switch a {
	case AffiliationOwner:
		return "owner"
	case AffiliationAdmin:
		return "admin"
	case AffiliationMember:
		return "member"
	case AffiliationOutcast:
		return "outcast"
	}
	return "none"
}

// Role indicates a user's role within a room for the duration of a visit.
type Role uint8

// A list of user roles.
const (
	RoleNone Role = iota

	// Support for these roles is required.
	RoleModerator
	RoleParticipant

	// Support for this role is recommended, but optional.
	RoleVisitor
)

// ParseRole maps a wire value to a role. Unrecognized values map to
// RoleNone.
func ParseRole(s string) Role {
	switch s {
	case "moderator":
		return RoleModerator
	case "participant":
		return RoleParticipant
	case "visitor":
		return RoleVisitor
	}
	return RoleNone
}

// String returns the wire representation of the role.
func (r Role) String() string {
	switch r {
	case RoleModerator:
		return "moderator"
	case RoleParticipant:
		return "participant"
	case RoleVisitor:
		return "visitor"
	}
	return "none"
}

// Occupant is one member of a room's roster. The occupant address (room
// address plus in-room nickname) is the stable identity key within the room;
// the real user address is a secondary key, known only when the room
// discloses it.
type Occupant struct {
	// Addr is the occupant address: room address + nickname.
	Addr jid.JID

	// UserAddr is the occupant's real bare address, or the zero JID when the
	// room does not disclose it.
	UserAddr jid.JID

	Affiliation Affiliation
	Role        Role

	// Show and Status mirror the occupant's last broadcast availability.
	Show   stanza.ShowType
	Status string
}

// Nick returns the occupant's in-room nickname.
func (o Occupant) Nick() string {
	return o.Addr.Resourcepart()
}
