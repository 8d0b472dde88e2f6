// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package muc

import (
	"github.com/xose/emite/event"
	"github.com/xose/emite/jid"
	"github.com/xose/emite/stanza"
)

// Topics published with a *Room as the event source, except for
// invitation-received which is published by the Manager with itself as the
// source.
const (
	topicOccupantChanged      = "muc.occupant-changed"
	topicSubjectChanged       = "muc.subject-changed"
	topicMessageReceived      = "muc.message-received"
	topicStateChanged         = "muc.state-changed"
	topicRoomError            = "muc.room-error"
	topicBeforeInvitationSent = "muc.before-invitation-sent"
	topicInvitationSent       = "muc.invitation-sent"
	topicInvitationReceived   = "muc.invitation-received"
)

// ChangeKind is the kind of a roster change.
type ChangeKind uint8

// A list of roster change kinds.
const (
	OccupantAdded ChangeKind = iota
	OccupantModified
	OccupantRemoved
)

// String returns a human readable name for the change kind.
func (k ChangeKind) String() string {
	switch k {
	case OccupantAdded:
		return "added"
	case OccupantModified:
		return "modified"
	case OccupantRemoved:
		return "removed"
	}
	return "unknown"
}

// OccupantChange is one structural roster change. Occupant is a snapshot
// taken at the moment of the change.
type OccupantChange struct {
	Kind     ChangeKind
	Occupant Occupant
}

// SubjectChange is a room subject change announced by an occupant.
type SubjectChange struct {
	From    jid.JID
	Subject string
}

// OnOccupantChanged registers a handler for roster changes in this room.
func (r *Room) OnOccupantChanged(f func(change OccupantChange)) *event.Registration {
	return r.bus.Subscribe(topicOccupantChanged, r, func(payload interface{}) {
		f(payload.(OccupantChange))
	})
}

// OnSubjectChanged registers a handler for room subject changes.
func (r *Room) OnSubjectChanged(f func(change SubjectChange)) *event.Registration {
	return r.bus.Subscribe(topicSubjectChanged, r, func(payload interface{}) {
		f(payload.(SubjectChange))
	})
}

// OnMessage registers a handler for group chat messages received in this
// room. Subject-only messages are reported through OnSubjectChanged instead.
func (r *Room) OnMessage(f func(m stanza.Message)) *event.Registration {
	return r.bus.Subscribe(topicMessageReceived, r, func(payload interface{}) {
		f(payload.(stanza.Message))
	})
}

// OnStateChanged registers a handler for room state edges.
func (r *Room) OnStateChanged(f func(state State)) *event.Registration {
	return r.bus.Subscribe(topicStateChanged, r, func(payload interface{}) {
		f(payload.(State))
	})
}

// OnError registers a handler for room-scoped errors: error presences from
// the room and failed configuration exchanges.
func (r *Room) OnError(f func(s stanza.Stanza)) *event.Registration {
	return r.bus.Subscribe(topicRoomError, r, func(payload interface{}) {
		f(payload.(stanza.Stanza))
	})
}

// OnBeforeInvitationSent registers a handler that runs right before an
// invitation is sent through this room. The handler may mutate the
// invitation in place.
func (r *Room) OnBeforeInvitationSent(f func(inv *Invitation)) *event.Registration {
	return r.bus.Subscribe(topicBeforeInvitationSent, r, func(payload interface{}) {
		f(payload.(*Invitation))
	})
}

// OnInvitationSent registers a handler that runs after an invitation was
// handed to the session.
func (r *Room) OnInvitationSent(f func(inv Invitation)) *event.Registration {
	return r.bus.Subscribe(topicInvitationSent, r, func(payload interface{}) {
		f(payload.(Invitation))
	})
}
