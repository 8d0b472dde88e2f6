// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza

import (
	"strconv"

	"github.com/xose/emite/packet"
)

// PresenceType is the type of a presence stanza.
// It should normally be one of the constants defined in this package.
type PresenceType string

const (
	// AvailablePresence is a special case that signals that the entity is
	// available for communication.
	AvailablePresence PresenceType = ""

	// ErrorPresence indicates that an error has occurred regarding processing of
	// a previously sent presence stanza.
	ErrorPresence PresenceType = "error"

	// ProbePresence is a request for an entity's current presence. It should
	// generally only be generated and sent by servers on behalf of a user.
	ProbePresence PresenceType = "probe"

	// SubscribePresence is sent when the sender wishes to subscribe to the
	// recipient's presence.
	SubscribePresence PresenceType = "subscribe"

	// SubscribedPresence indicates that the sender has allowed the recipient to
	// receive future presence broadcasts.
	SubscribedPresence PresenceType = "subscribed"

	// UnavailablePresence indicates that the sender is no longer available for
	// communication.
	UnavailablePresence PresenceType = "unavailable"

	// UnsubscribePresence indicates that the sender is unsubscribing from the
	// receiver's presence.
	UnsubscribePresence PresenceType = "unsubscribe"

	// UnsubscribedPresence indicates that the subscription request has been
	// denied, or a previously granted subscription has been revoked.
	UnsubscribedPresence PresenceType = "unsubscribed"
)

// ShowType is the availability sub-state advertised by an available presence.
type ShowType string

const (
	// ShowNone means no <show/> child: plainly available.
	ShowNone ShowType = ""

	// ShowAway indicates the entity is temporarily away.
	ShowAway ShowType = "away"

	// ShowChat indicates the entity is actively interested in chatting.
	ShowChat ShowType = "chat"

	// ShowDND indicates the entity is busy (do not disturb).
	ShowDND ShowType = "dnd"

	// ShowXA indicates the entity is away for an extended period.
	ShowXA ShowType = "xa"
)

// Presence is an XMPP stanza that is used as an indication that an entity is
// available for communication. It is used to set a status message, broadcast
// availability, and advertise entity capabilities.
type Presence struct {
	Stanza
}

// NewPresence creates an empty presence of the given type.
func NewPresence(t PresenceType) Presence {
	p := Presence{Stanza: New("presence")}
	p.SetType(t)
	return p
}

// WrapPresence wraps a received packet in a Presence.
func WrapPresence(p *packet.Packet) Presence {
	return Presence{Stanza: Stanza{Packet: p}}
}

// Type returns the presence type.
func (p Presence) Type() PresenceType {
	return PresenceType(p.TypeAttr())
}

// SetType sets the presence type. AvailablePresence removes the type
// attribute.
func (p Presence) SetType(t PresenceType) {
	p.SetAttr("type", string(t))
}

// Show returns the availability sub-state.
func (p Presence) Show() ShowType {
	return ShowType(p.ChildText("show"))
}

// SetShow sets the availability sub-state. ShowNone removes the child.
func (p Presence) SetShow(show ShowType) {
	if c := p.FirstChild("show"); c != nil {
		if show == ShowNone {
			p.removeChild("show")
			return
		}
		c.SetText(string(show))
		return
	}
	if show != ShowNone {
		p.AddChild("show", "").SetText(string(show))
	}
}

// Status returns the human readable status message, or the empty string if
// there is none.
func (p Presence) Status() string {
	return p.ChildText("status")
}

// SetStatus replaces the status message.
func (p Presence) SetStatus(status string) {
	if c := p.FirstChild("status"); c != nil {
		c.SetText(status)
		return
	}
	p.AddChild("status", "").SetText(status)
}

// Priority returns the presence priority, or 0 when absent or unparsable.
func (p Presence) Priority() int {
	n, err := strconv.Atoi(p.ChildText("priority"))
	if err != nil {
		return 0
	}
	return n
}

// SetPriority sets the presence priority.
func (p Presence) SetPriority(n int) {
	if c := p.FirstChild("priority"); c != nil {
		c.SetText(strconv.Itoa(n))
		return
	}
	p.AddChild("priority", "").SetText(strconv.Itoa(n))
}

func (p Presence) removeChild(local string) {
	for i, c := range p.Children {
		if c.Name.Local == local {
			p.Packet.Children = append(p.Children[:i], p.Children[i+1:]...)
			return
		}
	}
}
