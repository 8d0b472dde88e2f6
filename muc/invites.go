// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package muc

import (
	"github.com/xose/emite/jid"
	"github.com/xose/emite/packet"
	"github.com/xose/emite/stanza"
)

// Invitation is a mediated or direct MUC invitation. Mediated invitations
// travel through the room, which forwards them to the invitee; direct
// invitations are sent straight to the invitee.
type Invitation struct {
	// Room is the room the invitee is invited to.
	Room jid.JID

	// To is the invitee. On received mediated invitations it is the zero JID:
	// the room already stripped it.
	To jid.JID

	// From is the inviter. Only set on received invitations.
	From jid.JID

	Reason   string
	Password string

	// Continue marks the invitation as the continuation of a one-to-one chat,
	// optionally carrying its thread.
	Continue bool
	Thread   string

	// Direct selects the direct form when marshaling.
	Direct bool
}

// Packet serializes the invitation extension element: a muc#user <x/> for
// mediated invitations or a jabber:x:conference <x/> for direct ones.
func (i Invitation) Packet() *packet.Packet {
	if i.Direct {
		return i.directPacket()
	}
	return i.mediatedPacket()
}

func (i Invitation) directPacket() *packet.Packet {
	x := packet.New("x", NSConf)
	x.SetAttr("jid", i.Room.String())
	if i.Continue {
		x.SetAttr("continue", "true")
		x.SetAttr("thread", i.Thread)
	}
	x.SetAttr("password", i.Password)
	x.SetAttr("reason", i.Reason)
	return x
}

func (i Invitation) mediatedPacket() *packet.Packet {
	x := packet.New("x", NSUser)
	invite := x.AddChild("invite", "")
	if !i.To.Zero() {
		invite.SetAttr("to", i.To.String())
	}
	if i.Reason != "" {
		invite.AddChild("reason", "").SetText(i.Reason)
	}
	if i.Continue {
		c := invite.AddChild("continue", "")
		c.SetAttr("thread", i.Thread)
	}
	if i.Password != "" {
		x.AddChild("password", "").SetText(i.Password)
	}
	return x
}

// Message wraps the invitation in a normal-type message addressed to the
// room (mediated) or to the invitee (direct).
func (i Invitation) Message() stanza.Message {
	m := stanza.NewMessage(stanza.NormalMessage)
	if i.Direct {
		m.SetTo(i.To)
	} else {
		m.SetTo(i.Room.Bare())
	}
	m.Append(i.Packet())
	return m
}

// ParseInvitation extracts an invitation from a received message, reporting
// whether one was present.
func ParseInvitation(m stanza.Message) (Invitation, bool) {
	for _, x := range m.ChildrenNamed("x", NSConf) {
		room, err := jid.Parse(x.Attr("jid"))
		if err != nil {
			continue
		}
		return Invitation{
			Room:     room,
			From:     m.From(),
			Reason:   x.Attr("reason"),
			Password: x.Attr("password"),
			Continue: x.Attr("continue") == "true" || x.Attr("continue") == "1",
			Thread:   x.Attr("thread"),
			Direct:   true,
		}, true
	}

	for _, x := range m.ChildrenNamed("x", NSUser) {
		invite := x.FirstChild("invite")
		if invite == nil {
			continue
		}
		inv := Invitation{
			Room:     m.From().Bare(),
			Reason:   invite.ChildText("reason"),
			Password: x.ChildText("password"),
		}
		if from, err := jid.Parse(invite.Attr("from")); err == nil {
			inv.From = from
		}
		if c := invite.FirstChild("continue"); c != nil {
			inv.Continue = true
			inv.Thread = c.Attr("thread")
		}
		return inv, true
	}

	return Invitation{}, false
}
