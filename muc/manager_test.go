// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package muc_test

import (
	"testing"

	"github.com/xose/emite/internal/sessiontest"
	"github.com/xose/emite/jid"
	"github.com/xose/emite/muc"
	"github.com/xose/emite/session"
	"github.com/xose/emite/stanza"
)

func newManager(t *testing.T) (*muc.Manager, *sessiontest.Conn) {
	t.Helper()
	s, conn, auth := sessiontest.NewSession()
	sessiontest.Login(s, conn, auth, jid.MustParse("u@d/r"), "p")
	s.SetStatus(session.StatusReady)
	return muc.NewManager(s), conn
}

func TestManagerOpen(t *testing.T) {
	m, conn := newManager(t)

	r, err := m.Open(jid.MustParse("room@muc.d/mynick"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	enter := stanza.WrapPresence(conn.LastSent())
	if !enter.To().Equal(jid.MustParse("room@muc.d/mynick")) {
		t.Fatalf("open must send the enter presence: %v", enter.Packet)
	}

	again, err := m.Open(jid.MustParse("room@muc.d/othernick"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != r {
		t.Fatalf("rooms must be keyed by bare room address")
	}

	if got, ok := m.Room(jid.MustParse("room@muc.d")); !ok || got != r {
		t.Fatalf("tracked room not found")
	}
}

func TestManagerClose(t *testing.T) {
	m, conn := newManager(t)

	r, err := m.Open(jid.MustParse("room@muc.d/mynick"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	conn.ReceiveString(`<presence from="room@muc.d/mynick">` +
		`<x xmlns="http://jabber.org/protocol/muc#user"><item affiliation="owner" role="moderator"/></x></presence>`)

	m.Close(jid.MustParse("room@muc.d"))
	final := stanza.WrapPresence(conn.LastSent())
	if final.Type() != stanza.UnavailablePresence {
		t.Fatalf("close must send the final unavailable presence: %v", final.Packet)
	}
	if _, ok := m.Room(jid.MustParse("room@muc.d")); ok {
		t.Fatalf("closed room still tracked")
	}

	// A disposed room no longer reacts to room traffic.
	var changes int
	r.OnOccupantChanged(func(muc.OccupantChange) { changes++ })
	conn.ReceiveString(`<presence from="room@muc.d/alice">` +
		`<x xmlns="http://jabber.org/protocol/muc#user"><item affiliation="member" role="participant"/></x></presence>`)
	if changes != 0 {
		t.Fatalf("disposed room still processes presence")
	}
}

func TestManagerInvitationReceived(t *testing.T) {
	m, conn := newManager(t)

	var got []muc.Invitation
	m.OnInvitation(func(inv muc.Invitation) { got = append(got, inv) })

	conn.ReceiveString(`<message from="room@muc.d" to="u@d">` +
		`<x xmlns="http://jabber.org/protocol/muc#user">` +
		`<invite from="alice@d"><reason>come</reason></invite></x></message>`)
	conn.ReceiveString(`<message from="alice@d" to="u@d"><body>not an invitation</body></message>`)

	if len(got) != 1 {
		t.Fatalf("expected one invitation, got %d", len(got))
	}
	if !got[0].Room.Equal(jid.MustParse("room@muc.d")) || got[0].Reason != "come" {
		t.Fatalf("wrong invitation: %+v", got[0])
	}
}
