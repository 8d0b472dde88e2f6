// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package muc_test

import (
	"testing"

	"github.com/xose/emite/jid"
	"github.com/xose/emite/muc"
	"github.com/xose/emite/packet"
	"github.com/xose/emite/stanza"
)

func TestParseMediatedInvitation(t *testing.T) {
	p, err := packet.ParseString(`<message from="room@muc.d" to="bob@d">` +
		`<x xmlns="http://jabber.org/protocol/muc#user">` +
		`<invite from="alice@d/home"><reason>join us</reason><continue thread="t1"></continue></invite>` +
		`<password>sekrit</password></x></message>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inv, ok := muc.ParseInvitation(stanza.WrapMessage(p))
	if !ok {
		t.Fatalf("invitation not recognized")
	}
	if !inv.Room.Equal(jid.MustParse("room@muc.d")) {
		t.Fatalf("wrong room: %v", inv.Room)
	}
	if !inv.From.Equal(jid.MustParse("alice@d/home")) {
		t.Fatalf("wrong inviter: %v", inv.From)
	}
	if inv.Reason != "join us" || inv.Password != "sekrit" {
		t.Fatalf("wrong invitation contents: %+v", inv)
	}
	if !inv.Continue || inv.Thread != "t1" {
		t.Fatalf("continuation lost: %+v", inv)
	}
	if inv.Direct {
		t.Fatalf("mediated invitation parsed as direct")
	}
}

func TestParseDirectInvitation(t *testing.T) {
	p, err := packet.ParseString(`<message from="alice@d/home" to="bob@d">` +
		`<x xmlns="jabber:x:conference" jid="room@muc.d" reason="join us" password="sekrit"/></message>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inv, ok := muc.ParseInvitation(stanza.WrapMessage(p))
	if !ok {
		t.Fatalf("invitation not recognized")
	}
	if !inv.Direct {
		t.Fatalf("direct invitation parsed as mediated")
	}
	if !inv.Room.Equal(jid.MustParse("room@muc.d")) || inv.Reason != "join us" || inv.Password != "sekrit" {
		t.Fatalf("wrong invitation contents: %+v", inv)
	}
	if !inv.From.Equal(jid.MustParse("alice@d/home")) {
		t.Fatalf("wrong inviter: %v", inv.From)
	}
}

func TestParseNoInvitation(t *testing.T) {
	p, err := packet.ParseString(`<message from="alice@d"><body>just a message</body></message>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := muc.ParseInvitation(stanza.WrapMessage(p)); ok {
		t.Fatalf("plain message recognized as invitation")
	}
}

func TestInvitationMessageShapes(t *testing.T) {
	mediated := muc.Invitation{
		Room:   jid.MustParse("room@muc.d"),
		To:     jid.MustParse("bob@d"),
		Reason: "join us",
	}
	m := mediated.Message()
	if !m.To().Equal(jid.MustParse("room@muc.d")) {
		t.Fatalf("mediated invitation must be addressed to the room: %v", m.Packet)
	}
	x := m.FirstChild("x")
	if x == nil || x.Name.Space != muc.NSUser {
		t.Fatalf("wrong mediated extension: %v", m.Packet)
	}
	if invite := x.FirstChild("invite"); invite == nil || invite.Attr("to") != "bob@d" {
		t.Fatalf("wrong mediated invite: %v", m.Packet)
	}

	direct := mediated
	direct.Direct = true
	m = direct.Message()
	if !m.To().Equal(jid.MustParse("bob@d")) {
		t.Fatalf("direct invitation must be addressed to the invitee: %v", m.Packet)
	}
	x = m.FirstChild("x")
	if x == nil || x.Name.Space != muc.NSConf || x.Attr("jid") != "room@muc.d" {
		t.Fatalf("wrong direct extension: %v", m.Packet)
	}
}
