// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza_test

import (
	"encoding/xml"
	"testing"

	"github.com/xose/emite/jid"
	"github.com/xose/emite/packet"
	"github.com/xose/emite/stanza"
)

func TestIs(t *testing.T) {
	cases := []struct {
		name xml.Name
		want bool
	}{
		{xml.Name{Local: "message"}, true},
		{xml.Name{Local: "presence", Space: "jabber:client"}, true},
		{xml.Name{Local: "iq"}, true},
		{xml.Name{Local: "features"}, false},
		{xml.Name{Local: "message", Space: "jabber:server"}, false},
	}
	for _, tc := range cases {
		if got := stanza.Is(tc.name); got != tc.want {
			t.Errorf("Is(%v): want=%t, got=%t", tc.name, tc.want, got)
		}
	}
}

func TestMessageAccessors(t *testing.T) {
	m := stanza.NewMessage(stanza.GroupChatMessage)
	m.SetTo(jid.MustParse("room@muc.example.net"))
	m.SetBody("ten forward")

	if m.Type() != stanza.GroupChatMessage {
		t.Errorf("wrong type: %q", m.Type())
	}
	if m.Body() != "ten forward" {
		t.Errorf("wrong body: %q", m.Body())
	}
	if m.HasSubject() {
		t.Errorf("message should have no subject")
	}
	m.SetSubject("")
	if !m.HasSubject() {
		t.Errorf("empty subject child should still count as a subject")
	}
	m.SetBody("replaced")
	if len(m.ChildrenNamed("body", "")) != 1 {
		t.Errorf("SetBody must replace, not append")
	}
}

func TestPresenceAccessors(t *testing.T) {
	p := stanza.NewPresence(stanza.AvailablePresence)
	if p.TypeAttr() != "" {
		t.Errorf("available presence must not carry a type attribute")
	}
	p.SetShow(stanza.ShowAway)
	p.SetStatus("afk")
	p.SetPriority(0)

	if p.Show() != stanza.ShowAway {
		t.Errorf("wrong show: %q", p.Show())
	}
	if p.Status() != "afk" {
		t.Errorf("wrong status: %q", p.Status())
	}
	if p.ChildText("priority") != "0" {
		t.Errorf("priority child not set")
	}

	p.SetShow(stanza.ShowNone)
	if p.HasChild("show") {
		t.Errorf("ShowNone should remove the show child")
	}
}

func TestIQResponseTypes(t *testing.T) {
	cases := []struct {
		typ      stanza.IQType
		response bool
	}{
		{stanza.GetIQ, false},
		{stanza.SetIQ, false},
		{stanza.ResultIQ, true},
		{stanza.ErrorIQ, true},
	}
	for _, tc := range cases {
		iq := stanza.NewIQ(tc.typ)
		if got := iq.IsResponse(); got != tc.response {
			t.Errorf("IsResponse(%q): want=%t, got=%t", tc.typ, tc.response, got)
		}
	}
}

func TestWrapSharesPacket(t *testing.T) {
	p, err := packet.ParseString(`<message from="room@muc.example.net/nick"><body>hi</body></message>`)
	if err != nil {
		t.Fatalf("error parsing: %v", err)
	}
	m := stanza.WrapMessage(p)
	m.SetAttr("from", "other@example.net")
	if p.Attr("from") != "other@example.net" {
		t.Errorf("wrapper must mutate the underlying packet")
	}
	if !m.From().Equal(jid.MustParse("other@example.net")) {
		t.Errorf("wrong from: %v", m.From())
	}
}
