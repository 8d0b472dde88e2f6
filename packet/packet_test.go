// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package packet_test

import (
	"strconv"
	"testing"

	"github.com/xose/emite/packet"
)

func TestBuildAndSerialize(t *testing.T) {
	p := packet.New("presence", "")
	p.SetAttr("to", "room@muc.example.net/nick")
	x := p.AddChild("x", "http://jabber.org/protocol/muc")
	h := x.AddChild("history", "")
	h.SetAttr("maxstanzas", "20")

	const want = `<presence to="room@muc.example.net/nick"><x xmlns="http://jabber.org/protocol/muc"><history maxstanzas="20"></history></x></presence>`
	if got := p.String(); got != want {
		t.Errorf("wrong serialization:\nwant=%s\n got=%s", want, got)
	}
}

func TestSetAttr(t *testing.T) {
	p := packet.New("iq", "")
	p.SetAttr("type", "get")
	p.SetAttr("type", "set")
	if v := p.Attr("type"); v != "set" {
		t.Errorf("expected replaced attribute, got %q", v)
	}
	p.SetAttr("type", "")
	if v := p.Attr("type"); v != "" {
		t.Errorf("expected removed attribute, got %q", v)
	}
	if v := p.Attr("missing"); v != "" {
		t.Errorf("expected empty value for missing attribute, got %q", v)
	}
}

func TestParseString(t *testing.T) {
	p, err := packet.ParseString(`<message from="a@b/c" type="groupchat"><subject>hi there</subject><body>ignore</body></message>`)
	if err != nil {
		t.Fatalf("error parsing: %v", err)
	}
	if p.Name.Local != "message" {
		t.Errorf("wrong name: %v", p.Name)
	}
	if v := p.Attr("from"); v != "a@b/c" {
		t.Errorf("wrong from: %q", v)
	}
	if v := p.ChildText("subject"); v != "hi there" {
		t.Errorf("wrong subject: %q", v)
	}
	if !p.HasChild("body") || p.HasChild("thread") {
		t.Errorf("wrong children: %v", p.Children)
	}
}

func TestChildrenNamed(t *testing.T) {
	p, err := packet.ParseString(`<presence>` +
		`<x xmlns="http://jabber.org/protocol/muc#user"><item role="moderator"></item></x>` +
		`<x xmlns="vcard-temp:x:update"></x>` +
		`</presence>`)
	if err != nil {
		t.Fatalf("error parsing: %v", err)
	}
	all := p.ChildrenNamed("x", "")
	if len(all) != 2 {
		t.Fatalf("expected 2 children, got %d", len(all))
	}
	user := p.ChildrenNamed("x", "http://jabber.org/protocol/muc#user")
	if len(user) != 1 {
		t.Fatalf("expected 1 muc#user child, got %d", len(user))
	}
	if item := user[0].FirstChild("item"); item == nil || item.Attr("role") != "moderator" {
		t.Errorf("wrong item child: %v", user[0])
	}
}

func TestRoundTrip(t *testing.T) {
	cases := [...]string{
		0: `<iq id="x_1" type="result"><bind xmlns="urn:ietf:params:xml:ns:xmpp-bind"><jid>u@d/r</jid></bind></iq>`,
		1: `<message><body>round trip</body></message>`,
		2: `<presence type="unavailable"></presence>`,
	}
	for i, tc := range cases {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			p, err := packet.ParseString(tc)
			if err != nil {
				t.Fatalf("error parsing: %v", err)
			}
			if got := p.String(); got != tc {
				t.Errorf("round trip mismatch:\nwant=%s\n got=%s", tc, got)
			}
		})
	}
}
