// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package muc_test

import (
	"testing"

	"github.com/xose/emite/form"
	"github.com/xose/emite/jid"
	"github.com/xose/emite/muc"
	"github.com/xose/emite/stanza"
)

func TestRequestConfig(t *testing.T) {
	r, _, conn := newRoom(t)

	var got *form.Data
	r.RequestConfig(func(cfg *form.Data) { got = cfg })

	iq := stanza.WrapIQ(conn.LastSent())
	if iq.Type() != stanza.GetIQ || !iq.To().Equal(jid.MustParse("room@muc.d")) {
		t.Fatalf("wrong configuration request: %v", iq.Packet)
	}
	if q := iq.Query(); q == nil || q.Name.Space != muc.NSOwner {
		t.Fatalf("configuration request missing the owner query: %v", iq.Packet)
	}

	conn.ReceiveString(`<iq type="result" id="` + iq.ID() + `">` +
		`<query xmlns="http://jabber.org/protocol/muc#owner">` +
		`<x xmlns="jabber:x:data" type="form"><title>Room config</title>` +
		`<field var="muc#roomconfig_roomname" type="text-single"><value>My Room</value></field>` +
		`</x></query></iq>`)

	if got == nil {
		t.Fatalf("configuration callback never fired")
	}
	if got.Title() != "Room config" {
		t.Fatalf("wrong form title: %q", got.Title())
	}
	if values, ok := got.Get("muc#roomconfig_roomname"); !ok || values[0] != "My Room" {
		t.Fatalf("wrong form contents: %+v", got.Fields())
	}
}

func TestRequestConfigError(t *testing.T) {
	r, _, conn := newRoom(t)

	var fired, errs int
	r.OnError(func(stanza.Stanza) { errs++ })
	r.RequestConfig(func(*form.Data) { fired++ })

	iq := stanza.WrapIQ(conn.LastSent())
	conn.ReceiveString(`<iq type="error" id="` + iq.ID() + `"></iq>`)

	if fired != 0 {
		t.Fatalf("callback fired on an error response")
	}
	if errs != 1 {
		t.Fatalf("expected one error notification, got %d", errs)
	}
}

func TestSubmitConfig(t *testing.T) {
	r, _, conn := newRoom(t)

	cfg := form.New(form.TypeForm)
	cfg.Set("muc#roomconfig_roomname", "Renamed")
	r.SubmitConfig(cfg)

	iq := stanza.WrapIQ(conn.LastSent())
	if iq.Type() != stanza.SetIQ || !iq.To().Equal(jid.MustParse("room@muc.d")) {
		t.Fatalf("wrong configuration submission: %v", iq.Packet)
	}
	q := iq.Query()
	if q == nil || q.Name.Space != muc.NSOwner {
		t.Fatalf("submission missing the owner query: %v", iq.Packet)
	}
	x := q.FirstChild("x")
	if x == nil || x.Attr("type") != "submit" {
		t.Fatalf("submission missing the submit form: %v", iq.Packet)
	}
	field := x.FirstChild("field")
	if field == nil || field.Attr("var") != "muc#roomconfig_roomname" || field.ChildText("value") != "Renamed" {
		t.Fatalf("form contents lost in submission: %v", iq.Packet)
	}
}
