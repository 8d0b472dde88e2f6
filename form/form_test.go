// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package form_test

import (
	"testing"

	"github.com/xose/emite/form"
	"github.com/xose/emite/packet"
)

func TestEmptySubmit(t *testing.T) {
	d := form.New(form.TypeSubmit)
	const want = `<x xmlns="jabber:x:data" type="submit"></x>`
	if got := d.Packet().String(); got != want {
		t.Errorf("wrong serialization:\nwant=%s\n got=%s", want, got)
	}
}

func TestParseConfigForm(t *testing.T) {
	p, err := packet.ParseString(`<x xmlns="jabber:x:data" type="form">` +
		`<title>Configuration</title>` +
		`<instructions>Complete and submit this form to configure the room.</instructions>` +
		`<field var="FORM_TYPE" type="hidden"><value>http://jabber.org/protocol/muc#roomconfig</value></field>` +
		`<field var="muc#roomconfig_roomname" type="text-single" label="Name"><value>Ten Forward</value></field>` +
		`</x>`)
	if err != nil {
		t.Fatalf("error parsing: %v", err)
	}

	d := form.FromPacket(p)
	if d.Type() != form.TypeForm {
		t.Errorf("wrong type: %q", d.Type())
	}
	if d.Title() != "Configuration" {
		t.Errorf("wrong title: %q", d.Title())
	}
	if vals, ok := d.Get("muc#roomconfig_roomname"); !ok || len(vals) != 1 || vals[0] != "Ten Forward" {
		t.Errorf("wrong roomname values: %v", vals)
	}
}

func TestSubmitDropsDecoration(t *testing.T) {
	p, _ := packet.ParseString(`<x xmlns="jabber:x:data" type="form">` +
		`<field var="muc#roomconfig_publicroom" type="boolean" label="Public?"><value>1</value></field>` +
		`</x>`)
	d := form.FromPacket(p)
	d.Set("muc#roomconfig_publicroom", "0")

	sub := d.Submit()
	if sub.Type() != form.TypeSubmit {
		t.Errorf("wrong type: %q", sub.Type())
	}
	fields := sub.Fields()
	if len(fields) != 1 || fields[0].Label != "" || fields[0].Type != "" {
		t.Errorf("submit copy should drop labels and types: %+v", fields)
	}
	if vals, _ := sub.Get("muc#roomconfig_publicroom"); len(vals) != 1 || vals[0] != "0" {
		t.Errorf("wrong submitted values: %v", vals)
	}
}

func TestSetCreatesField(t *testing.T) {
	d := form.New(form.TypeSubmit)
	d.Set("muc#roomconfig_roomname", "Engineering")
	if vals, ok := d.Get("muc#roomconfig_roomname"); !ok || vals[0] != "Engineering" {
		t.Errorf("Set should create missing fields: %v", vals)
	}
}
