// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package stanza contains typed wrappers for the three XMPP stanza kinds
// (message, presence, and IQ) over the generic packet tree.
//
// The wrappers share the underlying *packet.Packet: mutating a wrapper
// mutates the packet that will be serialized, which is what allows
// before-send observers to rewrite outgoing traffic in place.
package stanza // import "github.com/xose/emite/stanza"

import (
	"encoding/xml"

	"github.com/xose/emite/internal/ns"
	"github.com/xose/emite/jid"
	"github.com/xose/emite/packet"
)

// Is tests whether name is a valid stanza name.
func Is(name xml.Name) bool {
	return (name.Local == "iq" || name.Local == "message" || name.Local == "presence") &&
		(name.Space == "" || name.Space == ns.Client)
}

// Stanza is the common addressed-element wrapper shared by Message, Presence,
// and IQ. It may also be used directly for stanzas built element by element.
type Stanza struct {
	*packet.Packet
}

// New creates an empty stanza with the given name ("message", "presence", or
// "iq").
func New(name string) Stanza {
	return Stanza{Packet: packet.New(name, "")}
}

// ID returns the stanza's id attribute.
func (s Stanza) ID() string {
	return s.Attr("id")
}

// SetID sets the stanza's id attribute.
func (s Stanza) SetID(id string) {
	s.SetAttr("id", id)
}

// To returns the stanza's to attribute as an address, or the zero JID when
// the attribute is absent or unparsable.
func (s Stanza) To() jid.JID {
	j, err := jid.Parse(s.Attr("to"))
	if err != nil {
		return jid.JID{}
	}
	return j
}

// SetTo sets the stanza's to attribute. A zero JID removes the attribute.
func (s Stanza) SetTo(j jid.JID) {
	if j.Zero() {
		s.SetAttr("to", "")
		return
	}
	s.SetAttr("to", j.String())
}

// From returns the stanza's from attribute as an address, or the zero JID
// when the attribute is absent or unparsable.
func (s Stanza) From() jid.JID {
	j, err := jid.Parse(s.Attr("from"))
	if err != nil {
		return jid.JID{}
	}
	return j
}

// SetFrom sets the stanza's from attribute. A zero JID removes the attribute.
func (s Stanza) SetFrom(j jid.JID) {
	if j.Zero() {
		s.SetAttr("from", "")
		return
	}
	s.SetAttr("from", j.String())
}

// TypeAttr returns the raw type attribute.
func (s Stanza) TypeAttr() string {
	return s.Attr("type")
}
