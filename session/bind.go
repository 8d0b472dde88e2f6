// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package session

import (
	"github.com/xose/emite/internal/id"
	"github.com/xose/emite/internal/ns"
	"github.com/xose/emite/jid"
	"github.com/xose/emite/stanza"
)

// The bind and session-establishment IQs use fixed, well-known ids instead
// of the category/counter scheme: they happen before the session is
// addressable, and their callbacks must be registered without going through
// SendIQ's queue-respecting path.
const (
	bindResourceID   = "bind-resource"
	sessionRequestID = "session-request"
)

// bindResource starts the post-authorization handshake by requesting that
// the server bind the given resource (or a generated one when empty). The
// IQ is written straight to the connection: the session is not ready yet, so
// Send would queue it forever.
func (s *Session) bindResource(resource string) {
	if resource == "" {
		resource = id.Random()
	}

	iq := stanza.NewIQ(stanza.SetIQ)
	iq.SetID(bindResourceID)
	iq.AddChild("bind", ns.Bind).AddChild("resource", "").SetText(resource)

	s.iqCallbacks[bindResourceID] = func(resp stanza.IQ) {
		bound := resp.FirstChild("bind")
		if !resp.IsResult() || bound == nil {
			s.SetStatus(StatusError)
			return
		}
		addr, err := jid.Parse(bound.ChildText("jid"))
		if err != nil {
			s.SetStatus(StatusError)
			return
		}
		s.SetStatus(StatusBound)
		s.establishSession(addr)
	}

	s.conn.Send(iq.Packet)
}

// establishSession performs the second handshake step: a session request
// addressed to the server host. Its result carries the authoritative bound
// address in the to attribute.
func (s *Session) establishSession(addr jid.JID) {
	iq := stanza.NewIQ(stanza.SetIQ)
	iq.SetID(sessionRequestID)
	iq.SetTo(addr.Domain())
	iq.SetFrom(addr)
	iq.AddChild("session", ns.Session)

	s.iqCallbacks[sessionRequestID] = func(resp stanza.IQ) {
		if !resp.IsResult() {
			s.SetStatus(StatusError)
			return
		}
		bound := resp.To()
		if bound.Zero() {
			bound = addr
		}
		s.userAddr = bound
		s.SetStatus(StatusLoggedIn)
	}

	s.conn.Send(iq.Packet)
}
