// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package session implements the XMPP session engine: connecting,
// authenticating, binding a resource, establishing a session, correlating IQ
// request/response exchanges, and queueing outgoing traffic until the
// session is ready.
//
// The engine is event driven and single threaded: it reacts to connection
// notifications, publishes its own notifications on an event.Bus with itself
// as the source, and never blocks waiting for the server. Waiting for a
// round trip is always expressed as a one-shot callback.
package session // import "github.com/xose/emite/session"

import (
	"strconv"

	"github.com/xose/emite/event"
	"github.com/xose/emite/jid"
	"github.com/xose/emite/packet"
	"github.com/xose/emite/stanza"
)

// IQCallback is a one-shot callback receiving the response to a tracked IQ.
// It fires at most once, for the first result or error response matching the
// request id.
type IQCallback func(iq stanza.IQ)

// Session is the XMPP session engine. Create one with New; all methods and
// all notifications must run on a single goroutine.
type Session struct {
	bus  *event.Bus
	conn Connection
	auth Authenticator

	status      Status
	iqID        uint64
	iqCallbacks map[string]IQCallback
	queue       []*packet.Packet
	credentials *Credentials
	userAddr    jid.JID
}

// New creates a session engine over the given connection and authenticator
// and subscribes to their notifications.
func New(bus *event.Bus, conn Connection, auth Authenticator) *Session {
	s := &Session{
		bus:         bus,
		conn:        conn,
		auth:        auth,
		status:      StatusDisconnected,
		iqCallbacks: make(map[string]IQCallback),
	}

	conn.OnStatusChanged(s.handleConnectionStatus)
	conn.OnStanzaReceived(s.handleStanza)
	auth.OnAuthorizationResult(s.handleAuthorization)

	return s
}

// Bus returns the event bus the session publishes on.
func (s *Session) Bus() *event.Bus {
	return s.bus
}

// Status returns the current session status.
func (s *Session) Status() Status {
	return s.status
}

// IsStatus reports whether the current status equals the given one.
func (s *Session) IsStatus(status Status) bool {
	return s.status == status
}

// IsReady reports whether the session has a bound user address and can send
// stanzas without queueing.
func (s *Session) IsReady() bool {
	return !s.userAddr.Zero()
}

// CurrentAddr returns the session's bound user address, or the zero JID
// before login completes.
func (s *Session) CurrentAddr() jid.JID {
	return s.userAddr
}

// SetStatus moves the session to the given status. The ready flush and the
// disconnected address-clear run whenever their target status is set, even
// redundantly (they are idempotent guards); the status-changed notification
// fires only on an actual edge.
func (s *Session) SetStatus(status Status) {
	switch status {
	case StatusReady:
		s.sendQueued()
	case StatusDisconnected:
		s.userAddr = jid.JID{}
	}
	if s.status != status {
		s.status = status
		s.bus.Publish(topicStatusChanged, s, status)
	}
}

// Login connects and authenticates with the given address and password. If
// the address carries no resourcepart one is generated during binding.
func (s *Session) Login(addr jid.JID, password string) {
	s.LoginCredentials(NewCredentials(addr, password))
}

// LoginCredentials connects and authenticates with the given credentials.
// It does nothing unless the session is disconnected. The credentials are
// staged until the server advertises its SASL mechanisms and are handed to
// the authenticator exactly once.
func (s *Session) LoginCredentials(creds Credentials) {
	if s.status != StatusDisconnected {
		return
	}
	s.SetStatus(StatusConnecting)
	s.conn.Connect()
	s.credentials = &creds
}

// Logout tears the session down from any state except disconnected.
func (s *Session) Logout() {
	if s.status == StatusDisconnected {
		return
	}
	s.SetStatus(StatusLoggingOut)
	s.userAddr = jid.JID{}
	s.conn.Disconnect()
	s.SetStatus(StatusDisconnected)
}

// Pause suspends the stream, returning the settings needed to resume it, or
// nil if the transport cannot be suspended.
func (s *Session) Pause() *StreamSettings {
	return s.conn.Pause()
}

// Resume reattaches to a previously paused stream and marks the session
// ready again.
func (s *Session) Resume(addr jid.JID, settings *StreamSettings) {
	s.userAddr = addr
	s.SetStatus(StatusResume)
	s.conn.Resume(addr, settings)
	s.SetStatus(StatusReady)
}

// Send delivers a stanza to the transport. While the transport has errors or
// no user address is bound yet, the stanza is queued instead and delivered,
// in order, when the session becomes ready. Right before handoff the stanza
// is stamped with the bound address and the before-stanza-sent notification
// fires, allowing observers to rewrite it in place.
func (s *Session) Send(p *packet.Packet) {
	if s.conn.HasErrors() || s.userAddr.Zero() {
		s.queue = append(s.queue, p)
		return
	}
	p.SetAttr("from", s.userAddr.String())
	s.bus.Publish(topicBeforeSend, s, p)
	s.conn.Send(p)
}

// SendIQ sends a request IQ and registers a one-shot callback for its
// response. The IQ is stamped with a correlation id built from the category
// and a counter that is never reused within this session's lifetime. A nil
// callback means fire and forget: the response is consumed and dropped.
// IQs that are already of a response type are rejected (no-op).
func (s *Session) SendIQ(category string, iq stanza.IQ, cb IQCallback) {
	if iq.IsResponse() {
		return
	}
	key := category + "_" + strconv.FormatUint(s.iqID, 10)
	s.iqID++
	s.iqCallbacks[key] = cb
	iq.SetID(key)
	s.Send(iq.Packet)
}

func (s *Session) sendQueued() {
	pending := s.queue
	s.queue = nil
	for _, p := range pending {
		// Re-enters Send: if the transport newly errors mid-flush the
		// remaining stanzas queue again.
		s.Send(p)
	}
}

func (s *Session) handleConnectionStatus(status ConnectionStatus, _ string) {
	switch status {
	case ConnConnected:
		s.SetStatus(StatusConnected)
	case ConnError:
		s.SetStatus(StatusError)
	case ConnDisconnected:
		s.SetStatus(StatusDisconnected)
	}
}

func (s *Session) handleStanza(p *packet.Packet) {
	switch p.Name.Local {
	case "message":
		s.bus.Publish(topicMessageReceived, s, stanza.WrapMessage(p))
	case "presence":
		s.bus.Publish(topicPresenceReceived, s, stanza.WrapPresence(p))
	case "iq":
		iq := stanza.WrapIQ(p)
		if t := iq.Type(); t == stanza.GetIQ || t == stanza.SetIQ {
			s.bus.Publish(topicIQReceived, s, iq)
			return
		}
		id := iq.ID()
		cb, tracked := s.iqCallbacks[id]
		if !tracked {
			// Either a response we already consumed or an exchange we never
			// tracked; both are dropped silently.
			return
		}
		delete(s.iqCallbacks, id)
		if cb != nil {
			cb(iq)
		}
	case "features":
		if s.credentials != nil && p.HasChild("mechanisms") {
			s.SetStatus(StatusConnecting)
			creds := *s.credentials
			s.credentials = nil
			s.auth.SendAuthorizationRequest(creds)
		}
	}
}

func (s *Session) handleAuthorization(result AuthorizationResult) {
	if !result.Success {
		s.SetStatus(StatusNotAuthorized)
		s.conn.Disconnect()
		return
	}
	s.SetStatus(StatusAuthorized)
	s.conn.RestartStream()
	s.bindResource(result.Addr.Resourcepart())
}
