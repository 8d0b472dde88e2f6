// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package sessiontest provides fake connections and authenticators for
// testing the session and room engines without a server. Everything runs
// synchronously on the test goroutine.
package sessiontest // import "github.com/xose/emite/internal/sessiontest"

import (
	"github.com/xose/emite/event"
	"github.com/xose/emite/jid"
	"github.com/xose/emite/packet"
	"github.com/xose/emite/session"
)

const (
	topicConnStatus = "sessiontest.conn-status"
	topicConnStanza = "sessiontest.conn-stanza"
	topicAuthResult = "sessiontest.auth-result"
)

type connStatus struct {
	status      session.ConnectionStatus
	description string
}

// Conn is an in-memory session.Connection. Outgoing stanzas are recorded in
// Sent; inbound traffic and status changes are injected with Receive,
// ReceiveString, and StatusChanged.
type Conn struct {
	bus *event.Bus

	// Sent records every stanza handed to the transport, in order.
	Sent []*packet.Packet

	// Errors is returned by HasErrors.
	Errors bool

	// Settings is returned by Pause.
	Settings *session.StreamSettings

	Connects    int
	Disconnects int
	Restarts    int
	Resumed     *session.StreamSettings
}

// NewConn creates a fake connection.
func NewConn() *Conn {
	return &Conn{bus: event.NewBus()}
}

// Connect implements session.Connection.
func (c *Conn) Connect() { c.Connects++ }

// Disconnect implements session.Connection.
func (c *Conn) Disconnect() { c.Disconnects++ }

// RestartStream implements session.Connection.
func (c *Conn) RestartStream() { c.Restarts++ }

// Pause implements session.Connection.
func (c *Conn) Pause() *session.StreamSettings { return c.Settings }

// Resume implements session.Connection.
func (c *Conn) Resume(_ jid.JID, settings *session.StreamSettings) { c.Resumed = settings }

// Send implements session.Connection.
func (c *Conn) Send(p *packet.Packet) { c.Sent = append(c.Sent, p) }

// HasErrors implements session.Connection.
func (c *Conn) HasErrors() bool { return c.Errors }

// OnStatusChanged implements session.Connection.
func (c *Conn) OnStatusChanged(f func(status session.ConnectionStatus, description string)) *event.Registration {
	return c.bus.Subscribe(topicConnStatus, c, func(payload interface{}) {
		cs := payload.(connStatus)
		f(cs.status, cs.description)
	})
}

// OnStanzaReceived implements session.Connection.
func (c *Conn) OnStanzaReceived(f func(p *packet.Packet)) *event.Registration {
	return c.bus.Subscribe(topicConnStanza, c, func(payload interface{}) {
		f(payload.(*packet.Packet))
	})
}

// StatusChanged reports a connection status change to subscribers.
func (c *Conn) StatusChanged(status session.ConnectionStatus, description string) {
	c.bus.Publish(topicConnStatus, c, connStatus{status: status, description: description})
}

// Receive delivers an inbound stanza to subscribers.
func (c *Conn) Receive(p *packet.Packet) {
	c.bus.Publish(topicConnStanza, c, p)
}

// ReceiveString parses s and delivers it as an inbound stanza. It panics on
// malformed XML; it is meant for literal test fixtures.
func (c *Conn) ReceiveString(s string) {
	p, err := packet.ParseString(s)
	if err != nil {
		panic("sessiontest: bad fixture: " + err.Error())
	}
	c.Receive(p)
}

// LastSent returns the most recently sent stanza, or nil if nothing was
// sent.
func (c *Conn) LastSent() *packet.Packet {
	if len(c.Sent) == 0 {
		return nil
	}
	return c.Sent[len(c.Sent)-1]
}

// Auth is an in-memory session.Authenticator. Requests are recorded; the
// test resolves them with Succeed or Fail.
type Auth struct {
	bus *event.Bus

	// Requests records the credentials of every authorization request.
	Requests []session.Credentials
}

// NewAuth creates a fake authenticator.
func NewAuth() *Auth {
	return &Auth{bus: event.NewBus()}
}

// SendAuthorizationRequest implements session.Authenticator.
func (a *Auth) SendAuthorizationRequest(creds session.Credentials) {
	a.Requests = append(a.Requests, creds)
}

// OnAuthorizationResult implements session.Authenticator.
func (a *Auth) OnAuthorizationResult(f func(result session.AuthorizationResult)) *event.Registration {
	return a.bus.Subscribe(topicAuthResult, a, func(payload interface{}) {
		f(payload.(session.AuthorizationResult))
	})
}

// Succeed reports a successful authentication for the given address.
func (a *Auth) Succeed(addr jid.JID) {
	a.bus.Publish(topicAuthResult, a, session.AuthorizationResult{Success: true, Addr: addr})
}

// Fail reports a failed authentication.
func (a *Auth) Fail() {
	a.bus.Publish(topicAuthResult, a, session.AuthorizationResult{Success: false})
}

// NewSession wires a fake connection and authenticator into a session
// engine, returning all three.
func NewSession() (*session.Session, *Conn, *Auth) {
	conn := NewConn()
	auth := NewAuth()
	s := session.New(event.NewBus(), conn, auth)
	return s, conn, auth
}

// Login drives a session through a complete successful login handshake:
// connect, stream features, authorization, bind, and session establishment.
// It returns the bound address.
func Login(s *session.Session, conn *Conn, auth *Auth, addr jid.JID, password string) jid.JID {
	s.Login(addr, password)
	conn.ReceiveString(`<features><mechanisms xmlns="urn:ietf:params:xml:ns:xmpp-sasl"><mechanism>PLAIN</mechanism></mechanisms></features>`)
	auth.Succeed(addr)

	resource := addr.Resourcepart()
	if resource == "" {
		resource = "testresource"
	}
	bound, err := addr.Bare().WithResource(resource)
	if err != nil {
		panic("sessiontest: bad resource: " + err.Error())
	}

	conn.ReceiveString(`<iq type="result" id="bind-resource">` +
		`<bind xmlns="urn:ietf:params:xml:ns:xmpp-bind"><jid>` + bound.String() + `</jid></bind></iq>`)
	conn.ReceiveString(`<iq type="result" id="session-request" to="` + bound.String() + `"></iq>`)
	return bound
}
