// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package session

import (
	"encoding/base64"

	"mellium.im/sasl"

	"github.com/xose/emite/event"
	"github.com/xose/emite/internal/ns"
	"github.com/xose/emite/jid"
	"github.com/xose/emite/packet"
)

const topicAuthorizationResult = "session.authorization-result"

// AuthorizationResult is the outcome of an authentication attempt. On
// success Addr carries the authorized address.
type AuthorizationResult struct {
	Success bool
	Addr    jid.JID
}

// Authenticator attempts authentication on behalf of the session. The
// session stages credentials during login and hands them over exactly once;
// the outcome comes back through the authorization-result notification.
type Authenticator interface {
	SendAuthorizationRequest(creds Credentials)
	OnAuthorizationResult(f func(result AuthorizationResult)) *event.Registration
}

// SASLAuthenticator performs SASL authentication over the connection's
// stream. PLAIN, SCRAM-SHA-1, SCRAM-SHA-256, and ANONYMOUS are supported;
// the strongest mechanism advertised by the server is preferred.
type SASLAuthenticator struct {
	bus  *event.Bus
	conn Connection

	negotiator *sasl.Negotiator
	addr       jid.JID
	mechanisms []string
}

// NewSASLAuthenticator creates an authenticator listening on the given
// connection.
func NewSASLAuthenticator(bus *event.Bus, conn Connection) *SASLAuthenticator {
	a := &SASLAuthenticator{bus: bus, conn: conn}
	conn.OnStanzaReceived(a.handleStanza)
	return a
}

// OnAuthorizationResult registers a handler for authentication outcomes.
func (a *SASLAuthenticator) OnAuthorizationResult(f func(result AuthorizationResult)) *event.Registration {
	return a.bus.Subscribe(topicAuthorizationResult, a, func(payload interface{}) {
		f(payload.(AuthorizationResult))
	})
}

// SendAuthorizationRequest starts authentication with the given credentials.
// The credentials are consumed by this call and not retained.
func (a *SASLAuthenticator) SendAuthorizationRequest(creds Credentials) {
	a.addr = creds.Addr

	auth := packet.New("auth", ns.SASL)
	if creds.IsAnonymous() {
		auth.SetAttr("mechanism", "ANONYMOUS")
		a.conn.Send(auth)
		return
	}

	mech, ok := a.selectMechanism()
	if !ok {
		a.fail()
		return
	}
	username := creds.Addr.Localpart()
	password := creds.Password
	a.negotiator = sasl.NewClient(mech,
		sasl.Credentials(func() ([]byte, []byte, []byte) {
			return []byte(username), []byte(password), nil
		}),
		sasl.RemoteMechanisms(a.mechanisms...),
	)

	_, resp, err := a.negotiator.Step(nil)
	if err != nil {
		a.fail()
		return
	}
	auth.SetAttr("mechanism", mech.Name)
	auth.SetText(encodePayload(resp))
	a.conn.Send(auth)
}

// selectMechanism picks the strongest mechanism the server advertised. Only
// advertised mechanisms are negotiated; ok is false when none is usable.
func (a *SASLAuthenticator) selectMechanism() (mech sasl.Mechanism, ok bool) {
	for _, m := range [...]sasl.Mechanism{sasl.ScramSha256, sasl.ScramSha1, sasl.Plain} {
		for _, name := range a.mechanisms {
			if name == m.Name {
				return m, true
			}
		}
	}
	return sasl.Mechanism{}, false
}

func (a *SASLAuthenticator) handleStanza(p *packet.Packet) {
	if p.Name.Local == "features" {
		if m := p.FirstChild("mechanisms"); m != nil {
			a.mechanisms = a.mechanisms[:0]
			for _, c := range m.ChildrenNamed("mechanism", "") {
				a.mechanisms = append(a.mechanisms, c.Text)
			}
		}
		return
	}
	if p.Name.Space != ns.SASL {
		return
	}

	switch p.Name.Local {
	case "challenge":
		data, err := decodePayload(p.Text)
		if err != nil {
			a.fail()
			return
		}
		_, resp, err := a.negotiator.Step(data)
		if err != nil {
			a.fail()
			return
		}
		response := packet.New("response", ns.SASL)
		response.SetText(encodePayload(resp))
		a.conn.Send(response)
	case "success":
		// SCRAM sends the server signature with the success element; the final
		// step verifies it.
		if a.negotiator != nil && p.Text != "" {
			data, err := decodePayload(p.Text)
			if err != nil {
				a.fail()
				return
			}
			if _, _, err = a.negotiator.Step(data); err != nil {
				a.fail()
				return
			}
		}
		addr := a.addr
		a.reset()
		a.bus.Publish(topicAuthorizationResult, a, AuthorizationResult{Success: true, Addr: addr})
	case "failure":
		a.fail()
	}
}

func (a *SASLAuthenticator) fail() {
	a.reset()
	a.bus.Publish(topicAuthorizationResult, a, AuthorizationResult{Success: false})
}

func (a *SASLAuthenticator) reset() {
	a.negotiator = nil
	a.addr = jid.JID{}
}

// RFC 6120 §6.4.2: a zero-length initial response is transmitted as a single
// equals sign.
func encodePayload(b []byte) string {
	if len(b) == 0 {
		return "="
	}
	return base64.StdEncoding.EncodeToString(b)
}

func decodePayload(s string) ([]byte, error) {
	if s == "" || s == "=" {
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(s)
}
