// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package websocket implements the XMPP subprotocol over websockets as
// described in RFC 7395.
//
// Each websocket message carries exactly one complete XML element. The
// stream header exchange of a TCP stream is replaced by the <open/> and
// <close/> elements of the framing namespace.
package websocket // import "github.com/xose/emite/websocket"

import (
	"encoding/xml"

	"golang.org/x/net/websocket"
	"golang.org/x/text/language"

	"github.com/xose/emite/event"
	"github.com/xose/emite/internal/ns"
	"github.com/xose/emite/jid"
	"github.com/xose/emite/packet"
	"github.com/xose/emite/session"
)

// subprotocol is the websocket subprotocol name registered for XMPP.
const subprotocol = "xmpp"

// Open is the element that starts a framed stream, taking the place of the
// stream header.
type Open struct {
	XMLName xml.Name     `xml:"urn:ietf:params:xml:ns:xmpp-framing open"`
	To      string       `xml:"to,attr"`
	From    string       `xml:"from,attr,omitempty"`
	Version string       `xml:"version,attr,omitempty"`
	Lang    language.Tag `xml:"-"`
	ID      string       `xml:"id,attr,omitempty"`
}

// MarshalXML implements xml.Marshaler.
func (o Open) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	lang := o.Lang.String()
	if o.Lang == language.Und {
		lang = ""
	}
	return e.Encode(struct {
		XMLName xml.Name `xml:"urn:ietf:params:xml:ns:xmpp-framing open"`
		To      string   `xml:"to,attr"`
		From    string   `xml:"from,attr,omitempty"`
		Version string   `xml:"version,attr,omitempty"`
		Lang    string   `xml:"http://www.w3.org/XML/1998/namespace lang,attr,omitempty"`
		ID      string   `xml:"id,attr,omitempty"`
	}{
		To:      o.To,
		From:    o.From,
		Version: o.Version,
		Lang:    lang,
		ID:      o.ID,
	})
}

// Close is the element that ends a framed stream.
type Close struct {
	XMLName xml.Name `xml:"urn:ietf:params:xml:ns:xmpp-framing close"`
}

const (
	topicStatus = "websocket.status"
	topicStanza = "websocket.stanza"
)

type connStatus struct {
	status      session.ConnectionStatus
	description string
}

// Conn is a session.Connection over a websocket. Create connections with
// New; Connect dials and starts the read loop, which delivers all stanza and
// status notifications from its own goroutine.
type Conn struct {
	bus    *event.Bus
	url    string
	domain jid.JID
	lang   language.Tag

	ws        *websocket.Conn
	hasErrors bool
}

var _ session.Connection = (*Conn)(nil)

// Option configures a connection.
type Option func(*Conn)

// Lang sets the declared language of the stream.
func Lang(tag language.Tag) Option {
	return func(c *Conn) {
		c.lang = tag
	}
}

// New creates a connection that will dial the given websocket URL and open a
// stream to the given server domain.
func New(url string, domain jid.JID, opts ...Option) *Conn {
	c := &Conn{
		bus:    event.NewBus(),
		url:    url,
		domain: domain.Domain(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect implements session.Connection. Dial or stream failures surface as
// an error status notification.
func (c *Conn) Connect() {
	cfg, err := websocket.NewConfig(c.url, c.url)
	if err != nil {
		c.fail(err)
		return
	}
	cfg.Protocol = []string{subprotocol}

	ws, err := websocket.DialConfig(cfg)
	if err != nil {
		c.fail(err)
		return
	}
	c.ws = ws
	c.hasErrors = false
	c.publishStatus(session.ConnConnected, "")
	c.sendOpen()
	go c.readLoop(ws)
}

// Disconnect implements session.Connection. The stream is closed with a
// framing <close/> before the socket is torn down.
func (c *Conn) Disconnect() {
	ws := c.ws
	if ws == nil {
		return
	}
	c.ws = nil
	if b, err := xml.Marshal(Close{}); err == nil {
		websocket.Message.Send(ws, string(b))
	}
	ws.Close()
	c.publishStatus(session.ConnDisconnected, "")
}

// RestartStream implements session.Connection by sending a fresh <open/>
// element, as required after SASL negotiation.
func (c *Conn) RestartStream() {
	if c.ws != nil {
		c.sendOpen()
	}
}

// Pause implements session.Connection. Websocket streams cannot be
// suspended, so there are never settings to resume from.
func (c *Conn) Pause() *session.StreamSettings {
	return nil
}

// Resume implements session.Connection by dialing again; there is no
// suspended stream to reattach to.
func (c *Conn) Resume(_ jid.JID, _ *session.StreamSettings) {
	c.Connect()
}

// Send implements session.Connection. Each stanza becomes one websocket
// message.
func (c *Conn) Send(p *packet.Packet) {
	if c.ws == nil {
		c.hasErrors = true
		return
	}
	if err := websocket.Message.Send(c.ws, p.String()); err != nil {
		c.fail(err)
	}
}

// HasErrors implements session.Connection.
func (c *Conn) HasErrors() bool {
	return c.hasErrors
}

// OnStatusChanged implements session.Connection.
func (c *Conn) OnStatusChanged(f func(status session.ConnectionStatus, description string)) *event.Registration {
	return c.bus.Subscribe(topicStatus, c, func(payload interface{}) {
		cs := payload.(connStatus)
		f(cs.status, cs.description)
	})
}

// OnStanzaReceived implements session.Connection.
func (c *Conn) OnStanzaReceived(f func(p *packet.Packet)) *event.Registration {
	return c.bus.Subscribe(topicStanza, c, func(payload interface{}) {
		f(payload.(*packet.Packet))
	})
}

func (c *Conn) sendOpen() {
	o := Open{To: c.domain.String(), Version: "1.0", Lang: c.lang}
	b, err := xml.Marshal(o)
	if err != nil {
		c.fail(err)
		return
	}
	if err := websocket.Message.Send(c.ws, string(b)); err != nil {
		c.fail(err)
	}
}

func (c *Conn) readLoop(ws *websocket.Conn) {
	for {
		var frame string
		if err := websocket.Message.Receive(ws, &frame); err != nil {
			// A receive error after Disconnect is the expected socket
			// teardown, not a stream failure.
			if c.ws == ws {
				c.ws = nil
				c.fail(err)
				c.publishStatus(session.ConnDisconnected, "")
			}
			return
		}

		p, err := packet.ParseString(frame)
		if err != nil {
			c.fail(err)
			continue
		}
		if p.Name.Space == ns.Framing {
			switch p.Name.Local {
			case "open":
				// Server acknowledged the stream; nothing to deliver.
			case "close":
				c.Disconnect()
				return
			}
			continue
		}
		c.bus.Publish(topicStanza, c, p)
	}
}

func (c *Conn) fail(err error) {
	c.hasErrors = true
	c.publishStatus(session.ConnError, err.Error())
}

func (c *Conn) publishStatus(status session.ConnectionStatus, description string) {
	c.bus.Publish(topicStatus, c, connStatus{status: status, description: description})
}
