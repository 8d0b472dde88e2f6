// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package chat defines the capability surface shared by all conversation
// types and implements the one-to-one variant. The room variant lives in the
// muc package.
package chat // import "github.com/xose/emite/chat"

import (
	"github.com/xose/emite/event"
	"github.com/xose/emite/jid"
	"github.com/xose/emite/session"
	"github.com/xose/emite/stanza"
)

const topicMessageReceived = "chat.message-received"

// Chat is a conversation with a fixed correspondent: another user for a
// one-to-one chat, a room for group chat. Implementations force the
// addressing of outgoing messages and republish the inbound messages that
// belong to the conversation.
type Chat interface {
	Addr() jid.JID
	Send(m stanza.Message)
	Close()
	OnMessage(f func(m stanza.Message)) *event.Registration
}

// Pair is a one-to-one chat with another user. Create pairs with NewPair.
type Pair struct {
	session *session.Session
	bus     *event.Bus

	addr   jid.JID
	thread string
	reg    *event.Registration
}

var _ Chat = (*Pair)(nil)

// NewPair creates a one-to-one chat with the given user. Inbound chat
// messages from that user (any resource) are republished with this pair as
// the event source.
func NewPair(s *session.Session, addr jid.JID) *Pair {
	p := &Pair{session: s, bus: s.Bus(), addr: addr}
	p.reg = s.OnMessage(p.handleMessage)
	return p
}

// Addr returns the correspondent's address.
func (p *Pair) Addr() jid.JID {
	return p.addr
}

// Thread returns the conversation thread, if one was seen or set.
func (p *Pair) Thread() string {
	return p.thread
}

// SetThread sets the conversation thread stamped on outgoing messages.
func (p *Pair) SetThread(thread string) {
	p.thread = thread
}

// Send delivers a chat message to the correspondent. The addressing is
// forced: to the correspondent, type chat.
func (p *Pair) Send(m stanza.Message) {
	m.SetTo(p.addr)
	m.SetType(stanza.ChatMessage)
	if p.thread != "" {
		m.SetThread(p.thread)
	}
	p.session.Send(m.Packet)
}

// Close stops the pair from receiving messages.
func (p *Pair) Close() {
	if p.reg != nil {
		p.reg.Cancel()
		p.reg = nil
	}
}

// OnMessage registers a handler for inbound messages belonging to this
// conversation.
func (p *Pair) OnMessage(f func(m stanza.Message)) *event.Registration {
	return p.bus.Subscribe(topicMessageReceived, p, func(payload interface{}) {
		f(payload.(stanza.Message))
	})
}

func (p *Pair) handleMessage(m stanza.Message) {
	if t := m.Type(); t != stanza.ChatMessage && t != stanza.NormalMessage {
		return
	}
	from := m.From()
	if from.Zero() || !from.Bare().Equal(p.addr.Bare()) {
		return
	}
	if p.thread == "" {
		p.thread = m.Thread()
	}
	p.bus.Publish(topicMessageReceived, p, m)
}
