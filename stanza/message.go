// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package stanza

import (
	"github.com/xose/emite/packet"
)

// MessageType is the type of a message stanza.
// It should normally be one of the constants defined in this package.
type MessageType string

const (
	// NormalMessage is a standalone message that is sent outside the context of
	// a one-to-one conversation or group chat, and to which it is expected that
	// the recipient will reply.
	NormalMessage MessageType = ""

	// ChatMessage represents a message sent in the context of a one-to-one chat
	// session.
	ChatMessage MessageType = "chat"

	// ErrorMessage is generated by an entity that experiences an error when
	// processing a message received from another entity.
	ErrorMessage MessageType = "error"

	// GroupChatMessage is sent in the context of a multi-user chat environment.
	GroupChatMessage MessageType = "groupchat"

	// HeadlineMessage provides an alert, a notification, or other transient
	// information to which no reply is expected.
	HeadlineMessage MessageType = "headline"
)

// Message is an XMPP stanza that contains a payload for direct one-to-one
// communication with another network entity. It is often used for sending
// chat messages to an individual or group chat server, or for notifications
// and alerts that don't require a response.
type Message struct {
	Stanza
}

// NewMessage creates an empty message of the given type.
func NewMessage(t MessageType) Message {
	m := Message{Stanza: New("message")}
	m.SetType(t)
	return m
}

// WrapMessage wraps a received packet in a Message.
func WrapMessage(p *packet.Packet) Message {
	return Message{Stanza: Stanza{Packet: p}}
}

// Type returns the message type.
func (m Message) Type() MessageType {
	return MessageType(m.TypeAttr())
}

// SetType sets the message type. NormalMessage removes the type attribute.
func (m Message) SetType(t MessageType) {
	m.SetAttr("type", string(t))
}

// Body returns the message body, or the empty string if there is none.
func (m Message) Body() string {
	return m.ChildText("body")
}

// SetBody replaces the message body.
func (m Message) SetBody(body string) {
	if c := m.FirstChild("body"); c != nil {
		c.SetText(body)
		return
	}
	m.AddChild("body", "").SetText(body)
}

// Subject returns the message subject, or the empty string if there is none.
func (m Message) Subject() string {
	return m.ChildText("subject")
}

// HasSubject reports whether the message carries a subject child, even an
// empty one. Group chat subject changes are signaled by the presence of the
// child, not by its content.
func (m Message) HasSubject() bool {
	return m.HasChild("subject")
}

// SetSubject replaces the message subject.
func (m Message) SetSubject(subject string) {
	if c := m.FirstChild("subject"); c != nil {
		c.SetText(subject)
		return
	}
	m.AddChild("subject", "").SetText(subject)
}

// Thread returns the message's conversation thread, or the empty string if
// there is none.
func (m Message) Thread() string {
	return m.ChildText("thread")
}

// SetThread sets the message's conversation thread.
func (m Message) SetThread(thread string) {
	if c := m.FirstChild("thread"); c != nil {
		c.SetText(thread)
		return
	}
	m.AddChild("thread", "").SetText(thread)
}
