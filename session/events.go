// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package session

import (
	"github.com/xose/emite/event"
	"github.com/xose/emite/packet"
	"github.com/xose/emite/stanza"
)

// Topics published by the session with itself as the event source.
const (
	topicBeforeSend       = "session.before-stanza-sent"
	topicIQReceived       = "session.iq-received"
	topicMessageReceived  = "session.message-received"
	topicPresenceReceived = "session.presence-received"
	topicStatusChanged    = "session.status-changed"
)

// OnBeforeSend registers a handler that runs right before a stanza is handed
// to the transport. The handler may mutate the packet in place.
func (s *Session) OnBeforeSend(f func(p *packet.Packet)) *event.Registration {
	return s.bus.Subscribe(topicBeforeSend, s, func(payload interface{}) {
		f(payload.(*packet.Packet))
	})
}

// OnIQ registers a handler for inbound get and set IQs. Response IQs are
// matched against pending callbacks instead and never reach this handler.
func (s *Session) OnIQ(f func(iq stanza.IQ)) *event.Registration {
	return s.bus.Subscribe(topicIQReceived, s, func(payload interface{}) {
		f(payload.(stanza.IQ))
	})
}

// OnMessage registers a handler for inbound messages.
func (s *Session) OnMessage(f func(m stanza.Message)) *event.Registration {
	return s.bus.Subscribe(topicMessageReceived, s, func(payload interface{}) {
		f(payload.(stanza.Message))
	})
}

// OnPresence registers a handler for inbound presences.
func (s *Session) OnPresence(f func(p stanza.Presence)) *event.Registration {
	return s.bus.Subscribe(topicPresenceReceived, s, func(payload interface{}) {
		f(payload.(stanza.Presence))
	})
}

// OnStatusChanged registers a handler for session status edges. When replay
// is true the handler is first invoked synchronously with the current
// status.
func (s *Session) OnStatusChanged(replay bool, f func(status Status)) *event.Registration {
	if replay {
		f(s.status)
	}
	return s.bus.Subscribe(topicStatusChanged, s, func(payload interface{}) {
		f(payload.(Status))
	})
}
