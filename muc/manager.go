// Copyright 2023 The Emite Authors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package muc

import (
	"github.com/xose/emite/event"
	"github.com/xose/emite/jid"
	"github.com/xose/emite/session"
	"github.com/xose/emite/stanza"
)

// Manager keeps one Room per room address on a session and routes received
// invitations.
type Manager struct {
	session *session.Session
	bus     *event.Bus
	rooms   map[string]*Room
}

// NewManager creates a room manager on the given session.
func NewManager(s *session.Session) *Manager {
	m := &Manager{
		session: s,
		bus:     s.Bus(),
		rooms:   make(map[string]*Room),
	}
	s.OnMessage(m.handleMessage)
	return m
}

// Open returns the room with the given occupant address (room address +
// nickname), creating and entering it if needed. An existing locked room is
// re-entered.
func (m *Manager) Open(addr jid.JID, opts ...Option) (*Room, error) {
	key := addr.Bare().String()
	if r, ok := m.rooms[key]; ok {
		r.ReEnter(opts...)
		return r, nil
	}
	r, err := New(m.session, addr)
	if err != nil {
		return nil, err
	}
	m.rooms[key] = r
	r.Open(opts...)
	return r, nil
}

// Room returns the room with the given address, if the manager tracks one.
// The address's resourcepart, if any, is ignored.
func (m *Manager) Room(addr jid.JID) (*Room, bool) {
	r, ok := m.rooms[addr.Bare().String()]
	return r, ok
}

// Close leaves and discards the room with the given address.
func (m *Manager) Close(addr jid.JID) {
	key := addr.Bare().String()
	r, ok := m.rooms[key]
	if !ok {
		return
	}
	r.Close()
	r.dispose()
	delete(m.rooms, key)
}

// OnInvitation registers a handler for received room invitations, both
// mediated and direct.
func (m *Manager) OnInvitation(f func(inv Invitation)) *event.Registration {
	return m.bus.Subscribe(topicInvitationReceived, m, func(payload interface{}) {
		f(payload.(Invitation))
	})
}

func (m *Manager) handleMessage(msg stanza.Message) {
	if inv, ok := ParseInvitation(msg); ok {
		m.bus.Publish(topicInvitationReceived, m, inv)
	}
}
